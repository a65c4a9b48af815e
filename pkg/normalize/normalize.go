package normalize

import (
	"fmt"
	"strings"

	"booking-sync-service/internal/domain/entity"
	"booking-sync-service/pkg/logger"
)

const fallbackServiceName = "Vehicle Service"

// Normalizer converts raw source records into the canonical booking
// projection. It never fails: missing or unparseable data yields zero values
// and a warning, because a record is only rejected later when it lacks an
// identity.
type Normalizer struct {
	logger logger.Logger
}

// NewNormalizer creates a new normalizer.
func NewNormalizer(logger logger.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// Normalize projects one raw record onto the canonical field set.
func (n *Normalizer) Normalize(raw entity.RawBooking) entity.CanonicalBooking {
	externalID := raw.ExternalID()

	canonical := entity.CanonicalBooking{
		ExternalID: externalID,
		Status:     n.resolveStatus(raw),
		Notes:      raw.StringValue(notesAliases...),
		Distance:   raw.StringValue(distanceAliases...),
		Duration:   raw.StringValue(durationAliases...),
		Meta:       raw.Meta(),
	}

	canonical.Date = n.resolveDate(raw, externalID)
	canonical.Time = NormalizeTime(raw.StringValue(timeAliases...))

	n.resolveCustomer(raw, &canonical)
	n.resolveVehicle(raw, &canonical)
	n.resolveRoute(raw, &canonical)
	n.resolveBilling(raw, &canonical)

	canonical.CouponCode = raw.StringValue(couponCodeAliases...)
	canonical.CouponDiscountPercentage = raw.StringValue(couponDiscountAliases...)

	canonical.PriceAmount, canonical.PriceCurrency, canonical.PriceFormatted = resolvePrice(raw)

	canonical.ServiceType = n.resolveServiceType(raw)
	canonical.ServiceName = composeServiceName(raw.StringValue(vehicleNameAliases...), canonical.ServiceType)

	return canonical
}

// resolveDate walks the date alias chain and returns the first value that
// normalizes to YYYY-MM-DD.
func (n *Normalizer) resolveDate(raw entity.RawBooking, externalID string) string {
	for _, key := range dateAliases {
		if value, ok := raw.Lookup(key); ok {
			if date := NormalizeDate(entity.ToString(value)); date != "" {
				return date
			}
		}
	}
	n.logger.Warn("No usable pickup date on record", "externalId", externalID)
	return ""
}

func (n *Normalizer) resolveCustomer(raw entity.RawBooking, c *entity.CanonicalBooking) {
	first := raw.StringValue(customerFirstNameAliases...)
	last := raw.StringValue(customerLastNameAliases...)
	full := strings.TrimSpace(first + " " + last)
	if full == "" {
		full = raw.StringValue(customerNameAliases...)
	}

	c.CustomerName = full
	c.CustomerEmail = raw.StringValue(customerEmailAliases...)
	c.CustomerPhone = raw.StringValue(customerPhoneAliases...)
}

func (n *Normalizer) resolveVehicle(raw entity.RawBooking, c *entity.CanonicalBooking) {
	c.VehicleID = raw.StringValue(vehicleIDAliases...)

	name := raw.StringValue(vehicleNameAliases...)
	c.VehicleMake, c.VehicleModel = SplitVehicleName(name)

	if value, ok := raw.Lookup(passengerCountAliases...); ok {
		if v, ok := entity.ToFloat(value); ok && v > 0 {
			c.VehicleCapacity = int(v)
			return
		}
	}
	c.VehicleCapacity = InferCapacity(name)
	if name != "" && c.VehicleCapacity == 0 {
		n.logger.Warn("Unknown vehicle model, capacity left unset", "vehicle", name, "externalId", c.ExternalID)
	}
}

// resolveRoute pulls pickup/dropoff from the coordinate list; index 0 is the
// pickup, index 1 the dropoff.
func (n *Normalizer) resolveRoute(raw entity.RawBooking, c *entity.CanonicalBooking) {
	value, ok := raw.Lookup("chbs_coordinate", "coordinates")
	if !ok {
		return
	}
	coords, ok := value.([]interface{})
	if !ok {
		return
	}

	address := func(i int) string {
		if i >= len(coords) {
			return ""
		}
		if point, ok := coords[i].(map[string]interface{}); ok {
			return entity.ToString(point["address"])
		}
		return ""
	}

	c.PickupLocation = address(0)
	c.DropoffLocation = address(1)
}

// resolveStatus maps the source lifecycle onto internal statuses. Published
// records are confirmed unless the plugin's declined flag or completion
// status id says otherwise; everything unpublished is pending.
func (n *Normalizer) resolveStatus(raw entity.RawBooking) string {
	status := raw.StringValue("status")
	if status != "publish" {
		if status == "" || status == "draft" || status == "pending" {
			return "pending"
		}
		return status
	}

	if raw.StringValue("chbs_booking_declined") == "1" {
		return "cancelled"
	}
	if raw.StringValue("chbs_booking_status_id") == "2" {
		return "completed"
	}
	return "confirmed"
}

// resolveBilling resolves each billing field through its alias chain. The
// chbs billing block is only trusted when its enable flag is set.
func (n *Normalizer) resolveBilling(raw entity.RawBooking, c *entity.CanonicalBooking) {
	billingEnabled := raw.StringValue(billingEnableAliases...) == "1"

	resolve := func(name string) string {
		f := billingFields[name]
		if billingEnabled {
			if v := raw.StringValue(f.chbs); v != "" {
				return v
			}
		}
		return raw.StringValue(f.standard...)
	}

	c.BillingCompanyName = resolve("company_name")
	c.BillingTaxNumber = resolve("tax_number")
	c.BillingStreetName = resolve("street_name")
	c.BillingStreetNumber = resolve("street_number")
	c.BillingCity = resolve("city")
	c.BillingState = resolve("state")
	c.BillingPostalCode = resolve("postal_code")
	c.BillingCountry = resolve("country")
}

// resolveServiceType walks the service-type chain: explicit field, airport
// heuristic on the route name, route service type, airport heuristic on the
// booking detail blob.
func (n *Normalizer) resolveServiceType(raw entity.RawBooking) string {
	if t := raw.StringValue(serviceTypeAliases...); t != "" {
		return t
	}

	if route := raw.StringValue(routeNameAliases...); route != "" {
		if strings.Contains(strings.ToLower(route), "airport") {
			return "Airport Transfer"
		}
	}

	if t := raw.StringValue(routeServiceTypeAliases...); t != "" {
		return t
	}

	if detail := raw.StringValue(bookingDetailAliases...); detail != "" {
		if strings.Contains(strings.ToLower(detail), "airport") {
			return "Airport Transfer"
		}
	}

	return ""
}

// composeServiceName builds the display name: "{vehicle} ({service type})",
// the vehicle name alone, or the fixed fallback label.
func composeServiceName(vehicleName, serviceType string) string {
	switch {
	case vehicleName != "" && serviceType != "":
		return fmt.Sprintf("%s (%s)", vehicleName, serviceType)
	case vehicleName != "":
		return vehicleName
	default:
		return fallbackServiceName
	}
}
