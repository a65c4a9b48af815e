package entity

// FieldOwnership tags who is authoritative for an internal column. The merge
// step filters by tag plus the caller's allow-list instead of special-casing
// column names.
type FieldOwnership int

const (
	// ExternallySyncable columns follow the upstream source on every sync.
	ExternallySyncable FieldOwnership = iota
	// InternallyOwned columns are written by in-app actions only; a sync run
	// touches them solely when the caller allow-lists them.
	InternallyOwned
)

// fieldColumns maps canonical field names to store columns, in the order the
// merge step writes them.
var fieldColumns = []struct {
	Field     string
	Column    string
	Ownership FieldOwnership
}{
	{"date", "date", ExternallySyncable},
	{"time", "time", ExternallySyncable},
	{"status", "status", InternallyOwned},
	{"service_name", "service_name", ExternallySyncable},
	{"service_type", "service_type", ExternallySyncable},
	{"customer_name", "customer_name", ExternallySyncable},
	{"customer_email", "customer_email", ExternallySyncable},
	{"customer_phone", "customer_phone", ExternallySyncable},
	{"price_amount", "price_amount", ExternallySyncable},
	{"price_currency", "price_currency", ExternallySyncable},
	{"price_formatted", "price_formatted", ExternallySyncable},
	{"pickup_location", "pickup_location", ExternallySyncable},
	{"dropoff_location", "dropoff_location", ExternallySyncable},
	{"distance", "distance", ExternallySyncable},
	{"duration", "duration", ExternallySyncable},
	{"vehicle_id", "vehicle_id", ExternallySyncable},
	{"vehicle_make", "vehicle_make", ExternallySyncable},
	{"vehicle_model", "vehicle_model", ExternallySyncable},
	{"vehicle_capacity", "vehicle_capacity", ExternallySyncable},
	{"billing_company_name", "billing_company_name", ExternallySyncable},
	{"billing_tax_number", "billing_tax_number", ExternallySyncable},
	{"billing_street_name", "billing_street_name", ExternallySyncable},
	{"billing_street_number", "billing_street_number", ExternallySyncable},
	{"billing_city", "billing_city", ExternallySyncable},
	{"billing_state", "billing_state", ExternallySyncable},
	{"billing_postal_code", "billing_postal_code", ExternallySyncable},
	{"billing_country", "billing_country", ExternallySyncable},
	{"coupon_code", "coupon_code", ExternallySyncable},
	{"coupon_discount_percentage", "coupon_discount_percentage", ExternallySyncable},
	{"notes", "notes", ExternallySyncable},
	{"meta", "meta", ExternallySyncable},
	// driver_id has no canonical counterpart: the upstream never carries an
	// assignment, so the engine cannot write it even with an allow-list.
	{"driver_id", "driver_id", InternallyOwned},
}

// ColumnFor resolves a canonical field name to its store column.
func ColumnFor(field string) (string, bool) {
	for _, fc := range fieldColumns {
		if fc.Field == field {
			return fc.Column, true
		}
	}
	return "", false
}

// IsInternallyOwned reports whether the sync engine must leave the field
// alone unless explicitly authorized.
func IsInternallyOwned(field string) bool {
	for _, fc := range fieldColumns {
		if fc.Field == field {
			return fc.Ownership == InternallyOwned
		}
	}
	return false
}

// SyncableFields returns the canonical field names a full (no allow-list)
// update writes, in column order.
func SyncableFields() []string {
	fields := make([]string, 0, len(fieldColumns))
	for _, fc := range fieldColumns {
		if fc.Ownership == ExternallySyncable {
			fields = append(fields, fc.Field)
		}
	}
	return fields
}

// FieldValue extracts a canonical field by name for the merge step. The
// second return is false for names the canonical projection does not carry
// (driver_id, unknown fields).
func (c *CanonicalBooking) FieldValue(field string) (interface{}, bool) {
	switch field {
	case "date":
		return c.Date, true
	case "time":
		return c.Time, true
	case "status":
		return c.Status, true
	case "service_name":
		return c.ServiceName, true
	case "service_type":
		return c.ServiceType, true
	case "customer_name":
		return c.CustomerName, true
	case "customer_email":
		return c.CustomerEmail, true
	case "customer_phone":
		return c.CustomerPhone, true
	case "price_amount":
		return c.PriceAmount, true
	case "price_currency":
		return c.PriceCurrency, true
	case "price_formatted":
		return c.PriceFormatted, true
	case "pickup_location":
		return c.PickupLocation, true
	case "dropoff_location":
		return c.DropoffLocation, true
	case "distance":
		return c.Distance, true
	case "duration":
		return c.Duration, true
	case "vehicle_id":
		return c.VehicleID, true
	case "vehicle_make":
		return c.VehicleMake, true
	case "vehicle_model":
		return c.VehicleModel, true
	case "vehicle_capacity":
		return c.VehicleCapacity, true
	case "billing_company_name":
		return c.BillingCompanyName, true
	case "billing_tax_number":
		return c.BillingTaxNumber, true
	case "billing_street_name":
		return c.BillingStreetName, true
	case "billing_street_number":
		return c.BillingStreetNumber, true
	case "billing_city":
		return c.BillingCity, true
	case "billing_state":
		return c.BillingState, true
	case "billing_postal_code":
		return c.BillingPostalCode, true
	case "billing_country":
		return c.BillingCountry, true
	case "coupon_code":
		return c.CouponCode, true
	case "coupon_discount_percentage":
		return c.CouponDiscountPercentage, true
	case "notes":
		return c.Notes, true
	case "meta":
		return c.Meta, true
	default:
		return nil, false
	}
}
