package normalize

// Legacy key aliases per canonical field, oldest naming convention last.
// Lookup order is the priority contract: the first key present on the record
// (top level, then meta bag) wins. New aliases are additive; never reorder.
var (
	dateAliases = []string{"chbs_pickup_date", "pickup_date", "date"}
	timeAliases = []string{"chbs_pickup_time", "pickup_time", "time"}

	customerFirstNameAliases = []string{"chbs_client_contact_detail_first_name", "customer_first_name"}
	customerLastNameAliases  = []string{"chbs_client_contact_detail_last_name", "customer_last_name"}
	customerNameAliases      = []string{"customer_name", "client_name"}
	customerEmailAliases     = []string{"chbs_client_contact_detail_email_address", "customer_email", "email"}
	customerPhoneAliases     = []string{"chbs_client_contact_detail_phone_number", "customer_phone", "phone"}

	vehicleIDAliases      = []string{"chbs_vehicle_id", "vehicle_id"}
	vehicleNameAliases    = []string{"chbs_vehicle_name", "vehicle_name", "vehicle"}
	passengerCountAliases = []string{"chbs_vehicle_passenger_number", "passenger_count", "passengers"}

	serviceTypeAliases      = []string{"chbs_service_type", "service_type"}
	routeNameAliases        = []string{"chbs_route_name", "route_name"}
	routeServiceTypeAliases = []string{"chbs_route_service_type"}
	bookingDetailAliases    = []string{"chbs_booking_detail"}

	distanceAliases = []string{"chbs_distance", "distance"}
	durationAliases = []string{"chbs_duration", "duration"}
	notesAliases    = []string{"chbs_comment", "notes", "comment"}

	currencyAliases    = []string{"chbs_currency_id", "currency", "price_currency"}
	priceTypeAliases   = []string{"chbs_price_type_id", "price_type", "calculation_method"}
	priceFixedAliases  = []string{"chbs_price_fixed_value", "price_fixed_value"}
	priceHourlyAliases = []string{"chbs_price_hourly_value", "price_hourly_value"}
	priceHoursAliases  = []string{"chbs_price_hours", "price_hours"}
	// Scanned in order when neither the structured object nor the
	// discriminator resolves; first positive number wins.
	priceFallbackAliases = []string{
		"chbs_price_fixed_value",
		"chbs_price_hourly_value",
		"chbs_total_price",
		"price_amount",
		"total",
	}

	couponCodeAliases     = []string{"chbs_coupon_code", "coupon_code"}
	couponDiscountAliases = []string{"chbs_coupon_discount_percentage", "coupon_discount_percentage"}

	billingEnableAliases = []string{"chbs_client_billing_detail_enable"}
)

// billingAliases maps billing fields to their alias chains. The chbs billing
// block is only consulted when the enable flag is "1" (the plugin writes the
// keys regardless, often with stale values).
type billingField struct {
	chbs     string
	standard []string
}

var billingFields = map[string]billingField{
	"company_name":  {"chbs_client_billing_detail_company_name", []string{"billing_company_name", "billing_company"}},
	"tax_number":    {"chbs_client_billing_detail_tax_number", []string{"billing_tax_number", "billing_vat_number"}},
	"street_name":   {"chbs_client_billing_detail_street_name", []string{"billing_street_name", "billing_address_1"}},
	"street_number": {"chbs_client_billing_detail_street_number", []string{"billing_street_number", "billing_address_2"}},
	"city":          {"chbs_client_billing_detail_city", []string{"billing_city"}},
	"state":         {"chbs_client_billing_detail_state", []string{"billing_state", "billing_province"}},
	"postal_code":   {"chbs_client_billing_detail_postal_code", []string{"billing_postal_code", "billing_postcode"}},
	"country":       {"chbs_client_billing_detail_country_code", []string{"billing_country", "billing_country_code"}},
}
