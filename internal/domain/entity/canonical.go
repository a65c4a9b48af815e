package entity

// CanonicalBooking is the normalized projection of one raw external record.
// It is what the rest of the application sees; nothing downstream of the
// normalizer touches legacy key names.
type CanonicalBooking struct {
	ExternalID string

	Date   string // YYYY-MM-DD
	Time   string // 24-hour HH:MM
	Status string

	ServiceName string
	ServiceType string

	CustomerName  string
	CustomerEmail string
	CustomerPhone string

	PriceAmount    float64
	PriceCurrency  string
	PriceFormatted string

	PickupLocation  string
	DropoffLocation string
	Distance        string
	Duration        string

	VehicleID       string
	VehicleMake     string
	VehicleModel    string
	VehicleCapacity int

	BillingCompanyName  string
	BillingTaxNumber    string
	BillingStreetName   string
	BillingStreetNumber string
	BillingCity         string
	BillingState        string
	BillingPostalCode   string
	BillingCountry      string

	CouponCode               string
	CouponDiscountPercentage string

	Notes string

	// Meta is the opaque source bag carried through for diagnosis.
	Meta map[string]interface{}
}
