package entity

import "time"

// Booking is the persisted canonical booking record. Its identity is the
// internal ID; ExternalID ties it back to the upstream record and is unique
// across the table.
//
// DriverID and Status are owned by in-app actions (assignment, lifecycle);
// the sync engine only writes them when the caller explicitly allows it.
type Booking struct {
	ID         string
	ExternalID string

	Date   string
	Time   string
	Status string

	ServiceName string
	ServiceType string

	CustomerName  string
	CustomerEmail string
	CustomerPhone string

	DriverID *string

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
	Meta  map[string]interface{}

	CreatedAt time.Time
	UpdatedAt time.Time
	SyncedAt  time.Time
}
