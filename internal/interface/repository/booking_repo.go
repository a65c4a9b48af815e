package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"booking-sync-service/internal/domain/entity"
	"booking-sync-service/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBookingRepository implements the BookingRepository interface against
// PostgreSQL.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GORM booking repository.
func NewGormBookingRepository(db *gorm.DB) repository.BookingRepository {
	return &GormBookingRepository{
		db: db,
	}
}

// Bookings GORM model for database mapping
type Bookings struct {
	ID         string `gorm:"column:id;primaryKey"`
	ExternalID string `gorm:"column:external_id;uniqueIndex"`

	Date   string `gorm:"column:date"`
	Time   string `gorm:"column:time"`
	Status string `gorm:"column:status"`

	ServiceName string `gorm:"column:service_name"`
	ServiceType string `gorm:"column:service_type"`

	CustomerName  string `gorm:"column:customer_name"`
	CustomerEmail string `gorm:"column:customer_email"`
	CustomerPhone string `gorm:"column:customer_phone"`

	DriverID *string `gorm:"column:driver_id"`

	PriceAmount    float64 `gorm:"column:price_amount"`
	PriceCurrency  string  `gorm:"column:price_currency"`
	PriceFormatted string  `gorm:"column:price_formatted"`

	PickupLocation  string `gorm:"column:pickup_location"`
	DropoffLocation string `gorm:"column:dropoff_location"`
	Distance        string `gorm:"column:distance"`
	Duration        string `gorm:"column:duration"`

	VehicleID       string `gorm:"column:vehicle_id"`
	VehicleMake     string `gorm:"column:vehicle_make"`
	VehicleModel    string `gorm:"column:vehicle_model"`
	VehicleCapacity int    `gorm:"column:vehicle_capacity"`

	BillingCompanyName  string `gorm:"column:billing_company_name"`
	BillingTaxNumber    string `gorm:"column:billing_tax_number"`
	BillingStreetName   string `gorm:"column:billing_street_name"`
	BillingStreetNumber string `gorm:"column:billing_street_number"`
	BillingCity         string `gorm:"column:billing_city"`
	BillingState        string `gorm:"column:billing_state"`
	BillingPostalCode   string `gorm:"column:billing_postal_code"`
	BillingCountry      string `gorm:"column:billing_country"`

	CouponCode               string `gorm:"column:coupon_code"`
	CouponDiscountPercentage string `gorm:"column:coupon_discount_percentage"`

	Notes string `gorm:"column:notes"`
	Meta  []byte `gorm:"column:meta;type:jsonb"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
	SyncedAt  time.Time `gorm:"column:synced_at"`
}

// TableName overrides the default table name
func (Bookings) TableName() string {
	return "bookings"
}

// FindByExternalID finds a booking by its external identity.
func (r *GormBookingRepository) FindByExternalID(ctx context.Context, externalID string) (*entity.Booking, error) {
	var model Bookings
	result := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&model)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, entity.ErrBookingNotFound
		}
		return nil, result.Error
	}

	return toEntity(&model), nil
}

// FindAll returns every booking row.
func (r *GormBookingRepository) FindAll(ctx context.Context) ([]entity.Booking, error) {
	var models []Bookings
	if err := r.db.WithContext(ctx).Find(&models).Error; err != nil {
		return nil, err
	}

	bookings := make([]entity.Booking, 0, len(models))
	for i := range models {
		bookings = append(bookings, *toEntity(&models[i]))
	}
	return bookings, nil
}

// ExistingExternalIDs reports which of the given ids already have a row.
func (r *GormBookingRepository) ExistingExternalIDs(ctx context.Context, externalIDs []string) (map[string]bool, error) {
	existing := make(map[string]bool, len(externalIDs))
	if len(externalIDs) == 0 {
		return existing, nil
	}

	var found []string
	err := r.db.WithContext(ctx).
		Model(&Bookings{}).
		Where("external_id IN ?", externalIDs).
		Pluck("external_id", &found).Error
	if err != nil {
		return nil, err
	}

	for _, id := range found {
		existing[id] = true
	}
	return existing, nil
}

// Create inserts a new booking row, assigning the internal identity.
func (r *GormBookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}

	model := toModel(booking)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	return nil
}

// UpdateColumns writes only the named columns for the row with the given
// external id.
func (r *GormBookingRepository) UpdateColumns(ctx context.Context, externalID string, columns map[string]interface{}) error {
	if len(columns) == 0 {
		return nil
	}

	// gorm cannot serialize a bare map value into jsonb on a map update
	if meta, ok := columns["meta"]; ok {
		encoded, err := json.Marshal(meta)
		if err != nil {
			return err
		}
		columns["meta"] = encoded
	}

	result := r.db.WithContext(ctx).
		Model(&Bookings{}).
		Clauses(clause.Returning{}).
		Where("external_id = ?", externalID).
		Updates(columns)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entity.ErrBookingNotFound
	}
	return nil
}

func toEntity(model *Bookings) *entity.Booking {
	var meta map[string]interface{}
	if len(model.Meta) > 0 {
		json.Unmarshal(model.Meta, &meta)
	}

	return &entity.Booking{
		ID:         model.ID,
		ExternalID: model.ExternalID,

		Date:   model.Date,
		Time:   model.Time,
		Status: model.Status,

		ServiceName: model.ServiceName,
		ServiceType: model.ServiceType,

		CustomerName:  model.CustomerName,
		CustomerEmail: model.CustomerEmail,
		CustomerPhone: model.CustomerPhone,

		DriverID: model.DriverID,

		PriceAmount:    model.PriceAmount,
		PriceCurrency:  model.PriceCurrency,
		PriceFormatted: model.PriceFormatted,

		PickupLocation:  model.PickupLocation,
		DropoffLocation: model.DropoffLocation,
		Distance:        model.Distance,
		Duration:        model.Duration,

		VehicleID:       model.VehicleID,
		VehicleMake:     model.VehicleMake,
		VehicleModel:    model.VehicleModel,
		VehicleCapacity: model.VehicleCapacity,

		BillingCompanyName:  model.BillingCompanyName,
		BillingTaxNumber:    model.BillingTaxNumber,
		BillingStreetName:   model.BillingStreetName,
		BillingStreetNumber: model.BillingStreetNumber,
		BillingCity:         model.BillingCity,
		BillingState:        model.BillingState,
		BillingPostalCode:   model.BillingPostalCode,
		BillingCountry:      model.BillingCountry,

		CouponCode:               model.CouponCode,
		CouponDiscountPercentage: model.CouponDiscountPercentage,

		Notes: model.Notes,
		Meta:  meta,

		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
		SyncedAt:  model.SyncedAt,
	}
}

func toModel(booking *entity.Booking) *Bookings {
	var meta []byte
	if booking.Meta != nil {
		meta, _ = json.Marshal(booking.Meta)
	}

	return &Bookings{
		ID:         booking.ID,
		ExternalID: booking.ExternalID,

		Date:   booking.Date,
		Time:   booking.Time,
		Status: booking.Status,

		ServiceName: booking.ServiceName,
		ServiceType: booking.ServiceType,

		CustomerName:  booking.CustomerName,
		CustomerEmail: booking.CustomerEmail,
		CustomerPhone: booking.CustomerPhone,

		DriverID: booking.DriverID,

		PriceAmount:    booking.PriceAmount,
		PriceCurrency:  booking.PriceCurrency,
		PriceFormatted: booking.PriceFormatted,

		PickupLocation:  booking.PickupLocation,
		DropoffLocation: booking.DropoffLocation,
		Distance:        booking.Distance,
		Duration:        booking.Duration,

		VehicleID:       booking.VehicleID,
		VehicleMake:     booking.VehicleMake,
		VehicleModel:    booking.VehicleModel,
		VehicleCapacity: booking.VehicleCapacity,

		BillingCompanyName:  booking.BillingCompanyName,
		BillingTaxNumber:    booking.BillingTaxNumber,
		BillingStreetName:   booking.BillingStreetName,
		BillingStreetNumber: booking.BillingStreetNumber,
		BillingCity:         booking.BillingCity,
		BillingState:        booking.BillingState,
		BillingPostalCode:   booking.BillingPostalCode,
		BillingCountry:      booking.BillingCountry,

		CouponCode:               booking.CouponCode,
		CouponDiscountPercentage: booking.CouponDiscountPercentage,

		Notes: booking.Notes,
		Meta:  meta,

		CreatedAt: booking.CreatedAt,
		UpdatedAt: booking.UpdatedAt,
		SyncedAt:  booking.SyncedAt,
	}
}
