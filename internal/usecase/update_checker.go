package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"booking-sync-service/internal/domain/entity"
	"booking-sync-service/internal/domain/repository"
	"booking-sync-service/pkg/logger"
	"booking-sync-service/pkg/normalize"
)

// UpdateCheckUsecase computes a read-only diff between the upstream source
// and the internal store, so operators can review what a sync run would
// change before triggering one.
type UpdateCheckUsecase struct {
	source     repository.BookingSource
	bookings   repository.BookingRepository
	normalizer *normalize.Normalizer
	logger     logger.Logger
	fetchLimit int
}

// NewUpdateCheckUsecase creates a new update check usecase.
func NewUpdateCheckUsecase(
	source repository.BookingSource,
	bookings repository.BookingRepository,
	normalizer *normalize.Normalizer,
	log logger.Logger,
	fetchLimit int,
) *UpdateCheckUsecase {
	if fetchLimit <= 0 {
		fetchLimit = 1000
	}
	return &UpdateCheckUsecase{
		source:     source,
		bookings:   bookings,
		normalizer: normalizer,
		logger:     log,
		fetchLimit: fetchLimit,
	}
}

// comparedFields are the fields surfaced in the review diff. Pricing and meta
// churn on almost every pull, so the diff sticks to the fields operators act
// on.
var comparedFields = []string{
	"date",
	"time",
	"status",
	"customer_name",
	"service_name",
	"billing_company_name",
	"billing_tax_number",
	"billing_street_name",
	"billing_street_number",
	"billing_city",
	"billing_state",
	"billing_postal_code",
	"billing_country",
	"coupon_code",
	"coupon_discount_percentage",
}

// Check fetches the upstream records and reports which are new and which
// existing records would change on the next sync.
func (u *UpdateCheckUsecase) Check(ctx context.Context, status string) (*entity.UpdateCheck, error) {
	page, err := u.source.Fetch(ctx, entity.SourceFilter{
		Status: status,
		Limit:  u.fetchLimit,
	})
	if err != nil {
		return nil, err
	}

	check := &entity.UpdateCheck{Updatable: []entity.UpdatableBooking{}}

	for _, raw := range page.Records {
		externalID := raw.ExternalID()
		if externalID == "" {
			continue
		}

		current, err := u.bookings.FindByExternalID(ctx, externalID)
		if err != nil {
			if errors.Is(err, entity.ErrBookingNotFound) {
				check.NewBookings++
				continue
			}
			return nil, err
		}

		canonical := u.normalizer.Normalize(raw)
		if diff := diffBooking(current, &canonical); diff != nil {
			check.Updatable = append(check.Updatable, *diff)
		}
	}

	u.logger.Info("Update check finished",
		"new", check.NewBookings,
		"updatable", len(check.Updatable),
		"fetched", len(page.Records))
	return check, nil
}

func diffBooking(current *entity.Booking, upstream *entity.CanonicalBooking) *entity.UpdatableBooking {
	diff := &entity.UpdatableBooking{
		ExternalID: current.ExternalID,
		Current:    map[string]string{},
		Updated:    map[string]string{},
	}

	// The diff deliberately covers status even though a plain sync never
	// writes it: this output feeds the per-booking allow-list, which is the
	// one path authorized to update it.
	for _, field := range comparedFields {
		upstreamValue, ok := upstream.FieldValue(field)
		if !ok {
			continue
		}
		before := storedFieldString(current, field)
		after := fieldString(upstreamValue)
		if before == after {
			continue
		}

		diff.Changes = append(diff.Changes, field)
		diff.Current[field] = before
		diff.Updated[field] = after
	}

	if len(diff.Changes) == 0 {
		return nil
	}
	return diff
}

func storedFieldString(b *entity.Booking, field string) string {
	switch field {
	case "date":
		return b.Date
	case "time":
		return b.Time
	case "status":
		return b.Status
	case "customer_name":
		return b.CustomerName
	case "service_name":
		return b.ServiceName
	case "billing_company_name":
		return b.BillingCompanyName
	case "billing_tax_number":
		return b.BillingTaxNumber
	case "billing_street_name":
		return b.BillingStreetName
	case "billing_street_number":
		return b.BillingStreetNumber
	case "billing_city":
		return b.BillingCity
	case "billing_state":
		return b.BillingState
	case "billing_postal_code":
		return b.BillingPostalCode
	case "billing_country":
		return b.BillingCountry
	case "coupon_code":
		return b.CouponCode
	case "coupon_discount_percentage":
		return b.CouponDiscountPercentage
	}
	return ""
}

func fieldString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
