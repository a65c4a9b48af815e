package repository

import (
	"context"

	"booking-sync-service/internal/domain/entity"
)

// BookingRepository is the internal store of canonical booking records.
// External identity is unique: the same external id always resolves to the
// same row, which is what makes reruns the retry mechanism.
type BookingRepository interface {
	FindByExternalID(ctx context.Context, externalID string) (*entity.Booking, error)
	FindAll(ctx context.Context) ([]entity.Booking, error)
	// ExistingExternalIDs reports which of the given external ids already
	// have a row, so the orchestrator can apply its selection policy without
	// a per-record round trip.
	ExistingExternalIDs(ctx context.Context, externalIDs []string) (map[string]bool, error)
	Create(ctx context.Context, booking *entity.Booking) error
	// UpdateColumns writes only the named columns for the record with the
	// given external id. Columns not present in the map are untouched.
	UpdateColumns(ctx context.Context, externalID string, columns map[string]interface{}) error
}
