package repository

import (
	"context"

	"booking-sync-service/internal/domain/entity"
)

// BookingSource fetches raw records from the external booking system. One
// call is one page; the client keeps no state between calls.
type BookingSource interface {
	// Fetch returns the page's raw records plus the auth attempt log.
	// It fails with entity.ErrSourceUnreachable when the endpoint is
	// unconfigured or every authentication strategy is exhausted.
	Fetch(ctx context.Context, filter entity.SourceFilter) (*entity.SourcePage, error)
}
