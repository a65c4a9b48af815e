package repository

import (
	"context"

	"booking-sync-service/internal/domain/entity"
)

// SyncRunRepository persists the per-run audit trail. Saving is best-effort;
// a failed audit write never fails the run it describes.
type SyncRunRepository interface {
	Save(ctx context.Context, run *entity.SyncRun) error
	FindRecent(ctx context.Context, limit int) ([]entity.SyncRun, error)
}
