package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booking-sync-service/internal/domain/entity"
	"booking-sync-service/pkg/logger"
	"booking-sync-service/pkg/normalize"
)

func newTestChecker(source *fakeSource, store *memoryBookingRepo) *UpdateCheckUsecase {
	log := logger.NewNopLogger()
	return NewUpdateCheckUsecase(source, store, normalize.NewNormalizer(log), log, 0)
}

func TestCheckCountsNewBookings(t *testing.T) {
	source := &fakeSource{page: &entity.SourcePage{
		Records: []entity.RawBooking{
			sourceRecord("101", "25-12-2024", "09:00 AM"),
			sourceRecord("102", "26-12-2024", "10:00 AM"),
		},
	}}
	store := newMemoryBookingRepo()

	check, err := newTestChecker(source, store).Check(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, 2, check.NewBookings)
	assert.Empty(t, check.Updatable)
}

func TestCheckReportsChangedFields(t *testing.T) {
	source := &fakeSource{page: &entity.SourcePage{
		Records: []entity.RawBooking{sourceRecord("101", "25-12-2024", "09:00 AM")},
	}}
	store := newMemoryBookingRepo()
	store.Create(context.Background(), &entity.Booking{
		ID:           "internal-1",
		ExternalID:   "101",
		Date:         "2024-12-24",
		Time:         "09:00",
		CustomerName: "Old Name",
	})

	check, err := newTestChecker(source, store).Check(context.Background(), "")
	require.NoError(t, err)

	assert.Zero(t, check.NewBookings)
	require.Len(t, check.Updatable, 1)

	diff := check.Updatable[0]
	assert.Equal(t, "101", diff.ExternalID)
	assert.Contains(t, diff.Changes, "date")
	assert.Contains(t, diff.Changes, "customer_name")
	assert.Equal(t, "2024-12-24", diff.Current["date"])
	assert.Equal(t, "2024-12-25", diff.Updated["date"])
	assert.Equal(t, "Old Name", diff.Current["customer_name"])
	assert.Equal(t, "Test Customer", diff.Updated["customer_name"])
}

func TestCheckReportsStatusDrift(t *testing.T) {
	source := &fakeSource{page: &entity.SourcePage{
		Records: []entity.RawBooking{sourceRecord("101", "25-12-2024", "09:00 AM")},
	}}
	store := newMemoryBookingRepo()
	store.Create(context.Background(), &entity.Booking{
		ID:           "internal-1",
		ExternalID:   "101",
		Date:         "2024-12-25",
		Time:         "09:00",
		Status:       "pending",
		CustomerName: "Test Customer",
		ServiceName:  "Vehicle Service",
	})

	check, err := newTestChecker(source, store).Check(context.Background(), "")
	require.NoError(t, err)

	// A plain sync never writes status, but the review diff must surface
	// the drift so operators can allow-list it.
	require.Len(t, check.Updatable, 1)
	diff := check.Updatable[0]
	assert.Equal(t, []string{"status"}, diff.Changes)
	assert.Equal(t, "pending", diff.Current["status"])
	assert.Equal(t, "confirmed", diff.Updated["status"])
}

func TestCheckSkipsRecordsWithoutIdentity(t *testing.T) {
	source := &fakeSource{page: &entity.SourcePage{
		Records: []entity.RawBooking{
			{"title": "no id"},
			sourceRecord("101", "25-12-2024", "09:00 AM"),
		},
	}}
	store := newMemoryBookingRepo()

	check, err := newTestChecker(source, store).Check(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 1, check.NewBookings)
}

func TestCheckPropagatesSourceFailure(t *testing.T) {
	source := &fakeSource{err: entity.ErrSourceUnreachable}
	store := newMemoryBookingRepo()

	_, err := newTestChecker(source, store).Check(context.Background(), "")
	assert.ErrorIs(t, err, entity.ErrSourceUnreachable)
}
