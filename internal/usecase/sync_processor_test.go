package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booking-sync-service/internal/domain/entity"
	"booking-sync-service/pkg/logger"
	"booking-sync-service/pkg/metrics"
	"booking-sync-service/pkg/normalize"
)

type fakeSource struct {
	page *entity.SourcePage
	err  error
}

func (f *fakeSource) Fetch(ctx context.Context, filter entity.SourceFilter) (*entity.SourcePage, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.page, nil
}

type memoryBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*entity.Booking
	// columns written by the last UpdateColumns call per external id
	lastColumns map[string]map[string]interface{}
}

func newMemoryBookingRepo() *memoryBookingRepo {
	return &memoryBookingRepo{
		bookings:    map[string]*entity.Booking{},
		lastColumns: map[string]map[string]interface{}{},
	}
}

func (m *memoryBookingRepo) FindByExternalID(ctx context.Context, externalID string) (*entity.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	booking, ok := m.bookings[externalID]
	if !ok {
		return nil, entity.ErrBookingNotFound
	}
	copied := *booking
	return &copied, nil
}

func (m *memoryBookingRepo) FindAll(ctx context.Context) ([]entity.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]entity.Booking, 0, len(m.bookings))
	for _, b := range m.bookings {
		all = append(all, *b)
	}
	return all, nil
}

func (m *memoryBookingRepo) ExistingExternalIDs(ctx context.Context, externalIDs []string) (map[string]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing := map[string]bool{}
	for _, id := range externalIDs {
		if _, ok := m.bookings[id]; ok {
			existing[id] = true
		}
	}
	return existing, nil
}

func (m *memoryBookingRepo) Create(ctx context.Context, booking *entity.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	copied := *booking
	m.bookings[booking.ExternalID] = &copied
	return nil
}

func (m *memoryBookingRepo) UpdateColumns(ctx context.Context, externalID string, columns map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	booking, ok := m.bookings[externalID]
	if !ok {
		return entity.ErrBookingNotFound
	}
	m.lastColumns[externalID] = columns

	for column, value := range columns {
		s, _ := value.(string)
		switch column {
		case "date":
			booking.Date = s
		case "time":
			booking.Time = s
		case "status":
			booking.Status = s
		case "customer_name":
			booking.CustomerName = s
		case "service_name":
			booking.ServiceName = s
		case "notes":
			booking.Notes = s
		}
	}
	return nil
}

type memoryRunRepo struct {
	mu   sync.Mutex
	runs []entity.SyncRun
}

func (m *memoryRunRepo) Save(ctx context.Context, run *entity.SyncRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, *run)
	return nil
}

func (m *memoryRunRepo) FindRecent(ctx context.Context, limit int) ([]entity.SyncRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runs, nil
}

func sourceRecord(id, date, time string) entity.RawBooking {
	meta := map[string]interface{}{}
	if date != "" {
		meta["chbs_pickup_date"] = date
	}
	if time != "" {
		meta["chbs_pickup_time"] = time
	}
	meta["chbs_client_contact_detail_first_name"] = "Test"
	meta["chbs_client_contact_detail_last_name"] = "Customer"

	return entity.RawBooking{
		"id":     id,
		"status": "publish",
		"meta":   meta,
	}
}

func newTestSync(source *fakeSource, store *memoryBookingRepo, runs *memoryRunRepo) *SyncUsecase {
	log := logger.NewNopLogger()
	u := NewSyncUsecase(
		source,
		store,
		nil,
		normalize.NewNormalizer(log),
		log,
		metrics.NewMetrics("test_sync_"+randomSuffix()),
		SyncConfig{Workers: 4},
	)
	// A typed nil pointer would make the interface non-nil, so the audit
	// repo is only wired when the test provides one.
	if runs != nil {
		u.runs = runs
	}
	return u
}

var suffixCounter int
var suffixMu sync.Mutex

// prometheus collectors register globally, so each test gets its own
// namespace.
func randomSuffix() string {
	suffixMu.Lock()
	defer suffixMu.Unlock()
	suffixCounter++
	return string(rune('a' + suffixCounter%26)) + string(rune('a'+(suffixCounter/26)%26))
}

func TestRunCreatesNewBookings(t *testing.T) {
	source := &fakeSource{page: &entity.SourcePage{
		Records: []entity.RawBooking{
			sourceRecord("101", "25-12-2024", "02:30 PM"),
			sourceRecord("102", "2024-12-26", ""),
		},
	}}
	store := newMemoryBookingRepo()

	summary, err := newTestSync(source, store, nil).Run(context.Background(), RunOptions{})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 2, summary.Created)
	assert.Zero(t, summary.Updated)
	assert.Empty(t, summary.Errors)

	created, err := store.FindByExternalID(context.Background(), "101")
	require.NoError(t, err)
	assert.Equal(t, "2024-12-25", created.Date)
	assert.Equal(t, "14:30", created.Time)
	assert.Equal(t, "confirmed", created.Status)
	assert.Equal(t, "Test Customer", created.CustomerName)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.SyncedAt.IsZero())

	// Missing pickup time defaults rather than failing the record.
	noTime, err := store.FindByExternalID(context.Background(), "102")
	require.NoError(t, err)
	assert.Equal(t, "00:00", noTime.Time)
}

func TestRunIsIdempotent(t *testing.T) {
	source := &fakeSource{page: &entity.SourcePage{
		Records: []entity.RawBooking{
			sourceRecord("101", "25-12-2024", "09:00 AM"),
			sourceRecord("102", "26-12-2024", "10:00 AM"),
		},
	}}
	store := newMemoryBookingRepo()
	u := newTestSync(source, store, nil)

	first, err := u.Run(context.Background(), RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, first.Created)

	second, err := u.Run(context.Background(), RunOptions{})
	require.NoError(t, err)
	assert.Zero(t, second.Created)
	assert.Equal(t, 2, second.Updated)

	all, err := store.FindAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRunLeavesInternallyOwnedFieldsAlone(t *testing.T) {
	source := &fakeSource{page: &entity.SourcePage{
		Records: []entity.RawBooking{sourceRecord("101", "25-12-2024", "09:00 AM")},
	}}
	store := newMemoryBookingRepo()

	driver := "driver-7"
	store.Create(context.Background(), &entity.Booking{
		ID:         "internal-1",
		ExternalID: "101",
		Date:       "2024-12-25",
		Time:       "09:00",
		Status:     "completed",
		DriverID:   &driver,
	})

	summary, err := newTestSync(source, store, nil).Run(context.Background(), RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Updated)

	after, err := store.FindByExternalID(context.Background(), "101")
	require.NoError(t, err)
	assert.Equal(t, "completed", after.Status)
	require.NotNil(t, after.DriverID)
	assert.Equal(t, "driver-7", *after.DriverID)

	columns := store.lastColumns["101"]
	assert.NotContains(t, columns, "status")
	assert.NotContains(t, columns, "driver_id")
	assert.Contains(t, columns, "customer_name")
}

func TestRunUpdateKeepsStoredDateWhenUpstreamUnparseable(t *testing.T) {
	raw := sourceRecord("101", "", "")
	raw["meta"].(map[string]interface{})["chbs_pickup_date"] = "corrupted value"

	source := &fakeSource{page: &entity.SourcePage{Records: []entity.RawBooking{raw}}}
	store := newMemoryBookingRepo()
	store.Create(context.Background(), &entity.Booking{
		ID:         "internal-1",
		ExternalID: "101",
		Date:       "2024-12-25",
		Time:       "09:00",
	})

	summary, err := newTestSync(source, store, nil).Run(context.Background(), RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Updated)

	after, err := store.FindByExternalID(context.Background(), "101")
	require.NoError(t, err)
	assert.Equal(t, "2024-12-25", after.Date)
	assert.Equal(t, "09:00", after.Time)

	columns := store.lastColumns["101"]
	assert.NotContains(t, columns, "date")
	assert.NotContains(t, columns, "time")
}

func TestRunAllowListRestrictsColumns(t *testing.T) {
	source := &fakeSource{page: &entity.SourcePage{
		Records: []entity.RawBooking{sourceRecord("101", "25-12-2024", "09:00 AM")},
	}}
	store := newMemoryBookingRepo()
	store.Create(context.Background(), &entity.Booking{
		ID:         "internal-1",
		ExternalID: "101",
		Status:     "pending",
	})

	opts := RunOptions{
		AllowedFields: map[string][]string{"101": {"status", "date"}},
	}
	summary, err := newTestSync(source, store, nil).Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Updated)

	columns := store.lastColumns["101"]
	assert.Contains(t, columns, "status")
	assert.Contains(t, columns, "date")
	assert.Contains(t, columns, "updated_at")
	assert.Contains(t, columns, "synced_at")
	assert.NotContains(t, columns, "customer_name")

	// The allow-list is the only path that lets a run write status.
	after, _ := store.FindByExternalID(context.Background(), "101")
	assert.Equal(t, "confirmed", after.Status)
}

func TestRunEmptyUpdateSelectionOnlyCreates(t *testing.T) {
	source := &fakeSource{page: &entity.SourcePage{
		Records: []entity.RawBooking{
			sourceRecord("101", "25-12-2024", "09:00 AM"),
			sourceRecord("200", "26-12-2024", "10:00 AM"),
		},
	}}
	store := newMemoryBookingRepo()
	store.Create(context.Background(), &entity.Booking{ID: "internal-1", ExternalID: "101", Status: "pending"})

	summary, err := newTestSync(source, store, nil).Run(context.Background(), RunOptions{
		ExternalIDs: []string{},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Total)
	assert.Equal(t, 1, summary.Created)
	assert.Zero(t, summary.Updated)
	assert.Empty(t, store.lastColumns)
}

func TestRunEmptySelectionShortCircuits(t *testing.T) {
	source := &fakeSource{page: &entity.SourcePage{
		Records: []entity.RawBooking{sourceRecord("101", "25-12-2024", "09:00 AM")},
	}}
	store := newMemoryBookingRepo()
	store.Create(context.Background(), &entity.Booking{ID: "internal-1", ExternalID: "101"})

	summary, err := newTestSync(source, store, nil).Run(context.Background(), RunOptions{
		ExternalIDs: []string{},
	})
	require.NoError(t, err)

	assert.Zero(t, summary.Total)
	assert.Zero(t, summary.Created)
	assert.Zero(t, summary.Updated)
}

func TestRunIsolatesRecordFailures(t *testing.T) {
	source := &fakeSource{page: &entity.SourcePage{
		Records: []entity.RawBooking{
			{"title": "no identity here"},
			sourceRecord("101", "", ""),
			sourceRecord("102", "25-12-2024", "09:00 AM"),
		},
	}}
	store := newMemoryBookingRepo()

	summary, err := newTestSync(source, store, nil).Run(context.Background(), RunOptions{})
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 1, summary.Created)
	assert.Len(t, summary.Errors, 2)

	messages := []string{summary.Errors[0].Error, summary.Errors[1].Error}
	assert.Contains(t, messages, entity.ErrMissingIdentity.Error())
	assert.Contains(t, messages, entity.ErrMissingDate.Error())

	_, err = store.FindByExternalID(context.Background(), "102")
	assert.NoError(t, err)
}

func TestRunFailsOnEmptySource(t *testing.T) {
	source := &fakeSource{page: &entity.SourcePage{}}
	store := newMemoryBookingRepo()

	summary, err := newTestSync(source, store, nil).Run(context.Background(), RunOptions{})
	assert.ErrorIs(t, err, entity.ErrEmptySource)
	assert.Equal(t, entity.ErrEmptySource.Error(), summary.Error)
}

func TestRunFailsWhenSourceUnreachable(t *testing.T) {
	source := &fakeSource{err: entity.ErrSourceUnreachable}
	store := newMemoryBookingRepo()

	summary, err := newTestSync(source, store, nil).Run(context.Background(), RunOptions{})
	assert.ErrorIs(t, err, entity.ErrSourceUnreachable)
	assert.NotEmpty(t, summary.Error)
	assert.Zero(t, summary.Created)
}

func TestRunSavesAuditTrail(t *testing.T) {
	source := &fakeSource{page: &entity.SourcePage{
		Records: []entity.RawBooking{sourceRecord("101", "25-12-2024", "09:00 AM")},
	}}
	store := newMemoryBookingRepo()
	runs := &memoryRunRepo{}

	summary, err := newTestSync(source, store, runs).Run(context.Background(), RunOptions{})
	require.NoError(t, err)

	require.Len(t, runs.runs, 1)
	saved := runs.runs[0]
	assert.Equal(t, summary.RunID, saved.RunID)
	assert.Equal(t, 1, saved.Created)
	assert.False(t, saved.StartedAt.IsZero())
	assert.False(t, saved.FinishedAt.IsZero())
}
