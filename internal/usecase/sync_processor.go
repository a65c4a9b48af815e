package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"booking-sync-service/internal/domain/entity"
	"booking-sync-service/internal/domain/repository"
	"booking-sync-service/pkg/logger"
	"booking-sync-service/pkg/metrics"
	"booking-sync-service/pkg/normalize"
)

// RunOptions controls one sync run.
//
// ExternalIDs selects which existing records may be updated: nil means every
// existing record, a non-nil empty slice means none (the run only creates).
// New upstream records are always eligible for creation regardless of the
// selection.
//
// AllowedFields optionally narrows the columns written per external id. A
// record with no entry gets the full syncable set. The allow-list is also the
// only way a run may write internally owned fields such as status.
type RunOptions struct {
	Status        string
	ExternalIDs   []string
	AllowedFields map[string][]string
}

// SyncConfig carries the orchestrator's tuning knobs.
type SyncConfig struct {
	FetchLimit    int
	Workers       int
	RecordTimeout time.Duration
	RunTimeout    time.Duration
}

// SyncUsecase pulls bookings from the upstream source and reconciles them
// into the internal store.
type SyncUsecase struct {
	source     repository.BookingSource
	bookings   repository.BookingRepository
	runs       repository.SyncRunRepository
	normalizer *normalize.Normalizer
	logger     logger.Logger
	metrics    *metrics.Metrics
	config     SyncConfig
}

// NewSyncUsecase creates a new sync usecase. The run repository may be nil;
// the audit trail is then skipped.
func NewSyncUsecase(
	source repository.BookingSource,
	bookings repository.BookingRepository,
	runs repository.SyncRunRepository,
	normalizer *normalize.Normalizer,
	log logger.Logger,
	m *metrics.Metrics,
	cfg SyncConfig,
) *SyncUsecase {
	if cfg.Workers <= 0 {
		cfg.Workers = 8
	}
	if cfg.FetchLimit <= 0 {
		cfg.FetchLimit = 1000
	}

	return &SyncUsecase{
		source:     source,
		bookings:   bookings,
		runs:       runs,
		normalizer: normalizer,
		logger:     log,
		metrics:    m,
		config:     cfg,
	}
}

// Run executes one pull reconciliation. Record-level failures are isolated
// and reported in the summary; only a source failure fails the run itself.
func (u *SyncUsecase) Run(ctx context.Context, opts RunOptions) (*entity.RunSummary, error) {
	if u.config.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.config.RunTimeout)
		defer cancel()
	}

	started := time.Now()
	runID := uuid.NewString()
	u.metrics.SyncRuns.Inc()
	u.logger.Info("Starting sync run", "runId", runID)

	summary := &entity.RunSummary{RunID: runID}

	page, err := u.source.Fetch(ctx, entity.SourceFilter{
		Status: opts.Status,
		Limit:  u.config.FetchLimit,
	})
	if page != nil {
		summary.DebugInfo = map[string]interface{}{"source_attempts": page.Attempts}
	}
	if err != nil {
		u.metrics.SourceFailures.WithLabelValues("fetch").Inc()
		summary.Error = err.Error()
		u.finishRun(summary, started)
		return summary, err
	}
	if len(page.Records) == 0 {
		u.metrics.SourceFailures.WithLabelValues("empty").Inc()
		err := entity.ErrEmptySource
		summary.Error = err.Error()
		u.finishRun(summary, started)
		return summary, err
	}

	selection, selectErrors, err := u.selectRecords(ctx, page.Records, opts)
	if err != nil {
		summary.Error = err.Error()
		u.finishRun(summary, started)
		return summary, fmt.Errorf("resolving existing records: %w", err)
	}
	summary.Errors = selectErrors
	summary.Total = len(selection) + len(selectErrors)

	if len(selection) == 0 {
		u.logger.Info("Sync run selected nothing", "runId", runID, "fetched", len(page.Records))
		u.finishRun(summary, started)
		return summary, nil
	}

	var mu sync.Mutex
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(u.config.Workers)

	for _, sel := range selection {
		group.Go(func() error {
			outcome, err := u.processRecord(groupCtx, sel, opts)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				u.metrics.RecordsSynced.WithLabelValues(string(entity.OutcomeErrored)).Inc()
				summary.Errors = append(summary.Errors, entity.SyncError{
					ExternalID: sel.externalID,
					Error:      err.Error(),
					Payload:    sel.raw,
				})
			case outcome == entity.OutcomeCreated:
				u.metrics.RecordsSynced.WithLabelValues(string(outcome)).Inc()
				summary.Created++
			case outcome == entity.OutcomeUpdated:
				u.metrics.RecordsSynced.WithLabelValues(string(outcome)).Inc()
				summary.Updated++
			}
			return nil
		})
	}
	// Workers report outcomes through the summary, never through the group.
	_ = group.Wait()

	u.finishRun(summary, started)
	u.logger.Info("Sync run finished",
		"runId", runID,
		"total", summary.Total,
		"created", summary.Created,
		"updated", summary.Updated,
		"errors", len(summary.Errors))
	return summary, nil
}

// selectedRecord is one upstream record admitted by the selection policy.
type selectedRecord struct {
	externalID string
	raw        entity.RawBooking
	exists     bool
}

// selectRecords applies the run's selection policy. Records without identity
// become record-level errors here because they cannot be matched against the
// store at all.
func (u *SyncUsecase) selectRecords(ctx context.Context, records []entity.RawBooking, opts RunOptions) ([]selectedRecord, []entity.SyncError, error) {
	ids := make([]string, 0, len(records))
	var errors []entity.SyncError

	candidates := make([]selectedRecord, 0, len(records))
	for _, raw := range records {
		id := raw.ExternalID()
		if id == "" {
			errors = append(errors, entity.SyncError{
				Error:   entity.ErrMissingIdentity.Error(),
				Payload: raw,
			})
			continue
		}
		ids = append(ids, id)
		candidates = append(candidates, selectedRecord{externalID: id, raw: raw})
	}

	existing, err := u.bookings.ExistingExternalIDs(ctx, ids)
	if err != nil {
		return nil, errors, err
	}

	var updatable map[string]bool
	if opts.ExternalIDs != nil {
		updatable = make(map[string]bool, len(opts.ExternalIDs))
		for _, id := range opts.ExternalIDs {
			updatable[id] = true
		}
	}

	selection := make([]selectedRecord, 0, len(candidates))
	for _, c := range candidates {
		c.exists = existing[c.externalID]
		if c.exists && updatable != nil && !updatable[c.externalID] {
			continue
		}
		selection = append(selection, c)
	}
	return selection, errors, nil
}

// processRecord reconciles one record. A panic inside normalization or the
// store is degraded to a record error so a single malformed payload cannot
// take down the run.
func (u *SyncUsecase) processRecord(ctx context.Context, sel selectedRecord, opts RunOptions) (outcome entity.SyncOutcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			u.logger.Error("Panic while processing booking", "bookingId", sel.externalID, "panic", r)
			outcome = entity.OutcomeErrored
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	if u.config.RecordTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.config.RecordTimeout)
		defer cancel()
	}

	canonical := u.normalizer.Normalize(sel.raw)

	if sel.exists {
		return u.updateBooking(ctx, &canonical, opts.AllowedFields[sel.externalID])
	}
	return u.createBooking(ctx, &canonical)
}

func (u *SyncUsecase) createBooking(ctx context.Context, c *entity.CanonicalBooking) (entity.SyncOutcome, error) {
	if c.Date == "" {
		return entity.OutcomeErrored, entity.ErrMissingDate
	}
	if c.Time == "" {
		u.logger.Warn("Booking has no pickup time, defaulting to 00:00", "bookingId", c.ExternalID)
		c.Time = "00:00"
	}

	now := time.Now()
	booking := &entity.Booking{
		ExternalID: c.ExternalID,

		Date:   c.Date,
		Time:   c.Time,
		Status: c.Status,

		ServiceName: c.ServiceName,
		ServiceType: c.ServiceType,

		CustomerName:  c.CustomerName,
		CustomerEmail: c.CustomerEmail,
		CustomerPhone: c.CustomerPhone,

		PriceAmount:    c.PriceAmount,
		PriceCurrency:  c.PriceCurrency,
		PriceFormatted: c.PriceFormatted,

		PickupLocation:  c.PickupLocation,
		DropoffLocation: c.DropoffLocation,
		Distance:        c.Distance,
		Duration:        c.Duration,

		VehicleID:       c.VehicleID,
		VehicleMake:     c.VehicleMake,
		VehicleModel:    c.VehicleModel,
		VehicleCapacity: c.VehicleCapacity,

		BillingCompanyName:  c.BillingCompanyName,
		BillingTaxNumber:    c.BillingTaxNumber,
		BillingStreetName:   c.BillingStreetName,
		BillingStreetNumber: c.BillingStreetNumber,
		BillingCity:         c.BillingCity,
		BillingState:        c.BillingState,
		BillingPostalCode:   c.BillingPostalCode,
		BillingCountry:      c.BillingCountry,

		CouponCode:               c.CouponCode,
		CouponDiscountPercentage: c.CouponDiscountPercentage,

		Notes: c.Notes,
		Meta:  c.Meta,

		CreatedAt: now,
		UpdatedAt: now,
		SyncedAt:  now,
	}

	if err := u.bookings.Create(ctx, booking); err != nil {
		return entity.OutcomeErrored, err
	}
	return entity.OutcomeCreated, nil
}

func (u *SyncUsecase) updateBooking(ctx context.Context, c *entity.CanonicalBooking, allowed []string) (entity.SyncOutcome, error) {
	fields := allowed
	if fields == nil {
		fields = entity.SyncableFields()
	}

	now := time.Now()
	columns := map[string]interface{}{
		"updated_at": now,
		"synced_at":  now,
	}
	for _, field := range fields {
		value, ok := c.FieldValue(field)
		if !ok {
			continue
		}
		// An unparseable upstream date or time normalizes to ""; keep the
		// stored value rather than degrading a previously valid row.
		if field == "date" || field == "time" {
			if s, _ := value.(string); s == "" {
				continue
			}
		}
		column, ok := entity.ColumnFor(field)
		if !ok {
			continue
		}
		columns[column] = value
	}

	if err := u.bookings.UpdateColumns(ctx, c.ExternalID, columns); err != nil {
		return entity.OutcomeErrored, err
	}
	return entity.OutcomeUpdated, nil
}

func (u *SyncUsecase) finishRun(summary *entity.RunSummary, started time.Time) {
	finished := time.Now()
	u.metrics.RunDuration.Observe(finished.Sub(started).Seconds())

	if u.runs == nil {
		return
	}

	run := &entity.SyncRun{
		RunID:      summary.RunID,
		StartedAt:  started,
		FinishedAt: finished,
		Total:      summary.Total,
		Created:    summary.Created,
		Updated:    summary.Updated,
		Error:      summary.Error,
		Errors:     summary.Errors,
		DebugInfo:  summary.DebugInfo,
	}

	// The audit write must not fail the run it describes, and must not be
	// cut short by an already-expired run context.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := u.runs.Save(ctx, run); err != nil {
		u.logger.Error("Failed to save sync run", "runId", summary.RunID, "error", err)
	}
}

// RecentRuns returns the latest audit entries, newest first. It returns an
// empty list when the audit trail is not configured.
func (u *SyncUsecase) RecentRuns(ctx context.Context, limit int) ([]entity.SyncRun, error) {
	if u.runs == nil {
		return []entity.SyncRun{}, nil
	}
	return u.runs.FindRecent(ctx, limit)
}
