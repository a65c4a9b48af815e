package entity

import (
	"errors"
	"time"
)

// Run-fatal conditions. Everything else is isolated at the per-record
// boundary and reported in RunSummary.Errors.
var (
	ErrSourceUnreachable = errors.New("booking source unreachable")
	ErrEmptySource       = errors.New("booking source returned no records")
)

// Per-record conditions.
var (
	ErrMissingIdentity = errors.New("record has no id or booking_id")
	ErrMissingDate     = errors.New("record has no usable date")
	ErrBookingNotFound = errors.New("booking not found")
)

// SyncOutcome classifies what happened to one record during a run.
type SyncOutcome string

const (
	OutcomeCreated SyncOutcome = "created"
	OutcomeUpdated SyncOutcome = "updated"
	OutcomeSkipped SyncOutcome = "skipped"
	OutcomeErrored SyncOutcome = "errored"
)

// SourceFilter narrows the upstream fetch. Status "all" (or empty) is not
// sent upstream. The client fetches a single page; paging loops belong to
// the caller.
type SourceFilter struct {
	Status string
	Limit  int
	Page   int
}

// SourceAttempt records one authentication attempt against the upstream, for
// the run's debug info.
type SourceAttempt struct {
	Strategy string `json:"strategy" bson:"strategy"`
	Status   int    `json:"status,omitempty" bson:"status,omitempty"`
	Duration int64  `json:"duration_ms" bson:"durationMs"`
	Error    string `json:"error,omitempty" bson:"error,omitempty"`
}

// SourcePage is the result of one upstream fetch: the decoded records plus
// the attempt log that produced them.
type SourcePage struct {
	Records  []RawBooking
	Attempts []SourceAttempt
}

// SyncError is one record's failure, carrying the payload that caused it so
// operators can diagnose malformed upstream data without re-fetching.
type SyncError struct {
	ExternalID string                 `json:"booking_id" bson:"bookingId"`
	Error      string                 `json:"error" bson:"error"`
	Payload    map[string]interface{} `json:"payload,omitempty" bson:"payload,omitempty"`
}

// RunSummary is the caller-facing result of one sync run. Errors is omitted
// on a clean run; the UI keys its messaging off the field's absence.
type RunSummary struct {
	RunID     string                 `json:"run_id"`
	Total     int                    `json:"total"`
	Created   int                    `json:"created"`
	Updated   int                    `json:"updated"`
	Error     string                 `json:"error,omitempty"`
	Errors    []SyncError            `json:"errors,omitempty"`
	DebugInfo map[string]interface{} `json:"debug_info,omitempty"`
}

// SyncRun is the audit-trail document persisted per run.
type SyncRun struct {
	RunID      string                 `bson:"runId"`
	StartedAt  time.Time              `bson:"startedAt"`
	FinishedAt time.Time              `bson:"finishedAt"`
	Total      int                    `bson:"total"`
	Created    int                    `bson:"created"`
	Updated    int                    `bson:"updated"`
	Error      string                 `bson:"error,omitempty"`
	Errors     []SyncError            `bson:"errors,omitempty"`
	DebugInfo  map[string]interface{} `bson:"debugInfo,omitempty"`
}

// UpdatableBooking describes one existing record whose upstream counterpart
// differs, with before/after values for the review UI.
type UpdatableBooking struct {
	ExternalID string            `json:"booking_id"`
	Changes    []string          `json:"changes"`
	Current    map[string]string `json:"current"`
	Updated    map[string]string `json:"updated"`
}

// UpdateCheck is the read-only diff between the upstream source and the
// internal store.
type UpdateCheck struct {
	NewBookings int                `json:"new_bookings"`
	Updatable   []UpdatableBooking `json:"updatable_bookings"`
}
