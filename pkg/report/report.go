package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"catalog-hq/marcval/pkg/marc"
	marcerrors "catalog-hq/marcval/pkg/marc/errors"
)

// Report is one recorded validation outcome.
type Report struct {
	// ID is a generated UUID identifying the report.
	ID string `json:"id"`

	// RequestID ties the report to the API request that produced it.
	// Empty for CLI validations.
	RequestID string `json:"request_id,omitempty"`

	// ControlNumber is the record's 001 payload, when present.
	ControlNumber string `json:"control_number,omitempty"`

	// Leader is the validated record's leader.
	Leader string `json:"leader"`

	// MaterialType is the leader-derived material classification.
	MaterialType string `json:"material_type,omitempty"`

	// Valid reports whether the record passed with zero violations.
	Valid bool `json:"valid"`

	// ViolationCount is the number of violations found.
	ViolationCount int `json:"violation_count"`

	// Violations is the serialized violation list.
	Violations json.RawMessage `json:"violations,omitempty"`

	// Duration is how long the validation pass took.
	Duration time.Duration `json:"duration"`

	// RecordedAt is when the report was stored.
	RecordedAt time.Time `json:"recorded_at"`
}

// New builds a report from a validated record and its violation list.
func New(rec *marc.Record, list *marcerrors.ErrorList, duration time.Duration) (*Report, error) {
	violations, err := json.Marshal(list.Violations)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize violations: %w", err)
	}

	return &Report{
		ID:             uuid.NewString(),
		ControlNumber:  rec.ControlNumber(),
		Leader:         string(rec.Leader),
		MaterialType:   string(rec.Leader.MaterialType()),
		Valid:          !list.HasErrors(),
		ViolationCount: list.Count(),
		Violations:     violations,
		Duration:       duration,
		RecordedAt:     time.Now().UTC(),
	}, nil
}

// ListOptions controls report listing.
type ListOptions struct {
	// Limit caps the number of reports returned. Zero means a backend
	// default (100).
	Limit int

	// Offset skips that many reports, newest first.
	Offset int

	// OnlyInvalid restricts the listing to failed validations.
	OnlyInvalid bool
}

// Store persists validation reports.
type Store interface {
	// Save persists one report.
	Save(ctx context.Context, r *Report) error

	// Get returns a report by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*Report, error)

	// List returns reports newest first.
	List(ctx context.Context, opts ListOptions) ([]*Report, error)

	// Count returns the number of stored reports.
	Count(ctx context.Context) (int64, error)

	// DeleteOlderThan removes reports recorded before the cutoff and
	// returns how many were deleted.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	// Close releases backend resources.
	Close() error
}
