package store

import (
	"context"
	"errors"
	"time"
)

// ErrProfileNotFound is returned when no profile exists for an id.
var ErrProfileNotFound = errors.New("profile not found")

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit int       // max results (0 = unlimited)
	From  time.Time // timestamp >= From
	To    time.Time // timestamp <= To
}

// ProfileRecord is the persisted form of a learner profile.
type ProfileRecord struct {
	ID                string
	Level             int
	Coins             int
	Points            int
	OwnedAccessories  []string
	LastRewardedLevel int
	UpdatedAt         time.Time
}

// GrantRecord captures one non-empty reward reconciliation.
type GrantRecord struct {
	ID                string
	ProfileID         string
	Sequence          int64 // assigned by the store
	Levels            []int
	Coins             int
	Accessories       []string
	ExtraPoints       int
	ExtraStudyTimeMin int
	Source            string // what raised the points, e.g. "focus", "manual"
	GrantedAt         time.Time
}

// FocusSessionData records one completed (or skipped) timer phase.
type FocusSessionData struct {
	ID            string
	ProfileID     string
	Phase         string
	Seconds       int
	Cycle         int
	Skipped       bool
	PointsAwarded int
	CompletedAt   time.Time
}

// FocusSessionRecord is a stored focus session with its sequence number.
type FocusSessionRecord struct {
	FocusSessionData
	Sequence int64
}

// FocusTotals aggregates a profile's completed (not skipped) work phases.
type FocusTotals struct {
	WorkPhases   int
	FocusMinutes int
}

// ProfileRepo persists learner profiles.
type ProfileRepo interface {
	// GetProfile returns the profile for id, or ErrProfileNotFound.
	GetProfile(ctx context.Context, id string) (*ProfileRecord, error)

	// SaveProfile upserts the profile and, when grant is non-nil, records the
	// grant in the same transaction.
	SaveProfile(ctx context.Context, rec ProfileRecord, grant *GrantRecord) error

	// DeleteProfile removes the profile and its history. Deleting a missing
	// profile is not an error.
	DeleteProfile(ctx context.Context, id string) error
}

// EventRepo provides append and query access to progression history.
type EventRepo interface {
	// AppendFocusSession records a finished timer phase.
	AppendFocusSession(ctx context.Context, data FocusSessionData) error

	// QueryFocusSessions returns focus sessions newest first.
	QueryFocusSessions(ctx context.Context, profileID string, opts QueryOpts) ([]FocusSessionRecord, error)

	// QueryGrants returns reward grants newest first.
	QueryGrants(ctx context.Context, profileID string, opts QueryOpts) ([]GrantRecord, error)

	// FocusTotals sums completed work phases for a profile.
	FocusTotals(ctx context.Context, profileID string) (FocusTotals, error)
}

// Backend bundles the repositories of one storage driver.
type Backend interface {
	ProfileRepo() ProfileRepo
	EventRepo() EventRepo
	Close() error
}
