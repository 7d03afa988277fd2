package progression

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pawfocus/pawfocus/internal/store"
	"github.com/pawfocus/pawfocus/internal/timer"
)

// Award sources recorded on grants.
const (
	SourceFocus     = "focus"
	SourceManual    = "manual"
	SourceReconcile = "reconcile"
)

// Result is the outcome of one persisted progression change.
type Result struct {
	Before  Profile
	After   Profile
	Summary Summary
}

// LeveledUp reports whether the change granted any level reward.
func (r Result) LeveledUp() bool {
	return len(r.Summary.RewardedLevels) > 0
}

// Service loads profiles, runs the engine over them, and persists the
// outcome. The engine stays pure; every side effect lives here. Methods are
// safe for concurrent use: each load, apply and save runs under one lock.
type Service struct {
	engine   *Engine
	profiles store.ProfileRepo
	events   store.EventRepo
	logger   *slog.Logger
	now      func() time.Time

	mu sync.Mutex
	// sessionGrants accumulates non-empty summaries granted during the
	// current app session.
	sessionGrants []Summary
}

// NewService creates a Service. events may be nil, in which case focus
// sessions are not recorded.
func NewService(engine *Engine, profiles store.ProfileRepo, events store.EventRepo, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		engine:   engine,
		profiles: profiles,
		events:   events,
		logger:   logger,
		now:      time.Now,
	}
}

// Engine returns the underlying engine.
func (s *Service) Engine() *Engine {
	return s.engine
}

// Load returns the stored profile for id, or a fresh one if none exists yet.
func (s *Service) Load(ctx context.Context, id string) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, id)
}

func (s *Service) load(ctx context.Context, id string) (Profile, error) {
	if id == "" {
		return Profile{}, ErrMissingProfileID
	}
	rec, err := s.profiles.GetProfile(ctx, id)
	if errors.Is(err, store.ErrProfileNotFound) {
		return NewProfile(), nil
	}
	if err != nil {
		return Profile{}, fmt.Errorf("load profile %s: %w", id, err)
	}
	return fromRecord(rec), nil
}

// AwardPoints adds points to the profile, recomputes its level, and grants
// any rewards now owed. The profile and the grant are saved together.
func (s *Service) AwardPoints(ctx context.Context, id string, points int, source string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.award(ctx, id, points, source)
}

func (s *Service) award(ctx context.Context, id string, points int, source string) (Result, error) {
	if points < 0 {
		return Result{}, ErrNegativePoints
	}
	before, err := s.load(ctx, id)
	if err != nil {
		return Result{}, err
	}

	next := before
	next.Points += points
	next.Level = max(before.Level, s.engine.LevelForPoints(next.Points))
	return s.apply(ctx, id, before, next, source)
}

// Reconcile re-runs reward granting against the stored profile. It repairs a
// profile whose rewards lag its level and is a no-op otherwise.
func (s *Service) Reconcile(ctx context.Context, id string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before, err := s.load(ctx, id)
	if err != nil {
		return Result{}, err
	}
	next := before
	if lvl := s.engine.LevelForPoints(next.Points); lvl > next.Level {
		next.Level = lvl
	}
	return s.apply(ctx, id, before, next, SourceReconcile)
}

func (s *Service) apply(ctx context.Context, id string, before, next Profile, source string) (Result, error) {
	after, sum := s.engine.ApplyLevelUpRewards(before, next)

	var grant *store.GrantRecord
	if !sum.IsEmpty() {
		grant = &store.GrantRecord{
			ID:                uuid.NewString(),
			Levels:            sum.RewardedLevels,
			Coins:             sum.CoinsGranted,
			Accessories:       sum.AccessoryIDsGranted,
			ExtraPoints:       sum.ExtraPointsGranted,
			ExtraStudyTimeMin: sum.ExtraStudyTimeMinGranted,
			Source:            source,
			GrantedAt:         s.now(),
		}
	}

	if err := s.profiles.SaveProfile(ctx, toRecord(id, after, s.now()), grant); err != nil {
		return Result{}, fmt.Errorf("save profile %s: %w", id, err)
	}

	if grant != nil {
		s.sessionGrants = append(s.sessionGrants, sum)
		s.logger.Info("level rewards granted",
			"profile", id,
			"levels", sum.RewardedLevels,
			"coins", sum.CoinsGranted,
			"accessories", sum.AccessoryIDsGranted,
			"source", source,
		)
	}
	return Result{Before: before, After: after, Summary: sum}, nil
}

// RecordFocus awards the configured points for a work phase that ran to
// zero, then stores the finished phase with the points it actually earned.
// Skipped phases and breaks are recorded but earn nothing. When the award
// fails nothing is recorded. When only the history write fails the award
// stands and the returned Result is valid alongside the error.
func (s *Service) RecordFocus(ctx context.Context, id string, c timer.Completion) (Result, error) {
	if id == "" {
		return Result{}, ErrMissingProfileID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	points := 0
	if c.Phase == timer.PhaseWork && !c.Skipped {
		points = s.engine.Rules().PointsPerWorkPhase
	}

	var (
		res Result
		err error
	)
	if points > 0 {
		res, err = s.award(ctx, id, points, SourceFocus)
	} else {
		var p Profile
		p, err = s.load(ctx, id)
		res = Result{Before: p, After: p}
	}
	if err != nil {
		return Result{}, err
	}

	if s.events == nil {
		return res, nil
	}
	err = s.events.AppendFocusSession(ctx, store.FocusSessionData{
		ID:            uuid.NewString(),
		ProfileID:     id,
		Phase:         string(c.Phase),
		Seconds:       c.Seconds,
		Cycle:         c.CyclesCompleted,
		Skipped:       c.Skipped,
		PointsAwarded: res.After.Points - res.Before.Points,
		CompletedAt:   s.now(),
	})
	if err != nil {
		return res, fmt.Errorf("record focus session for %s: %w", id, err)
	}
	return res, nil
}

// Reset deletes the profile and its history and forgets this session's
// grants.
func (s *Service) Reset(ctx context.Context, id string) error {
	if id == "" {
		return ErrMissingProfileID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.profiles.DeleteProfile(ctx, id); err != nil {
		return fmt.Errorf("reset profile %s: %w", id, err)
	}
	s.sessionGrants = nil
	s.logger.Info("profile reset", "profile", id)
	return nil
}

// SessionGrants returns a copy of the summaries granted this session, oldest
// first.
func (s *Service) SessionGrants() []Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Summary(nil), s.sessionGrants...)
}

// ResetSession clears the session grant accumulator. Called at app start.
func (s *Service) ResetSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionGrants = nil
}

func toRecord(id string, p Profile, now time.Time) store.ProfileRecord {
	return store.ProfileRecord{
		ID:                id,
		Level:             p.Level,
		Coins:             p.Coins,
		Points:            p.Points,
		OwnedAccessories:  p.Owned.Sorted(),
		LastRewardedLevel: p.LastRewardedLevel,
		UpdatedAt:         now,
	}
}

func fromRecord(rec *store.ProfileRecord) Profile {
	return Profile{
		Level:             rec.Level,
		Coins:             rec.Coins,
		Points:            rec.Points,
		Owned:             NewAccessorySet(rec.OwnedAccessories...),
		LastRewardedLevel: rec.LastRewardedLevel,
	}
}
