package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps everything in process memory. It backs tests and the
// --store=memory mode, where nothing should touch disk.
type MemoryStore struct {
	mu       sync.Mutex
	seq      int64
	profiles map[string]ProfileRecord
	grants   []GrantRecord
	sessions []FocusSessionRecord
}

var _ Backend = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: make(map[string]ProfileRecord)}
}

func (m *MemoryStore) ProfileRepo() ProfileRepo { return memoryProfiles{m} }
func (m *MemoryStore) EventRepo() EventRepo     { return memoryEvents{m} }
func (m *MemoryStore) Close() error             { return nil }

type memoryProfiles struct{ m *MemoryStore }

func (r memoryProfiles) GetProfile(_ context.Context, id string) (*ProfileRecord, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	rec, ok := r.m.profiles[id]
	if !ok {
		return nil, ErrProfileNotFound
	}
	rec.OwnedAccessories = append([]string(nil), rec.OwnedAccessories...)
	return &rec, nil
}

func (r memoryProfiles) SaveProfile(_ context.Context, rec ProfileRecord, grant *GrantRecord) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now()
	}
	rec.OwnedAccessories = append([]string(nil), rec.OwnedAccessories...)
	r.m.profiles[rec.ID] = rec

	if grant != nil {
		r.m.seq++
		grant.Sequence = r.m.seq
		grant.ProfileID = rec.ID
		if grant.GrantedAt.IsZero() {
			grant.GrantedAt = time.Now()
		}
		r.m.grants = append(r.m.grants, *grant)
	}
	return nil
}

func (r memoryProfiles) DeleteProfile(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	delete(r.m.profiles, id)

	grants := r.m.grants[:0]
	for _, g := range r.m.grants {
		if g.ProfileID != id {
			grants = append(grants, g)
		}
	}
	r.m.grants = grants

	sessions := r.m.sessions[:0]
	for _, s := range r.m.sessions {
		if s.ProfileID != id {
			sessions = append(sessions, s)
		}
	}
	r.m.sessions = sessions
	return nil
}

type memoryEvents struct{ m *MemoryStore }

func (r memoryEvents) AppendFocusSession(_ context.Context, data FocusSessionData) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if data.CompletedAt.IsZero() {
		data.CompletedAt = time.Now()
	}
	r.m.seq++
	r.m.sessions = append(r.m.sessions, FocusSessionRecord{FocusSessionData: data, Sequence: r.m.seq})
	return nil
}

func (r memoryEvents) QueryFocusSessions(_ context.Context, profileID string, opts QueryOpts) ([]FocusSessionRecord, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	var out []FocusSessionRecord
	for _, s := range r.m.sessions {
		if s.ProfileID == profileID && inWindow(s.CompletedAt, opts) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence > out[j].Sequence })
	return limit(out, opts.Limit), nil
}

func (r memoryEvents) QueryGrants(_ context.Context, profileID string, opts QueryOpts) ([]GrantRecord, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	var out []GrantRecord
	for _, g := range r.m.grants {
		if g.ProfileID == profileID && inWindow(g.GrantedAt, opts) {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence > out[j].Sequence })
	return limit(out, opts.Limit), nil
}

func (r memoryEvents) FocusTotals(_ context.Context, profileID string) (FocusTotals, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	var totals FocusTotals
	var seconds int
	for _, s := range r.m.sessions {
		if s.ProfileID == profileID && s.Phase == "work" && !s.Skipped {
			totals.WorkPhases++
			seconds += s.Seconds
		}
	}
	totals.FocusMinutes = seconds / 60
	return totals, nil
}

func inWindow(t time.Time, opts QueryOpts) bool {
	if !opts.From.IsZero() && t.Before(opts.From) {
		return false
	}
	if !opts.To.IsZero() && t.After(opts.To) {
		return false
	}
	return true
}

func limit[T any](items []T, n int) []T {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}
