package progression

import "sort"

// AccessorySet is a set of owned accessory IDs. Treat it as immutable once it
// is part of a Profile; use With or Clone to derive a changed copy.
type AccessorySet map[string]struct{}

// NewAccessorySet builds a set from ids.
func NewAccessorySet(ids ...string) AccessorySet {
	s := make(AccessorySet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is owned. Safe on a nil set.
func (s AccessorySet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Clone returns an independent copy. A nil set clones to an empty set.
func (s AccessorySet) Clone() AccessorySet {
	out := make(AccessorySet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// With returns a copy of s that also contains ids.
func (s AccessorySet) With(ids ...string) AccessorySet {
	out := s.Clone()
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}

// Sorted returns the IDs in lexical order.
func (s AccessorySet) Sorted() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Profile is a value snapshot of a learner's progression.
type Profile struct {
	Level             int
	Coins             int
	Points            int
	Owned             AccessorySet
	LastRewardedLevel int
}

// NewProfile returns the starting profile. Level 1 is where everyone starts,
// so it is already considered rewarded.
func NewProfile() Profile {
	return Profile{
		Level:             1,
		Owned:             AccessorySet{},
		LastRewardedLevel: 1,
	}
}
