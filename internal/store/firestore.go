package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// DefaultFirestoreCollection is the root collection for profile documents.
const DefaultFirestoreCollection = "pawfocus_profiles"

const (
	grantsCollection   = "reward_grants"
	sessionsCollection = "focus_sessions"

	// The history counter lives outside the profile collection so no
	// profile id can collide with it.
	metaSuffix = "_meta"
	counterDoc = "sequence"
)

// FirestoreStore keeps profiles in a Firestore collection. Grants and focus
// sessions live in subcollections of their profile document.
type FirestoreStore struct {
	client     *firestore.Client
	collection string
}

var _ Backend = (*FirestoreStore)(nil)

// OpenFirestore connects to projectID. When FIRESTORE_EMULATOR_HOST is set
// the client talks to the emulator instead.
func OpenFirestore(ctx context.Context, projectID, collection string) (*FirestoreStore, error) {
	if projectID == "" {
		return nil, errors.New("firestore: project id is required")
	}
	if collection == "" {
		collection = DefaultFirestoreCollection
	}
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	return &FirestoreStore{client: client, collection: collection}, nil
}

func (s *FirestoreStore) ProfileRepo() ProfileRepo { return &firestoreProfiles{s} }
func (s *FirestoreStore) EventRepo() EventRepo     { return &firestoreEvents{s} }
func (s *FirestoreStore) Close() error             { return s.client.Close() }

func (s *FirestoreStore) profileRef(id string) *firestore.DocumentRef {
	return s.client.Collection(s.collection).Doc(id)
}

func (s *FirestoreStore) counterRef() *firestore.DocumentRef {
	return s.client.Collection(s.collection + metaSuffix).Doc(counterDoc)
}

// nextSequence reads and bumps the shared counter inside tx. Firestore
// requires all transaction reads before any write, so call it first.
func (s *FirestoreStore) nextSequence(tx *firestore.Transaction) (int64, error) {
	var counter struct {
		Value int64 `firestore:"value"`
	}
	doc, err := tx.Get(s.counterRef())
	switch {
	case status.Code(err) == codes.NotFound:
	case err != nil:
		return 0, fmt.Errorf("read sequence: %w", err)
	default:
		if err := doc.DataTo(&counter); err != nil {
			return 0, fmt.Errorf("decode sequence: %w", err)
		}
	}
	counter.Value++
	if err := tx.Set(s.counterRef(), counter); err != nil {
		return 0, fmt.Errorf("bump sequence: %w", err)
	}
	return counter.Value, nil
}

type profileDoc struct {
	Level             int       `firestore:"level"`
	Coins             int       `firestore:"coins"`
	Points            int       `firestore:"points"`
	OwnedAccessories  []string  `firestore:"owned_accessories"`
	LastRewardedLevel int       `firestore:"last_rewarded_level"`
	UpdatedAt         time.Time `firestore:"updated_at"`
}

type grantDoc struct {
	Sequence          int64     `firestore:"sequence"`
	Levels            []int     `firestore:"levels"`
	Coins             int       `firestore:"coins"`
	Accessories       []string  `firestore:"accessories"`
	ExtraPoints       int       `firestore:"extra_points"`
	ExtraStudyTimeMin int       `firestore:"extra_study_time_min"`
	Source            string    `firestore:"source"`
	GrantedAt         time.Time `firestore:"granted_at"`
}

type sessionDoc struct {
	Sequence      int64     `firestore:"sequence"`
	Phase         string    `firestore:"phase"`
	Seconds       int       `firestore:"seconds"`
	Cycle         int       `firestore:"cycle"`
	Skipped       bool      `firestore:"skipped"`
	PointsAwarded int       `firestore:"points_awarded"`
	CompletedAt   time.Time `firestore:"completed_at"`
}

type firestoreProfiles struct{ s *FirestoreStore }

func (r *firestoreProfiles) GetProfile(ctx context.Context, id string) (*ProfileRecord, error) {
	doc, err := r.s.profileRef(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	var d profileDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, fmt.Errorf("unmarshal profile: %w", err)
	}
	return &ProfileRecord{
		ID:                doc.Ref.ID,
		Level:             d.Level,
		Coins:             d.Coins,
		Points:            d.Points,
		OwnedAccessories:  d.OwnedAccessories,
		LastRewardedLevel: d.LastRewardedLevel,
		UpdatedAt:         d.UpdatedAt,
	}, nil
}

func (r *firestoreProfiles) SaveProfile(ctx context.Context, rec ProfileRecord, grant *GrantRecord) error {
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now().UTC()
	}
	owned := rec.OwnedAccessories
	if owned == nil {
		owned = []string{}
	}
	ref := r.s.profileRef(rec.ID)

	err := r.s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		var seq int64
		if grant != nil {
			var err error
			if seq, err = r.s.nextSequence(tx); err != nil {
				return err
			}
		}

		if err := tx.Set(ref, profileDoc{
			Level:             rec.Level,
			Coins:             rec.Coins,
			Points:            rec.Points,
			OwnedAccessories:  owned,
			LastRewardedLevel: rec.LastRewardedLevel,
			UpdatedAt:         rec.UpdatedAt,
		}); err != nil {
			return err
		}
		if grant == nil {
			return nil
		}

		grant.Sequence = seq
		grant.ProfileID = rec.ID
		if grant.GrantedAt.IsZero() {
			grant.GrantedAt = time.Now().UTC()
		}
		return tx.Create(ref.Collection(grantsCollection).Doc(grant.ID), grantDoc{
			Sequence:          grant.Sequence,
			Levels:            grant.Levels,
			Coins:             grant.Coins,
			Accessories:       grant.Accessories,
			ExtraPoints:       grant.ExtraPoints,
			ExtraStudyTimeMin: grant.ExtraStudyTimeMin,
			Source:            grant.Source,
			GrantedAt:         grant.GrantedAt,
		})
	})
	if grant != nil && status.Code(err) == codes.AlreadyExists {
		return fmt.Errorf("grant %s already recorded: %w", grant.ID, err)
	}
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func (r *firestoreProfiles) DeleteProfile(ctx context.Context, id string) error {
	ref := r.s.profileRef(id)
	for _, sub := range []string{grantsCollection, sessionsCollection} {
		if err := r.s.deleteAll(ctx, ref.Collection(sub).Documents(ctx)); err != nil {
			return fmt.Errorf("delete %s: %w", sub, err)
		}
	}
	if _, err := ref.Delete(ctx); err != nil && status.Code(err) != codes.NotFound {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}

// deleteAll drains iter through a BulkWriter, which batches the deletes,
// and reports every delete that failed.
func (s *FirestoreStore) deleteAll(ctx context.Context, iter *firestore.DocumentIterator) error {
	defer iter.Stop()
	bw := s.client.BulkWriter(ctx)

	var jobs []*firestore.BulkWriterJob
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			bw.End()
			return err
		}
		job, err := bw.Delete(doc.Ref)
		if err != nil {
			bw.End()
			return err
		}
		jobs = append(jobs, job)
	}
	bw.End()

	var errs []error
	for _, job := range jobs {
		if _, err := job.Results(); err != nil && status.Code(err) != codes.NotFound {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type firestoreEvents struct{ s *FirestoreStore }

func (r *firestoreEvents) AppendFocusSession(ctx context.Context, data FocusSessionData) error {
	if data.CompletedAt.IsZero() {
		data.CompletedAt = time.Now().UTC()
	}
	ref := r.s.profileRef(data.ProfileID).Collection(sessionsCollection).Doc(data.ID)

	err := r.s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		seq, err := r.s.nextSequence(tx)
		if err != nil {
			return err
		}
		return tx.Create(ref, sessionDoc{
			Sequence:      seq,
			Phase:         data.Phase,
			Seconds:       data.Seconds,
			Cycle:         data.Cycle,
			Skipped:       data.Skipped,
			PointsAwarded: data.PointsAwarded,
			CompletedAt:   data.CompletedAt,
		})
	})
	if err != nil {
		return fmt.Errorf("save focus session: %w", err)
	}
	return nil
}

func (r *firestoreEvents) QueryFocusSessions(ctx context.Context, profileID string, opts QueryOpts) ([]FocusSessionRecord, error) {
	q := scopedQuery(r.s.profileRef(profileID).Collection(sessionsCollection).Query, "completed_at", opts)
	iter := q.Documents(ctx)
	defer iter.Stop()

	var records []FocusSessionRecord
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("query focus sessions: %w", err)
		}
		var d sessionDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, fmt.Errorf("unmarshal focus session: %w", err)
		}
		records = append(records, FocusSessionRecord{
			FocusSessionData: FocusSessionData{
				ID:            doc.Ref.ID,
				ProfileID:     profileID,
				Phase:         d.Phase,
				Seconds:       d.Seconds,
				Cycle:         d.Cycle,
				Skipped:       d.Skipped,
				PointsAwarded: d.PointsAwarded,
				CompletedAt:   d.CompletedAt,
			},
			Sequence: d.Sequence,
		})
	}
	return records, nil
}

func (r *firestoreEvents) QueryGrants(ctx context.Context, profileID string, opts QueryOpts) ([]GrantRecord, error) {
	q := scopedQuery(r.s.profileRef(profileID).Collection(grantsCollection).Query, "granted_at", opts)
	iter := q.Documents(ctx)
	defer iter.Stop()

	var records []GrantRecord
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("query grants: %w", err)
		}
		var d grantDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, fmt.Errorf("unmarshal grant: %w", err)
		}
		records = append(records, GrantRecord{
			ID:                doc.Ref.ID,
			ProfileID:         profileID,
			Sequence:          d.Sequence,
			Levels:            d.Levels,
			Coins:             d.Coins,
			Accessories:       d.Accessories,
			ExtraPoints:       d.ExtraPoints,
			ExtraStudyTimeMin: d.ExtraStudyTimeMin,
			Source:            d.Source,
			GrantedAt:         d.GrantedAt,
		})
	}
	return records, nil
}

func (r *firestoreEvents) FocusTotals(ctx context.Context, profileID string) (FocusTotals, error) {
	iter := r.s.profileRef(profileID).Collection(sessionsCollection).
		Where("phase", "==", "work").
		Where("skipped", "==", false).
		Documents(ctx)
	defer iter.Stop()

	var totals FocusTotals
	var seconds int
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return FocusTotals{}, fmt.Errorf("query focus totals: %w", err)
		}
		var d sessionDoc
		if err := doc.DataTo(&d); err != nil {
			return FocusTotals{}, fmt.Errorf("unmarshal focus session: %w", err)
		}
		totals.WorkPhases++
		seconds += d.Seconds
	}
	totals.FocusMinutes = seconds / 60
	return totals, nil
}

// scopedQuery applies the time window on timeField and orders newest first.
func scopedQuery(q firestore.Query, timeField string, opts QueryOpts) firestore.Query {
	if !opts.From.IsZero() {
		q = q.Where(timeField, ">=", opts.From)
	}
	if !opts.To.IsZero() {
		q = q.Where(timeField, "<=", opts.To)
	}
	// Inequality filters require the first OrderBy on the same field.
	if !opts.From.IsZero() || !opts.To.IsZero() {
		q = q.OrderBy(timeField, firestore.Desc)
	}
	q = q.OrderBy("sequence", firestore.Desc)
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	return q
}
