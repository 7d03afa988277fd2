package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// profileRepo implements ProfileRepo on SQLite.
type profileRepo struct {
	db *sql.DB
}

var profileColumns = []string{
	"id", "level", "coins", "points", "owned_accessories", "last_rewarded_level", "updated_at",
}

func (r *profileRepo) GetProfile(ctx context.Context, id string) (*ProfileRecord, error) {
	query, args := builder.Select(profileColumns...).
		From(builder.Table("profiles")).
		Where(entsql.EQ("id", id)).
		Query()

	var (
		rec       ProfileRecord
		owned     string
		updatedAt string
	)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&rec.ID, &rec.Level, &rec.Coins, &rec.Points, &owned, &rec.LastRewardedLevel, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query profile: %w", err)
	}

	if err := json.Unmarshal([]byte(owned), &rec.OwnedAccessories); err != nil {
		return nil, fmt.Errorf("decode owned accessories: %w", err)
	}
	rec.UpdatedAt = parseTime(updatedAt)
	return &rec, nil
}

func (r *profileRepo) SaveProfile(ctx context.Context, rec ProfileRecord, grant *GrantRecord) error {
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now()
	}
	owned, err := marshalStrings(rec.OwnedAccessories)
	if err != nil {
		return fmt.Errorf("encode owned accessories: %w", err)
	}

	upsert, upsertArgs := builder.Insert("profiles").
		Columns(profileColumns...).
		Values(rec.ID, rec.Level, rec.Coins, rec.Points, owned, rec.LastRewardedLevel, formatTime(rec.UpdatedAt)).
		OnConflict(
			entsql.ConflictColumns("id"),
			entsql.ResolveWithNewValues(),
		).
		Query()

	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, upsert, upsertArgs...); err != nil {
			return fmt.Errorf("upsert profile: %w", err)
		}
		if grant == nil {
			return nil
		}
		seq, err := nextSequence(ctx, tx)
		if err != nil {
			return err
		}
		grant.Sequence = seq
		query, args, err := insertGrant(rec.ID, grant)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert grant: %w", err)
		}
		return nil
	})
}

func (r *profileRepo) DeleteProfile(ctx context.Context, id string) error {
	stmts := []*entsql.DeleteBuilder{
		builder.Delete("reward_grants").Where(entsql.EQ("profile_id", id)),
		builder.Delete("focus_sessions").Where(entsql.EQ("profile_id", id)),
		builder.Delete("profiles").Where(entsql.EQ("id", id)),
	}

	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, stmt := range stmts {
			query, args := stmt.Query()
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("delete profile: %w", err)
			}
		}
		return nil
	})
}

func insertGrant(profileID string, g *GrantRecord) (string, []any, error) {
	if g.GrantedAt.IsZero() {
		g.GrantedAt = time.Now()
	}
	g.ProfileID = profileID

	levels, err := json.Marshal(g.Levels)
	if err != nil {
		return "", nil, fmt.Errorf("encode levels: %w", err)
	}
	accessories, err := marshalStrings(g.Accessories)
	if err != nil {
		return "", nil, fmt.Errorf("encode accessories: %w", err)
	}

	query, args := builder.Insert("reward_grants").
		Columns("id", "sequence", "profile_id", "levels", "coins", "accessories",
			"extra_points", "extra_study_time_min", "source", "granted_at").
		Values(g.ID, g.Sequence, g.ProfileID, string(levels), g.Coins, accessories,
			g.ExtraPoints, g.ExtraStudyTimeMin, g.Source, formatTime(g.GrantedAt)).
		Query()
	return query, args, nil
}

// marshalStrings encodes ids as a JSON array, writing [] for nil.
func marshalStrings(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	b, err := json.Marshal(ids)
	return string(b), err
}

// timeLayout is fixed-width so stored timestamps compare correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(timeLayout, s)
	return t
}
