package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo on SQLite.
type eventRepo struct {
	db *sql.DB
}

func (r *eventRepo) AppendFocusSession(ctx context.Context, data FocusSessionData) error {
	if data.CompletedAt.IsZero() {
		data.CompletedAt = time.Now()
	}

	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		seq, err := nextSequence(ctx, tx)
		if err != nil {
			return err
		}
		query, args := builder.Insert("focus_sessions").
			Columns("id", "sequence", "profile_id", "phase", "seconds", "cycle",
				"skipped", "points_awarded", "completed_at").
			Values(data.ID, seq, data.ProfileID, data.Phase, data.Seconds, data.Cycle,
				boolToInt(data.Skipped), data.PointsAwarded, formatTime(data.CompletedAt)).
			Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("save focus session: %w", err)
		}
		return nil
	})
}

func (r *eventRepo) QueryFocusSessions(ctx context.Context, profileID string, opts QueryOpts) ([]FocusSessionRecord, error) {
	sel := builder.Select("id", "sequence", "profile_id", "phase", "seconds", "cycle",
		"skipped", "points_awarded", "completed_at").
		From(builder.Table("focus_sessions"))
	applyQueryOpts(sel, profileID, "completed_at", opts)

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query focus sessions: %w", err)
	}
	defer rows.Close()

	var records []FocusSessionRecord
	for rows.Next() {
		var (
			rec         FocusSessionRecord
			skipped     int
			completedAt string
		)
		if err := rows.Scan(&rec.ID, &rec.Sequence, &rec.ProfileID, &rec.Phase, &rec.Seconds,
			&rec.Cycle, &skipped, &rec.PointsAwarded, &completedAt); err != nil {
			return nil, fmt.Errorf("scan focus session: %w", err)
		}
		rec.Skipped = skipped != 0
		rec.CompletedAt = parseTime(completedAt)
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *eventRepo) QueryGrants(ctx context.Context, profileID string, opts QueryOpts) ([]GrantRecord, error) {
	sel := builder.Select("id", "sequence", "profile_id", "levels", "coins", "accessories",
		"extra_points", "extra_study_time_min", "source", "granted_at").
		From(builder.Table("reward_grants"))
	applyQueryOpts(sel, profileID, "granted_at", opts)

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query grants: %w", err)
	}
	defer rows.Close()

	var records []GrantRecord
	for rows.Next() {
		var (
			rec                       GrantRecord
			levels, accessories, when string
		)
		if err := rows.Scan(&rec.ID, &rec.Sequence, &rec.ProfileID, &levels, &rec.Coins, &accessories,
			&rec.ExtraPoints, &rec.ExtraStudyTimeMin, &rec.Source, &when); err != nil {
			return nil, fmt.Errorf("scan grant: %w", err)
		}
		if err := json.Unmarshal([]byte(levels), &rec.Levels); err != nil {
			return nil, fmt.Errorf("decode grant levels: %w", err)
		}
		if err := json.Unmarshal([]byte(accessories), &rec.Accessories); err != nil {
			return nil, fmt.Errorf("decode grant accessories: %w", err)
		}
		rec.GrantedAt = parseTime(when)
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *eventRepo) FocusTotals(ctx context.Context, profileID string) (FocusTotals, error) {
	query, args := builder.Select(entsql.Count("*"), entsql.Sum("seconds")).
		From(builder.Table("focus_sessions")).
		Where(entsql.And(
			entsql.EQ("profile_id", profileID),
			entsql.EQ("phase", "work"),
			entsql.EQ("skipped", 0),
		)).
		Query()

	var (
		count   int
		seconds sql.NullInt64
	)
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count, &seconds); err != nil {
		return FocusTotals{}, fmt.Errorf("query focus totals: %w", err)
	}
	return FocusTotals{
		WorkPhases:   count,
		FocusMinutes: int(seconds.Int64 / 60),
	}, nil
}

// applyQueryOpts scopes sel to a profile, a time window on timeCol, and a
// limit, ordered newest first.
func applyQueryOpts(sel *entsql.Selector, profileID, timeCol string, opts QueryOpts) {
	preds := []*entsql.Predicate{entsql.EQ("profile_id", profileID)}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE(timeCol, formatTime(opts.From)))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE(timeCol, formatTime(opts.To)))
	}
	sel.Where(entsql.And(preds...)).OrderBy(entsql.Desc("sequence"))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
