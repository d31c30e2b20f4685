package storage

import (
	"context"
	"time"
)

const (
	ActionBan     = "ban"
	ActionUnban   = "unban"
	ActionTimeout = "timeout"
)

type Warning struct {
	ID          int64
	GuildID     string
	UserID      string
	ModeratorID string
	Reason      string
	CreatedAt   time.Time
}

type ModAction struct {
	ID          int64
	GuildID     string
	UserID      string
	ModeratorID string
	Kind        string
	Reason      string
	CreatedAt   time.Time
}

// AddWarning records a warning and returns the user's total count afterwards.
func (s *Store) AddWarning(ctx context.Context, w Warning) (int, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO warnings (guild_id, user_id, moderator_id, reason, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, w.GuildID, w.UserID, w.ModeratorID, w.Reason, w.CreatedAt.Unix())
	if err != nil {
		return 0, err
	}
	return s.CountWarnings(ctx, w.GuildID, w.UserID)
}

func (s *Store) CountWarnings(ctx context.Context, guildID, userID string) (int, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM warnings WHERE guild_id = ? AND user_id = ?
	`, guildID, userID)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// ListWarnings returns the user's warnings oldest-first. limit <= 0 means all.
func (s *Store) ListWarnings(ctx context.Context, guildID, userID string, limit int) ([]Warning, error) {
	query := `
		SELECT id, guild_id, user_id, moderator_id, reason, created_at
		FROM warnings
		WHERE guild_id = ? AND user_id = ?
		ORDER BY id ASC`
	args := []any{guildID, userID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var warnings []Warning
	for rows.Next() {
		var w Warning
		var created int64
		if err := rows.Scan(&w.ID, &w.GuildID, &w.UserID, &w.ModeratorID, &w.Reason, &created); err != nil {
			return nil, err
		}
		w.CreatedAt = time.Unix(created, 0)
		warnings = append(warnings, w)
	}
	return warnings, rows.Err()
}

// RemoveWarnings deletes up to amount of the user's newest warnings and
// returns the removed rows, newest-first. Requesting more than exist removes
// all of them.
func (s *Store) RemoveWarnings(ctx context.Context, guildID, userID string, amount int) ([]Warning, error) {
	if amount <= 0 {
		return nil, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	rows, err := tx.QueryContext(ctx, `
		SELECT id, guild_id, user_id, moderator_id, reason, created_at
		FROM warnings
		WHERE guild_id = ? AND user_id = ?
		ORDER BY id DESC LIMIT ?
	`, guildID, userID, amount)
	if err != nil {
		return nil, err
	}

	var removed []Warning
	for rows.Next() {
		var w Warning
		var created int64
		if err = rows.Scan(&w.ID, &w.GuildID, &w.UserID, &w.ModeratorID, &w.Reason, &created); err != nil {
			rows.Close()
			return nil, err
		}
		w.CreatedAt = time.Unix(created, 0)
		removed = append(removed, w)
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		return nil, err
	}

	for _, w := range removed {
		if _, err = tx.ExecContext(ctx, `DELETE FROM warnings WHERE id = ?`, w.ID); err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return removed, nil
}

func (s *Store) AddModAction(ctx context.Context, a ModAction) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO mod_actions (guild_id, user_id, moderator_id, kind, reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, a.GuildID, a.UserID, a.ModeratorID, a.Kind, a.Reason, a.CreatedAt.Unix())
	return err
}

// CountModActions returns per-kind totals for the target user.
func (s *Store) CountModActions(ctx context.Context, guildID, userID string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, COUNT(*) FROM mod_actions
		WHERE guild_id = ? AND user_id = ?
		GROUP BY kind
	`, guildID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var kind string
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, err
		}
		counts[kind] = count
	}
	return counts, rows.Err()
}
