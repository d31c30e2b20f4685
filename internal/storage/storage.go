package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

type Store struct {
	db *sql.DB
}

// GuildConfig holds per-guild channel and role wiring. Empty string means
// unconfigured.
type GuildConfig struct {
	GuildID             string
	LogChannelID        string
	WelcomeChannelID    string
	BoostChannelID      string
	VerifyChannelID     string
	VerifyRoleID        string
	TicketCategoryID    string
	TicketSupportRoleID string
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() {
	if s.db != nil {
		_ = s.db.Close()
	}
}

func (s *Store) Migrate() error {
	entries, err := migrations.ReadDir("migrations")
	if err != nil {
		return err
	}

	var files []string
	for _, entry := range entries {
		files = append(files, entry.Name())
	}
	sort.Strings(files)

	for _, file := range files {
		content, err := migrations.ReadFile(path.Join("migrations", file))
		if err != nil {
			return err
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			if isIgnorableMigrationError(err) {
				continue
			}
			return fmt.Errorf("migration %s failed: %w", file, err)
		}
	}
	return nil
}

func (s *Store) GetGuildConfig(ctx context.Context, guildID string) (GuildConfig, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT log_channel_id, welcome_channel_id, boost_channel_id,
		verify_channel_id, verify_role_id, ticket_category_id, ticket_support_role_id
		FROM guild_config WHERE guild_id = ?`, guildID)

	result := GuildConfig{GuildID: guildID}
	err := row.Scan(
		&result.LogChannelID,
		&result.WelcomeChannelID,
		&result.BoostChannelID,
		&result.VerifyChannelID,
		&result.VerifyRoleID,
		&result.TicketCategoryID,
		&result.TicketSupportRoleID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return result, nil
		}
		return GuildConfig{}, err
	}
	return result, nil
}

func (s *Store) UpsertGuildConfig(ctx context.Context, cfg GuildConfig) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO guild_config (
			guild_id, log_channel_id, welcome_channel_id, boost_channel_id,
			verify_channel_id, verify_role_id, ticket_category_id, ticket_support_role_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(guild_id) DO UPDATE SET
			log_channel_id = excluded.log_channel_id,
			welcome_channel_id = excluded.welcome_channel_id,
			boost_channel_id = excluded.boost_channel_id,
			verify_channel_id = excluded.verify_channel_id,
			verify_role_id = excluded.verify_role_id,
			ticket_category_id = excluded.ticket_category_id,
			ticket_support_role_id = excluded.ticket_support_role_id
	`,
		cfg.GuildID,
		cfg.LogChannelID,
		cfg.WelcomeChannelID,
		cfg.BoostChannelID,
		cfg.VerifyChannelID,
		cfg.VerifyRoleID,
		cfg.TicketCategoryID,
		cfg.TicketSupportRoleID,
	)
	return err
}

// NextCounter atomically increments the named counter and returns the new
// value. Safe under concurrent callers; a single SQL statement does the
// read-modify-write.
func (s *Store) NextCounter(ctx context.Context, name string) (int64, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO counters (name, value) VALUES (?, 1)
		ON CONFLICT(name) DO UPDATE SET value = value + 1
		RETURNING value
	`, name)
	var value int64
	if err := row.Scan(&value); err != nil {
		return 0, err
	}
	return value, nil
}

func (s *Store) GetWatchCursor(ctx context.Context, source string) (int64, error) {
	row := s.db.QueryRowContext(ctx, `SELECT last_id FROM watch_cursor WHERE source = ?`, source)
	var last int64
	if err := row.Scan(&last); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return last, nil
}

func (s *Store) SetWatchCursor(ctx context.Context, source string, lastID int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO watch_cursor (source, last_id) VALUES (?, ?)
		ON CONFLICT(source) DO UPDATE SET last_id = excluded.last_id
	`, source, lastID)
	return err
}

func isIgnorableMigrationError(err error) bool {
	if err == nil {
		return false
	}
	message := err.Error()
	return strings.Contains(message, "duplicate column name") || strings.Contains(message, "already exists")
}
