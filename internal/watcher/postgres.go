package watcher

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

// Querier is the subset of pgxpool.Pool the source needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// columnMap holds the resolved physical column for each logical field.
// Optional fields stay empty when the table has no matching column.
type columnMap struct {
	id       string
	name     string
	uuid     string
	reason   string
	operator string
	kind     string
	start    string
	end      string
}

// columnCandidates lists the spellings seen across the punishment plugins we
// mirror. Overrides from config win over discovery.
var columnCandidates = map[string][]string{
	"id":       {"id"},
	"name":     {"name", "player", "player_name", "nick", "username"},
	"uuid":     {"uuid", "player_uuid"},
	"reason":   {"reason"},
	"operator": {"operator", "punisher", "staff", "admin", "banned_by_name"},
	"type":     {"type", "punishmenttype", "punishment_type", "kind"},
	"start":    {"start", "created", "created_at", "time", "date"},
	"end":      {"end", "expires", "until", "expiration", "expires_at"},
}

// PostgresSource reads punishments from the network's Postgres database.
type PostgresSource struct {
	db       Querier
	table    string
	override map[string]string
	cols     columnMap
}

func NewPostgresSource(db Querier, table string, override map[string]string) *PostgresSource {
	return &PostgresSource{db: db, table: table, override: override}
}

// Resolve discovers the table's columns and maps the logical fields onto
// them. Only id, name and type are required.
func (s *PostgresSource) Resolve(ctx context.Context) error {
	rows, err := s.db.Query(ctx, `
		SELECT column_name FROM information_schema.columns
		WHERE table_name = $1
	`, s.table)
	if err != nil {
		return fmt.Errorf("list columns of %s: %w", s.table, err)
	}
	defer rows.Close()

	available := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("scan column name: %w", err)
		}
		available[strings.ToLower(name)] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("list columns of %s: %w", s.table, err)
	}
	if len(available) == 0 {
		return fmt.Errorf("table %s not found or has no columns", s.table)
	}

	s.cols = columnMap{
		id:       pickColumn(available, s.override["id"], columnCandidates["id"]...),
		name:     pickColumn(available, s.override["name"], columnCandidates["name"]...),
		uuid:     pickColumn(available, s.override["uuid"], columnCandidates["uuid"]...),
		reason:   pickColumn(available, s.override["reason"], columnCandidates["reason"]...),
		operator: pickColumn(available, s.override["operator"], columnCandidates["operator"]...),
		kind:     pickColumn(available, s.override["type"], columnCandidates["type"]...),
		start:    pickColumn(available, s.override["start"], columnCandidates["start"]...),
		end:      pickColumn(available, s.override["end"], columnCandidates["end"]...),
	}
	if s.cols.id == "" {
		return fmt.Errorf("table %s has no id column", s.table)
	}
	if s.cols.name == "" {
		return fmt.Errorf("table %s has no player name column", s.table)
	}
	if s.cols.kind == "" {
		return fmt.Errorf("table %s has no punishment type column", s.table)
	}
	return nil
}

// pickColumn prefers the configured override, then the first candidate that
// exists in the table.
func pickColumn(available map[string]bool, override string, candidates ...string) string {
	if override != "" {
		if available[strings.ToLower(override)] {
			return override
		}
		return ""
	}
	for _, c := range candidates {
		if available[c] {
			return c
		}
	}
	return ""
}

func (s *PostgresSource) Latest(ctx context.Context) (int64, error) {
	query := fmt.Sprintf(`SELECT COALESCE(MAX(%s), 0) FROM %s`,
		pgx.Identifier{s.cols.id}.Sanitize(), pgx.Identifier{s.table}.Sanitize())
	var latest int64
	if err := s.db.QueryRow(ctx, query).Scan(&latest); err != nil {
		return 0, fmt.Errorf("max id of %s: %w", s.table, err)
	}
	return latest, nil
}

func (s *PostgresSource) After(ctx context.Context, lastID int64, limit int) ([]Punishment, error) {
	exprs := []string{
		pgx.Identifier{s.cols.id}.Sanitize(),
		pgx.Identifier{s.cols.name}.Sanitize(),
		selectOrNull(s.cols.uuid),
		selectOrNull(s.cols.reason),
		selectOrNull(s.cols.operator),
		pgx.Identifier{s.cols.kind}.Sanitize(),
		selectOrNull(s.cols.start),
		selectOrNull(s.cols.end),
	}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s > $1 ORDER BY %s ASC LIMIT %d`,
		strings.Join(exprs, ", "),
		pgx.Identifier{s.table}.Sanitize(),
		pgx.Identifier{s.cols.id}.Sanitize(),
		pgx.Identifier{s.cols.id}.Sanitize(),
		limit)

	rows, err := s.db.Query(ctx, query, lastID)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.table, err)
	}
	defer rows.Close()

	var out []Punishment
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		p := Punishment{
			ID:       coerceID(values[0]),
			Name:     coerceString(values[1]),
			UUID:     coerceString(values[2]),
			Reason:   coerceString(values[3]),
			Operator: coerceString(values[4]),
			Kind:     coerceString(values[5]),
			Start:    coerceTime(values[6]),
		}
		if end := coerceTime(values[7]); !end.IsZero() {
			p.End = &end
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query %s: %w", s.table, err)
	}
	return out, nil
}

func selectOrNull(column string) string {
	if column == "" {
		return "NULL"
	}
	return pgx.Identifier{column}.Sanitize()
}

func coerceID(v any) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int32:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		n, _ := strconv.ParseInt(t, 10, 64)
		return n
	default:
		return 0
	}
}

func coerceString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return fmt.Sprint(t)
	}
}

// coerceTime accepts the representations punishment plugins use: epoch
// seconds, epoch milliseconds, native timestamps, or numeric strings.
// Non-positive values mean "no end", rendered as the zero time.
func coerceTime(v any) time.Time {
	switch t := v.(type) {
	case nil:
		return time.Time{}
	case time.Time:
		return t
	case int64:
		return epochTime(t)
	case int32:
		return epochTime(int64(t))
	case float64:
		return epochTime(int64(t))
	case string:
		n, err := strconv.ParseInt(t, 10, 64)
		if err != nil {
			return time.Time{}
		}
		return epochTime(n)
	default:
		return time.Time{}
	}
}

func epochTime(v int64) time.Time {
	if v <= 0 {
		return time.Time{}
	}
	if v < 1e10 {
		return time.Unix(v, 0).UTC()
	}
	return time.UnixMilli(v).UTC()
}
