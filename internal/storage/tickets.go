package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

const (
	TicketOpen   = "open"
	TicketClosed = "closed"
)

type Ticket struct {
	ID        int64
	GuildID   string
	UserID    string
	ChannelID string
	Category  string
	Status    string
	OpenedAt  time.Time
	ClosedAt  *time.Time
}

func (s *Store) CreateTicket(ctx context.Context, ticket Ticket) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO tickets (guild_id, user_id, channel_id, category, status, opened_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, ticket.GuildID, ticket.UserID, ticket.ChannelID, ticket.Category, TicketOpen, ticket.OpenedAt.Unix())
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// FindOpenTicketByUser returns the requester's open ticket, if any. This row
// is the source of truth for the one-open-ticket-per-user rule.
func (s *Store) FindOpenTicketByUser(ctx context.Context, guildID, userID string) (Ticket, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, guild_id, user_id, channel_id, category, status, opened_at, closed_at
		FROM tickets
		WHERE guild_id = ? AND user_id = ? AND status = ?
		ORDER BY id DESC LIMIT 1
	`, guildID, userID, TicketOpen)
	return scanTicket(row)
}

func (s *Store) FindOpenTicketByChannel(ctx context.Context, guildID, channelID string) (Ticket, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, guild_id, user_id, channel_id, category, status, opened_at, closed_at
		FROM tickets
		WHERE guild_id = ? AND channel_id = ? AND status = ?
		ORDER BY id DESC LIMIT 1
	`, guildID, channelID, TicketOpen)
	return scanTicket(row)
}

// CloseTicket soft-closes the open ticket for the channel. Returns false when
// no open row matched; the row is retained for audit either way.
func (s *Store) CloseTicket(ctx context.Context, guildID, channelID string, closedAt time.Time) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE tickets SET status = ?, closed_at = ?
		WHERE guild_id = ? AND channel_id = ? AND status = ?
	`, TicketClosed, closedAt.Unix(), guildID, channelID, TicketOpen)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func scanTicket(row *sql.Row) (Ticket, bool, error) {
	var t Ticket
	var opened int64
	var closed sql.NullInt64
	err := row.Scan(&t.ID, &t.GuildID, &t.UserID, &t.ChannelID, &t.Category, &t.Status, &opened, &closed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Ticket{}, false, nil
		}
		return Ticket{}, false, err
	}
	t.OpenedAt = time.Unix(opened, 0)
	if closed.Valid {
		value := time.Unix(closed.Int64, 0)
		t.ClosedAt = &value
	}
	return t, true, nil
}
