package storage

import (
	"context"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(store.Close)
	if err := store.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store
}

func TestUpsertGuildConfig(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	cfg := GuildConfig{GuildID: "g1", LogChannelID: "c1", TicketCategoryID: "cat1", TicketSupportRoleID: "r1"}
	if err := store.UpsertGuildConfig(ctx, cfg); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	// Same channel again: last-write-wins, nothing changes in effect.
	if err := store.UpsertGuildConfig(ctx, cfg); err != nil {
		t.Fatalf("idempotent upsert: %v", err)
	}
	got, err := store.GetGuildConfig(ctx, "g1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.LogChannelID != "c1" || got.TicketCategoryID != "cat1" {
		t.Fatalf("unexpected config: %+v", got)
	}

	cfg.LogChannelID = "c2"
	if err := store.UpsertGuildConfig(ctx, cfg); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err = store.GetGuildConfig(ctx, "g1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.LogChannelID != "c2" {
		t.Fatalf("expected channel c2, got %q", got.LogChannelID)
	}
}

func TestGetGuildConfigMissing(t *testing.T) {
	store := newTestStore(t)

	got, err := store.GetGuildConfig(context.Background(), "absent")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.GuildID != "absent" || got.LogChannelID != "" {
		t.Fatalf("expected zero config, got %+v", got)
	}
}

func TestNextCounter(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := store.NextCounter(ctx, "ticket")
		if err != nil {
			t.Fatalf("next counter: %v", err)
		}
		if got != want {
			t.Fatalf("expected %d, got %d", want, got)
		}
	}

	other, err := store.NextCounter(ctx, "other")
	if err != nil {
		t.Fatalf("next counter: %v", err)
	}
	if other != 1 {
		t.Fatalf("counters must be independent, got %d", other)
	}
}

func TestWatchCursor(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	last, err := store.GetWatchCursor(ctx, "punishments")
	if err != nil {
		t.Fatalf("get cursor: %v", err)
	}
	if last != 0 {
		t.Fatalf("expected zero cursor, got %d", last)
	}

	if err := store.SetWatchCursor(ctx, "punishments", 42); err != nil {
		t.Fatalf("set cursor: %v", err)
	}
	if err := store.SetWatchCursor(ctx, "punishments", 57); err != nil {
		t.Fatalf("set cursor again: %v", err)
	}
	last, err = store.GetWatchCursor(ctx, "punishments")
	if err != nil {
		t.Fatalf("get cursor: %v", err)
	}
	if last != 57 {
		t.Fatalf("expected 57, got %d", last)
	}
}

func TestTicketLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	opened := time.Now()

	id, err := store.CreateTicket(ctx, Ticket{
		GuildID: "g1", UserID: "u1", ChannelID: "ch1", Category: "appeal_ban", OpenedAt: opened,
	})
	if err != nil {
		t.Fatalf("create ticket: %v", err)
	}
	if id == 0 {
		t.Fatalf("expected ticket id")
	}

	ticket, found, err := store.FindOpenTicketByUser(ctx, "g1", "u1")
	if err != nil || !found {
		t.Fatalf("find open by user: found=%v err=%v", found, err)
	}
	if ticket.ChannelID != "ch1" || ticket.Status != TicketOpen {
		t.Fatalf("unexpected ticket: %+v", ticket)
	}

	if _, found, _ := store.FindOpenTicketByUser(ctx, "g1", "u2"); found {
		t.Fatalf("u2 should have no open ticket")
	}

	closed, err := store.CloseTicket(ctx, "g1", "ch1", opened.Add(time.Hour))
	if err != nil {
		t.Fatalf("close ticket: %v", err)
	}
	if !closed {
		t.Fatalf("expected a row to close")
	}

	// Soft close: no open row remains but closing again is a clean no-op.
	if _, found, _ := store.FindOpenTicketByUser(ctx, "g1", "u1"); found {
		t.Fatalf("ticket should be closed")
	}
	closed, err = store.CloseTicket(ctx, "g1", "ch1", opened.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("close again: %v", err)
	}
	if closed {
		t.Fatalf("second close should match nothing")
	}
}

func TestRemoveWarningsNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		_, err := store.AddWarning(ctx, Warning{
			GuildID: "g1", UserID: "u1", ModeratorID: "m1",
			Reason:    []string{"a", "b", "c", "d", "e"}[i],
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("add warning: %v", err)
		}
	}

	removed, err := store.RemoveWarnings(ctx, "g1", "u1", 2)
	if err != nil {
		t.Fatalf("remove warnings: %v", err)
	}
	if len(removed) != 2 {
		t.Fatalf("expected 2 removed, got %d", len(removed))
	}
	if removed[0].Reason != "e" || removed[1].Reason != "d" {
		t.Fatalf("expected newest-first removal, got %q %q", removed[0].Reason, removed[1].Reason)
	}

	count, err := store.CountWarnings(ctx, "g1", "u1")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 remaining, got %d", count)
	}

	// Requesting more than available removes what exists, not an error.
	removed, err = store.RemoveWarnings(ctx, "g1", "u1", 50)
	if err != nil {
		t.Fatalf("remove all: %v", err)
	}
	if len(removed) != 3 {
		t.Fatalf("expected 3 removed, got %d", len(removed))
	}
}

func TestCountModActions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	for _, kind := range []string{ActionBan, ActionTimeout, ActionTimeout} {
		if err := store.AddModAction(ctx, ModAction{
			GuildID: "g1", UserID: "u1", ModeratorID: "m1", Kind: kind, Reason: "r", CreatedAt: now,
		}); err != nil {
			t.Fatalf("add action: %v", err)
		}
	}

	counts, err := store.CountModActions(ctx, "g1", "u1")
	if err != nil {
		t.Fatalf("count actions: %v", err)
	}
	if counts[ActionBan] != 1 || counts[ActionTimeout] != 2 || counts[ActionUnban] != 0 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}
