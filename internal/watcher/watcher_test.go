package watcher

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"chaosmod/internal/config"
)

type fakeSource struct {
	mu     sync.Mutex
	rows   []Punishment
	latest int64
	delay  time.Duration
	calls  int
}

func (f *fakeSource) Resolve(ctx context.Context) error { return nil }

func (f *fakeSource) Latest(ctx context.Context) (int64, error) { return f.latest, nil }

func (f *fakeSource) After(ctx context.Context, lastID int64, limit int) ([]Punishment, error) {
	f.mu.Lock()
	f.calls++
	rows := f.rows
	delay := f.delay
	f.mu.Unlock()
	if delay > 0 {
		time.Sleep(delay)
	}
	var out []Punishment
	for _, p := range rows {
		if p.ID > lastID {
			out = append(out, p)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type fakeCursor struct {
	mu     sync.Mutex
	values map[string]int64
}

func newFakeCursor() *fakeCursor { return &fakeCursor{values: make(map[string]int64)} }

func (f *fakeCursor) GetWatchCursor(ctx context.Context, source string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[source], nil
}

func (f *fakeCursor) SetWatchCursor(ctx context.Context, source string, lastID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[source] = lastID
	return nil
}

func (f *fakeCursor) get(source string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[source]
}

func testConfig() config.WatcherConf {
	return config.WatcherConf{Enabled: true, PollSeconds: 1}
}

func TestPollAdvancesCursorAndFilters(t *testing.T) {
	source := &fakeSource{rows: []Punishment{
		{ID: 11, Name: "a", Kind: "tempban"},
		{ID: 12, Name: "b", Kind: "MUTE"},
		{ID: 13, Name: "c", Kind: "TEMP_BAN"},
	}}
	cursor := newFakeCursor()

	cfg := testConfig()
	cfg.OnlyType = "temp_ban"

	var got []Punishment
	w := New(source, cursor, zap.NewNop(), cfg, func(ctx context.Context, p Punishment) {
		got = append(got, p)
	})

	last, err := w.poll(context.Background(), 10)
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if last != 13 {
		t.Fatalf("cursor = %d, want 13", last)
	}
	if cursor.get(cursorSource) != 13 {
		t.Fatalf("persisted cursor = %d, want 13", cursor.get(cursorSource))
	}
	if len(got) != 2 || got[0].Name != "a" || got[1].Name != "c" {
		t.Fatalf("filtered rows = %+v", got)
	}
	for _, p := range got {
		if p.Kind != "TEMP_BAN" {
			t.Fatalf("kind not normalized: %q", p.Kind)
		}
	}
}

func TestPollNoRowsKeepsCursor(t *testing.T) {
	cursor := newFakeCursor()
	w := New(&fakeSource{}, cursor, zap.NewNop(), testConfig(), func(context.Context, Punishment) {})

	last, err := w.poll(context.Background(), 42)
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if last != 42 {
		t.Fatalf("cursor = %d, want 42", last)
	}
	if cursor.get(cursorSource) != 0 {
		t.Fatalf("cursor must not be written when nothing was read")
	}
}

func TestStartSeedsCursorFromLatest(t *testing.T) {
	source := &fakeSource{latest: 99}
	cursor := newFakeCursor()
	w := New(source, cursor, zap.NewNop(), testConfig(), func(context.Context, Punishment) {})

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer w.Stop()

	if cursor.get(cursorSource) != 99 {
		t.Fatalf("seeded cursor = %d, want 99", cursor.get(cursorSource))
	}
}

func TestOverlappingTickSkipped(t *testing.T) {
	w := &Watcher{}
	if !w.beginPoll() {
		t.Fatalf("first tick must start")
	}
	if w.beginPoll() {
		t.Fatalf("second tick must be skipped while polling")
	}
	w.endPoll()
	if !w.beginPoll() {
		t.Fatalf("tick must start again after poll finished")
	}
}

func TestNormalizeKind(t *testing.T) {
	cases := map[string]string{
		"tempban":   "TEMP_BAN",
		"TEMP-BAN":  "TEMP_BAN",
		"TEMP_BAN":  "TEMP_BAN",
		"tempmute":  "TEMP_MUTE",
		"tempwarn":  "WARN",
		" ban ":     "BAN",
		"kick":      "KICK",
		"whatever":  "WHATEVER",
	}
	for in, want := range cases {
		if got := NormalizeKind(in); got != want {
			t.Errorf("NormalizeKind(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDurationLabel(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := func(d time.Duration) *time.Time {
		e := start.Add(d)
		return &e
	}

	cases := []struct {
		p    Punishment
		want string
	}{
		{Punishment{Start: start}, "Permanentnie"},
		{Punishment{Start: start, End: end(-time.Hour)}, "Permanentnie"},
		{Punishment{Start: start, End: end(30 * time.Second)}, "1m"},
		{Punishment{Start: start, End: end(45 * time.Minute)}, "45m"},
		{Punishment{Start: start, End: end(3 * time.Hour)}, "3h"},
		{Punishment{Start: start, End: end(7 * 24 * time.Hour)}, "7d"},
	}
	for _, tc := range cases {
		if got := DurationLabel(tc.p); got != tc.want {
			t.Errorf("DurationLabel(%+v) = %q, want %q", tc.p, got, tc.want)
		}
	}
}

func TestPickColumn(t *testing.T) {
	available := map[string]bool{"id": true, "punisher": true, "created": true}

	if got := pickColumn(available, "", "operator", "punisher", "staff"); got != "punisher" {
		t.Fatalf("got %q, want punisher", got)
	}
	if got := pickColumn(available, "created", "start", "time"); got != "created" {
		t.Fatalf("override ignored, got %q", got)
	}
	if got := pickColumn(available, "missing_col", "start"); got != "" {
		t.Fatalf("bad override must resolve to empty, got %q", got)
	}
	if got := pickColumn(available, "", "uuid", "player_uuid"); got != "" {
		t.Fatalf("absent optional column must resolve to empty, got %q", got)
	}
}

func TestEpochTime(t *testing.T) {
	if !epochTime(0).IsZero() || !epochTime(-5).IsZero() {
		t.Fatalf("non-positive epochs must be zero time")
	}
	sec := epochTime(1735689600)
	if sec.Year() != 2025 || sec.Month() != time.January {
		t.Fatalf("seconds epoch decoded as %v", sec)
	}
	ms := epochTime(1735689600000)
	if !ms.Equal(sec) {
		t.Fatalf("millisecond epoch %v != second epoch %v", ms, sec)
	}
}

func TestCoerce(t *testing.T) {
	if coerceID(int32(7)) != 7 || coerceID("12") != 12 || coerceID(nil) != 0 {
		t.Fatalf("coerceID mismatch")
	}
	if coerceString([]byte("abc")) != "abc" || coerceString(nil) != "" {
		t.Fatalf("coerceString mismatch")
	}
	now := time.Now()
	if !coerceTime(now).Equal(now) {
		t.Fatalf("coerceTime must pass native timestamps through")
	}
	if coerceTime("not-a-number") != (time.Time{}) {
		t.Fatalf("bad string must coerce to zero time")
	}
}
