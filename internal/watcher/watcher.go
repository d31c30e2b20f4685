// Package watcher polls the game network's punishment database and mirrors
// new rows into Discord announcements.
package watcher

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"chaosmod/internal/config"
)

const (
	cursorSource = "punishments"
	batchLimit   = 200
)

// Punishment is one mirrored row. End is nil for permanent punishments.
type Punishment struct {
	ID       int64
	Name     string
	UUID     string
	Reason   string
	Operator string
	Kind     string
	Start    time.Time
	End      *time.Time
}

// Source reads punishment rows from the external database.
type Source interface {
	Resolve(ctx context.Context) error
	Latest(ctx context.Context) (int64, error)
	After(ctx context.Context, lastID int64, limit int) ([]Punishment, error)
}

// CursorStore persists the last mirrored row id across restarts.
type CursorStore interface {
	GetWatchCursor(ctx context.Context, source string) (int64, error)
	SetWatchCursor(ctx context.Context, source string, lastID int64) error
}

// Handler receives each new punishment in id order.
type Handler func(ctx context.Context, p Punishment)

// Watcher supervises the polling loop. A tick that starts while the previous
// one is still querying is skipped, never queued.
type Watcher struct {
	source   Source
	cursor   CursorStore
	logger   *zap.Logger
	interval time.Duration
	onlyType string
	handler  Handler

	mu      sync.Mutex
	polling bool

	cancel context.CancelFunc
	done   chan struct{}
}

func New(source Source, cursor CursorStore, logger *zap.Logger, cfg config.WatcherConf, handler Handler) *Watcher {
	return &Watcher{
		source:   source,
		cursor:   cursor,
		logger:   logger,
		interval: time.Duration(cfg.PollSeconds) * time.Second,
		onlyType: NormalizeKind(cfg.OnlyType),
		handler:  handler,
	}
}

// Start resolves the schema, seeds the cursor on first run so history is not
// replayed, and launches the poll loop.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.source.Resolve(ctx); err != nil {
		return fmt.Errorf("resolve punishment schema: %w", err)
	}

	last, err := w.cursor.GetWatchCursor(ctx, cursorSource)
	if err != nil {
		return fmt.Errorf("load cursor: %w", err)
	}
	if last == 0 {
		latest, err := w.source.Latest(ctx)
		if err != nil {
			return fmt.Errorf("seed cursor: %w", err)
		}
		if err := w.cursor.SetWatchCursor(ctx, cursorSource, latest); err != nil {
			return fmt.Errorf("seed cursor: %w", err)
		}
		last = latest
		w.logger.Info("punishment cursor seeded", zap.Int64("last_id", latest))
	}

	loopCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.done = make(chan struct{})

	go w.run(loopCtx, last)
	w.logger.Info("punishment watcher started",
		zap.Duration("interval", w.interval),
		zap.Int64("cursor", last))
	return nil
}

// Stop cancels the loop and waits for the in-flight tick to finish.
func (w *Watcher) Stop() {
	if w.cancel == nil {
		return
	}
	w.cancel()
	<-w.done
	w.logger.Info("punishment watcher stopped")
}

func (w *Watcher) run(ctx context.Context, last int64) {
	defer close(w.done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !w.beginPoll() {
				w.logger.Debug("poll still running, tick skipped")
				continue
			}
			next, err := w.poll(ctx, last)
			w.endPoll()
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				w.logger.Warn("punishment poll failed", zap.Error(err))
				continue
			}
			last = next
		}
	}
}

func (w *Watcher) beginPoll() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.polling {
		return false
	}
	w.polling = true
	return true
}

func (w *Watcher) endPoll() {
	w.mu.Lock()
	w.polling = false
	w.mu.Unlock()
}

func (w *Watcher) poll(ctx context.Context, last int64) (int64, error) {
	rows, err := w.source.After(ctx, last, batchLimit)
	if err != nil {
		return last, err
	}
	if len(rows) == 0 {
		return last, nil
	}

	for _, p := range rows {
		if p.ID > last {
			last = p.ID
		}
		p.Kind = NormalizeKind(p.Kind)
		if w.onlyType != "" && p.Kind != w.onlyType {
			continue
		}
		w.handler(ctx, p)
	}

	if err := w.cursor.SetWatchCursor(ctx, cursorSource, last); err != nil {
		return last, fmt.Errorf("save cursor: %w", err)
	}
	w.logger.Info("punishments mirrored", zap.Int("rows", len(rows)), zap.Int64("cursor", last))
	return last, nil
}

// NormalizeKind maps the many spellings found in punishment tables onto the
// canonical upper-case forms.
func NormalizeKind(kind string) string {
	k := strings.ToUpper(strings.TrimSpace(kind))
	switch k {
	case "TEMPBAN", "TEMP-BAN", "TEMP_BAN":
		return "TEMP_BAN"
	case "TEMPMUTE", "TEMP-MUTE", "TEMP_MUTE":
		return "TEMP_MUTE"
	case "TEMPWARN", "TEMP-WARN", "TEMP_WARN":
		return "WARN"
	default:
		return k
	}
}

// DurationLabel renders the punishment length the way the game panel shows
// it, with a Polish label for permanent entries.
func DurationLabel(p Punishment) string {
	if p.End == nil {
		return "Permanentnie"
	}
	d := p.End.Sub(p.Start)
	if d <= 0 {
		return "Permanentnie"
	}
	switch {
	case d >= 24*time.Hour:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	case d >= time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		minutes := int(d.Minutes())
		if minutes < 1 {
			minutes = 1
		}
		return fmt.Sprintf("%dm", minutes)
	}
}
