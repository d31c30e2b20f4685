// Package audit persists moderation actions and mirrors them to the guild's
// log channel when one is configured.
package audit

import (
	"context"
	"time"

	"chaosmod/internal/storage"

	"go.uber.org/zap"
)

type Logger struct {
	store  *storage.Store
	logger *zap.Logger
	notify func(context.Context, storage.ModAction)
}

func NewLogger(store *storage.Store, logger *zap.Logger) *Logger {
	return &Logger{store: store, logger: logger}
}

// SetNotifier installs the log-channel broadcast hook. The hook runs after
// the row is persisted and must not block for long.
func (l *Logger) SetNotifier(notify func(context.Context, storage.ModAction)) {
	l.notify = notify
}

// Record writes the action row and notifies. Returns whether the row was
// persisted; the caller decides how loudly to surface a miss.
func (l *Logger) Record(ctx context.Context, guildID, userID, moderatorID, kind, reason string) bool {
	entry := storage.ModAction{
		GuildID:     guildID,
		UserID:      userID,
		ModeratorID: moderatorID,
		Kind:        kind,
		Reason:      reason,
		CreatedAt:   time.Now(),
	}

	persisted := true
	if l.store != nil {
		if err := l.store.AddModAction(ctx, entry); err != nil {
			persisted = false
			l.logger.Warn("mod action persist failed", zap.String("kind", kind), zap.Error(err))
		}
	}
	if l.notify != nil {
		l.notify(ctx, entry)
	}
	l.logger.Info("mod action",
		zap.String("kind", kind),
		zap.String("guild_id", guildID),
		zap.String("user_id", userID),
		zap.String("moderator_id", moderatorID),
		zap.String("reason", reason),
	)
	return persisted
}
