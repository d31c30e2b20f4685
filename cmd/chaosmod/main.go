package main

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chaosmod/internal/audit"
	"chaosmod/internal/bot"
	"chaosmod/internal/card"
	"chaosmod/internal/config"
	"chaosmod/internal/storage"
	"chaosmod/internal/watcher"

	"github.com/bwmarrin/discordgo"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := config.BuildLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	store, err := storage.New(cfg.DatabasePath)
	if err != nil {
		logger.Fatal("storage init failed", zap.Error(err))
	}
	defer store.Close()
	if err := store.Migrate(); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}

	auditLogger := audit.NewLogger(store, logger)

	botSvc, err := bot.New(cfg, logger, store, auditLogger)
	if err != nil {
		logger.Fatal("bot init failed", zap.Error(err))
	}

	if err := botSvc.Start(); err != nil {
		logger.Fatal("bot start failed", zap.Error(err))
	}
	logger.Info("bot started")

	var punishWatcher *watcher.Watcher
	var pool *pgxpool.Pool
	if cfg.Watcher.Enabled {
		pool, err = pgxpool.New(context.Background(), cfg.Watcher.DatabaseURL)
		if err != nil {
			logger.Fatal("punishment db connect failed", zap.Error(err))
		}
		source := watcher.NewPostgresSource(pool, cfg.Watcher.Table, cfg.Watcher.ColumnOverride)
		punishWatcher = watcher.New(source, store, logger, cfg.Watcher,
			punishmentHandler(botSvc, store, logger))
		if err := punishWatcher.Start(context.Background()); err != nil {
			logger.Fatal("punishment watcher start failed", zap.Error(err))
		}
		logger.Info("punishment watcher started",
			zap.String("table", cfg.Watcher.Table),
			zap.Int("poll_seconds", cfg.Watcher.PollSeconds))
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Info("shutdown requested")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if punishWatcher != nil {
		punishWatcher.Stop()
	}
	if pool != nil {
		pool.Close()
	}
	botSvc.Close(ctx)
}

// punishmentHandler renders a card for each mirrored punishment and posts it
// to every guild's configured log channel.
func punishmentHandler(botSvc *bot.Bot, store *storage.Store, logger *zap.Logger) watcher.Handler {
	return func(ctx context.Context, p watcher.Punishment) {
		avatar, err := card.FetchAvatar(minecraftAvatarURL(p))
		if err != nil {
			avatar = nil
		}

		png, err := card.PunishmentCard(avatar, card.Punishment{
			Name:     p.Name,
			Kind:     p.Kind,
			Reason:   p.Reason,
			Operator: p.Operator,
			Duration: watcher.DurationLabel(p),
		})
		if err != nil {
			logger.Error("punishment card render failed", zap.Int64("id", p.ID), zap.Error(err))
			return
		}

		session := botSvc.Session()
		for _, guild := range session.State.Guilds {
			if guild == nil {
				continue
			}
			guildCfg, err := store.GetGuildConfig(ctx, guild.ID)
			if err != nil || guildCfg.LogChannelID == "" {
				continue
			}
			_, err = session.ChannelMessageSendComplex(guildCfg.LogChannelID, &discordgo.MessageSend{
				Files: []*discordgo.File{{
					Name:        fmt.Sprintf("punishment-%d.png", p.ID),
					ContentType: "image/png",
					Reader:      bytes.NewReader(png),
				}},
			})
			if err != nil {
				logger.Warn("punishment card send failed",
					zap.String("guild_id", guild.ID),
					zap.Int64("id", p.ID),
					zap.Error(err))
			}
		}
	}
}

// minecraftAvatarURL prefers the UUID-keyed render, falling back to the
// name-based one.
func minecraftAvatarURL(p watcher.Punishment) string {
	if p.UUID != "" {
		return "https://crafatar.com/avatars/" + url.PathEscape(p.UUID) + "?size=160&overlay"
	}
	return "https://minotar.net/avatar/" + url.PathEscape(p.Name) + "/160"
}
