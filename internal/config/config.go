package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DiscordToken string        `yaml:"discord_token"`
	DatabasePath string        `yaml:"database_path"`
	LogLevel     string        `yaml:"log_level"`
	Presence     string        `yaml:"presence"`
	Brand        string        `yaml:"brand"`
	Embeds       EmbedColors   `yaml:"embed_colors"`
	Minecraft    MinecraftConf `yaml:"minecraft"`
	Tickets      TicketConf    `yaml:"tickets"`
	Warnings     WarnConf      `yaml:"warnings"`
	Watcher      WatcherConf   `yaml:"watcher"`
}

type EmbedColors struct {
	Primary int `yaml:"primary"`
	Success int `yaml:"success"`
	Warning int `yaml:"warning"`
	Error   int `yaml:"error"`
	Info    int `yaml:"info"`
}

type MinecraftConf struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type TicketConf struct {
	DeleteDelaySeconds int `yaml:"delete_delay_seconds"`
}

type WarnConf struct {
	MaxDisplayed int `yaml:"max_displayed"`
}

type WatcherConf struct {
	Enabled        bool              `yaml:"enabled"`
	DatabaseURL    string            `yaml:"database_url"`
	Table          string            `yaml:"table"`
	OnlyType       string            `yaml:"only_type"`
	PollSeconds    int               `yaml:"poll_seconds"`
	ColumnOverride map[string]string `yaml:"column_override"`
}

func DefaultConfig() Config {
	return Config{
		DatabasePath: "/data/chaosmod.db",
		LogLevel:     "info",
		Presence:     "CHAOSMC.ZONE",
		Brand:        "CHAOSMC.ZONE",
		Embeds: EmbedColors{
			Primary: 0x8B5CF6,
			Success: 0x22C55E,
			Warning: 0xF59E0B,
			Error:   0xEF4444,
			Info:    0x22D3EE,
		},
		Minecraft: MinecraftConf{Host: "play.chaosmc.zone", Port: 25565, TimeoutSeconds: 5},
		Tickets:   TicketConf{DeleteDelaySeconds: 4},
		Warnings:  WarnConf{MaxDisplayed: 3},
		Watcher: WatcherConf{
			Enabled:     false,
			Table:       "punishments",
			PollSeconds: 5,
		},
	}
}

func Load() (Config, error) {
	cfg := DefaultConfig()

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, err
		}
	}

	applyEnv(&cfg)
	if cfg.DiscordToken == "" {
		return Config{}, errors.New("DISCORD_TOKEN is required")
	}
	if cfg.Warnings.MaxDisplayed <= 0 {
		cfg.Warnings.MaxDisplayed = 3
	}
	if cfg.Minecraft.TimeoutSeconds <= 0 {
		cfg.Minecraft.TimeoutSeconds = 5
	}
	if cfg.Watcher.PollSeconds <= 0 {
		cfg.Watcher.PollSeconds = 5
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.DiscordToken = envString("DISCORD_TOKEN", cfg.DiscordToken)
	cfg.DatabasePath = envString("DATABASE_PATH", cfg.DatabasePath)
	cfg.LogLevel = envString("LOG_LEVEL", cfg.LogLevel)
	cfg.Presence = envString("BOT_PRESENCE", cfg.Presence)
	cfg.Brand = envString("BOT_BRAND", cfg.Brand)
	cfg.Embeds.Primary = envColor("EMBED_COLOR", cfg.Embeds.Primary)
	cfg.Minecraft.Host = envString("MC_HOST", cfg.Minecraft.Host)
	cfg.Minecraft.Port = envInt("MC_PORT", cfg.Minecraft.Port)
	cfg.Tickets.DeleteDelaySeconds = envInt("TICKET_DELETE_DELAY_SECONDS", cfg.Tickets.DeleteDelaySeconds)
	cfg.Watcher.Enabled = envBool("PUNISH_WATCHER_ENABLED", cfg.Watcher.Enabled)
	cfg.Watcher.DatabaseURL = envString("PUNISH_DB_URL", cfg.Watcher.DatabaseURL)
	cfg.Watcher.Table = envString("PUNISH_TABLE", cfg.Watcher.Table)
	cfg.Watcher.OnlyType = envString("PUNISH_ONLY_TYPE", cfg.Watcher.OnlyType)
	cfg.Watcher.PollSeconds = envInt("PUNISH_POLL_SECONDS", cfg.Watcher.PollSeconds)

	overrides := map[string]string{
		"id":       os.Getenv("PUNISH_ID_COL"),
		"name":     os.Getenv("PUNISH_NAME_COL"),
		"uuid":     os.Getenv("PUNISH_UUID_COL"),
		"reason":   os.Getenv("PUNISH_REASON_COL"),
		"operator": os.Getenv("PUNISH_OPERATOR_COL"),
		"type":     os.Getenv("PUNISH_TYPE_COL"),
		"start":    os.Getenv("PUNISH_START_COL"),
		"end":      os.Getenv("PUNISH_END_COL"),
	}
	for key, value := range overrides {
		if value == "" {
			continue
		}
		if cfg.Watcher.ColumnOverride == nil {
			cfg.Watcher.ColumnOverride = make(map[string]string)
		}
		cfg.Watcher.ColumnOverride[key] = value
	}
}

func BuildLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "json"
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.MessageKey = "message"
	cfg.EncoderConfig.LevelKey = "level"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	lvl := strings.ToLower(level)
	switch lvl {
	case "debug", "info", "warn", "error":
		cfg.Level = zap.NewAtomicLevelAt(parseLevel(lvl))
	default:
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	return cfg.Build()
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		lower := strings.ToLower(value)
		return lower == "1" || lower == "true" || lower == "yes"
	}
	return fallback
}

// envColor accepts "#98039b" or "98039b".
func envColor(key string, fallback int) int {
	value := strings.TrimPrefix(os.Getenv(key), "#")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(value, 16, 32)
	if err != nil {
		return fallback
	}
	return int(parsed)
}
