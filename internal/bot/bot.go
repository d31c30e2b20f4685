// Package bot wires the Discord session: slash commands, the ticket panel
// components, the verification button, and the passive guild listeners.
package bot

import (
	"context"
	"fmt"
	"time"

	"chaosmod/internal/audit"
	"chaosmod/internal/card"
	"chaosmod/internal/config"
	"chaosmod/internal/storage"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

type Bot struct {
	cfg     config.Config
	logger  *zap.Logger
	store   *storage.Store
	audit   *audit.Logger
	session *discordgo.Session
	avatars card.AvatarFetcher
}

func New(cfg config.Config, logger *zap.Logger, store *storage.Store, auditLogger *audit.Logger) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, err
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages

	return &Bot{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		audit:   auditLogger,
		session: session,
		avatars: card.FetchAvatar,
	}, nil
}

// Session exposes the underlying session for components that post messages
// outside the interaction flow (the punishment watcher).
func (b *Bot) Session() *discordgo.Session {
	return b.session
}

func (b *Bot) Start() error {
	b.session.AddHandler(b.onReady)
	b.session.AddHandler(b.onGuildMemberAdd)
	b.session.AddHandler(b.onGuildMemberUpdate)
	b.session.AddHandler(b.onInteractionCreate)

	if err := b.session.Open(); err != nil {
		return err
	}

	if err := b.registerCommands(); err != nil {
		return err
	}

	return nil
}

func (b *Bot) Close(ctx context.Context) {
	_ = ctx
	if b.session != nil {
		_ = b.session.Close()
	}
}

func (b *Bot) onReady(session *discordgo.Session, event *discordgo.Ready) {
	b.logger.Info("discord ready", zap.String("user", session.State.User.Username))
	if b.cfg.Presence != "" {
		_ = session.UpdateGameStatus(0, b.cfg.Presence)
	}
}

func (b *Bot) onInteractionCreate(session *discordgo.Session, interaction *discordgo.InteractionCreate) {
	ctx := context.Background()

	switch interaction.Type {
	case discordgo.InteractionApplicationCommand:
		data := interaction.ApplicationCommandData()
		switch data.Name {
		case "ban":
			b.handleBan(ctx, session, interaction, data.Options)
		case "unban":
			b.handleUnban(ctx, session, interaction, data.Options)
		case "timeout":
			b.handleTimeout(ctx, session, interaction, data.Options)
		case "warn":
			b.handleWarn(ctx, session, interaction, data.Options)
		case "cleanwarn":
			b.handleCleanwarn(ctx, session, interaction, data.Options)
		case "clear":
			b.handleClear(ctx, session, interaction, data.Options)
		case "userinfo":
			b.handleUserinfo(ctx, session, interaction, data.Options)
		case "ping":
			b.handlePing(session, interaction)
		case "about":
			b.handleAbout(session, interaction)
		case "changelog":
			b.handleChangelog(session, interaction, data.Options)
		case "say":
			b.handleSay(session, interaction, data.Options)
		case "mcstatus":
			b.handleMcStatus(ctx, session, interaction, data.Options)
		case "setlogchannel":
			b.handleSetChannel(ctx, session, interaction, data.Options, "log")
		case "setwelcomechannel":
			b.handleSetChannel(ctx, session, interaction, data.Options, "welcome")
		case "setboostchannel":
			b.handleSetChannel(ctx, session, interaction, data.Options, "boost")
		case "setverify":
			b.handleSetVerify(ctx, session, interaction, data.Options)
		case "ticketsetup":
			b.handleTicketSetup(ctx, session, interaction, data.Options)
		case "ticketpanel":
			b.handleTicketPanel(ctx, session, interaction, data.Options)
		}
	case discordgo.InteractionMessageComponent:
		data := interaction.MessageComponentData()
		switch data.CustomID {
		case "ticket_select":
			b.handleTicketSelect(ctx, session, interaction, data.Values)
		case "ticket_close":
			b.handleTicketClose(ctx, session, interaction)
		case "ticket_add":
			b.showMemberModal(session, interaction, "ticket_add_modal", "Dodaj użytkownika do ticketa")
		case "ticket_remove":
			b.showMemberModal(session, interaction, "ticket_remove_modal", "Usuń użytkownika z ticketa")
		case "verify_join":
			b.handleVerifyButton(ctx, session, interaction)
		}
	case discordgo.InteractionModalSubmit:
		data := interaction.ModalSubmitData()
		switch data.CustomID {
		case "ticket_add_modal":
			b.handleTicketMember(ctx, session, interaction, data, true)
		case "ticket_remove_modal":
			b.handleTicketMember(ctx, session, interaction, data, false)
		}
	}
}

// guildConfig returns the stored per-guild snapshot; an unconfigured guild
// yields the zero config, never an error surfaced to the member.
func (b *Bot) guildConfig(ctx context.Context, guildID string) storage.GuildConfig {
	cfg, err := b.store.GetGuildConfig(ctx, guildID)
	if err != nil {
		b.logger.Warn("guild config fallback", zap.String("guild_id", guildID), zap.Error(err))
		return storage.GuildConfig{GuildID: guildID}
	}
	return cfg
}

// sendLogEmbed delivers an embed to the configured log channel. Best effort:
// a missing channel or a send failure is logged and reported, never fatal.
func (b *Bot) sendLogEmbed(ctx context.Context, guildID string, embed *discordgo.MessageEmbed) bool {
	channelID := b.guildConfig(ctx, guildID).LogChannelID
	if channelID == "" || embed == nil {
		return false
	}
	if _, err := b.session.ChannelMessageSendEmbed(channelID, embed); err != nil {
		b.logger.Warn("log channel send failed", zap.String("guild_id", guildID), zap.Error(err))
		return false
	}
	return true
}

// sideEffects tracks the best-effort steps around a moderation action so a
// succeeded primary with failed extras is visible in the logs.
type sideEffects struct {
	dmSent   bool
	recorded bool
	logged   bool
}

func (b *Bot) reportSideEffects(kind, guildID, userID string, fx sideEffects) {
	if fx.dmSent && fx.recorded && fx.logged {
		return
	}
	b.logger.Warn("side effects incomplete",
		zap.String("kind", kind),
		zap.String("guild_id", guildID),
		zap.String("user_id", userID),
		zap.Bool("dm_sent", fx.dmSent),
		zap.Bool("recorded", fx.recorded),
		zap.Bool("logged", fx.logged),
	)
}

// dmEmbed opens the DM channel and sends the embed. False when the member
// blocks DMs.
func (b *Bot) dmEmbed(userID string, embed *discordgo.MessageEmbed) bool {
	channel, err := b.session.UserChannelCreate(userID)
	if err != nil {
		return false
	}
	_, err = b.session.ChannelMessageSendEmbed(channel.ID, embed)
	return err == nil
}

func (b *Bot) respond(session *discordgo.Session, interaction *discordgo.InteractionCreate, content string, ephemeral bool) {
	flags := discordgo.MessageFlags(0)
	if ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}
	_ = session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   flags,
		},
	})
}

func (b *Bot) respondEmbed(session *discordgo.Session, interaction *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, ephemeral bool) {
	if embed == nil {
		b.respond(session, interaction, "Brak odpowiedzi.", ephemeral)
		return
	}
	flags := discordgo.MessageFlags(0)
	if ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}
	_ = session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  flags,
		},
	})
}

// followupEmbed completes an interaction that was acknowledged with a
// deferred response.
func (b *Bot) followupEmbed(session *discordgo.Session, interaction *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	_, _ = session.FollowupMessageCreate(interaction.Interaction, true, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{embed},
	})
}

func (b *Bot) commandEmbed(title, description string, color int, fields []*discordgo.MessageEmbedField) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
		Timestamp:   time.Now().Format(time.RFC3339),
		Fields:      fields,
	}
}

func interactionUser(interaction *discordgo.InteractionCreate) *discordgo.User {
	if interaction.Member != nil && interaction.Member.User != nil {
		return interaction.Member.User
	}
	return interaction.User
}

// moderatorDisplay prefers the server nickname, matching how DMs address the
// punished member.
func moderatorDisplay(interaction *discordgo.InteractionCreate) string {
	if interaction.Member != nil && interaction.Member.Nick != "" {
		return interaction.Member.Nick
	}
	if user := interactionUser(interaction); user != nil {
		return user.Username
	}
	return "moderator"
}

func optionMap(options []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return m
}

func (b *Bot) guildName(guildID string) string {
	guild, err := b.session.State.Guild(guildID)
	if err != nil || guild == nil {
		return b.cfg.Brand
	}
	return guild.Name
}

func discordTimestamp(t time.Time, style string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), style)
}
