package bot

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// handleSetChannel stores one of the per-guild channel settings. kind selects
// the column: "log", "welcome" or "boost".
func (b *Bot) handleSetChannel(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption, kind string) {
	if i.GuildID == "" {
		b.respond(s, i, "Ta komenda działa tylko na serwerze.", true)
		return
	}

	opts := optionMap(options)
	channel := opts["kanał"].ChannelValue(s)
	if channel == nil {
		b.respond(s, i, "❌ Nie wybrano kanału!", true)
		return
	}

	cfg := b.guildConfig(ctx, i.GuildID)
	var label string
	switch kind {
	case "log":
		cfg.LogChannelID = channel.ID
		label = "logów"
	case "welcome":
		cfg.WelcomeChannelID = channel.ID
		label = "powitań"
	case "boost":
		cfg.BoostChannelID = channel.ID
		label = "boostów"
	default:
		return
	}

	if err := b.store.UpsertGuildConfig(ctx, cfg); err != nil {
		b.logger.Error("guild config save failed",
			zap.String("guild_id", i.GuildID),
			zap.String("kind", kind),
			zap.Error(err))
		b.respond(s, i, "❌ Wystąpił błąd podczas zapisywania kanału do bazy.", true)
		return
	}

	b.logger.Info("guild channel configured",
		zap.String("guild_id", i.GuildID),
		zap.String("kind", kind),
		zap.String("channel_id", channel.ID))
	b.respond(s, i, fmt.Sprintf("✅ Kanał %s został ustawiony na: <#%s>", label, channel.ID), true)
}

func (b *Bot) handleSetVerify(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	if i.GuildID == "" {
		b.respond(s, i, "Ta komenda działa tylko na serwerze.", true)
		return
	}

	opts := optionMap(options)
	channel := opts["kanał"].ChannelValue(s)
	role := opts["rola"].RoleValue(s, i.GuildID)
	if channel == nil || role == nil {
		b.respond(s, i, "❌ Nie wybrano kanału lub roli!", true)
		return
	}

	cfg := b.guildConfig(ctx, i.GuildID)
	cfg.VerifyChannelID = channel.ID
	cfg.VerifyRoleID = role.ID
	if err := b.store.UpsertGuildConfig(ctx, cfg); err != nil {
		b.logger.Error("verify config save failed", zap.String("guild_id", i.GuildID), zap.Error(err))
		b.respond(s, i, "❌ Wystąpił błąd podczas zapisywania ustawień weryfikacji.", true)
		return
	}

	b.respond(s, i, fmt.Sprintf("✅ Zapisano ustawienia weryfikacji.\n• Kanał: <#%s>\n• Rola: <@&%s>", channel.ID, role.ID), true)

	panel := &discordgo.MessageEmbed{
		Title:       "Weryfikacja",
		Description: "Kliknij przycisk poniżej, aby się zweryfikować.\nPo pomyślnej weryfikacji otrzymasz dostęp do serwera.",
		Color:       b.cfg.Embeds.Primary,
	}
	_, err := s.ChannelMessageSendComplex(channel.ID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{panel},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						CustomID: "verify_join",
						Style:    discordgo.SuccessButton,
						Label:    "Zweryfikuj się ✅",
					},
				},
			},
		},
	})
	if err != nil {
		b.logger.Warn("verify panel send failed", zap.String("channel_id", channel.ID), zap.Error(err))
	}
}

func (b *Bot) handleTicketSetup(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	if i.GuildID == "" {
		b.respond(s, i, "Ta komenda działa tylko na serwerze.", true)
		return
	}

	opts := optionMap(options)
	category := opts["kategoria"].ChannelValue(s)
	role := opts["rola"].RoleValue(s, i.GuildID)
	if category == nil || role == nil {
		b.respond(s, i, "❌ Nie wybrano kategorii lub roli!", true)
		return
	}

	cfg := b.guildConfig(ctx, i.GuildID)
	cfg.TicketCategoryID = category.ID
	cfg.TicketSupportRoleID = role.ID
	if err := b.store.UpsertGuildConfig(ctx, cfg); err != nil {
		b.logger.Error("ticket config save failed", zap.String("guild_id", i.GuildID), zap.Error(err))
		b.respond(s, i, "❌ Wystąpił błąd podczas zapisywania ustawień ticketów.", true)
		return
	}

	b.respond(s, i, fmt.Sprintf("✅ Zapisano ustawienia ticketów.\n• Kategoria: <#%s>\n• Rola wsparcia: <@&%s>", category.ID, role.ID), true)
}
