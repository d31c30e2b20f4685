package bot

import (
	"bytes"
	"context"
	"time"

	"chaosmod/internal/card"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

func (b *Bot) onGuildMemberAdd(s *discordgo.Session, event *discordgo.GuildMemberAdd) {
	ctx := context.Background()
	if event.User == nil {
		return
	}

	channelID := b.guildConfig(ctx, event.GuildID).WelcomeChannelID
	if channelID == "" {
		return
	}

	memberCount := 0
	if guild, err := s.State.Guild(event.GuildID); err == nil {
		memberCount = guild.MemberCount
	}

	avatar, err := b.avatars(event.User.AvatarURL("256"))
	if err != nil {
		b.logger.Warn("welcome avatar fetch failed", zap.String("user_id", event.User.ID), zap.Error(err))
		avatar = nil
	}

	png, err := card.Welcome(avatar, event.User.Username, memberCount)
	if err != nil {
		b.logger.Error("welcome card render failed", zap.String("user_id", event.User.ID), zap.Error(err))
		return
	}

	_, err = s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Files: []*discordgo.File{{
			Name:        "welcome.png",
			ContentType: "image/png",
			Reader:      bytes.NewReader(png),
		}},
	})
	if err != nil {
		b.logger.Warn("welcome send failed", zap.String("channel_id", channelID), zap.Error(err))
	}
}

// onGuildMemberUpdate watches the premium field for the nil -> set transition,
// i.e. a fresh boost. Re-boosts with an unchanged timestamp are ignored.
func (b *Bot) onGuildMemberUpdate(s *discordgo.Session, event *discordgo.GuildMemberUpdate) {
	if event.Member == nil || event.User == nil {
		return
	}
	if event.PremiumSince == nil {
		return
	}
	if event.BeforeUpdate != nil && event.BeforeUpdate.PremiumSince != nil {
		return
	}

	ctx := context.Background()
	since := *event.PremiumSince

	embed := b.commandEmbed("🎉 Nowy boost!",
		"Dziękujemy za wsparcie serwera **"+b.guildName(event.GuildID)+"**!\n<@"+event.User.ID+"> właśnie podbił(a) serwer. 💜",
		b.cfg.Embeds.Primary,
		[]*discordgo.MessageEmbedField{
			{Name: "Booster", Value: event.User.String(), Inline: true},
			{Name: "Data", Value: discordTimestamp(since, "F"), Inline: true},
		})
	embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: event.User.AvatarURL("256")}
	embed.Footer = &discordgo.MessageEmbedFooter{Text: "Twoje wsparcie pozwala nam rozwijać ChaosMC. Dziękujemy!"}

	if channelID := b.guildConfig(ctx, event.GuildID).BoostChannelID; channelID != "" {
		if _, err := s.ChannelMessageSendEmbed(channelID, embed); err == nil {
			return
		}
	}

	if b.sendLogEmbed(ctx, event.GuildID, embed) {
		return
	}

	if guild, err := s.State.Guild(event.GuildID); err == nil && guild.SystemChannelID != "" {
		_, _ = s.ChannelMessageSendEmbed(guild.SystemChannelID, embed)
	}
}

func (b *Bot) handleVerifyButton(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.GuildID == "" {
		b.respond(s, i, "Ta akcja działa tylko na serwerze.", true)
		return
	}

	roleID := b.guildConfig(ctx, i.GuildID).VerifyRoleID
	if roleID == "" {
		b.respond(s, i, "⚠️ Weryfikacja nie jest skonfigurowana. Administrator musi użyć `/setverify`.", true)
		return
	}

	guild, err := s.State.Guild(i.GuildID)
	if err != nil {
		guild, err = s.Guild(i.GuildID)
		if err != nil {
			b.respond(s, i, "❌ Nie udało się zweryfikować.", true)
			return
		}
	}

	var role *discordgo.Role
	for _, r := range guild.Roles {
		if r.ID == roleID {
			role = r
			break
		}
	}
	if role == nil {
		b.respond(s, i, "❌ Rola weryfikacyjna nie istnieje. Ustaw ją ponownie komendą `/setverify`.", true)
		return
	}

	user := interactionUser(i)
	member, err := s.GuildMember(i.GuildID, user.ID)
	if err != nil {
		b.respond(s, i, "❌ Nie znalazłem Twojego członkostwa na serwerze.", true)
		return
	}

	for _, id := range member.Roles {
		if id == roleID {
			b.respond(s, i, "✅ Jesteś już zweryfikowany.", true)
			return
		}
	}

	if err := s.GuildMemberRoleAdd(i.GuildID, user.ID, roleID); err != nil {
		b.respond(s, i, "❌ Nie udało się zweryfikować. Upewnij się, że bot ma **Zarządzanie rolami** i jego rola jest **powyżej** roli weryfikacyjnej.", true)
		return
	}

	b.respond(s, i, "✅ Zweryfikowano! Nadano rolę i przyznano dostęp do serwera.", true)

	log := b.commandEmbed("✅ Weryfikacja zakończona", "Użytkownik: <@"+user.ID+">", b.cfg.Embeds.Success, nil)
	b.sendLogEmbed(ctx, i.GuildID, log)

	b.logger.Info("member verified",
		zap.String("guild_id", i.GuildID),
		zap.String("user_id", user.ID),
		zap.Time("at", time.Now()))
}
