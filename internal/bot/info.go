package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"chaosmod/internal/mcstatus"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

var sayColors = map[string]int{
	"blue":   0x3498db,
	"green":  0x2ecc71,
	"red":    0xe74c3c,
	"purple": 0x9b59b6,
	"yellow": 0xf1c40f,
}

func (b *Bot) handlePing(s *discordgo.Session, i *discordgo.InteractionCreate) {
	latency := time.Duration(0)
	if created, err := discordgo.SnowflakeTimestamp(i.ID); err == nil {
		latency = time.Since(created)
	}
	b.respond(s, i, fmt.Sprintf("Pong! Opóźnienie: %dms", latency.Milliseconds()), false)
}

func (b *Bot) handleAbout(s *discordgo.Session, i *discordgo.InteractionCreate) {
	embed := b.commandEmbed(b.cfg.Brand+" — Bot",
		"Profesjonalny bot dla serwera Minecraft/Discord.",
		b.cfg.Embeds.Primary,
		[]*discordgo.MessageEmbedField{
			{Name: "Komendy", Value: "`/ping`, `/about`, `/mcstatus`, system ticketów i moderacja"},
			{Name: "Serwer", Value: b.cfg.Brand},
		})
	b.respondEmbed(s, i, embed, true)
}

func (b *Bot) handleChangelog(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	opts := optionMap(options)
	title := opts["tytuł"].StringValue()
	description := opts["opis"].StringValue()

	embed := b.commandEmbed("📢 "+title, description, b.cfg.Embeds.Primary, nil)
	embed.Footer = &discordgo.MessageEmbedFooter{Text: "Changelog " + b.cfg.Brand}
	b.respondEmbed(s, i, embed, false)
}

func (b *Bot) handleSay(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	opts := optionMap(options)
	channel := opts["channel"].ChannelValue(s)
	title := opts["title"].StringValue()
	description := opts["description"].StringValue()

	if channel == nil || channel.Type != discordgo.ChannelTypeGuildText {
		b.respond(s, i, "❌ Wybierz kanał tekstowy.", true)
		return
	}

	color := sayColors["blue"]
	if opt, ok := opts["color"]; ok {
		if mapped, known := sayColors[strings.ToLower(opt.StringValue())]; known {
			color = mapped
		}
	}

	author := interactionUser(i)
	embed := b.commandEmbed(title, description, color, nil)
	embed.Footer = &discordgo.MessageEmbedFooter{
		Text:    "Wysłano przez " + author.String(),
		IconURL: author.AvatarURL("256"),
	}

	if _, err := s.ChannelMessageSendEmbed(channel.ID, embed); err != nil {
		b.logger.Warn("say send failed", zap.String("channel_id", channel.ID), zap.Error(err))
		b.respond(s, i, "❌ Nie udało się wysłać wiadomości.", true)
		return
	}
	b.respond(s, i, fmt.Sprintf("✅ Wiadomość została wysłana na <#%s>.", channel.ID), true)
}

func (b *Bot) handleMcStatus(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	opts := optionMap(options)
	host := b.cfg.Minecraft.Host
	port := b.cfg.Minecraft.Port
	if opt, ok := opts["host"]; ok {
		host = opt.StringValue()
	}
	if opt, ok := opts["port"]; ok {
		port = int(opt.IntValue())
	}
	address := fmt.Sprintf("`%s:%d`", host, port)

	// The ping can run up to the configured timeout, past the interaction
	// response window, so acknowledge first and follow up.
	_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})

	timeout := time.Duration(b.cfg.Minecraft.TimeoutSeconds) * time.Second
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	status, err := mcstatus.Ping(pingCtx, host, port)
	if err != nil {
		embed := b.commandEmbed("🔴 Serwer OFFLINE",
			"Nie udało się połączyć z serwerem lub nie odpowiada.",
			b.cfg.Embeds.Info,
			[]*discordgo.MessageEmbedField{{Name: "Adres", Value: address, Inline: true}})
		b.followupEmbed(s, i, embed)
		return
	}

	playerList := "—"
	if len(status.Sample) > 0 {
		names := status.Sample
		if len(names) > 10 {
			names = names[:10]
		}
		lines := make([]string, 0, len(names))
		for _, name := range names {
			lines = append(lines, "• "+name)
		}
		playerList = strings.Join(lines, "\n")
	} else if status.PlayersOnline > 0 {
		playerList = "— (brak listy od serwera)"
	}

	motd := status.Description
	if motd == "" {
		motd = "—"
	}
	version := status.VersionName
	if version == "" {
		version = "—"
	}

	embed := b.commandEmbed("🟢 Serwer ONLINE", motd, b.cfg.Embeds.Info,
		[]*discordgo.MessageEmbedField{
			{Name: "Adres", Value: address, Inline: true},
			{Name: "Gracze", Value: fmt.Sprintf("%d/%d", status.PlayersOnline, status.PlayersMax), Inline: true},
			{Name: "Wersja", Value: version, Inline: true},
			{Name: "Lista graczy", Value: playerList},
		})
	embed.Footer = &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Ping: %dms", status.Latency.Milliseconds())}
	b.followupEmbed(s, i, embed)
}
