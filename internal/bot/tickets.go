package bot

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"chaosmod/internal/storage"
	"chaosmod/internal/tickets"
	"chaosmod/internal/transcript"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const ticketMemberPermissions = discordgo.PermissionViewChannel |
	discordgo.PermissionSendMessages |
	discordgo.PermissionReadMessageHistory |
	discordgo.PermissionAttachFiles

func (b *Bot) handleTicketPanel(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	_ = ctx
	opts := optionMap(options)
	channel := opts["kanał"].ChannelValue(s)
	if channel == nil {
		b.respond(s, i, "❌ Nie wybrano kanału!", true)
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: "🧾 System ticketów • " + b.cfg.Brand,
		Description: strings.Join([]string{
			"**Informacja dotycząca ticketów**",
			"",
			"Aby skontaktować się z administracją, wybierz **typ zgłoszenia** z listy poniżej.",
			"Następnie opisz problem zgodnie z instrukcją w otwartym kanale.",
			"",
			"⏱️ **Czas odpowiedzi** może wynieść do godziny w godzinach roboczych.",
			"",
			"⚠️ **Wysyłanie bezsensownych ticketów** może skutkować sankcjami.",
		}, "\n"),
		Color:  b.cfg.Embeds.Primary,
		Footer: &discordgo.MessageEmbedFooter{Text: b.cfg.Brand + " • System ticketów"},
	}

	selectOptions := make([]discordgo.SelectMenuOption, 0, len(tickets.Categories))
	for _, cat := range tickets.Categories {
		selectOptions = append(selectOptions, discordgo.SelectMenuOption{
			Label:       cat.Name,
			Value:       cat.Key,
			Description: cat.Description,
			Emoji:       discordgo.ComponentEmoji{Name: cat.Emoji},
		})
	}

	_, err := s.ChannelMessageSendComplex(channel.ID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{embed},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.SelectMenu{
						CustomID:    "ticket_select",
						Placeholder: "Kliknij, aby wybrać typ ticketu!",
						Options:     selectOptions,
					},
				},
			},
		},
	})
	if err != nil {
		b.respond(s, i, "❌ Nie udało się wysłać panelu: "+err.Error(), true)
		return
	}
	b.respond(s, i, fmt.Sprintf("✅ Panel ticketów wysłany na <#%s>.", channel.ID), true)
}

func (b *Bot) handleTicketSelect(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, values []string) {
	if i.GuildID == "" {
		b.respond(s, i, "Ta akcja działa tylko na serwerze.", true)
		return
	}
	if len(values) == 0 {
		b.respond(s, i, "❌ Nieznana kategoria.", true)
		return
	}
	cat, ok := tickets.CategoryByKey(values[0])
	if !ok {
		b.respond(s, i, "❌ Nieznana kategoria.", true)
		return
	}

	cfg := b.guildConfig(ctx, i.GuildID)
	if cfg.TicketCategoryID == "" || cfg.TicketSupportRoleID == "" {
		b.respond(s, i, "⚠️ System ticketów nie jest skonfigurowany. Użyj **/ticketsetup**.", true)
		return
	}

	user := interactionUser(i)
	if open, found, err := b.store.FindOpenTicketByUser(ctx, i.GuildID, user.ID); err == nil && found {
		b.respond(s, i, fmt.Sprintf("Masz już otwarty ticket: <#%s>", open.ChannelID), true)
		return
	}

	number, err := b.store.NextCounter(ctx, "ticket")
	if err != nil {
		b.logger.Error("ticket counter failed", zap.String("guild_id", i.GuildID), zap.Error(err))
		b.respond(s, i, "❌ Nie udało się utworzyć ticketa.", true)
		return
	}
	name := tickets.ChannelName(cat, number)

	channel, err := s.GuildChannelCreateComplex(i.GuildID, discordgo.GuildChannelCreateData{
		Name:     name,
		Type:     discordgo.ChannelTypeGuildText,
		ParentID: cfg.TicketCategoryID,
		Topic:    tickets.Topic(name, cat, user.ID),
		PermissionOverwrites: []*discordgo.PermissionOverwrite{
			{
				ID:   i.GuildID,
				Type: discordgo.PermissionOverwriteTypeRole,
				Deny: discordgo.PermissionViewChannel,
			},
			{
				ID:    user.ID,
				Type:  discordgo.PermissionOverwriteTypeMember,
				Allow: ticketMemberPermissions,
			},
			{
				ID:    cfg.TicketSupportRoleID,
				Type:  discordgo.PermissionOverwriteTypeRole,
				Allow: ticketMemberPermissions,
			},
		},
	})
	if err != nil {
		b.logger.Error("ticket channel create failed", zap.String("guild_id", i.GuildID), zap.Error(err))
		b.respond(s, i, "❌ Nie udało się utworzyć ticketa.", true)
		return
	}

	if _, err := b.store.CreateTicket(ctx, storage.Ticket{
		GuildID:   i.GuildID,
		UserID:    user.ID,
		ChannelID: channel.ID,
		Category:  cat.Key,
		OpenedAt:  time.Now(),
	}); err != nil {
		b.logger.Error("ticket insert failed", zap.String("channel_id", channel.ID), zap.Error(err))
	}

	intro := b.commandEmbed(cat.Emoji+" "+cat.Name, strings.Join([]string{
		fmt.Sprintf("Witaj <@%s>! To jest Twój prywatny ticket w kategorii **%s**.", user.ID, cat.Name),
		"",
		"**Instrukcja:** " + cat.Intro,
		"",
		fmt.Sprintf("Zespół wsparcia <@&%s> wkrótce się odezwie.", cfg.TicketSupportRoleID),
	}, "\n"), b.cfg.Embeds.Primary, nil)
	intro.Footer = &discordgo.MessageEmbedFooter{Text: b.cfg.Brand + " • System ticketów • " + name}

	_, err = s.ChannelMessageSendComplex(channel.ID, &discordgo.MessageSend{
		Content: "<@" + user.ID + ">",
		Embeds:  []*discordgo.MessageEmbed{intro},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{CustomID: "ticket_close", Style: discordgo.DangerButton, Label: "Zamknij"},
					discordgo.Button{CustomID: "ticket_add", Style: discordgo.SecondaryButton, Label: "Dodaj"},
					discordgo.Button{CustomID: "ticket_remove", Style: discordgo.SecondaryButton, Label: "Usuń"},
				},
			},
		},
	})
	if err != nil {
		b.logger.Warn("ticket intro send failed", zap.String("channel_id", channel.ID), zap.Error(err))
	}

	b.respond(s, i, fmt.Sprintf("✅ Utworzono ticket: <#%s>", channel.ID), true)

	log := b.commandEmbed("🎟️ Ticket utworzony", "", b.cfg.Embeds.Primary,
		[]*discordgo.MessageEmbedField{
			{Name: "Użytkownik", Value: "<@" + user.ID + ">", Inline: true},
			{Name: "Kategoria", Value: cat.Emoji + " " + cat.Name, Inline: true},
			{Name: "Kanał", Value: "<#" + channel.ID + ">"},
		})
	b.sendLogEmbed(ctx, i.GuildID, log)
}

func (b *Bot) handleTicketClose(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.GuildID == "" {
		b.respond(s, i, "Ta akcja działa tylko na serwerze.", true)
		return
	}
	channel, err := s.Channel(i.ChannelID)
	if err != nil || channel.Type != discordgo.ChannelTypeGuildText || !tickets.IsTicketChannelName(channel.Name) {
		b.respond(s, i, "To nie wygląda na kanał ticketa.", true)
		return
	}

	b.respond(s, i, "🔒 Trwa zamykanie ticketa…", true)

	var doc transcript.Document
	doc, err = transcript.Build(s, b.guildName(i.GuildID), channel.ID, channel.Name)
	if err != nil {
		b.logger.Warn("transcript build failed", zap.String("channel_id", channel.ID), zap.Error(err))
	}

	if _, err := b.store.CloseTicket(ctx, i.GuildID, channel.ID, time.Now()); err != nil {
		b.logger.Error("ticket close update failed", zap.String("channel_id", channel.ID), zap.Error(err))
	}

	closer := interactionUser(i)
	log := b.commandEmbed("🔒 Ticket zamknięty", "", b.cfg.Embeds.Error,
		[]*discordgo.MessageEmbedField{
			{Name: "Zamykający", Value: "<@" + closer.ID + ">", Inline: true},
			{Name: "Kanał", Value: "<#" + channel.ID + ">", Inline: true},
		})
	b.sendLogEmbed(ctx, i.GuildID, log)

	if logChannelID := b.guildConfig(ctx, i.GuildID).LogChannelID; logChannelID != "" && len(doc.HTML) > 0 {
		_, err := s.ChannelMessageSendComplex(logChannelID, &discordgo.MessageSend{
			Files: []*discordgo.File{{
				Name:        doc.FileName,
				ContentType: "text/html",
				Reader:      bytes.NewReader(doc.HTML),
			}},
		})
		if err != nil {
			b.logger.Warn("transcript upload failed", zap.String("channel_id", logChannelID), zap.Error(err))
		}
	}

	delay := time.Duration(b.cfg.Tickets.DeleteDelaySeconds) * time.Second
	go func() {
		time.Sleep(delay)
		if _, err := s.ChannelDelete(channel.ID); err != nil {
			b.logger.Warn("ticket channel delete failed", zap.String("channel_id", channel.ID), zap.Error(err))
		}
	}()
}

func (b *Bot) showMemberModal(s *discordgo.Session, i *discordgo.InteractionCreate, customID, title string) {
	_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: customID,
			Title:    title,
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.TextInput{
							CustomID:    "user_input",
							Label:       "ID lub wzmianka użytkownika",
							Style:       discordgo.TextInputShort,
							Placeholder: "@użytkownik lub 123456789012345678",
							Required:    true,
						},
					},
				},
			},
		},
	})
}

func (b *Bot) handleTicketMember(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ModalSubmitInteractionData, add bool) {
	_ = ctx
	if i.GuildID == "" {
		b.respond(s, i, "Ta akcja działa tylko na kanale ticketa.", true)
		return
	}
	channel, err := s.Channel(i.ChannelID)
	if err != nil || channel.Type != discordgo.ChannelTypeGuildText || !tickets.IsTicketChannelName(channel.Name) {
		b.respond(s, i, "Ta akcja działa tylko na kanale ticketa.", true)
		return
	}

	userID, ok := parseModalUserInput(data)
	if !ok {
		b.respond(s, i, "❌ Podaj poprawne ID lub wzmiankę.", true)
		return
	}

	if add {
		err := s.ChannelPermissionSet(channel.ID, userID, discordgo.PermissionOverwriteTypeMember, ticketMemberPermissions, 0)
		if err != nil {
			b.respond(s, i, "❌ Nie udało się dodać użytkownika.", true)
			return
		}
		b.respond(s, i, fmt.Sprintf("✅ Dodano <@%s> do tego ticketa.", userID), true)
		return
	}

	if err := s.ChannelPermissionDelete(channel.ID, userID); err != nil {
		b.respond(s, i, "❌ Nie udało się usunąć użytkownika.", true)
		return
	}
	b.respond(s, i, fmt.Sprintf("✅ Usunięto <@%s> z tego ticketa.", userID), true)
}

// parseModalUserInput digs the user_input text field out of the submitted
// modal rows.
func parseModalUserInput(data discordgo.ModalSubmitInteractionData) (string, bool) {
	for _, component := range data.Components {
		row, ok := component.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, inner := range row.Components {
			input, ok := inner.(*discordgo.TextInput)
			if !ok || input.CustomID != "user_input" {
				continue
			}
			return tickets.ParseUserID(input.Value)
		}
	}
	return "", false
}
