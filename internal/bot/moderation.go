package bot

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"chaosmod/internal/storage"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const maxTimeoutDuration = 28 * 24 * time.Hour

var durationPattern = regexp.MustCompile(`^(\d+)\s*(m|h|d)$`)

// parseDuration accepts 10m / 2h / 1d shorthand and returns the duration with
// a Polish display label.
func parseDuration(input string) (time.Duration, string, bool) {
	match := durationPattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(input)))
	if match == nil {
		return 0, "", false
	}
	value, err := strconv.Atoi(match[1])
	if err != nil || value <= 0 {
		return 0, "", false
	}
	switch match[2] {
	case "m":
		return time.Duration(value) * time.Minute, fmt.Sprintf("%d min", value), true
	case "h":
		return time.Duration(value) * time.Hour, fmt.Sprintf("%d h", value), true
	default:
		return time.Duration(value) * 24 * time.Hour, fmt.Sprintf("%d d", value), true
	}
}

// warnFraction renders the running count against the cap, clamped so the
// display never exceeds e.g. 3/3.
func warnFraction(count, max int) string {
	if count > max {
		count = max
	}
	return fmt.Sprintf("%d/%d", count, max)
}

// roleAbove reports whether the moderator outranks the target by highest role
// position. The guild owner always outranks.
func roleAbove(guild *discordgo.Guild, moderator, target *discordgo.Member) bool {
	if guild == nil || moderator == nil || target == nil {
		return true
	}
	if moderator.User != nil && guild.OwnerID == moderator.User.ID {
		return true
	}
	positions := make(map[string]int, len(guild.Roles))
	for _, role := range guild.Roles {
		positions[role.ID] = role.Position
	}
	highest := func(member *discordgo.Member) int {
		top := 0
		for _, id := range member.Roles {
			if pos, ok := positions[id]; ok && pos > top {
				top = pos
			}
		}
		return top
	}
	return highest(moderator) > highest(target)
}

func (b *Bot) handleBan(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	if i.GuildID == "" {
		b.respond(s, i, "Ta komenda działa tylko na serwerze.", true)
		return
	}

	opts := optionMap(options)
	target := opts["użytkownik"].UserValue(s)
	reason := "Brak powodu"
	if opt, ok := opts["powód"]; ok {
		reason = opt.StringValue()
	}
	deleteDays := 0
	if opt, ok := opts["usuń_wiadomości_dni"]; ok {
		deleteDays = int(opt.IntValue())
	}

	moderator := interactionUser(i)
	if target.ID == moderator.ID {
		b.respond(s, i, "❌ Nie możesz zbanować samego siebie.", true)
		return
	}
	if target.ID == s.State.User.ID {
		b.respond(s, i, "❌ Nie możesz zbanować bota.", true)
		return
	}

	if targetMember, err := s.GuildMember(i.GuildID, target.ID); err == nil {
		guild, _ := s.State.Guild(i.GuildID)
		if !roleAbove(guild, i.Member, targetMember) {
			b.respond(s, i, "❌ Ten użytkownik ma równą lub wyższą rolę niż Twoja.", true)
			return
		}
	}

	fx := sideEffects{}
	dm := b.commandEmbed("🚫 Zostałeś zbanowany", fmt.Sprintf(
		"Z serwera **%s** otrzymałeś bana.\n\n**Moderator:** %s\n**Powód:** %s\n\n"+
			"Jeśli uważasz, że ban jest **niesłuszny**, skontaktuj się z administracją "+
			"poprzez kanał pomocy lub system ticketów (jeśli jest dostępny).",
		b.guildName(i.GuildID), moderatorDisplay(i), reason,
	), b.cfg.Embeds.Error, nil)
	fx.dmSent = b.dmEmbed(target.ID, dm)

	auditReason := fmt.Sprintf("%s | Moderator: %s (%s)", reason, moderator.String(), moderator.ID)
	if err := s.GuildBanCreateWithReason(i.GuildID, target.ID, auditReason, deleteDays); err != nil {
		b.respond(s, i, "❌ Nie udało się zbanować użytkownika: "+err.Error(), true)
		return
	}

	fx.recorded = b.audit.Record(ctx, i.GuildID, target.ID, moderator.ID, storage.ActionBan, reason)

	dmField := "❌ Nie"
	if fx.dmSent {
		dmField = "✅ Tak"
	}
	reply := b.commandEmbed("✅ Użytkownik zbanowany",
		fmt.Sprintf("<@%s> został zbanowany.", target.ID),
		b.cfg.Embeds.Error,
		[]*discordgo.MessageEmbedField{
			{Name: "Powód", Value: reason},
			{Name: "Usunięto wiadomości (dni)", Value: strconv.Itoa(deleteDays), Inline: true},
			{Name: "DM wysłany", Value: dmField, Inline: true},
		})
	reply.Footer = &discordgo.MessageEmbedFooter{Text: "Akcja: " + moderator.String()}
	b.respondEmbed(s, i, reply, true)

	logEmbed := b.commandEmbed("🚫 BAN",
		fmt.Sprintf("**Użytkownik:** <@%s>\n**Moderator:** <@%s>\n**Powód:** %s", target.ID, moderator.ID, reason),
		b.cfg.Embeds.Error,
		[]*discordgo.MessageEmbedField{
			{Name: "ID Użytkownika", Value: target.ID, Inline: true},
			{Name: "ID Moderatora", Value: moderator.ID, Inline: true},
			{Name: "Usunięto wiadomości (dni)", Value: strconv.Itoa(deleteDays), Inline: true},
			{Name: "DM wysłany", Value: dmField, Inline: true},
			{Name: "Data", Value: discordTimestamp(time.Now(), "F")},
		})
	fx.logged = b.sendLogEmbed(ctx, i.GuildID, logEmbed)

	b.reportSideEffects(storage.ActionBan, i.GuildID, target.ID, fx)
}

func (b *Bot) handleUnban(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	if i.GuildID == "" {
		b.respond(s, i, "Ta komenda działa tylko na serwerze.", true)
		return
	}

	opts := optionMap(options)
	userID := strings.TrimSpace(opts["id"].StringValue())
	reason := "Brak powodu"
	if opt, ok := opts["powód"]; ok {
		reason = opt.StringValue()
	}

	if _, err := s.GuildBan(i.GuildID, userID); err != nil {
		b.respond(s, i, fmt.Sprintf("⚠️ Użytkownik o ID `%s` nie jest obecnie zbanowany.", userID), true)
		return
	}

	moderator := interactionUser(i)
	if err := s.GuildBanDelete(i.GuildID, userID); err != nil {
		b.respond(s, i, "❌ Nie udało się odbanować użytkownika: "+err.Error(), true)
		return
	}

	fx := sideEffects{dmSent: true}
	fx.recorded = b.audit.Record(ctx, i.GuildID, userID, moderator.ID, storage.ActionUnban, reason)

	reply := b.commandEmbed("✅ Użytkownik odbanowany",
		fmt.Sprintf("Użytkownik <@%s> został odbanowany.", userID),
		b.cfg.Embeds.Success,
		[]*discordgo.MessageEmbedField{{Name: "Powód", Value: reason}})
	reply.Footer = &discordgo.MessageEmbedFooter{Text: "Akcja: " + moderator.String()}
	b.respondEmbed(s, i, reply, true)

	logEmbed := b.commandEmbed("🔓 UNBAN",
		fmt.Sprintf("**Użytkownik:** <@%s>\n**Moderator:** <@%s>\n**Powód:** %s", userID, moderator.ID, reason),
		b.cfg.Embeds.Success,
		[]*discordgo.MessageEmbedField{
			{Name: "ID Użytkownika", Value: userID, Inline: true},
			{Name: "ID Moderatora", Value: moderator.ID, Inline: true},
			{Name: "Data", Value: discordTimestamp(time.Now(), "F")},
		})
	fx.logged = b.sendLogEmbed(ctx, i.GuildID, logEmbed)

	b.reportSideEffects(storage.ActionUnban, i.GuildID, userID, fx)
}

func (b *Bot) handleTimeout(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	if i.GuildID == "" {
		b.respond(s, i, "Ta komenda działa tylko na serwerze.", true)
		return
	}

	opts := optionMap(options)
	target := opts["użytkownik"].UserValue(s)
	reason := "Brak powodu"
	if opt, ok := opts["powód"]; ok {
		reason = opt.StringValue()
	}

	duration, label, ok := parseDuration(opts["czas"].StringValue())
	if !ok {
		b.respond(s, i, "❌ Nieprawidłowy format czasu. Użyj: `10m`, `2h`, `1d` (maks. `28d`).", true)
		return
	}
	if duration > maxTimeoutDuration {
		b.respond(s, i, "❌ Czas musi być w zakresie od 1 min do 28 dni.", true)
		return
	}

	moderator := interactionUser(i)
	if target.ID == moderator.ID {
		b.respond(s, i, "❌ Nie możesz nałożyć timeoutu samemu sobie.", true)
		return
	}
	if target.ID == s.State.User.ID {
		b.respond(s, i, "❌ Nie możesz nałożyć timeoutu botowi.", true)
		return
	}

	targetMember, err := s.GuildMember(i.GuildID, target.ID)
	if err != nil {
		b.respond(s, i, "❌ Nie znaleziono użytkownika na serwerze.", true)
		return
	}
	guild, _ := s.State.Guild(i.GuildID)
	if !roleAbove(guild, i.Member, targetMember) {
		b.respond(s, i, "❌ Ten użytkownik ma równą lub wyższą rolę niż Twoja.", true)
		return
	}

	until := time.Now().Add(duration)

	fx := sideEffects{}
	dm := b.commandEmbed("⏳ Nałożono timeout", fmt.Sprintf(
		"Na serwerze **%s** nałożono na Ciebie timeout.\n\n**Moderator:** %s\n**Powód:** %s\n"+
			"**Czas trwania:** %s\n**Do:** %s (pozostało: %s)\n\n"+
			"Jeśli uważasz, że kara jest **niesłuszna**, skontaktuj się z administracją przez kanał pomocy lub ticket.",
		b.guildName(i.GuildID), moderatorDisplay(i), reason, label,
		discordTimestamp(until, "F"), discordTimestamp(until, "R"),
	), b.cfg.Embeds.Primary, nil)
	fx.dmSent = b.dmEmbed(target.ID, dm)

	if err := s.GuildMemberTimeout(i.GuildID, target.ID, &until); err != nil {
		b.respond(s, i, "❌ Nie udało się nałożyć timeoutu: "+err.Error(), true)
		return
	}

	fx.recorded = b.audit.Record(ctx, i.GuildID, target.ID, moderator.ID, storage.ActionTimeout, reason)

	dmField := "❌ Nie"
	if fx.dmSent {
		dmField = "✅ Tak"
	}
	reply := b.commandEmbed("✅ Timeout nałożony",
		fmt.Sprintf("<@%s> został wyciszony.", target.ID),
		b.cfg.Embeds.Primary,
		[]*discordgo.MessageEmbedField{
			{Name: "Powód", Value: reason},
			{Name: "Czas", Value: label, Inline: true},
			{Name: "Do", Value: discordTimestamp(until, "F"), Inline: true},
			{Name: "Pozostało", Value: discordTimestamp(until, "R"), Inline: true},
			{Name: "DM wysłany", Value: dmField, Inline: true},
		})
	reply.Footer = &discordgo.MessageEmbedFooter{Text: "Akcja: " + moderator.String()}
	b.respondEmbed(s, i, reply, true)

	logEmbed := b.commandEmbed("⏳ TIMEOUT",
		fmt.Sprintf("**Użytkownik:** <@%s>\n**Moderator:** <@%s>\n**Powód:** %s", target.ID, moderator.ID, reason),
		b.cfg.Embeds.Primary,
		[]*discordgo.MessageEmbedField{
			{Name: "Czas", Value: label, Inline: true},
			{Name: "Do", Value: discordTimestamp(until, "F"), Inline: true},
			{Name: "Pozostało", Value: discordTimestamp(until, "R"), Inline: true},
			{Name: "DM wysłany", Value: dmField, Inline: true},
			{Name: "Data", Value: discordTimestamp(time.Now(), "F")},
		})
	fx.logged = b.sendLogEmbed(ctx, i.GuildID, logEmbed)

	b.reportSideEffects(storage.ActionTimeout, i.GuildID, target.ID, fx)
}

func (b *Bot) handleWarn(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	if i.GuildID == "" {
		b.respond(s, i, "Ta komenda działa tylko na serwerze.", true)
		return
	}

	opts := optionMap(options)
	target := opts["użytkownik"].UserValue(s)
	reason := "Brak powodu"
	if opt, ok := opts["powód"]; ok {
		reason = opt.StringValue()
	}

	moderator := interactionUser(i)
	count, err := b.store.AddWarning(ctx, storage.Warning{
		GuildID:     i.GuildID,
		UserID:      target.ID,
		ModeratorID: moderator.ID,
		Reason:      reason,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		b.logger.Error("warning insert failed", zap.String("guild_id", i.GuildID), zap.Error(err))
		b.respond(s, i, "❌ Nie udało się zapisać ostrzeżenia.", true)
		return
	}

	maxWarns := b.cfg.Warnings.MaxDisplayed
	fraction := warnFraction(count, maxWarns)

	reply := b.commandEmbed(fmt.Sprintf("⚠️ Ostrzeżenie %s", fraction),
		fmt.Sprintf("Użytkownik <@%s> otrzymał ostrzeżenie.\n\n**Powód:** %s", target.ID, reason),
		b.cfg.Embeds.Warning,
		[]*discordgo.MessageEmbedField{
			{Name: "Użytkownik", Value: fmt.Sprintf("%s (%s)", target.String(), target.ID), Inline: true},
			{Name: "Moderator", Value: fmt.Sprintf("%s (%s)", moderator.String(), moderator.ID), Inline: true},
			{Name: "Data", Value: discordTimestamp(time.Now(), "F")},
		})
	reply.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: target.AvatarURL("256")}
	reply.Footer = &discordgo.MessageEmbedFooter{Text: "Razem: " + fraction}
	b.respondEmbed(s, i, reply, true)

	fx := sideEffects{recorded: true}
	dm := b.commandEmbed(fmt.Sprintf("Otrzymałeś ostrzeżenie (%s)", fraction), fmt.Sprintf(
		"Na serwerze **%s** otrzymałeś ostrzeżenie.\n\n**Moderator:** %s\n**Powód:** %s\n\n"+
			"Jeśli uważasz, że to ostrzeżenie jest **niesłuszne**, skontaktuj się z administracją "+
			"— najlepiej poprzez kanał pomocy lub ticket serwera. Opisz sprawę spokojnie i podaj "+
			"jak najwięcej szczegółów, a zespół rozpatrzy Twoje zgłoszenie.",
		b.guildName(i.GuildID), moderatorDisplay(i), reason,
	), b.cfg.Embeds.Primary, nil)
	dm.Footer = &discordgo.MessageEmbedFooter{Text: "Łącznie: " + fraction}
	fx.dmSent = b.dmEmbed(target.ID, dm)

	dmField := "❌ Nie"
	if fx.dmSent {
		dmField = "✅ Tak"
	}
	logEmbed := b.commandEmbed("",
		fmt.Sprintf("**Użytkownik:** <@%s>\n**Moderator:** <@%s>\n**Powód:** %s", target.ID, moderator.ID, reason),
		b.cfg.Embeds.Warning,
		[]*discordgo.MessageEmbedField{
			{Name: "ID Użytkownika", Value: target.ID, Inline: true},
			{Name: "ID Moderatora", Value: moderator.ID, Inline: true},
			{Name: "Data", Value: discordTimestamp(time.Now(), "F")},
			{Name: "DM wysłany", Value: dmField, Inline: true},
		})
	logEmbed.Author = &discordgo.MessageEmbedAuthor{
		Name:    "WARN " + fraction,
		IconURL: target.AvatarURL("256"),
	}
	fx.logged = b.sendLogEmbed(ctx, i.GuildID, logEmbed)

	if count >= maxWarns {
		escalation := b.commandEmbed("⛔ Limit ostrzeżeń osiągnięty",
			fmt.Sprintf("<@%s> ma %d/%d ostrzeżeń.", target.ID, count, maxWarns),
			0xDC2626, nil)
		b.sendLogEmbed(ctx, i.GuildID, escalation)
	}

	b.reportSideEffects("warn", i.GuildID, target.ID, fx)
}

func (b *Bot) handleCleanwarn(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	if i.GuildID == "" {
		b.respond(s, i, "Ta komenda działa tylko na serwerze.", true)
		return
	}

	opts := optionMap(options)
	target := opts["użytkownik"].UserValue(s)
	amount := int(opts["ilość"].IntValue())

	before, err := b.store.CountWarnings(ctx, i.GuildID, target.ID)
	if err != nil {
		b.respond(s, i, "❌ Nie udało się odczytać ostrzeżeń.", true)
		return
	}
	if before == 0 {
		b.respond(s, i, fmt.Sprintf("<@%s> nie ma żadnych ostrzeżeń.", target.ID), true)
		return
	}

	removed, err := b.store.RemoveWarnings(ctx, i.GuildID, target.ID, amount)
	if err != nil {
		b.respond(s, i, "❌ Nie udało się usunąć ostrzeżeń.", true)
		return
	}
	remaining := before - len(removed)

	moderator := interactionUser(i)
	fields := []*discordgo.MessageEmbedField{
		{Name: "Przed", Value: strconv.Itoa(before), Inline: true},
		{Name: "Po", Value: strconv.Itoa(remaining), Inline: true},
	}
	if len(removed) > 0 {
		show := removed
		if len(show) > 3 {
			show = show[:3]
		}
		lines := make([]string, 0, len(show))
		for _, w := range show {
			lines = append(lines, fmt.Sprintf("• %s — %s", discordTimestamp(w.CreatedAt, "f"), w.Reason))
		}
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  "Usunięte (ostatnie)",
			Value: strings.Join(lines, "\n"),
		})
	}

	reply := b.commandEmbed("🧹 Czyszczenie ostrzeżeń",
		fmt.Sprintf("<@%s> — usunięto **%d** ostrzeżenie(a).", target.ID, len(removed)),
		b.cfg.Embeds.Warning, fields)
	reply.Footer = &discordgo.MessageEmbedFooter{Text: "Akcja: " + moderator.String()}
	b.respondEmbed(s, i, reply, true)

	logEmbed := b.commandEmbed("🧹 Czyszczenie ostrzeżeń",
		fmt.Sprintf("Moderator: <@%s>\nUżytkownik: <@%s>", moderator.ID, target.ID),
		b.cfg.Embeds.Warning,
		[]*discordgo.MessageEmbedField{
			{Name: "Usunięto", Value: strconv.Itoa(len(removed)), Inline: true},
			{Name: "Przed", Value: strconv.Itoa(before), Inline: true},
			{Name: "Po", Value: strconv.Itoa(remaining), Inline: true},
		})
	b.sendLogEmbed(ctx, i.GuildID, logEmbed)
}

func (b *Bot) handleClear(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	if i.GuildID == "" {
		b.respond(s, i, "❌ Ta komenda działa tylko na serwerze.", true)
		return
	}

	opts := optionMap(options)
	amount := int(opts["ilość"].IntValue())
	var target *discordgo.User
	if opt, ok := opts["użytkownik"]; ok {
		target = opt.UserValue(s)
	}

	messages, err := s.ChannelMessages(i.ChannelID, 100, "", "", "")
	if err != nil {
		b.respond(s, i, "❌ Wystąpił błąd podczas czyszczenia wiadomości: "+err.Error(), true)
		return
	}

	ids := make([]string, 0, amount)
	for _, msg := range messages {
		if len(ids) >= amount {
			break
		}
		if target != nil && (msg.Author == nil || msg.Author.ID != target.ID) {
			continue
		}
		ids = append(ids, msg.ID)
	}

	if len(ids) == 0 {
		b.respond(s, i, "⚠️ Nie znaleziono wiadomości do usunięcia.", true)
		return
	}

	if err := s.ChannelMessagesBulkDelete(i.ChannelID, ids); err != nil {
		b.respond(s, i, "❌ Wystąpił błąd podczas czyszczenia wiadomości: "+err.Error(), true)
		return
	}

	moderator := interactionUser(i)
	description := fmt.Sprintf("Usunięto **%d** wiadomości z kanału <#%s>.", len(ids), i.ChannelID)
	if target != nil {
		description = fmt.Sprintf("Usunięto **%d** wiadomości użytkownika <@%s> z kanału <#%s>.", len(ids), target.ID, i.ChannelID)
	}
	reply := b.commandEmbed("🧹 Wiadomości usunięte", description, b.cfg.Embeds.Info, nil)
	reply.Footer = &discordgo.MessageEmbedFooter{Text: "Akcja: " + moderator.String()}
	b.respondEmbed(s, i, reply, true)

	fields := []*discordgo.MessageEmbedField{
		{Name: "Moderator", Value: "<@" + moderator.ID + ">", Inline: true},
		{Name: "Kanał", Value: "<#" + i.ChannelID + ">", Inline: true},
		{Name: "Ilość wiadomości", Value: strconv.Itoa(len(ids)), Inline: true},
	}
	if target != nil {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Użytkownik docelowy", Value: "<@" + target.ID + ">", Inline: true})
	}
	fields = append(fields, &discordgo.MessageEmbedField{Name: "Data", Value: discordTimestamp(time.Now(), "F")})
	b.sendLogEmbed(ctx, i.GuildID, b.commandEmbed("🧹 Czyszczenie kanału", "", b.cfg.Embeds.Info, fields))
}

func (b *Bot) handleUserinfo(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	if i.GuildID == "" {
		b.respond(s, i, "Ta komenda działa tylko na serwerze.", true)
		return
	}

	opts := optionMap(options)
	target := opts["użytkownik"].UserValue(s)

	member, memberErr := s.GuildMember(i.GuildID, target.ID)

	accountField := "Nieznane"
	if created, err := discordgo.SnowflakeTimestamp(target.ID); err == nil {
		accountField = "Utworzone: " + discordTimestamp(created, "F")
	}

	serverField := "Poza serwerem"
	if memberErr == nil && !member.JoinedAt.IsZero() {
		serverField = "Dołączył: " + discordTimestamp(member.JoinedAt, "F")
	}

	rolesField := "Brak / poza serwerem"
	if memberErr == nil && len(member.Roles) > 0 {
		ids := member.Roles
		if len(ids) > 10 {
			ids = ids[:10]
		}
		mentions := make([]string, 0, len(ids))
		for _, id := range ids {
			mentions = append(mentions, "<@&"+id+">")
		}
		rolesField = strings.Join(mentions, ", ")
	}

	warnCount, err := b.store.CountWarnings(ctx, i.GuildID, target.ID)
	if err != nil {
		b.logger.Warn("warning count failed", zap.String("guild_id", i.GuildID), zap.Error(err))
	}
	lastWarns := "Brak"
	if warnCount > 0 {
		warns, err := b.store.ListWarnings(ctx, i.GuildID, target.ID, 0)
		if err == nil && len(warns) > 0 {
			if len(warns) > 3 {
				warns = warns[len(warns)-3:]
			}
			lines := make([]string, 0, len(warns))
			for _, w := range warns {
				lines = append(lines, fmt.Sprintf("• %s — %s", discordTimestamp(w.CreatedAt, "f"), w.Reason))
			}
			lastWarns = strings.Join(lines, "\n")
		}
	}

	timeoutField := "Brak"
	if memberErr == nil && member.CommunicationDisabledUntil != nil && member.CommunicationDisabledUntil.After(time.Now()) {
		until := *member.CommunicationDisabledUntil
		timeoutField = fmt.Sprintf("Do: %s (pozostało: %s)", discordTimestamp(until, "F"), discordTimestamp(until, "R"))
	}

	actions, err := b.store.CountModActions(ctx, i.GuildID, target.ID)
	if err != nil {
		actions = map[string]int{}
	}
	history := fmt.Sprintf("Bany: **%d** • Timeouty: **%d** • Warny: **%d**",
		actions[storage.ActionBan], actions[storage.ActionTimeout], warnCount)

	embed := b.commandEmbed("Informacje moderacyjne — "+target.Username, "", b.cfg.Embeds.Info,
		[]*discordgo.MessageEmbedField{
			{Name: "Użytkownik", Value: fmt.Sprintf("<@%s> (%s)", target.ID, target.ID)},
			{Name: "Konto", Value: accountField, Inline: true},
			{Name: "Serwer", Value: serverField, Inline: true},
			{Name: "Role", Value: rolesField},
			{Name: "Warny (łącznie)", Value: strconv.Itoa(warnCount), Inline: true},
			{Name: "Ostatnie warny", Value: lastWarns},
			{Name: "Timeout", Value: timeoutField, Inline: true},
			{Name: "Historia (lokalna)", Value: history},
		})
	embed.Author = &discordgo.MessageEmbedAuthor{Name: target.String(), IconURL: target.AvatarURL("256")}
	embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: target.AvatarURL("256")}
	embed.Footer = &discordgo.MessageEmbedFooter{Text: "Zapytano przez: " + interactionUser(i).String()}
	b.respondEmbed(s, i, embed, false)
}
