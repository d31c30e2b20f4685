// Package tickets holds the fixed ticket category set and the naming and
// parsing helpers shared by the panel and the channel handlers.
package tickets

import (
	"fmt"
	"regexp"
	"strings"
)

type Category struct {
	Key         string
	Name        string
	Emoji       string
	Prefix      string
	Description string
	Intro       string
}

var Categories = []Category{
	{
		Key: "appeal_ban", Name: "Odwołanie bana", Emoji: "🚫", Prefix: "ban",
		Description: "Chcę odwołać się od bana na serwerze.",
		Intro:       "Podaj swój nick, datę bana (jeśli znasz), powód widoczny przy banie oraz krótkie uzasadnienie odwołania.",
	},
	{
		Key: "appeal_warn", Name: "Odwołanie warna", Emoji: "📝", Prefix: "warn",
		Description: "Chcę odwołać się od ostrzeżenia (warna).",
		Intro:       "Podaj swój nick, datę otrzymania warna (jeśli znasz), jego powód oraz krótkie uzasadnienie odwołania.",
	},
	{
		Key: "report_cheater", Name: "Zgłoszenie cheatera", Emoji: "🚨", Prefix: "cheat",
		Description: "Zgłoś podejrzane zachowanie lub cheaty.",
		Intro:       "Podaj nick podejrzanego, tryb/serwer, orientacyjną godzinę oraz **dowody** (screeny/wideo).",
	},
	{
		Key: "discord_issue", Name: "Serwer Discord", Emoji: "💬", Prefix: "discord",
		Description: "Pytanie lub problem związany z Discordem.",
		Intro:       "Opisz problem na Discordzie (rola, dostęp, ustawienia, błędy itp.).",
	},
	{
		Key: "mc_issue", Name: "Problem Minecraft", Emoji: "⛏️", Prefix: "mc",
		Description: "Problem z rozgrywką/połączeniem na serwerze MC.",
		Intro:       "Opisz problem w grze (wejście, lagi, błędy), wersję Minecrafta i ewentualne mody.",
	},
	{
		Key: "shop_issue", Name: "Problem z zakupem na WWW", Emoji: "🛒", Prefix: "shop",
		Description: "Płatności/sklep – pomoc w zakupie lub aktywacji.",
		Intro:       "Podaj numer zamówienia lub e-mail, metodę płatności i opisz problem (brak realizacji, błąd itd.).",
	},
	{
		Key: "bug_report", Name: "Znalazłem błąd", Emoji: "🐞", Prefix: "bug",
		Description: "Zgłoś błąd lub podatność – pomóż nam to poprawić.",
		Intro:       "Opisz błąd krok po kroku (co zrobiłeś, co się stało, co powinno się stać). Dodaj screeny/wideo.",
	},
}

func CategoryByKey(key string) (Category, bool) {
	for _, cat := range Categories {
		if cat.Key == key {
			return cat, true
		}
	}
	return Category{}, false
}

// ChannelName builds ticket-<prefix>-NNNN from the sequential counter.
func ChannelName(cat Category, number int64) string {
	return fmt.Sprintf("ticket-%s-%04d", cat.Prefix, number)
}

func IsTicketChannelName(name string) bool {
	return strings.HasPrefix(name, "ticket-")
}

// TopicMarker tags the channel topic with the requester so operators can see
// ownership at a glance. Dedup is decided by the ticket table, not this tag.
func TopicMarker(userID string) string {
	return "UID:" + userID
}

func Topic(name string, cat Category, userID string) string {
	return fmt.Sprintf("Ticket %s • Kategoria: %s • %s", name, cat.Name, TopicMarker(userID))
}

var (
	mentionPattern = regexp.MustCompile(`^<@!?(\d{17,20})>$`)
	idPattern      = regexp.MustCompile(`^\d{17,20}$`)
)

// ParseUserID accepts a raw snowflake or a user mention. Anything else is
// malformed input.
func ParseUserID(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if match := mentionPattern.FindStringSubmatch(raw); match != nil {
		return match[1], true
	}
	if idPattern.MatchString(raw) {
		return raw, true
	}
	return "", false
}
