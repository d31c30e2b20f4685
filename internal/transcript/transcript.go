// Package transcript renders a channel's full message history into a single
// self-contained HTML document for archival.
package transcript

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

const pageSize = 100

// HistoryFetcher is the slice of *discordgo.Session the generator needs.
type HistoryFetcher interface {
	ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error)
}

type Document struct {
	FileName string
	HTML     []byte
	Entries  int
}

// FetchAll walks the history backwards in 100-message pages until a short
// page, then returns the messages oldest-first. Memory grows with history
// length; tickets are short-lived so the whole set is held at once.
func FetchAll(fetcher HistoryFetcher, channelID string) ([]*discordgo.Message, error) {
	var all []*discordgo.Message
	before := ""

	for {
		page, err := fetcher.ChannelMessages(channelID, pageSize, before, "", "")
		if err != nil {
			return nil, fmt.Errorf("fetch history page: %w", err)
		}
		if len(page) == 0 {
			break
		}
		all = append(all, page...)
		before = page[len(page)-1].ID
		if len(page) < pageSize {
			break
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].Timestamp.Equal(all[j].Timestamp) {
			return all[i].Timestamp.Before(all[j].Timestamp)
		}
		return all[i].ID < all[j].ID
	})
	return all, nil
}

// Build fetches the history and renders the archive document.
func Build(fetcher HistoryFetcher, guildName, channelID, channelName string) (Document, error) {
	messages, err := FetchAll(fetcher, channelID)
	if err != nil {
		return Document{}, err
	}

	html := Render(guildName, channelName, messages, time.Now())
	return Document{
		FileName: fmt.Sprintf("%s-transcript-%d.html", channelName, time.Now().UnixMilli()),
		HTML:     []byte(html),
		Entries:  len(messages),
	}, nil
}

var (
	userMention    = regexp.MustCompile(`&lt;@!?(\d+)&gt;`)
	channelMention = regexp.MustCompile(`&lt;#(\d+)&gt;`)
	roleMention    = regexp.MustCompile(`&lt;@&amp;(\d+)&gt;`)
)

func Render(guildName, channelName string, messages []*discordgo.Message, generatedAt time.Time) string {
	title := escape(fmt.Sprintf("%s • #%s • Transcript", guildName, channelName))

	var rows strings.Builder
	for _, msg := range messages {
		rows.WriteString(renderMessage(msg))
	}

	return fmt.Sprintf(`<!doctype html>
<html lang="pl">
<head>
<meta charset="utf-8"/>
<title>%s</title>
<style>
  :root{ color-scheme: dark; }
  body{ margin:0; font:14px/1.4 system-ui,Segoe UI,Roboto,Ubuntu; background:#0b0b0b; color:#e5e7eb;}
  header{ background:#111; border-bottom:1px solid #222; padding:16px 24px; }
  h1{ margin:0 0 4px 0; font-size:18px; }
  .sub{ color:#9ca3af; font-size:12px; }
  .wrap{ padding:24px; }
  .msg{ padding:12px 0; border-bottom:1px solid #191919;}
  .meta{ color:#9ca3af; font-size:12px; margin-bottom:4px; display:flex; gap:8px; }
  .author{ color:#e5e7eb; font-weight:600; }
  .content{ white-space:pre-wrap; word-break:break-word; }
  .attach{ margin-top:8px; }
  .attach img{ max-width:420px; border-radius:8px; border:1px solid #222; }
  footer{ padding:16px 24px; color:#9ca3af; font-size:12px; border-top:1px solid #222; background:#111; }
</style>
</head>
<body>
  <header>
    <h1>%s</h1>
    <div class="sub">Wygenerowano: %s</div>
  </header>
  <div class="wrap">
%s  </div>
  <footer>Transcript wygenerowany automatycznie przez CHAOSMC.ZONE</footer>
</body>
</html>
`, title, title, generatedAt.Format("2006-01-02 15:04:05"), rows.String())
}

func renderMessage(msg *discordgo.Message) string {
	author := authorName(msg)
	when := msg.Timestamp.Format("2006-01-02 15:04:05")

	content := substituteMentions(escape(msg.Content))
	if content == "" {
		content = "<i>(brak treści)</i>"
	}

	var attachments strings.Builder
	for _, att := range msg.Attachments {
		if strings.HasPrefix(att.ContentType, "image/") {
			attachments.WriteString(fmt.Sprintf(
				`      <div class="attach"><a href="%s" target="_blank"><img src="%s" alt="attachment"/></a></div>`+"\n",
				att.URL, att.URL))
			continue
		}
		name := att.Filename
		if name == "" {
			name = "plik"
		}
		attachments.WriteString(fmt.Sprintf(
			`      <div class="attach"><a href="%s" target="_blank">%s</a> (%d KB)</div>`+"\n",
			att.URL, escape(name), (att.Size+512)/1024))
	}

	return fmt.Sprintf(`    <div class="msg">
      <div class="meta"><span class="author">%s</span><span class="time">%s</span></div>
      <div class="content">%s</div>
%s    </div>
`, escape(author), when, content, attachments.String())
}

func authorName(msg *discordgo.Message) string {
	if msg.Author == nil {
		return "unknown"
	}
	if msg.Member != nil && msg.Member.Nick != "" {
		return fmt.Sprintf("%s (%s)", msg.Member.Nick, msg.Author.Username)
	}
	return msg.Author.Username
}

// substituteMentions rewrites raw mention syntax into readable placeholders.
// The input is already HTML-escaped, so the patterns match entity forms.
func substituteMentions(escaped string) string {
	out := userMention.ReplaceAllString(escaped, "@$1")
	out = channelMention.ReplaceAllString(out, "kanał #$1")
	out = roleMention.ReplaceAllString(out, "rola @$1")
	return out
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escape(s string) string {
	return escaper.Replace(s)
}
