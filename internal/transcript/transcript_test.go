package transcript

import (
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
)

// fakeHistory serves pages the way the platform does: newest first, walking
// backwards through the "before" cursor.
type fakeHistory struct {
	messages []*discordgo.Message // descending by ID
	calls    int
}

func (f *fakeHistory) ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error) {
	f.calls++
	start := 0
	if beforeID != "" {
		for i, msg := range f.messages {
			if msg.ID == beforeID {
				start = i + 1
				break
			}
		}
	}
	end := start + limit
	if end > len(f.messages) {
		end = len(f.messages)
	}
	if start >= len(f.messages) {
		return nil, nil
	}
	return f.messages[start:end], nil
}

func newFakeHistory(n int) *fakeHistory {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	messages := make([]*discordgo.Message, 0, n)
	for i := n - 1; i >= 0; i-- {
		messages = append(messages, &discordgo.Message{
			ID:        fmt.Sprintf("%06d", i+1),
			Content:   "wiadomość " + strconv.Itoa(i+1),
			Timestamp: base.Add(time.Duration(i) * time.Second),
			Author:    &discordgo.User{ID: "u1", Username: "gracz"},
		})
	}
	return &fakeHistory{messages: messages}
}

func TestFetchAllMultiPage(t *testing.T) {
	fake := newFakeHistory(250)

	all, err := FetchAll(fake, "ch1")
	if err != nil {
		t.Fatalf("fetch all: %v", err)
	}
	if len(all) != 250 {
		t.Fatalf("expected 250 messages, got %d", len(all))
	}
	if fake.calls != 3 {
		t.Fatalf("expected 3 pages, got %d", fake.calls)
	}
	for i, msg := range all {
		if want := fmt.Sprintf("%06d", i+1); msg.ID != want {
			t.Fatalf("message %d out of order: got %s want %s", i, msg.ID, want)
		}
	}
}

func TestFetchAllExactPageBoundary(t *testing.T) {
	fake := newFakeHistory(200)

	all, err := FetchAll(fake, "ch1")
	if err != nil {
		t.Fatalf("fetch all: %v", err)
	}
	if len(all) != 200 {
		t.Fatalf("expected 200 messages, got %d", len(all))
	}
}

func TestFetchAllEmptyChannel(t *testing.T) {
	all, err := FetchAll(&fakeHistory{}, "ch1")
	if err != nil {
		t.Fatalf("fetch all: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("expected no messages, got %d", len(all))
	}
}

func TestBuildEntryCount(t *testing.T) {
	doc, err := Build(newFakeHistory(150), "ChaosMC", "ch1", "ticket-ban-0001")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if doc.Entries != 150 {
		t.Fatalf("expected 150 entries, got %d", doc.Entries)
	}
	if got := strings.Count(string(doc.HTML), `<div class="msg">`); got != 150 {
		t.Fatalf("expected 150 rendered rows, got %d", got)
	}
	if !strings.HasPrefix(doc.FileName, "ticket-ban-0001-transcript-") || !strings.HasSuffix(doc.FileName, ".html") {
		t.Fatalf("unexpected file name %q", doc.FileName)
	}
}

func TestRenderEscapesAndMentions(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	messages := []*discordgo.Message{
		{
			ID:        "1",
			Content:   "<script>alert(1)</script> <@123> <#456> <@&789>",
			Timestamp: now,
			Author:    &discordgo.User{ID: "u1", Username: "gracz"},
		},
		{
			ID:        "2",
			Content:   "",
			Timestamp: now.Add(time.Second),
			Author:    &discordgo.User{ID: "u2", Username: "inny"},
			Attachments: []*discordgo.MessageAttachment{
				{URL: "https://cdn.example/shot.png", Filename: "shot.png", ContentType: "image/png", Size: 2048},
				{URL: "https://cdn.example/log.txt", Filename: "log.txt", ContentType: "text/plain", Size: 4096},
			},
		},
	}

	html := Render("ChaosMC", "ticket-bug-0002", messages, now)
	if strings.Contains(html, "<script>") {
		t.Fatalf("content must be escaped")
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Fatalf("expected escaped script tag")
	}
	if !strings.Contains(html, "@123") || !strings.Contains(html, "kanał #456") || !strings.Contains(html, "rola @789") {
		t.Fatalf("mention placeholders missing:\n%s", html)
	}
	if !strings.Contains(html, `<img src="https://cdn.example/shot.png"`) {
		t.Fatalf("image attachment must render inline")
	}
	if !strings.Contains(html, `log.txt</a> (4 KB)`) {
		t.Fatalf("file attachment must render as link with size")
	}
	if !strings.Contains(html, "(brak treści)") {
		t.Fatalf("empty content placeholder missing")
	}
}
