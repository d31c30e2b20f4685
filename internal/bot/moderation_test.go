package bot

import (
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
)

func TestParseDuration(t *testing.T) {
	cases := []struct {
		input string
		want  time.Duration
		label string
		ok    bool
	}{
		{"10m", 10 * time.Minute, "10 min", true},
		{"2h", 2 * time.Hour, "2 h", true},
		{"1d", 24 * time.Hour, "1 d", true},
		{"28d", 28 * 24 * time.Hour, "28 d", true},
		{" 5 m ", 5 * time.Minute, "5 min", true},
		{"2H", 2 * time.Hour, "2 h", true},
		{"0m", 0, "", false},
		{"10", 0, "", false},
		{"h", 0, "", false},
		{"10s", 0, "", false},
		{"abc", 0, "", false},
		{"", 0, "", false},
	}
	for _, tc := range cases {
		got, label, ok := parseDuration(tc.input)
		if ok != tc.ok {
			t.Fatalf("parseDuration(%q) ok = %v, want %v", tc.input, ok, tc.ok)
		}
		if !tc.ok {
			continue
		}
		if got != tc.want {
			t.Errorf("parseDuration(%q) = %v, want %v", tc.input, got, tc.want)
		}
		if label != tc.label {
			t.Errorf("parseDuration(%q) label = %q, want %q", tc.input, label, tc.label)
		}
	}
}

func TestParseDurationOverCap(t *testing.T) {
	got, _, ok := parseDuration("30d")
	if !ok {
		t.Fatal("30d should parse; the cap is enforced by the handler")
	}
	if got <= maxTimeoutDuration {
		t.Fatalf("30d = %v, expected above the %v cap", got, maxTimeoutDuration)
	}
}

func TestWarnFraction(t *testing.T) {
	cases := []struct {
		count, max int
		want       string
	}{
		{1, 3, "1/3"},
		{3, 3, "3/3"},
		{7, 3, "3/3"},
		{0, 3, "0/3"},
	}
	for _, tc := range cases {
		if got := warnFraction(tc.count, tc.max); got != tc.want {
			t.Errorf("warnFraction(%d, %d) = %q, want %q", tc.count, tc.max, got, tc.want)
		}
	}
}

func TestRoleAbove(t *testing.T) {
	guild := &discordgo.Guild{
		ID:      "g1",
		OwnerID: "owner",
		Roles: []*discordgo.Role{
			{ID: "low", Position: 1},
			{ID: "mid", Position: 5},
			{ID: "high", Position: 9},
		},
	}
	member := func(userID string, roles ...string) *discordgo.Member {
		return &discordgo.Member{User: &discordgo.User{ID: userID}, Roles: roles}
	}

	if !roleAbove(guild, member("mod", "high"), member("target", "mid")) {
		t.Error("higher role should outrank")
	}
	if roleAbove(guild, member("mod", "mid"), member("target", "mid")) {
		t.Error("equal role must not outrank")
	}
	if roleAbove(guild, member("mod", "low"), member("target", "high")) {
		t.Error("lower role must not outrank")
	}
	if !roleAbove(guild, member("owner", "low"), member("target", "high")) {
		t.Error("guild owner always outranks")
	}
	if !roleAbove(nil, member("mod"), member("target")) {
		t.Error("missing guild state should not block the action")
	}
}
