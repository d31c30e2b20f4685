package tickets

import "testing"

func TestCategoryByKey(t *testing.T) {
	cat, ok := CategoryByKey("appeal_ban")
	if !ok {
		t.Fatalf("expected category")
	}
	if cat.Prefix != "ban" {
		t.Fatalf("expected prefix ban, got %q", cat.Prefix)
	}
	if _, ok := CategoryByKey("nope"); ok {
		t.Fatalf("unknown key must not resolve")
	}
}

func TestChannelName(t *testing.T) {
	cat, _ := CategoryByKey("report_cheater")
	name := ChannelName(cat, 7)
	if name != "ticket-cheat-0007" {
		t.Fatalf("unexpected name %q", name)
	}
	if !IsTicketChannelName(name) {
		t.Fatalf("generated name must be recognized")
	}
	if IsTicketChannelName("general") {
		t.Fatalf("plain channel must not match")
	}
}

func TestParseUserID(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"123456789012345678", "123456789012345678", true},
		{"<@123456789012345678>", "123456789012345678", true},
		{"<@!123456789012345678>", "123456789012345678", true},
		{" 123456789012345678 ", "123456789012345678", true},
		{"12345", "", false},
		{"<@&123456789012345678>", "", false},
		{"someone", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseUserID(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ParseUserID(%q) = %q,%v; want %q,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
