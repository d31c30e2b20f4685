package bot

import (
	"testing"

	"github.com/bwmarrin/discordgo"
)

func modalData(customID, value string) discordgo.ModalSubmitInteractionData {
	return discordgo.ModalSubmitInteractionData{
		Components: []discordgo.MessageComponent{
			&discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					&discordgo.TextInput{CustomID: customID, Value: value},
				},
			},
		},
	}
}

func TestParseModalUserInput(t *testing.T) {
	cases := []struct {
		value string
		want  string
		ok    bool
	}{
		{"123456789012345678", "123456789012345678", true},
		{"<@123456789012345678>", "123456789012345678", true},
		{"<@!123456789012345678>", "123456789012345678", true},
		{" 123456789012345678 ", "123456789012345678", true},
		{"not-an-id", "", false},
		{"12345", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := parseModalUserInput(modalData("user_input", tc.value))
		if ok != tc.ok || got != tc.want {
			t.Errorf("parseModalUserInput(%q) = (%q, %v), want (%q, %v)", tc.value, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParseModalUserInputWrongField(t *testing.T) {
	if _, ok := parseModalUserInput(modalData("other_input", "123456789012345678")); ok {
		t.Fatal("a field other than user_input must not match")
	}
}
