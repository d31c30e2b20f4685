package card

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
)

func solidAvatar(c color.RGBA) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func decodeCard(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode card: %v", err)
	}
	return img
}

func TestWelcomeCard(t *testing.T) {
	avatarColor := color.RGBA{R: 0xFF, G: 0x00, B: 0x00, A: 0xFF}
	data, err := Welcome(solidAvatar(avatarColor), "Steve", 1234)
	if err != nil {
		t.Fatalf("welcome: %v", err)
	}

	img := decodeCard(t, data)
	if b := img.Bounds(); b.Dx() != cardWidth || b.Dy() != cardHeight {
		t.Fatalf("unexpected size %dx%d", b.Dx(), b.Dy())
	}

	// Avatar center must show avatar pixels, not the panel.
	r, _, _, _ := img.At(80+avatarSize/2, cardHeight/2).RGBA()
	if r>>8 != 0xFF {
		t.Fatalf("avatar not drawn, got red channel %d", r>>8)
	}

	// Outside the circle the panel color must survive the mask.
	pr, pg, pb, _ := img.At(82, (cardHeight-avatarSize)/2+2).RGBA()
	if pr>>8 == 0xFF && pg>>8 == 0 && pb>>8 == 0 {
		t.Fatalf("avatar leaked outside circle mask")
	}
}

func TestWelcomeCardNilAvatar(t *testing.T) {
	data, err := Welcome(nil, "Steve", 1)
	if err != nil {
		t.Fatalf("welcome: %v", err)
	}
	decodeCard(t, data)
}

func TestPunishmentCard(t *testing.T) {
	data, err := PunishmentCard(solidAvatar(color.RGBA{A: 0xFF}), Punishment{
		Name:     "Griefer123",
		Kind:     "TEMP_BAN",
		Reason:   "Cheaty",
		Operator: "Admin",
		Duration: "7d",
	})
	if err != nil {
		t.Fatalf("punishment: %v", err)
	}
	decodeCard(t, data)
}

func TestKindTitle(t *testing.T) {
	cases := map[string]string{
		"BAN":       "Gracz zbanowany",
		"temp_ban":  "Gracz zbanowany",
		"MUTE":      "Gracz wyciszony",
		"TEMP_MUTE": "Gracz wyciszony",
		"WARN":      "Gracz ostrzeżony",
		"KICK":      "Gracz wyrzucony",
		"OTHER":     "Kara nałożona",
	}
	for kind, want := range cases {
		if got := kindTitle(kind); got != want {
			t.Errorf("kindTitle(%q) = %q, want %q", kind, got, want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("got %q", got)
	}
	if got := truncate("zażółć gęślą jaźń i jeszcze trochę", 10); got != "zażółć gę…" {
		t.Fatalf("got %q", got)
	}
}

func TestFetchAvatar(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		img := image.NewRGBA(image.Rect(0, 0, 8, 8))
		_ = png.Encode(w, img)
	}))
	defer srv.Close()

	img, err := FetchAvatar(srv.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if img.Bounds().Dx() != 8 {
		t.Fatalf("unexpected avatar size %d", img.Bounds().Dx())
	}

	srv404 := httptest.NewServer(http.NotFoundHandler())
	defer srv404.Close()
	if _, err := FetchAvatar(srv404.URL); err == nil {
		t.Fatalf("expected error on 404")
	}
}
