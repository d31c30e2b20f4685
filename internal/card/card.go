// Package card renders PNG announcement cards for member joins and
// punishments mirrored from the game servers.
package card

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"net/http"
	"strings"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	xdraw "golang.org/x/image/draw"
)

const (
	cardWidth  = 1024
	cardHeight = 400

	avatarSize = 160
)

var (
	backgroundColor = color.RGBA{R: 0x17, G: 0x18, B: 0x1E, A: 0xFF}
	panelColor      = color.RGBA{R: 0x1F, G: 0x21, B: 0x2B, A: 0xFF}
	accentColor     = color.RGBA{R: 0x8B, G: 0x5C, B: 0xF6, A: 0xFF}
	textColor       = color.RGBA{R: 0xF4, G: 0xF4, B: 0xF5, A: 0xFF}
	mutedColor      = color.RGBA{R: 0xA1, G: 0xA1, B: 0xAA, A: 0xFF}

	titleFace  font.Face
	bodyFace   font.Face
	footerFace font.Face
)

func init() {
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		panic(fmt.Sprintf("card: parse bold font: %v", err))
	}
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		panic(fmt.Sprintf("card: parse regular font: %v", err))
	}
	titleFace = mustFace(bold, 52)
	bodyFace = mustFace(regular, 32)
	footerFace = mustFace(regular, 24)
}

func mustFace(f *opentype.Font, size float64) font.Face {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		panic(fmt.Sprintf("card: build face: %v", err))
	}
	return face
}

// AvatarFetcher resolves an avatar URL into a decoded image. Tests inject a
// stub so rendering stays offline.
type AvatarFetcher func(url string) (image.Image, error)

// FetchAvatar downloads and decodes an avatar over HTTP.
func FetchAvatar(url string) (image.Image, error) {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch avatar: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch avatar: status %d", resp.StatusCode)
	}
	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode avatar: %w", err)
	}
	return img, nil
}

// Welcome renders the join card: avatar on the left, greeting and member
// number on the right.
func Welcome(avatar image.Image, username string, memberNumber int) ([]byte, error) {
	img := newCanvas()

	drawAvatar(img, avatar, image.Pt(80, (cardHeight-avatarSize)/2))

	textX := 80 + avatarSize + 60
	drawText(img, titleFace, textColor, textX, 150, "Witaj na serwerze!")
	drawText(img, bodyFace, textColor, textX, 215, truncate(username, 28))
	drawText(img, footerFace, mutedColor, textX, 275, fmt.Sprintf("Jesteś #%d członkiem CHAOSMC.ZONE", memberNumber))

	return encode(img)
}

// Punishment describes a mirrored punishment row for rendering.
type Punishment struct {
	Name     string
	Kind     string
	Reason   string
	Operator string
	Duration string
}

// PunishmentCard renders the announcement posted when the watcher picks up a
// new punishment from the game database.
func PunishmentCard(avatar image.Image, p Punishment) ([]byte, error) {
	img := newCanvas()

	drawAvatar(img, avatar, image.Pt(80, (cardHeight-avatarSize)/2))

	textX := 80 + avatarSize + 60
	drawText(img, titleFace, textColor, textX, 120, kindTitle(p.Kind))
	drawText(img, bodyFace, textColor, textX, 180, truncate(p.Name, 28))

	reason := p.Reason
	if reason == "" {
		reason = "Brak powodu"
	}
	drawText(img, footerFace, mutedColor, textX, 235, "Powód: "+truncate(reason, 48))
	drawText(img, footerFace, mutedColor, textX, 275, "Administrator: "+truncate(p.Operator, 32))
	if p.Duration != "" {
		drawText(img, footerFace, mutedColor, textX, 315, "Czas: "+p.Duration)
	}

	return encode(img)
}

func kindTitle(kind string) string {
	switch strings.ToUpper(kind) {
	case "BAN", "TEMP_BAN":
		return "Gracz zbanowany"
	case "MUTE", "TEMP_MUTE":
		return "Gracz wyciszony"
	case "WARN":
		return "Gracz ostrzeżony"
	case "KICK":
		return "Gracz wyrzucony"
	default:
		return "Kara nałożona"
	}
}

func newCanvas() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, cardWidth, cardHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, draw.Src)

	panel := image.Rect(32, 32, cardWidth-32, cardHeight-32)
	draw.Draw(img, panel, image.NewUniform(panelColor), image.Point{}, draw.Src)

	bar := image.Rect(32, 32, 44, cardHeight-32)
	draw.Draw(img, bar, image.NewUniform(accentColor), image.Point{}, draw.Src)

	return img
}

// circleMask implements image.Image as an alpha circle, used to clip avatars.
type circleMask struct {
	center image.Point
	radius int
}

func (c *circleMask) ColorModel() color.Model { return color.AlphaModel }

func (c *circleMask) Bounds() image.Rectangle {
	return image.Rect(c.center.X-c.radius, c.center.Y-c.radius, c.center.X+c.radius, c.center.Y+c.radius)
}

func (c *circleMask) At(x, y int) color.Color {
	dx := float64(x-c.center.X) + 0.5
	dy := float64(y-c.center.Y) + 0.5
	if dx*dx+dy*dy < float64(c.radius*c.radius) {
		return color.Alpha{A: 0xFF}
	}
	return color.Alpha{}
}

func drawAvatar(dst *image.RGBA, avatar image.Image, at image.Point) {
	if avatar == nil {
		avatar = image.NewUniform(accentColor)
	}

	scaled := image.NewRGBA(image.Rect(0, 0, avatarSize, avatarSize))
	if b := avatar.Bounds(); b.Dx() > 0 && b.Dy() > 0 {
		xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), avatar, b, xdraw.Src, nil)
	} else {
		draw.Draw(scaled, scaled.Bounds(), image.NewUniform(accentColor), image.Point{}, draw.Src)
	}

	target := image.Rect(at.X, at.Y, at.X+avatarSize, at.Y+avatarSize)
	mask := &circleMask{center: image.Pt(at.X+avatarSize/2, at.Y+avatarSize/2), radius: avatarSize / 2}
	draw.DrawMask(dst, target, scaled, image.Point{}, mask, target.Min, draw.Over)
}

func drawText(dst *image.RGBA, face font.Face, col color.Color, x, y int, text string) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

func encode(img *image.RGBA) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode card: %w", err)
	}
	return buf.Bytes(), nil
}
