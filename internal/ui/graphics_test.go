package ui

import (
	"image"
	"image/color"
	"strings"
	"testing"
)

func TestDetectTerminalCapabilities(t *testing.T) {
	cases := []struct {
		noColor, colorTerm, term string
		want                     bool
	}{
		{"", "", "xterm-256color", true},
		{"", "", "dumb", false},
		{"", "", "", false},
		{"", "truecolor", "", true},
		{"1", "truecolor", "xterm-256color", false},
	}
	for _, c := range cases {
		t.Setenv("NO_COLOR", c.noColor)
		t.Setenv("COLORTERM", c.colorTerm)
		t.Setenv("TERM", c.term)
		if got := DetectTerminalCapabilities().Color; got != c.want {
			t.Errorf("NO_COLOR=%q COLORTERM=%q TERM=%q: Color = %v, want %v",
				c.noColor, c.colorTerm, c.term, got, c.want)
		}
	}
}

func TestRenderAvatarSize(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 8), G: uint8(y * 8), B: 128, A: 255})
		}
	}

	art := RenderAvatar(img, TerminalCapabilities{}, avatarWidth, avatarHeight)
	if art == "" {
		t.Fatal("empty avatar")
	}
	if got := len(strings.Split(art, "\n")); got != avatarHeight {
		t.Errorf("avatar has %d lines, want %d", got, avatarHeight)
	}
	if strings.Contains(art, "\x1b[") {
		t.Error("colorless terminal got escape sequences")
	}
}
