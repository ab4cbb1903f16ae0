package ui

import (
	"image"
	"os"
	"strings"

	"github.com/qeesung/image2ascii/convert"
)

// Avatar size in terminal cells.
const (
	avatarWidth  = 10
	avatarHeight = 4
)

// TerminalCapabilities describes what the terminal can render.
type TerminalCapabilities struct {
	Color bool
}

// DetectTerminalCapabilities inspects the environment for color support.
func DetectTerminalCapabilities() TerminalCapabilities {
	if os.Getenv("NO_COLOR") != "" {
		return TerminalCapabilities{}
	}
	if os.Getenv("COLORTERM") != "" {
		return TerminalCapabilities{Color: true}
	}
	term := os.Getenv("TERM")
	return TerminalCapabilities{
		Color: term != "" && term != "dumb",
	}
}

// RenderAvatar converts a profile photo to ASCII art sized for the user bar.
// Color escapes are only emitted when the terminal supports them.
func RenderAvatar(img image.Image, caps TerminalCapabilities, width, height int) string {
	converter := convert.NewImageConverter()

	opts := convert.DefaultOptions
	opts.FixedWidth = width
	opts.FixedHeight = height
	opts.Colored = caps.Color
	opts.Ratio = 0.5
	opts.FitScreen = false

	return strings.TrimRight(converter.Image2ASCIIString(img, &opts), "\n")
}
