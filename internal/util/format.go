package util

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"tesoura/internal/model"
)

// DateLayoutBR is the day/month/year layout used by the local scheduler.
const DateLayoutBR = "02/01/2006"

// FormatDate formats a date for display, or "—" when unset.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Format("Jan 02, 2006")
}

// FormatDueHuman formats an upcoming date relative to now.
// "Today", "Tomorrow", "in 3d", "2d ago", "Jan 15", "Jan 15 '31"
func FormatDueHuman(t time.Time, now time.Time) string {
	if t.IsZero() {
		return "—"
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	days := int(day.Sub(today).Hours() / 24)

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days > 1 && days < 7:
		return fmt.Sprintf("in %dd", days)
	case days < 0 && days > -7:
		return fmt.Sprintf("%dd ago", -days)
	case t.Year() == now.Year():
		return t.Format("Jan 02")
	default:
		return t.Format("Jan 02 '06")
	}
}

// FormatRatingWithStar formats a rating as "4.5 ★ (12)".
func FormatRatingWithStar(rating float64, count int) string {
	s := formatRatingNumber(rating) + " ★"
	if count > 0 {
		s += fmt.Sprintf(" (%d)", count)
	}
	return s
}

// FormatRatingStars formats a 0-5 rating as stars (e.g., "★★★★☆").
func FormatRatingStars(rating float64) string {
	stars := int(math.Round(rating))
	if stars < 0 {
		stars = 0
	}
	if stars > 5 {
		stars = 5
	}
	return strings.Repeat("★", stars) + strings.Repeat("☆", 5-stars)
}

// FormatAddress joins the non-empty parts of an address:
// "Rua A, Recife - PE, 50000-000".
func FormatAddress(a model.Address) string {
	var parts []string
	if a.Street != "" {
		parts = append(parts, a.Street)
	}
	switch {
	case a.City != "" && a.State != "":
		parts = append(parts, a.City+" - "+a.State)
	case a.City != "":
		parts = append(parts, a.City)
	case a.State != "":
		parts = append(parts, a.State)
	}
	if a.Zip != "" {
		parts = append(parts, a.Zip)
	}
	if len(parts) == 0 {
		return "—"
	}
	return strings.Join(parts, ", ")
}

// FormatStatus renders a booking status for display.
func FormatStatus(s model.BookingStatus) string {
	switch s {
	case model.StatusActive:
		return "Active"
	case model.StatusLate:
		return "Late"
	case model.StatusCanceled:
		return "Canceled"
	case model.StatusFreeTrial:
		return "Free trial"
	case model.StatusPaused:
		return "Paused"
	case "":
		return "—"
	}
	return string(s)
}

// TodayBR returns today's date as DD/MM/YYYY.
func TodayBR() string {
	return time.Now().Format(DateLayoutBR)
}

func formatRatingNumber(v float64) string {
	// Keep one decimal at most, but avoid trailing .0 for whole values.
	s := strconv.FormatFloat(v, 'f', 1, 64)
	s = strings.TrimSuffix(s, ".0")
	return s
}

// TruncateString truncates a string to maxLen and adds "..." if needed.
func TruncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen < 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
