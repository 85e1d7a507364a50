// Package ui provides lipgloss styles for terminal output.
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/desertthunder/moodfm/internal/mood"
)

// Styles is the default palette used by CLI commands.
var Styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
	}
}

func (p *Palette) Title(s string) string { return p.title.Render(s) }
func (p *Palette) OK(s string) string    { return p.ok.Render(s) }
func (p *Palette) Err(s string) string   { return p.err.Render(s) }
func (p *Palette) Warn(s string) string  { return p.warn.Render(s) }
func (p *Palette) Help(s string) string  { return p.help.Render(s) }

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// moodColors maps each mood to a display color.
var moodColors = map[mood.Label]string{
	mood.Happy:     "#FFD700",
	mood.Energetic: "#FF4500",
	mood.Chill:     "#20B2AA",
	mood.Sad:       "#6495ED",
	mood.Calm:      "#98FB98",
}

// MoodBadge renders a mood's display name in its color.
func MoodBadge(label mood.Label) string {
	color, ok := moodColors[label]
	if !ok {
		color = "#626262"
	}
	profile, err := mood.ProfileFor(label)
	name := string(label)
	if err == nil {
		name = profile.DisplayName
	}
	return NewBold(color).Render(name)
}
