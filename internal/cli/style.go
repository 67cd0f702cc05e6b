package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habyss/internal/models"
)

var (
	TitleStyle   = lipgloss.NewStyle().Bold(true)
	MutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	WarnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Habit color tokens mapped to terminal colors.
var habitColors = map[string]lipgloss.Color{
	"red":    lipgloss.Color("203"),
	"orange": lipgloss.Color("208"),
	"yellow": lipgloss.Color("220"),
	"green":  lipgloss.Color("42"),
	"teal":   lipgloss.Color("37"),
	"blue":   lipgloss.Color("39"),
	"purple": lipgloss.Color("141"),
	"pink":   lipgloss.Color("211"),
	"gray":   lipgloss.Color("245"),
}

// HabitColor returns the terminal color of a habit color token. Hex values
// pass through; unknown tokens fall back to no color.
func HabitColor(token string) lipgloss.TerminalColor {
	if strings.HasPrefix(token, "#") {
		return lipgloss.Color(token)
	}
	if c, ok := habitColors[strings.ToLower(token)]; ok {
		return c
	}
	return lipgloss.NoColor{}
}

// HabitLabel renders a habit name in its color, prefixed with its icon.
func HabitLabel(h models.Habit) string {
	name := lipgloss.NewStyle().Foreground(HabitColor(h.Color)).Render(h.Name)
	if h.Icon != "" {
		return h.Icon + " " + name
	}
	return name
}

// Check renders a completion checkbox.
func Check(done bool) string {
	if done {
		return SuccessStyle.Render("[x]")
	}
	return "[ ]"
}

// Percent renders a percentage colored by how close it is to 100.
func Percent(p int) string {
	s := fmt.Sprintf("%3d%%", p)
	switch {
	case p >= 80:
		return SuccessStyle.Render(s)
	case p >= 50:
		return WarnStyle.Render(s)
	default:
		return ErrorStyle.Render(s)
	}
}

// Bar renders a fixed-width progress bar.
func Bar(p, width int) string {
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	filled := p * width / 100
	return SuccessStyle.Render(strings.Repeat("█", filled)) + MutedStyle.Render(strings.Repeat("░", width-filled))
}
