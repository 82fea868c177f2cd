package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	statsStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Width(40)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().Width(10)

	keyHintStyle = lipgloss.NewStyle().Italic(true).MarginTop(1)
)

func (t Theme) panel() lipgloss.Style { return panelStyle.BorderForeground(t.Plane) }
func (t Theme) title() lipgloss.Style { return titleStyle.Foreground(t.Accent) }
func (t Theme) label() lipgloss.Style { return labelStyle.Foreground(t.Muted) }
func (t Theme) value() lipgloss.Style { return lipgloss.NewStyle().Foreground(t.Text) }
func (t Theme) hint() lipgloss.Style  { return keyHintStyle.Foreground(t.Muted) }

func (t Theme) status(on bool) lipgloss.Style {
	if on {
		return lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	}
	return lipgloss.NewStyle().Bold(true).Foreground(t.Warning)
}

// ChargeBar renders the orb charge as a bar of width cells.
func (t Theme) ChargeBar(charge float32, width int) string {
	filled := int(charge*float32(width) + 0.5)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return lipgloss.NewStyle().Foreground(t.orbColor(charge)).Render(bar) +
		fmt.Sprintf(" %3.0f%%", charge*100)
}

func (t Theme) row(label, value string) string {
	return t.label().Render(label) + t.value().Render(value)
}

func lerpColor(from, to lipgloss.Color, f float64) lipgloss.Color {
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	sr, sg, sb := parseHex(string(from))
	er, eg, eb := parseHex(string(to))
	r := sr + int(f*float64(er-sr))
	g := sg + int(f*float64(eg-sg))
	b := sb + int(f*float64(eb-sb))
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", clampByte(r), clampByte(g), clampByte(b)))
}

func parseHex(hex string) (r, g, b int) {
	if len(hex) != 7 || hex[0] != '#' {
		return 255, 255, 255
	}
	if _, err := fmt.Sscanf(hex, "#%2x%2x%2x", &r, &g, &b); err != nil {
		return 255, 255, 255
	}
	return r, g, b
}

func clampByte(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
