package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ProgressBar renders fraction of width as a filled bar. It turns to the
// warning and error colors as the fraction nears one, since the bar
// shows particle pool usage.
func ProgressBar(t Theme, fraction float64, width int) string {
	filled := min(width, max(0, int(fraction*float64(width))))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	col := t.Success
	switch {
	case fraction > 0.9:
		col = t.Error
	case fraction > 0.6:
		col = t.Warning
	}
	return lipgloss.NewStyle().Foreground(col).Render(bar)
}

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders the last width values scaled between their min and
// max.
func Sparkline(values []float64, width int) string {
	if width <= 0 {
		return ""
	}
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	var sb strings.Builder
	for _, v := range values {
		idx := int((v - lo) / span * float64(len(sparkChars)-1))
		sb.WriteRune(sparkChars[min(len(sparkChars)-1, max(0, idx))])
	}
	return sb.String()
}
