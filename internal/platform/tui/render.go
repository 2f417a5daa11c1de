package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/frontline/internal/core"
)

// styleFor returns the lipgloss style for a cell color.
func styleFor(c core.Color) lipgloss.Style {
	code := c.ANSI()
	if code == "" {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(code))
}

// RenderScreen draws a logical screen into a w x h cell window, magnified
// by the game-to-renderer scale sx, sy. Window cell (x, y) shows logical
// cell (x/sx, y/sy). Adjacent cells with the same color are
// grouped to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen, w, h int, sx, sy float32) string {
	if sx <= 0 || sy <= 0 {
		sx, sy = 1, 1
	}
	var sb strings.Builder
	sb.Grow(w*h*2 + h)

	for y := range h {
		if y > 0 {
			sb.WriteRune('\n')
		}
		ly := int(float32(y) / sy)

		x := 0
		for x < w {
			startColor := s.GetCell(int(float32(x)/sx), ly).Color

			var run strings.Builder
			for x < w {
				cell := s.GetCell(int(float32(x)/sx), ly)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			sb.WriteString(styleFor(startColor).Render(run.String()))
		}
	}
	return sb.String()
}
