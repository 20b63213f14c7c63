package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/groupmotion/internal/core"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:       lipgloss.NewStyle(),
	core.ColorRed:           lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:         lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:        lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorBlue:          lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	core.ColorMagenta:       lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	core.ColorCyan:          lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorWhite:         lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorBrightRed:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorBrightGreen:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorBrightYellow:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorBrightBlue:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	core.ColorBrightMagenta: lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	core.ColorBrightCyan:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	core.ColorBrightWhite:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.ColorOrange:        lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorGray:          lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

// DrawHeatmap scales a bucket occupancy grid onto the screen. Grid row 0 is
// the bottom of the viewport and is drawn on the last screen row. Each cell
// shows the fullest bucket it covers, relative to the fullest bucket
// overall, which is returned.
func DrawHeatmap(s *core.Screen, grid [][]int) int {
	s.Clear()
	rows := len(grid)
	if rows == 0 || len(grid[0]) == 0 || s.Width() == 0 || s.Height() == 0 {
		return 0
	}
	cols := len(grid[0])

	peak := 0
	for _, row := range grid {
		for _, n := range row {
			peak = max(peak, n)
		}
	}
	if peak == 0 {
		return 0
	}

	w, h := s.Width(), s.Height()
	for y := 0; y < h; y++ {
		r0 := (h - 1 - y) * rows / h
		r1 := max(r0+1, (h-y)*rows/h)
		for x := 0; x < w; x++ {
			c0 := x * cols / w
			c1 := max(c0+1, (x+1)*cols/w)
			n := 0
			for r := r0; r < r1 && r < rows; r++ {
				for c := c0; c < c1 && c < cols; c++ {
					n = max(n, grid[r][c])
				}
			}
			cell := core.Heat(float64(n) / float64(peak))
			s.SetColored(x, y, cell.Rune, cell.Color)
		}
	}
	return peak
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// centerText pads text so it sits in the middle of width columns.
func centerText(text string, width int) string {
	if len(text) >= width {
		return text
	}
	padding := (width - len(text)) / 2
	return strings.Repeat(" ", padding) + text
}
