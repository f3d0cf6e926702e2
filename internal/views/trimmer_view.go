package views

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/schollz/audiotrim/internal/editor"
	"github.com/schollz/audiotrim/internal/model"
	"github.com/schollz/audiotrim/internal/timeline"
)

// DefaultStripHeight is the number of terminal rows used by the bars
const DefaultStripHeight = 6

const segmentsPerChar = 8

var (
	dimBarColor    = mustHex("#3a3a3a")
	brightBarColor = mustHex("#5fd7ff")
)

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// TrimFrame is everything the trim screen draws
type TrimFrame struct {
	Snapshot editor.Snapshot
	Strip    *model.Waveform
	Geometry timeline.ScrollGeometry
	Offset   float64
	Width    int
	Height   int
	Status   string
}

const trimHelp = "space: play/pause | ← →: scroll | shift+← →: fast | [ ]: nudge 1s | 1-9: key time | r: reset | s: settings | q: quit"

// RenderTrimView renders the track overview, the scrolling strip under the
// selection box and the time labels
func RenderTrimView(f TrimFrame) string {
	width := f.Width
	if width < 10 {
		width = 10
	}
	height := f.Height
	if height <= 0 {
		height = DefaultStripHeight
	}

	snap := f.Snapshot
	state := "❚❚ paused"
	if snap.Playing {
		state = "▶ playing"
	}

	return renderViewWithCommonPattern(width, "Trim", state, func(styles *ViewStyles) string {
		var content strings.Builder

		content.WriteString(renderOverview(snap, width, styles))
		content.WriteString("\n\n")

		boxLeft, boxRight := selectionColumns(f.Geometry, width)
		content.WriteString(renderBoxEdge(width, boxLeft, boxRight, styles))
		content.WriteString("\n")
		if f.Strip != nil {
			content.WriteString(renderStrip(f.Strip, f.Offset, width, height))
		}
		content.WriteString(renderPlayhead(snap.ProgressRatio, width, boxLeft, boxRight, styles))
		content.WriteString("\n")

		if f.Geometry.ContentWidth > 0 {
			start := f.Offset / f.Geometry.ContentWidth * snap.TotalDuration
			end := (f.Offset + float64(width)) / f.Geometry.ContentWidth * snap.TotalDuration
			content.WriteString(styles.Label.Render(generateTimestampRuler(width, start, end, snap.TotalDuration)))
			content.WriteString("\n")
		}
		content.WriteString("\n")

		content.WriteString(styles.Normal.Render(snap.SelectedLabel))
		content.WriteString("\n")
		content.WriteString(styles.Playback.Render(snap.CurrentLabel))
		content.WriteString("\n")
		content.WriteString(styles.Label.Render(snap.SectionLabel))
		content.WriteString("\n")
		return content.String()
	}, trimHelp, f.Status)
}

// renderOverview draws the whole track on one line: the selection span and
// the key-time markers numbered by their shortcut
func renderOverview(snap editor.Snapshot, width int, styles *ViewStyles) string {
	cells := make([]string, width)
	for i := range cells {
		cells[i] = styles.Label.Render("─")
	}

	last := float64(width - 1)
	start := clampColumn(int(snap.StartRatio*last), width)
	end := clampColumn(int((snap.StartRatio+snap.DurationRatio)*last), width)
	for c := start; c <= end; c++ {
		cells[c] = styles.Box.Render("━")
	}

	for i, r := range snap.KeyTimeRatios {
		c := clampColumn(int(math.Round(r*last)), width)
		label := "◆"
		if i < 9 {
			label = strconv.Itoa(i + 1)
		}
		cells[c] = styles.Marker.Render(label)
	}
	return strings.Join(cells, "")
}

// selectionColumns returns the first and last viewport column of the box
func selectionColumns(g timeline.ScrollGeometry, width int) (int, int) {
	left := clampColumn(int(math.Round(g.InsetLeft)), width)
	right := clampColumn(width-1-int(math.Round(g.InsetRight)), width)
	if right < left {
		right = left
	}
	return left, right
}

func renderBoxEdge(width, left, right int, styles *ViewStyles) string {
	var sb strings.Builder
	sb.WriteString(strings.Repeat(" ", left))
	edge := "┌" + strings.Repeat("─", max(0, right-left-1)) + "┐"
	if right == left {
		edge = "│"
	}
	sb.WriteString(styles.Box.Render(edge))
	sb.WriteString(strings.Repeat(" ", max(0, width-right-1)))
	return sb.String()
}

func renderPlayhead(progress float64, width, left, right int, styles *ViewStyles) string {
	p := math.Max(0, math.Min(1, progress))
	col := left + int(math.Round(p*float64(right-left)))
	col = clampColumn(col, width)
	return strings.Repeat(" ", col) + styles.Playback.Render("▲") + strings.Repeat(" ", width-col-1)
}

// renderStrip draws the visible part of the waveform with bars growing from
// the bottom row, coloured by brightness
func renderStrip(w *model.Waveform, offset float64, width, height int) string {
	virtualHeight := float64(height * segmentsPerChar)
	step := w.Layout.BarWidth + w.Layout.Gap
	first := math.Round(offset)

	// heights in segments per column, -1 for gaps
	heights := make([]int, width)
	colors := make([]lipgloss.Color, width)
	for c := 0; c < width; c++ {
		heights[c] = -1
		x := first + float64(c)
		if x < 0 || step <= 0 {
			continue
		}
		i := int(math.Floor(x / step))
		if i >= len(w.Bars) || x-w.Layout.BarX(i) >= w.Layout.BarWidth {
			continue
		}
		bar := w.Bars[i]
		h := math.Round(model.BarHeight(bar.Amplitude, virtualHeight) * bar.Scale)
		heights[c] = int(math.Min(h, virtualHeight))
		colors[c] = barColor(bar.Brightness)
	}

	var sb strings.Builder
	for y := 0; y < height; y++ {
		rowFromBottom := height - 1 - y
		for c := 0; c < width; c++ {
			if heights[c] < 0 {
				sb.WriteString(" ")
				continue
			}
			fill := heights[c] - rowFromBottom*segmentsPerChar
			char := getLowerBlockChar(fill)
			if char == " " {
				sb.WriteString(char)
				continue
			}
			sb.WriteString(lipgloss.NewStyle().Foreground(colors[c]).Render(char))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// barColor blends from dim to bright over the brightness range 0.3 to 1
func barColor(brightness float64) lipgloss.Color {
	t := math.Max(0, math.Min(1, (brightness-0.3)/0.7))
	return lipgloss.Color(dimBarColor.BlendLab(brightBarColor, t).Clamped().Hex())
}

// getLowerBlockChar returns the block character filled n eighths from the
// bottom of the cell
func getLowerBlockChar(n int) string {
	switch {
	case n <= 0:
		return " "
	case n == 1:
		return "▁"
	case n == 2:
		return "▂"
	case n == 3:
		return "▃"
	case n == 4:
		return "▄"
	case n == 5:
		return "▅"
	case n == 6:
		return "▆"
	case n == 7:
		return "▇"
	default:
		return "█"
	}
}

// generateTimestampRuler creates a tick line and m:ss labels for the visible
// window. Ticks outside the track are left out.
func generateTimestampRuler(width int, start, end, total float64) string {
	duration := end - start
	if width <= 0 || duration <= 0 {
		return ""
	}

	var interval float64
	switch {
	case duration < 10:
		interval = 1
	case duration < 60:
		interval = 5
	case duration < 300:
		interval = 30
	default:
		interval = 60
	}

	tickLine := []rune(strings.Repeat(" ", width))
	labelLine := []rune(strings.Repeat(" ", width))
	nextFree := 0

	for t := math.Ceil(math.Max(0, start)/interval) * interval; t <= math.Min(end, total); t += interval {
		pos := int(float64(width-1) * (t - start) / duration)
		if pos < 0 || pos >= width {
			continue
		}
		tickLine[pos] = '|'

		label := editor.FormatTime(t)
		startPos := pos - len(label)/2
		if startPos < 0 {
			startPos = 0
		}
		if startPos+len(label) > width {
			startPos = width - len(label)
		}
		// skip labels that would overlap the previous one
		if startPos < nextFree {
			continue
		}
		for i, ch := range label {
			if startPos+i >= 0 && startPos+i < width {
				labelLine[startPos+i] = ch
			}
		}
		nextFree = startPos + len(label) + 1
	}

	return fmt.Sprintf("%s\n%s", string(tickLine), string(labelLine))
}

func clampColumn(c, width int) int {
	if c < 0 {
		return 0
	}
	if c >= width {
		return width - 1
	}
	return c
}
