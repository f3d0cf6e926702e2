package model

import (
	"math"
	"math/rand/v2"
)

// Waveform bar layout and highlight state. The bars are decorative: their
// amplitudes are seeded noise, not decoded audio.

const (
	minHeightRatio = 0.3
	maxHeightRatio = 0.6
)

// BarLayout is the size of one bar and the gap after it, in content units
type BarLayout struct {
	BarWidth float64
	Gap      float64
}

// TerminalLayout draws one column per bar with one blank column between bars
var TerminalLayout = BarLayout{BarWidth: 1, Gap: 1}

// BarCount returns how many bars fit in width
func (l BarLayout) BarCount(width float64) int {
	n := int((width - l.BarWidth) / (l.BarWidth + l.Gap))
	if n < 0 {
		return 0
	}
	return n
}

// Width returns the content width taken by count bars
func (l BarLayout) Width(count int) float64 {
	return float64(count+1)*l.BarWidth + float64(count)*l.Gap
}

// BarX returns the left edge of bar i
func (l BarLayout) BarX(i int) float64 {
	return float64(i) * (l.BarWidth + l.Gap)
}

// BarHeight maps an amplitude in [0, 1] to a height inside containerHeight
func BarHeight(amplitude, containerHeight float64) float64 {
	ratio := minHeightRatio + (maxHeightRatio-minHeightRatio)*amplitude
	return containerHeight * ratio
}

// BarState is one bar of the waveform strip
type BarState struct {
	Amplitude  float64 // 0-1
	Scale      float64
	Brightness float64 // 0-1
}

// Frame is a horizontal span in content units
type Frame struct {
	X     float64
	Width float64
}

func (f Frame) MidX() float64 { return f.X + f.Width/2 }

func (f Frame) intersectWidth(o Frame) float64 {
	left := math.Max(f.X, o.X)
	right := math.Min(f.X+f.Width, o.X+o.Width)
	return math.Max(0, right-left)
}

// Waveform holds the bars for the scrolling strip under the selection
type Waveform struct {
	Bars   []BarState
	Layout BarLayout
	rng    *rand.Rand
}

// NewWaveform creates count bars with amplitudes drawn from seed
func NewWaveform(count int, layout BarLayout, seed uint64) *Waveform {
	w := &Waveform{
		Layout: layout,
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
	w.AdjustBarCount(count)
	return w
}

// AdjustBarCount grows the strip with new random bars or truncates it
func (w *Waveform) AdjustBarCount(target int) {
	if target < 0 {
		target = 0
	}
	current := len(w.Bars)
	if target > current {
		for i := current; i < target; i++ {
			w.Bars = append(w.Bars, BarState{Amplitude: w.rng.Float64(), Scale: 1, Brightness: 1})
		}
	} else if target < current {
		w.Bars = w.Bars[:target]
	}
}

// ContentWidth is the width of the whole strip
func (w *Waveform) ContentWidth() float64 {
	return w.Layout.Width(len(w.Bars))
}

// Highlight recomputes brightness and scale of each bar against the
// selected frame. Bars covered by the selection are brightest; bars near the
// selection centre are scaled up.
func (w *Waveform) Highlight(selected Frame) {
	maxDistance := selected.Width / 2
	for i := range w.Bars {
		bar := Frame{X: w.Layout.BarX(i), Width: w.Layout.BarWidth}

		overlapRatio := 0.0
		if bar.Width > 0 {
			overlapRatio = bar.intersectWidth(selected) / bar.Width
		}
		w.Bars[i].Brightness = 0.3 + 0.7*overlapRatio

		normalized := 0.0
		if maxDistance > 0 {
			distance := math.Abs(bar.MidX() - selected.MidX())
			normalized = math.Max(0, 1-distance/maxDistance)
		}
		w.Bars[i].Scale = 1 + 0.4*normalized
	}
}

// SelectionFrame places a selection starting at startRatio with widthRatio
// of the strip, both as fractions of the track
func (w *Waveform) SelectionFrame(startRatio, widthRatio float64) Frame {
	content := w.ContentWidth()
	return Frame{X: startRatio * content, Width: widthRatio * content}
}
