package editor

import (
	"fmt"

	"github.com/schollz/audiotrim/internal/model"
	"github.com/schollz/audiotrim/internal/types"
)

// Snapshot is a read-only copy of the session plus the values views derive
// from it
type Snapshot struct {
	TotalDuration float64         `json:"total_duration"`
	CurrentTime   float64         `json:"current_time"`
	KeyTimes      []float64       `json:"key_times"`
	Selection     types.TimeRange `json:"selection"`
	Playing       bool            `json:"playing"`

	KeyTimeRatios []float64 `json:"key_time_ratios"`
	StartRatio    float64   `json:"start_ratio"`
	DurationRatio float64   `json:"duration_ratio"`
	ProgressRatio float64   `json:"progress_ratio"`

	SelectedLabel string `json:"selected_label"`
	CurrentLabel  string `json:"current_label"`
	SectionLabel  string `json:"section_label"`
}

func newSnapshot(s *model.TrimState, playing bool) Snapshot {
	sel := s.SelectedRange()
	startPct := s.StartRatio() * 100
	endPct := sel.End() / s.TotalDuration() * 100
	return Snapshot{
		TotalDuration: s.TotalDuration(),
		CurrentTime:   s.CurrentTime(),
		KeyTimes:      s.KeyTimes(),
		Selection:     sel,
		Playing:       playing,
		KeyTimeRatios: s.KeyTimeRatios(),
		StartRatio:    s.StartRatio(),
		DurationRatio: s.DurationRatio(),
		ProgressRatio: s.ProgressRatio(),
		SelectedLabel: fmt.Sprintf("Selected: %s - %s", FormatTime(sel.Start), FormatTime(sel.End())),
		CurrentLabel:  fmt.Sprintf("Current: %s", FormatTime(s.CurrentTime())),
		SectionLabel:  fmt.Sprintf("Section: %s - %s", FormatPercentage(startPct), FormatPercentage(endPct)),
	}
}

// FormatTime renders seconds as m:ss, truncating fractions
func FormatTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// FormatPercentage renders a percentage with one decimal
func FormatPercentage(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}
