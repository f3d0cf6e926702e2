package settings

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrInvalidTotalDuration      = errors.New("total duration must be greater than 0")
	ErrInvalidKeyTimePercentage  = errors.New("key time percentage must be between 0 and 100")
	ErrInvalidTimelinePercentage = errors.New("timeline percentage must be greater than 0 and at most 100")
	ErrEmptyField                = errors.New("field must not be empty")
)

// Snapshot is the settings screen's view of a session. Key times and the
// selection length are percentages of TotalDuration.
type Snapshot struct {
	TotalDuration            float64   `json:"total_duration"`
	KeyTimePercentages       []float64 `json:"key_time_percentages"`
	TimelineLengthPercentage *float64  `json:"timeline_length_percentage,omitempty"`
}

// Values is a Snapshot converted back to seconds. SelectionDuration is nil
// when the snapshot did not carry a timeline percentage.
type Values struct {
	TotalDuration     float64
	KeyTimes          []float64
	SelectionDuration *float64
}

// FromState converts absolute session values to percentages
func FromState(totalDuration float64, keyTimes []float64, selectionDuration float64) Snapshot {
	keys := make([]float64, len(keyTimes))
	for i, t := range keyTimes {
		keys[i] = t / totalDuration * 100
	}
	timeline := selectionDuration / totalDuration * 100
	return Snapshot{
		TotalDuration:            totalDuration,
		KeyTimePercentages:       keys,
		TimelineLengthPercentage: &timeline,
	}
}

// Values converts percentages back to seconds
func (s Snapshot) Values() Values {
	keys := make([]float64, len(s.KeyTimePercentages))
	for i, p := range s.KeyTimePercentages {
		keys[i] = p / 100 * s.TotalDuration
	}
	v := Values{TotalDuration: s.TotalDuration, KeyTimes: keys}
	if s.TimelineLengthPercentage != nil {
		d := *s.TimelineLengthPercentage / 100 * s.TotalDuration
		v.SelectionDuration = &d
	}
	return v
}

// Validate checks every field and returns the first failure. Comparisons are
// written so NaN fails them all.
func (s Snapshot) Validate() error {
	if !(s.TotalDuration > 0) || math.IsInf(s.TotalDuration, 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidTotalDuration, s.TotalDuration)
	}
	for i, p := range s.KeyTimePercentages {
		if !(p >= 0 && p <= 100) {
			return fmt.Errorf("%w: key time %d is %v", ErrInvalidKeyTimePercentage, i+1, p)
		}
	}
	if s.TimelineLengthPercentage != nil {
		p := *s.TimelineLengthPercentage
		if !(p > 0 && p <= 100) {
			return fmt.Errorf("%w: got %v", ErrInvalidTimelinePercentage, p)
		}
	}
	return nil
}

// ParseForm reads the settings screen's text fields. The timeline field is
// optional; every other field is required.
func ParseForm(totalText string, keyTimeTexts []string, timelineText string) (Snapshot, error) {
	var snap Snapshot

	total, ok := parseNumber(totalText)
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: %q", ErrInvalidTotalDuration, totalText)
	}
	snap.TotalDuration = total

	snap.KeyTimePercentages = make([]float64, 0, len(keyTimeTexts))
	for i, text := range keyTimeTexts {
		if strings.TrimSpace(text) == "" {
			return Snapshot{}, fmt.Errorf("%w: key time %d", ErrEmptyField, i+1)
		}
		p, ok := parseNumber(text)
		if !ok {
			return Snapshot{}, fmt.Errorf("%w: key time %d is %q", ErrInvalidKeyTimePercentage, i+1, text)
		}
		snap.KeyTimePercentages = append(snap.KeyTimePercentages, p)
	}

	if strings.TrimSpace(timelineText) != "" {
		p, ok := parseNumber(timelineText)
		if !ok {
			return Snapshot{}, fmt.Errorf("%w: %q", ErrInvalidTimelinePercentage, timelineText)
		}
		snap.TimelineLengthPercentage = &p
	}

	return snap, snap.Validate()
}

// Format renders a value for a form field with one decimal
func Format(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func parseNumber(text string) (float64, bool) {
	text = strings.TrimSpace(strings.ReplaceAll(text, ",", "."))
	if text == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
