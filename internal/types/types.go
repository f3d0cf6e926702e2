package types

// ViewMode selects which screen the program renders
type ViewMode int

const (
	TrimView ViewMode = iota
	SettingsView
)

// Source tags where a position change came from. Views only reposition the
// scrolling waveform for ProgramDriven changes; UserDriven changes already
// reflect the user's scroll position.
type Source int

const (
	ProgramDriven Source = iota
	UserDriven
)

func (s Source) String() string {
	if s == UserDriven {
		return "user"
	}
	return "program"
}

// TimeRange is the selection window on the track, in seconds
type TimeRange struct {
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// End returns Start + Duration
func (r TimeRange) End() float64 {
	return r.Start + r.Duration
}

// Shift moves the range by offset and clamps it so it never crosses either
// track boundary. Duration is kept as is. The start edge is checked first, so
// a range longer than the track ends up starting at 0.
func (r TimeRange) Shift(offset, totalDuration float64) TimeRange {
	newStart := r.Start + offset
	newEnd := r.End() + offset

	if newStart < 0 {
		return TimeRange{Start: 0, Duration: r.Duration}
	}
	if newEnd > totalDuration {
		start := totalDuration - r.Duration
		if start < 0 {
			start = 0
		}
		return TimeRange{Start: start, Duration: r.Duration}
	}
	return TimeRange{Start: newStart, Duration: r.Duration}
}

// Contains reports whether t lies inside [Start, End]
func (r TimeRange) Contains(t float64) bool {
	return t >= r.Start && t <= r.End()
}
