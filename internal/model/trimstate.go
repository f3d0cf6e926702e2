package model

import (
	"errors"
	"fmt"

	"github.com/schollz/audiotrim/internal/types"
)

var ErrInvalidState = errors.New("invalid trim state")

// TrimState is the single source of truth for an editing session: the track
// length, the play-head, the key-time markers and the selection window.
// It is only changed through its methods.
type TrimState struct {
	totalDuration float64
	currentTime   float64
	keyTimes      []float64
	selectedRange types.TimeRange
}

// NewTrimState builds a session state. The selection is clamped into the
// track and the current time is pulled into the selection.
func NewTrimState(totalDuration, currentTime float64, keyTimes []float64, selection types.TimeRange) (*TrimState, error) {
	if !(totalDuration > 0) {
		return nil, fmt.Errorf("%w: total duration %v must be > 0", ErrInvalidState, totalDuration)
	}
	if !(selection.Duration > 0) {
		return nil, fmt.Errorf("%w: selection duration %v must be > 0", ErrInvalidState, selection.Duration)
	}

	s := &TrimState{
		totalDuration: totalDuration,
		currentTime:   currentTime,
		keyTimes:      append([]float64(nil), keyTimes...),
		selectedRange: selection,
	}
	s.selectedRange = s.selectedRange.Shift(0, totalDuration)
	s.clampCurrentTime()
	return s, nil
}

func (s *TrimState) TotalDuration() float64 { return s.totalDuration }

func (s *TrimState) CurrentTime() float64 { return s.currentTime }

func (s *TrimState) SelectedRange() types.TimeRange { return s.selectedRange }

// KeyTimes returns a copy of the markers in display order
func (s *TrimState) KeyTimes() []float64 {
	return append([]float64(nil), s.keyTimes...)
}

// UpdateTotalDuration sets the track length. It does not reclamp the
// selection; call Reclamp afterwards when the track may have shrunk.
func (s *TrimState) UpdateTotalDuration(value float64) {
	s.totalDuration = value
}

// ShiftSelection moves the selection by offset, clamped to the track. The
// play-head moves by the distance the selection actually moved, so its
// position relative to the window is kept even when the shift was clamped.
func (s *TrimState) ShiftSelection(offset float64) {
	oldStart := s.selectedRange.Start
	newRange := s.selectedRange.Shift(offset, s.totalDuration)
	s.selectedRange = newRange
	s.currentTime += newRange.Start - oldStart
}

// ShiftTimeTo moves the selection so it starts at t
func (s *TrimState) ShiftTimeTo(t float64) {
	s.ShiftSelection(t - s.selectedRange.Start)
}

// AdvanceCurrentTime handles one playback tick. Inside the window the
// play-head moves forward; at or past the end it loops back to the start.
func (s *TrimState) AdvanceCurrentTime(interval float64) {
	if s.currentTime < s.selectedRange.End() {
		s.currentTime += interval
		return
	}
	s.currentTime = s.selectedRange.Start
}

// ResetCurrentTime jumps the play-head to the start of the selection
func (s *TrimState) ResetCurrentTime() {
	s.currentTime = s.selectedRange.Start
}

// UpdateKeyTimes replaces the markers. Values are not checked against the
// track length here.
func (s *TrimState) UpdateKeyTimes(keyTimes []float64) {
	s.keyTimes = append([]float64(nil), keyTimes...)
}

// UpdateSelectedRangeDuration resizes the selection from its current start
// and pulls the play-head back inside it.
func (s *TrimState) UpdateSelectedRangeDuration(duration float64) {
	s.selectedRange.Duration = duration
	s.clampCurrentTime()
}

// Reclamp pulls the selection back inside the track and the play-head back
// inside the selection. Used after the track length changed.
func (s *TrimState) Reclamp() {
	s.ShiftSelection(0)
	s.clampCurrentTime()
}

func (s *TrimState) clampCurrentTime() {
	if s.currentTime < s.selectedRange.Start {
		s.currentTime = s.selectedRange.Start
	} else if s.currentTime > s.selectedRange.End() {
		s.currentTime = s.selectedRange.End()
	}
}

// KeyTimeRatios returns each marker as a fraction of the track length
func (s *TrimState) KeyTimeRatios() []float64 {
	ratios := make([]float64, len(s.keyTimes))
	for i, t := range s.keyTimes {
		ratios[i] = t / s.totalDuration
	}
	return ratios
}

// DurationRatio is the selection length as a fraction of the track
func (s *TrimState) DurationRatio() float64 {
	return s.selectedRange.Duration / s.totalDuration
}

// StartRatio is the selection start as a fraction of the track
func (s *TrimState) StartRatio() float64 {
	return s.selectedRange.Start / s.totalDuration
}

// ProgressRatio is how far the play-head is through the selection. It is not
// clamped; it can leave [0, 1] while the play-head is transiently outside
// the window.
func (s *TrimState) ProgressRatio() float64 {
	return (s.currentTime - s.selectedRange.Start) / s.selectedRange.Duration
}
