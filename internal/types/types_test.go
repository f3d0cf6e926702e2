package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimeRangeShift(t *testing.T) {
	tests := []struct {
		name   string
		r      TimeRange
		offset float64
		total  float64
		want   TimeRange
	}{
		{"unclamped move right", TimeRange{Start: 0, Duration: 10}, 30, 80, TimeRange{Start: 30, Duration: 10}},
		{"unclamped move left", TimeRange{Start: 30, Duration: 10}, -5, 80, TimeRange{Start: 25, Duration: 10}},
		{"snaps to left edge", TimeRange{Start: 5, Duration: 10}, -20, 80, TimeRange{Start: 0, Duration: 10}},
		{"snaps to right edge", TimeRange{Start: 60, Duration: 10}, 15, 80, TimeRange{Start: 70, Duration: 10}},
		{"zero shift repairs overflow", TimeRange{Start: 75, Duration: 10}, 0, 80, TimeRange{Start: 70, Duration: 10}},
		{"exactly at right edge", TimeRange{Start: 60, Duration: 10}, 10, 80, TimeRange{Start: 70, Duration: 10}},
		{"longer than track starts at zero", TimeRange{Start: 0, Duration: 100}, 5, 80, TimeRange{Start: 0, Duration: 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.r.Shift(tt.offset, tt.total)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeRangeShiftStaysInBounds(t *testing.T) {
	// Sweep offsets across and beyond the track for a few window sizes
	total := 80.0
	for _, duration := range []float64{0.5, 10, 42.25, 79.9} {
		r := TimeRange{Start: 12, Duration: duration}
		for offset := -200.0; offset <= 200.0; offset += 3.7 {
			got := r.Shift(offset, total)
			assert.GreaterOrEqual(t, got.Start, 0.0, "start below zero for offset %.1f", offset)
			assert.LessOrEqual(t, got.Start, total-duration+1e-9, "start past limit for offset %.1f", offset)
			assert.Equal(t, duration, got.Duration, "duration changed for offset %.1f", offset)
		}
	}
}

func TestTimeRangeEndAndContains(t *testing.T) {
	r := TimeRange{Start: 30, Duration: 10}
	assert.Equal(t, 40.0, r.End())
	assert.True(t, r.Contains(30))
	assert.True(t, r.Contains(40))
	assert.False(t, r.Contains(40.01))
	assert.False(t, r.Contains(29.99))
}

func TestSourceString(t *testing.T) {
	assert.Equal(t, "user", UserDriven.String())
	assert.Equal(t, "program", ProgramDriven.String())
}
