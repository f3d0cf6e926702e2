package editor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schollz/audiotrim/internal/model"
	"github.com/schollz/audiotrim/internal/playback"
	"github.com/schollz/audiotrim/internal/settings"
	"github.com/schollz/audiotrim/internal/timeline"
	"github.com/schollz/audiotrim/internal/types"
)

func newTestController(t *testing.T, interval time.Duration) (*Controller, *playback.ManualClock) {
	t.Helper()
	state, err := model.NewTrimState(80, 0, []float64{10, 30, 50, 60, 75}, types.TimeRange{Start: 0, Duration: 10})
	require.NoError(t, err)
	clock := playback.NewManualClock(interval)
	return New(state, clock), clock
}

func ptr(v float64) *float64 { return &v }

func TestSelectKeyTimeThenPlay(t *testing.T) {
	c, clock := newTestController(t, 5*time.Second)

	require.True(t, c.SelectKeyTime(1))
	snap := c.Snapshot()
	assert.Equal(t, types.TimeRange{Start: 30, Duration: 10}, snap.Selection)
	assert.Equal(t, 30.0, snap.CurrentTime)

	c.TogglePlayPause()
	require.True(t, c.IsPlaying())
	clock.Advance(2)
	assert.Equal(t, 40.0, c.Snapshot().CurrentTime)

	clock.Advance(1)
	assert.Equal(t, 30.0, c.Snapshot().CurrentTime, "loops back at the end")

	t.Run("unknown index does nothing", func(t *testing.T) {
		assert.False(t, c.SelectKeyTime(5))
		assert.False(t, c.SelectKeyTime(-1))
		assert.Equal(t, 30.0, c.Snapshot().Selection.Start)
	})
}

func TestPlayPauseDrivesClock(t *testing.T) {
	c, clock := newTestController(t, time.Second)

	c.Play()
	assert.True(t, clock.IsRunning())
	c.Play()
	assert.True(t, c.IsPlaying(), "Play while playing is a no-op")

	c.Pause()
	assert.False(t, clock.IsRunning())
	assert.False(t, c.IsPlaying())

	before := c.Snapshot().CurrentTime
	clock.Advance(3)
	assert.Equal(t, before, c.Snapshot().CurrentTime, "paused clock does not move the play-head")
}

func TestResetToStartKeepsPlayState(t *testing.T) {
	c, clock := newTestController(t, time.Second)
	c.ShiftTimeTo(50)
	c.Play()
	clock.Advance(4)
	require.Equal(t, 54.0, c.Snapshot().CurrentTime)

	c.ResetToStart()
	assert.Equal(t, 50.0, c.Snapshot().CurrentTime)
	assert.True(t, c.IsPlaying())
}

func TestShiftBy(t *testing.T) {
	c, _ := newTestController(t, time.Second)
	c.ShiftBy(75)
	assert.Equal(t, 70.0, c.Snapshot().Selection.Start, "clamped at the end of the track")
	c.ShiftBy(-1)
	assert.Equal(t, 69.0, c.Snapshot().Selection.Start)
}

func TestSubscribe(t *testing.T) {
	c, clock := newTestController(t, time.Second)

	var order []string
	var changes []Change
	unsubA := c.Subscribe(func(ch Change) {
		order = append(order, "a")
		changes = append(changes, ch)
	})
	c.Subscribe(func(Change) { order = append(order, "b") })

	c.ShiftTimeTo(30)
	assert.Equal(t, []string{"a", "b"}, order)
	require.Len(t, changes, 1)
	assert.Equal(t, KindPosition, changes[0].Kind)
	assert.Equal(t, types.ProgramDriven, changes[0].Source)
	assert.Equal(t, 30.0, changes[0].Snapshot.Selection.Start)

	c.Play()
	clock.Tick()
	require.Len(t, changes, 3)
	assert.Equal(t, KindPlayback, changes[1].Kind)
	assert.Equal(t, KindTick, changes[2].Kind)

	unsubA()
	c.Pause()
	assert.Len(t, changes, 3, "unsubscribed observer gets nothing")
	assert.Equal(t, []string{"a", "b", "a", "b", "a", "b", "b"}, order)
}

func TestUnsubscribeDuringNotify(t *testing.T) {
	c, _ := newTestController(t, time.Second)
	calls := 0
	var unsub func()
	unsub = c.Subscribe(func(Change) {
		calls++
		unsub()
	})
	got := 0
	c.Subscribe(func(Change) { got++ })

	c.ResetToStart()
	c.ResetToStart()
	assert.Equal(t, 1, calls)
	assert.Equal(t, 2, got)
}

func TestScrollTo(t *testing.T) {
	c, _ := newTestController(t, time.Second)
	geom := timeline.CenteredGeometry(160, 60, 80, 10) // 2 columns per second

	var last Change
	c.Subscribe(func(ch Change) { last = ch })

	require.True(t, c.ScrollTo(40, geom))
	// offset 40 + inset 20 = 60 columns = 30 seconds
	assert.InDelta(t, 30.0, c.Snapshot().Selection.Start, 1e-9)
	assert.Equal(t, types.UserDriven, last.Source)

	offset, ok := c.ScrollOffset(geom)
	require.True(t, ok)
	assert.InDelta(t, 40.0, offset, 1e-9)

	t.Run("offsets past the end are clamped", func(t *testing.T) {
		require.True(t, c.ScrollTo(1000, geom))
		assert.InDelta(t, 70.0, c.Snapshot().Selection.Start, 1e-9)
	})

	t.Run("not applicable geometry is skipped", func(t *testing.T) {
		flat := timeline.ScrollGeometry{ContentWidth: 10, ViewportWidth: 60}
		assert.False(t, c.ScrollTo(5, flat))
		_, ok := c.ScrollOffset(flat)
		assert.False(t, ok)
	})
}

func TestCurrentSettings(t *testing.T) {
	c, _ := newTestController(t, time.Second)
	snap := c.CurrentSettings()
	assert.Equal(t, 80.0, snap.TotalDuration)
	assert.Equal(t, []float64{12.5, 37.5, 62.5, 75, 93.75}, snap.KeyTimePercentages)
	require.NotNil(t, snap.TimelineLengthPercentage)
	assert.Equal(t, 12.5, *snap.TimelineLengthPercentage)
}

func TestApplySettings(t *testing.T) {
	t.Run("invalid settings leave the state unchanged", func(t *testing.T) {
		c, _ := newTestController(t, time.Second)
		c.ShiftTimeTo(30)
		before := c.Snapshot()
		notified := false
		c.Subscribe(func(Change) { notified = true })

		_, err := c.ApplySettings(settings.Snapshot{TotalDuration: 0})
		assert.ErrorIs(t, err, settings.ErrInvalidTotalDuration)

		_, err = c.ApplySettings(settings.Snapshot{TotalDuration: 80, KeyTimePercentages: []float64{120}})
		assert.ErrorIs(t, err, settings.ErrInvalidKeyTimePercentage)

		_, err = c.ApplySettings(settings.Snapshot{TotalDuration: 80, TimelineLengthPercentage: ptr(0)})
		assert.ErrorIs(t, err, settings.ErrInvalidTimelinePercentage)

		assert.Equal(t, before, c.Snapshot())
		assert.False(t, notified)
	})

	t.Run("unchanged settings report no geometry change", func(t *testing.T) {
		c, _ := newTestController(t, time.Second)
		changed, err := c.ApplySettings(c.CurrentSettings())
		require.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, []float64{10, 30, 50, 60, 75}, c.Snapshot().KeyTimes)
	})

	t.Run("new selection length", func(t *testing.T) {
		c, _ := newTestController(t, time.Second)
		var last Change
		c.Subscribe(func(ch Change) { last = ch })

		changed, err := c.ApplySettings(settings.Snapshot{
			TotalDuration:            80,
			KeyTimePercentages:       []float64{50},
			TimelineLengthPercentage: ptr(25),
		})
		require.NoError(t, err)
		assert.True(t, changed)
		assert.True(t, last.GeometryChanged)
		assert.Equal(t, KindSettings, last.Kind)
		assert.Equal(t, 20.0, c.Snapshot().Selection.Duration)
		assert.Equal(t, []float64{40}, c.Snapshot().KeyTimes)
	})

	t.Run("shrinking the track reclamps the selection", func(t *testing.T) {
		c, _ := newTestController(t, time.Second)
		c.ShiftTimeTo(60)

		changed, err := c.ApplySettings(settings.Snapshot{TotalDuration: 50})
		require.NoError(t, err)
		assert.True(t, changed)
		snap := c.Snapshot()
		assert.Equal(t, 40.0, snap.Selection.Start)
		assert.LessOrEqual(t, snap.Selection.End(), snap.TotalDuration)
		assert.True(t, snap.Selection.Contains(snap.CurrentTime))
	})
}
