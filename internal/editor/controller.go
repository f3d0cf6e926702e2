package editor

import (
	"github.com/schollz/audiotrim/internal/model"
	"github.com/schollz/audiotrim/internal/playback"
	"github.com/schollz/audiotrim/internal/settings"
	"github.com/schollz/audiotrim/internal/timeline"
	"github.com/schollz/audiotrim/internal/types"
	"go.uber.org/zap"
)

// Kind says what kind of operation produced a Change
type Kind int

const (
	KindPosition Kind = iota
	KindPlayback
	KindTick
	KindSettings
)

func (k Kind) String() string {
	switch k {
	case KindPosition:
		return "position"
	case KindPlayback:
		return "playback"
	case KindTick:
		return "tick"
	case KindSettings:
		return "settings"
	}
	return "unknown"
}

// Change is sent to every subscriber after each mutation
type Change struct {
	Snapshot Snapshot
	Kind     Kind
	Source   types.Source
	// GeometryChanged is set when the track or selection length changed and
	// anything laid out from them must be rebuilt
	GeometryChanged bool
}

type subscriber struct {
	id int
	fn func(Change)
}

// Controller owns the session state and the playback clock. It is not safe
// for concurrent use; everything runs on the program's update loop.
type Controller struct {
	state       *model.TrimState
	clock       playback.Clock
	playing     bool
	subscribers []subscriber
	nextID      int
	logger      *zap.Logger
}

type Option func(*Controller)

func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New wires a controller to state and clock. The clock's ticks advance the
// play-head while playing.
func New(state *model.TrimState, clock playback.Clock, opts ...Option) *Controller {
	c := &Controller{
		state:  state,
		clock:  clock,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	clock.OnTick(c.tick)
	return c
}

// Subscribe registers fn for every future change. Subscribers are called in
// registration order. The returned func removes the subscription.
func (c *Controller) Subscribe(fn func(Change)) (unsubscribe func()) {
	id := c.nextID
	c.nextID++
	c.subscribers = append(c.subscribers, subscriber{id: id, fn: fn})
	return func() {
		for i, s := range c.subscribers {
			if s.id == id {
				c.subscribers = append(c.subscribers[:i:i], c.subscribers[i+1:]...)
				return
			}
		}
	}
}

func (c *Controller) emit(kind Kind, source types.Source, geometryChanged bool) {
	change := Change{
		Snapshot:        c.Snapshot(),
		Kind:            kind,
		Source:          source,
		GeometryChanged: geometryChanged,
	}
	subs := append([]subscriber(nil), c.subscribers...)
	for _, s := range subs {
		s.fn(change)
	}
}

func (c *Controller) Snapshot() Snapshot {
	return newSnapshot(c.state, c.playing)
}

func (c *Controller) IsPlaying() bool { return c.playing }

// ShiftTimeTo moves the selection to start at t
func (c *Controller) ShiftTimeTo(t float64) {
	c.state.ShiftTimeTo(t)
	c.logger.Debug("shift to", zap.Float64("time", t), zap.Float64("start", c.state.SelectedRange().Start))
	c.emit(KindPosition, types.ProgramDriven, false)
}

// SelectKeyTime jumps to key time i. It reports false for an unknown index.
func (c *Controller) SelectKeyTime(i int) bool {
	keys := c.state.KeyTimes()
	if i < 0 || i >= len(keys) {
		c.logger.Debug("key time out of range", zap.Int("index", i), zap.Int("count", len(keys)))
		return false
	}
	c.ShiftTimeTo(keys[i])
	return true
}

// ShiftBy nudges the selection by delta seconds
func (c *Controller) ShiftBy(delta float64) {
	c.state.ShiftSelection(delta)
	c.emit(KindPosition, types.ProgramDriven, false)
}

// ScrollTo handles a user drag of the waveform strip to offset. It reports
// false when the geometry has nothing to map.
func (c *Controller) ScrollTo(offset float64, geom timeline.ScrollGeometry) bool {
	mapper, ok := c.mapper(geom)
	if !ok {
		return false
	}
	c.state.ShiftTimeTo(mapper.OffsetToTime(mapper.ClampOffset(offset)))
	c.emit(KindPosition, types.UserDriven, false)
	return true
}

// ScrollOffset is where the strip should sit for the current selection
func (c *Controller) ScrollOffset(geom timeline.ScrollGeometry) (float64, bool) {
	mapper, ok := c.mapper(geom)
	if !ok {
		return 0, false
	}
	return mapper.TimeToOffset(c.state.SelectedRange().Start), true
}

func (c *Controller) mapper(geom timeline.ScrollGeometry) (timeline.ScrollMapper, bool) {
	return timeline.NewScrollMapper(geom, c.state.TotalDuration(), c.state.SelectedRange().Duration)
}

func (c *Controller) TogglePlayPause() {
	if c.playing {
		c.Pause()
	} else {
		c.Play()
	}
}

func (c *Controller) Play() {
	if c.playing {
		return
	}
	c.playing = true
	c.clock.Start()
	c.logger.Debug("play", zap.Float64("current", c.state.CurrentTime()))
	c.emit(KindPlayback, types.ProgramDriven, false)
}

func (c *Controller) Pause() {
	if !c.playing {
		return
	}
	c.playing = false
	c.clock.Stop()
	c.logger.Debug("pause", zap.Float64("current", c.state.CurrentTime()))
	c.emit(KindPlayback, types.ProgramDriven, false)
}

// ResetToStart moves the play-head to the selection start. Play state is kept.
func (c *Controller) ResetToStart() {
	c.state.ResetCurrentTime()
	c.emit(KindPosition, types.ProgramDriven, false)
}

func (c *Controller) tick(elapsed float64) {
	if !c.playing {
		return
	}
	c.state.AdvanceCurrentTime(elapsed)
	c.emit(KindTick, types.ProgramDriven, false)
}

// CurrentSettings returns the session as percentages for the settings form
func (c *Controller) CurrentSettings() settings.Snapshot {
	return settings.FromState(c.state.TotalDuration(), c.state.KeyTimes(), c.state.SelectedRange().Duration)
}

// ApplySettings validates snap and, only if it is valid, applies it. The
// selection is pulled back inside the track when the track shrank.
func (c *Controller) ApplySettings(snap settings.Snapshot) (geometryChanged bool, err error) {
	if err := snap.Validate(); err != nil {
		c.logger.Debug("settings rejected", zap.Error(err))
		return false, err
	}

	oldTotal := c.state.TotalDuration()
	oldDuration := c.state.SelectedRange().Duration

	v := snap.Values()
	c.state.UpdateTotalDuration(v.TotalDuration)
	c.state.UpdateKeyTimes(v.KeyTimes)
	if v.SelectionDuration != nil {
		c.state.UpdateSelectedRangeDuration(*v.SelectionDuration)
	}
	c.state.Reclamp()

	geometryChanged = oldTotal != c.state.TotalDuration() || oldDuration != c.state.SelectedRange().Duration
	c.logger.Info("settings applied",
		zap.Float64("total", v.TotalDuration),
		zap.Int("keys", len(v.KeyTimes)),
		zap.Float64("selection", c.state.SelectedRange().Duration),
		zap.Bool("geometryChanged", geometryChanged))
	c.emit(KindSettings, types.ProgramDriven, geometryChanged)
	return geometryChanged, nil
}
