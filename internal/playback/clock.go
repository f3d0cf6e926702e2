package playback

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// DefaultInterval is the playback tick period
const DefaultInterval = 10 * time.Millisecond

// Clock is the recurring wake-up that drives playback. After Stop returns no
// more callbacks fire; Start while running does nothing.
type Clock interface {
	Start()
	Stop()
	IsRunning() bool
	OnTick(fn func(elapsed float64))
}

// TickMsg is delivered by the bubbletea run loop for a TeaClock
type TickMsg struct {
	Gen  uint64
	Time time.Time
}

// TeaClock ticks through the bubbletea run loop. Each Start begins a new
// generation, so a tick scheduled before a Stop is dropped when it arrives.
// Ticks are scheduled against the start time rather than the previous tick
// so slow frames do not accumulate drift.
type TeaClock struct {
	interval  time.Duration
	running   bool
	gen       uint64
	pending   bool
	startedAt time.Time
	count     int64
	callbacks []func(float64)
	now       func() time.Time
	logger    *zap.Logger
}

func NewTeaClock(interval time.Duration, logger *zap.Logger) *TeaClock {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeaClock{interval: interval, now: time.Now, logger: logger}
}

func (c *TeaClock) Interval() time.Duration { return c.interval }

func (c *TeaClock) OnTick(fn func(elapsed float64)) {
	c.callbacks = append(c.callbacks, fn)
}

func (c *TeaClock) IsRunning() bool { return c.running }

func (c *TeaClock) Start() {
	if c.running {
		return
	}
	c.running = true
	c.gen++
	c.pending = true
	c.startedAt = c.now()
	c.count = 0
	c.logger.Debug("clock started", zap.Uint64("gen", c.gen), zap.Duration("interval", c.interval))
}

func (c *TeaClock) Stop() {
	if !c.running {
		return
	}
	c.running = false
	c.pending = false
	c.logger.Debug("clock stopped", zap.Uint64("gen", c.gen), zap.Int64("ticks", c.count))
}

// Kick returns the command for the first tick after a Start, or nil when no
// tick needs scheduling. The program calls it after every update.
func (c *TeaClock) Kick() tea.Cmd {
	if !c.pending || !c.running {
		return nil
	}
	c.pending = false
	return c.schedule()
}

// Handle processes a tick message: it fires the callbacks and schedules the
// next tick. Stale or post-Stop ticks return nil.
func (c *TeaClock) Handle(msg TickMsg) tea.Cmd {
	if !c.running || msg.Gen != c.gen {
		c.logger.Debug("dropped stale tick", zap.Uint64("gen", msg.Gen), zap.Uint64("current", c.gen))
		return nil
	}
	c.count++
	elapsed := c.interval.Seconds()
	for _, fn := range c.callbacks {
		fn(elapsed)
		if !c.running || msg.Gen != c.gen {
			// a callback stopped the clock
			return nil
		}
	}
	return c.schedule()
}

// nextDelay is the wait until tick count+1, measured from the start time
func (c *TeaClock) nextDelay() time.Duration {
	target := c.startedAt.Add(time.Duration(c.count+1) * c.interval)
	delay := target.Sub(c.now())
	if delay < 0 {
		return 0
	}
	return delay
}

func (c *TeaClock) schedule() tea.Cmd {
	gen := c.gen
	return tea.Tick(c.nextDelay(), func(t time.Time) tea.Msg {
		return TickMsg{Gen: gen, Time: t}
	})
}

// ManualClock is a Clock advanced by hand, for tests and headless runs
type ManualClock struct {
	interval  float64
	running   bool
	callbacks []func(float64)
}

// NewManualClock makes a clock whose ticks each report interval seconds
func NewManualClock(interval time.Duration) *ManualClock {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &ManualClock{interval: interval.Seconds()}
}

func (c *ManualClock) Start()          { c.running = true }
func (c *ManualClock) Stop()           { c.running = false }
func (c *ManualClock) IsRunning() bool { return c.running }

func (c *ManualClock) OnTick(fn func(elapsed float64)) {
	c.callbacks = append(c.callbacks, fn)
}

// Tick fires one tick if the clock is running and reports whether it did
func (c *ManualClock) Tick() bool {
	if !c.running {
		return false
	}
	for _, fn := range c.callbacks {
		fn(c.interval)
		if !c.running {
			break
		}
	}
	return true
}

// Advance fires up to n ticks, stopping early if the clock is stopped
func (c *ManualClock) Advance(n int) int {
	fired := 0
	for i := 0; i < n; i++ {
		if !c.Tick() {
			break
		}
		fired++
	}
	return fired
}
