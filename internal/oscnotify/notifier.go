package oscnotify

import (
	"fmt"

	"github.com/hypebeast/go-osc/osc"
	"go.uber.org/zap"

	"github.com/schollz/audiotrim/internal/editor"
)

// OSC addresses. Times are seconds, sent as float32.
const (
	AddrSelection = "/trim/selection" // start, duration, total
	AddrPlayhead  = "/trim/playhead"  // current time, progress through the selection
	AddrPlaying   = "/trim/playing"   // 1 or 0
	AddrKeyTimes  = "/trim/keytimes"  // every key time in order
)

// Sender is the part of an OSC client the notifier needs
type Sender interface {
	Send(packet osc.Packet) error
}

// Notifier publishes controller changes over OSC so an external player can
// follow the selection and play-head
type Notifier struct {
	sender      Sender
	tickEvery   int
	ticks       int
	unsubscribe func()
	logger      *zap.Logger
}

type Option func(*Notifier)

// WithTickEvery sends the play-head only on every n-th playback tick
func WithTickEvery(n int) Option {
	return func(nt *Notifier) {
		if n > 0 {
			nt.tickEvery = n
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(nt *Notifier) {
		if logger != nil {
			nt.logger = logger
		}
	}
}

// New sends to an OSC server at host:port
func New(host string, port int, opts ...Option) *Notifier {
	return NewWithSender(osc.NewClient(host, port), opts...)
}

func NewWithSender(sender Sender, opts ...Option) *Notifier {
	n := &Notifier{sender: sender, tickEvery: 1, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Attach subscribes to c and sends the initial state
func (n *Notifier) Attach(c *editor.Controller) {
	n.unsubscribe = c.Subscribe(func(ch editor.Change) {
		if err := n.Notify(ch); err != nil {
			n.logger.Warn("osc send failed", zap.Error(err))
		}
	})
	if err := n.Notify(editor.Change{Snapshot: c.Snapshot(), Kind: editor.KindSettings}); err != nil {
		n.logger.Warn("osc send failed", zap.Error(err))
	}
}

func (n *Notifier) Close() {
	if n.unsubscribe != nil {
		n.unsubscribe()
		n.unsubscribe = nil
	}
}

// Notify sends the messages a change calls for
func (n *Notifier) Notify(ch editor.Change) error {
	snap := ch.Snapshot
	switch ch.Kind {
	case editor.KindTick:
		n.ticks++
		if n.ticks%n.tickEvery != 0 {
			return nil
		}
		return n.send(playheadMessage(snap))
	case editor.KindPlayback:
		n.ticks = 0
		return n.send(playingMessage(snap), playheadMessage(snap))
	case editor.KindSettings:
		return n.send(keyTimesMessage(snap), selectionMessage(snap), playheadMessage(snap), playingMessage(snap))
	default:
		return n.send(selectionMessage(snap), playheadMessage(snap))
	}
}

func (n *Notifier) send(msgs ...*osc.Message) error {
	for _, msg := range msgs {
		if err := n.sender.Send(msg); err != nil {
			return fmt.Errorf("send %s: %w", msg.Address, err)
		}
		n.logger.Debug("osc sent", zap.String("addr", msg.Address), zap.Int("args", len(msg.Arguments)))
	}
	return nil
}

func selectionMessage(snap editor.Snapshot) *osc.Message {
	msg := osc.NewMessage(AddrSelection)
	msg.Append(float32(snap.Selection.Start))
	msg.Append(float32(snap.Selection.Duration))
	msg.Append(float32(snap.TotalDuration))
	return msg
}

func playheadMessage(snap editor.Snapshot) *osc.Message {
	msg := osc.NewMessage(AddrPlayhead)
	msg.Append(float32(snap.CurrentTime))
	msg.Append(float32(snap.ProgressRatio))
	return msg
}

func playingMessage(snap editor.Snapshot) *osc.Message {
	msg := osc.NewMessage(AddrPlaying)
	if snap.Playing {
		msg.Append(int32(1))
	} else {
		msg.Append(int32(0))
	}
	return msg
}

func keyTimesMessage(snap editor.Snapshot) *osc.Message {
	msg := osc.NewMessage(AddrKeyTimes)
	for _, t := range snap.KeyTimes {
		msg.Append(float32(t))
	}
	return msg
}
