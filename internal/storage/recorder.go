package storage

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/schollz/audiotrim/internal/editor"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Record is one line of the change log
type Record struct {
	Seq             int             `json:"seq"`
	At              time.Time       `json:"at"`
	Kind            string          `json:"kind"`
	Source          string          `json:"source"`
	GeometryChanged bool            `json:"geometry_changed,omitempty"`
	Snapshot        editor.Snapshot `json:"snapshot"`
}

// Recorder writes every controller change as a JSON line. Playback ticks are
// left out unless WithTicks is set.
type Recorder struct {
	enc         *jsoniter.Encoder
	closer      io.Closer
	ticks       bool
	seq         int
	err         error
	now         func() time.Time
	unsubscribe func()
	logger      *zap.Logger
}

type Option func(*Recorder)

func WithTicks(on bool) Option {
	return func(r *Recorder) { r.ticks = on }
}

func WithLogger(logger *zap.Logger) Option {
	return func(r *Recorder) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func NewRecorder(w io.Writer, opts ...Option) *Recorder {
	r := &Recorder{
		enc:    json.NewEncoder(w),
		now:    time.Now,
		logger: zap.NewNop(),
	}
	if c, ok := w.(io.Closer); ok {
		r.closer = c
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create opens path for writing, truncating it
func Create(path string, opts ...Option) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create change log: %w", err)
	}
	return NewRecorder(f, opts...), nil
}

// Attach subscribes the recorder to c
func (r *Recorder) Attach(c *editor.Controller) {
	r.unsubscribe = c.Subscribe(func(ch editor.Change) {
		if err := r.Record(ch); err != nil {
			r.logger.Warn("change log write failed", zap.Error(err))
		}
	})
}

// Record writes ch. After the first write error every call returns it.
func (r *Recorder) Record(ch editor.Change) error {
	if r.err != nil {
		return r.err
	}
	if ch.Kind == editor.KindTick && !r.ticks {
		return nil
	}
	r.seq++
	rec := Record{
		Seq:             r.seq,
		At:              r.now(),
		Kind:            ch.Kind.String(),
		Source:          ch.Source.String(),
		GeometryChanged: ch.GeometryChanged,
		Snapshot:        ch.Snapshot,
	}
	if err := r.enc.Encode(rec); err != nil {
		r.err = fmt.Errorf("write change %d: %w", r.seq, err)
		return r.err
	}
	return nil
}

// Close detaches from the controller and closes the underlying writer
func (r *Recorder) Close() error {
	if r.unsubscribe != nil {
		r.unsubscribe()
		r.unsubscribe = nil
	}
	if r.closer != nil {
		err := r.closer.Close()
		r.closer = nil
		return err
	}
	return nil
}

// ReadRecords decodes a change log, one record per line
func ReadRecords(rd io.Reader) ([]Record, error) {
	var records []Record
	scanner := bufio.NewScanner(rd)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return records, fmt.Errorf("read change %d: %w", len(records)+1, err)
		}
		records = append(records, rec)
	}
	return records, scanner.Err()
}
