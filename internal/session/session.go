package session

import (
	"go.uber.org/zap"

	"github.com/schollz/audiotrim/internal/editor"
	"github.com/schollz/audiotrim/internal/model"
	"github.com/schollz/audiotrim/internal/timeline"
	"github.com/schollz/audiotrim/internal/types"
	"github.com/schollz/audiotrim/internal/views"
)

// MinWidth is the narrowest viewport the strip is laid out for
const MinWidth = 20

// Session is the UI state around a controller: which screen is shown, the
// waveform strip and where it is scrolled to, and the open settings form.
type Session struct {
	Editor   *editor.Controller
	ViewMode types.ViewMode
	Strip    *model.Waveform
	Offset   float64
	Width    int
	Height   int
	Form     *views.SettingsForm
	Status   string

	logger *zap.Logger
}

// New lays out a strip for width columns and follows ctrl's changes
func New(ctrl *editor.Controller, width int, seed uint64, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	if width < MinWidth {
		width = MinWidth
	}
	s := &Session{
		Editor:   ctrl,
		ViewMode: types.TrimView,
		Width:    width,
		Height:   views.DefaultStripHeight,
		logger:   logger,
	}
	s.Strip = model.NewWaveform(s.barCount(), model.TerminalLayout, seed)
	s.reposition()
	ctrl.Subscribe(s.onChange)
	return s
}

// barCount sizes the strip so the selection box takes about half the viewport
func (s *Session) barCount() int {
	snap := s.Editor.Snapshot()
	if snap.Selection.Duration <= 0 {
		return 0
	}
	content := float64(s.Width) / 2 * snap.TotalDuration / snap.Selection.Duration
	return model.TerminalLayout.BarCount(content)
}

// Geometry is the current scroll layout of the strip
func (s *Session) Geometry() timeline.ScrollGeometry {
	snap := s.Editor.Snapshot()
	return timeline.CenteredGeometry(s.Strip.ContentWidth(), float64(s.Width), snap.TotalDuration, snap.Selection.Duration)
}

func (s *Session) onChange(ch editor.Change) {
	switch {
	case ch.GeometryChanged:
		s.Strip.AdjustBarCount(s.barCount())
		s.logger.Debug("strip rebuilt", zap.Int("bars", len(s.Strip.Bars)))
		s.reposition()
	case ch.Source == types.ProgramDriven && (ch.Kind == editor.KindPosition || ch.Kind == editor.KindSettings):
		s.reposition()
	case ch.Source == types.UserDriven:
		s.highlight()
	}
}

// reposition scrolls the strip to the controller's selection
func (s *Session) reposition() {
	if offset, ok := s.Editor.ScrollOffset(s.Geometry()); ok {
		s.Offset = offset
	}
	s.highlight()
}

func (s *Session) highlight() {
	g := s.Geometry()
	s.Strip.Highlight(model.Frame{
		X:     s.Offset + g.InsetLeft,
		Width: g.ViewportWidth - g.InsetLeft - g.InsetRight,
	})
}

// Drag scrolls the strip by dx columns as if the user dragged it
func (s *Session) Drag(dx float64) {
	g := s.Geometry()
	mapper, ok := timeline.NewScrollMapper(g, s.Editor.Snapshot().TotalDuration, s.Editor.Snapshot().Selection.Duration)
	if !ok {
		return
	}
	s.Offset = mapper.ClampOffset(s.Offset + dx)
	s.Editor.ScrollTo(s.Offset, g)
}

// Resize lays the strip out again for a new viewport width
func (s *Session) Resize(width int) {
	if width < MinWidth {
		width = MinWidth
	}
	if width == s.Width {
		return
	}
	s.Width = width
	s.Strip.AdjustBarCount(s.barCount())
	s.reposition()
}

func (s *Session) OpenSettings() {
	s.Form = views.NewSettingsForm(s.Editor.CurrentSettings())
	s.ViewMode = types.SettingsView
	s.Status = ""
}

func (s *Session) CloseSettings() {
	s.Form = nil
	s.ViewMode = types.TrimView
	s.Status = ""
}

// SubmitSettings applies the form. On error the form stays open and the
// error is shown as the status line.
func (s *Session) SubmitSettings() error {
	if s.Form == nil {
		return nil
	}
	snap, err := s.Form.Parse()
	if err == nil {
		_, err = s.Editor.ApplySettings(snap)
	}
	if err != nil {
		s.Status = err.Error()
		s.logger.Debug("settings not applied", zap.Error(err))
		return err
	}
	s.CloseSettings()
	return nil
}

// Frame collects what the trim screen draws
func (s *Session) Frame() views.TrimFrame {
	return views.TrimFrame{
		Snapshot: s.Editor.Snapshot(),
		Strip:    s.Strip,
		Geometry: s.Geometry(),
		Offset:   s.Offset,
		Width:    s.Width,
		Height:   s.Height,
		Status:   s.Status,
	}
}

// View renders the current screen
func (s *Session) View() string {
	if s.ViewMode == types.SettingsView && s.Form != nil {
		return views.RenderSettingsView(s.Form, s.Width, s.Status)
	}
	return views.RenderTrimView(s.Frame())
}
