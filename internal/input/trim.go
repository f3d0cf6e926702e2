package input

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/schollz/audiotrim/internal/session"
)

const (
	jogColumns     = 1
	fastJogColumns = 8
	nudgeSeconds   = 1.0
)

// HandleTrimInput handles input for the trim view
func HandleTrimInput(s *session.Session, msg tea.KeyMsg) tea.Cmd {
	switch key := msg.String(); key {
	case "ctrl+c", "ctrl+q", "q":
		return tea.Quit

	case " ":
		s.Editor.TogglePlayPause()

	case "r", "home":
		s.Editor.ResetToStart()

	case "left":
		s.Drag(-jogColumns)

	case "right":
		s.Drag(jogColumns)

	case "shift+left":
		s.Drag(-fastJogColumns)

	case "shift+right":
		s.Drag(fastJogColumns)

	case "[":
		s.Editor.ShiftBy(-nudgeSeconds)

	case "]":
		s.Editor.ShiftBy(nudgeSeconds)

	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		s.Editor.SelectKeyTime(int(key[0] - '1'))

	case "s":
		s.OpenSettings()
	}
	return nil
}
