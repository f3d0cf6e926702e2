package input

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/schollz/audiotrim/internal/session"
)

// HandleSettingsInput handles input for the settings form. Keys the form
// does not use are typed into the focused field.
func HandleSettingsInput(s *session.Session, msg tea.KeyMsg) tea.Cmd {
	if s.Form == nil {
		s.CloseSettings()
		return nil
	}

	switch msg.String() {
	case "ctrl+c", "ctrl+q":
		return tea.Quit

	case "esc":
		s.CloseSettings()
		return nil

	case "enter":
		// errors are shown in the status line
		_ = s.SubmitSettings()
		return nil

	case "tab", "down":
		return s.Form.Next()

	case "shift+tab", "up":
		return s.Form.Prev()

	case "ctrl+n":
		return s.Form.AddKeyRow()

	case "ctrl+d":
		s.Form.RemoveKeyRow()
		return nil
	}

	return s.Form.Update(msg)
}
