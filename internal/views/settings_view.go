package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/schollz/audiotrim/internal/settings"
)

// SettingsForm edits a settings snapshot as text: the total duration, one
// row per key-time percentage and the optional selection percentage.
// Rows are focused in that order.
type SettingsForm struct {
	total    textinput.Model
	keys     []textinput.Model
	timeline textinput.Model
	focus    int
}

func newField(value, placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = placeholder
	ti.CharLimit = 12
	ti.Width = 12
	ti.SetValue(value)
	return ti
}

// NewSettingsForm pre-fills the form from snap
func NewSettingsForm(snap settings.Snapshot) *SettingsForm {
	f := &SettingsForm{
		total:    newField(settings.Format(snap.TotalDuration), "seconds"),
		timeline: newField("", "percent"),
	}
	for _, p := range snap.KeyTimePercentages {
		f.keys = append(f.keys, newField(settings.Format(p), "percent"))
	}
	if snap.TimelineLengthPercentage != nil {
		f.timeline.SetValue(settings.Format(*snap.TimelineLengthPercentage))
	}
	f.field(0).Focus()
	return f
}

func (f *SettingsForm) rowCount() int { return len(f.keys) + 2 }

func (f *SettingsForm) field(i int) *textinput.Model {
	switch {
	case i == 0:
		return &f.total
	case i <= len(f.keys):
		return &f.keys[i-1]
	default:
		return &f.timeline
	}
}

// Focused is the focused row: 0 is the total, then key rows, then timeline
func (f *SettingsForm) Focused() int { return f.focus }

// KeyRows is the number of key-time rows
func (f *SettingsForm) KeyRows() int { return len(f.keys) }

func (f *SettingsForm) setFocus(i int) tea.Cmd {
	f.field(f.focus).Blur()
	f.focus = (i + f.rowCount()) % f.rowCount()
	return f.field(f.focus).Focus()
}

func (f *SettingsForm) Next() tea.Cmd { return f.setFocus(f.focus + 1) }

func (f *SettingsForm) Prev() tea.Cmd { return f.setFocus(f.focus - 1) }

// AddKeyRow inserts an empty key row after the focused key row, or at the end
// when no key row is focused, and focuses it
func (f *SettingsForm) AddKeyRow() tea.Cmd {
	at := len(f.keys)
	if f.focus >= 1 && f.focus <= len(f.keys) {
		at = f.focus
	}
	f.field(f.focus).Blur()
	f.keys = append(f.keys, textinput.Model{})
	copy(f.keys[at+1:], f.keys[at:])
	f.keys[at] = newField("", "percent")
	f.focus = at + 1
	return f.field(f.focus).Focus()
}

// RemoveKeyRow deletes the focused key row. It reports false when the focus
// is not on a key row.
func (f *SettingsForm) RemoveKeyRow() bool {
	if f.focus < 1 || f.focus > len(f.keys) {
		return false
	}
	f.keys = append(f.keys[:f.focus-1], f.keys[f.focus:]...)
	if f.focus > len(f.keys) {
		f.focus = len(f.keys)
	}
	f.field(f.focus).Focus()
	return true
}

// Update forwards msg to the focused field
func (f *SettingsForm) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	field := f.field(f.focus)
	*field, cmd = field.Update(msg)
	return cmd
}

// SetRow replaces the text of row i
func (f *SettingsForm) SetRow(i int, value string) {
	if i < 0 || i >= f.rowCount() {
		return
	}
	f.field(i).SetValue(value)
}

// Parse reads every row into a validated snapshot
func (f *SettingsForm) Parse() (settings.Snapshot, error) {
	keyTexts := make([]string, len(f.keys))
	for i := range f.keys {
		keyTexts[i] = f.keys[i].Value()
	}
	snap, err := settings.ParseForm(f.total.Value(), keyTexts, f.timeline.Value())
	if err != nil {
		return settings.Snapshot{}, fmt.Errorf("settings: %w", err)
	}
	return snap, nil
}

const settingsHelp = "tab/↓: next | shift+tab/↑: prev | ctrl+n: add key | ctrl+d: delete key | enter: apply | esc: cancel"

// RenderSettingsView renders the settings form
func RenderSettingsView(f *SettingsForm, width int, status string) string {
	return renderViewWithCommonPattern(width, "Settings", "", func(styles *ViewStyles) string {
		var content strings.Builder

		row := func(i int, label, unit string) {
			arrow := " "
			labelCell := styles.Label.Render(fmt.Sprintf("%-14s", label))
			if f.focus == i {
				arrow = "▶"
				labelCell = styles.Selected.Render(fmt.Sprintf("%-14s", label))
			}
			content.WriteString(fmt.Sprintf("%s %s %s %s\n", arrow, labelCell, f.field(i).View(), styles.Label.Render(unit)))
		}

		row(0, "Total", "s")
		content.WriteString("\n")
		for i := range f.keys {
			row(i+1, fmt.Sprintf("Key time %d", i+1), "%")
		}
		if len(f.keys) == 0 {
			content.WriteString(styles.Label.Render("  no key times"))
			content.WriteString("\n")
		}
		content.WriteString("\n")
		row(len(f.keys)+1, "Selection", "% (optional)")
		return content.String()
	}, settingsHelp, status)
}
