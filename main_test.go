package main

import (
	"bytes"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schollz/audiotrim/internal/editor"
	"github.com/schollz/audiotrim/internal/playback"
	"github.com/schollz/audiotrim/internal/session"
	"github.com/schollz/audiotrim/internal/settings"
	"github.com/schollz/audiotrim/internal/storage"
	"github.com/schollz/audiotrim/internal/types"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// keepConfig restores the package config after a test changes it
func keepConfig(t *testing.T) {
	t.Helper()
	saved := config
	saved.keyTimes = append([]float64(nil), config.keyTimes...)
	savedSim := simulateConfig
	t.Cleanup(func() {
		config = saved
		simulateConfig = savedSim
	})
}

func TestInitialState(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		keepConfig(t)
		state, err := initialState()
		require.NoError(t, err)
		assert.Equal(t, 80.0, state.TotalDuration())
		assert.Equal(t, []float64{10, 30, 50, 60, 75}, state.KeyTimes())
		assert.Equal(t, types.TimeRange{Start: 0, Duration: 10}, state.SelectedRange())
	})

	t.Run("bad duration", func(t *testing.T) {
		keepConfig(t)
		config.duration = 0
		_, err := initialState()
		assert.ErrorIs(t, err, settings.ErrInvalidTotalDuration)
	})

	t.Run("key time past the end", func(t *testing.T) {
		keepConfig(t)
		config.keyTimes = []float64{10, 90}
		_, err := initialState()
		assert.ErrorIs(t, err, settings.ErrInvalidKeyTimePercentage)
	})

	t.Run("selection longer than the track", func(t *testing.T) {
		keepConfig(t)
		config.selection = 100
		_, err := initialState()
		assert.ErrorIs(t, err, settings.ErrInvalidTimelinePercentage)
	})

	t.Run("overflowing start is clamped", func(t *testing.T) {
		keepConfig(t)
		config.selectionStart = 75
		state, err := initialState()
		require.NoError(t, err)
		assert.Equal(t, 70.0, state.SelectedRange().Start)
	})
}

func TestNewLoggerDisabled(t *testing.T) {
	logger, err := newLogger("")
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestTrimmerModel(t *testing.T) {
	keepConfig(t)
	state, err := initialState()
	require.NoError(t, err)

	clock := playback.NewTeaClock(playback.DefaultInterval, nil)
	ctrl := editor.New(state, clock)
	tm := newTrimmerModel(session.New(ctrl, 76, 1, nil), clock, nil)
	assert.Nil(t, tm.Init())

	tm.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}})
	assert.Contains(t, tm.View(), "Selected: 0:30 - 0:40")

	_, cmd := tm.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.NotNil(t, cmd, "starting playback schedules the first tick")
	require.True(t, ctrl.IsPlaying())

	_, cmd = tm.Update(playback.TickMsg{Gen: 1})
	assert.NotNil(t, cmd, "each tick schedules the next")
	assert.InDelta(t, 30.01, ctrl.Snapshot().CurrentTime, 1e-9)

	tm.Update(tea.WindowSizeMsg{Width: 124, Height: 40})
	assert.Equal(t, 120, tm.session.Width)

	tm.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	assert.Contains(t, tm.View(), "Settings")
	tm.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Contains(t, tm.View(), "Current:")
}

func TestSimulateCommand(t *testing.T) {
	keepConfig(t)
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"simulate", "--ticks", "3", "--tap", "1", "--interval", "1s"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())

	records, err := storage.ReadRecords(&buf)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "position", records[0].Kind)
	assert.Equal(t, 30.0, records[0].Snapshot.Selection.Start)
	assert.True(t, records[1].Snapshot.Playing)
	assert.False(t, records[2].Snapshot.Playing)
	assert.Equal(t, 33.0, records[2].Snapshot.CurrentTime)
}
