package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/schollz/audiotrim/internal/editor"
	"github.com/schollz/audiotrim/internal/input"
	"github.com/schollz/audiotrim/internal/model"
	"github.com/schollz/audiotrim/internal/oscnotify"
	"github.com/schollz/audiotrim/internal/playback"
	"github.com/schollz/audiotrim/internal/session"
	"github.com/schollz/audiotrim/internal/settings"
	"github.com/schollz/audiotrim/internal/storage"
	"github.com/schollz/audiotrim/internal/types"
	"github.com/schollz/audiotrim/internal/views"
)

var (
	Version = "dev"

	// Command-line configuration
	config struct {
		duration       float64
		keyTimes       []float64
		selectionStart float64
		selection      float64
		interval       time.Duration
		debug          string // Path to zap log file
		dump           string // Path to change log
		oscHost        string
		oscPort        int
		oscTickEvery   int
		width          int
		seed           uint64
	}
)

var rootCmd = &cobra.Command{
	Use:   "audiotrim",
	Short: "Pick a section of a track in the terminal",
	Long: `audiotrim lets you choose a section of a longer track: jump between key
times or scroll the waveform under the selection box, play the section on a
loop and adjust the track length, key times and section length.`,
	Version:      Version,
	SilenceUsage: true,
	RunE:         runTrimmer,
}

func init() {
	rootCmd.PersistentFlags().Float64Var(&config.duration, "duration", 80,
		"Total track duration in seconds")
	rootCmd.PersistentFlags().Float64SliceVar(&config.keyTimes, "key-times", []float64{10, 30, 50, 60, 75},
		"Key times in seconds, in display order")
	rootCmd.PersistentFlags().Float64Var(&config.selectionStart, "selection-start", 0,
		"Initial selection start in seconds")
	rootCmd.PersistentFlags().Float64Var(&config.selection, "selection", 10,
		"Selection length in seconds")
	rootCmd.PersistentFlags().DurationVar(&config.interval, "interval", playback.DefaultInterval,
		"Playback tick interval")
	rootCmd.PersistentFlags().StringVarP(&config.debug, "log", "l", "",
		"Write debug logs to specified file (empty disables)")
	rootCmd.PersistentFlags().StringVarP(&config.dump, "dump", "d", "",
		"Write every change as a JSON line to specified file (empty disables)")
	rootCmd.PersistentFlags().StringVar(&config.oscHost, "osc-host", "localhost",
		"Host to publish OSC messages to")
	rootCmd.PersistentFlags().IntVar(&config.oscPort, "osc-port", 0,
		"Port to publish OSC messages to (0 disables)")
	rootCmd.PersistentFlags().IntVar(&config.oscTickEvery, "osc-tick-every", 1,
		"Publish the play-head on every n-th tick")
	rootCmd.PersistentFlags().IntVar(&config.width, "width", 80,
		"Initial layout width before the terminal reports its size")
	rootCmd.PersistentFlags().Uint64Var(&config.seed, "seed", 1,
		"Seed for the waveform bars")

	rootCmd.AddCommand(simulateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger writes development logs to path, or discards them when path is empty
func newLogger(path string) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("open log %s: %w", path, err)
	}
	return logger, nil
}

// initialState checks the flags with the settings rules and builds the state
func initialState() (*model.TrimState, error) {
	snap := settings.FromState(config.duration, config.keyTimes, config.selection)
	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	selection := types.TimeRange{Start: config.selectionStart, Duration: config.selection}
	state, err := model.NewTrimState(config.duration, config.selectionStart, config.keyTimes, selection)
	if err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return state, nil
}

// attachOutputs wires the change log and the OSC notifier to ctrl. The
// returned func closes them.
func attachOutputs(ctrl *editor.Controller, logger *zap.Logger) (func(), error) {
	var closers []func()
	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	if config.dump != "" {
		rec, err := storage.Create(config.dump, storage.WithLogger(logger.Named("dump")))
		if err != nil {
			return closeAll, err
		}
		rec.Attach(ctrl)
		closers = append(closers, func() {
			if err := rec.Close(); err != nil {
				logger.Warn("closing change log", zap.Error(err))
			}
		})
		logger.Info("change log enabled", zap.String("path", config.dump))
	}

	if config.oscPort > 0 {
		n := oscnotify.New(config.oscHost, config.oscPort,
			oscnotify.WithTickEvery(config.oscTickEvery),
			oscnotify.WithLogger(logger.Named("osc")))
		n.Attach(ctrl)
		closers = append(closers, n.Close)
		logger.Info("osc enabled", zap.String("host", config.oscHost), zap.Int("port", config.oscPort))
	}

	return closeAll, nil
}

func runTrimmer(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(config.debug)
	if err != nil {
		return err
	}
	defer logger.Sync()

	state, err := initialState()
	if err != nil {
		return err
	}

	clock := playback.NewTeaClock(config.interval, logger.Named("clock"))
	ctrl := editor.New(state, clock, editor.WithLogger(logger.Named("editor")))

	closeOutputs, err := attachOutputs(ctrl, logger)
	defer closeOutputs()
	if err != nil {
		return err
	}

	sess := session.New(ctrl, config.width-views.ContainerPadding, config.seed, logger.Named("session"))
	tm := newTrimmerModel(sess, clock, logger)

	logger.Info("starting", zap.String("version", Version), zap.Float64("duration", config.duration))
	if _, err := tea.NewProgram(tm, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}

// TrimmerModel wraps the session and implements the tea.Model interface
type TrimmerModel struct {
	session *session.Session
	clock   *playback.TeaClock
	logger  *zap.Logger
}

func newTrimmerModel(s *session.Session, clock *playback.TeaClock, logger *zap.Logger) *TrimmerModel {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrimmerModel{session: s, clock: clock, logger: logger}
}

func (tm *TrimmerModel) Init() tea.Cmd {
	return nil
}

func (tm *TrimmerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		tm.session.Resize(msg.Width - views.ContainerPadding)

	case playback.TickMsg:
		// Playback ticks advance the play-head through the controller
		cmd = tm.clock.Handle(msg)

	case tea.KeyMsg:
		if tm.session.ViewMode == types.SettingsView {
			cmd = input.HandleSettingsInput(tm.session, msg)
		} else {
			cmd = input.HandleTrimInput(tm.session, msg)
		}
	}

	// A key may have started the clock
	return tm, tea.Batch(cmd, tm.clock.Kick())
}

func (tm *TrimmerModel) View() string {
	return tm.session.View()
}
