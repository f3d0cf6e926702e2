package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/schollz/audiotrim/internal/editor"
	"github.com/schollz/audiotrim/internal/playback"
	"github.com/schollz/audiotrim/internal/storage"
)

var simulateConfig struct {
	ticks int
	tap   int
	all   bool
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Play the selection headless and print JSON snapshots",
	Long: `simulate runs a session without a terminal UI: it optionally taps a key
time, plays for the given number of ticks and prints every change as a JSON
line.`,
	Args: cobra.NoArgs,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&simulateConfig.ticks, "ticks", 100,
		"Number of playback ticks to run")
	simulateCmd.Flags().IntVar(&simulateConfig.tap, "tap", -1,
		"Key time index to jump to before playing (-1 for none)")
	simulateCmd.Flags().BoolVar(&simulateConfig.all, "all", false,
		"Print a snapshot for every tick")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(config.debug)
	if err != nil {
		return err
	}
	defer logger.Sync()

	state, err := initialState()
	if err != nil {
		return err
	}

	clock := playback.NewManualClock(config.interval)
	ctrl := editor.New(state, clock, editor.WithLogger(logger.Named("editor")))

	closeOutputs, err := attachOutputs(ctrl, logger)
	defer closeOutputs()
	if err != nil {
		return err
	}

	out := storage.NewRecorder(cmd.OutOrStdout(), storage.WithTicks(simulateConfig.all))
	out.Attach(ctrl)

	if simulateConfig.tap >= 0 && !ctrl.SelectKeyTime(simulateConfig.tap) {
		return fmt.Errorf("no key time at index %d", simulateConfig.tap)
	}
	ctrl.Play()
	clock.Advance(simulateConfig.ticks)
	ctrl.Pause()
	return nil
}
