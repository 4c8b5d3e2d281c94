// tapegame - a scripted-tape trading game for the terminal
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/zappabad/tapegame/internal/game"
	"github.com/zappabad/tapegame/internal/logging"
	"github.com/zappabad/tapegame/internal/replay"
	"github.com/zappabad/tapegame/tui"
	"go.uber.org/zap"
)

var version = "0.1.0"

// options holds the persistent flags shared by every command.
type options struct {
	variant  string
	scenario string
	logFile  string
	logLevel string
}

func main() {
	// .env is optional
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "tapegame",
		Short: "Trade one unit at a time against a scripted price tape",
		Long: `tapegame steps a scripted price tape forward on request and lets you
buy and sell one unit at a time with play money. Hints unlock every five steps.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(opts)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.variant, "variant", string(game.VariantSingle), "Preset: single or multi")
	rootCmd.PersistentFlags().StringVar(&opts.scenario, "scenario", os.Getenv("TAPEGAME_SCENARIO"), "YAML scenario file (overrides --variant)")
	rootCmd.PersistentFlags().StringVar(&opts.logFile, "log-file", os.Getenv("TAPEGAME_LOG_FILE"), "Write JSON logs to this file")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", envOr("TAPEGAME_LOG_LEVEL", "info"), "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd(opts))
	rootCmd.AddCommand(replayCmd(opts))
	rootCmd.AddCommand(scenarioCmd(opts))
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func playCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Start the interactive game (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(opts)
		},
	}
}

func replayCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "replay <action>...",
		Short: "Apply actions without the UI and print the result",
		Long: `Actions are applied in order. Each is verb[:TICKER][*N] where verb is
next (n), buy (b), sell (s), hint (h) or reset (r). Without a ticker, buy and
sell use the first listed ticker.

  tapegame replay b n*4 s h
  tapegame --variant multi replay b:ALPHA b:CHARLIE n*10 s:CHARLIE`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actions, err := replay.Parse(args)
			if err != nil {
				return err
			}

			g, err := loadGame(opts)
			if err != nil {
				return err
			}
			defer g.Close()

			return replay.Run(g, actions, cmd.OutOrStdout())
		},
	}
}

func scenarioCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "scenario",
		Short: "Print the selected preset as a scenario file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolveConfig()
			if err != nil {
				return err
			}
			if err := cfg.Session.Validate(); err != nil {
				return err
			}
			b, err := game.MarshalScenario(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tapegame version %s\n", version)
		},
	}
}

func runPlay(opts *options) error {
	g, err := loadGame(opts)
	if err != nil {
		return err
	}
	defer g.Close()

	p := tea.NewProgram(tui.NewModel(g), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

func (o *options) resolveConfig() (game.Config, error) {
	if o.scenario != "" {
		return game.LoadScenario(o.scenario)
	}
	return game.Preset(game.Variant(o.variant))
}

// loadGame resolves the config, then builds the logger and a validated game.
// Any error here is fatal and surfaces before the UI takes over the terminal.
func loadGame(opts *options) (*game.Game, error) {
	cfg, err := opts.resolveConfig()
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(opts.logFile, opts.logLevel)
	if err != nil {
		return nil, err
	}

	g, err := game.NewGame(cfg, logger)
	if err != nil {
		logger.Error("invalid configuration", zap.Error(err))
		_ = logger.Sync()
		return nil, err
	}
	logger.Info("game started",
		zap.String("variant", string(cfg.Variant)),
		zap.Int("total_steps", cfg.Session.TotalSteps),
		zap.Int("tickers", len(cfg.Session.Listings)),
	)
	return g, nil
}
