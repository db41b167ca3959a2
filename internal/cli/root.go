// Package cli implements the draftadvisor command tree.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ramonehamilton/draft-advisor/internal/config"
	"github.com/ramonehamilton/draft-advisor/internal/version"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	configPath string
	debug      bool

	cfg    *config.Config
	logger *slog.Logger
}

// NewRootCmd builds the full command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "draftadvisor",
		Short: "Draft advisor for hero and skill picks",
		Long: `Draft advisor learns hero and skill synergies from recorded battles.

It ranks heroes and skills by win rate, finds the partners that win most
often together, recommends the best candidate set in each draft round, and
evaluates how well its synergy lists predict future battles.

Examples:
  draftadvisor top hero --limit 10
  draftadvisor synergy hero "Guan Yu"
  draftadvisor recommend hero --current "Guan Yu,Zhang Fei" --set "Liu Bei" --set "Zhao Yun"
  draftadvisor evaluate --chart sweep.html
  draftadvisor serve`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.ErrOrStderr())
		},
	}

	root.CompletionOptions.HiddenDefaultCmd = true
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ~/.draft-advisor/config.toml)")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newServeCmd(a),
		newEvaluateCmd(a),
		newTopCmd(a),
		newSynergyCmd(a),
		newRecommendCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newBackupCmd(a),
		newVersionCmd(),
	)
	return root
}

// init loads configuration and sets up logging.
func (a *app) init(stderr io.Writer) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	level := slog.LevelInfo
	if a.debug || cfg.App.DebugMode {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(a.logger)
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "draftadvisor %s\n", version.GetVersion())
			return nil
		},
	}
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
