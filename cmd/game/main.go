package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tatianab/policy-game/internal/advisor"
	"github.com/tatianab/policy-game/internal/config"
	"github.com/tatianab/policy-game/internal/engine"
	"github.com/tatianab/policy-game/internal/logging"
	"github.com/tatianab/policy-game/internal/models"
	"github.com/tatianab/policy-game/internal/simulate"
	"github.com/tatianab/policy-game/internal/tui"
)

var (
	verbose     bool
	useAdvisor  bool
	maxTurns    int
	cfg         *config.Config
	logger      *zap.Logger
	closeGemini func()
)

var rootCmd = &cobra.Command{
	Use:   "game",
	Short: "Quarterly economic policy game",
	Long: `Steer the economy for a sixteen-quarter term by setting the tax rate,
government spending and the policy interest rate each quarter.

Run without arguments to play in the terminal.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig()
		if err != nil {
			return err
		}
		models.ScriptDir = cfg.ScriptDir
		if verbose {
			cfg.LogLevel = zapcore.DebugLevel
		}

		// The terminal UI owns the screen, so it only logs to a file.
		if cmd == cmd.Root() {
			logger, err = logging.ForTUI(cfg.LogLevel, cfg.LogFile)
		} else {
			logger, err = logging.New(cfg.LogLevel, cfg.LogFile)
		}
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if closeGemini != nil {
			closeGemini()
		}
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		adv, err := newAdvisor(cmd.Context())
		if err != nil {
			return err
		}
		return tui.Run(engine.New(logger), adv)
	},
}

var simulateCmd = &cobra.Command{
	Use:   "simulate [script]",
	Short: "Play a policy script without the UI and print a YAML report",
	Long: `Plays a policy script quarter by quarter and writes a YAML run report to stdout.

The script is a file path or the name of a script in the scripts directory
(GAME_SCRIPTS_DIR). Without a script every quarter uses the neutral policy.
When the script runs out of turns its last policy repeats.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSimulate,
}

var scriptsCmd = &cobra.Command{
	Use:   "scripts",
	Short: "List the policy scripts in the scripts directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := models.ListScripts()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "no scripts in %s\n", models.ScriptDir)
			return nil
		}
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

func runSimulate(cmd *cobra.Command, args []string) error {
	script := &models.PolicyScript{Name: "neutral"}
	if len(args) == 1 {
		var err error
		script, err = models.LoadScript(args[0])
		if err != nil {
			return err
		}
	}

	var adv advisor.Advisor
	if useAdvisor {
		var err error
		adv, err = newAdvisor(cmd.Context())
		if err != nil {
			return err
		}
	}

	runner := &simulate.Runner{Engine: engine.New(logger), Advisor: adv, Logger: logger}
	report, err := runner.Run(cmd.Context(), script, maxTurns)
	if err != nil {
		return err
	}
	return report.WriteReport(cmd.OutOrStdout())
}

// newAdvisor uses Gemini when an API key is configured and the rule table
// otherwise.
func newAdvisor(ctx context.Context) (advisor.Advisor, error) {
	if cfg.GeminiAPIKey == "" {
		return advisor.Rules{}, nil
	}
	g, err := advisor.NewGemini(ctx, cfg.GeminiAPIKey, cfg.Model, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini advisor: %w", err)
	}
	closeGemini = g.Close
	logger.Debug("using Gemini advisor", zap.String("model", cfg.Model))
	return g, nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	simulateCmd.Flags().IntVar(&maxTurns, "turns", 16, "Maximum number of quarters to play")
	simulateCmd.Flags().BoolVar(&useAdvisor, "advisor", false, "Add advisor commentary to each quarter")

	rootCmd.AddCommand(simulateCmd, scriptsCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
