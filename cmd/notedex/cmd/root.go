// Package cmd provides the CLI commands for notedex.
package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/notedex/notedex/internal/config"
	"github.com/notedex/notedex/internal/logging"
	"github.com/notedex/notedex/pkg/version"
)

var (
	flagVaultDir string
	flagDebug    bool

	loggingCleanup func()
)

// NewRootCmd creates the root command for the notedex CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notedex",
		Short: "Structured search over a directory of Markdown notes",
		Long: `Notedex indexes a directory of Markdown notes and answers structured
queries over it.

Queries combine free text with path filters (@name or at:name) and
section filters (>heading or in:heading). Terms may contain * wildcards
and quoted phrases. Matching ignores case and diacritics.

Examples:
  notedex search "grocery list"
  notedex search "@thoughts >entry wine"
  notedex search "at:tasks in:urgent"`,
		Version:      version.Short(),
		SilenceUsage: true,
	}

	cmd.SetVersionTemplate("notedex version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&flagVaultDir, "vault", "", "Vault directory (default: current directory)")
	cmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging to ~/.notedex/logs/")

	cmd.PersistentPreRunE = setupLogging
	cmd.PersistentPostRun = teardownLogging

	cmd.AddCommand(newIndexCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func setupLogging(_ *cobra.Command, _ []string) error {
	// A .env alongside the vault lets NOTEDEX_ variables override config.
	_ = godotenv.Load()

	logCfg := logging.DefaultConfig()
	logCfg.WriteToStderr = false
	if flagDebug {
		logCfg = logging.DebugConfig()
	}
	if err := os.MkdirAll(logging.DefaultLogDir(), 0o755); err != nil {
		// File logging is best effort; fall back to stderr only.
		logCfg.FilePath = ""
	}
	cleanup, err := logging.SetupDefault(logCfg)
	if err != nil {
		return err
	}
	loggingCleanup = cleanup
	return nil
}

func teardownLogging(_ *cobra.Command, _ []string) {
	if loggingCleanup != nil {
		loggingCleanup()
		loggingCleanup = nil
	}
}

// loadConfig resolves the vault directory and loads configuration from it.
func loadConfig() (*config.Config, error) {
	dir := flagVaultDir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		dir = wd
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	slog.Debug("config loaded", slog.String("vault", cfg.Vault.Dir))
	return cfg, nil
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
