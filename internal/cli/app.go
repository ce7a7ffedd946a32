package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"recipe_index/internal/config"
	"recipe_index/internal/logging"
)

// App carries the flags and ambient state shared by the build and preview
// commands.
type App struct {
	Root       string
	ConfigPath string

	Config config.Config
	Logger *zap.Logger
	Sugar  *zap.SugaredLogger
}

// BindFlags registers --root and --config on cmd and loads the config and
// logger before any of its commands run.
func (a *App) BindFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&a.Root, "root", "", "directory paths are resolved against (default: the tool's own directory)")
	cmd.PersistentFlags().StringVar(&a.ConfigPath, "config", "", "config file (default: <root>/"+config.FileName+" if present)")
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return a.Setup()
	}
}

// Setup resolves the root, loads the config and initializes logging.
func (a *App) Setup() error {
	if a.Root == "" {
		dir, err := config.ToolDir()
		if err != nil {
			return fmt.Errorf("cannot determine tool directory: %w", err)
		}
		a.Root = dir
	}

	cfg, err := config.Load(a.Root, a.ConfigPath)
	if err != nil {
		return err
	}
	a.Config = cfg

	a.Logger, a.Sugar, err = logging.InitLogger(logging.Options{Level: cfg.Logging.Level, File: cfg.Logging.File})
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	return nil
}

// Sync flushes the logger, if one was built.
func (a *App) Sync() {
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
}
