// Command liftform scores squat, bench press and deadlift technique from
// pose landmarks.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ayusman/liftform/internal/config"
	"github.com/ayusman/liftform/internal/logging"
	"github.com/ayusman/liftform/internal/store"
)

// cli holds state shared by every subcommand.
type cli struct {
	configPath string
	logLevel   string
	cfg        *config.Config
	logger     *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:   "liftform",
		Short: "Score barbell lift technique from pose landmarks",
		Long: `liftform analyses single frames of 2D pose landmarks and scores
squat, bench press and deadlift technique.

Frames are JSON objects {"exercise": "...", "landmarks": [...]} or bare
landmark arrays, one per line when streamed.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			if c.logLevel != "" {
				cfg.Logging.Level = c.logLevel
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			c.cfg = cfg

			logger, err := logging.New(cfg.Logging)
			if err != nil {
				return err
			}
			c.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&c.configPath, "config", "c", defaultConfigPath(), "Path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")

	rootCmd.AddCommand(c.serveCmd())
	rootCmd.AddCommand(c.analyzeCmd())
	rootCmd.AddCommand(c.historyCmd())

	return rootCmd
}

func defaultConfigPath() string {
	return filepath.Join(config.DefaultDataDir(), "config.yaml")
}

// openStore opens the configured history database, creating its directory.
func (c *cli) openStore() (*store.Store, error) {
	if !c.cfg.Store.Enabled {
		return nil, fmt.Errorf("history store is disabled in %s", c.configPath)
	}
	if err := os.MkdirAll(filepath.Dir(c.cfg.Store.Path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	st, err := store.New(c.cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}
	c.logger.Debug("store opened", zap.String("path", c.cfg.Store.Path))
	return st, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
