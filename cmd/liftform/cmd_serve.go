package main

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ayusman/liftform/internal/config"
	"github.com/ayusman/liftform/internal/server"
	"github.com/ayusman/liftform/internal/store"
)

func (c *cli) serveCmd() *cobra.Command {
	var addr, staticDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP and WebSocket analysis server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				c.cfg.Server.Addr = addr
			}
			if staticDir != "" {
				c.cfg.Server.StaticDir = staticDir
			}
			if c.cfg.Server.StaticDir == "" {
				c.cfg.Server.StaticDir = findWebDir()
			}

			var st *store.Store
			if c.cfg.Store.Enabled {
				var err error
				if st, err = c.openStore(); err != nil {
					return err
				}
				defer st.Close()
			}

			if c.cfg.Server.StaticDir != "" {
				c.logger.Info("serving static files", zap.String("dir", c.cfg.Server.StaticDir))
			}

			srv := server.New(server.Config{
				StaticDir: c.cfg.Server.StaticDir,
				Store:     st,
				Logger:    c.logger,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return srv.ListenAndServe(ctx, c.cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides config)")
	cmd.Flags().StringVar(&staticDir, "static", "", "Directory of static files to serve")
	return cmd
}

// findWebDir searches for the web directory in common locations.
// It checks "web", "../web" and ~/.liftform/web, returning the first
// existing directory or an empty string.
func findWebDir() string {
	for _, p := range []string{"web", "../web"} {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}

	homeWebDir := filepath.Join(config.DefaultDataDir(), "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
