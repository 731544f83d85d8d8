package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/brandkit/internal/persistence"
	"github.com/alexisbeaulieu97/brandkit/internal/preview"
)

type serveOptions struct {
	addr string
}

func newServeCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a live preview of the design tokens",
		Long: `Serve a live preview of the design tokens.

The page reloads its styles whenever the stored tokens change, including
changes made by other brandkit commands while the server runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext(cmd, rootFlags)
			if err != nil {
				return err
			}
			defer app.Close()

			addr := app.cfg.ListenAddr
			if opts.addr != "" {
				addr = opts.addr
			}

			ctx, stop := signal.NotifyContext(app.ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := preview.NewServer(app.sheet, app.store, app.logger)

			// Pick up 'brandkit set ...' runs from other terminals.
			watcher, err := persistence.NewWatcher(app.cfg.DataDir, app.logger)
			if err != nil {
				app.logger.Warn(ctx, "live reload disabled", "dir", app.cfg.DataDir, "error", err)
			} else {
				defer watcher.Close()
				go func() {
					_ = watcher.Run(ctx, func(ctx context.Context) { app.store.Reload(ctx) })
				}()
			}

			if err := srv.ListenAndServe(ctx, addr); err != nil {
				return newCommandError("serve", "running preview server on "+addr, err, "Pick a free address with --addr or listen_addr.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "Listen address (overrides listen_addr)")

	return cmd
}
