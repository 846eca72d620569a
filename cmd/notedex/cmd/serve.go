package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/notedex/notedex/internal/httpapi"
	"github.com/notedex/notedex/internal/output"
	"github.com/notedex/notedex/internal/vault"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [dir]",
		Short: "Serve the search API and keep the index live",
		Long: `Index the vault, watch it for changes, and serve the JSON search API.

Endpoints:
  GET /api/search?q=<query>
  GET /api/progress
  GET /healthz

Runs until interrupted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				flagVaultDir = args[0]
			}
			return runServe(cmd, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")

	return cmd
}

func runServe(cmd *cobra.Command, addr string) error {
	out := output.New(cmd.OutOrStdout())

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	v, err := vault.Open(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = v.Close() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := v.Rescan(ctx); err != nil {
		return err
	}
	out.Successf("serving %s on http://%s", v.Root(), cfg.Server.Addr)

	srv := httpapi.New(v, cfg.Server.Addr)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return v.Watch(gctx)
	})
	g.Go(func() error {
		return srv.ListenAndServe(gctx)
	})

	err = g.Wait()
	if err == context.Canceled {
		return nil
	}
	return err
}
