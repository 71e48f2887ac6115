package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"glustermon/internal/logger"
	"glustermon/internal/mac"
	"glustermon/internal/monitor"
	"glustermon/internal/web"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			a.logger.Info().Str("repo", repoName).Str("build", sha1ver).Str("time", buildTime).Msg("starting")

			var vendors web.VendorLookup
			if a.cfg.MACDBFile != "" {
				macDB, err := mac.NewDatabase(a.cfg.MACDBFile, a.cfg.MACDBPreload, logger.WithComponent("macdb"))
				if err != nil {
					a.logger.Warn().Err(err).Msg("MAC vendor lookup disabled")
				} else {
					vendors = macDB

					mon := monitor.New(logger.WithComponent("monitor"), macDB)
					if err := mon.Start(); err != nil {
						a.logger.Warn().Err(err).Msg("MAC database will not be reloaded on change")
					}
					defer mon.Stop()
				}
			}

			server := web.NewServer(a.cfg, a.service.Methods(), vendors, logger.WithComponent("web"))

			errCh := make(chan error, 1)
			go func() {
				a.logger.Info().Str("listen", a.cfg.HTTPListen).Msg("starting HTTP server")
				errCh <- server.Start()
			}()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigChan)

			select {
			case err := <-errCh:
				return err
			case <-sigChan:
			}

			a.logger.Info().Msg("shutting down")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(ctx)
		},
	}
}
