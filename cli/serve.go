package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/taisugar/toolkit/server"
)

func newServeCmd(cli *CLI) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve purchase orders and delivery records over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			reports, err := cli.newReporter(ctx, cli.cfg)
			if err != nil {
				return err
			}

			if addr == "" {
				addr = cli.cfg.Server.Addr
			}
			api := server.NewWebAPI(*zerolog.Ctx(ctx), server.Config{
				Addr:            addr,
				ShutdownTimeout: cli.cfg.Server.ShutdownTimeout,
				Dependencies:    server.Dependencies{Reports: reports},
			})
			return api.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: server.addr from config)")
	return cmd
}
