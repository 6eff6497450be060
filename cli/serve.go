package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"bot-companion-web/server"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewServeCommand creates the serve command.
func NewServeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Long: `Run the HTTP server with the reconcile scheduler and, when R2 is configured,
the code backup worker. Guild and member counters start at zero until the bot
pushes them to POST /api/bot/stats.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := server.OpenCodeStore(opts.Config)
			if err != nil {
				return err
			}
			srv, err := server.New(opts.Config, store, prometheus.DefaultRegisterer)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.Start(ctx, nil); err != nil {
				return err
			}
			<-ctx.Done()
			log.Println("👋 Bye")
			return nil
		},
	}
}
