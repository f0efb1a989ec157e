package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/funnel-cli/internal/monitoring"
	"github.com/sells-group/funnel-cli/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the calculator web page and JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		f, err := formatter()
		if err != nil {
			return err
		}

		srvCfg := cfg.Server
		if servePort > 0 {
			srvCfg.Port = servePort
		}

		rec := monitoring.NewRecorder()
		srv, err := server.New(server.Options{
			Config:    srvCfg,
			Formatter: f,
			Observer:  rec,
			Metrics:   rec.Handler(),
			Logger:    zap.L().With(zap.String("command", "serve")),
		})
		if err != nil {
			return err
		}

		return srv.Run(ctx, fmt.Sprintf(":%d", srvCfg.Port))
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "HTTP server port (overrides server.port)")
	rootCmd.AddCommand(serveCmd)
}
