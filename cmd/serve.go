package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/doesmyresumematch/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the document export server",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "", "listen address (default :3000)")
	serveCmd.Flags().String("base-path", "", "prefix for the export route")

	viper.BindPFlag("server.listen", serveCmd.Flags().Lookup("listen"))
	viper.BindPFlag("export-base-path", serveCmd.Flags().Lookup("base-path"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	d := setup(ctx)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router, err := server.NewRouter(server.RouterDeps{
		Exporter:    d.exporter(),
		Logger:      d.logger,
		Registry:    reg,
		BasePath:    d.config.ExportBasePath,
		CORSOrigins: d.config.Server.CORSOrigins,
	})
	if err != nil {
		d.fatal("building router", zap.Error(err))
	}

	d.logger.Info("starting the doesmyresumematch server",
		zap.String("version", version),
		zap.String("base_path", server.NormalizeBasePath(d.config.ExportBasePath)),
	)

	if err := server.Serve(ctx, d.config.Server.Listen, router, d.logger); err != nil {
		d.fatal("server stopped", zap.Error(err))
	}

	d.close()
}
