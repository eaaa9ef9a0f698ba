package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/doesmyresumematch/internal/api"
	"github.com/spigell/doesmyresumematch/internal/identity"
	"github.com/spigell/doesmyresumematch/internal/logger"
	"github.com/spigell/doesmyresumematch/internal/pdf"
	"github.com/spigell/doesmyresumematch/internal/report"
	"github.com/spigell/doesmyresumematch/internal/results"
	"github.com/spigell/doesmyresumematch/internal/storage"
	"github.com/spigell/doesmyresumematch/internal/telemetry"
	"github.com/spigell/doesmyresumematch/internal/tracing"
)

const telemetryFlushTimeout = 2 * time.Second

// deps holds everything a command needs. close must run before exit.
type deps struct {
	config    *Config
	logger    *zap.Logger
	api       *api.Client
	identity  *identity.Manager
	results   *results.Store
	telemetry telemetry.Emitter

	shutdownTracing tracing.Shutdown
}

func setup(ctx context.Context) *deps {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	shutdown, err := tracing.Init(ctx, *config.Tracing, logger)
	if err != nil {
		logger.Fatal("initializing tracing", zap.Error(err))
	}

	client := api.New(logger, config.APIURL, config.RequestTimeout)
	store := openStorage(config, logger)

	return &deps{
		config:          config,
		logger:          logger,
		api:             client,
		identity:        identity.New(store, logger),
		results:         results.NewStore(store),
		telemetry:       telemetry.New(config.AnalyticsEnabled, client, logger),
		shutdownTracing: shutdown,
	}
}

// openStorage falls back to process memory when no directory is usable.
func openStorage(config *Config, logger *zap.Logger) storage.Storage {
	dir := config.StorageDir
	if dir == "" {
		var err error
		dir, err = storage.DefaultDir()
		if err != nil {
			logger.Warn("no storage directory available, results will not be kept", zap.Error(err))
			return storage.NewMemory()
		}
	}

	logger.Debug("using local storage", zap.String("dir", dir))
	return storage.NewFile(dir)
}

func (d *deps) exporter() *report.Exporter {
	converter := pdf.NewChromeDPConverter(d.config.PDF.ChromeURL, d.config.PDF.Timeout)
	return report.NewExporter(d.api, converter, d.logger)
}

func (d *deps) close() {
	if !d.telemetry.Flush(telemetryFlushTimeout) {
		d.logger.Debug("telemetry events still pending at exit")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.shutdownTracing(ctx); err != nil {
		d.logger.Debug("shutting down tracing", zap.Error(err))
	}

	_ = d.logger.Sync()
}

// fatal releases resources first since zap's Fatal exits immediately.
func (d *deps) fatal(msg string, fields ...zap.Field) {
	d.close()
	d.logger.Fatal(msg, fields...)
}
