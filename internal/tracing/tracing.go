package tracing

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.uber.org/zap"
)

const (
	ProtocolGRPC = "grpc"
	ProtocolHTTP = "http/protobuf"
)

type Config struct {
	Enabled     bool    `mapstructure:"enabled"`
	Protocol    string  `mapstructure:"protocol"`
	ServiceName string  `mapstructure:"service-name"`
	SampleRatio float64 `mapstructure:"sample-ratio"`
}

// Shutdown flushes and stops the tracer provider.
type Shutdown func(context.Context) error

func noop(context.Context) error { return nil }

func setPropagator() {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
}

// Init installs a global tracer provider exporting over OTLP.
// Endpoints come from the standard OTEL_EXPORTER_OTLP_* variables.
// An exporter that cannot be built leaves tracing off instead of failing startup.
func Init(ctx context.Context, cfg Config, logger *zap.Logger) (Shutdown, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	setPropagator()
	if !cfg.Enabled {
		logger.Debug("tracing configured", zap.Bool("tracing_enabled", false))
		return noop, nil
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "doesmyresumematch"
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String(serviceName)),
		resource.WithFromEnv(),
		resource.WithProcess(),
		resource.WithTelemetrySDK(),
		resource.WithHost(),
	)
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	exporter, err := newExporter(ctx, cfg.Protocol)
	if err != nil {
		logger.Error("tracing init failed", zap.Error(err))
		return noop, nil
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(Sampler(cfg.SampleRatio)),
	)
	otel.SetTracerProvider(tp)

	logger.Info("tracing configured",
		zap.Bool("tracing_enabled", true),
		zap.String("otlp_protocol", protocolOrDefault(cfg.Protocol)),
		zap.String("service", serviceName),
		zap.String("sampler", SamplerName(cfg.SampleRatio)),
	)

	return tp.Shutdown, nil
}

func protocolOrDefault(protocol string) string {
	protocol = strings.TrimSpace(protocol)
	if protocol == "" {
		return ProtocolGRPC
	}
	return protocol
}

func newExporter(ctx context.Context, protocol string) (*otlptrace.Exporter, error) {
	switch p := protocolOrDefault(protocol); p {
	case ProtocolGRPC:
		return otlptracegrpc.New(ctx)
	case ProtocolHTTP:
		return otlptracehttp.New(ctx)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol: %s", p)
	}
}

// Sampler samples the given ratio of new traces and follows the parent otherwise.
// Ratios outside (0,1) sample everything.
func Sampler(ratio float64) sdktrace.Sampler {
	if ratio <= 0 || ratio >= 1 {
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
}

// SamplerName is a readable form of the sampler choice for logs.
func SamplerName(ratio float64) string {
	if ratio <= 0 || ratio >= 1 {
		return "parentbased_always_on"
	}
	return "parentbased_traceidratio:" + strconv.FormatFloat(ratio, 'f', -1, 64)
}
