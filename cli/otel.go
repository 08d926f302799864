package main

import (
	"context"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/adonese/hrportal/hr_fields"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const otelShutdownTimeout = 5 * time.Second

// otelSettings is the tracing setup resolved from config and the standard
// OTEL_* environment variables.
type otelSettings struct {
	Enabled    bool
	Endpoint   string
	Insecure   bool
	Service    string
	Version    string
	SampleRate float64
}

func resolveOTel(cfg hr_fields.PortalConfig) otelSettings {
	endpoint := firstNonEmpty(cfg.OtelEndpoint, os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"))
	s := otelSettings{
		Enabled:    cfg.OtelEnabled || endpoint != "",
		Endpoint:   endpoint,
		Insecure:   cfg.OtelInsecure,
		Service:    firstNonEmpty(cfg.OtelServiceName, os.Getenv("OTEL_SERVICE_NAME"), "hrportal"),
		Version:    firstNonEmpty(cfg.OtelServiceVersion, buildVersion()),
		SampleRate: clamp01(cfg.OtelSampleRate),
	}
	if cfg.IsDebug {
		s.SampleRate = 1
	}
	return s
}

func initOTel(ctx context.Context, cfg hr_fields.PortalConfig, logger *logrus.Logger) {
	s := resolveOTel(cfg)
	if !s.Enabled {
		return
	}

	opts := []otlptracegrpc.Option{}
	if s.Endpoint != "" {
		opts = append(opts, otlptracegrpc.WithEndpoint(s.Endpoint))
	}
	if s.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		logger.WithError(err).Warn("otel trace exporter init failed")
		return
	}

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(s.Service),
		semconv.ServiceVersionKey.String(s.Version),
	))
	if err != nil {
		logger.WithError(err).Warn("otel resource init failed")
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(s.SampleRate))),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	otelEnabled = true
	otelShutdown = tp.Shutdown

	logger.WithFields(logrus.Fields{
		"endpoint":    s.Endpoint,
		"sample_rate": s.SampleRate,
		"service":     s.Service,
		"version":     s.Version,
	}).Info("otel tracing enabled")
}

func buildVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return "dev"
	}
	return info.Main.Version
}

func clamp01(v float64) float64 {
	if v <= 0 {
		return 0.1
	}
	if v > 1 {
		return 1
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
