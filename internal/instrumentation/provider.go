package instrumentation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Provider owns the meter and tracer providers for the process and the
// Metrics recorder built on them.
type Provider struct {
	config     Config
	meters     *sdkmetric.MeterProvider
	tracers    *sdktrace.TracerProvider
	metrics    *Metrics
	prometheus bool
}

// NewProvider builds the exporters named in config and installs the
// providers globally. A disabled config yields a Provider whose Metrics
// record nothing.
func NewProvider(ctx context.Context, config Config) (*Provider, error) {
	if !config.Enabled {
		return &Provider{config: config, metrics: &Metrics{}}, nil
	}
	if config.Service.Name == "" {
		config.Service.Name = DefaultServiceName
	}

	res, err := newResource(ctx, config.Service)
	if err != nil {
		return nil, err
	}

	p := &Provider{config: config}

	reader, err := p.newMetricReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize meter provider: %w", err)
	}
	p.meters = sdkmetric.NewMeterProvider(sdkmetric.WithResource(res), sdkmetric.WithReader(reader))

	tracerOpts, err := p.tracerOptions(ctx)
	if err != nil {
		return nil, errors.Join(
			fmt.Errorf("failed to initialize tracer provider: %w", err),
			p.meters.Shutdown(ctx),
		)
	}
	p.tracers = sdktrace.NewTracerProvider(append(tracerOpts, sdktrace.WithResource(res))...)

	otel.SetMeterProvider(p.meters)
	otel.SetTracerProvider(p.tracers)

	p.metrics, err = NewMetrics(p.meters.Meter(config.Service.Name), config.Metrics.DetailedLabels)
	if err != nil {
		return nil, errors.Join(
			fmt.Errorf("failed to create metrics recorder: %w", err),
			p.Shutdown(ctx),
		)
	}
	return p, nil
}

func newResource(ctx context.Context, svc ServiceConfig) (*resource.Resource, error) {
	version := svc.Version
	if version == "" {
		version = "unknown"
	}
	instance := svc.InstanceID
	if instance == "" {
		instance, _ = os.Hostname()
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceName(svc.Name),
		semconv.ServiceVersion(version),
		semconv.ServiceInstanceID(instance),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return res, nil
}

func (p *Provider) newMetricReader(ctx context.Context) (sdkmetric.Reader, error) {
	switch p.config.Metrics.Exporter {
	case "", ExporterPrometheus:
		exporter, err := prometheus.New()
		if err != nil {
			return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
		}
		p.prometheus = true
		return exporter, nil

	case ExporterOTLP:
		if p.config.OTLP.Endpoint == "" {
			return nil, fmt.Errorf("OTLP endpoint is required for the OTLP metrics exporter")
		}
		opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(p.config.OTLP.Endpoint)}
		if p.config.OTLP.Insecure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
		exporter, err := otlpmetrichttp.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
		}
		return sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(DefaultMetricInterval)), nil

	case ExporterStdout:
		slog.Warn("stdout metrics exporter enabled, output goes to stderr",
			"component", "instrumentation")
		// stdout carries the stdio MCP transport
		exporter, err := stdoutmetric.New(stdoutmetric.WithWriter(os.Stderr))
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout metrics exporter: %w", err)
		}
		return sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(DefaultMetricInterval)), nil

	default:
		return nil, fmt.Errorf("unsupported metrics exporter: %s", p.config.Metrics.Exporter)
	}
}

func (p *Provider) tracerOptions(ctx context.Context) ([]sdktrace.TracerProviderOption, error) {
	var exporter sdktrace.SpanExporter

	switch p.config.Tracing.Exporter {
	case "", ExporterNone:
		return []sdktrace.TracerProviderOption{sdktrace.WithSampler(sdktrace.NeverSample())}, nil

	case ExporterOTLP:
		if p.config.OTLP.Endpoint == "" {
			return nil, fmt.Errorf("OTLP endpoint is required for the OTLP tracing exporter")
		}
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(p.config.OTLP.Endpoint)}
		if p.config.OTLP.Insecure {
			// Span attributes carry hashed task names but tool arguments may
			// still leak through error messages.
			slog.Warn("OTLP traces sent without TLS",
				"component", "instrumentation",
				"endpoint", p.config.OTLP.Endpoint)
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		var err error
		if exporter, err = otlptracehttp.New(ctx, opts...); err != nil {
			return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
		}

	case ExporterStdout:
		slog.Warn("stdout trace exporter enabled, output goes to stderr",
			"component", "instrumentation")
		var err error
		if exporter, err = stdouttrace.New(stdouttrace.WithWriter(os.Stderr)); err != nil {
			return nil, fmt.Errorf("failed to create stdout trace exporter: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported tracing exporter: %s", p.config.Tracing.Exporter)
	}

	return []sdktrace.TracerProviderOption{
		sdktrace.WithBatcher(exporter),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(p.config.Tracing.SampleRate))),
	}, nil
}

// Metrics returns the recorder. It is never nil.
func (p *Provider) Metrics() *Metrics {
	return p.metrics
}

// Enabled reports whether metrics and tracing are active.
func (p *Provider) Enabled() bool {
	return p.meters != nil
}

// HasPrometheusExporter reports whether metrics are exported through the
// global Prometheus registry served by promhttp.
func (p *Provider) HasPrometheusExporter() bool {
	return p.prometheus
}

// Config returns the configuration the provider was created with.
func (p *Provider) Config() Config {
	return p.config
}

// Shutdown flushes pending telemetry.
func (p *Provider) Shutdown(ctx context.Context) error {
	var errs []error
	if p.meters != nil {
		if err := p.meters.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown meter provider: %w", err))
		}
	}
	if p.tracers != nil {
		if err := p.tracers.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown tracer provider: %w", err))
		}
	}
	return errors.Join(errs...)
}
