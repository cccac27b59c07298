package trace

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "trading-risk-assistant"

// Version is reported as service.version on every span.
var Version = "dev"

var (
	tracer         trace.Tracer
	tracerProvider *sdktrace.TracerProvider
	spanFile       *os.File
	enabled        bool
)

type settings struct {
	out    io.Writer
	pretty bool
}

type Option func(*settings)

// WithWriter sends spans to w instead of LOG_TRACING_OUTPUT.
func WithWriter(w io.Writer) Option {
	return func(s *settings) {
		s.out = w
	}
}

// WithCompactOutput writes one JSON span per line.
func WithCompactOutput() Option {
	return func(s *settings) {
		s.pretty = false
	}
}

// Init enables tracing when LOG_TRACING_ENABLED is "true". Spans go to
// stderr, or to the file named by LOG_TRACING_OUTPUT, so decision output on
// stdout stays clean.
func Init(opts ...Option) error {
	enabled = getEnv("LOG_TRACING_ENABLED", "false") == "true"
	if !enabled {
		return nil
	}

	s := settings{pretty: true}
	for _, opt := range opts {
		opt(&s)
	}
	if s.out == nil {
		out, err := spanOutput(getEnv("LOG_TRACING_OUTPUT", "stderr"))
		if err != nil {
			enabled = false
			return err
		}
		s.out = out
	}

	exportOpts := []stdouttrace.Option{stdouttrace.WithWriter(s.out)}
	if s.pretty {
		exportOpts = append(exportOpts, stdouttrace.WithPrettyPrint())
	}
	exporter, err := stdouttrace.New(exportOpts...)
	if err != nil {
		enabled = false
		return fmt.Errorf("span exporter: %w", err)
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(Version),
		),
	)
	if err != nil {
		enabled = false
		return fmt.Errorf("span resource: %w", err)
	}

	tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tracerProvider)
	tracer = tracerProvider.Tracer(serviceName)
	return nil
}

func spanOutput(target string) (io.Writer, error) {
	if target == "stderr" {
		return os.Stderr, nil
	}
	f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open span output: %w", err)
	}
	spanFile = f
	return f, nil
}

// Shutdown flushes pending spans and turns tracing off.
func Shutdown(ctx context.Context) error {
	defer func() {
		enabled = false
		tracer = nil
		tracerProvider = nil
	}()
	if tracerProvider == nil {
		return nil
	}
	err := tracerProvider.Shutdown(ctx)
	if spanFile != nil {
		if cerr := spanFile.Close(); err == nil {
			err = cerr
		}
		spanFile = nil
	}
	return err
}

func StartSpan(ctx context.Context, spanName string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	if !enabled || tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, spanName, opts...)
}

func Enabled() bool {
	return enabled
}

func GetTraceFields(ctx context.Context) (traceID, spanID string, ok bool) {
	if !enabled {
		return "", "", false
	}
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return "", "", false
	}
	return sc.TraceID().String(), sc.SpanID().String(), true
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
