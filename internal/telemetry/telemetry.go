// Package telemetry builds the process-wide trace provider.
package telemetry

import (
	"fmt"
	"io"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const (
	// ExporterNone records spans, so trace IDs reach the logs, but exports
	// nothing.
	ExporterNone = ""
	// ExporterStdout writes finished spans to w as JSON.
	ExporterStdout = "stdout"

	serviceName = "gh-sms"
)

// NewTracerProvider builds a provider for the named exporter. Callers own the
// provider and must Shutdown it to flush buffered spans.
func NewTracerProvider(exporter string, w io.Writer) (*sdktrace.TracerProvider, error) {
	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", serviceName))),
	}

	switch exporter {
	case ExporterNone:
	case ExporterStdout:
		exp, err := stdouttrace.New(stdouttrace.WithWriter(w))
		if err != nil {
			return nil, fmt.Errorf("creating stdout trace exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exp))
	default:
		return nil, fmt.Errorf("unknown OTEL_EXPORTER %q (want %q or empty)", exporter, ExporterStdout)
	}

	return sdktrace.NewTracerProvider(opts...), nil
}
