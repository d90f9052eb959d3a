// Package tracing is the engine's OpenTelemetry seam: a package-level
// Tracer every component starts spans from, so callers wire a real exporter
// at their application root without the engine importing one directly.
package tracing

import "go.opentelemetry.io/otel"

// InstrumentationName identifies this module's spans to a trace backend.
const InstrumentationName = "github.com/bizrules/jdm"

// Tracer is the package-level tracer handed to otel.Tracer; when no
// TracerProvider has been configured by the host application, otel's
// default no-op implementation makes every span a zero-cost call.
var Tracer = otel.Tracer(InstrumentationName)
