package observability

import "go.opentelemetry.io/otel"

// Tracer uses the global provider; it is a no-op until the host installs one.
var Tracer = otel.Tracer("unusedargs")
