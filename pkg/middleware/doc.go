// Package middleware provides observability middleware for routemark
// servers.
//
// This package includes:
//   - Prometheus metrics middleware for HTTP traffic and document loads
//   - OpenTelemetry distributed tracing middleware
//
// Both middlewares label and name their telemetry by the matched route
// pattern rather than the raw request path, keeping cardinality bounded
// no matter what clients request.
//
// # Prometheus Metrics
//
// The Prometheus middleware collects metrics about a routemark server:
//   - routemark_requests_total: Requests by route pattern and status
//   - routemark_request_duration_seconds: Request duration histogram
//   - routemark_navigations_total: Hub navigations by kind
//   - routemark_doc_loads_total: Document loads by source and outcome
//   - routemark_doc_load_duration_seconds: Document load duration
//   - routemark_reloads_total: Live reload broadcasts
//   - routemark_active_listeners: Currently registered hub listeners
//
//	r.Use(middleware.Prometheus(app.RoutePatterns()))
//
// Then expose the scrape endpoint:
//
//	r.Handle("/metrics", promhttp.Handler())
//
// # OpenTelemetry Middleware
//
// The OpenTelemetry middleware opens a server span per request, named
// after the method and matched pattern, and stores the span context on
// the request so document fetches inherit the trace:
//
//	r.Use(middleware.OpenTelemetry(app.RoutePatterns(),
//	    middleware.WithTracerName("my-site"),
//	    middleware.WithFilter(func(r *http.Request) bool {
//	        return r.URL.Path != "/healthz"
//	    }),
//	))
//
// The tracer uses the global OpenTelemetry tracer provider. Configure it
// in main() before starting the server:
//
//	tp := sdktrace.NewTracerProvider(
//	    sdktrace.WithBatcher(exporter),
//	)
//	otel.SetTracerProvider(tp)
package middleware
