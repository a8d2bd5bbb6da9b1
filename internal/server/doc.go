// Package server exposes the state of a long-running sync over HTTP.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
// [Middleware] wraps handlers in reverse order (last added executes first).
// The [BasicRouter] implementation uses [http.ServeMux] method patterns ("GET /healthz").
//
// # Status Handler
//
// [StatusHandler] keeps the report of the most recent pass and serves:
//
//	GET /healthz  → 200 "ok", or 503 when the last pass returned an error
//	GET /status   → JSON report of the last pass (404 before the first one)
//
// [Serve] runs the HTTP server until its context is cancelled.
package server
