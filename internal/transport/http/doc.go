// Package http contains the HTTP transport layer: chi handlers, the
// router assembly and the service interfaces the handlers depend on.
//
// Handlers follow a consistent pattern:
//
//   - accept an interface, not a concrete service, so tests can stub it
//   - validate and decode the request
//   - delegate to the service with the request context
//   - render JSON responses with go-chi/render, and APIError values
//     (which implement render.Renderer) for failures
//
// All API routes are mounted under /api by NewRouter, which also
// installs the request ID, structured logging, recovery, security
// header, timeout and rate limiting middleware.
package http
