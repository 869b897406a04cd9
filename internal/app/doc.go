// Package app wires the web application together: configuration,
// logging, OpenTelemetry, the diagnosis service and the HTTP server
// with graceful shutdown.
package app
