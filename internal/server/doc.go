// Package server provides the MCP server context, health checks, the
// streamable HTTP server and the dedicated metrics server.
//
// # Key Components
//
// ServerContext carries the Things client and the instrumentation handed
// to every tool handler, along with the read-only switch.
//
// HTTPServer serves the MCP streamable HTTP transport on /mcp next to
// /healthz, /readyz and /healthz/detailed. The detailed endpoint probes
// whether Things is installed and running.
//
// MetricsServer exposes Prometheus metrics on a separate port so
// operational data stays off the MCP listener.
package server
