// Package resources provides MCP resources describing the Things 3
// connection. Resources are read-only data sources that MCP clients can
// fetch without calling a tool:
//
//   - things://status: install and running probes plus read-only mode
//   - things://lists: list names, destination types and date periods
package resources
