// Package instrumentation wires OpenTelemetry metrics, tracing and the
// tool audit log.
//
// # Metrics
//
//   - http_requests_total, http_request_duration_seconds: streamable HTTP
//     requests by method, path and status
//   - applescript_executions_total, applescript_execution_duration_seconds:
//     interpreter runs by operation and status, plus list with
//     telemetry.metrics.detailed_labels
//   - mcp_tool_invocations_total, mcp_tool_duration_seconds: tool calls by
//     tool and status
//
// # Tracing
//
// Each tool call gets a server span tool.<name>; each interpreter run a
// client span applescript.<operation>. Task titles only ever appear hashed.
//
// # Configuration
//
// The telemetry section of the config file maps onto Config:
//
//	telemetry:
//	  enabled: true
//	  metrics:
//	    exporter: prometheus   # prometheus, otlp or stdout
//	  tracing:
//	    exporter: otlp         # otlp, stdout or none
//	    sample_rate: 0.1
//	  otlp:
//	    endpoint: localhost:4318
//	  audit:
//	    include_task_names: false
//
// The stdout exporters write to stderr so they never interleave with the
// stdio transport.
package instrumentation
