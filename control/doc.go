// File: control/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Runtime metrics, configuration, logging and debug introspection layer
// for hioload-ring.
//
// Provides concurrent-safe state handling primitives including:
//   - TOML configuration loading with defaults and validation
//   - zap logger construction with optional rotating file output
//   - Metrics counters and gauges
//   - Debug probe registration and state export
package control
