// Package output renders command results for shiptrack-cli.
//
//   - formatter.go: Formatter interface and factory
//   - table.go: table rendering with wide mode support
//   - json.go, yaml.go: machine-readable output
//   - gauge.go: battery gauge for telemetry readings
//   - color.go: shipment status colors
//   - spinner.go: progress animation for slow fetches
//
// Color and animation are only used when the target is a terminal.
package output
