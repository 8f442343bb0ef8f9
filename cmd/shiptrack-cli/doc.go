// Package main provides the entry point for shiptrack-cli.
//
// The CLI gives terminal access to the shipment tracking API:
//
//   - Account signup, login and logout with a persisted session token
//   - The dashboard: all shipments plus recent device readings
//   - Shipment creation and per-device shipment lookup
//   - Paginated device telemetry, with a polling watch mode
//
// Usage:
//
//	shiptrack-cli [global flags] command [flags] [args]
//	shiptrack-cli login --email ada@example.com --recaptcha-token TOKEN
//	shiptrack-cli -o json device get 1150 --page 2
//	shiptrack-cli repl
//
// Commands that need a session refuse to run while logged out; in the
// shell they redirect to login and then retry.
package main
