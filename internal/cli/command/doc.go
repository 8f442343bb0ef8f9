// Package command defines the shiptrack-cli command tree.
//
// Each dashboard page maps to a command: "dashboard", "shipment create",
// "device get ID" and so on. Protected commands run behind the route
// guard and refuse to start without a session token. The same tree
// serves single-command mode and the interactive "repl" mode.
package command
