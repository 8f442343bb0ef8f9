// Package session holds the CLI's authentication state.
//
// A Manager owns at most one bearer token and persists it through a
// Store so that a new process starts in whatever state the previous one
// left behind:
//
//   - memory.go: process-local store
//   - file.go: single 0600 file under ~/.shiptrack (default)
//   - badger.go: embedded Badger database
//   - watcher.go: fsnotify watcher for out-of-process logouts
//
// There is no server-side verification; an expired token stays
// Authenticated until the API rejects a call and the caller clears it.
package session
