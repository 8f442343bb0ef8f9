// Package config defines shiptrack-cli configuration (~/.shiptrack/cli.yaml)
// and turns it into the runtime pieces commands share: the session store
// backend and logger settings.
package config
