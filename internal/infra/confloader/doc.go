// Package confloader layers configuration from defaults, a YAML file,
// environment variables and explicit overrides using koanf.
//
// Priority (highest to lowest):
//
//  1. Overrides (command-line flags)
//  2. Environment variables
//  3. Configuration file
//  4. Defaults
//
// Environment variables use a double underscore for nesting, so
// SHIPTRACK_SESSION__BACKEND sets session.backend while SHIPTRACK_API_URL
// sets api_url.
package confloader
