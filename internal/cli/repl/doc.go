// Package repl provides the interactive mode of shiptrack-cli.
//
// Every line is split shell-style and executed through the same command
// tree as single-command mode. Lines starting with "/" navigate to a
// dashboard route. When a protected command is refused the REPL follows
// the redirect to the login route and, once logged in, retries the line.
package repl
