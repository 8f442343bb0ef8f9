// Package guard gates protected routes on the presence of a session token.
//
// Routes are the dashboard's navigation targets ("/dashboard",
// "/device-data/:id"); commands map onto them one to one. The guard is
// stateless: it only asks the session whether a token exists and never
// validates it with the server.
package guard
