// Package connection is the single path through which shiptrack-cli
// talks to the shipment API.
//
// Client owns base-URL resolution, bearer-token injection from the
// session, and normalization of every failure into *Error:
//
//   - request.go: Request descriptor
//   - http.go: Client and Do
//   - errors.go: Error and response-body message extraction
//
// Each call is one best-effort attempt. There are no retries and no
// caching; deadlines come from the caller's context.
package connection
