// Package api maps each shipment-API operation onto one
// connection.Request.
//
// The facades do no business validation; they only rename fields to the
// wire format and choose path, method and whether the session token is
// sent:
//
//   - auth.go: signup, login (public)
//   - shipment.go: list, create, by device (authenticated)
//   - device.go: paginated readings, latest reading (authenticated)
//   - types.go: typed request and response records
package api
