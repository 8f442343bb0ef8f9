package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yndnr/shiptrack-go/internal/cli/connection"
	"github.com/yndnr/shiptrack-go/internal/telemetry/logger"
)

// Shipments wraps the shipment endpoints. All calls are authenticated.
type Shipments struct {
	client *connection.Client
}

// NewShipments creates the shipment facade.
func NewShipments(client *connection.Client) *Shipments {
	return &Shipments{client: client}
}

// List returns the current user's shipments.
func (s *Shipments) List(ctx context.Context) ([]Shipment, error) {
	return connection.Do[[]Shipment](ctx, s.client, connection.Request{
		Name:         "shipments.list",
		Path:         "/shipments/all",
		RequiresAuth: true,
	})
}

// Create submits a new shipment.
func (s *Shipments) Create(ctx context.Context, req CreateShipmentRequest) (CreateShipmentResponse, error) {
	return connection.Do[CreateShipmentResponse](ctx, s.client, connection.Request{
		Name:         "shipments.create",
		Path:         "/shipments/create",
		Method:       http.MethodPost,
		Body:         req,
		RequiresAuth: true,
	})
}

// ByDevice returns the shipments tracked by deviceID.
func (s *Shipments) ByDevice(ctx context.Context, deviceID string) ([]Shipment, error) {
	return connection.Do[[]Shipment](ctx, s.client, connection.Request{
		Name:         "shipments.by_device",
		Path:         "/shipments/device/" + url.PathEscape(deviceID),
		RequiresAuth: true,
	})
}

// ByDeviceBestEffort is ByDevice for callers that treat a device's
// shipments as optional. Failures are logged and reported as ok == false.
func (s *Shipments) ByDeviceBestEffort(ctx context.Context, deviceID string) (shipments []Shipment, ok bool) {
	shipments, err := s.ByDevice(ctx, deviceID)
	if err != nil {
		logger.L(ctx).Warn("failed to fetch device shipments", "device_id", deviceID, "error", err)
		return nil, false
	}
	return shipments, true
}

// NewShipmentNumber returns the client-generated shipment number the API
// requires: "SHIP-" followed by Unix milliseconds.
func NewShipmentNumber(now time.Time) string {
	return fmt.Sprintf("SHIP-%d", now.UnixMilli())
}

// ParseRoute splits "Origin -> Destination". Missing parts are empty.
func ParseRoute(s string) Route {
	parts := strings.SplitN(s, "->", 2)
	r := Route{Origin: strings.TrimSpace(parts[0])}
	if len(parts) == 2 {
		r.Destination = strings.TrimSpace(parts[1])
	}
	return r
}
