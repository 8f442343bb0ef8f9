package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/yndnr/shiptrack-go/internal/cli/connection"
	"github.com/yndnr/shiptrack-go/internal/telemetry/logger"
)

// Pagination defaults shared with the API.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Devices wraps the telemetry endpoints. All calls are authenticated.
type Devices struct {
	client *connection.Client
}

// NewDevices creates the device facade.
func NewDevices(client *connection.Client) *Devices {
	return &Devices{client: client}
}

// List returns one page of readings from all devices.
func (d *Devices) List(ctx context.Context, page, limit int) (Page[DeviceReading], error) {
	return connection.Do[Page[DeviceReading]](ctx, d.client, connection.Request{
		Name:         "data.all",
		Path:         pagePath("/data/all", page, limit),
		RequiresAuth: true,
	})
}

// ByDevice returns one page of readings from deviceID, newest first.
func (d *Devices) ByDevice(ctx context.Context, deviceID string, page, limit int) (Page[DeviceReading], error) {
	return connection.Do[Page[DeviceReading]](ctx, d.client, connection.Request{
		Name:         "data.device",
		Path:         pagePath("/data/device/"+url.PathEscape(deviceID), page, limit),
		RequiresAuth: true,
	})
}

// Latest returns the most recent reading across all devices. The API
// answers with an empty object when there is none.
func (d *Devices) Latest(ctx context.Context) (DeviceReading, error) {
	return connection.Do[DeviceReading](ctx, d.client, connection.Request{
		Name:         "data.latest",
		Path:         "/data/latest",
		RequiresAuth: true,
	})
}

// LatestBestEffort is Latest for callers that treat the latest reading
// as optional. Failures are logged and reported as ok == false.
func (d *Devices) LatestBestEffort(ctx context.Context) (reading DeviceReading, ok bool) {
	reading, err := d.Latest(ctx)
	if err != nil {
		logger.L(ctx).Warn("failed to fetch latest reading", "error", err)
		return DeviceReading{}, false
	}
	if reading.IsZero() {
		return DeviceReading{}, false
	}
	return reading, true
}

func pagePath(base string, page, limit int) string {
	if page <= 0 {
		page = DefaultPage
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return fmt.Sprintf("%s?page=%d&limit=%d", base, page, limit)
}
