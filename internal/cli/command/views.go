package command

import (
	"fmt"
	"strings"

	"github.com/yndnr/shiptrack-go/internal/cli/api"
	"github.com/yndnr/shiptrack-go/internal/cli/output"
)

// shipmentTable lays out shipments like the dashboard's shipment tab.
type shipmentTable []api.Shipment

func (s shipmentTable) Table(wide bool) *output.Table {
	t := output.NewTable("SHIPMENT", "DEVICE", "ROUTE", "STATUS", "CREATED")
	if wide {
		t.Headers = append(t.Headers, "PO", "GOODS", "ID")
	}
	for _, sh := range s {
		row := []string{
			dash(sh.ShipmentNumber),
			dash(sh.DeviceID.String()),
			routeString(sh.Route),
			output.StatusColor(dash(string(sh.Status))),
			sh.CreatedAt.String(),
		}
		if wide {
			row = append(row, dash(sh.PONumber), dash(sh.GoodsType), dash(sh.ID))
		}
		t.AddRow(row...)
	}
	return t
}

// readingTable lays out telemetry readings.
type readingTable []api.DeviceReading

func (r readingTable) Table(wide bool) *output.Table {
	t := output.NewTable("DEVICE", "BATTERY", "TEMP", "ROUTE", "TIMESTAMP")
	if wide {
		t.Headers = append(t.Headers, "ID")
	}
	for _, d := range r {
		row := []string{
			dash(d.DeviceID.String()),
			output.DefaultGauge.Battery(d.BatteryLevel),
			fmt.Sprintf("%.1f°C", d.FirstSensorTemperature),
			routeString(api.Route{Origin: d.RouteFrom, Destination: d.RouteTo}),
			d.Timestamp.String(),
		}
		if wide {
			row = append(row, dash(d.ID))
		}
		t.AddRow(row...)
	}
	return t
}

func routeString(r api.Route) string {
	if r.Origin == "" && r.Destination == "" {
		return "-"
	}
	return dash(r.Origin) + " -> " + dash(r.Destination)
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// latestLine summarizes the most recent reading in one line.
func latestLine(r api.DeviceReading) string {
	return fmt.Sprintf("Latest reading: device %s  %s  %.1f°C  %s  at %s",
		dash(r.DeviceID.String()),
		output.DefaultGauge.Battery(r.BatteryLevel),
		r.FirstSensorTemperature,
		routeString(api.Route{Origin: r.RouteFrom, Destination: r.RouteTo}),
		r.Timestamp.String(),
	)
}

// pageLine is the pagination footer, e.g. "Page 2 of 5 (43 total)".
func pageLine[T any](p api.Page[T]) string {
	totalPages := p.TotalPages
	if totalPages < 1 {
		totalPages = 1
	}
	line := fmt.Sprintf("Page %d of %d (%d total)", p.Page, totalPages, p.Total)
	var hints []string
	if p.HasPrev() {
		hints = append(hints, fmt.Sprintf("--page %d for previous", p.Page-1))
	}
	if p.HasNext() {
		hints = append(hints, fmt.Sprintf("--page %d for next", p.Page+1))
	}
	if len(hints) > 0 {
		line += "  [" + strings.Join(hints, ", ") + "]"
	}
	return line
}
