package command

import (
	"context"
	"fmt"
	"sync"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/shiptrack-go/internal/cli/api"
	"github.com/yndnr/shiptrack-go/internal/cli/guard"
	"github.com/yndnr/shiptrack-go/internal/cli/output"
)

// dashboardReadings is how many device readings the dashboard shows.
const dashboardReadings = 20

// DashboardCommand returns the dashboard command.
func DashboardCommand() *cli.Command {
	return &cli.Command{
		Name:    "dashboard",
		Aliases: []string{"dash"},
		Usage:   "Show shipments and recent device readings",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "tab",
				Usage: "Show only one section: shipments, device-data",
			},
		},
		Before: protected(guard.DashboardRoute),
		Action: func(c *cli.Context) error {
			rt, err := mustRuntime(c)
			if err != nil {
				return err
			}
			return showDashboard(c, rt)
		},
	}
}

type dashboardData struct {
	Shipments  []api.Shipment      `json:"shipments"`
	DeviceData []api.DeviceReading `json:"device_data"`
}

// fetchDashboard loads both sections in parallel. Either failure fails
// the whole dashboard; the shipment error is reported first.
func fetchDashboard(ctx context.Context, rt *Runtime) (dashboardData, error) {
	var (
		wg                   sync.WaitGroup
		data                 dashboardData
		shipmentErr, readErr error
		readings             api.Page[api.DeviceReading]
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		data.Shipments, shipmentErr = api.NewShipments(rt.Client).List(ctx)
	}()
	go func() {
		defer wg.Done()
		readings, readErr = api.NewDevices(rt.Client).List(ctx, 1, dashboardReadings)
	}()
	wg.Wait()

	if shipmentErr != nil {
		return dashboardData{}, shipmentErr
	}
	if readErr != nil {
		return dashboardData{}, readErr
	}
	data.DeviceData = readings.Data
	return data, nil
}

func showDashboard(c *cli.Context, rt *Runtime) error {
	tab := c.String("tab")
	switch tab {
	case "", "shipments", "device-data":
	default:
		return fmt.Errorf("invalid tab %q (want shipments or device-data)", tab)
	}

	ctx, cancel := rt.requestContext(c)
	defer cancel()

	spin := output.NewSpinner(rt.ErrOut, "Loading dashboard...")
	spin.Start()
	data, err := fetchDashboard(ctx, rt)
	if err != nil {
		spin.Fail("Dashboard unavailable")
		return err
	}
	spin.Success(fmt.Sprintf("Loaded %d shipments and %d readings", len(data.Shipments), len(data.DeviceData)))

	if rt.structured(c) {
		return rt.render(c, nil, data)
	}

	wide := c.Bool("wide")
	if tab == "" || tab == "shipments" {
		fmt.Fprintf(rt.Out, "Shipments (%d)\n", len(data.Shipments))
		if len(data.Shipments) == 0 {
			fmt.Fprintln(rt.Out, "No shipments found. Create one with 'shipment create'.")
		} else if err := shipmentTable(data.Shipments).Table(wide).Render(rt.Out); err != nil {
			return err
		}
	}
	if tab == "" {
		fmt.Fprintln(rt.Out)
	}
	if tab == "" || tab == "device-data" {
		fmt.Fprintf(rt.Out, "Device data (%d)\n", len(data.DeviceData))
		if len(data.DeviceData) == 0 {
			fmt.Fprintln(rt.Out, "No device data available.")
		} else if err := readingTable(data.DeviceData).Table(wide).Render(rt.Out); err != nil {
			return err
		}
	}
	return nil
}
