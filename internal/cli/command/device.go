package command

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/shiptrack-go/internal/cli/api"
	"github.com/yndnr/shiptrack-go/internal/cli/guard"
	"github.com/yndnr/shiptrack-go/internal/infra/shutdown"
	"github.com/yndnr/shiptrack-go/internal/telemetry/logger"
)

// DeviceCommand returns the device subcommand group.
func DeviceCommand() *cli.Command {
	return &cli.Command{
		Name:    "device",
		Aliases: []string{"dev"},
		Usage:   "Browse device telemetry",
		Subcommands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List readings from all devices",
				Flags:   pageFlags(),
				Before:  protected(guard.DeviceDataRoute),
				Action:  deviceList,
			},
			{
				Name:      "get",
				Usage:     "List readings from one device",
				ArgsUsage: "DEVICE_ID",
				Flags:     pageFlags(),
				Before:    protected(guard.DeviceDetailRoute),
				Action:    deviceGet,
			},
			{
				Name:   "latest",
				Usage:  "Show the most recent reading",
				Before: protected(guard.DeviceDataRoute),
				Action: deviceLatest,
			},
			{
				Name:      "watch",
				Usage:     "Poll a device and print new readings until interrupted",
				ArgsUsage: "DEVICE_ID",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:    "interval",
						Aliases: []string{"i"},
						Value:   5 * time.Second,
						Usage:   "Polling interval",
					},
					&cli.IntFlag{
						Name:  "count",
						Usage: "Stop after this many polls (0 = until interrupted)",
					},
				},
				Before: protected(guard.DeviceDetailRoute),
				Action: deviceWatch,
			},
		},
	}
}

func pageFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "page",
			Aliases: []string{"p"},
			Value:   api.DefaultPage,
			Usage:   "Page number",
		},
		&cli.IntFlag{
			Name:    "limit",
			Aliases: []string{"l"},
			Value:   api.DefaultLimit,
			Usage:   fmt.Sprintf("Page size (max %d)", api.MaxLimit),
		},
	}
}

func pageArgs(c *cli.Context) (page, limit int, err error) {
	page, limit = c.Int("page"), c.Int("limit")
	if page < 1 {
		return 0, 0, fmt.Errorf("invalid page %d: must be at least 1", page)
	}
	if limit < 1 || limit > api.MaxLimit {
		return 0, 0, fmt.Errorf("invalid limit %d: must be between 1 and %d", limit, api.MaxLimit)
	}
	return page, limit, nil
}

type devicePage struct {
	Latest    *api.DeviceReading          `json:"latest"`
	Shipments []api.Shipment              `json:"shipments,omitempty"`
	Page      api.Page[api.DeviceReading] `json:"page"`
}

// showDevicePage renders a page of readings with the latest reading on
// top, the way the device data page does. The latest reading is optional,
// as are the shipments of a single device.
func showDevicePage(ctx context.Context, c *cli.Context, rt *Runtime, page api.Page[api.DeviceReading], shipments []api.Shipment) error {
	devices := api.NewDevices(rt.Client)
	latest, hasLatest := devices.LatestBestEffort(ctx)

	if rt.structured(c) {
		view := devicePage{Page: page, Shipments: shipments}
		if hasLatest {
			view.Latest = &latest
		}
		return rt.render(c, nil, view)
	}

	if hasLatest {
		fmt.Fprintln(rt.Out, latestLine(latest))
		fmt.Fprintln(rt.Out)
	}
	if len(shipments) > 0 {
		fmt.Fprintf(rt.Out, "Shipments (%d)\n", len(shipments))
		if err := shipmentTable(shipments).Table(c.Bool("wide")).Render(rt.Out); err != nil {
			return err
		}
		fmt.Fprintln(rt.Out)
	}
	if len(page.Data) == 0 {
		fmt.Fprintln(rt.Out, "No device data found.")
	} else if err := readingTable(page.Data).Table(c.Bool("wide")).Render(rt.Out); err != nil {
		return err
	}
	fmt.Fprintln(rt.Out, pageLine(page))
	return nil
}

func deviceList(c *cli.Context) error {
	rt, err := mustRuntime(c)
	if err != nil {
		return err
	}
	page, limit, err := pageArgs(c)
	if err != nil {
		return err
	}

	ctx, cancel := rt.requestContext(c)
	defer cancel()

	result, err := api.NewDevices(rt.Client).List(ctx, page, limit)
	if err != nil {
		return err
	}
	return showDevicePage(ctx, c, rt, result, nil)
}

func deviceGet(c *cli.Context) error {
	rt, err := mustRuntime(c)
	if err != nil {
		return err
	}
	deviceID := c.Args().First()
	if err := required(deviceID, "DEVICE_ID"); err != nil {
		return err
	}
	page, limit, err := pageArgs(c)
	if err != nil {
		return err
	}

	ctx, cancel := rt.requestContext(c)
	defer cancel()

	result, err := api.NewDevices(rt.Client).ByDevice(ctx, deviceID, page, limit)
	if err != nil {
		return err
	}
	shipments, _ := api.NewShipments(rt.Client).ByDeviceBestEffort(ctx, deviceID)
	return showDevicePage(ctx, c, rt, result, shipments)
}

func deviceLatest(c *cli.Context) error {
	rt, err := mustRuntime(c)
	if err != nil {
		return err
	}

	ctx, cancel := rt.requestContext(c)
	defer cancel()

	reading, err := api.NewDevices(rt.Client).Latest(ctx)
	if err != nil {
		return err
	}
	if reading.IsZero() {
		if rt.structured(c) {
			return rt.render(c, nil, nil)
		}
		fmt.Fprintln(rt.Out, "No readings yet.")
		return nil
	}
	return rt.render(c, readingTable{reading}, reading)
}

// deviceWatch polls the newest reading of a device and prints each new
// one. Poll failures are reported and polling continues; SIGINT or
// SIGTERM ends the watch cleanly.
func deviceWatch(c *cli.Context) error {
	rt, err := mustRuntime(c)
	if err != nil {
		return err
	}
	deviceID := c.Args().First()
	if err := required(deviceID, "DEVICE_ID"); err != nil {
		return err
	}
	interval := c.Duration("interval")
	if interval <= 0 {
		return fmt.Errorf("invalid interval %s: must be positive", interval)
	}
	maxPolls := c.Int("count")

	parent := c.Context
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := shutdown.WithSignals(logger.WithLogger(parent, rt.Logger))
	defer stop()

	devices := api.NewDevices(rt.Client)
	rt.printf(c, "Watching device %s every %s (Ctrl+C to stop)\n", deviceID, interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastID string
	for polls := 0; maxPolls == 0 || polls < maxPolls; polls++ {
		if polls > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
		}

		pollCtx, cancel := context.WithTimeout(ctx, requestTimeout)
		page, err := devices.ByDevice(pollCtx, deviceID, 1, 1)
		cancel()
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			fmt.Fprintf(rt.ErrOut, "error: %v\n", err)
			continue
		}
		if len(page.Data) == 0 || page.Data[0].ID == lastID {
			continue
		}

		reading := page.Data[0]
		lastID = reading.ID
		if err := rt.render(c, readingTable{reading}, reading); err != nil {
			return err
		}
	}
	return nil
}
