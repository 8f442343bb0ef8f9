package command

import (
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/shiptrack-go/internal/cli/api"
	"github.com/yndnr/shiptrack-go/internal/cli/guard"
)

// ShipmentCommand returns the shipment subcommand group.
func ShipmentCommand() *cli.Command {
	return &cli.Command{
		Name:    "shipment",
		Aliases: []string{"ship"},
		Usage:   "Manage shipments",
		Subcommands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List all shipments",
				Before:  protected(guard.DashboardRoute),
				Action:  shipmentList,
			},
			{
				Name:   "create",
				Usage:  "Create a shipment",
				Flags:  shipmentCreateFlags(),
				Before: protected(guard.CreateShipmentRoute),
				Action: shipmentCreate,
			},
			{
				Name:      "device",
				Usage:     "List shipments tracked by a device",
				ArgsUsage: "DEVICE_ID",
				Before:    protected(guard.DeviceDetailRoute),
				Action:    shipmentsByDevice,
			},
		},
	}
}

func shipmentCreateFlags() []cli.Flag {
	statuses := make([]string, len(api.ShipmentStatuses))
	for i, s := range api.ShipmentStatuses {
		statuses[i] = string(s)
	}
	return []cli.Flag{
		&cli.StringFlag{Name: "device-id", Aliases: []string{"d"}, Usage: "Tracking device ID"},
		&cli.StringFlag{Name: "route", Usage: `Route as "Origin -> Destination"`},
		&cli.StringFlag{Name: "origin", Usage: "Route origin (alternative to --route)"},
		&cli.StringFlag{Name: "destination", Usage: "Route destination (alternative to --route)"},
		&cli.StringFlag{Name: "po-number", Usage: "Purchase order number"},
		&cli.StringFlag{Name: "ndc-number", Usage: "NDC number"},
		&cli.StringSliceFlag{Name: "serial-number", Usage: "Serial number of goods (repeatable)"},
		&cli.StringFlag{Name: "container-number", Usage: "Container number"},
		&cli.StringFlag{Name: "goods-type", Usage: "Type of goods"},
		&cli.StringFlag{Name: "expected-delivery-date", Usage: "Expected delivery date (YYYY-MM-DD)"},
		&cli.StringFlag{Name: "delivery-number", Usage: "Delivery number"},
		&cli.StringFlag{Name: "batch-id", Usage: "Batch ID"},
		&cli.StringFlag{Name: "description", Usage: "Shipment description"},
		&cli.StringFlag{
			Name:  "status",
			Value: string(api.StatusInTransit),
			Usage: "Status: " + strings.Join(statuses, ", "),
		},
	}
}

func shipmentList(c *cli.Context) error {
	rt, err := mustRuntime(c)
	if err != nil {
		return err
	}

	ctx, cancel := rt.requestContext(c)
	defer cancel()

	shipments, err := api.NewShipments(rt.Client).List(ctx)
	if err != nil {
		return err
	}
	if len(shipments) == 0 && !rt.structured(c) {
		fmt.Fprintln(rt.Out, "No shipments found.")
		return nil
	}
	return rt.render(c, shipmentTable(shipments), shipments)
}

// buildShipment assembles the create request from flags, prompting for the
// fields the form required.
func buildShipment(c *cli.Context, rt *Runtime, now time.Time) (api.CreateShipmentRequest, error) {
	req := api.CreateShipmentRequest{
		ShipmentNumber:       api.NewShipmentNumber(now),
		DeviceID:             rt.valueOrPrompt(c, "device-id", "Device ID"),
		PONumber:             c.String("po-number"),
		NDCNumber:            c.String("ndc-number"),
		SerialNumbers:        c.StringSlice("serial-number"),
		ContainerNumber:      c.String("container-number"),
		GoodsType:            c.String("goods-type"),
		ExpectedDeliveryDate: c.String("expected-delivery-date"),
		DeliveryNumber:       c.String("delivery-number"),
		BatchID:              c.String("batch-id"),
		Description:          c.String("description"),
		Status:               api.ShipmentStatus(strings.ToLower(c.String("status"))),
	}
	if err := required(req.DeviceID, "device id"); err != nil {
		return req, err
	}

	switch {
	case c.String("origin") != "" || c.String("destination") != "":
		req.Route = api.Route{
			Origin:      strings.TrimSpace(c.String("origin")),
			Destination: strings.TrimSpace(c.String("destination")),
		}
	default:
		req.Route = api.ParseRoute(rt.valueOrPrompt(c, "route", "Route (Origin -> Destination)"))
	}
	if err := required(req.Route.Origin, "route origin"); err != nil {
		return req, err
	}
	if err := required(req.Route.Destination, "route destination"); err != nil {
		return req, err
	}

	if !req.Status.Valid() {
		return req, fmt.Errorf("invalid status %q", req.Status)
	}
	if d := req.ExpectedDeliveryDate; d != "" {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return req, fmt.Errorf("invalid expected delivery date %q: want YYYY-MM-DD", d)
		}
	}
	if req.SerialNumbers == nil {
		req.SerialNumbers = []string{}
	}
	return req, nil
}

func shipmentCreate(c *cli.Context) error {
	rt, err := mustRuntime(c)
	if err != nil {
		return err
	}

	req, err := buildShipment(c, rt, time.Now())
	if err != nil {
		return err
	}

	ctx, cancel := rt.requestContext(c)
	defer cancel()

	resp, err := api.NewShipments(rt.Client).Create(ctx, req)
	if err != nil {
		return err
	}

	if rt.structured(c) {
		return rt.render(c, nil, map[string]string{
			"message":         resp.Message,
			"shipment_id":     resp.ShipmentID,
			"shipment_number": req.ShipmentNumber,
		})
	}
	fmt.Fprintf(rt.Out, "✓ Shipment %s created (id %s)\n", req.ShipmentNumber, resp.ShipmentID)
	return nil
}

func shipmentsByDevice(c *cli.Context) error {
	rt, err := mustRuntime(c)
	if err != nil {
		return err
	}
	deviceID := c.Args().First()
	if err := required(deviceID, "DEVICE_ID"); err != nil {
		return err
	}

	ctx, cancel := rt.requestContext(c)
	defer cancel()

	shipments, err := api.NewShipments(rt.Client).ByDevice(ctx, deviceID)
	if err != nil {
		return err
	}
	if len(shipments) == 0 && !rt.structured(c) {
		fmt.Fprintf(rt.Out, "No shipments found for device %s.\n", deviceID)
		return nil
	}
	return rt.render(c, shipmentTable(shipments), shipments)
}
