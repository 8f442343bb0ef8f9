package output

import (
	"fmt"
	"strings"
)

// Battery voltage range reported by the tracking devices.
const (
	BatteryMinVolts = 2.0
	BatteryMaxVolts = 5.0
)

// BatteryPercent maps a battery voltage onto 0..100.
func BatteryPercent(volts float64) float64 {
	p := (volts - BatteryMinVolts) / (BatteryMaxVolts - BatteryMinVolts) * 100
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

// Gauge draws a fixed-width bar for a fraction in [0, 1].
type Gauge struct {
	Width int
}

// DefaultGauge is wide enough to read at a glance inside a table cell.
var DefaultGauge = Gauge{Width: 10}

// Render draws the bar. Fractions outside [0, 1] are clamped.
func (g Gauge) Render(fraction float64) string {
	width := g.Width
	if width <= 0 {
		width = DefaultGauge.Width
	}
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	filled := int(float64(width)*fraction + 0.5)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// Battery renders "3.70V [██████░░░░]  57%" for a reading.
func (g Gauge) Battery(volts float64) string {
	pct := BatteryPercent(volts)
	return fmt.Sprintf("%.2fV [%s] %3.0f%%", volts, g.Render(pct/100), pct)
}
