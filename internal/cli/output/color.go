package output

import (
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// All status colors are single SGR codes so colored cells keep equal
// escape widths and tabwriter columns stay aligned.
var (
	statusDelivered = color.New(color.FgGreen)
	statusTransit   = color.New(color.FgBlue)
	statusPending   = color.New(color.FgYellow)
	statusCancelled = color.New(color.FgRed)
	statusUnknown   = color.New(color.FgWhite)
)

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// DisableColor turns off all coloring, e.g. for --no-color.
func DisableColor() {
	color.NoColor = true
}

// StatusColor returns status wrapped in its dashboard color. Matching is
// case-insensitive and by substring, so "In Transit" reads as transit.
func StatusColor(status string) string {
	return statusPainter(status).Sprint(status)
}

func statusPainter(status string) *color.Color {
	s := strings.ToLower(status)
	switch {
	case strings.Contains(s, "delivered"):
		return statusDelivered
	case strings.Contains(s, "transit"):
		return statusTransit
	case strings.Contains(s, "pending"):
		return statusPending
	case strings.Contains(s, "cancelled"):
		return statusCancelled
	default:
		return statusUnknown
	}
}
