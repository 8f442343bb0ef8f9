package guard

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/shiptrack-go/internal/cli/session"
)

// Well-known routes.
const (
	RootRoute           = "/"
	LoginRoute          = "/login"
	SignupRoute         = "/signup"
	DashboardRoute      = "/dashboard"
	CreateShipmentRoute = "/create-shipment"
	DeviceDataRoute     = "/device-data"
	DeviceDetailRoute   = "/device-data/:id"
)

// Access classifies a route.
type Access int

const (
	// Public routes are always reachable.
	Public Access = iota
	// Protected routes require an authenticated session.
	Protected
	// Alias routes always redirect to their target.
	Alias
)

// Route is one entry of the route table.
type Route struct {
	Pattern string
	Access  Access
	Target  string // for Alias
}

// Routes is the navigation table.
var Routes = []Route{
	{Pattern: RootRoute, Access: Alias, Target: LoginRoute},
	{Pattern: LoginRoute, Access: Public},
	{Pattern: SignupRoute, Access: Public},
	{Pattern: DashboardRoute, Access: Protected},
	{Pattern: CreateShipmentRoute, Access: Protected},
	{Pattern: DeviceDataRoute, Access: Protected},
	{Pattern: DeviceDetailRoute, Access: Protected},
}

// Decision is the outcome of a route check.
type Decision struct {
	// RedirectTo is empty when access is allowed.
	RedirectTo string
}

// Allowed reports whether the route may be shown.
func (d Decision) Allowed() bool {
	return d.RedirectTo == ""
}

// Allow lets the navigation proceed.
var Allow = Decision{}

// Redirect sends the navigation to route instead.
func Redirect(route string) Decision {
	return Decision{RedirectTo: route}
}

// RedirectError is returned by Require when a protected command runs
// without a session.
type RedirectError struct {
	From string
	To   string
}

func (e *RedirectError) Error() string {
	if e.From == "" {
		return fmt.Sprintf("not logged in: run 'login' first (redirect to %s)", e.To)
	}
	return fmt.Sprintf("not logged in: %s requires a session (redirect to %s)", e.From, e.To)
}

// Guard checks routes against a session.
type Guard struct {
	session *session.Manager
}

// New creates a guard over sess. A nil session is always anonymous.
func New(sess *session.Manager) *Guard {
	return &Guard{session: sess}
}

// Check decides whether path may be shown. Unknown paths redirect to the
// login route.
func (g *Guard) Check(path string) Decision {
	route, ok := Match(path)
	if !ok {
		return Redirect(LoginRoute)
	}
	switch route.Access {
	case Alias:
		return Redirect(route.Target)
	case Protected:
		if !g.authenticated() {
			return Redirect(LoginRoute)
		}
	}
	return Allow
}

func (g *Guard) authenticated() bool {
	return g != nil && g.session != nil && g.session.IsAuthenticated()
}

// Match finds the route for path. A ":name" pattern segment matches any
// single non-empty path segment.
func Match(path string) (Route, bool) {
	path = normalize(path)
	for _, r := range Routes {
		if matchPattern(r.Pattern, path) {
			return r, true
		}
	}
	return Route{}, false
}

// Param extracts the named parameter of pattern from path.
func Param(pattern, path, name string) (string, bool) {
	path = normalize(path)
	if !matchPattern(pattern, path) {
		return "", false
	}
	ps, xs := strings.Split(pattern, "/"), strings.Split(path, "/")
	for i, seg := range ps {
		if seg == ":"+name {
			return xs[i], true
		}
	}
	return "", false
}

func normalize(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	return path
}

func matchPattern(pattern, path string) bool {
	ps, xs := strings.Split(pattern, "/"), strings.Split(path, "/")
	if len(ps) != len(xs) {
		return false
	}
	for i, seg := range ps {
		if strings.HasPrefix(seg, ":") {
			if xs[i] == "" {
				return false
			}
			continue
		}
		if seg != xs[i] {
			return false
		}
	}
	return true
}

// Require returns a BeforeFunc that blocks a command unless route is
// allowed. The command's action does not run on redirect.
func Require(g *Guard, route string) cli.BeforeFunc {
	return func(c *cli.Context) error {
		if d := g.Check(route); !d.Allowed() {
			return &RedirectError{From: route, To: d.RedirectTo}
		}
		return nil
	}
}
