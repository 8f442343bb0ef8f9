package guard

import (
	"errors"
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/yndnr/shiptrack-go/internal/cli/session"
)

func newSession(t *testing.T, token string) *session.Manager {
	t.Helper()
	sess := session.NewManager(session.NewMemoryStore())
	if token != "" {
		require.NoError(t, sess.SetToken(token))
	}
	return sess
}

func TestGuard_Check(t *testing.T) {
	tests := []struct {
		name          string
		path          string
		authenticated bool
		want          Decision
	}{
		{"root anonymous", "/", false, Redirect(LoginRoute)},
		{"root authenticated", "/", true, Redirect(LoginRoute)},
		{"login public", "/login", false, Allow},
		{"signup public", "/signup", false, Allow},
		{"dashboard anonymous", "/dashboard", false, Redirect(LoginRoute)},
		{"dashboard authenticated", "/dashboard", true, Allow},
		{"create shipment anonymous", "/create-shipment", false, Redirect(LoginRoute)},
		{"device data authenticated", "/device-data", true, Allow},
		{"device detail anonymous", "/device-data/1150", false, Redirect(LoginRoute)},
		{"device detail authenticated", "/device-data/1150", true, Allow},
		{"trailing slash", "/dashboard/", true, Allow},
		{"query ignored", "/device-data?page=2", true, Allow},
		{"unknown", "/nowhere", true, Redirect(LoginRoute)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := ""
			if tt.authenticated {
				token = "tok123"
			}
			g := New(newSession(t, token))
			assert.Equal(t, tt.want, g.Check(tt.path))
		})
	}
}

func TestGuard_FollowsSessionState(t *testing.T) {
	sess := newSession(t, "")
	g := New(sess)

	assert.False(t, g.Check(DashboardRoute).Allowed())

	require.NoError(t, sess.SetToken("tok123"))
	assert.True(t, g.Check(DashboardRoute).Allowed())

	require.NoError(t, sess.Clear())
	assert.False(t, g.Check(DashboardRoute).Allowed())
}

func TestGuard_NilSession(t *testing.T) {
	g := New(nil)
	assert.Equal(t, Redirect(LoginRoute), g.Check(DashboardRoute))
	assert.Equal(t, Allow, g.Check(LoginRoute))
}

func TestParam(t *testing.T) {
	id, ok := Param(DeviceDetailRoute, "/device-data/1150", "id")
	assert.True(t, ok)
	assert.Equal(t, "1150", id)

	_, ok = Param(DeviceDetailRoute, "/device-data", "id")
	assert.False(t, ok)

	_, ok = Param(DeviceDetailRoute, "/device-data/", "id")
	assert.False(t, ok)
}

func TestRequire(t *testing.T) {
	newCtx := func() *cli.Context {
		return cli.NewContext(&cli.App{}, flag.NewFlagSet("test", flag.ContinueOnError), nil)
	}

	sess := newSession(t, "")
	before := Require(New(sess), DashboardRoute)

	err := before(newCtx())
	var redirect *RedirectError
	require.True(t, errors.As(err, &redirect))
	assert.Equal(t, LoginRoute, redirect.To)
	assert.Equal(t, DashboardRoute, redirect.From)
	assert.Contains(t, err.Error(), "not logged in")

	require.NoError(t, sess.SetToken("tok123"))
	assert.NoError(t, before(newCtx()))
}

func TestRequire_BlocksAction(t *testing.T) {
	ran := false
	app := &cli.App{
		Name: "test",
		Commands: []*cli.Command{{
			Name:   "dashboard",
			Before: Require(New(newSession(t, "")), DashboardRoute),
			Action: func(*cli.Context) error {
				ran = true
				return nil
			},
		}},
	}

	err := app.Run([]string{"test", "dashboard"})
	var redirect *RedirectError
	assert.ErrorAs(t, err, &redirect)
	assert.False(t, ran)
}
