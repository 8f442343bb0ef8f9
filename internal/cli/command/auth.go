package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/shiptrack-go/internal/cli/api"
)

// recaptchaFlag carries the solved reCAPTCHA challenge. The terminal cannot
// render the widget, so the token is obtained in a browser.
func recaptchaFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "recaptcha-token",
		Aliases: []string{"r"},
		Usage:   "Solved reCAPTCHA response token",
		EnvVars: []string{"SHIPTRACK_RECAPTCHA_TOKEN"},
	}
}

// SignupCommand returns the signup command.
func SignupCommand() *cli.Command {
	return &cli.Command{
		Name:  "signup",
		Usage: "Create an account",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "full-name", Aliases: []string{"n"}, Usage: "Full name"},
			&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Email address"},
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Password"},
			&cli.StringFlag{Name: "confirm-password", Usage: "Password again"},
			recaptchaFlag(),
		},
		Action: signup,
	}
}

func signup(c *cli.Context) error {
	rt, err := mustRuntime(c)
	if err != nil {
		return err
	}

	req := api.SignupRequest{
		FullName: rt.valueOrPrompt(c, "full-name", "Full name"),
		Email:    rt.valueOrPrompt(c, "email", "Email"),
		Password: rt.valueOrPrompt(c, "password", "Password"),
	}
	for _, check := range []error{
		required(req.FullName, "full name"),
		required(req.Email, "email"),
		required(req.Password, "password"),
	} {
		if check != nil {
			return check
		}
	}

	confirm := c.String("confirm-password")
	if !c.IsSet("password") && confirm == "" {
		confirm = rt.valueOrPrompt(c, "confirm-password", "Confirm password")
	}
	if confirm != "" && confirm != req.Password {
		return fmt.Errorf("passwords do not match")
	}

	if req.RecaptchaToken, err = rt.recaptchaToken(c); err != nil {
		return err
	}

	ctx, cancel := rt.requestContext(c)
	defer cancel()

	resp, err := api.NewAuth(rt.Client).Signup(ctx, req)
	if err != nil {
		return err
	}

	if rt.structured(c) {
		return rt.render(c, nil, resp)
	}
	fmt.Fprintf(rt.Out, "✓ Account created for %s. Run 'login' to continue.\n", req.Email)
	return nil
}

// LoginCommand returns the login command.
func LoginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Log in and store the session token",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Email address"},
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Password"},
			recaptchaFlag(),
			&cli.BoolFlag{Name: "no-dashboard", Usage: "Do not show the dashboard after logging in"},
		},
		Action: login,
	}
}

func login(c *cli.Context) error {
	rt, err := mustRuntime(c)
	if err != nil {
		return err
	}

	req := api.LoginRequest{
		Email:    rt.valueOrPrompt(c, "email", "Email"),
		Password: rt.valueOrPrompt(c, "password", "Password"),
	}
	if err := required(req.Email, "email"); err != nil {
		return err
	}
	if err := required(req.Password, "password"); err != nil {
		return err
	}
	if req.RecaptchaToken, err = rt.recaptchaToken(c); err != nil {
		return err
	}

	ctx, cancel := rt.requestContext(c)
	defer cancel()

	resp, err := api.NewAuth(rt.Client).Login(ctx, req)
	if err != nil {
		return err
	}
	if err := rt.Session.SetToken(resp.AccessToken); err != nil {
		return err
	}
	rt.Logger.Info("logged in", "email", req.Email, "expires_in", resp.ExpiresIn)

	if rt.structured(c) {
		return rt.render(c, nil, map[string]any{
			"state":      rt.Session.State().String(),
			"email":      req.Email,
			"token_type": resp.TokenType,
			"expires_in": resp.ExpiresIn,
		})
	}

	fmt.Fprintf(rt.Out, "✓ Logged in as %s\n", req.Email)
	if c.Bool("no-dashboard") {
		return nil
	}
	fmt.Fprintln(rt.Out)
	return showDashboard(c, rt)
}

// recaptchaToken returns the solved challenge or explains how to get one.
func (rt *Runtime) recaptchaToken(c *cli.Context) (string, error) {
	token := rt.valueOrPrompt(c, "recaptcha-token", "reCAPTCHA token")
	if token != "" {
		return token, nil
	}
	if key := rt.Config.RecaptchaSiteKey; key != "" {
		return "", fmt.Errorf("please verify you're not a robot: solve the reCAPTCHA for site key %s and pass --recaptcha-token", key)
	}
	return "", fmt.Errorf("please verify you're not a robot: pass --recaptcha-token")
}

// LogoutCommand returns the logout command.
func LogoutCommand() *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "Discard the stored session token",
		Action: logout,
	}
}

func logout(c *cli.Context) error {
	rt, err := mustRuntime(c)
	if err != nil {
		return err
	}
	if err := rt.Session.Clear(); err != nil {
		return err
	}
	rt.printf(c, "✓ Logged out\n")
	if rt.structured(c) {
		return rt.render(c, nil, map[string]string{"state": rt.Session.State().String()})
	}
	return nil
}

// StatusCommand returns the status command.
func StatusCommand() *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Show session state",
		Action: status,
	}
}

type statusView struct {
	State          string `json:"state"`
	APIURL         string `json:"api_url"`
	SessionBackend string `json:"session_backend"`
	SessionPath    string `json:"session_path,omitempty"`
}

func status(c *cli.Context) error {
	rt, err := mustRuntime(c)
	if err != nil {
		return err
	}
	view := statusView{
		State:          rt.Session.State().String(),
		APIURL:         rt.Client.BaseURL(),
		SessionBackend: rt.Config.Session.Backend,
		SessionPath:    rt.Config.SessionPath(),
	}
	return rt.render(c, nil, view)
}
