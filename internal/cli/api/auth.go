package api

import (
	"context"
	"net/http"

	"github.com/yndnr/shiptrack-go/internal/cli/connection"
)

// Auth wraps the public authentication endpoints.
type Auth struct {
	client *connection.Client
}

// NewAuth creates the auth facade.
func NewAuth(client *connection.Client) *Auth {
	return &Auth{client: client}
}

type signupBody struct {
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	RecaptchaToken string `json:"recaptcha_token"`
}

type loginBody struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	RecaptchaToken string `json:"recaptcha_token"`
}

// Signup registers a new user.
func (a *Auth) Signup(ctx context.Context, req SignupRequest) (SignupResponse, error) {
	return connection.Do[SignupResponse](ctx, a.client, connection.Request{
		Name:   "auth.signup",
		Path:   "/auth/signup",
		Method: http.MethodPost,
		Body: signupBody{
			FullName:       req.FullName,
			Email:          req.Email,
			Password:       req.Password,
			RecaptchaToken: req.RecaptchaToken,
		},
	})
}

// Login exchanges credentials for a bearer token. It does not store the
// token; that is the caller's decision.
func (a *Auth) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	return connection.Do[LoginResponse](ctx, a.client, connection.Request{
		Name:   "auth.login",
		Path:   "/auth/login",
		Method: http.MethodPost,
		Body: loginBody{
			Email:          req.Email,
			Password:       req.Password,
			RecaptchaToken: req.RecaptchaToken,
		},
	})
}
