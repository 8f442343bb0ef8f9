package command

import (
	"encoding/json"
	"net/http"
	"reflect"
	"strings"
	"testing"
)

func emptyDashboard(server *mockServer) {
	server.respond(http.MethodGet, "/shipments/all", http.StatusOK, []any{})
	server.respond(http.MethodGet, "/data/all", http.StatusOK, map[string]any{
		"data": []any{}, "total": 0, "page": 1, "limit": dashboardReadings, "total_pages": 0,
	})
}

func TestLogin_StoresTokenAndShowsDashboard(t *testing.T) {
	server := newMockServer(t)
	var body map[string]any
	server.handle(http.MethodPost, "/auth/login", func(w http.ResponseWriter, r *http.Request) {
		body = decodeBody(t, r)
		jsonResponse(w, http.StatusOK, map[string]any{
			"access_token": "tok123", "token_type": "bearer", "expires_in": 3600,
		})
	})
	emptyDashboard(server)

	rt, out := newTestRuntime(t, server.URL)
	err := runCLI(rt, "login", "--email", "ada@example.com", "--password", "pw", "--recaptcha-token", "cap")
	if err != nil {
		t.Fatalf("login error = %v", err)
	}

	wantBody := map[string]any{"email": "ada@example.com", "password": "pw", "recaptcha_token": "cap"}
	if !reflect.DeepEqual(body, wantBody) {
		t.Errorf("login body = %v, want %v", body, wantBody)
	}
	if token, ok := rt.Session.Token(); !ok || token != "tok123" {
		t.Errorf("session token = %q, %v; want tok123", token, ok)
	}

	got := out.String()
	for _, want := range []string{
		"✓ Logged in as ada@example.com",
		"Shipments (0)",
		"No shipments found. Create one with 'shipment create'.",
		"No device data available.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}

	for _, r := range server.received() {
		if r.URL.Path == "/shipments/all" && r.Header.Get("Authorization") != "Bearer tok123" {
			t.Errorf("dashboard Authorization = %q", r.Header.Get("Authorization"))
		}
	}
}

func TestLogin_NoDashboard(t *testing.T) {
	server := newMockServer(t)
	server.respond(http.MethodPost, "/auth/login", http.StatusOK, map[string]any{"access_token": "tok123"})

	rt, out := newTestRuntime(t, server.URL)
	err := runCLI(rt, "login", "-e", "ada@example.com", "-p", "pw", "-r", "cap", "--no-dashboard")
	if err != nil {
		t.Fatalf("login error = %v", err)
	}
	if strings.Contains(out.String(), "Shipments") {
		t.Errorf("dashboard shown with --no-dashboard:\n%s", out.String())
	}
	if n := len(server.received()); n != 1 {
		t.Errorf("server received %d requests, want 1", n)
	}
}

func TestLogin_PromptsForMissingFields(t *testing.T) {
	server := newMockServer(t)
	server.respond(http.MethodPost, "/auth/login", http.StatusOK, map[string]any{"access_token": "tok123"})

	rt, _ := newTestRuntime(t, server.URL)
	prompter := &scriptedPrompter{answers: []string{"ada@example.com", "pw", "cap"}}
	rt.Prompt = prompter

	if err := runCLI(rt, "login", "--no-dashboard"); err != nil {
		t.Fatalf("login error = %v", err)
	}
	want := []string{"Email", "Password", "reCAPTCHA token"}
	if !reflect.DeepEqual(prompter.asked, want) {
		t.Errorf("asked = %v, want %v", prompter.asked, want)
	}
	if !rt.Session.IsAuthenticated() {
		t.Error("session should be authenticated")
	}
}

func TestLogin_RequiresRecaptcha(t *testing.T) {
	t.Setenv("SHIPTRACK_RECAPTCHA_TOKEN", "")
	server := newMockServer(t)

	rt, _ := newTestRuntime(t, server.URL)
	err := runCLI(rt, "login", "-e", "ada@example.com", "-p", "pw")

	if msg := errMessage(t, err); !strings.Contains(msg, "please verify you're not a robot") {
		t.Errorf("error = %q", msg)
	}
	if n := len(server.received()); n != 0 {
		t.Errorf("server received %d requests, want 0", n)
	}
}

func TestLogin_Rejected(t *testing.T) {
	server := newMockServer(t)
	server.handle(http.MethodPost, "/auth/login", func(w http.ResponseWriter, _ *http.Request) {
		errorResponse(w, http.StatusUnauthorized, "Invalid email or password")
	})

	rt, _ := newTestRuntime(t, server.URL)
	err := runCLI(rt, "login", "-e", "ada@example.com", "-p", "wrong", "-r", "cap")

	if msg := errMessage(t, err); msg != "Invalid email or password" {
		t.Errorf("error = %q, want %q", msg, "Invalid email or password")
	}
	if rt.Session.IsAuthenticated() {
		t.Error("session should stay anonymous")
	}
}

func TestLogin_JSONOutput(t *testing.T) {
	server := newMockServer(t)
	server.respond(http.MethodPost, "/auth/login", http.StatusOK, map[string]any{
		"access_token": "tok123", "token_type": "bearer", "expires_in": 60,
	})

	rt, out := newTestRuntime(t, server.URL)
	if err := runCLI(rt, "-o", "json", "login", "-e", "ada@example.com", "-p", "pw", "-r", "cap"); err != nil {
		t.Fatalf("login error = %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("decode %q: %v", out.String(), err)
	}
	if got["state"] != "authenticated" || got["email"] != "ada@example.com" {
		t.Errorf("output = %v", got)
	}
	if _, leaked := got["access_token"]; leaked {
		t.Error("token must not be printed")
	}
}

func TestSignup(t *testing.T) {
	server := newMockServer(t)
	var body map[string]any
	server.handle(http.MethodPost, "/auth/signup", func(w http.ResponseWriter, r *http.Request) {
		body = decodeBody(t, r)
		jsonResponse(w, http.StatusOK, map[string]any{"message": "User created successfully", "user_id": "u1"})
	})

	rt, out := newTestRuntime(t, server.URL)
	rt.Prompt = &scriptedPrompter{answers: []string{"Ada Lovelace", "ada@example.com", "pw", "pw", "cap"}}

	if err := runCLI(rt, "signup"); err != nil {
		t.Fatalf("signup error = %v", err)
	}

	want := map[string]any{
		"full_name": "Ada Lovelace", "email": "ada@example.com",
		"password": "pw", "recaptcha_token": "cap",
	}
	if !reflect.DeepEqual(body, want) {
		t.Errorf("signup body = %v, want %v", body, want)
	}
	if !strings.Contains(out.String(), "✓ Account created for ada@example.com") {
		t.Errorf("output = %q", out.String())
	}
	if rt.Session.IsAuthenticated() {
		t.Error("signup must not log in")
	}
}

func TestSignup_PasswordMismatch(t *testing.T) {
	server := newMockServer(t)

	rt, _ := newTestRuntime(t, server.URL)
	err := runCLI(rt, "signup", "-n", "Ada", "-e", "ada@example.com",
		"-p", "pw", "--confirm-password", "other", "-r", "cap")

	if msg := errMessage(t, err); msg != "passwords do not match" {
		t.Errorf("error = %q", msg)
	}
	if n := len(server.received()); n != 0 {
		t.Errorf("server received %d requests, want 0", n)
	}
}

func TestSignup_Duplicate(t *testing.T) {
	server := newMockServer(t)
	server.handle(http.MethodPost, "/auth/signup", func(w http.ResponseWriter, _ *http.Request) {
		errorResponse(w, http.StatusBadRequest, "Email already registered")
	})

	rt, _ := newTestRuntime(t, server.URL)
	err := runCLI(rt, "signup", "-n", "Ada", "-e", "ada@example.com", "-p", "pw", "-r", "cap")

	if msg := errMessage(t, err); msg != "Email already registered" {
		t.Errorf("error = %q", msg)
	}
}

func TestLogout(t *testing.T) {
	rt, out := newTestRuntime(t, "http://127.0.0.1:9")
	loggedIn(t, rt)

	if err := runCLI(rt, "logout"); err != nil {
		t.Fatalf("logout error = %v", err)
	}
	if rt.Session.IsAuthenticated() {
		t.Error("session should be anonymous after logout")
	}
	if !strings.Contains(out.String(), "✓ Logged out") {
		t.Errorf("output = %q", out.String())
	}

	// Logging out twice is harmless.
	if err := runCLI(rt, "logout"); err != nil {
		t.Errorf("second logout error = %v", err)
	}
}

func TestStatus(t *testing.T) {
	rt, out := newTestRuntime(t, "http://127.0.0.1:9")
	loggedIn(t, rt)

	if err := runCLI(rt, "-o", "json", "status"); err != nil {
		t.Fatalf("status error = %v", err)
	}
	var got statusView
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("decode %q: %v", out.String(), err)
	}
	if got.State != "authenticated" || got.SessionBackend != "memory" {
		t.Errorf("status = %+v", got)
	}
}
