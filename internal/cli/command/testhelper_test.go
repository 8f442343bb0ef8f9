package command

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/shiptrack-go/internal/cli/config"
	"github.com/yndnr/shiptrack-go/internal/cli/session"
	"github.com/yndnr/shiptrack-go/internal/telemetry/logger"
)

// mockServer is a fake shipment API. Handlers are keyed by
// "METHOD /path"; unmatched requests get 404.
type mockServer struct {
	*httptest.Server

	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	requests []*http.Request
}

func newMockServer(t *testing.T) *mockServer {
	t.Helper()
	m := &mockServer{handlers: make(map[string]http.HandlerFunc)}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		m.requests = append(m.requests, r.Clone(r.Context()))
		handler, ok := m.handlers[r.Method+" "+r.URL.Path]
		m.mu.Unlock()
		if !ok {
			errorResponse(w, http.StatusNotFound, "Not Found")
			return
		}
		handler(w, r)
	}))
	t.Cleanup(m.Close)
	return m
}

// handle registers a handler for a method and exact path.
func (m *mockServer) handle(method, path string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[method+" "+path] = handler
}

// respond registers a canned JSON response.
func (m *mockServer) respond(method, path string, status int, data any) {
	m.handle(method, path, func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, status, data)
	})
}

// received returns the requests seen so far.
func (m *mockServer) received() []*http.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*http.Request(nil), m.requests...)
}

// jsonResponse writes a JSON response.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// errorResponse writes an error in the API's {"detail": ...} shape.
func errorResponse(w http.ResponseWriter, status int, detail string) {
	jsonResponse(w, status, map[string]string{"detail": detail})
}

// decodeBody reads a JSON request body. It runs on the server goroutine,
// so failures are reported with Errorf.
func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		t.Errorf("decode request body: %v", err)
	}
	return body
}

// scriptedPrompter answers prompts in order, then reports end of input.
type scriptedPrompter struct {
	answers []string
	asked   []string
}

func (p *scriptedPrompter) Prompt(label string) (string, error) {
	p.asked = append(p.asked, label)
	if len(p.answers) == 0 {
		return "", io.EOF
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	return answer, nil
}

// newTestRuntime builds an anonymous runtime with an in-memory session
// pointed at apiURL. Output is captured in the returned buffer.
func newTestRuntime(t *testing.T, apiURL string) (*Runtime, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	cfg.APIURL = apiURL
	cfg.Session.Backend = config.BackendMemory

	sess := session.NewManager(session.NewMemoryStore())
	rt := NewRuntime(cfg, sess, logger.Discard())

	out := &bytes.Buffer{}
	rt.Out = out
	rt.ErrOut = io.Discard
	rt.Prompt = &scriptedPrompter{}
	t.Cleanup(func() { rt.Close() })
	return rt, out
}

// loggedIn stores a token in rt's session.
func loggedIn(t *testing.T, rt *Runtime) *Runtime {
	t.Helper()
	if err := rt.Session.SetToken("tok123"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	return rt
}

// runCLI runs one command line against rt.
func runCLI(rt *Runtime, args ...string) error {
	app := NewApp(rt)
	app.ExitErrHandler = func(*cli.Context, error) {}
	return app.Run(append([]string{appName}, args...))
}

// errMessage returns err's message, failing on nil.
func errMessage(t *testing.T, err error) string {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	return err.Error()
}
