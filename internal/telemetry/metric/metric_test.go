package metric

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRequest(t *testing.T) {
	r := NewRegistry()

	r.ObserveRequest("GET", "shipments.list", 200, 15*time.Millisecond)
	r.ObserveRequest("GET", "shipments.list", 200, 20*time.Millisecond)
	r.ObserveRequest("GET", "shipments.list", 401, 5*time.Millisecond)
	r.ObserveRequest("POST", "auth.login", 0, time.Second)

	tests := []struct {
		method, op, status string
		want               float64
	}{
		{"GET", "shipments.list", "200", 2},
		{"GET", "shipments.list", "401", 1},
		{"POST", "auth.login", "error", 1},
	}
	for _, tt := range tests {
		got := testutil.ToFloat64(r.RequestsTotal.WithLabelValues(tt.method, tt.op, tt.status))
		if got != tt.want {
			t.Errorf("requests_total{%s,%s,%s} = %v, want %v", tt.method, tt.op, tt.status, got, tt.want)
		}
	}

	if n := testutil.CollectAndCount(r.RequestDuration); n != 2 {
		t.Errorf("duration series = %d, want 2", n)
	}
}

func TestSetAuthenticated(t *testing.T) {
	r := NewRegistry()

	r.SetAuthenticated(true)
	if got := testutil.ToFloat64(r.SessionState); got != 1 {
		t.Errorf("session gauge = %v, want 1", got)
	}

	r.SetAuthenticated(false)
	if got := testutil.ToFloat64(r.SessionState); got != 0 {
		t.Errorf("session gauge = %v, want 0", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	r := NewRegistry()
	r.ObserveRequest("GET", "data.latest", 200, time.Millisecond)

	path := filepath.Join(t.TempDir(), "shiptrack.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	if !strings.Contains(string(data), `shiptrack_client_requests_total{method="GET",operation="data.latest",status="200"} 1`) {
		t.Errorf("textfile missing request counter:\n%s", data)
	}
}
