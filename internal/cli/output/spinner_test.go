package output

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestNewSpinner_NonTerminalIsSilent(t *testing.T) {
	var buf syncBuffer
	s := NewSpinner(&buf, "Loading")
	s.Start()
	time.Sleep(20 * time.Millisecond)
	s.Success("done")

	if buf.String() != "" {
		t.Errorf("disabled spinner wrote %q", buf.String())
	}
}

func TestSpinner_StartStop(t *testing.T) {
	var buf syncBuffer
	s := newSpinner(&buf, "Fetching dashboard", true)
	s.interval = 5 * time.Millisecond

	s.Start()
	time.Sleep(30 * time.Millisecond)
	s.Stop()

	out := buf.String()
	if !strings.Contains(out, "Fetching dashboard") {
		t.Errorf("message missing from %q", out)
	}
	if !strings.HasSuffix(out, "\r\033[K") {
		t.Errorf("line not cleared: %q", out)
	}
}

func TestSpinner_Success(t *testing.T) {
	var buf syncBuffer
	s := newSpinner(&buf, "Saving", true)
	s.Start()
	s.Success("Shipment created")

	if !strings.HasSuffix(buf.String(), "✓ Shipment created\n") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestSpinner_Fail(t *testing.T) {
	var buf syncBuffer
	s := newSpinner(&buf, "Saving", true)
	s.Start()
	s.Fail("Not authenticated")

	if !strings.HasSuffix(buf.String(), "✗ Not authenticated\n") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestSpinner_StopTwice(t *testing.T) {
	var buf syncBuffer
	s := newSpinner(&buf, "x", true)
	s.Start()
	s.Stop()
	before := buf.String()
	s.Stop()
	s.Fail("ignored")
	if buf.String() != before {
		t.Errorf("second stop wrote output: %q", buf.String())
	}
}
