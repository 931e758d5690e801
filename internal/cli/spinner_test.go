package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer guards a buffer written by the spinner goroutine.
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

func captureStatus(t *testing.T, w io.Writer) {
	t.Helper()
	old := statusOut
	statusOut = w
	t.Cleanup(func() { statusOut = old })
}

func TestSpinnerWritesStatus(t *testing.T) {
	var buf syncBuffer
	captureStatus(t, &buf)

	s := newSpinner("Rendering horizon...")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	if !strings.Contains(buf.String(), "Rendering horizon...") {
		t.Errorf("spinner output = %q", buf.String())
	}
	if !s.Cancelled() {
		t.Error("Stop should end the spinner's context")
	}
}

func TestSpinnerWithContext(t *testing.T) {
	captureStatus(t, io.Discard)
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinnerWithContext(ctx, "Testing with context...")
	s.Start()

	cancel()

	// Give goroutine time to notice cancellation
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context cancellation")
	}
	s.Stop()
}

func TestSpinnerWithTimeout(t *testing.T) {
	captureStatus(t, io.Discard)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s := newSpinnerWithContext(ctx, "Testing with timeout...")
	s.Start()

	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context timeout")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	captureStatus(t, io.Discard)
	s := newSpinner("Testing idempotent stop...")
	s.Start()

	// Stop multiple times should not panic
	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithMessage(t *testing.T) {
	var buf syncBuffer
	captureStatus(t, &buf)

	s := newSpinner("Testing success...")
	s.Start()
	s.StopWithSuccess("Done!")

	e := newSpinner("Testing error...")
	e.Start()
	e.StopWithError("Failed!")

	out := buf.String()
	if !strings.Contains(out, "Done!") || !strings.Contains(out, "Failed!") {
		t.Errorf("status output = %q", out)
	}
}
