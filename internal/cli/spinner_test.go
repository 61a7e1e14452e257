package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func newTestSpinner(ctx context.Context, msg string) (*Spinner, *bytes.Buffer) {
	var buf bytes.Buffer
	s := newSpinnerWithContext(ctx, msg)
	s.w = &buf
	return s, &buf
}

func TestSpinnerBasic(t *testing.T) {
	s, buf := newTestSpinner(context.Background(), "Rendering svg...")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	if s.Cancelled() {
		t.Error("a stopped spinner should not report cancellation")
	}
	if !strings.Contains(buf.String(), "Rendering svg...") {
		t.Errorf("spinner output missing message: %q", buf.String())
	}
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s, _ := newTestSpinner(ctx, "Rendering png...")
	s.Start()
	cancel()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context cancellation")
	}
	s.Stop()
}

func TestSpinnerWithTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s, _ := newTestSpinner(ctx, "Rendering...")
	s.Start()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context timeout")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s, _ := newTestSpinner(context.Background(), "Rendering...")
	s.Start()

	s.Stop()
	s.Stop()
	s.Stop()
}
