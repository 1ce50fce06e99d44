package pose

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"testing"
	"time"
)

func requireShell(t *testing.T) string {
	t.Helper()
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	return sh
}

func TestCommandSource(t *testing.T) {
	sh := requireShell(t)

	script := `printf '%s\n' '{"exercise":"squat","landmarks":[{"name":"right_knee","confidence":0.9,"x":1,"y":2}]}' '' '[{"name":"nose","confidence":0.5,"x":0,"y":0}]'`
	src := NewCommandSource(context.Background(), sh, "-c", script)

	f, err := src.Next(context.Background())
	if err != nil {
		t.Fatalf("frame 1: unexpected error: %v", err)
	}
	if f.Exercise != ExerciseSquat || len(f.Landmarks) != 1 {
		t.Errorf("frame 1: unexpected frame %+v", f)
	}

	f, err = src.Next(context.Background())
	if err != nil {
		t.Fatalf("frame 2: unexpected error: %v", err)
	}
	if f.Landmarks[0].Name != Nose {
		t.Errorf("frame 2: expected nose, got %v", f.Landmarks)
	}

	if _, err := src.Next(context.Background()); err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}
	if err := src.Close(); err != nil {
		t.Errorf("expected clean exit, got %v", err)
	}
}

func TestCommandSource_ExitStatus(t *testing.T) {
	sh := requireShell(t)

	src := NewCommandSource(context.Background(), sh, "-c", "echo 'estimator failed' >&2; exit 3")
	var stderr bytes.Buffer
	src.SetStderr(&stderr)

	if _, err := src.Next(context.Background()); err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
	if err := src.Close(); err == nil {
		t.Error("expected non-zero exit to be reported")
	}
	if stderr.String() != "estimator failed\n" {
		t.Errorf("expected stderr to be forwarded, got %q", stderr.String())
	}
}

func TestCommandSource_StartFailure(t *testing.T) {
	src := NewCommandSource(context.Background(), "liftform-no-such-estimator")

	if _, err := src.Next(context.Background()); err == nil || errors.Is(err, io.EOF) {
		t.Errorf("expected start error, got %v", err)
	}
	if err := src.Close(); err != nil {
		t.Errorf("Close on unstarted source: %v", err)
	}
}

func TestCommandSource_CancelKillsProcess(t *testing.T) {
	sh := requireShell(t)

	ctx, cancel := context.WithCancel(context.Background())
	src := NewCommandSource(ctx, sh, "-c", "exec sleep 30")

	time.AfterFunc(50*time.Millisecond, cancel)

	done := make(chan error, 1)
	go func() {
		_, err := src.Next(context.Background())
		done <- err
	}()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Next did not return after cancel")
	}
	src.Close()
}

func TestCommandSource_CloseBeforeEOFKills(t *testing.T) {
	sh := requireShell(t)

	src := NewCommandSource(context.Background(), sh, "-c", `echo '[]'; exec sleep 30`)
	if _, err := src.Next(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- src.Close() }()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected nil from Close, got %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Close did not kill the estimator")
	}
}
