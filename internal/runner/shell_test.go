package runner

import (
	"context"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestRunEchoHello(t *testing.T) {
	r, err := Run(context.Background(), Spec{Line: "echo hello"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.ExitCode != 0 {
		t.Fatalf("expected exit code 0, got %d", r.ExitCode)
	}
	if strings.TrimSpace(r.Stdout) != "hello" {
		t.Errorf("expected stdout 'hello', got %q", r.Stdout)
	}
}

func TestRunCaptureStderr(t *testing.T) {
	r, err := Run(context.Background(), Spec{Line: "echo error >&2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(r.Stderr) != "error" {
		t.Errorf("expected stderr 'error', got %q", r.Stderr)
	}
}

func TestRunNonZeroExitCode(t *testing.T) {
	r, err := Run(context.Background(), Spec{Line: "exit 42"})
	if err != nil {
		t.Fatalf("a non-zero exit is not an error: %v", err)
	}
	if r.ExitCode != 42 {
		t.Errorf("expected exit code 42, got %d", r.ExitCode)
	}
}

func TestRunArgvForm(t *testing.T) {
	r, err := Run(context.Background(), Spec{Argv: []string{"echo", "a b", "c"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(r.Stdout) != "a b c" {
		t.Errorf("argv must bypass shell splitting, got %q", r.Stdout)
	}
}

func TestRunPipesWork(t *testing.T) {
	r, err := Run(context.Background(), Spec{Line: "echo hello world | wc -w"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(r.Stdout) != "2" {
		t.Errorf("expected stdout '2', got %q", strings.TrimSpace(r.Stdout))
	}
}

func TestRunSpawnFailure(t *testing.T) {
	_, err := Run(context.Background(), Spec{Argv: []string{"/no/such/binary"}})
	if err == nil {
		t.Fatal("expected spawn error")
	}
}

func TestRunTimeout(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("sleep is not available")
	}
	start := time.Now()
	_, err := Run(context.Background(), Spec{Line: "sleep 5", Timeout: 100 * time.Millisecond})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if time.Since(start) > 3*time.Second {
		t.Error("timeout did not interrupt the process")
	}
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, Spec{Line: "echo hello"}); err == nil {
		t.Fatal("expected cancellation error")
	}
}
