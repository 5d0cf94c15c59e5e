package analyzer

import (
	"context"
	"strings"
	"testing"
)

func TestRunCapturesOutput(t *testing.T) {
	res := Run(context.Background(), Tool{
		Name:    "echo-tool",
		Command: []string{"echo", "12: finding"},
	})
	if res.Failed {
		t.Fatalf("Run failed: %v", res.Cause)
	}
	if res.Output != "12: finding\n" {
		t.Errorf("Output = %q", res.Output)
	}
}

func TestRunFailureIsTaggedAndSentineled(t *testing.T) {
	res := Run(context.Background(), Tool{
		Name:    "checkstyle",
		Command: []string{"/nonexistent/checkstyle-binary"},
	})
	if !res.Failed {
		t.Fatal("expected Failed for missing binary")
	}
	if res.Cause == nil {
		t.Error("expected a cause")
	}
	if !strings.Contains(res.Output, "checkstyle failed to run") {
		t.Errorf("missing sentinel line in output: %q", res.Output)
	}
}

func TestRunNonZeroExitKeepsPartialOutput(t *testing.T) {
	res := Run(context.Background(), Tool{
		Name:    "flaky",
		Command: []string{"sh", "-c", "echo partial; exit 3"},
	})
	if !res.Failed {
		t.Fatal("expected Failed for non-zero exit")
	}
	if !strings.HasPrefix(res.Output, "partial\n") {
		t.Errorf("partial output lost: %q", res.Output)
	}
	if !strings.Contains(res.Output, "flaky failed to run") {
		t.Errorf("missing sentinel line: %q", res.Output)
	}
}

func TestRunEmptyCommand(t *testing.T) {
	res := Run(context.Background(), Tool{Name: "unset"})
	if !res.Failed {
		t.Fatal("expected Failed for empty command")
	}
	if !strings.Contains(res.Output, "no command configured") {
		t.Errorf("Output = %q", res.Output)
	}
}
