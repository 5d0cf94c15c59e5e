package analyzer

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Tool describes one external analysis tool invocation.
type Tool struct {
	// Name labels the tool in logs and failure sentinels ("checkstyle").
	Name string
	// Command is the executable plus its arguments.
	Command []string
	// Dir is the working directory; empty means the current directory.
	Dir string
}

// ToolResult is the tagged outcome of a tool run. Failed distinguishes
// "tool could not run" from "tool ran and reported nothing" — the shell
// pipeline this replaces conflated the two by appending an error line to
// the report file and moving on. Output still carries a sentinel line on
// failure so the assembled report records what happened, but callers can
// branch on Failed/Cause instead of scraping report text.
type ToolResult struct {
	Tool   string
	Output string
	Failed bool
	Cause  error
}

// Run executes the tool and captures its combined output as report text.
// It never returns an error: a failed invocation comes back as a ToolResult
// with Failed set, and the pipeline continues. There are no retries.
func Run(ctx context.Context, t Tool) ToolResult {
	res := ToolResult{Tool: t.Name}
	if len(t.Command) == 0 {
		res.Failed = true
		res.Cause = fmt.Errorf("%s: no command configured", t.Name)
		res.Output = sentinel(t.Name, res.Cause)
		return res
	}

	cmd := exec.CommandContext(ctx, t.Command[0], t.Command[1:]...)
	cmd.Dir = t.Dir
	out, err := cmd.CombinedOutput()
	res.Output = string(out)
	if err != nil {
		res.Failed = true
		res.Cause = fmt.Errorf("%s: %w", t.Name, err)
		if res.Output != "" && !strings.HasSuffix(res.Output, "\n") {
			res.Output += "\n"
		}
		res.Output += sentinel(t.Name, err)
	}
	return res
}

func sentinel(name string, err error) string {
	return fmt.Sprintf("%s failed to run: %v\n", name, err)
}
