package sandbox

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"helix/pkg/transcript"
)

// PythonRunner abstracts code execution for testability. Production
// implementation shells out to python3; tests provide a fake.
type PythonRunner interface {
	Run(ctx context.Context, dir, code string) (stdout, stderr string, err error)
}

// ExecPythonRunner implements PythonRunner using os/exec. The interpreter
// runs with its working directory set to dir, so submitted code sees the
// task files with relative paths. HELIX_TASK_DIR and HELIX_OUTPUT_DIR are
// exported for code that needs absolute roots.
type ExecPythonRunner struct {
	// Interpreter overrides the python binary; empty means "python3".
	Interpreter string
	// Env entries appended to the interpreter's environment.
	Env []string
}

// Run feeds code to the interpreter on stdin and captures both streams.
func (r *ExecPythonRunner) Run(ctx context.Context, dir, code string) (string, string, error) {
	interp := r.Interpreter
	if interp == "" {
		interp = "python3"
	}

	cmd := exec.CommandContext(ctx, interp, "-")
	cmd.Dir = dir
	cmd.Stdin = bytes.NewReader([]byte(code))
	if len(r.Env) > 0 {
		cmd.Env = append(cmd.Environ(), r.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// RunPython executes code in the task directory and renders the captured
// output as text. Execution failures become diagnostic text, never an
// error — the loop must not crash because submitted code did.
func (b *Box) RunPython(ctx context.Context, code string) string {
	stdout, stderr, err := b.runner.Run(ctx, b.taskDir, code)

	var sb bytes.Buffer
	if stdout != "" {
		fmt.Fprintf(&sb, "Output:\n%s", stdout)
	}
	if stderr != "" {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "Stderr:\n%s", stderr)
	}
	if err != nil {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "Error executing code: %v", err)
	}
	if sb.Len() == 0 {
		return "(Code executed successfully with no output)"
	}

	return transcript.Truncate(sb.String(), transcript.ExecOutputCap)
}
