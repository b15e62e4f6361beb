// Package sandbox contains all local side effects of an agent run within
// two roots: a read-mostly task directory and a write-only output
// directory. Every operation returns a textual result — including
// failures — because the agent loop must never crash on a bad path or
// broken code; the decision-maker reads the text and adapts.
package sandbox

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"helix/pkg/transcript"
)

// Box confines file and code operations to a task directory and an output
// directory.
type Box struct {
	taskDir   string
	outputDir string
	runner    PythonRunner
}

// New creates a sandbox over the two roots. The output directory is
// created eagerly so writes never race its existence.
func New(taskDir, outputDir string, runner PythonRunner) (*Box, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &Box{taskDir: taskDir, outputDir: outputDir, runner: runner}, nil
}

// TaskDir returns the input root.
func (b *Box) TaskDir() string { return b.taskDir }

// OutputDir returns the output root.
func (b *Box) OutputDir() string { return b.outputDir }

// escapes reports whether rel climbs out of root after cleaning, the same
// check the result extractor applies to zip entries.
func escapes(root, rel string) bool {
	p := filepath.Join(root, rel)
	return p != filepath.Clean(root) && !strings.HasPrefix(p, filepath.Clean(root)+string(os.PathSeparator))
}

// resolve locates rel under the task dir, falling back to the output dir
// so previously written artifacts stay readable. Returns "" when neither
// root contains the path or when rel climbs out of both roots.
func (b *Box) resolve(rel string) string {
	for _, root := range []string{b.taskDir, b.outputDir} {
		if escapes(root, rel) {
			continue
		}
		p := filepath.Join(root, rel)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Locate resolves rel against the sandbox roots, task dir first. Used by
// callers that need a real path (e.g. uploads) rather than file content.
func (b *Box) Locate(rel string) (string, bool) {
	p := b.resolve(rel)
	return p, p != ""
}

// ReadFile returns the file's contents, capped at the file-read limit with
// a marker stating the true total size. A missing file is a normal textual
// result, not an error.
func (b *Box) ReadFile(rel string) string {
	path := b.resolve(rel)
	if path == "" {
		return fmt.Sprintf("Error: File not found: %s", rel)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Sprintf("Error reading file: %v", err)
	}
	return transcript.TruncateWithTotal(string(data), transcript.FileReadCap)
}

// WriteFile writes content under the output dir, creating parents, and
// acknowledges with the byte count.
func (b *Box) WriteFile(rel, content string) string {
	if escapes(b.outputDir, rel) {
		return fmt.Sprintf("Error: path escapes the output directory: %s", rel)
	}
	path := filepath.Join(b.outputDir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Sprintf("Error writing file: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Sprintf("Error writing file: %v", err)
	}
	return fmt.Sprintf("Successfully wrote %d bytes to %s", len(content), path)
}

// ListDirectory lists entries at rel with [DIR]/[FILE] prefixes and file
// sizes, sorted by name.
func (b *Box) ListDirectory(rel string) string {
	path := b.resolve(rel)
	if path == "" {
		return fmt.Sprintf("Error: Directory not found: %s", rel)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return fmt.Sprintf("Error listing directory: %v", err)
	}
	if len(entries) == 0 {
		return "(empty directory)"
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var lines []string
	for _, e := range entries {
		if e.IsDir() {
			lines = append(lines, fmt.Sprintf("[DIR]  %s", e.Name()))
			continue
		}
		size := int64(0)
		if info, err := e.Info(); err == nil {
			size = info.Size()
		}
		lines = append(lines, fmt.Sprintf("[FILE] %s (%d bytes)", e.Name(), size))
	}
	return strings.Join(lines, "\n")
}
