package sandbox_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"helix/pkg/sandbox"
	"helix/pkg/transcript"
)

// newBox builds a sandbox over fresh temp roots.
func newBox(t *testing.T) (*sandbox.Box, string, string) {
	t.Helper()
	taskDir := t.TempDir()
	outputDir := filepath.Join(t.TempDir(), "out")
	box, err := sandbox.New(taskDir, outputDir, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return box, taskDir, outputDir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestNewCreatesOutputDir(t *testing.T) {
	t.Parallel()

	_, _, outputDir := newBox(t)
	if info, err := os.Stat(outputDir); err != nil || !info.IsDir() {
		t.Fatalf("output dir not created: %v", err)
	}
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	box, taskDir, _ := newBox(t)
	writeFile(t, filepath.Join(taskDir, "question.md"), "fold this protein")

	if got := box.ReadFile("question.md"); got != "fold this protein" {
		t.Errorf("ReadFile = %q", got)
	}
}

func TestReadFileMissingIsTextualResult(t *testing.T) {
	t.Parallel()

	box, _, _ := newBox(t)
	got := box.ReadFile("ghost.txt")
	if got != "Error: File not found: ghost.txt" {
		t.Errorf("ReadFile = %q", got)
	}
}

func TestReadFileFallsBackToOutputDir(t *testing.T) {
	t.Parallel()

	box, _, outputDir := newBox(t)
	writeFile(t, filepath.Join(outputDir, "result.csv"), "a,b\n1,2\n")

	if got := box.ReadFile("result.csv"); got != "a,b\n1,2\n" {
		t.Errorf("ReadFile = %q, want output-dir fallback to serve it", got)
	}
}

func TestReadFileTruncatesWithTotal(t *testing.T) {
	t.Parallel()

	box, taskDir, _ := newBox(t)
	big := strings.Repeat("G", transcript.FileReadCap+500)
	writeFile(t, filepath.Join(taskDir, "genome.txt"), big)

	got := box.ReadFile("genome.txt")
	if len(got) >= len(big) {
		t.Fatalf("content not truncated: %d bytes", len(got))
	}
	if !strings.Contains(got, "[truncated,") || !strings.Contains(got, "total chars]") {
		t.Errorf("missing total-size marker, tail: %q", got[len(got)-60:])
	}
}

func TestWriteFileGoesToOutputDir(t *testing.T) {
	t.Parallel()

	box, _, outputDir := newBox(t)

	got := box.WriteFile("analysis/summary.txt", "42")
	want := "Successfully wrote 2 bytes to " + filepath.Join(outputDir, "analysis", "summary.txt")
	if got != want {
		t.Errorf("WriteFile = %q, want %q", got, want)
	}

	data, err := os.ReadFile(filepath.Join(outputDir, "analysis", "summary.txt"))
	if err != nil || string(data) != "42" {
		t.Errorf("written content = %q, %v", data, err)
	}
}

func TestWriteFileRejectsEscapingPath(t *testing.T) {
	t.Parallel()

	box, _, outputDir := newBox(t)

	got := box.WriteFile("../../escaped.txt", "outside")
	if !strings.HasPrefix(got, "Error: path escapes the output directory") {
		t.Errorf("WriteFile = %q, want escape rejection", got)
	}
	if _, err := os.Stat(filepath.Join(outputDir, "..", "..", "escaped.txt")); !os.IsNotExist(err) {
		t.Errorf("file written outside the output dir: %v", err)
	}
}

func TestReadFileRejectsEscapingPath(t *testing.T) {
	t.Parallel()

	box, taskDir, _ := newBox(t)
	writeFile(t, filepath.Join(taskDir, "..", "secret.txt"), "outside")

	got := box.ReadFile("../secret.txt")
	if got != "Error: File not found: ../secret.txt" {
		t.Errorf("ReadFile = %q, want not-found text for an escaping path", got)
	}
}

func TestLocateRejectsEscapingPath(t *testing.T) {
	t.Parallel()

	box, taskDir, _ := newBox(t)
	writeFile(t, filepath.Join(taskDir, "..", "outside.fasta"), ">s\nMKV\n")

	if path, ok := box.Locate("../outside.fasta"); ok {
		t.Errorf("Locate resolved an escaping path to %q", path)
	}
}

func TestListDirectory(t *testing.T) {
	t.Parallel()

	box, taskDir, _ := newBox(t)
	writeFile(t, filepath.Join(taskDir, "b.txt"), "abc")
	writeFile(t, filepath.Join(taskDir, "sub", "inner.txt"), "x")

	got := box.ListDirectory(".")
	want := "[FILE] b.txt (3 bytes)\n[DIR]  sub"
	if got != want {
		t.Errorf("ListDirectory = %q, want %q", got, want)
	}
}

func TestListDirectoryEmpty(t *testing.T) {
	t.Parallel()

	box, taskDir, _ := newBox(t)
	if err := os.Mkdir(filepath.Join(taskDir, "empty"), 0o755); err != nil {
		t.Fatal(err)
	}

	if got := box.ListDirectory("empty"); got != "(empty directory)" {
		t.Errorf("ListDirectory = %q", got)
	}
}

func TestListDirectoryMissing(t *testing.T) {
	t.Parallel()

	box, _, _ := newBox(t)
	if got := box.ListDirectory("nowhere"); got != "Error: Directory not found: nowhere" {
		t.Errorf("ListDirectory = %q", got)
	}
}

func TestLocate(t *testing.T) {
	t.Parallel()

	box, taskDir, _ := newBox(t)
	writeFile(t, filepath.Join(taskDir, "input.fasta"), ">s\nMKV\n")

	path, ok := box.Locate("input.fasta")
	if !ok || path != filepath.Join(taskDir, "input.fasta") {
		t.Errorf("Locate = %q, %v", path, ok)
	}

	if _, ok := box.Locate("missing.fasta"); ok {
		t.Error("Locate reported a missing file as present")
	}
}
