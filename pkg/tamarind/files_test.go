package tamarind_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"helix/pkg/tamarind"
)

func TestUploadFileMissingLocalPath(t *testing.T) {
	t.Parallel()

	client, err := tamarind.NewClient("key", "http://localhost:1")
	if err != nil {
		t.Fatal(err)
	}

	_, err = client.UploadFile(context.Background(), filepath.Join(t.TempDir(), "nope.fasta"))

	var nfErr *tamarind.FileNotFoundError
	if !errors.As(err, &nfErr) {
		t.Fatalf("error = %v, want *FileNotFoundError", err)
	}
}

func TestUploadFileSendsRawBytes(t *testing.T) {
	t.Parallel()

	var gotPath, gotKey string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s, want PUT", r.Method)
		}
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-api-key")
		gotBody, _ = io.ReadAll(r.Body)
		fmt.Fprint(w, "File uploaded")
	}))
	t.Cleanup(srv.Close)

	local := filepath.Join(t.TempDir(), "input.fasta")
	if err := os.WriteFile(local, []byte(">seq1\nMKV\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	client, err := tamarind.NewClient("secret", srv.URL)
	if err != nil {
		t.Fatal(err)
	}

	ack, err := client.UploadFile(context.Background(), local)
	if err != nil {
		t.Fatalf("UploadFile: %v", err)
	}

	if ack != "File uploaded" {
		t.Errorf("ack = %q", ack)
	}
	if gotPath != "/upload/input.fasta" {
		t.Errorf("upload path = %q, want /upload/input.fasta (base name only)", gotPath)
	}
	if gotKey != "secret" {
		t.Errorf("x-api-key = %q", gotKey)
	}
	if string(gotBody) != ">seq1\nMKV\n" {
		t.Errorf("body = %q, want raw file bytes", gotBody)
	}
}

func TestListAndDeleteFiles(t *testing.T) {
	t.Parallel()

	var deleted string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/files":
			fmt.Fprint(w, `[{"filename":"a.fasta"},{"filename":"b.pdb"}]`)
		case r.Method == http.MethodDelete && r.URL.Path == "/delete-file":
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			deleted = body["filename"]
			w.WriteHeader(http.StatusOK)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	client, err := tamarind.NewClient("key", srv.URL)
	if err != nil {
		t.Fatal(err)
	}

	files, err := client.ListFiles(context.Background())
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("got %d files, want 2", len(files))
	}

	if err := client.DeleteFile(context.Background(), "a.fasta"); err != nil {
		t.Fatalf("DeleteFile: %v", err)
	}
	if deleted != "a.fasta" {
		t.Errorf("deleted = %q, want a.fasta", deleted)
	}
}
