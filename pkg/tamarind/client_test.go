package tamarind_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"helix/pkg/tamarind"
)

const toolsJSON = `[
	{"name": "alphafold", "displayName": "AlphaFold2", "description": "Protein structure prediction",
	 "settings": [{"name": "sequence", "description": "amino acid sequence", "required": true}]},
	{"name": "diffdock", "displayName": "DiffDock", "description": "Molecular docking"},
	{"name": "rfdiffusion", "displayName": "RFdiffusion", "description": "Protein design by diffusion"}
]`

// newToolsServer serves the tools catalog and counts catalog fetches.
func newToolsServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tools" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("x-api-key") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		hits.Add(1)
		_, _ = w.Write([]byte(toolsJSON))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	t.Parallel()

	if _, err := tamarind.NewClient("", ""); err == nil {
		t.Fatal("expected error for empty API key")
	}
}

func TestToolsCachesCatalog(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := newToolsServer(t, &hits)
	client, err := tamarind.NewClient("key", srv.URL)
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	first, err := client.Tools(ctx, false)
	if err != nil {
		t.Fatalf("Tools: %v", err)
	}
	if len(first) != 3 {
		t.Fatalf("got %d tools, want 3", len(first))
	}

	if _, err := client.Tools(ctx, false); err != nil {
		t.Fatalf("Tools (cached): %v", err)
	}
	if hits.Load() != 1 {
		t.Errorf("catalog fetched %d times, want 1 (cached)", hits.Load())
	}

	if _, err := client.Tools(ctx, true); err != nil {
		t.Fatalf("Tools (refresh): %v", err)
	}
	if hits.Load() != 2 {
		t.Errorf("catalog fetched %d times after refresh, want 2", hits.Load())
	}
}

func TestToolSpec(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := newToolsServer(t, &hits)
	client, err := tamarind.NewClient("key", srv.URL)
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	spec, err := client.ToolSpec(ctx, "alphafold")
	if err != nil {
		t.Fatalf("ToolSpec: %v", err)
	}
	if spec == nil || spec.DisplayName != "AlphaFold2" {
		t.Fatalf("spec = %+v, want AlphaFold2", spec)
	}
	if len(spec.Settings) != 1 || !spec.Settings[0].Required {
		t.Errorf("settings = %+v, want one required setting", spec.Settings)
	}

	missing, err := client.ToolSpec(ctx, "no-such-tool")
	if err != nil {
		t.Fatalf("ToolSpec (missing): %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil spec for unknown tool, got %+v", missing)
	}
}

func TestSearchToolsIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := newToolsServer(t, &hits)
	client, err := tamarind.NewClient("key", srv.URL)
	if err != nil {
		t.Fatal(err)
	}

	matches, err := client.SearchTools(context.Background(), "PROTEIN")
	if err != nil {
		t.Fatalf("SearchTools: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2 (description matches)", len(matches))
	}
}

func TestAPIErrorOnNonSuccessStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("invalid key"))
	}))
	t.Cleanup(srv.Close)

	client, err := tamarind.NewClient("key", srv.URL)
	if err != nil {
		t.Fatal(err)
	}

	_, err = client.Tools(context.Background(), false)
	var apiErr *tamarind.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusForbidden {
		t.Errorf("status = %d, want 403", apiErr.Status)
	}
	if !strings.Contains(apiErr.Body, "invalid key") {
		t.Errorf("body excerpt = %q, want server message", apiErr.Body)
	}
}

func TestFormatTool(t *testing.T) {
	t.Parallel()

	out := tamarind.FormatTool(&tamarind.RemoteTool{
		Name:        "alphafold",
		DisplayName: "AlphaFold2",
		Description: "Protein structure prediction",
		Settings: []tamarind.Setting{
			{Name: "sequence", Description: "amino acid sequence", Required: true},
			{Name: "relax", Description: "run amber relaxation"},
		},
	})

	for _, want := range []string{"Tool: AlphaFold2", "Name: alphafold", "sequence (required)", "relax:"} {
		if !strings.Contains(out, want) {
			t.Errorf("formatted tool missing %q:\n%s", want, out)
		}
	}
}
