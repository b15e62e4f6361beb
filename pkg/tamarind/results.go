package tamarind

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// DownloadResults retrieves the result archive for a completed job. The
// service answers the result request with a quoted signed URL; the archive
// is fetched from there. With extract=true the zip is unpacked into
// outputDir/jobName and deleted afterward, and the directory is returned;
// otherwise the zip path is returned.
func (c *Client) DownloadResults(ctx context.Context, jobName, outputDir string, extract bool) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	data, err := c.doJSON(ctx, http.MethodPost, "result", map[string]any{"jobName": jobName})
	if err != nil {
		return "", err
	}
	downloadURL := strings.Trim(strings.TrimSpace(string(data)), `"`)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return "", fmt.Errorf("create download request: %w", err)
	}

	// The signed URL points at object storage, not the API; no key header.
	resp, err := c.client.Do(req)
	if err != nil {
		return "", &APIError{Op: "result download", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &APIError{Op: "result download", Status: resp.StatusCode}
	}

	zipPath := filepath.Join(outputDir, jobName+".zip")
	out, err := os.Create(zipPath)
	if err != nil {
		return "", fmt.Errorf("create archive file: %w", err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		return "", fmt.Errorf("save archive: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("close archive: %w", err)
	}

	if !extract {
		return zipPath, nil
	}

	extractDir := filepath.Join(outputDir, jobName)
	if err := unzip(zipPath, extractDir); err != nil {
		return "", fmt.Errorf("extract %s: %w", zipPath, err)
	}
	if err := os.Remove(zipPath); err != nil {
		return "", fmt.Errorf("remove archive after extraction: %w", err)
	}
	return extractDir, nil
}

// unzip extracts archive into dir, refusing entries that would escape it.
func unzip(archive, dir string) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create extract dir: %w", err)
	}

	for _, f := range r.File {
		dest := filepath.Join(dir, f.Name) //nolint:gosec // checked below
		if !strings.HasPrefix(dest, filepath.Clean(dir)+string(os.PathSeparator)) {
			return fmt.Errorf("zip entry %q escapes extract dir", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(dest, 0o755); err != nil {
				return fmt.Errorf("create dir entry %s: %w", f.Name, err)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return fmt.Errorf("create parent for %s: %w", f.Name, err)
		}
		if err := extractFile(f, dest); err != nil {
			return err
		}
	}
	return nil
}

// extractFile writes one zip entry to dest.
func extractFile(f *zip.File, dest string) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open zip entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, rc); err != nil { //nolint:gosec // trusted archive from our own job
		return fmt.Errorf("write %s: %w", dest, err)
	}
	return nil
}
