package fsutil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
)

// IsRemote reports whether the input names a remote source rather than a
// local path. Only http and https schemes are recognized; anything else
// (including Windows drive letters, which parse as single-letter schemes) is
// treated as local.
func IsRemote(input string) bool {
	u, err := url.Parse(input)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// CreateLocalCopy downloads a remote source into a fresh temp file and
// returns the temp path. The caller owns the temp file.
func CreateLocalCopy(ctx context.Context, remoteURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, remoteURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request for %s: %w", remoteURL, err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", remoteURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: unexpected status %s", remoteURL, resp.Status)
	}

	path, err := CreateTemp("diffprep-remote-*")
	if err != nil {
		return "", err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, DefaultFileMode)
	if err != nil {
		_ = Remove(path)
		return "", fmt.Errorf("open temp file: %w", err)
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		_ = f.Close()
		_ = Remove(path)
		return "", fmt.Errorf("stage %s: %w", remoteURL, err)
	}
	if err := f.Close(); err != nil {
		_ = Remove(path)
		return "", fmt.Errorf("close temp file: %w", err)
	}

	return path, nil
}
