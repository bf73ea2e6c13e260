package loader

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strings"
)

// Source opens assets by their absolute, slash separated path, e.g. "/logo.jpg".
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// DirSource serves assets from a file system. The leading slash of
// an asset path is stripped before opening it.
type DirSource struct {
	FS fs.FS
}

func (s DirSource) Open(_ context.Context, name string) (io.ReadCloser, error) {
	return s.FS.Open(strings.TrimPrefix(path.Clean("/"+name), "/"))
}

// HTTPSource fetches assets relative to BaseURL. BaseURL should end with a
// slash, otherwise its last path segment is replaced.
type HTTPSource struct {
	BaseURL *url.URL

	// Client defaults to http.DefaultClient
	Client *http.Client
}

func (s HTTPSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	// asset paths are relative to BaseURL, same as for DirSource
	ref, err := url.Parse(strings.TrimPrefix(path.Clean("/"+name), "/"))
	if err != nil {
		return nil, fmt.Errorf("parse asset path: %w", err)
	}

	target := ref
	if s.BaseURL != nil {
		target = s.BaseURL.ResolveReference(ref)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: unexpected status %s", target, resp.Status)
	}

	return resp.Body, nil
}
