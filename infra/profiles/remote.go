package profiles

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/kilianp07/evfleet/core/model"
)

// maxRemoteSize bounds the body read from a remote source.
const maxRemoteSize = 64 << 20

// Authorizer decorates outgoing requests with credentials.
type Authorizer interface {
	SetAuthHeader(r *http.Request) error
}

// RemoteOptions configures Fetch.
type RemoteOptions struct {
	Options
	// Auth, when set, authorizes the request.
	Auth Authorizer
	// Client defaults to a client with a 30s timeout.
	Client *http.Client
}

var contentTypes = map[string]string{
	"text/csv":           ".csv",
	"application/csv":    ".csv",
	"application/json":   ".json",
	"application/yaml":   ".yaml",
	"application/x-yaml": ".yaml",
	"text/yaml":          ".yaml",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": ".xlsx",
}

// IsRemote reports whether src is an http(s) URL.
func IsRemote(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// Fetch downloads and decodes the profiles served at rawURL. The format comes
// from the URL path extension, or from the Content-Type when the path has
// none.
func Fetch(ctx context.Context, rawURL string, opts RemoteOptions) ([]model.Profile, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if opts.Auth != nil {
		if err := opts.Auth.SetAuthHeader(req); err != nil {
			return nil, fmt.Errorf("failed to set auth header: %w", err)
		}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, body)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	ext := strings.ToLower(path.Ext(u.Path))
	if !supported(ext) {
		mt, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
		var ok bool
		if ext, ok = contentTypes[mt]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, resp.Header.Get("Content-Type"))
		}
	}
	return decodeNamed(rawURL, ext, data, opts.Options)
}

// LoadSource loads from a local path or, for http(s) URLs, via Fetch.
func LoadSource(ctx context.Context, src string, opts RemoteOptions) ([]model.Profile, error) {
	if IsRemote(src) {
		return Fetch(ctx, src, opts)
	}
	return Load(src, opts.Options)
}
