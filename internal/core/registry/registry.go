// Package registry looks up published versions in an npm-compatible package
// registry and decides whether a newer release is available.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultURL is queried when the configuration names no registry.
const DefaultURL = "https://registry.npmjs.org"

// DefaultTimeout bounds a single registry request.
const DefaultTimeout = 10 * time.Second

// Client fetches package documents from a registry.
type Client struct {
	HTTPClient *http.Client
}

// NewClient returns a Client with the given request timeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{HTTPClient: &http.Client{Timeout: timeout}}
}

// packageDocument is the subset of the registry's package document we read.
type packageDocument struct {
	DistTags map[string]string `json:"dist-tags"`
}

// LatestVersion returns the version published under distTag for pkgName.
func (c *Client) LatestVersion(ctx context.Context, registryURL, pkgName, distTag string) (string, error) {
	if registryURL == "" {
		registryURL = DefaultURL
	}
	docURL := strings.TrimRight(registryURL, "/") + "/" + EscapeName(pkgName)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, docURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request to %s: %w", docURL, err)
	}
	// The abbreviated document is enough for dist-tags.
	req.Header.Set("Accept", "application/vnd.npm.install-v1+json; q=1.0, application/json; q=0.8")

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to perform GET request to %s: %w", docURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("registry request to %s failed: received status code %d", docURL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body from %s: %w", docURL, err)
	}

	var doc packageDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return "", fmt.Errorf("failed to unmarshal registry response from %s: %w", docURL, err)
	}

	v, ok := doc.DistTags[distTag]
	if !ok || v == "" {
		return "", fmt.Errorf("dist-tag %q not found for %s", distTag, pkgName)
	}
	return v, nil
}

// EscapeName encodes a package name for use as a registry path segment.
// Scoped names keep their '@' but escape the separator: @scope/name -> @scope%2fname.
func EscapeName(name string) string {
	if strings.HasPrefix(name, "@") {
		if scope, rest, ok := strings.Cut(name[1:], "/"); ok {
			return "@" + url.PathEscape(scope) + "%2f" + url.PathEscape(rest)
		}
	}
	return url.PathEscape(name)
}

// DistTag maps a release channel to the dist-tag that tracks it.
func DistTag(channel string) string {
	if channel == "" || channel == "stable" {
		return "latest"
	}
	return channel
}
