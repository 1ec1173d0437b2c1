package bungie

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"destiny2-go/internal/fs"
)

// DownloadFile streams the resource at relativePath, resolved against the
// base URL, into destination. A relative path keeps the base path prefix;
// a path starting with "/" is rooted at the host. The body is renamed into place only after a
// complete copy, so a failed download never leaves a partial file. An
// existing destination is overwritten.
func (c *Client) DownloadFile(ctx context.Context, relativePath, destination string) error {
	if err := c.download(ctx, relativePath, destination); err != nil {
		c.logger.Error("downloading file failed", "path", relativePath, "error", err)
		return err
	}
	return nil
}

func (c *Client) download(ctx context.Context, relativePath, destination string) error {
	ref, err := url.Parse(relativePath)
	if err != nil {
		return fmt.Errorf("parsing download path: %w", err)
	}
	// baseURL is stored without its trailing slash; restore it so a
	// relative path keeps any base path prefix.
	base := *c.baseURL
	base.Path += "/"
	base.RawPath = ""
	target := base.ResolveReference(ref).String()
	c.logger.Info("downloading file", "url", target, "destination", destination)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("creating download request: %w", err)
	}
	c.setHeaders(req, "")

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Method: relativePath, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &TransportError{
			Method:     relativePath,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("response failure: %s", resp.Status),
		}
	}

	written, err := fs.WriteFileAtomic(destination, resp.Body)
	if err != nil {
		return fmt.Errorf("saving %s: %w", destination, err)
	}
	c.logger.Debug("downloaded file", "destination", destination, "bytes", written)
	return nil
}
