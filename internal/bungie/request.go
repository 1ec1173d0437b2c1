package bungie

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

type queryParam struct {
	name  string
	value string
}

// methodURL builds {baseURL}/Platform/{method}/ with the given query.
// Commas are left unescaped so component lists read as 100,200.
func (c *Client) methodURL(method string, query ...queryParam) string {
	u := *c.baseURL
	u.Path = u.Path + "/Platform/" + strings.Trim(method, "/") + "/"

	pairs := make([]string, 0, len(query))
	for _, q := range query {
		value := strings.ReplaceAll(url.QueryEscape(q.value), "%2C", ",")
		pairs = append(pairs, url.QueryEscape(q.name)+"="+value)
	}
	u.RawQuery = strings.Join(pairs, "&")

	return u.String()
}

// call issues one platform request and unwraps the envelope into T.
func call[T any](ctx context.Context, c *Client, httpMethod, accessToken, method string, body any, query ...queryParam) (T, error) {
	var zero T

	raw, err := c.send(ctx, httpMethod, accessToken, method, body, query)
	if err != nil {
		return zero, err
	}

	var resp Response[T]
	if err := json.Unmarshal(raw, &resp); err != nil {
		if c.DeserializationDebugging() {
			c.traceDecodeError(method, raw, err)
		}
		c.logger.Error("decoding bungie response failed", "method", method, "error", err)
		return zero, &DecodeError{Method: method, Err: err}
	}
	if c.DeserializationDebugging() {
		c.traceDecoded(method, raw, &Response[T]{})
	}

	if resp.ErrorCode != Success {
		c.logger.Warn("bungie api returned an error",
			"method", method,
			"error_code", resp.ErrorCode,
			"error_status", resp.ErrorStatus,
		)
		return zero, &APIError{
			Method:  method,
			Code:    resp.ErrorCode,
			Status:  resp.ErrorStatus,
			Message: resp.Message,
		}
	}

	return resp.Response, nil
}

// send performs the HTTP exchange and returns the raw body of a 2xx response.
func (c *Client) send(ctx context.Context, httpMethod, accessToken, method string, body any, query []queryParam) ([]byte, error) {
	target := c.methodURL(method, query...)
	requestID := c.ids.New()
	c.logger.Info("calling bungie api", "url", target, "request_id", requestID)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body for %s: %w", method, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, httpMethod, target, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request for %s: %w", method, err)
	}
	c.setHeaders(req, accessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("calling bungie api failed", "method", method, "request_id", requestID, "error", err)
		return nil, &TransportError{Method: method, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := fmt.Errorf("response failure: %s", resp.Status)
		c.logger.Error("calling bungie api failed", "method", method, "request_id", requestID, "status", resp.StatusCode)
		return nil, &TransportError{Method: method, StatusCode: resp.StatusCode, Err: err}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("reading bungie response failed", "method", method, "request_id", requestID, "error", err)
		return nil, &TransportError{Method: method, StatusCode: resp.StatusCode, Err: err}
	}

	return raw, nil
}

// setHeaders attaches per-request credentials.
func (c *Client) setHeaders(req *http.Request, accessToken string) {
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
}
