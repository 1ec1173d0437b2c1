package bungie

import (
	"bytes"
	"encoding/json"
	"errors"
)

const traceSnippetRadius = 32

// traceDecoded reports a successful decode and re-decodes raw strictly into
// target to surface fields the response types do not model.
func (c *Client) traceDecoded(method string, raw []byte, target any) {
	c.tracer.Trace(method, "decoded response", "bytes", len(raw))

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		c.tracer.Trace(method, "response has unmodelled data", "detail", err.Error())
	}
}

// traceDecodeError reports where and why a decode failed.
func (c *Client) traceDecodeError(method string, raw []byte, err error) {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError

	switch {
	case errors.As(err, &syntaxErr):
		c.tracer.Trace(method, "malformed json",
			"offset", syntaxErr.Offset,
			"near", snippet(raw, syntaxErr.Offset),
			"error", syntaxErr.Error(),
		)
	case errors.As(err, &typeErr):
		c.tracer.Trace(method, "json type mismatch",
			"field", typeErr.Field,
			"value", typeErr.Value,
			"want", typeErr.Type.String(),
			"offset", typeErr.Offset,
			"near", snippet(raw, typeErr.Offset),
		)
	default:
		c.tracer.Trace(method, "decode failed", "bytes", len(raw), "error", err.Error())
	}
}

func snippet(raw []byte, offset int64) string {
	start := int(offset) - traceSnippetRadius
	if start < 0 {
		start = 0
	}
	end := int(offset) + traceSnippetRadius
	if end > len(raw) {
		end = len(raw)
	}
	if start > end {
		start = end
	}
	return string(raw[start:end])
}
