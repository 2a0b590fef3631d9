package logging

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxLoggedBody caps how much of a request/response body is logged.
const maxLoggedBody = 10000

// RoundTripperWrapper wraps an http.RoundTripper, logging each request and
// response at debug level with credentials redacted.
type RoundTripperWrapper struct {
	wrapped http.RoundTripper
	logger  *Logger
	logBody bool
}

// NewLoggingRoundTripper creates a new logging round tripper.
func NewLoggingRoundTripper(wrapped http.RoundTripper, logger *Logger, logBody bool) *RoundTripperWrapper {
	if wrapped == nil {
		wrapped = http.DefaultTransport
	}
	return &RoundTripperWrapper{
		wrapped: wrapped,
		logger:  logger,
		logBody: logBody,
	}
}

// RoundTrip implements http.RoundTripper
func (rt *RoundTripperWrapper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	fields := Fields{
		"method":  req.Method,
		"url":     req.URL.String(),
		"headers": redactHeaders(req.Header),
	}
	if rt.logBody && req.Body != nil {
		body, _ := io.ReadAll(req.Body)
		req.Body = io.NopCloser(bytes.NewBuffer(body))
		fields["body"] = truncateBody(body)
		fields["body_size"] = len(body)
	}
	rt.logger.Debug("HTTP request", fields)

	resp, err := rt.wrapped.RoundTrip(req)
	duration := time.Since(start)

	if err != nil {
		rt.logger.Error("HTTP request failed", err, Fields{
			"method": req.Method,
			"url":    req.URL.String(),
		})
		return nil, err
	}

	respFields := Fields{
		"status":      resp.StatusCode,
		"duration_ms": duration.Milliseconds(),
	}
	// Streaming bodies are consumed by the SSE processor; only buffer and
	// log bodies for plain responses.
	if rt.logBody && !isStreamingResponse(resp) {
		body, _ := io.ReadAll(resp.Body)
		resp.Body = io.NopCloser(bytes.NewBuffer(body))
		respFields["body"] = truncateBody(body)
		respFields["body_size"] = len(body)
	} else if isStreamingResponse(resp) {
		respFields["streaming"] = true
	}
	rt.logger.Debug("HTTP response", respFields)

	return resp, nil
}

// redactHeaders copies headers with sensitive values masked.
func redactHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) == 0 {
			continue
		}
		if isSensitiveHeader(k) {
			out[k] = "[REDACTED]"
		} else {
			out[k] = v[0]
		}
	}
	return out
}

func isSensitiveHeader(name string) bool {
	switch strings.ToLower(name) {
	case "authorization", "api-key", "x-api-key", "x-auth-token", "cookie", "set-cookie":
		return true
	}
	return false
}

func truncateBody(body []byte) string {
	if len(body) <= maxLoggedBody {
		return string(body)
	}
	return string(body[:maxLoggedBody]) + "...[truncated]"
}

func isStreamingResponse(resp *http.Response) bool {
	contentType := resp.Header.Get("Content-Type")
	return strings.Contains(contentType, "text/event-stream") ||
		strings.Contains(contentType, "application/x-ndjson")
}
