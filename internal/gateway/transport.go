package gateway

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

// NewTransport builds the outbound chain: tracing, then logging, then request pacing. rpm <= 0
// disables pacing.
func NewTransport(base http.RoundTripper, rpm int) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}

	return otelhttp.NewTransport(&loggingTransport{next: NewPacingTransport(base, rpm)})
}

// NewHTTPClient returns a client using NewTransport. A zero timeout leaves requests bounded only by
// their context.
func NewHTTPClient(timeout time.Duration, rpm int) *http.Client {
	return &http.Client{
		Transport: NewTransport(http.DefaultTransport, rpm),
		Timeout:   timeout,
	}
}

type loggingTransport struct {
	next http.RoundTripper
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	started := time.Now()
	resp, err := t.next.RoundTrip(req)
	duration := time.Since(started).Milliseconds()

	attrs := []any{
		"request_id", req.Header.Get(requestIDHeader),
		"method", req.Method,
		"path", req.URL.Path,
		"duration_ms", duration,
	}

	if err != nil {
		slog.Warn("api call failed", append(attrs, "error", err)...)
		return nil, err
	}

	attrs = append(attrs, "status", resp.StatusCode)

	// For error responses, peek at the body for the server message and hand it back unread.
	if resp.StatusCode >= 400 && resp.Body != nil {
		data, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		_ = resp.Body.Close()
		resp.Body = io.NopCloser(bytes.NewReader(data))
		if readErr == nil {
			if msg := serverMessage(data); msg != "" {
				attrs = append(attrs, "error_message", msg)
			}
		}
	}

	switch {
	case resp.StatusCode >= 500:
		slog.Error("api call", attrs...)
	case resp.StatusCode >= 400:
		slog.Warn("api call", attrs...)
	default:
		slog.Debug("api call", attrs...)
	}

	return resp, nil
}

// pacingTransport spaces requests out to at most rpm per minute. It waits, it never rejects or
// retries.
type pacingTransport struct {
	next    http.RoundTripper
	limiter *rate.Limiter
}

func NewPacingTransport(next http.RoundTripper, rpm int) http.RoundTripper {
	if rpm <= 0 {
		return next
	}

	return &pacingTransport{
		next:    next,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), rpm),
	}
}

func (t *pacingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}

	return t.next.RoundTrip(req)
}
