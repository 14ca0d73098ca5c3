package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/google/uuid"

	"classpick/pkg/apierror"
)

const (
	requestIDHeader = "X-Request-ID"
	maxBodyBytes    = 1 << 20
)

// Client performs the election API calls. Each call is a single request: nothing is retried and no
// token is persisted here.
type Client struct {
	baseURL    string
	applyPath  string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithApplyPath selects the candidacy endpoint; backends expose it as /apply-delegate or /.
func WithApplyPath(path string) Option {
	return func(c *Client) {
		c.applyPath = path
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		applyPath:  "/apply-delegate",
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// do sends one JSON request and decodes a 2xx body into out. A 2xx body that does not decode is
// treated as empty. The HTTP status is returned alongside API errors so callers can special-case it.
func (c *Client) do(ctx context.Context, method string, path string, token string, body any, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, apierror.Network(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, apierror.Network(fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, apierror.API(resp.StatusCode, serverMessage(data))
	}

	if out != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			reflect.ValueOf(out).Elem().SetZero()
			slog.Debug("unrecognised response body treated as empty", "method", method, "path", path, "error", err)
		}
	}

	return resp.StatusCode, nil
}

// serverMessage pulls the human-readable message out of an error body. message may be a string or,
// from validation pipes, a list of strings.
func serverMessage(data []byte) string {
	var body struct {
		Message json.RawMessage `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}

	for _, raw := range []json.RawMessage{body.Message, body.Error} {
		if len(raw) == 0 {
			continue
		}

		var text string
		if err := json.Unmarshal(raw, &text); err == nil && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text)
		}

		var list []string
		if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
			return strings.Join(list, "; ")
		}
	}

	return ""
}

func requireToken(token string) error {
	if strings.TrimSpace(token) == "" {
		return apierror.Unauthenticated()
	}

	return nil
}

// requireFields returns a validation error naming every empty field, in the order given.
func requireFields(pairs ...string) error {
	var missing []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			missing = append(missing, pairs[i])
		}
	}

	if len(missing) > 0 {
		return apierror.Validation(missing...)
	}

	return nil
}
