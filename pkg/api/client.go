package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/loomchat/loom/pkg/logger"
)

// Client talks to the chat backend: the streaming chat endpoint, the thread
// directory, and the model catalog.
type Client struct {
	baseURL    string
	httpClient *http.Client
	// streamClient has no overall deadline: the initiating call is bounded
	// by ResponseHeaderTimeout while the body may drain for as long as the
	// model keeps talking.
	streamClient *http.Client
	auth         AuthProvider
}

// envelope is the JSON wrapper every non-streaming endpoint responds with.
type envelope struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func NewClient(baseURL string, auth AuthProvider) *Client {
	return NewClientWithTimeout(baseURL, auth, 30*time.Second)
}

func NewClientWithTimeout(baseURL string, auth AuthProvider, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		streamClient: &http.Client{
			Transport: &http.Transport{
				ResponseHeaderTimeout: timeout,
			},
		},
		auth: auth,
	}
}

// newRequest builds a request with auth and tracing headers applied.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	if c.auth != nil {
		token, err := c.auth.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve auth token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	return req, nil
}

// doJSON performs a request against an envelope-wrapped endpoint and decodes
// the data payload into out (which may be nil for endpoints without data).
func (c *Client) doJSON(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	logger.Debug("API %s %s", method, path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &RequestError{Path: path, Cause: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestError{Status: resp.StatusCode, Path: path, Cause: err}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return &RequestError{Status: resp.StatusCode, Path: path, Message: strings.TrimSpace(string(raw))}
		}
		return &RequestError{Status: resp.StatusCode, Path: path, Cause: fmt.Errorf("failed to decode response: %w", err)}
	}

	if !env.Success {
		return &RequestError{Status: resp.StatusCode, Path: path, Message: env.Error}
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &RequestError{Status: resp.StatusCode, Path: path, Cause: fmt.Errorf("failed to decode data: %w", err)}
		}
	}

	return nil
}

// queryPath appends url-encoded query parameters to a path.
func queryPath(path string, params url.Values) string {
	if len(params) == 0 {
		return path
	}
	return path + "?" + params.Encode()
}
