package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"triage-backend/internal/llm"
	"triage-backend/internal/shared/telemetry"
)

const defaultTimeout = 120 * time.Second

// Client implements llm.Client against a local Ollama-style API.
type Client struct {
	baseURL      string
	defaultModel string
	timeout      time.Duration
	httpClient   *http.Client
}

// NewClient constructs a client for the backend at baseURL. A zero timeout
// falls back to the default.
func NewClient(baseURL, defaultModel string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:      strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		defaultModel: defaultModel,
		timeout:      timeout,
		// The transport-level timeout stays slightly above the context bound
		// so context cancellation is the one that fires and classifies.
		httpClient: &http.Client{Timeout: timeout + 5*time.Second},
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// generateResponse uses pointers so an absent field is distinguishable from
// an empty one: backend versions vary the reply field name, and when none of
// the known names is present the whole body is treated as the reply text.
type generateResponse struct {
	Response *string `json:"response"`
	Output   *string `json:"output"`
	Result   *string `json:"result"`
	Error    string  `json:"error"`
}

// Generate issues a single non-streaming completion request.
func (c *Client) Generate(ctx context.Context, input llm.GenerateInput) (string, error) {
	model := strings.TrimSpace(input.Model)
	if model == "" {
		model = c.defaultModel
	}

	payload, err := json.Marshal(generateRequest{
		Model:  model,
		Prompt: input.Prompt,
		Stream: false,
	})
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", classifyTransportErr(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", classifyTransportErr(err)
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		// Keep the raw body server-side for diagnosis; never hand it back.
		telemetry.Error("ollama.malformed_reply", map[string]any{
			"status": resp.StatusCode,
			"err":    err.Error(),
			"body":   truncate(string(body), 2000),
		})
		return "", fmt.Errorf("%w: status %d", llm.ErrMalformedReply, resp.StatusCode)
	}

	if parsed.Error != "" {
		return "", fmt.Errorf("%w: %s", llm.ErrBackend, parsed.Error)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: status %d", llm.ErrBackend, resp.StatusCode)
	}

	text := firstPresent(parsed.Response, parsed.Output, parsed.Result)
	if text == nil {
		raw := string(body)
		text = &raw
	}
	trimmed := strings.TrimSpace(*text)
	if trimmed == "" {
		return "", llm.ErrEmptyReply
	}
	return trimmed, nil
}

type tagsResponse struct {
	Models []llm.Model `json:"models"`
	Error  string      `json:"error"`
}

// ListModels proxies the backend's tag listing.
func (c *Client) ListModels(ctx context.Context) ([]llm.Model, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportErr(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportErr(err)
	}

	var parsed tagsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: status %d", llm.ErrMalformedReply, resp.StatusCode)
	}
	if parsed.Error != "" {
		return nil, fmt.Errorf("%w: %s", llm.ErrBackend, parsed.Error)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", llm.ErrBackend, resp.StatusCode)
	}
	return parsed.Models, nil
}

func classifyTransportErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", llm.ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", llm.ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", llm.ErrConnectionFailed, err)
}

func firstPresent(candidates ...*string) *string {
	for _, c := range candidates {
		if c != nil {
			return c
		}
	}
	return nil
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "…"
}

var _ llm.Client = (*Client)(nil)
