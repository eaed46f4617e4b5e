package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultEndpoint = "https://api.openai.com/v1/images/generations"
	defaultModel    = "gpt-image-1"

	// ProviderName is the secret-provider key the client resolves at call time.
	ProviderName = "openai"
)

var (
	// ErrMissingAPIKey is returned before any network call when no key resolves.
	ErrMissingAPIKey = errors.New("missing OpenAI API key")
	// ErrEmptyResult is returned when the API answers without usable image data.
	ErrEmptyResult = errors.New("no image data returned")
	// ErrDecode is returned when a 2xx response does not match the expected schema.
	ErrDecode = errors.New("failed to decode image response")
	// ErrUnsupportedSize is returned for sizes outside the supported set.
	ErrUnsupportedSize = errors.New("unsupported image size")
)

var supportedSizes = []string{"1024x1024", "1024x1536", "1536x1024"}

// SupportedSizes lists the image dimensions the API accepts.
func SupportedSizes() []string {
	out := make([]string, len(supportedSizes))
	copy(out, supportedSizes)
	return out
}

// IsSupportedSize reports whether size is in the supported set.
func IsSupportedSize(size string) bool {
	for _, s := range supportedSizes {
		if s == size {
			return true
		}
	}
	return false
}

// APIError carries a non-2xx status and the response body text.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API returned status %d: %s", e.StatusCode, e.Body)
}

// TransportError wraps a failure to obtain any HTTP response at all.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("executing request: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Generator is the capability consumed by the orchestration layer. Production
// uses Client; tests substitute mocks.
type Generator interface {
	Generate(ctx context.Context, prompt, size string) ([]byte, error)
}

// KeySource resolves API keys by provider name. Resolution happens at call
// time so key changes take effect immediately.
type KeySource interface {
	APIKey(provider string) (string, bool)
}

// Client talks to the OpenAI images endpoint. It issues exactly one generation
// request per Generate call (plus one fetch when the API answers with a URL
// instead of inline data) and never retries.
type Client struct {
	keys       KeySource
	httpClient *http.Client
	endpoint   string
	model      string
}

// NewClient constructs a Client. If httpClient is nil, a client with a 120
// second timeout is used; image generation routinely takes tens of seconds.
func NewClient(keys KeySource, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 120 * time.Second}
	}
	return &Client{
		keys:       keys,
		httpClient: httpClient,
		endpoint:   defaultEndpoint,
		model:      defaultModel,
	}
}

// NewClientWithEndpoint is NewClient with an endpoint override for tests.
func NewClientWithEndpoint(keys KeySource, httpClient *http.Client, endpoint string) *Client {
	c := NewClient(keys, httpClient)
	c.endpoint = endpoint
	return c
}

type generationRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Size   string `json:"size"`
	N      int    `json:"n"`
}

type generationResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
		URL     string `json:"url"`
	} `json:"data"`
}

// Generate requests one image for the prompt and returns its raw bytes.
func (c *Client) Generate(ctx context.Context, prompt, size string) ([]byte, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, errors.New("prompt is required")
	}
	if !IsSupportedSize(size) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSize, size)
	}

	apiKey, ok := c.keys.APIKey(ProviderName)
	if !ok || apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	payload, err := json.Marshal(generationRequest{
		Model:  c.model,
		Prompt: prompt,
		Size:   size,
		N:      1,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var decoded generationResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if len(decoded.Data) == 0 {
		return nil, ErrEmptyResult
	}

	first := decoded.Data[0]
	switch {
	case first.B64JSON != "":
		data, err := base64.StdEncoding.DecodeString(first.B64JSON)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		return data, nil
	case first.URL != "":
		return c.fetchImage(ctx, first.URL)
	default:
		return nil, ErrEmptyResult
	}
}

// fetchImage retrieves an image the API exposed by URL, with the same status
// validation as the primary call.
func (c *Client) fetchImage(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	return c.do(req)
}

// do executes a request and returns the body, mapping failures onto the
// client's error taxonomy.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

var _ Generator = (*Client)(nil)
