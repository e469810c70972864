// Package gemini is a minimal client for the Gemini generateContent REST
// API. It speaks the wire shapes directly so callers can surface raw
// response bodies in their error reporting.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	apiKeyHeader   = "x-goog-api-key"
)

// Content is one role-tagged conversation turn.
type Content struct {
	Role  string `json:"role"`
	Parts []Part `json:"parts"`
}

type Part struct {
	Text string `json:"text"`
}

func UserTurn(text string) Content {
	return Content{Role: "user", Parts: []Part{{Text: text}}}
}

func ModelTurn(text string) Content {
	return Content{Role: "model", Parts: []Part{{Text: text}}}
}

// Tool enables server-side tools. GoogleSearch grounding is always sent.
type Tool struct {
	GoogleSearch struct{} `json:"google_search"`
}

type generateRequest struct {
	Contents          []Content `json:"contents"`
	Tools             []Tool    `json:"tools"`
	SystemInstruction *Content  `json:"systemInstruction,omitempty"`
}

type WebSource struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

type GroundingChunk struct {
	Web *WebSource `json:"web,omitempty"`
}

type GroundingMetadata struct {
	GroundingChunks []GroundingChunk `json:"groundingChunks,omitempty"`
}

type Candidate struct {
	Content           Content            `json:"content"`
	GroundingMetadata *GroundingMetadata `json:"groundingMetadata,omitempty"`
}

// Text concatenates the candidate's text parts.
func (c Candidate) Text() string {
	var b strings.Builder
	for _, part := range c.Content.Parts {
		b.WriteString(part.Text)
	}
	return b.String()
}

// Sources returns the web grounding chunks attached to the candidate.
func (c Candidate) Sources() []WebSource {
	if c.GroundingMetadata == nil {
		return nil
	}
	var sources []WebSource
	for _, chunk := range c.GroundingMetadata.GroundingChunks {
		if chunk.Web != nil && chunk.Web.URI != "" {
			sources = append(sources, *chunk.Web)
		}
	}
	return sources
}

type generateResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// APIError is a non-2xx response, raw body included for diagnosability.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gemini API returned HTTP %d: %s", e.StatusCode, e.Body)
}

// EmptyCandidateError is an HTTP success carrying no usable content. The
// raw body is kept so the failure can be shown to the user as-is.
type EmptyCandidateError struct {
	Body string
}

func (e *EmptyCandidateError) Error() string {
	return fmt.Sprintf("gemini API returned no candidates: %s", e.Body)
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type Option func(*Client)

// WithBaseURL overrides the API host; tests point this at a local server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate posts the running conversation and returns the first candidate.
// system, when non-empty, is sent as the systemInstruction turn.
func (c *Client) Generate(ctx context.Context, model string, contents []Content, system string) (*Candidate, error) {
	if model == "" {
		return nil, fmt.Errorf("model is required")
	}

	reqBody := generateRequest{
		Contents: contents,
		Tools:    []Tool{{}},
	}
	if strings.TrimSpace(system) != "" {
		reqBody.SystemInstruction = &Content{Parts: []Part{{Text: system}}}
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apiKeyHeader, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode response %q: %w", string(body), err)
	}
	if len(parsed.Candidates) == 0 || parsed.Candidates[0].Text() == "" {
		return nil, &EmptyCandidateError{Body: string(body)}
	}

	candidate := parsed.Candidates[0]
	return &candidate, nil
}
