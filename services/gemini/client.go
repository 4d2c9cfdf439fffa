package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// BaseURL is the Google Generative Language API base URL
	BaseURL = "https://generativelanguage.googleapis.com"
	// DefaultTimeout is longer for LLM inference requests
	DefaultTimeout = 120 * time.Second
	// DefaultModel is the default Gemini model
	DefaultModel = "gemini-2.0-flash"
)

// Client handles Gemini generateContent API calls
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	model      string
}

// Config holds configuration for the Gemini client
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	Model   string
}

// NewClient creates a new Gemini API client
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = BaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}

	return &Client{
		apiKey:  config.APIKey,
		baseURL: config.BaseURL,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		model: config.Model,
	}
}

// Part is a single piece of content in a Gemini message
type Part struct {
	Text string `json:"text"`
}

// Content is a role-tagged message in a generateContent request
type Content struct {
	Role  string `json:"role,omitempty"` // "user" or "model"
	Parts []Part `json:"parts"`
}

// GenerationConfig controls sampling for the request
type GenerationConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	TopP            float64 `json:"topP,omitempty"`
}

// GenerateRequest represents a generateContent request body
type GenerateRequest struct {
	Contents          []Content         `json:"contents"`
	SystemInstruction *Content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *GenerationConfig `json:"generationConfig,omitempty"`
}

// Candidate represents one generated answer
type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason"`
}

// UsageMetadata reports token usage for the request
type UsageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

// GenerateResponse represents the generateContent response body
type GenerateResponse struct {
	Candidates    []Candidate   `json:"candidates"`
	UsageMetadata UsageMetadata `json:"usageMetadata"`
	ModelVersion  string        `json:"modelVersion"`
}

// Option is a function that modifies the generate request
type Option func(*GenerateRequest)

// WithTemperature sets the sampling temperature
func WithTemperature(temp float64) Option {
	return func(req *GenerateRequest) {
		if req.GenerationConfig == nil {
			req.GenerationConfig = &GenerationConfig{}
		}
		req.GenerationConfig.Temperature = temp
	}
}

// WithMaxOutputTokens caps the response length
func WithMaxOutputTokens(tokens int) Option {
	return func(req *GenerateRequest) {
		if req.GenerationConfig == nil {
			req.GenerationConfig = &GenerationConfig{}
		}
		req.GenerationConfig.MaxOutputTokens = tokens
	}
}

// WithSystemInstruction sets the system instruction for the request
func WithSystemInstruction(instruction string) Option {
	return func(req *GenerateRequest) {
		req.SystemInstruction = &Content{
			Parts: []Part{{Text: instruction}},
		}
	}
}

// GenerateContent sends a generateContent request for the given conversation
func (c *Client) GenerateContent(ctx context.Context, contents []Content, options ...Option) (*GenerateResponse, error) {
	req := GenerateRequest{
		Contents: contents,
		GenerationConfig: &GenerationConfig{
			Temperature:     0.7,
			MaxOutputTokens: 4096,
		},
	}

	for _, opt := range options {
		opt(&req)
	}

	return c.sendGenerateContent(ctx, req)
}

func (c *Client) sendGenerateContent(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("x-goog-api-key", c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("gemini API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var result GenerateResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

// SimpleCompletion is a convenience method for single-turn prompts
func (c *Client) SimpleCompletion(ctx context.Context, prompt string, options ...Option) (string, *UsageMetadata, error) {
	contents := []Content{
		{Role: "user", Parts: []Part{{Text: prompt}}},
	}

	resp, err := c.GenerateContent(ctx, contents, options...)
	if err != nil {
		return "", nil, err
	}

	text := resp.ExtractText()
	if text == "" {
		return "", nil, fmt.Errorf("no candidates returned from gemini API")
	}

	return text, &resp.UsageMetadata, nil
}

// Model returns the configured model name
func (c *Client) Model() string {
	return c.model
}

// HealthCheck verifies the Gemini API is accessible
func (c *Client) HealthCheck(ctx context.Context) error {
	contents := []Content{
		{Role: "user", Parts: []Part{{Text: "Say 'ok' if you can hear me."}}},
	}
	_, err := c.GenerateContent(ctx, contents, WithMaxOutputTokens(10))
	return err
}

// ExtractText extracts the first candidate's text from a response
func (r *GenerateResponse) ExtractText() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var out string
	for _, part := range r.Candidates[0].Content.Parts {
		out += part.Text
	}
	return out
}
