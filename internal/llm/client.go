// Package llm wraps the generative remote service used by the remote search tiers.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"atelier/internal/config"
	"atelier/internal/logging"

	"google.golang.org/genai"
)

var (
	// ErrNotConfigured is returned when no API key is available.
	ErrNotConfigured = errors.New("llm: remote service not configured")
	// ErrEmptyResponse is returned when the service answers with no text.
	ErrEmptyResponse = errors.New("llm: empty response")
	// ErrNoJSON is returned when a response contains no JSON object.
	ErrNoJSON = errors.New("llm: no JSON object in response")
)

// Request is a single text-generation call.
type Request struct {
	Model       string
	System      string
	Prompt      string
	JSON        bool // ask for application/json output
	Temperature float32

	// Tier labels the call in usage accounting.
	Tier string
}

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// UsageRecorder receives token counts for every call.
type UsageRecorder interface {
	Track(model, tier string, input, output int, failed bool)
}

// GenAIClient talks to Gemini through google.golang.org/genai.
type GenAIClient struct {
	client  *genai.Client
	timeout time.Duration
	usage   UsageRecorder
}

// ClientOption configures a GenAIClient.
type ClientOption func(*GenAIClient)

// WithUsage records token usage for every call.
func WithUsage(r UsageRecorder) ClientOption {
	return func(c *GenAIClient) { c.usage = r }
}

// NewGenAIClient creates a client from the llm configuration.
func NewGenAIClient(ctx context.Context, cfg config.LLMConfig, timeout time.Duration, opts ...ClientOption) (*GenAIClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNotConfigured
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	logging.LLM("GenAI client ready (enhanced=%s basic=%s)", cfg.EnhancedModel, cfg.BasicModel)
	c := &GenAIClient{client: client, timeout: timeout}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Generate sends the request and returns the response text.
func (c *GenAIClient) Generate(ctx context.Context, req Request) (string, error) {
	if c == nil || c.client == nil {
		return "", ErrNotConfigured
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	gc := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(req.Temperature),
	}
	if req.System != "" {
		gc.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.JSON {
		gc.ResponseMIMEType = "application/json"
	}

	timer := logging.StartTimer(logging.CategoryLLM, "GenerateContent "+req.Model)
	resp, err := c.client.Models.GenerateContent(ctx, req.Model, genai.Text(req.Prompt), gc)
	timer.Stop()
	c.record(req, resp, err)
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyResponse
	}
	logging.LLMDebug("Response from %s: %d chars", req.Model, len(text))
	return text, nil
}

func (c *GenAIClient) record(req Request, resp *genai.GenerateContentResponse, err error) {
	if c.usage == nil {
		return
	}
	var in, out int
	if resp != nil && resp.UsageMetadata != nil {
		in = int(resp.UsageMetadata.PromptTokenCount)
		out = int(resp.UsageMetadata.CandidatesTokenCount)
	}
	c.usage.Track(req.Model, req.Tier, in, out, err != nil)
}
