package llm

import (
	"context"
	"errors"
	"testing"

	"atelier/internal/config"

	"github.com/stretchr/testify/assert"
	"google.golang.org/genai"
)

type usageCall struct {
	model, tier   string
	input, output int
	failed        bool
}

type recordingUsage struct {
	calls []usageCall
}

func (r *recordingUsage) Track(model, tier string, input, output int, failed bool) {
	r.calls = append(r.calls, usageCall{model, tier, input, output, failed})
}

func TestGenAIClient_RecordsUsage(t *testing.T) {
	rec := &recordingUsage{}
	c := &GenAIClient{}
	WithUsage(rec)(c)

	resp := &genai.GenerateContentResponse{
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
			PromptTokenCount:     120,
			CandidatesTokenCount: 480,
		},
	}
	c.record(Request{Model: "gemini-2.5-pro", Tier: "enhanced"}, resp, nil)
	c.record(Request{Model: "gemini-2.5-flash", Tier: "basic"}, nil, errors.New("quota"))

	assert.Equal(t, []usageCall{
		{"gemini-2.5-pro", "enhanced", 120, 480, false},
		{"gemini-2.5-flash", "basic", 0, 0, true},
	}, rec.calls)
}

func TestGenAIClient_RecordWithoutRecorder(t *testing.T) {
	c := &GenAIClient{}
	c.record(Request{Model: "m"}, nil, nil)
}

func TestNewGenAIClient_RequiresKey(t *testing.T) {
	_, err := NewGenAIClient(context.Background(), config.LLMConfig{APIKey: "  "}, 0)
	assert.ErrorIs(t, err, ErrNotConfigured)
}
