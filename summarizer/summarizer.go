// Package summarizer asks a text-completion service for a short summary of
// a transcript.
package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"hark/log"
)

const (
	DefaultEndpoint = "https://api.openai.com/v1/engines/text-davinci-003/completions"

	maxTokens   = 100
	temperature = 0.5

	promptTemplate = "Summarize the following transcript in a few sentences:\n\n%s\n\nSummary:"
)

var ErrEmptyTranscript = errors.New("nothing to summarize")

type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (string, error)
}

type completionRequest struct {
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	N           int     `json:"n"`
	Stop        *string `json:"stop"`
	Temperature float64 `json:"temperature"`
}

type completionResponse struct {
	Choices []struct {
		Text string `json:"text"`
	} `json:"choices"`
}

// OpenAI calls a legacy completions endpoint once per Summarize. There is no
// retry.
type OpenAI struct {
	client   *tracedClient
	endpoint string
	apiKey   string
}

func NewOpenAI(endpoint, apiKey string) *OpenAI {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &OpenAI{client: newTracedClient(), endpoint: endpoint, apiKey: apiKey}
}

func buildPrompt(transcript string) string {
	return fmt.Sprintf(promptTemplate, strings.TrimSpace(transcript))
}

func (o *OpenAI) Summarize(ctx context.Context, transcript string) (string, error) {
	if strings.TrimSpace(transcript) == "" {
		return "", ErrEmptyTranscript
	}

	prompt := buildPrompt(transcript)
	body, err := json.Marshal(completionRequest{
		Prompt:      prompt,
		MaxTokens:   maxTokens,
		N:           1,
		Temperature: temperature,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", o.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.do(req)
	if err != nil {
		return "", fmt.Errorf("completion request: %w", err)
	}

	m := resp.Timings
	metrics := log.SummaryMetrics{
		Status:      resp.StatusCode,
		PromptChars: len(prompt),
		DNSMs:       float64(m.DNS.Microseconds()) / 1000,
		TLSMs:       float64(m.TLS.Microseconds()) / 1000,
		TTFBMs:      float64(m.TTFB.Microseconds()) / 1000,
		TotalMs:     float64(m.Total.Microseconds()) / 1000,
		ConnReused:  m.ConnReused,
	}
	defer func() { log.Summary(metrics) }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("completion API error %d: %s", resp.StatusCode, string(resp.Body))
	}

	var cResp completionResponse
	if err := json.Unmarshal(resp.Body, &cResp); err != nil {
		return "", fmt.Errorf("completion response parse error: %w", err)
	}
	if len(cResp.Choices) == 0 {
		return "", errors.New("completion response has no choices")
	}
	summary := strings.TrimSpace(cResp.Choices[0].Text)
	metrics.SummaryLen = len(summary)
	return summary, nil
}
