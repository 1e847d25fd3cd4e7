package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const generatePath = "/v1beta/models/gemini-2.0-flash:generateContent"

// Provider is the contract for the external generative-text service:
// one synchronous completion per call, credential supplied per request
// because each user may bring their own API key.
type Provider interface {
	Complete(ctx context.Context, credential, prompt string) (string, error)
}

type geminiProvider struct {
	client *http.Client
	url    string
}

// NewGeminiProvider builds a Provider against the Gemini REST API. The
// timeout bounds the whole request; there is no retry at this layer.
func NewGeminiProvider(url string, timeout time.Duration) Provider {
	return &geminiProvider{
		client: &http.Client{Timeout: timeout},
		url:    url,
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (p *geminiProvider) Complete(ctx context.Context, credential, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("could not marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url+generatePath, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("could not create http request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-goog-api-key", credential)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("api returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("could not decode response: %w", err)
	}

	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from model")
	}
	var reply string
	for _, p := range genResp.Candidates[0].Content.Parts {
		reply += p.Text
	}
	if reply == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return reply, nil
}
