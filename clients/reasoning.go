package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// --- Reasoning service (/chat/completions) ---

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	ResponseFormat formatSpec    `json:"response_format"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	MaxTokens      int           `json:"max_tokens"`
}

type formatSpec struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type ReasoningClient struct {
	h      *HTTP
	url    string
	apiKey string
	model  string
}

func NewReasoningClient(h *HTTP, url, apiKey, model string) *ReasoningClient {
	return &ReasoningClient{h: h, url: url, apiKey: apiKey, model: model}
}

// Complete sends a single-user-message prompt in JSON-only mode and
// returns the raw response text. Callers own parsing so an invalid
// payload can be surfaced together with its raw text.
func (c *ReasoningClient) Complete(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	body, _ := json.Marshal(chatRequest{
		Model:          c.model,
		ResponseFormat: formatSpec{Type: "json_object"},
		Messages:       []chatMessage{{Role: "user", Content: prompt}},
		Temperature:    temperature,
		MaxTokens:      maxTokens,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.h.c.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("reasoning %s: %s", resp.Status, string(b))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("reasoning decode: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("reasoning returned no choices")
	}
	return out.Choices[0].Message.Content, nil
}
