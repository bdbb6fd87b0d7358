package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// --- Text-to-speech (/speak) ---

type ttsRequest struct {
	Text string `json:"text"`
}

type TTSClient struct {
	h      *HTTP
	url    string
	apiKey string
	voice  string
}

func NewTTSClient(h *HTTP, url, apiKey, voice string) *TTSClient {
	return &TTSClient{h: h, url: url, apiKey: apiKey, voice: voice}
}

// Synthesize turns plain text into an audio payload.
func (c *TTSClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	body, _ := json.Marshal(ttsRequest{Text: text})
	url := c.url + "/speak"
	if c.voice != "" {
		url += "?model=" + c.voice
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Token "+c.apiKey)
	}

	resp, err := c.h.c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("tts %s: %s", resp.Status, string(b))
	}
	return io.ReadAll(resp.Body)
}
