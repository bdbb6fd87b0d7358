package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
)

// --- Transcription (/audio/transcriptions) ---

type TransSeg struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

type Transcription struct {
	Text     string     `json:"text"`
	Segments []TransSeg `json:"segments"`
	Language string     `json:"language"`
}

type TranscriptionClient struct {
	h      *HTTP
	url    string
	apiKey string
	model  string
}

func NewTranscriptionClient(h *HTTP, url, apiKey, model string) *TranscriptionClient {
	return &TranscriptionClient{h: h, url: url, apiKey: apiKey, model: model}
}

// Transcribe uploads the audio file and returns the full text plus timed
// segments in the verbose JSON shape.
func (c *TranscriptionClient) Transcribe(ctx context.Context, audioPath string) (*Transcription, error) {
	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	fw, err := w.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, err
	}
	fd, err := os.Open(audioPath)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	if _, err = io.Copy(fw, fd); err != nil {
		return nil, err
	}
	if err = w.WriteField("model", c.model); err != nil {
		return nil, err
	}
	if err = w.WriteField("response_format", "verbose_json"); err != nil {
		return nil, err
	}
	if err = w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/audio/transcriptions", &b)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.h.c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("transcription %s: %s", resp.Status, string(body))
	}

	var out Transcription
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("transcription decode: %w", err)
	}
	return &out, nil
}
