package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func tempAudio(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "audio.wav")
	if err := os.WriteFile(p, []byte("fake-audio-data"), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestTranscribe(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer key" {
			t.Errorf("Authorization = %q", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("model"); got != "whisper-large-v3" {
			t.Errorf("model = %q", got)
		}
		if got := r.FormValue("response_format"); got != "verbose_json" {
			t.Errorf("response_format = %q", got)
		}
		_, _ = w.Write([]byte(`{
			"text": "hello world",
			"segments": [{"start": 0, "end": 2.5, "text": "hello world"}],
			"language": "en"
		}`))
	}))
	defer ts.Close()

	c := NewTranscriptionClient(NewHTTP(5*time.Second), ts.URL, "key", "whisper-large-v3")
	out, err := c.Transcribe(context.Background(), tempAudio(t))
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if out.Text != "hello world" || len(out.Segments) != 1 || out.Segments[0].End != 2.5 {
		t.Errorf("unexpected transcription: %+v", out)
	}
}

func TestTranscribeServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream busy", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	c := NewTranscriptionClient(NewHTTP(5*time.Second), ts.URL, "", "whisper-large-v3")
	if _, err := c.Transcribe(context.Background(), tempAudio(t)); err == nil {
		t.Fatal("want error on 503")
	} else if !strings.Contains(err.Error(), "upstream busy") {
		t.Errorf("error should carry response body, got %v", err)
	}
}

func TestComplete(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req["model"] != "compound-mini" {
			t.Errorf("model = %v", req["model"])
		}
		rf, _ := req["response_format"].(map[string]any)
		if rf["type"] != "json_object" {
			t.Errorf("response_format = %v", req["response_format"])
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"ok\":true}"}}]}`))
	}))
	defer ts.Close()

	c := NewReasoningClient(NewHTTP(5*time.Second), ts.URL, "key", "compound-mini")
	raw, err := c.Complete(context.Background(), "score this", 0.2, 2000)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if raw != `{"ok":true}` {
		t.Errorf("raw = %q", raw)
	}
}

func TestCompleteNoChoices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer ts.Close()

	c := NewReasoningClient(NewHTTP(5*time.Second), ts.URL, "", "m")
	if _, err := c.Complete(context.Background(), "p", 0, 10); err == nil {
		t.Fatal("want error when no choices returned")
	}
}

func TestSynthesize(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/speak" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("model"); got != "aura-stella-en" {
			t.Errorf("voice = %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Token key" {
			t.Errorf("Authorization = %q", got)
		}
		_, _ = w.Write([]byte("mp3-bytes"))
	}))
	defer ts.Close()

	c := NewTTSClient(NewHTTP(5*time.Second), ts.URL, "key", "aura-stella-en")
	audio, err := c.Synthesize(context.Background(), "well done")
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if string(audio) != "mp3-bytes" {
		t.Errorf("audio = %q", audio)
	}
}
