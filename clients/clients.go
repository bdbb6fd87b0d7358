// Package clients holds the external HTTP collaborators: the transcription
// service, the reasoning service and text-to-speech.
package clients

import (
	"net/http"
	"time"
)

type HTTP struct{ c *http.Client }

func NewHTTP(timeout time.Duration) *HTTP {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HTTP{c: &http.Client{Timeout: timeout}}
}
