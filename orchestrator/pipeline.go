// Package orchestrator drives the session lifecycle: each stage reads the
// persisted session, runs its component, and writes its own derived fields
// back in one update. A failed stage leaves the session untouched;
// re-running a completed stage overwrites that stage's artifacts.
package orchestrator

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/teachgrade/pipeline/clients"
	cfg "github.com/teachgrade/pipeline/config"
	"github.com/teachgrade/pipeline/rubric"
	"github.com/teachgrade/pipeline/session"
)

// Transcriber is the transcription-service contract.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*clients.Transcription, error)
}

// Reasoner is the scoring/reasoning-service contract: a JSON-only prompt
// completion returning raw text.
type Reasoner interface {
	Complete(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error)
}

// Synthesizer turns feedback text into audio bytes.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// AudioExtractor pulls the audio track out of the recording.
type AudioExtractor interface {
	ExtractAudio(ctx context.Context, videoPath, outPath string) error
}

// ClipExtractor produces evidence sub-clips, dropping failed items.
type ClipExtractor interface {
	Extract(ctx context.Context, sessionID, videoPath string, items []session.EvidenceItem) ([]session.Clip, error)
}

// RubricProvider resolves the rubric for a role, cached per role.
type RubricProvider interface {
	ForRole(ctx context.Context, role string) (*rubric.Rubric, error)
}

type Deps struct {
	Store       session.Store
	Transcriber Transcriber
	Reasoner    Reasoner
	Speech      Synthesizer
	Rubrics     RubricProvider
	Audio       AudioExtractor
	Clips       ClipExtractor
	Log         *logrus.Logger
}

type Pipeline struct {
	cfg *cfg.Root
	d   Deps
	log *logrus.Entry

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New(c *cfg.Root, d Deps) *Pipeline {
	if d.Log == nil {
		d.Log = logrus.StandardLogger()
	}
	return &Pipeline{
		cfg:   c,
		d:     d,
		log:   d.Log.WithField("component", "pipeline"),
		locks: map[string]*sync.Mutex{},
	}
}

// lock serializes stage transitions per session so two concurrent
// invocations cannot interleave writes to the same document. The returned
// function releases the lock.
func (p *Pipeline) lock(id string) func() {
	p.mu.Lock()
	m, ok := p.locks[id]
	if !ok {
		m = &sync.Mutex{}
		p.locks[id] = m
	}
	p.mu.Unlock()
	m.Lock()
	return m.Unlock
}
