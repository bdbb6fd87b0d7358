package orchestrator

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/teachgrade/pipeline/session"
	"github.com/teachgrade/pipeline/speech"
)

// Create starts a new session. Role defaults to "teacher".
func (p *Pipeline) Create(ctx context.Context, mentorName, role string) (*session.Session, error) {
	if strings.TrimSpace(role) == "" {
		role = "teacher"
	}
	now := time.Now().UTC()
	s := &session.Session{
		ID:         uuid.NewString(),
		MentorName: mentorName,
		Role:       role,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := p.d.Store.Put(ctx, s); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	p.log.WithFields(logrus.Fields{"session": s.ID, "role": role}).Info("session created")
	return s, nil
}

// AttachVideo records the recording path. Re-attaching replaces the path
// and bumps the video version, which marks downstream artifacts stale.
func (p *Pipeline) AttachVideo(ctx context.Context, id, videoPath string) (*session.Session, error) {
	defer p.lock(id)()

	s, err := p.d.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.VideoPath = videoPath
	s.VideoVersion = uuid.NewString()
	s.UpdatedAt = time.Now().UTC()
	if err := p.d.Store.Put(ctx, s); err != nil {
		return nil, err
	}
	p.log.WithField("session", id).Info("video attached")
	return s, nil
}

// ExtractAudio derives the mono WAV used for transcription.
func (p *Pipeline) ExtractAudio(ctx context.Context, id string) (*session.Session, error) {
	defer p.lock(id)()

	s, err := p.d.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.VideoPath == "" {
		return nil, fmt.Errorf("%w: video not attached", ErrPrerequisiteMissing)
	}

	if err := os.MkdirAll(p.cfg.Paths.Audio, 0o755); err != nil {
		return nil, err
	}
	outPath := filepath.Join(p.cfg.Paths.Audio, s.ID+".wav")
	if err := p.d.Audio.ExtractAudio(ctx, s.VideoPath, outPath); err != nil {
		return nil, &CollaboratorError{Name: "transcoder", Err: err}
	}

	s.AudioPath = outPath
	s.AudioVersion = uuid.NewString()
	s.AudioFromVideo = s.VideoVersion
	s.UpdatedAt = time.Now().UTC()
	if err := p.d.Store.Put(ctx, s); err != nil {
		return nil, err
	}
	p.log.WithField("session", id).Info("audio extracted")
	return s, nil
}

// GenerateTranscript runs transcription and every local derivation that
// hangs off it: normalization, pause detection and speech metrics. All
// derived fields are persisted in a single update.
func (p *Pipeline) GenerateTranscript(ctx context.Context, id string) (*session.Session, error) {
	defer p.lock(id)()

	s, err := p.d.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.AudioPath == "" {
		return nil, fmt.Errorf("%w: audio not extracted", ErrPrerequisiteMissing)
	}

	tr, err := p.d.Transcriber.Transcribe(ctx, s.AudioPath)
	if err != nil {
		return nil, &CollaboratorError{Name: "transcription", Err: err}
	}
	if strings.TrimSpace(tr.Text) == "" {
		return nil, &CollaboratorError{Name: "transcription", Err: fmt.Errorf("empty transcript")}
	}

	clean := speech.Normalize(tr.Text)

	segs := make([]session.Segment, 0, len(tr.Segments))
	for _, seg := range tr.Segments {
		segs = append(segs, session.Segment{Start: seg.Start, End: seg.End, Text: seg.Text})
	}

	var duration float64
	if n := len(segs); n > 0 {
		duration = math.Max(1, segs[n-1].End-segs[0].Start)
	} else {
		duration = speech.EstimateDuration(clean)
	}

	pauses := speech.DetectPauses(segs)
	metrics := speech.Analyze(clean, duration, pauses.Pauses)

	s.RawTranscript = tr.Text
	s.Transcript = clean
	s.Segments = segs
	s.Language = tr.Language
	s.DurationSec = duration
	s.Pauses = pauses
	s.Metrics = &metrics
	s.TranscriptVersion = uuid.NewString()
	s.TranscriptFromAudio = s.AudioVersion
	s.UpdatedAt = time.Now().UTC()
	if err := p.d.Store.Put(ctx, s); err != nil {
		return nil, err
	}

	p.log.WithFields(logrus.Fields{
		"session": id,
		"words":   metrics.TotalWords,
		"pauses":  pauses.TotalPauses,
	}).Info("transcript generated")
	return s, nil
}

// SaveBodyMetrics stores the externally computed body-language metrics.
// The map is opaque to the pipeline and may be set any time after Create.
func (p *Pipeline) SaveBodyMetrics(ctx context.Context, id string, metrics map[string]float64) (*session.Session, error) {
	defer p.lock(id)()

	s, err := p.d.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.BodyMetrics = metrics
	s.UpdatedAt = time.Now().UTC()
	if err := p.d.Store.Put(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}
