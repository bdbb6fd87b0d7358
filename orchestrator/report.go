package orchestrator

import (
	"context"
	"time"

	"github.com/teachgrade/pipeline/rubric"
	"github.com/teachgrade/pipeline/session"
)

type Metadata struct {
	MentorName string    `json:"mentorName"`
	Role       string    `json:"role"`
	Timestamp  time.Time `json:"timestamp"`
}

// Staleness flags artifacts computed from an upstream version that has
// since been replaced by a stage re-run.
type Staleness struct {
	Audio      bool `json:"audio,omitempty"`
	Transcript bool `json:"transcript,omitempty"`
	Report     bool `json:"report,omitempty"`
}

// FullReport is the assembled read-only view of a session.
type FullReport struct {
	SessionID     string               `json:"sessionId"`
	Metadata      Metadata             `json:"metadata"`
	Transcript    string               `json:"transcript"`
	AudioMetrics  *session.Metrics     `json:"audioMetrics"`
	Pauses        session.PauseReport  `json:"pauses"`
	BodyMetrics   map[string]float64   `json:"bodyLanguageMetrics"`
	Rubric        *rubric.Rubric       `json:"rubric"`
	ScoreReport   *session.ScoreReport `json:"scoreReport"`
	EvidenceClips []session.Clip       `json:"evidenceClips"`
	FeedbackAudio *string              `json:"feedbackAudio"`
	Stale         Staleness            `json:"stale,omitempty"`
}

// Report returns the full assembled report for a session.
func (p *Pipeline) Report(ctx context.Context, id string) (*FullReport, error) {
	s, err := p.d.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	r := &FullReport{
		SessionID: s.ID,
		Metadata: Metadata{
			MentorName: s.MentorName,
			Role:       s.Role,
			Timestamp:  s.CreatedAt,
		},
		Transcript:    s.Transcript,
		AudioMetrics:  s.Metrics,
		Pauses:        s.Pauses,
		BodyMetrics:   s.BodyMetrics,
		Rubric:        s.Rubric,
		ScoreReport:   s.Report,
		EvidenceClips: s.Clips,
		Stale: Staleness{
			Audio:      s.AudioStale(),
			Transcript: s.TranscriptStale(),
			Report:     s.ReportStale(),
		},
	}
	if s.Report != nil {
		r.FeedbackAudio = s.Report.FeedbackAudio
	}
	return r, nil
}
