package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/teachgrade/pipeline/session"
)

const (
	// FeedbackScoreCutoff is the final score below which feedback audio
	// is synthesized from the corrected explanation.
	FeedbackScoreCutoff = 3.5

	// MaxFinalScore bounds the reasoning service's weighted score.
	MaxFinalScore = 5.0

	scoringTemperature = 0.2
	scoringMaxTokens   = 2000

	// maxSpeechChars caps the text sent to speech synthesis.
	maxSpeechChars = 2000
)

// Score runs the scoring stage: rubric, reasoning request, response
// validation, conditional feedback synthesis and evidence clip
// extraction. On any failure the session keeps its prior persisted state.
func (p *Pipeline) Score(ctx context.Context, id string) (*session.ScoreReport, error) {
	defer p.lock(id)()

	s, err := p.d.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(s.Transcript) == "" {
		return nil, fmt.Errorf("%w: transcript not generated", ErrPrerequisiteMissing)
	}

	// The rubric snapshot is immutable once a session has been scored.
	rub := s.Rubric
	if rub == nil {
		rub, err = p.d.Rubrics.ForRole(ctx, s.Role)
		if err != nil {
			return nil, &CollaboratorError{Name: "rubric provider", Err: err}
		}
	}

	raw, err := p.d.Reasoner.Complete(ctx, scoringPrompt(s, rub), scoringTemperature, scoringMaxTokens)
	if err != nil {
		return nil, &CollaboratorError{Name: "reasoning service", Err: err}
	}

	var report session.ScoreReport
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		return nil, &InvalidResponseError{Reason: "not valid JSON", Raw: raw}
	}
	if reason := validateReport(&report); reason != "" {
		return nil, &InvalidResponseError{Reason: reason, Raw: raw}
	}

	report.FeedbackAudio = nil
	if report.FinalScore < FeedbackScoreCutoff && report.ImprovementPlan != nil {
		if corrected := strings.TrimSpace(report.ImprovementPlan.CorrectedVersion); corrected != "" {
			path, err := p.synthesizeFeedback(ctx, s.ID, corrected)
			if err != nil {
				// Synthesis failure never fails the scoring stage.
				p.log.WithField("session", id).WithError(err).Warn("feedback synthesis failed")
			} else {
				report.FeedbackAudio = &path
			}
		}
	}

	clips, err := p.d.Clips.Extract(ctx, s.ID, s.VideoPath, report.TimestampEvidence)
	if err != nil {
		p.log.WithField("session", id).WithError(err).Warn("evidence extraction failed")
		clips = nil
	}

	s.Report = &report
	s.Rubric = rub
	s.Clips = clips
	s.ScoredFromTranscript = s.TranscriptVersion
	s.UpdatedAt = time.Now().UTC()
	if err := p.d.Store.Put(ctx, s); err != nil {
		return nil, err
	}

	p.log.WithFields(logrus.Fields{
		"session": id,
		"score":   report.FinalScore,
		"clips":   len(clips),
	}).Info("session scored")
	return &report, nil
}

// validateReport checks the response schema. The final score is trusted
// as computed by the reasoning service; only its bounds are checked.
func validateReport(r *session.ScoreReport) string {
	switch {
	case len(r.Scores) == 0:
		return "missing dimension scores"
	case len(r.TimestampEvidence) == 0:
		return "missing timestamp evidence"
	case r.FinalScore < 0 || r.FinalScore > MaxFinalScore:
		return fmt.Sprintf("final score %.2f outside [0,%.0f]", r.FinalScore, MaxFinalScore)
	case r.ImprovementPlan == nil:
		return "missing improvement plan"
	}
	return ""
}

func (p *Pipeline) synthesizeFeedback(ctx context.Context, id, text string) (string, error) {
	audio, err := p.d.Speech.Synthesize(ctx, trimForSpeech(text))
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(p.cfg.Paths.Feedback, 0o755); err != nil {
		return "", err
	}
	out := filepath.Join(p.cfg.Paths.Feedback, id+"_mentor_feedback.mp3")
	if err := os.WriteFile(out, audio, 0o644); err != nil {
		return "", err
	}
	return filepath.ToSlash(out), nil
}

// trimForSpeech flattens whitespace and caps the synthesis input, cutting
// on a rune boundary so the collaborator never sees invalid UTF-8.
func trimForSpeech(text string) string {
	t := strings.Join(strings.Fields(text), " ")
	if len(t) > maxSpeechChars {
		cut := maxSpeechChars
		for cut > 0 && !utf8.RuneStart(t[cut]) {
			cut--
		}
		t = t[:cut] + "..."
	}
	return t
}
