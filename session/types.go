// Package session holds the central session entity, the artifacts derived
// from a recording, and the document store that persists them.
package session

import (
	"time"

	"github.com/teachgrade/pipeline/rubric"
)

// Segment is one timed unit of transcribed speech, ordered by start time.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Pause is a gap between consecutive segments exceeding the pause
// threshold. SegmentAfter is the index of the segment the gap follows.
type Pause struct {
	SegmentAfter int     `json:"segmentAfter"`
	Duration     float64 `json:"duration"`
	GapStart     string  `json:"gapStart"`
	GapEnd       string  `json:"gapEnd"`
}

type PauseReport struct {
	TotalPauses int     `json:"totalPauses"`
	Pauses      []Pause `json:"pauses"`
}

// Metrics is the fixed speech-metrics record. The three heuristic scores
// are additive-penalty values in [0,10].
type Metrics struct {
	TotalWords              int `json:"totalWords"`
	TotalSentences          int `json:"totalSentences"`
	WordsPerMin             int `json:"wordsPerMin"`
	FillerWords             int `json:"fillerWords"`
	PauseCount              int `json:"pauseCount"`
	SentenceComplexityScore int `json:"sentenceComplexityScore"`
	PronunciationScore      int `json:"pronunciationScore"`
	SpeakingStabilityScore  int `json:"speakingStabilityScore"`
}

// EvidenceItem is one issue cited by the scoring service, tied to a
// "start --> end" time range in the recording.
type EvidenceItem struct {
	Issue     string `json:"issue"`
	Timestamp string `json:"timestamp"`
	Reason    string `json:"reason"`
}

// Clip describes a successfully extracted evidence sub-clip.
type Clip struct {
	Issue  string `json:"issue"`
	Reason string `json:"reason"`
	Path   string `json:"path"`
}

type DimensionScore struct {
	Dimension     string  `json:"dimension"`
	Score         float64 `json:"score"`
	Justification string  `json:"justification"`
}

type ConceptualGap struct {
	Gap    string `json:"gap"`
	Impact string `json:"impact"`
}

type ImprovementPlan struct {
	IssuesDetected        []string `json:"issuesDetected"`
	CorrectedVersion      string   `json:"correctedVersion"`
	TeachingStrategy      []string `json:"teachingStrategy"`
	EngagementSuggestions []string `json:"engagementSuggestions"`
	DeliveryGuidance      []string `json:"deliveryGuidance"`
}

// ScoreReport is the validated output of the scoring stage. FeedbackAudio
// is nil unless feedback synthesis ran and produced a file.
type ScoreReport struct {
	Scores            []DimensionScore `json:"scores"`
	TimestampEvidence []EvidenceItem   `json:"timestampEvidence"`
	ConceptualGaps    []ConceptualGap  `json:"conceptualGaps"`
	FinalScore        float64          `json:"finalScore"`
	ImprovementPlan   *ImprovementPlan `json:"improvementPlan"`
	FeedbackAudio     *string          `json:"feedbackAudio"`
}

// Session is one recorded-and-evaluated teaching attempt. Each derived
// field is written only by the lifecycle stage that owns it. The version
// tags record which upstream artifact a derived artifact was computed
// from, so staleness after a re-run is detectable.
type Session struct {
	ID         string `json:"id"`
	MentorName string `json:"mentorName"`
	Role       string `json:"role"`

	VideoPath string `json:"videoPath,omitempty"`
	AudioPath string `json:"audioPath,omitempty"`

	RawTranscript string    `json:"rawTranscript,omitempty"`
	Transcript    string    `json:"transcript,omitempty"`
	Segments      []Segment `json:"segments,omitempty"`
	Language      string    `json:"language,omitempty"`
	DurationSec   float64   `json:"durationSec,omitempty"`

	Pauses  PauseReport `json:"pauses"`
	Metrics *Metrics    `json:"audioMetrics,omitempty"`

	BodyMetrics map[string]float64 `json:"bodyLanguageMetrics,omitempty"`

	Rubric *rubric.Rubric `json:"rubric,omitempty"`
	Report *ScoreReport   `json:"scoreReport,omitempty"`
	Clips  []Clip         `json:"clips,omitempty"`

	VideoVersion         string `json:"videoVersion,omitempty"`
	AudioVersion         string `json:"audioVersion,omitempty"`
	AudioFromVideo       string `json:"audioFromVideo,omitempty"`
	TranscriptVersion    string `json:"transcriptVersion,omitempty"`
	TranscriptFromAudio  string `json:"transcriptFromAudio,omitempty"`
	ScoredFromTranscript string `json:"scoredFromTranscript,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AudioStale reports whether the extracted audio was computed from a video
// version that has since been replaced.
func (s *Session) AudioStale() bool {
	return s.AudioVersion != "" && s.AudioFromVideo != s.VideoVersion
}

// TranscriptStale reports whether the transcript no longer matches the
// current audio artifact.
func (s *Session) TranscriptStale() bool {
	return s.TranscriptVersion != "" && (s.TranscriptFromAudio != s.AudioVersion || s.AudioStale())
}

// ReportStale reports whether the score report was computed from a
// transcript that has since been replaced.
func (s *Session) ReportStale() bool {
	return s.Report != nil && (s.ScoredFromTranscript != s.TranscriptVersion || s.TranscriptStale())
}
