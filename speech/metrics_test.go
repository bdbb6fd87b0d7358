package speech

import (
	"strings"
	"testing"

	"github.com/teachgrade/pipeline/session"
)

func TestAnalyzeScenario(t *testing.T) {
	transcript := Normalize("I think, uh uh, this is, um, basically correct.")
	// "uh uh" collapsed, so eight words remain.
	m := Analyze(transcript, 10, nil)

	if m.TotalWords != 8 {
		t.Errorf("TotalWords = %d, want 8", m.TotalWords)
	}
	if m.WordsPerMin != 48 { // round(8 / 10 * 60)
		t.Errorf("WordsPerMin = %d, want 48", m.WordsPerMin)
	}
	if m.TotalSentences != 1 {
		t.Errorf("TotalSentences = %d, want 1", m.TotalSentences)
	}
	if m.FillerWords != 3 { // uh, um, basically
		t.Errorf("FillerWords = %d, want 3", m.FillerWords)
	}
	// Filler density 3/8 costs one complexity point.
	if m.SentenceComplexityScore != 9 {
		t.Errorf("SentenceComplexityScore = %d, want 9", m.SentenceComplexityScore)
	}
}

func TestAnalyzeZeroDuration(t *testing.T) {
	m := Analyze("some words here.", 0, nil)
	if m.WordsPerMin != 0 {
		t.Errorf("WordsPerMin = %d, want 0 for zero duration", m.WordsPerMin)
	}
}

func TestAnalyzeEmptyTranscript(t *testing.T) {
	m := Analyze("", 30, nil)
	if m.TotalWords != 0 || m.WordsPerMin != 0 || m.FillerWords != 0 {
		t.Errorf("empty transcript produced counts: %+v", m)
	}
	if m.TotalSentences != 1 {
		t.Errorf("TotalSentences = %d, want 1", m.TotalSentences)
	}
	assertScoreBounds(t, m)
}

func TestAnalyzeScoreBounds(t *testing.T) {
	inputs := []struct {
		name       string
		transcript string
		duration   float64
		pauses     int
	}{
		{"clean speech", "Today we cover loops. A loop repeats work. Let us begin.", 30, 0},
		{"filler heavy", strings.Repeat("um uh like okay right basically ", 20), 60, 10},
		{"rambling", strings.Repeat("word ", 400) + ".", 60, 0},
		{"choppy", strings.Repeat("Yes. No. Stop. Go. ", 15), 45, 8},
		{"truncated", "this sentence just stops mid", 10, 0},
	}
	for _, tt := range inputs {
		t.Run(tt.name, func(t *testing.T) {
			pauses := make([]session.Pause, tt.pauses)
			m := Analyze(tt.transcript, tt.duration, pauses)
			assertScoreBounds(t, m)
		})
	}
}

func TestAnalyzePenalties(t *testing.T) {
	// Five short sentences, more than four pauses: stability loses points
	// for pause count and short-sentence ratio.
	pauses := make([]session.Pause, 5)
	m := Analyze("Yes. No. Stop. Go. Wait.", 20, pauses)
	if m.SpeakingStabilityScore != 6 {
		t.Errorf("SpeakingStabilityScore = %d, want 6", m.SpeakingStabilityScore)
	}

	// A sentence not closed by an alphabetic character costs two
	// complexity points.
	m = Analyze("The answer here is 42", 10, nil)
	if m.SentenceComplexityScore != 8 {
		t.Errorf("SentenceComplexityScore = %d, want 8", m.SentenceComplexityScore)
	}

	// More than two immediate repetitions costs two pronunciation points.
	m = Analyze("so so then then now now we continue.", 10, nil)
	if m.PronunciationScore != 8 {
		t.Errorf("PronunciationScore = %d, want 8", m.PronunciationScore)
	}
}

func TestEstimateDuration(t *testing.T) {
	if got := EstimateDuration(""); got != 2 {
		t.Errorf("EstimateDuration(empty) = %v, want 2", got)
	}
	if got := EstimateDuration(strings.Repeat("word ", 100)); got != 40 {
		t.Errorf("EstimateDuration(100 words) = %v, want 40", got)
	}
}

func assertScoreBounds(t *testing.T, m session.Metrics) {
	t.Helper()
	for name, v := range map[string]int{
		"SentenceComplexityScore": m.SentenceComplexityScore,
		"PronunciationScore":      m.PronunciationScore,
		"SpeakingStabilityScore":  m.SpeakingStabilityScore,
	} {
		if v < 0 || v > 10 {
			t.Errorf("%s = %d, out of [0,10]", name, v)
		}
	}
}
