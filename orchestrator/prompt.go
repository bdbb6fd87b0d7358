package orchestrator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/teachgrade/pipeline/rubric"
	"github.com/teachgrade/pipeline/session"
	"github.com/teachgrade/pipeline/speech"
)

// scoringPrompt assembles the reasoning-service request: rubric,
// transcript, SRT timestamps, speech metrics, pauses and body-language
// metrics, with the output contract spelled out.
func scoringPrompt(s *session.Session, rub *rubric.Rubric) string {
	var b strings.Builder

	b.WriteString(`You are a senior master-trainer who evaluates teachers with timestamp-grounded feedback.

You will receive a cleaned transcript, SRT timestamps, speech metrics
(words per minute, fillers, pauses), body-language metrics and a
role-specific evaluation rubric.

Tasks:
1. Score each rubric dimension from 0 to 5 with a 2-3 sentence
   justification. Incorporate the body-language metrics into the
   "Delivery & Communication" dimension.
2. Cite 3 to 5 critical issues as timestamp evidence grounded in the SRT
   timestamps and pauses. Each item: {"issue": "...", "timestamp":
   "HH:MM:SS,mmm --> HH:MM:SS,mmm", "reason": "..."}. Clips for filler
   clusters or hesitation should span 2 to 5 seconds. Never return an
   empty timestampEvidence list and never use placeholders for the
   timestamp field.
3. Identify 2-3 conceptual elements the teacher failed to cover or
   misrepresented, as {"gap": "...", "impact": "..."}.
4. Compute finalScore (0-5) weighted by the rubric.
5. Return an improvement plan: {"issuesDetected": [...],
   "correctedVersion": "...", "teachingStrategy": [...],
   "engagementSuggestions": [...], "deliveryGuidance": [...]}.
   correctedVersion must be a teacher-ready explanation.

Output ONLY a valid JSON object with keys: scores, timestampEvidence,
conceptualGaps, finalScore, improvementPlan. All scores on a 0-5 scale.
No markdown, no text outside JSON.

`)

	fmt.Fprintf(&b, "Teaching role: %q\n\n", s.Role)
	writeJSONSection(&b, "Rubric", rub)
	fmt.Fprintf(&b, "Transcript:\n%s\n\n", s.Transcript)
	fmt.Fprintf(&b, "SRT Timestamps:\n%s\n", speech.BuildSRT(s.Segments))
	writeJSONSection(&b, "Speech Metrics", s.Metrics)
	writeJSONSection(&b, "Pauses", s.Pauses)
	body := s.BodyMetrics
	if body == nil {
		body = map[string]float64{}
	}
	writeJSONSection(&b, "Body Language Metrics (0 is bad, 10 is perfect)", body)

	return b.String()
}

func writeJSONSection(b *strings.Builder, title string, v any) {
	enc, err := json.Marshal(v)
	if err != nil {
		enc = []byte("{}")
	}
	fmt.Fprintf(b, "%s:\n%s\n\n", title, enc)
}
