package speech

import (
	"math"
	"regexp"
	"strings"

	"github.com/teachgrade/pipeline/session"
)

// Heuristic thresholds. Tunable, kept in one place on purpose.
const (
	LongSentenceWords     = 15   // a sentence longer than this counts as long
	ShortSentenceWords    = 4    // a sentence at most this long counts as short
	LongSentenceRatioMax  = 0.3  // long-sentence share before the penalty
	ShortSentenceRatioMax = 0.4  // short-sentence share before the penalty
	FillerDensityMax      = 0.08 // fillers per word before the penalty
	LengthSpreadMax       = 120.0
	RepetitionMax         = 2 // immediate word repeats tolerated
	FragmentMax           = 3 // stutter fragments tolerated
	PauseCountMax         = 4
	FillerClusterMax      = 3

	maxHeuristicScore = 10

	// SecondsPerWordEstimate backs the duration fallback when the
	// transcription carries no segments.
	SecondsPerWordEstimate = 0.4
)

// FillerVocabulary is the fixed set matched case-insensitively against
// each token (stripped of non-letters).
var FillerVocabulary = []string{"um", "uh", "like", "you know", "okay", "right", "basically"}

var (
	fillerSet = func() map[string]bool {
		m := make(map[string]bool, len(FillerVocabulary))
		for _, f := range FillerVocabulary {
			m[f] = true
		}
		return m
	}()

	reSentenceSplit = regexp.MustCompile(`[.!?]+`)
	reNonLetter     = regexp.MustCompile(`[^a-z]`)
	reFragments     = regexp.MustCompile(`(?i)(uh+|umm+|yeah yeah|ok+ay)`)
)

// Analyze computes the fixed speech-metrics record from a cleaned
// transcript, the recording duration and the detected pauses. The three
// heuristic scores start at 10 and lose points per independent penalty;
// they are never renormalized against each other. An empty transcript
// yields default metrics, not an error.
func Analyze(transcript string, durationSec float64, pauses []session.Pause) session.Metrics {
	words := strings.Fields(transcript)
	totalWords := len(words)

	m := session.Metrics{
		TotalSentences:          1,
		PauseCount:              len(pauses),
		SentenceComplexityScore: maxHeuristicScore,
		PronunciationScore:      maxHeuristicScore,
		SpeakingStabilityScore:  maxHeuristicScore,
	}
	if totalWords == 0 {
		return m
	}
	m.TotalWords = totalWords

	sentences := splitSentences(transcript)
	if n := len(sentences); n > 0 {
		m.TotalSentences = n
	}

	if durationSec > 0 {
		m.WordsPerMin = int(math.Round(float64(totalWords) / durationSec * 60))
	}

	fillerCount, fillerClusters := countFillers(words)
	m.FillerWords = fillerCount
	fillerDensity := float64(fillerCount) / float64(totalWords)

	lengths := make([]int, len(sentences))
	sum := 0
	for i, s := range sentences {
		lengths[i] = len(strings.Fields(s))
		sum += lengths[i]
	}
	avgLen := float64(sum) / float64(len(lengths))

	long, short, unfinished := 0, 0, 0
	spread := 0.0
	for i, s := range sentences {
		if lengths[i] > LongSentenceWords {
			long++
		}
		if lengths[i] <= ShortSentenceWords {
			short++
		}
		if !endsWithLetter(s) {
			unfinished++
		}
		spread += math.Pow(float64(lengths[i])-avgLen, 2)
	}
	longRatio := float64(long) / float64(len(lengths))
	shortRatio := float64(short) / float64(len(lengths))

	complexity := 0
	if avgLen > LongSentenceWords {
		complexity += 2
	}
	if longRatio > LongSentenceRatioMax {
		complexity += 2
	}
	if fillerDensity > FillerDensityMax {
		complexity += 1
	}
	if unfinished > 0 {
		complexity += 2
	}
	m.SentenceComplexityScore = clampScore(maxHeuristicScore - complexity)

	repeats := 0
	for i := 0; i+1 < len(words); i++ {
		if strings.EqualFold(words[i], words[i+1]) {
			repeats++
		}
	}
	fragments := len(reFragments.FindAllString(transcript, -1))
	pronunciation := 0
	if repeats > RepetitionMax {
		pronunciation += 2
	}
	if fragments > FragmentMax {
		pronunciation += 2
	}
	m.PronunciationScore = clampScore(maxHeuristicScore - pronunciation)

	stability := 0
	if m.PauseCount > PauseCountMax {
		stability += 2
	}
	if fillerClusters > FillerClusterMax {
		stability += 2
	}
	if shortRatio > ShortSentenceRatioMax {
		stability += 2
	}
	if spread > LengthSpreadMax {
		stability += 2
	}
	m.SpeakingStabilityScore = clampScore(maxHeuristicScore - stability)

	return m
}

// EstimateDuration guesses a recording length from word count when the
// transcription returned no timed segments.
func EstimateDuration(transcript string) float64 {
	return math.Max(2, float64(len(strings.Fields(transcript)))*SecondsPerWordEstimate)
}

func splitSentences(text string) []string {
	var out []string
	for _, s := range reSentenceSplit.Split(text, -1) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func countFillers(words []string) (count, clusters int) {
	prevWasFiller := false
	for _, w := range words {
		normalized := reNonLetter.ReplaceAllString(strings.ToLower(w), "")
		if fillerSet[normalized] {
			count++
			if prevWasFiller {
				clusters++
			}
			prevWasFiller = true
		} else {
			prevWasFiller = false
		}
	}
	return count, clusters
}

func endsWithLetter(s string) bool {
	if s == "" {
		return false
	}
	c := s[len(s)-1]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > maxHeuristicScore {
		return maxHeuristicScore
	}
	return v
}
