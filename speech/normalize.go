// Package speech derives delivery artifacts from a transcript: normalized
// text, pause events between timed segments, and heuristic speech metrics.
package speech

import (
	"regexp"
	"strings"
)

const paraMarker = "\x00PARA\x00"

var (
	reMultiNewline = regexp.MustCompile(`\n{2,}`)
	reParaRestore  = regexp.MustCompile(`\s*(?:` + paraMarker + `\s*)+`)
	reWhitespace   = regexp.MustCompile(`\s+`)
	reSpacePunct   = regexp.MustCompile(`\s+([,.?!])`)
	reCommaNoSpace = regexp.MustCompile(`,(\S)`)

	// Runs of the same punctuation character collapse to one; mixed runs
	// like "?!" are kept.
	rePunctRuns = []*regexp.Regexp{
		regexp.MustCompile(`\.{2,}`),
		regexp.MustCompile(`,{2,}`),
		regexp.MustCompile(`\?{2,}`),
		regexp.MustCompile(`!{2,}`),
	}
	punctRunRepl = []string{".", ",", "?", "!"}
)

// Normalize cleans raw transcription output without rewriting meaning:
// whitespace and punctuation are normalized and immediately repeated words
// collapse to one occurrence. The transform is idempotent.
func Normalize(text string) string {
	t := strings.ReplaceAll(text, "\r\n", "\n")
	t = strings.TrimSpace(t)

	// Keep paragraph breaks across the whitespace collapse.
	t = reMultiNewline.ReplaceAllString(t, " "+paraMarker+" ")
	t = strings.ReplaceAll(t, "\n", " ")
	t = reWhitespace.ReplaceAllString(t, " ")
	t = reParaRestore.ReplaceAllString(t, "\n\n")
	t = strings.TrimSpace(t)

	t = reSpacePunct.ReplaceAllString(t, "$1")
	for i, re := range rePunctRuns {
		t = re.ReplaceAllString(t, punctRunRepl[i])
	}

	// Comma spacing runs first so a comma gluing two words cannot hide a
	// repeat from the collapse.
	t = reCommaNoSpace.ReplaceAllString(t, ", $1")
	t = collapseRepeatedWords(t)

	return strings.TrimSpace(t)
}

// collapseRepeatedWords removes immediate case-insensitive repeats of a
// whole word, keeping the first occurrence and any punctuation attached to
// the last one: "the the the," becomes "the,". Full runs collapse in a
// single pass so the transform stays idempotent.
func collapseRepeatedWords(t string) string {
	tokens := strings.Split(t, " ")
	out := tokens[:0]
	for _, tok := range tokens {
		if len(out) > 0 {
			prev := out[len(out)-1]
			if isWord(prev) {
				if suffix, ok := repeatSuffix(prev, tok); ok {
					out[len(out)-1] = prev + suffix
					continue
				}
			}
		}
		out = append(out, tok)
	}
	return strings.Join(out, " ")
}

// repeatSuffix reports whether tok is word (case-insensitively) followed
// only by non-word characters, returning that trailing part.
func repeatSuffix(word, tok string) (string, bool) {
	if len(tok) < len(word) || !strings.EqualFold(tok[:len(word)], word) {
		return "", false
	}
	rest := tok[len(word):]
	for _, r := range rest {
		if isWordRune(r) {
			return "", false
		}
	}
	return rest, true
}

func isWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9') ||
		r > 127 // treat non-ASCII letters as word characters
}
