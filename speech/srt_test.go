package speech

import (
	"testing"

	"github.com/teachgrade/pipeline/session"
)

func TestBuildSRT(t *testing.T) {
	segs := []session.Segment{
		{Start: 0, End: 2.5, Text: " Welcome everyone. "},
		{Start: 3, End: 5, Text: "Let's begin."},
	}
	want := "1\n00:00:00,000 --> 00:00:02,500\nWelcome everyone.\n" +
		"\n2\n00:00:03,000 --> 00:00:05,000\nLet's begin.\n"
	if got := BuildSRT(segs); got != want {
		t.Errorf("BuildSRT:\ngot  %q\nwant %q", got, want)
	}
	if got := BuildSRT(nil); got != "" {
		t.Errorf("BuildSRT(nil) = %q, want empty", got)
	}
}
