package speech

import (
	"fmt"
	"strings"

	"github.com/teachgrade/pipeline/session"
	"github.com/teachgrade/pipeline/timestamp"
)

// BuildSRT renders segments in SubRip form. The scoring payload carries
// this so the reasoning service can ground evidence in exact time ranges.
func BuildSRT(segs []session.Segment) string {
	var b strings.Builder
	for i, seg := range segs {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d\n", i+1)
		fmt.Fprintf(&b, "%s %s %s\n", timestamp.Format(seg.Start), timestamp.RangeSeparator, timestamp.Format(seg.End))
		fmt.Fprintf(&b, "%s\n", strings.TrimSpace(seg.Text))
	}
	return b.String()
}
