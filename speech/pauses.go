package speech

import (
	"math"

	"github.com/teachgrade/pipeline/session"
	"github.com/teachgrade/pipeline/timestamp"
)

// PauseThresholdSec is the minimum silence between two consecutive
// segments that counts as a pause.
const PauseThresholdSec = 1.0

// DetectPauses scans adjacent segment pairs for gaps of at least
// PauseThresholdSec. Segments are assumed sorted ascending by start time.
// Fewer than two segments yields zero pauses.
func DetectPauses(segs []session.Segment) session.PauseReport {
	report := session.PauseReport{Pauses: []session.Pause{}}
	for i := 0; i+1 < len(segs); i++ {
		gap := segs[i+1].Start - segs[i].End
		if gap < PauseThresholdSec {
			continue
		}
		report.Pauses = append(report.Pauses, session.Pause{
			SegmentAfter: i,
			Duration:     math.Round(gap*100) / 100,
			GapStart:     timestamp.Format(segs[i].End),
			GapEnd:       timestamp.Format(segs[i+1].Start),
		})
	}
	report.TotalPauses = len(report.Pauses)
	return report
}
