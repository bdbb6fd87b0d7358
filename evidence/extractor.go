// Package evidence turns scoring-service evidence items into video
// sub-clips. Extraction tolerates per-item failure: a clip that cannot be
// produced is logged and dropped, never aborting its siblings.
package evidence

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/teachgrade/pipeline/session"
	"github.com/teachgrade/pipeline/timestamp"
)

// Cutter produces one bounded sub-clip from the source recording.
type Cutter interface {
	ExtractClip(ctx context.Context, src string, startSec, durationSec float64, outPath string) error
}

type Extractor struct {
	cutter  Cutter
	outRoot string
	log     *logrus.Entry
}

func NewExtractor(cutter Cutter, outRoot string, log *logrus.Logger) *Extractor {
	return &Extractor{cutter: cutter, outRoot: outRoot, log: log.WithField("component", "evidence")}
}

// Extract runs one extraction per evidence item, awaiting them
// concurrently. The result preserves input order and contains only the
// items that succeeded; an empty list is valid. Extraction is skipped
// entirely when there is no evidence or no recording path.
func (e *Extractor) Extract(ctx context.Context, sessionID, videoPath string, items []session.EvidenceItem) ([]session.Clip, error) {
	if len(items) == 0 || videoPath == "" {
		return nil, nil
	}
	outDir := filepath.Join(e.outRoot, sessionID)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("evidence dir: %w", err)
	}

	results := make([]*session.Clip, len(items))
	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func(i int, item session.EvidenceItem) {
			defer wg.Done()
			log := e.log.WithFields(logrus.Fields{"session": sessionID, "clip": i + 1})

			start, end, err := timestamp.ParseRange(item.Timestamp)
			if err != nil {
				log.WithError(err).Warn("dropping evidence item")
				return
			}
			out := filepath.Join(outDir, fmt.Sprintf("%s_clip%d.mp4", sessionID, i+1))
			if err := e.cutter.ExtractClip(ctx, videoPath, start, end-start, out); err != nil {
				log.WithError(err).Warn("clip extraction failed, dropping item")
				return
			}
			results[i] = &session.Clip{
				Issue:  item.Issue,
				Reason: item.Reason,
				Path:   filepath.ToSlash(out),
			}
		}(i, item)
	}
	wg.Wait()

	clips := make([]session.Clip, 0, len(items))
	for _, r := range results {
		if r != nil {
			clips = append(clips, *r)
		}
	}
	return clips, nil
}
