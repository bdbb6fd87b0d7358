package evidence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/teachgrade/pipeline/session"
)

// fakeCutter records calls and fails for configured start seconds.
type fakeCutter struct {
	mu     sync.Mutex
	calls  int
	failAt map[float64]bool
}

func (f *fakeCutter) ExtractClip(_ context.Context, _ string, startSec, durationSec float64, _ string) error {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if durationSec < 0 {
		return errors.New("negative duration")
	}
	if f.failAt[startSec] {
		return errors.New("encode failed")
	}
	return nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func item(i int, rangeStr string) session.EvidenceItem {
	return session.EvidenceItem{
		Issue:     fmt.Sprintf("issue %d", i),
		Timestamp: rangeStr,
		Reason:    fmt.Sprintf("reason %d", i),
	}
}

func TestExtractDropsFailedItems(t *testing.T) {
	cutter := &fakeCutter{failAt: map[float64]bool{10: true}}
	ex := NewExtractor(cutter, t.TempDir(), quietLogger())

	items := []session.EvidenceItem{
		item(1, "00:00:05,000 --> 00:00:08,000"),
		item(2, "00:00:10,000 --> 00:00:14,000"), // transcoding fails
		item(3, "00:00:20,000 --> 00:00:23,500"),
	}
	clips, err := ex.Extract(context.Background(), "sess1", "video.mp4", items)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(clips) != 2 {
		t.Fatalf("got %d clips, want 2", len(clips))
	}
	// Input order preserved, issue/reason text retained.
	if clips[0].Issue != "issue 1" || clips[0].Reason != "reason 1" {
		t.Errorf("clip 0 = %+v", clips[0])
	}
	if clips[1].Issue != "issue 3" || clips[1].Reason != "reason 3" {
		t.Errorf("clip 1 = %+v", clips[1])
	}
	if !strings.HasSuffix(clips[0].Path, "sess1_clip1.mp4") {
		t.Errorf("clip 0 path = %q", clips[0].Path)
	}
	if !strings.HasSuffix(clips[1].Path, "sess1_clip3.mp4") {
		t.Errorf("clip 1 path = %q", clips[1].Path)
	}
	if cutter.calls != 3 {
		t.Errorf("cutter called %d times, want 3", cutter.calls)
	}
}

func TestExtractMalformedRangeDropped(t *testing.T) {
	cutter := &fakeCutter{}
	ex := NewExtractor(cutter, t.TempDir(), quietLogger())

	items := []session.EvidenceItem{
		item(1, "not a range"),
		item(2, "00:00:01,000 --> 00:00:03,000"),
	}
	clips, err := ex.Extract(context.Background(), "sess2", "video.mp4", items)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(clips) != 1 || clips[0].Issue != "issue 2" {
		t.Errorf("clips = %+v, want only item 2", clips)
	}
	if cutter.calls != 1 {
		t.Errorf("cutter called %d times, want 1", cutter.calls)
	}
}

func TestExtractSkipped(t *testing.T) {
	cutter := &fakeCutter{}
	ex := NewExtractor(cutter, t.TempDir(), quietLogger())

	clips, err := ex.Extract(context.Background(), "s", "video.mp4", nil)
	if err != nil || clips != nil {
		t.Errorf("empty items: got (%v, %v), want (nil, nil)", clips, err)
	}

	clips, err = ex.Extract(context.Background(), "s", "", []session.EvidenceItem{
		item(1, "00:00:01,000 --> 00:00:02,000"),
	})
	if err != nil || clips != nil {
		t.Errorf("no video path: got (%v, %v), want (nil, nil)", clips, err)
	}
	if cutter.calls != 0 {
		t.Errorf("cutter should never run, got %d calls", cutter.calls)
	}
}

func TestExtractAllFail(t *testing.T) {
	cutter := &fakeCutter{failAt: map[float64]bool{1: true, 5: true}}
	ex := NewExtractor(cutter, t.TempDir(), quietLogger())

	items := []session.EvidenceItem{
		item(1, "00:00:01,000 --> 00:00:02,000"),
		item(2, "00:00:05,000 --> 00:00:06,000"),
	}
	clips, err := ex.Extract(context.Background(), "s", "video.mp4", items)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(clips) != 0 {
		t.Errorf("got %d clips, want 0", len(clips))
	}
}
