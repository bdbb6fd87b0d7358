// Package media wraps the ffmpeg binary for audio extraction and evidence
// sub-clip encoding.
package media

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
)

type Transcoder struct {
	bin string
	log *logrus.Entry
}

func NewTranscoder(bin string, log *logrus.Logger) *Transcoder {
	if bin == "" {
		bin = "ffmpeg"
	}
	return &Transcoder{bin: bin, log: log.WithField("component", "media")}
}

// ExtractAudio writes a 16 kHz mono WAV suitable for transcription.
func (t *Transcoder) ExtractAudio(ctx context.Context, videoPath, outPath string) error {
	args := []string{
		"-y", "-i", videoPath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", "16000",
		"-ac", "1",
		outPath,
	}
	return t.run(ctx, args)
}

// ExtractClip encodes a bounded sub-clip for portable playback: fixed
// frame rate, re-encoded audio, both streams mapped when present.
func (t *Transcoder) ExtractClip(ctx context.Context, src string, startSec, durationSec float64, outPath string) error {
	return t.run(ctx, clipArgs(src, startSec, durationSec, outPath))
}

func clipArgs(src string, startSec, durationSec float64, outPath string) []string {
	return []string{
		"-y",
		"-ss", fmt.Sprintf("%.3f", startSec),
		"-i", src,
		"-t", fmt.Sprintf("%.3f", durationSec),
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "23",
		"-c:a", "aac",
		"-b:a", "128k",
		"-ac", "2",
		"-r", "30",
		"-map", "0:v",
		"-map", "0:a?", // audio is optional
		"-f", "mp4",
		outPath,
	}
}

func (t *Transcoder) run(ctx context.Context, args []string) error {
	t.log.WithField("args", strings.Join(args, " ")).Debug("running ffmpeg")
	cmd := exec.CommandContext(ctx, t.bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %v: %s", t.bin, err, tail(stderr.String(), 4))
	}
	return nil
}

// tail keeps the last n non-empty stderr lines, where ffmpeg puts the
// actual failure reason.
func tail(s string, n int) string {
	var lines []string
	for _, l := range strings.Split(strings.TrimSpace(s), "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, " | ")
}
