package media

import (
	"strings"
	"testing"
)

func TestClipArgs(t *testing.T) {
	args := clipArgs("in.mp4", 80.5, 5.4, "out/clip1.mp4")
	joined := strings.Join(args, " ")

	for _, want := range []string{
		"-ss 80.500",
		"-t 5.400",
		"-c:v libx264",
		"-c:a aac",
		"-r 30",
		"-map 0:v",
		"-map 0:a?",
		"-f mp4",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("clip args missing %q in %q", want, joined)
		}
	}
	if args[len(args)-1] != "out/clip1.mp4" {
		t.Errorf("output path must be last arg, got %q", args[len(args)-1])
	}
}

func TestTail(t *testing.T) {
	in := "a\nb\n\nc\nd\ne\n"
	if got := tail(in, 2); got != "d | e" {
		t.Errorf("tail = %q, want %q", got, "d | e")
	}
	if got := tail("only", 4); got != "only" {
		t.Errorf("tail = %q, want %q", got, "only")
	}
}
