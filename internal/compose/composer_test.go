package compose

import (
	"strings"
	"testing"

	"github.com/codebuildervaibhav/shortform-video/internal/subtitles"
)

func TestPartFilename(t *testing.T) {
	cases := []struct {
		path  string
		index int
		want  string
	}{
		{"output/final_videos/short_video_20250101.mp4", 1, "output/final_videos/short_video_20250101_part1.mp4"},
		{"video.mp4", 12, "video_part12.mp4"},
	}

	for _, c := range cases {
		if got := partFilename(c.path, c.index); got != c.want {
			t.Errorf("partFilename(%q, %d) = %q, want %q", c.path, c.index, got, c.want)
		}
	}
}

func TestEscapeDrawText(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Hello world", "Hello world"},
		{"It's 50% done: really", `It\'s 50\% done\: really`},
		{`back\slash`, `back\\slash`},
		{"   ", ""},
	}

	for _, c := range cases {
		if got := escapeDrawText(c.in); got != c.want {
			t.Errorf("escapeDrawText(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestDrawtextArgsSkipsUnrenderable(t *testing.T) {
	c := New(Options{
		Frame:            TargetFrame{Width: 1080, Height: 1920, FPS: 30},
		SubtitlePosition: 0.5,
		FontSize:         70,
	})

	if _, err := c.drawtextArgs(subtitles.Segment{Text: "ok", Start: 2, End: 1}); err == nil {
		t.Error("expected error for inverted display window")
	}
	if _, err := c.drawtextArgs(subtitles.Segment{Text: "  ", Start: 0, End: 1}); err == nil {
		t.Error("expected error for empty text")
	}

	kwargs, err := c.drawtextArgs(subtitles.Segment{Text: "Hello", Start: 1.5, End: 2.25})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if kwargs["y"] != "960" {
		t.Errorf("expected y at half frame height, got %v", kwargs["y"])
	}
	if enable := kwargs["enable"].(string); !strings.Contains(enable, "between(t,1.500,2.250)") {
		t.Errorf("unexpected enable expression: %s", enable)
	}
}
