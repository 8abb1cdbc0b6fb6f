package reddit

import (
	"strings"
	"testing"

	"github.com/codebuildervaibhav/shortform-video/internal/types"
)

func TestCleanForNarration(t *testing.T) {
	in := "AITA   for this?\n\nMy MIL said &amp; did things."
	got := CleanForNarration(in, true)

	if strings.Contains(got, "&amp;") {
		t.Errorf("HTML entity not replaced: %q", got)
	}
	if strings.Contains(got, "AITA") || strings.Contains(got, "MIL") {
		t.Errorf("abbreviations not expanded: %q", got)
	}
	if strings.Contains(got, "  ") || strings.Contains(got, "\n") {
		t.Errorf("whitespace not collapsed: %q", got)
	}
}

func TestCleanForNarrationKeepsAbbreviationsWhenDisabled(t *testing.T) {
	got := CleanForNarration("AITA here", false)
	if got != "AITA here" {
		t.Errorf("expected abbreviations kept, got %q", got)
	}
}

func TestBuildScript(t *testing.T) {
	post := &types.Post{
		Title:    "My story",
		SelfText: "It was a dark night.",
	}

	script := BuildScript(post, ScriptOptions{
		IncludeTitle: true,
		AddOutro:     true,
		OutroText:    "Subscribe for more.",
	})

	if !strings.HasPrefix(script, "My story") {
		t.Errorf("title missing from script: %q", script)
	}
	if !strings.HasSuffix(script, "Subscribe for more.") {
		t.Errorf("outro missing from script: %q", script)
	}
	if !strings.Contains(script, "It was a dark night.") {
		t.Errorf("content missing from script: %q", script)
	}
}

func TestEstimateDuration(t *testing.T) {
	c := NewClient(Config{WordsPerMinute: 180})

	if got := c.EstimateDuration(180); got != 60 {
		t.Errorf("expected 60s for 180 words at 180wpm, got %v", got)
	}
	if got := c.EstimateDuration(90); got != 30 {
		t.Errorf("expected 30s for 90 words, got %v", got)
	}
}

func TestIsSuitable(t *testing.T) {
	c := NewClient(Config{
		MinPostLength:  20,
		MinUpvotes:     100,
		WordsPerMinute: 180,
		MinDuration:    1,
		MaxDuration:    300,
		AllowNSFW:      false,
	})

	long := strings.Repeat("word ", 50)

	cases := []struct {
		name string
		post postData
		want bool
	}{
		{"good", postData{SelfText: long, Score: 150, Author: "someone"}, true},
		{"too short", postData{SelfText: "short", Score: 150, Author: "someone"}, false},
		{"low score", postData{SelfText: long, Score: 10, Author: "someone"}, false},
		{"nsfw filtered", postData{SelfText: long, Score: 150, Author: "someone", Over18: true}, false},
		{"deleted author", postData{SelfText: long, Score: 150, Author: "[deleted]"}, false},
	}

	for _, tc := range cases {
		if got := c.isSuitable(tc.post); got != tc.want {
			t.Errorf("%s: isSuitable = %v, want %v", tc.name, got, tc.want)
		}
	}
}
