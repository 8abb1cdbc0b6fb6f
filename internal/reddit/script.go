package reddit

import (
	"strings"

	"github.com/codebuildervaibhav/shortform-video/internal/types"
)

// ScriptOptions controls narration script assembly
type ScriptOptions struct {
	IncludeTitle        bool
	AddOutro            bool
	OutroText           string
	ExpandAbbreviations bool
}

// Community shorthand reads poorly when spoken aloud; the narrator should
// say the full phrase.
var abbreviations = [][2]string{
	{"AITA", "Am I the asshole"},
	{"NTA", "Not the asshole"},
	{"YTA", "You are the asshole"},
	{"ESH", "Everyone sucks here"},
	{"NAH", "No assholes here"},
	{"MIL", "mother in law"},
	{"FIL", "father in law"},
	{"SIL", "sister in law"},
	{"BIL", "brother in law"},
	{"SO", "significant other"},
	{"BF", "boyfriend"},
	{"GF", "girlfriend"},
}

// BuildScript assembles the narration script from a post
func BuildScript(post *types.Post, opts ScriptOptions) string {
	content := CleanForNarration(post.SelfText, opts.ExpandAbbreviations)

	var parts []string
	if opts.IncludeTitle {
		parts = append(parts, strings.TrimSpace(post.Title))
	}
	parts = append(parts, content)
	if opts.AddOutro && opts.OutroText != "" {
		parts = append(parts, opts.OutroText)
	}

	return strings.Join(parts, " ")
}

// CleanForNarration strips Reddit formatting artifacts and optionally
// expands community abbreviations
func CleanForNarration(text string, expandAbbreviations bool) string {
	text = strings.ReplaceAll(text, "&amp;", "and")
	text = strings.ReplaceAll(text, "&lt;", "less than")
	text = strings.ReplaceAll(text, "&gt;", "greater than")

	text = strings.Join(strings.Fields(text), " ")

	if expandAbbreviations {
		for _, pair := range abbreviations {
			text = strings.ReplaceAll(text, pair[0], pair[1])
		}
	}

	return text
}
