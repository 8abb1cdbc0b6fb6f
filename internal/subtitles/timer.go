package subtitles

import (
	"log"
	"strings"

	"github.com/codebuildervaibhav/shortform-video/internal/types"
)

// Config controls how word timings are grouped into display segments
type Config struct {
	MaxWordsPerSegment int
	MaxSegmentDuration float64
}

// Segment is one display-ready subtitle unit
type Segment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	Duration float64 `json:"duration"`
}

// BuildSegments converts raw transcription segments into bounded subtitle
// segments. Word-level timestamps are preferred; segments without them fall
// back to their own start/end as a single subtitle. Any structural problem
// in the input yields an empty result rather than partial output.
func BuildSegments(transcript []types.Segment, cfg Config) (out []Segment) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("WARNING: subtitle segmentation failed: %v", r)
			out = nil
		}
	}()

	for _, seg := range transcript {
		if len(seg.Words) == 0 {
			// Fallback to segment-level timing
			text := strings.TrimSpace(seg.Text)
			if text == "" {
				continue
			}
			out = append(out, newSegment(text, seg.Start, seg.End))
			continue
		}
		out = append(out, splitWords(seg.Words, cfg)...)
	}

	return out
}

// splitWords greedily accumulates words until a boundary condition closes
// the current segment: word cap reached, sentence-ending punctuation, or
// the segment span exceeding the duration cap.
func splitWords(words []types.Word, cfg Config) []Segment {
	var (
		segments []Segment
		buffer   []string
		start    float64
		open     bool
	)

	for _, w := range words {
		text := strings.TrimSpace(w.Text)
		if text == "" {
			continue
		}

		if !open {
			start = w.Start
			open = true
		}
		buffer = append(buffer, text)

		closeSegment := len(buffer) >= cfg.MaxWordsPerSegment ||
			isSentenceEnd(text) ||
			(w.End-start) > cfg.MaxSegmentDuration

		if closeSegment {
			segments = append(segments, newSegment(strings.Join(buffer, " "), start, w.End))
			buffer = nil
			open = false
		}
	}

	// Flush whatever is left, ending at the last word's end time. The
	// start+2.0 fallback guards against malformed final word entries.
	if len(buffer) > 0 && open {
		end := start + 2.0
		if last := words[len(words)-1]; last.End > 0 {
			end = last.End
		}
		segments = append(segments, newSegment(strings.Join(buffer, " "), start, end))
	}

	return segments
}

func newSegment(text string, start, end float64) Segment {
	return Segment{
		Text:     CleanText(text),
		Start:    start,
		End:      end,
		Duration: end - start,
	}
}

// isSentenceEnd reports whether a word closes a sentence. Abbreviations
// like "Mr." count too; Whisper rarely emits them mid-sentence and a
// slightly early cut reads fine.
func isSentenceEnd(word string) bool {
	w := strings.TrimRight(word, " ")
	return strings.HasSuffix(w, ".") || strings.HasSuffix(w, "!") || strings.HasSuffix(w, "?")
}

// CleanText normalizes subtitle text for display: single spaces, leading
// capital, no space before closing punctuation.
func CleanText(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return text
	}

	runes := []rune(text)
	runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
	text = string(runes)

	text = strings.ReplaceAll(text, " ,", ",")
	text = strings.ReplaceAll(text, " .", ".")
	text = strings.ReplaceAll(text, " !", "!")
	text = strings.ReplaceAll(text, " ?", "?")

	return text
}
