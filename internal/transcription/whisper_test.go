package transcription

import "testing"

func TestParseWhisperOutputWordLevel(t *testing.T) {
	data := []byte(`{
		"text": " Hello world. ",
		"language": "en",
		"segments": [
			{
				"id": 0,
				"start": 0.0,
				"end": 1.2,
				"text": " Hello world. ",
				"words": [
					{"word": " Hello", "start": 0.0, "end": 0.5},
					{"word": " world.", "start": 0.5, "end": 1.2}
				]
			}
		]
	}`)

	result, err := ParseWhisperOutput(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Text != "Hello world." {
		t.Errorf("expected trimmed text, got %q", result.Text)
	}
	if result.Language != "en" {
		t.Errorf("expected language en, got %q", result.Language)
	}
	if result.Duration != 1.2 {
		t.Errorf("expected duration 1.2 from last segment end, got %v", result.Duration)
	}
	if len(result.Segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(result.Segments))
	}

	words := result.Segments[0].Words
	if len(words) != 2 {
		t.Fatalf("expected 2 words, got %d", len(words))
	}
	if words[1].Text != " world." || words[1].End != 1.2 {
		t.Errorf("unexpected word data: %+v", words[1])
	}
}

func TestParseWhisperOutputSegmentLevelOnly(t *testing.T) {
	data := []byte(`{
		"text": "no words here",
		"segments": [{"id": 0, "start": 0, "end": 2, "text": "no words here"}]
	}`)

	result, err := ParseWhisperOutput(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Segments[0].Words) != 0 {
		t.Errorf("expected no words, got %d", len(result.Segments[0].Words))
	}
}

func TestParseWhisperOutputMalformed(t *testing.T) {
	if _, err := ParseWhisperOutput([]byte("not json")); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestNewWhisperTranscriberRejectsUnknownModel(t *testing.T) {
	if _, err := NewWhisperTranscriber("enormous", "en", "temp"); err == nil {
		t.Error("expected error for unknown model")
	}

	wt, err := NewWhisperTranscriber("", "", "temp")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wt.modelName != "tiny" || wt.language != "en" {
		t.Errorf("expected defaults tiny/en, got %s/%s", wt.modelName, wt.language)
	}
}
