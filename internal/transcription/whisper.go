package transcription

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/codebuildervaibhav/shortform-video/internal/types"
)

// WhisperTranscriber wraps Python's OpenAI Whisper for word-level
// transcription of narration audio
type WhisperTranscriber struct {
	modelName string
	language  string
	tempDir   string
	mu        sync.Mutex // Thread-safe transcription
}

// NewWhisperTranscriber creates a new transcriber using Python Whisper
func NewWhisperTranscriber(model, language, tempDir string) (*WhisperTranscriber, error) {
	switch model {
	case "tiny", "base", "small", "medium", "large":
	case "":
		model = "tiny"
	default:
		return nil, fmt.Errorf("unknown whisper model: %s", model)
	}
	if language == "" {
		language = "en"
	}

	log.Printf("Initializing Python Whisper with model: %s", model)
	log.Printf("Whisper will be called via: python -m whisper")

	return &WhisperTranscriber{
		modelName: model,
		language:  language,
		tempDir:   tempDir,
	}, nil
}

// Transcribe processes an audio file and returns segments with word-level
// timestamps, which drive subtitle timing downstream
func (wt *WhisperTranscriber) Transcribe(audioPath string) (*types.TranscriptionResult, error) {
	wt.mu.Lock()
	defer wt.mu.Unlock()

	log.Printf("Transcribing with Python Whisper: %s", audioPath)

	outputDir := filepath.Join(wt.tempDir, "whisper_output")
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create whisper output dir: %v", err)
	}
	defer os.RemoveAll(outputDir)

	absAudioPath, err := filepath.Abs(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %v", err)
	}

	cmd := exec.Command("python", "-m", "whisper",
		absAudioPath,
		"--model", wt.modelName,
		"--output_dir", outputDir,
		"--output_format", "json",
		"--language", wt.language,
		"--word_timestamps", "True",
		"--fp16", "False", // CPU compatibility
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("whisper transcription failed: %v\nOutput: %s", err, string(output))
	}

	baseName := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	jsonPath := filepath.Join(outputDir, baseName+".json")

	jsonData, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read whisper output: %v", err)
	}

	result, err := ParseWhisperOutput(jsonData)
	if err != nil {
		return nil, err
	}

	log.Printf("Transcription completed: %d segments, %.2fs duration",
		len(result.Segments), result.Duration)
	return result, nil
}

// whisperOutput matches Python Whisper's JSON output format
type whisperOutput struct {
	Text     string           `json:"text"`
	Language string           `json:"language"`
	Segments []whisperSegment `json:"segments"`
}

type whisperSegment struct {
	ID    int           `json:"id"`
	Start float64       `json:"start"`
	End   float64       `json:"end"`
	Text  string        `json:"text"`
	Words []whisperWord `json:"words"`
}

type whisperWord struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// ParseWhisperOutput converts Whisper's JSON into the internal result type
func ParseWhisperOutput(data []byte) (*types.TranscriptionResult, error) {
	var out whisperOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse whisper JSON: %v", err)
	}

	segments := make([]types.Segment, len(out.Segments))
	for i, seg := range out.Segments {
		words := make([]types.Word, len(seg.Words))
		for j, w := range seg.Words {
			words[j] = types.Word{
				Text:  w.Word,
				Start: w.Start,
				End:   w.End,
			}
		}
		segments[i] = types.Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  strings.TrimSpace(seg.Text),
			Words: words,
		}
	}

	var duration float64
	if len(segments) > 0 {
		duration = segments[len(segments)-1].End
	}

	return &types.TranscriptionResult{
		Text:     strings.TrimSpace(out.Text),
		Language: out.Language,
		Duration: duration,
		Segments: segments,
	}, nil
}
