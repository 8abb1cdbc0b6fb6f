package transcription

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// NormalizeAudio converts narration audio to 16kHz mono WAV, the input
// format Whisper handles best. Returns the path of the temp file; the
// caller owns its cleanup.
func NormalizeAudio(tempDir, inputPath string) (string, error) {
	outputPath := filepath.Join(tempDir, fmt.Sprintf("normalized_%s.wav", uuid.New().String()))

	err := ffmpeg.Input(inputPath).
		Output(outputPath, ffmpeg.KwArgs{
			"ar":  16000,
			"ac":  1,
			"c:a": "pcm_s16le",
		}).
		OverWriteOutput().
		Run()
	if err != nil {
		return "", fmt.Errorf("audio normalization failed: %v", err)
	}

	return outputPath, nil
}
