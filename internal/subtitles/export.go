package subtitles

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// SidecarMeta is written alongside the segments in the JSON export
type SidecarMeta struct {
	AudioFile   string    `json:"audio_file"`
	GeneratedAt time.Time `json:"generated_at"`
	ModelUsed   string    `json:"model_used"`
}

// WriteJSON saves the segments plus run metadata as a JSON sidecar
func WriteJSON(path string, segments []Segment, meta SidecarMeta) error {
	payload := map[string]interface{}{
		"audio_file":   meta.AudioFile,
		"generated_at": meta.GeneratedAt,
		"model_used":   meta.ModelUsed,
		"segments":     segments,
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal subtitles: %v", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to save subtitles: %v", err)
	}

	return nil
}

// WriteSRT exports the segments as numbered SRT caption blocks
func WriteSRT(path string, segments []Segment) error {
	var b strings.Builder

	for i, seg := range segments {
		fmt.Fprintf(&b, "%d\n", i+1)
		fmt.Fprintf(&b, "%s --> %s\n", srtTimestamp(seg.Start), srtTimestamp(seg.End))
		fmt.Fprintf(&b, "%s\n\n", seg.Text)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to save SRT file: %v", err)
	}

	return nil
}

// srtTimestamp formats seconds as HH:MM:SS,mmm
func srtTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	millis := int((seconds - float64(total)) * 1000)

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}
