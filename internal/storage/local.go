package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/codebuildervaibhav/shortform-video/internal/subtitles"
	"github.com/codebuildervaibhav/shortform-video/internal/types"
)

// LocalStorage handles placing final videos and sidecars on the local
// filesystem
type LocalStorage struct {
	outputDir string
}

// NewLocalStorage creates a new local storage handler
func NewLocalStorage(outputDir string) *LocalStorage {
	return &LocalStorage{
		outputDir: outputDir,
	}
}

// VideoOutputPath builds the output path for a new video inside a dated
// directory: outputs/2025/08/25/20250825_143022_<postid>.mp4. Part files
// derive their _part<N> suffix from this base.
func (ls *LocalStorage) VideoOutputPath(postID string) (string, error) {
	now := time.Now()
	dateDir := filepath.Join(ls.outputDir,
		fmt.Sprintf("%d", now.Year()),
		fmt.Sprintf("%02d", now.Month()),
		fmt.Sprintf("%02d", now.Day()))

	if err := os.MkdirAll(dateDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create date directory: %v", err)
	}

	timestamp := now.Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.mp4", timestamp, sanitizeFilename(postID))

	return filepath.Join(dateDir, filename), nil
}

// SaveSubtitles writes the JSON sidecar and SRT export next to the video.
// Returns the JSON sidecar path.
func (ls *LocalStorage) SaveSubtitles(videoPath string, segments []subtitles.Segment, meta subtitles.SidecarMeta) (string, error) {
	base := strings.TrimSuffix(videoPath, filepath.Ext(videoPath))

	jsonPath := base + "_subtitles.json"
	if err := subtitles.WriteJSON(jsonPath, segments, meta); err != nil {
		return "", err
	}

	srtPath := base + ".srt"
	if err := subtitles.WriteSRT(srtPath, segments); err != nil {
		return "", err
	}

	return jsonPath, nil
}

// SavePostRecord writes the source post next to the video for traceability
func (ls *LocalStorage) SavePostRecord(videoPath string, post *types.Post) error {
	base := strings.TrimSuffix(videoPath, filepath.Ext(videoPath))

	data, err := json.MarshalIndent(post, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal post record: %v", err)
	}

	if err := os.WriteFile(base+"_post.json", data, 0644); err != nil {
		return fmt.Errorf("failed to save post record: %v", err)
	}

	return nil
}

// sanitizeFilename removes invalid characters from a filename component
func sanitizeFilename(name string) string {
	invalid := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|", " "}
	result := name
	for _, ch := range invalid {
		result = strings.ReplaceAll(result, ch, "_")
	}
	if len(result) > 100 {
		result = result[:100]
	}
	if result == "" {
		result = "untitled"
	}
	return result
}
