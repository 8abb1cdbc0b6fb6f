package compose

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// MediaInfo contains probed metadata about a media file. Width and Height
// are zero for audio-only files.
type MediaInfo struct {
	Duration float64
	Width    int
	Height   int
	Codec    string
}

// Probe runs ffprobe against a media file and extracts duration plus, when
// a video stream is present, its dimensions and codec.
func Probe(inputPath string) (*MediaInfo, error) {
	probe, err := ffmpeg.Probe(inputPath)
	if err != nil {
		return nil, fmt.Errorf("error probing media: %v", err)
	}

	var data map[string]interface{}
	if err := json.Unmarshal([]byte(probe), &data); err != nil {
		return nil, errors.WithStack(err)
	}

	streams, ok := data["streams"].([]interface{})
	if !ok || len(streams) == 0 {
		return nil, fmt.Errorf("no streams found in %s", inputPath)
	}

	info := &MediaInfo{}

	var videoStream map[string]interface{}
	for _, stream := range streams {
		s, ok := stream.(map[string]interface{})
		if !ok {
			continue
		}
		if codecType, _ := s["codec_type"].(string); codecType == "video" {
			videoStream = s
			break
		}
	}

	if videoStream != nil {
		if w, ok := videoStream["width"].(float64); ok {
			info.Width = int(w)
		}
		if h, ok := videoStream["height"].(float64); ok {
			info.Height = int(h)
		}
		if codec, ok := videoStream["codec_name"].(string); ok {
			info.Codec = codec
		}
		if durationStr, ok := videoStream["duration"].(string); ok {
			if d, err := strconv.ParseFloat(strings.TrimSpace(durationStr), 64); err == nil {
				info.Duration = d
			}
		}
	}

	// Stream duration can be missing for some containers; the format
	// section is the fallback.
	if info.Duration == 0 {
		if format, ok := data["format"].(map[string]interface{}); ok {
			if durationStr, ok := format["duration"].(string); ok {
				if d, err := strconv.ParseFloat(strings.TrimSpace(durationStr), 64); err == nil {
					info.Duration = d
				}
			}
		}
	}

	if info.Duration == 0 {
		return nil, fmt.Errorf("could not determine duration of %s", inputPath)
	}

	return info, nil
}
