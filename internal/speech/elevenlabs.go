package speech

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const baseURL = "https://api.elevenlabs.io/v1"

// Config holds ElevenLabs credentials and voice settings
type Config struct {
	APIKey          string
	VoiceID         string
	ModelID         string
	Stability       float64
	SimilarityBoost float64
	Style           float64
	SpeakerBoost    bool
	AudioDir        string
}

// Client calls the ElevenLabs text-to-speech API
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient creates an ElevenLabs client
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("ElevenLabs API key not configured")
	}
	if cfg.VoiceID == "" {
		return nil, fmt.Errorf("ElevenLabs voice ID not configured")
	}
	if cfg.ModelID == "" {
		cfg.ModelID = "eleven_flash_v2_5"
	}

	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 5 * time.Minute},
	}, nil
}

type ttsRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

// Synthesize converts text to narration audio and saves it as an mp3 named
// after the post. Returns the saved file path.
func (c *Client) Synthesize(text, postID string) (string, error) {
	log.Printf("Converting text to speech: %.50s...", text)

	body, err := json.Marshal(ttsRequest{
		Text:    text,
		ModelID: c.cfg.ModelID,
		VoiceSettings: voiceSettings{
			Stability:       c.cfg.Stability,
			SimilarityBoost: c.cfg.SimilarityBoost,
			Style:           c.cfg.Style,
			UseSpeakerBoost: c.cfg.SpeakerBoost,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode TTS request: %v", err)
	}

	url := fmt.Sprintf("%s/text-to-speech/%s", baseURL, c.cfg.VoiceID)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("ElevenLabs request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("ElevenLabs returned status %d: %s", resp.StatusCode, msg)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read audio response: %v", err)
	}

	if err := os.MkdirAll(c.cfg.AudioDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create audio directory: %v", err)
	}

	filename := fmt.Sprintf("narration_%s_%s.mp3", postID, time.Now().Format("20060102_150405"))
	path := filepath.Join(c.cfg.AudioDir, filename)

	if err := os.WriteFile(path, audio, 0644); err != nil {
		return "", fmt.Errorf("failed to save audio file: %v", err)
	}

	log.Printf("Narration audio saved: %s (%d bytes)", path, len(audio))
	return path, nil
}
