package types

import "time"

// Job status constants
const (
	StatusQueued    = "QUEUED"
	StatusFetching  = "FETCHING"
	StatusNarrating = "NARRATING"
	StatusComposing = "COMPOSING"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
)

// Source type constants
const (
	SourceSubreddit = "subreddit"
	SourceURL       = "url"
	SourceText      = "text"
)

// Post represents a narration-ready text post fetched from Reddit
type Post struct {
	ID                string  `json:"id"`
	Title             string  `json:"title"`
	SelfText          string  `json:"selftext"`
	Author            string  `json:"author"`
	Subreddit         string  `json:"subreddit"`
	Score             int     `json:"score"`
	NumComments       int     `json:"num_comments"`
	CreatedUTC        float64 `json:"created_utc"`
	Permalink         string  `json:"permalink"`
	NSFW              bool    `json:"over_18"`
	WordCount         int     `json:"word_count"`
	EstimatedDuration float64 `json:"estimated_duration"`
}

// Word is one transcribed token with its own time span
type Word struct {
	Text  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Segment represents a timestamped segment of transcription.
// Words is empty when the model did not emit word-level timestamps.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
	Words []Word  `json:"words,omitempty"`
}

// TranscriptionResult represents the output from Whisper
type TranscriptionResult struct {
	Text     string
	Language string
	Duration float64
	Segments []Segment
}

// VideoResult represents one completed generation run
type VideoResult struct {
	JobID         string
	Post          *Post
	AudioPath     string
	OutputPaths   []string
	Duration      float64
	Width         int
	Height        int
	FPS           int
	PartCount     int
	WordCount     int
	SubtitleCount int
	SubtitlePath  string
	ProcessedAt   time.Time
	GDriveURL     string
}
