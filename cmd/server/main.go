package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"gopkg.in/yaml.v3"

	"github.com/codebuildervaibhav/shortform-video/internal/backgrounds"
	"github.com/codebuildervaibhav/shortform-video/internal/cleanup"
	"github.com/codebuildervaibhav/shortform-video/internal/compose"
	"github.com/codebuildervaibhav/shortform-video/internal/handlers"
	"github.com/codebuildervaibhav/shortform-video/internal/queue"
	"github.com/codebuildervaibhav/shortform-video/internal/reddit"
	"github.com/codebuildervaibhav/shortform-video/internal/speech"
	"github.com/codebuildervaibhav/shortform-video/internal/storage"
	"github.com/codebuildervaibhav/shortform-video/internal/subtitles"
	"github.com/codebuildervaibhav/shortform-video/internal/transcription"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port int    `yaml:"port"`
		Host string `yaml:"host"`
	} `yaml:"server"`

	Reddit struct {
		UserAgent      string   `yaml:"user_agent"`
		Subreddits     []string `yaml:"subreddits"`
		TimeFilter     string   `yaml:"time_filter"`
		FetchLimit     int      `yaml:"fetch_limit"`
		TopSampleSize  int      `yaml:"top_sample_size"`
		MinPostLength  int      `yaml:"min_post_length"`
		MinUpvotes     int      `yaml:"min_upvotes"`
		WordsPerMinute int      `yaml:"words_per_minute"`
		MinDuration    float64  `yaml:"min_duration_seconds"`
		MaxDuration    float64  `yaml:"max_duration_seconds"`
		AllowNSFW      bool     `yaml:"allow_nsfw"`
	} `yaml:"reddit"`

	Script struct {
		IncludeTitle        bool   `yaml:"include_title"`
		AddOutro            bool   `yaml:"add_outro"`
		OutroText           string `yaml:"outro_text"`
		ExpandAbbreviations bool   `yaml:"expand_abbreviations"`
	} `yaml:"script"`

	ElevenLabs struct {
		APIKey          string  `yaml:"api_key"`
		VoiceID         string  `yaml:"voice_id"`
		ModelID         string  `yaml:"model_id"`
		Stability       float64 `yaml:"stability"`
		SimilarityBoost float64 `yaml:"similarity_boost"`
		Style           float64 `yaml:"style"`
		SpeakerBoost    bool    `yaml:"speaker_boost"`
	} `yaml:"elevenlabs"`

	Whisper struct {
		Model    string `yaml:"model"`
		Language string `yaml:"language"`
	} `yaml:"whisper"`

	Video struct {
		Width            int     `yaml:"width"`
		Height           int     `yaml:"height"`
		FPS              int     `yaml:"fps"`
		SplitLongVideos  bool    `yaml:"split_long_videos"`
		MaxPartDuration  float64 `yaml:"max_part_duration_seconds"`
		BackgroundDir    string  `yaml:"background_dir"`
		SubtitlePosition float64 `yaml:"subtitle_position"`
		FontFile         string  `yaml:"font_file"`
		FontSize         int     `yaml:"font_size"`
	} `yaml:"video"`

	Subtitles struct {
		Enabled            bool    `yaml:"enabled"`
		SaveFiles          bool    `yaml:"save_files"`
		MaxWordsPerSegment int     `yaml:"max_words_per_segment"`
		MaxSegmentDuration float64 `yaml:"max_segment_duration_seconds"`
	} `yaml:"subtitles"`

	Workers struct {
		Count int `yaml:"count"`
	} `yaml:"workers"`

	Storage struct {
		TempDir   string `yaml:"temp_dir"`
		AudioDir  string `yaml:"audio_dir"`
		OutputDir string `yaml:"output_dir"`
		Database  string `yaml:"database"`
	} `yaml:"storage"`

	Cleanup struct {
		IntervalMinutes int  `yaml:"interval_minutes"`
		MaxAgeHours     int  `yaml:"max_age_hours"`
		AutoCleanup     bool `yaml:"auto_cleanup"`
		KeepAudioFiles  int  `yaml:"keep_audio_files"`
		KeepBackgrounds int  `yaml:"keep_backgrounds"`
	} `yaml:"cleanup"`

	GoogleDrive struct {
		CredentialsFile string `yaml:"credentials_file"`
		TokenFile       string `yaml:"token_file"`
		FolderName      string `yaml:"folder_name"`
	} `yaml:"google_drive"`

	Limits struct {
		MaxUploadSizeMB int `yaml:"max_upload_size_mb"`
	} `yaml:"limits"`
}

func main() {
	// Load configuration
	config, err := loadConfig("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Ensure directories exist
	if err := cleanup.EnsureTempDirExists(config.Storage.TempDir); err != nil {
		log.Fatalf("Failed to create temp directory: %v", err)
	}
	for _, dir := range []string{config.Storage.AudioDir, config.Storage.OutputDir, config.Video.BackgroundDir, filepath.Dir(config.Storage.Database)} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}

	// Custom logger setup
	logBuffer := &LogBuffer{
		lines: make([]string, 0, 1000),
	}
	multiWriter := io.MultiWriter(os.Stdout, logBuffer)
	log.SetOutput(multiWriter)

	// Initialize components
	log.Println("Initializing components...")

	// Reddit client
	redditClient := reddit.NewClient(reddit.Config{
		UserAgent:      config.Reddit.UserAgent,
		Subreddits:     config.Reddit.Subreddits,
		TimeFilter:     config.Reddit.TimeFilter,
		FetchLimit:     config.Reddit.FetchLimit,
		TopSampleSize:  config.Reddit.TopSampleSize,
		MinPostLength:  config.Reddit.MinPostLength,
		MinUpvotes:     config.Reddit.MinUpvotes,
		WordsPerMinute: config.Reddit.WordsPerMinute,
		MinDuration:    config.Reddit.MinDuration,
		MaxDuration:    config.Reddit.MaxDuration,
		AllowNSFW:      config.Reddit.AllowNSFW,
	})

	// ElevenLabs text-to-speech
	ttsClient, err := speech.NewClient(speech.Config{
		APIKey:          config.ElevenLabs.APIKey,
		VoiceID:         config.ElevenLabs.VoiceID,
		ModelID:         config.ElevenLabs.ModelID,
		Stability:       config.ElevenLabs.Stability,
		SimilarityBoost: config.ElevenLabs.SimilarityBoost,
		Style:           config.ElevenLabs.Style,
		SpeakerBoost:    config.ElevenLabs.SpeakerBoost,
		AudioDir:        config.Storage.AudioDir,
	})
	if err != nil {
		log.Fatalf("Failed to initialize ElevenLabs: %v", err)
	}

	// Background video library
	library, err := backgrounds.NewManager(config.Video.BackgroundDir)
	if err != nil {
		log.Fatalf("Failed to initialize background library: %v", err)
	}
	log.Printf("Background library ready: %d videos", library.Count())

	// Whisper transcriber
	transcriber, err := transcription.NewWhisperTranscriber(
		config.Whisper.Model,
		config.Whisper.Language,
		config.Storage.TempDir,
	)
	if err != nil {
		log.Fatalf("Failed to initialize Whisper: %v", err)
	}

	// Video composer
	composer := compose.New(compose.Options{
		Frame: compose.TargetFrame{
			Width:  config.Video.Width,
			Height: config.Video.Height,
			FPS:    config.Video.FPS,
		},
		RenderSubtitles:  config.Subtitles.Enabled,
		SubtitlePosition: config.Video.SubtitlePosition,
		FontFile:         config.Video.FontFile,
		FontSize:         config.Video.FontSize,
		SplitLongVideos:  config.Video.SplitLongVideos,
		MaxPartDuration:  config.Video.MaxPartDuration,
		TempDir:          config.Storage.TempDir,
	})

	// Local storage
	localStorage := storage.NewLocalStorage(config.Storage.OutputDir)

	// Google Drive client (optional - may fail if credentials not set up)
	var driveClient *storage.DriveClient
	if _, err := os.Stat(config.GoogleDrive.CredentialsFile); err == nil {
		driveClient, err = storage.NewDriveClient(
			config.GoogleDrive.CredentialsFile,
			config.GoogleDrive.TokenFile,
			config.GoogleDrive.FolderName,
		)
		if err != nil {
			log.Printf("WARNING: Google Drive not available: %v", err)
			log.Println("Videos will only be saved locally")
			driveClient = nil
		} else {
			log.Println("Google Drive integration enabled")
		}
	} else {
		log.Println("Google Drive credentials not found - saving locally only")
	}

	// Database
	db, err := storage.NewMetadataDB(config.Storage.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Worker pool
	workerPool := queue.NewWorkerPool(
		config.Workers.Count,
		queue.PipelineConfig{
			Script: reddit.ScriptOptions{
				IncludeTitle:        config.Script.IncludeTitle,
				AddOutro:            config.Script.AddOutro,
				OutroText:           config.Script.OutroText,
				ExpandAbbreviations: config.Script.ExpandAbbreviations,
			},
			GenerateSubtitles: config.Subtitles.Enabled,
			SaveSubtitleFiles: config.Subtitles.SaveFiles,
			Subtitles: subtitles.Config{
				MaxWordsPerSegment: config.Subtitles.MaxWordsPerSegment,
				MaxSegmentDuration: config.Subtitles.MaxSegmentDuration,
			},
			WhisperModel:    config.Whisper.Model,
			TempDir:         config.Storage.TempDir,
			AudioDir:        config.Storage.AudioDir,
			KeepAudioFiles:  config.Cleanup.KeepAudioFiles,
			KeepBackgrounds: config.Cleanup.KeepBackgrounds,
			AutoCleanup:     config.Cleanup.AutoCleanup,
		},
		redditClient,
		ttsClient,
		library,
		transcriber,
		composer,
		localStorage,
		driveClient,
		db,
	)
	workerPool.Start()

	// Cleanup scheduler
	cleanupScheduler := cleanup.NewScheduler(
		config.Storage.TempDir,
		config.Cleanup.IntervalMinutes,
		config.Cleanup.MaxAgeHours,
	)
	cleanupScheduler.Start()
	defer cleanupScheduler.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit: config.Limits.MaxUploadSizeMB * 1024 * 1024,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	// Initialize handlers
	generateHandler := handlers.NewGenerateHandler(workerPool)
	backgroundHandler := handlers.NewBackgroundHandler(library, config.Limits.MaxUploadSizeMB)
	progressHandler := handlers.NewProgressHandler(workerPool)

	// Routes
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":      "healthy",
			"version":     "1.0.0",
			"backgrounds": library.Count(),
		})
	})

	app.Post("/generate", generateHandler.Handle)
	app.Post("/backgrounds", backgroundHandler.Handle)

	// WebSocket route
	app.Get("/ws/jobs/:id", websocket.New(progressHandler.Handle))

	// Get video metadata
	app.Get("/videos", func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 50)
		videos, err := db.ListVideos(limit)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(videos)
	})

	app.Get("/videos/:id", func(c *fiber.Ctx) error {
		jobID := c.Params("id")
		video, err := db.GetVideo(jobID)
		if err != nil {
			return c.Status(404).JSON(fiber.Map{"error": "Video not found"})
		}
		return c.JSON(video)
	})

	// Get server logs
	app.Get("/logs", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"logs": logBuffer.GetLogs(),
		})
	})

	// Start server
	addr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	log.Printf("Server starting on %s", addr)
	log.Println("Endpoints:")
	log.Println("   POST /generate     - Generate a narrated video")
	log.Println("   POST /backgrounds  - Upload a background video")
	log.Println("   GET  /ws/jobs/:id  - WebSocket job status stream")
	log.Println("   GET  /videos       - List generated videos")
	log.Println("   GET  /videos/:id   - Get one video's metadata")
	log.Println("   GET  /logs         - View server logs")
	log.Println("   GET  /health       - Health check")

	// Graceful shutdown
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		log.Println("Shutting down gracefully...")
		app.Shutdown()
	}()

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// LogBuffer captures logs in memory
type LogBuffer struct {
	lines []string
	mu    sync.Mutex
}

func (lb *LogBuffer) Write(p []byte) (n int, err error) {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	lb.lines = append(lb.lines, string(p))

	// Keep last 1000 lines
	if len(lb.lines) > 1000 {
		lb.lines = lb.lines[len(lb.lines)-1000:]
	}

	return len(p), nil
}

func (lb *LogBuffer) GetLogs() []string {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	logs := make([]string, len(lb.lines))
	copy(logs, lb.lines)
	return logs
}

// loadConfig loads configuration from YAML file
func loadConfig(path string) (*Config, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(file, &config); err != nil {
		return nil, err
	}

	return &config, nil
}
