package queue

import (
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/codebuildervaibhav/shortform-video/internal/backgrounds"
	"github.com/codebuildervaibhav/shortform-video/internal/cleanup"
	"github.com/codebuildervaibhav/shortform-video/internal/compose"
	"github.com/codebuildervaibhav/shortform-video/internal/reddit"
	"github.com/codebuildervaibhav/shortform-video/internal/speech"
	"github.com/codebuildervaibhav/shortform-video/internal/storage"
	"github.com/codebuildervaibhav/shortform-video/internal/subtitles"
	"github.com/codebuildervaibhav/shortform-video/internal/transcription"
	"github.com/codebuildervaibhav/shortform-video/internal/types"
)

// PipelineConfig carries the per-run settings the worker consults
type PipelineConfig struct {
	Script            reddit.ScriptOptions
	GenerateSubtitles bool
	SaveSubtitleFiles bool
	Subtitles         subtitles.Config
	WhisperModel      string
	TempDir           string
	AudioDir          string
	KeepAudioFiles    int
	KeepBackgrounds   int
	AutoCleanup       bool
}

// WorkerPool manages a pool of workers processing generation jobs
type WorkerPool struct {
	jobQueue    chan *Job
	workerCount int
	cfg         PipelineConfig

	redditClient *reddit.Client
	ttsClient    *speech.Client
	library      *backgrounds.Manager
	transcriber  *transcription.WhisperTranscriber
	composer     *compose.Composer
	localStorage *storage.LocalStorage
	driveClient  *storage.DriveClient
	db           *storage.MetadataDB

	mu   sync.RWMutex
	jobs map[string]*Job
}

// NewWorkerPool creates a new worker pool
func NewWorkerPool(
	workerCount int,
	cfg PipelineConfig,
	redditClient *reddit.Client,
	ttsClient *speech.Client,
	library *backgrounds.Manager,
	transcriber *transcription.WhisperTranscriber,
	composer *compose.Composer,
	localStorage *storage.LocalStorage,
	driveClient *storage.DriveClient,
	db *storage.MetadataDB,
) *WorkerPool {
	return &WorkerPool{
		jobQueue:     make(chan *Job, 100),
		workerCount:  workerCount,
		cfg:          cfg,
		redditClient: redditClient,
		ttsClient:    ttsClient,
		library:      library,
		transcriber:  transcriber,
		composer:     composer,
		localStorage: localStorage,
		driveClient:  driveClient,
		db:           db,
		jobs:         make(map[string]*Job),
	}
}

// Start initializes all workers
func (wp *WorkerPool) Start() {
	log.Printf("Starting worker pool with %d workers", wp.workerCount)
	for i := 0; i < wp.workerCount; i++ {
		go wp.worker(i)
	}
}

// EnqueueJob adds a job to the queue
func (wp *WorkerPool) EnqueueJob(job *Job) {
	job.SetStatus(types.StatusQueued)
	job.CreatedAt = time.Now()

	wp.mu.Lock()
	wp.jobs[job.ID] = job
	wp.mu.Unlock()

	wp.jobQueue <- job
	log.Printf("Job %s enqueued (source: %s, name: %s)", job.ID, job.SourceType, job.RequestName)
}

// GetJob looks up a job by ID
func (wp *WorkerPool) GetJob(id string) (*Job, bool) {
	wp.mu.RLock()
	defer wp.mu.RUnlock()
	job, ok := wp.jobs[id]
	return job, ok
}

// worker processes jobs from the queue
func (wp *WorkerPool) worker(id int) {
	log.Printf("Worker %d started", id)

	for job := range wp.jobQueue {
		// Panic recovery
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("Worker %d: PANIC processing job %s: %v\n%s",
						id, job.ID, r, string(debug.Stack()))
					job.Fail(fmt.Errorf("worker panic: %v", r))
				}
			}()

			wp.processJob(id, job)
		}()
	}
}

// processJob runs the complete generation pipeline for one job
func (wp *WorkerPool) processJob(workerID int, job *Job) {
	log.Printf("Worker %d: Processing job %s", workerID, job.ID)

	// Step 1: Obtain the post
	job.SetStatus(types.StatusFetching)
	post, err := wp.obtainPost(job)
	if err != nil {
		wp.fail(workerID, job, "Post fetch", err)
		return
	}

	// Step 2: Build the narration script and synthesize audio
	job.SetStatus(types.StatusNarrating)
	script := reddit.BuildScript(post, wp.cfg.Script)

	audioPath, err := wp.ttsClient.Synthesize(script, post.ID)
	if err != nil {
		wp.fail(workerID, job, "Speech synthesis", err)
		return
	}

	// Step 3: Pick a background video
	bgPath, err := wp.library.RandomVideo()
	if err != nil {
		wp.fail(workerID, job, "Background selection", err)
		return
	}

	// Step 4: Transcribe and build subtitle segments. Absent subtitles are
	// a valid degraded mode, never fatal.
	var segments []subtitles.Segment
	if wp.cfg.GenerateSubtitles {
		segments = wp.buildSubtitles(workerID, audioPath)
	}

	// Step 5: Compose the final video
	job.SetStatus(types.StatusComposing)
	outputPath, err := wp.localStorage.VideoOutputPath(post.ID)
	if err != nil {
		wp.fail(workerID, job, "Output path", err)
		return
	}

	outputs, err := wp.composer.Compose(bgPath, audioPath, segments, outputPath)
	if err != nil {
		wp.fail(workerID, job, "Video composition", err)
		return
	}

	result := &types.VideoResult{
		JobID:         job.ID,
		Post:          post,
		AudioPath:     audioPath,
		OutputPaths:   outputs,
		PartCount:     len(outputs),
		WordCount:     post.WordCount,
		SubtitleCount: len(segments),
		ProcessedAt:   time.Now(),
	}
	if info, err := compose.Probe(outputs[0]); err == nil {
		result.Duration = info.Duration
		result.Width = info.Width
		result.Height = info.Height
	} else {
		log.Printf("Worker %d: WARNING - failed to probe output video: %v", workerID, err)
	}

	// Step 6: Sidecars
	if wp.cfg.SaveSubtitleFiles && len(segments) > 0 {
		sidecar, err := wp.localStorage.SaveSubtitles(outputs[0], segments, subtitles.SidecarMeta{
			AudioFile:   audioPath,
			GeneratedAt: time.Now(),
			ModelUsed:   wp.cfg.WhisperModel,
		})
		if err != nil {
			log.Printf("Worker %d: WARNING - failed to save subtitle files: %v", workerID, err)
		} else {
			result.SubtitlePath = sidecar
		}
	}
	if err := wp.localStorage.SavePostRecord(outputs[0], post); err != nil {
		log.Printf("Worker %d: WARNING - failed to save post record: %v", workerID, err)
	}

	// Step 7: Upload to Google Drive (with retry)
	if wp.driveClient != nil {
		var driveURL string
		for attempt := 1; attempt <= 3; attempt++ {
			driveURL, err = wp.driveClient.Upload(job.RequestName, result)
			if err == nil {
				result.GDriveURL = driveURL
				break
			}
			log.Printf("Worker %d: Google Drive upload attempt %d/3 failed: %v", workerID, attempt, err)
			if attempt < 3 {
				time.Sleep(time.Duration(attempt*attempt) * time.Second)
			}
		}
		if result.GDriveURL == "" {
			log.Printf("Worker %d: WARNING - Google Drive upload failed, continuing with local files only", workerID)
		}
	}

	// Step 8: Save metadata to database
	if wp.db != nil {
		if err := wp.db.SaveVideo(job.RequestName, job.SourceType, result); err != nil {
			log.Printf("Worker %d: Database save failed: %v", workerID, err)
		}
	}

	// Step 9: Retention cleanup
	if wp.cfg.AutoCleanup {
		wp.library.TrimOld(wp.cfg.KeepBackgrounds)
		cleanup.TrimDirByCount(wp.cfg.AudioDir, wp.cfg.KeepAudioFiles)
	}

	job.Complete(result)
	log.Printf("Worker %d: Job %s completed: %d file(s), first: %s",
		workerID, job.ID, len(outputs), outputs[0])
}

// obtainPost resolves the job's source into a narration-ready post
func (wp *WorkerPool) obtainPost(job *Job) (*types.Post, error) {
	switch job.SourceType {
	case types.SourceURL:
		return wp.redditClient.FetchPostByURL(job.PostURL)
	case types.SourceText:
		text := strings.TrimSpace(job.ScriptText)
		if text == "" {
			return nil, fmt.Errorf("empty script text")
		}
		return &types.Post{
			ID:        job.ID[:8],
			Title:     job.RequestName,
			SelfText:  text,
			Author:    "manual",
			WordCount: len(strings.Fields(text)),
		}, nil
	default:
		return wp.redditClient.FetchTopPost(job.Subreddit)
	}
}

// buildSubtitles transcribes the narration and times it into display
// segments. Every failure here degrades to an empty result.
func (wp *WorkerPool) buildSubtitles(workerID int, audioPath string) []subtitles.Segment {
	normalized, err := transcription.NormalizeAudio(wp.cfg.TempDir, audioPath)
	if err != nil {
		log.Printf("Worker %d: WARNING - audio normalization failed, skipping subtitles: %v", workerID, err)
		return nil
	}
	defer wp.cleanupTempFile(normalized)

	transcript, err := wp.transcriber.Transcribe(normalized)
	if err != nil {
		log.Printf("Worker %d: WARNING - transcription failed, skipping subtitles: %v", workerID, err)
		return nil
	}

	segments := subtitles.BuildSegments(transcript.Segments, wp.cfg.Subtitles)
	log.Printf("Worker %d: Generated %d subtitle segments", workerID, len(segments))
	return segments
}

func (wp *WorkerPool) fail(workerID int, job *Job, stage string, err error) {
	log.Printf("Worker %d: %s failed for job %s: %v", workerID, stage, job.ID, err)
	job.Fail(fmt.Errorf("%s failed: %v", strings.ToLower(stage), err))
}

// cleanupTempFile removes a temporary file
func (wp *WorkerPool) cleanupTempFile(filePath string) {
	if filePath == "" {
		return
	}
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to cleanup temp file %s: %v", filePath, err)
	}
}
