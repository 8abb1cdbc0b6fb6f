package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/codebuildervaibhav/shortform-video/internal/queue"
	"github.com/codebuildervaibhav/shortform-video/internal/types"
)

// GenerateHandler accepts video generation requests
type GenerateHandler struct {
	workerPool *queue.WorkerPool
}

// NewGenerateHandler creates a new generate handler
func NewGenerateHandler(workerPool *queue.WorkerPool) *GenerateHandler {
	return &GenerateHandler{
		workerPool: workerPool,
	}
}

// GenerateRequest represents the request body. Exactly one of Subreddit,
// URL or Text selects the content source; all empty means a random
// configured subreddit.
type GenerateRequest struct {
	Subreddit string `json:"subreddit"`
	URL       string `json:"url"`
	Text      string `json:"text"`
	Name      string `json:"name"`
}

// Handle enqueues one generation job
func (h *GenerateHandler) Handle(c *fiber.Ctx) error {
	var req GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "Invalid request body",
			"code":  "ERR_INVALID_BODY",
		})
	}

	sources := 0
	for _, s := range []string{req.Subreddit, req.URL, req.Text} {
		if strings.TrimSpace(s) != "" {
			sources++
		}
	}
	if sources > 1 {
		return c.Status(400).JSON(fiber.Map{
			"error": "Specify at most one of subreddit, url or text",
			"code":  "ERR_AMBIGUOUS_SOURCE",
		})
	}

	if req.Name == "" {
		req.Name = "untitled"
	}

	job := queue.NewJob(uuid.New().String(), req.Name, types.SourceSubreddit)
	switch {
	case strings.TrimSpace(req.URL) != "":
		job.SourceType = types.SourceURL
		job.PostURL = strings.TrimSpace(req.URL)
	case strings.TrimSpace(req.Text) != "":
		job.SourceType = types.SourceText
		job.ScriptText = req.Text
	default:
		job.Subreddit = strings.TrimSpace(req.Subreddit)
	}

	h.workerPool.EnqueueJob(job)

	return c.JSON(fiber.Map{
		"job_id":  job.ID,
		"status":  "queued",
		"message": "Video generation started",
	})
}
