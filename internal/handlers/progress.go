package handlers

import (
	"log"
	"time"

	"github.com/gofiber/websocket/v2"

	"github.com/codebuildervaibhav/shortform-video/internal/queue"
	"github.com/codebuildervaibhav/shortform-video/internal/types"
)

// ProgressHandler streams job status over WebSocket
type ProgressHandler struct {
	workerPool *queue.WorkerPool
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(workerPool *queue.WorkerPool) *ProgressHandler {
	return &ProgressHandler{
		workerPool: workerPool,
	}
}

type progressMessage struct {
	JobID     string      `json:"job_id"`
	Status    string      `json:"status"`
	Error     string      `json:"error,omitempty"`
	PartCount int         `json:"part_count,omitempty"`
	Outputs   []string    `json:"outputs,omitempty"`
	GDriveURL string      `json:"gdrive_url,omitempty"`
	Post      *types.Post `json:"post,omitempty"`
}

// Handle pushes status updates for one job until it reaches a terminal
// state or the client disconnects
func (h *ProgressHandler) Handle(c *websocket.Conn) {
	defer c.Close()

	jobID := c.Params("id")

	job, ok := h.workerPool.GetJob(jobID)
	if !ok {
		c.WriteJSON(progressMessage{JobID: jobID, Status: "not_found"})
		return
	}

	log.Printf("Progress stream opened for job %s", jobID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	lastStatus := ""
	for range ticker.C {
		state := job.State()

		if state.Status != lastStatus {
			lastStatus = state.Status

			msg := progressMessage{
				JobID:  job.ID,
				Status: state.Status,
			}
			if state.Err != nil {
				msg.Error = state.Err.Error()
			}
			if state.Result != nil {
				msg.PartCount = state.Result.PartCount
				msg.Outputs = state.Result.OutputPaths
				msg.GDriveURL = state.Result.GDriveURL
				msg.Post = state.Result.Post
			}

			if err := c.WriteJSON(msg); err != nil {
				log.Printf("Progress stream write error for job %s: %v", jobID, err)
				return
			}
		}

		if state.Status == types.StatusCompleted || state.Status == types.StatusFailed {
			return
		}
	}
}
