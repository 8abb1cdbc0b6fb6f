package queue

import (
	"sync"
	"time"

	"github.com/codebuildervaibhav/shortform-video/internal/types"
)

// Job represents one video generation run
type Job struct {
	ID          string
	RequestName string
	SourceType  string

	// Exactly one of these drives the run, depending on SourceType
	Subreddit  string
	PostURL    string
	ScriptText string

	CreatedAt time.Time

	// mu guards the fields the worker mutates while handlers poll
	mu     sync.RWMutex
	status string
	err    error
	result *types.VideoResult
}

// JobState is a point-in-time view of a job's mutable fields
type JobState struct {
	Status string
	Err    error
	Result *types.VideoResult
}

// NewJob creates a new job with default values
func NewJob(id, requestName, sourceType string) *Job {
	return &Job{
		ID:          id,
		RequestName: requestName,
		SourceType:  sourceType,
		status:      types.StatusQueued,
		CreatedAt:   time.Now(),
	}
}

// SetStatus advances the job to a new pipeline stage
func (j *Job) SetStatus(status string) {
	j.mu.Lock()
	j.status = status
	j.mu.Unlock()
}

// Fail marks the job failed with its terminal error
func (j *Job) Fail(err error) {
	j.mu.Lock()
	j.status = types.StatusFailed
	j.err = err
	j.mu.Unlock()
}

// Complete marks the job completed with its result
func (j *Job) Complete(result *types.VideoResult) {
	j.mu.Lock()
	j.status = types.StatusCompleted
	j.result = result
	j.mu.Unlock()
}

// State returns a consistent snapshot for status reporting
func (j *Job) State() JobState {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return JobState{
		Status: j.status,
		Err:    j.err,
		Result: j.result,
	}
}
