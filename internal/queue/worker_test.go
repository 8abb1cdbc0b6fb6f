package queue

import (
	"fmt"
	"testing"
	"time"

	"github.com/codebuildervaibhav/shortform-video/internal/types"
)

func TestJobStateConcurrentAccess(t *testing.T) {
	job := NewJob("0b86ac12", "test", types.SourceText)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			job.SetStatus(types.StatusNarrating)
			job.Fail(fmt.Errorf("synthesis failed"))
			job.Complete(&types.VideoResult{JobID: job.ID})
		}
	}()

	for i := 0; i < 1000; i++ {
		if state := job.State(); state.Status == "" {
			t.Fatal("snapshot lost the status")
		}
	}
	<-done

	state := job.State()
	if state.Status != types.StatusCompleted || state.Result == nil {
		t.Errorf("expected completed job with result, got %+v", state)
	}
}

func TestWorkerFailsJobPolledDuringProcessing(t *testing.T) {
	// No collaborators wired: the pipeline cannot get past synthesis, so
	// the worker must end the job in FAILED while we poll its state the
	// way the progress stream does.
	wp := NewWorkerPool(1, PipelineConfig{}, nil, nil, nil, nil, nil, nil, nil, nil)
	wp.Start()

	job := NewJob("0b86ac12", "test", types.SourceText)
	job.ScriptText = "a short story to narrate"
	wp.EnqueueJob(job)

	deadline := time.After(5 * time.Second)
	for {
		got, ok := wp.GetJob(job.ID)
		if !ok {
			t.Fatal("enqueued job not registered")
		}

		state := got.State()
		if state.Status == types.StatusFailed {
			if state.Err == nil {
				t.Error("failed job should carry an error")
			}
			return
		}
		if state.Status == types.StatusCompleted {
			t.Fatal("job cannot complete without collaborators")
		}

		select {
		case <-deadline:
			t.Fatalf("job did not reach a terminal state, status %s", state.Status)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestGetJobUnknownID(t *testing.T) {
	wp := NewWorkerPool(1, PipelineConfig{}, nil, nil, nil, nil, nil, nil, nil, nil)

	if _, ok := wp.GetJob("missing"); ok {
		t.Error("expected lookup miss for unknown job id")
	}
}
