package pipeline

import "time"

// Status is the terminal state of one chunk's render task.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
	StatusTimeout Status = "timeout"
)

// Outcome records how one chunk's render finished. Created once per chunk,
// never mutated afterwards.
type Outcome struct {
	ChunkIndex int           `json:"chunk_index"`
	Status     Status        `json:"status"`
	Error      string        `json:"error,omitempty"`
	Duration   time.Duration `json:"duration"`
}

// Observer receives progress notifications as chunks reach a terminal
// state. Schedulers call it from a single goroutine.
type Observer interface {
	OnChunkDone(Outcome)
}

// NopObserver discards all notifications.
type NopObserver struct{}

func (NopObserver) OnChunkDone(Outcome) {}
