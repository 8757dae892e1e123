package api

import (
	"os"
	"sync"
	"time"

	"github.com/dgallion1/shardpdf/internal/pipeline"
)

// JobStatus is the state of one queued conversion.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// Job tracks one conversion submitted over HTTP. The conversion run itself
// holds no cross-run state; the job record only exists so the client can
// poll for the report.
type Job struct {
	mu sync.Mutex

	ID       string
	Filename string
	Status   JobStatus
	Error    string
	Progress Progress
	Report   *pipeline.Report

	CreatedAt time.Time
	UpdatedAt time.Time

	outputDir string
}

// Progress counts chunk completions while the job runs.
type Progress struct {
	ChunksDone int `json:"chunks_done"`
	Failures   int `json:"failures"`
}

func (j *Job) SetStatus(status JobStatus) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.UpdatedAt = time.Now()
}

func (j *Job) Fail(msg string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = StatusFailed
	j.Error = msg
	j.UpdatedAt = time.Now()
}

func (j *Job) Complete(rep pipeline.Report) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Report = &rep
	if rep.OverallSuccess {
		j.Status = StatusCompleted
	} else {
		j.Status = StatusFailed
		j.Error = "one or more chunks failed"
	}
	j.UpdatedAt = time.Now()
}

// OnChunkDone lets a Job act as the run's progress observer.
func (j *Job) OnChunkDone(o pipeline.Outcome) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.ChunksDone++
	if o.Status != pipeline.StatusSuccess {
		j.Progress.Failures++
	}
	j.UpdatedAt = time.Now()
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID       string           `json:"job_id"`
	Filename string           `json:"filename"`
	Status   JobStatus        `json:"status"`
	Error    string           `json:"error,omitempty"`
	Progress Progress         `json:"progress"`
	Report   *pipeline.Report `json:"report,omitempty"`
}

func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	return JobSnapshot{
		ID:       j.ID,
		Filename: j.Filename,
		Status:   j.Status,
		Error:    j.Error,
		Progress: j.Progress,
		Report:   j.Report,
	}
}

// touchedAt reads the last-update time under the job's own lock, so TTL
// checks do not race with status and progress updates.
func (j *Job) touchedAt() time.Time {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.UpdatedAt
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs and their scratch directories.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.touchedAt()) > s.ttl {
			if job.outputDir != "" {
				os.RemoveAll(job.outputDir)
			}
			delete(s.jobs, id)
		}
	}
}
