package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dgallion1/shardpdf/internal/config"
	"github.com/dgallion1/shardpdf/internal/converter"
)

// handleConvert accepts a JSON document, either as a raw request body or as
// the "file" field of a multipart form, and queues a conversion job.
// Form/query parameters may override num_files, format, sequential, and
// timeout for this job only.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)

	filename := "upload.json"
	var data []byte

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
			return
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile("file")
		if err != nil {
			jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		filename = filepath.Base(header.Filename)

		data, err = io.ReadAll(file)
		if err != nil {
			jsonError(w, "failed to read file", http.StatusInternalServerError)
			return
		}
	} else {
		var err error
		data, err = io.ReadAll(r.Body)
		if err != nil {
			jsonError(w, "failed to read body: "+err.Error(), http.StatusRequestEntityTooLarge)
			return
		}
	}
	if len(data) == 0 {
		jsonError(w, "empty input", http.StatusBadRequest)
		return
	}

	jobID := uuid.NewString()
	jobDir := filepath.Join(s.cfg.OutputDir, jobID)
	if err := os.MkdirAll(jobDir, 0o755); err != nil {
		jsonError(w, "failed to create job directory", http.StatusInternalServerError)
		return
	}
	inputPath := filepath.Join(jobDir, "input.json")
	if err := os.WriteFile(inputPath, data, 0o644); err != nil {
		jsonError(w, "failed to store input", http.StatusInternalServerError)
		return
	}

	jobCfg := s.cfg
	jobCfg.InputFile = inputPath
	jobCfg.OutputDir = jobDir
	if v := param(r, "num_files"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			jobCfg.NumFiles = n
		}
	}
	if v := param(r, "format"); v != "" {
		jobCfg.Format = v
	}
	if v := param(r, "sequential"); v != "" {
		jobCfg.ForceSequential = v == "true"
	}
	if v := param(r, "timeout"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			jobCfg.TimeoutSeconds = n
		}
	}
	if err := jobCfg.Validate(); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	now := time.Now()
	job := &Job{
		ID:        jobID,
		Filename:  filename,
		Status:    StatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
		outputDir: jobDir,
	}
	s.jobs.Put(job)

	s.wg.Add(1)
	go s.runJob(job, jobCfg)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":     jobID,
		"status":     StatusQueued,
		"output_dir": jobDir,
	})
}

// runJob executes one conversion, bounded by the active-job semaphore.
func (s *Server) runJob(job *Job, jobCfg config.Config) {
	defer s.wg.Done()
	s.sem <- struct{}{}
	defer func() { <-s.sem }()

	job.SetStatus(StatusRunning)
	log := s.log.With("job_id", job.ID)

	ctx := context.Background()
	rep, err := converter.Convert(ctx, jobCfg, log, job)
	if err != nil {
		log.Error("conversion failed", "error", err)
		job.Fail(err.Error())
		return
	}
	job.Complete(rep)
}

// handleJobStatus returns a job snapshot, including the report once the
// conversion has finished.
func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.jobs.Get(jobID)
	if job == nil {
		jsonError(w, fmt.Sprintf("unknown job: %s", jobID), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job.Snapshot())
}

// param reads a request parameter from the form body or the query string.
func param(r *http.Request, key string) string {
	if v := r.FormValue(key); v != "" {
		return v
	}
	return r.URL.Query().Get(key)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
