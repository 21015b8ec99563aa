package job

import (
	"fmt"
	"sync"
	"time"

	"datacatalogapi/pkg/logger"

	"github.com/google/uuid"
)

// ImportFunc runs the import for one Version. The worker injects it at
// startup so this package stays free of the service layer.
type ImportFunc func(versionID uint) error

// JobInfo stores information about one queued or finished import run.
type JobInfo struct {
	JobID     string     `json:"job_id"`
	VersionID uint       `json:"version_id"`
	Status    string     `json:"status"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Message   string     `json:"message"`
	Error     string     `json:"error,omitempty"`
}

// Job statuses, in lifecycle order.
const (
	StatusQueued    = "queued"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// ImportWorkerService runs Version imports one at a time on a background
// goroutine. Imports are serialized deliberately: two concurrent imports
// would contend on the shared data element table for no throughput gain.
type ImportWorkerService struct {
	jobs     map[string]*JobInfo
	mu       sync.RWMutex
	queue    chan string
	stopCh   chan struct{}
	stopped  bool
	done     chan struct{}
	importFn ImportFunc
}

var (
	importWorkerInstance *ImportWorkerService
	importWorkerOnce     sync.Once
)

// GetImportWorkerService returns the singleton worker, starting it on first
// use with the given import function and queue capacity.
func GetImportWorkerService(importFn ImportFunc, queueSize int) *ImportWorkerService {
	importWorkerOnce.Do(func() {
		importWorkerInstance = NewImportWorkerService(importFn, queueSize)
	})
	return importWorkerInstance
}

// NewImportWorkerService creates and starts a worker. Production code goes
// through GetImportWorkerService; tests construct their own instances.
func NewImportWorkerService(importFn ImportFunc, queueSize int) *ImportWorkerService {
	if queueSize < 1 {
		queueSize = 16
	}
	w := &ImportWorkerService{
		jobs:     make(map[string]*JobInfo),
		queue:    make(chan string, queueSize),
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
		importFn: importFn,
	}
	go w.run()
	return w
}

// Enqueue queues an import run for the Version and returns its job id. It
// fails when the queue is full rather than blocking the request handler.
func (w *ImportWorkerService) Enqueue(versionID uint) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return "", fmt.Errorf("import worker is stopped")
	}

	jobID := uuid.NewString()
	job := &JobInfo{
		JobID:     jobID,
		VersionID: versionID,
		Status:    StatusQueued,
		StartTime: time.Now(),
		Message:   "Import queued",
	}

	select {
	case w.queue <- jobID:
	default:
		return "", fmt.Errorf("import queue is full")
	}

	w.jobs[jobID] = job
	logger.Infof("Queued import job %s for version %d", jobID, versionID)
	return jobID, nil
}

// GetJob returns a copy of one job's information.
func (w *ImportWorkerService) GetJob(jobID string) (*JobInfo, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	job, exists := w.jobs[jobID]
	if exists {
		jobCopy := *job
		return &jobCopy, true
	}
	return nil, false
}

// GetJobsByVersion returns the jobs recorded for one Version.
func (w *ImportWorkerService) GetJobsByVersion(versionID uint) []JobInfo {
	w.mu.RLock()
	defer w.mu.RUnlock()

	var result []JobInfo
	for _, job := range w.jobs {
		if job.VersionID == versionID {
			result = append(result, *job)
		}
	}
	return result
}

// PaginatedJobsResult contains paginated jobs data with metadata.
type PaginatedJobsResult struct {
	Jobs       []JobInfo `json:"jobs"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalPages int       `json:"total_pages"`
}

// GetAllJobsPaginated returns paginated jobs information. The internal map is
// converted to a slice because map iteration order is undefined; pages beyond
// the data return an empty slice instead of an error.
func (w *ImportWorkerService) GetAllJobsPaginated(page, pageSize int) *PaginatedJobsResult {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	allJobs := make([]JobInfo, 0, len(w.jobs))
	for _, job := range w.jobs {
		allJobs = append(allJobs, *job)
	}

	total := len(allJobs)
	totalPages := (total + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	end := start + pageSize

	if start >= total {
		return &PaginatedJobsResult{
			Jobs:       []JobInfo{},
			Total:      total,
			Page:       page,
			PageSize:   pageSize,
			TotalPages: totalPages,
		}
	}
	if end > total {
		end = total
	}

	return &PaginatedJobsResult{
		Jobs:       allJobs[start:end],
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// Stop shuts the worker down and waits for an in-flight import to finish.
// Jobs still queued stay in "queued" state and are not picked up again.
func (w *ImportWorkerService) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	close(w.stopCh)
	w.mu.Unlock()

	<-w.done
	logger.Infof("Import worker stopped")
}

// run is the worker loop: one import at a time, in queue order.
func (w *ImportWorkerService) run() {
	defer close(w.done)

	logger.Infof("Import worker started")
	for {
		select {
		case <-w.stopCh:
			return
		case jobID := <-w.queue:
			w.runJob(jobID)
		}
	}
}

func (w *ImportWorkerService) runJob(jobID string) {
	w.mu.Lock()
	job, exists := w.jobs[jobID]
	if !exists {
		w.mu.Unlock()
		return
	}
	versionID := job.VersionID
	job.Status = StatusRunning
	job.StartTime = time.Now()
	job.Message = "Import running"
	w.mu.Unlock()

	err := w.importFn(versionID)

	w.mu.Lock()
	defer w.mu.Unlock()
	job, exists = w.jobs[jobID]
	if !exists {
		return
	}
	now := time.Now()
	job.EndTime = &now
	if err != nil {
		job.Status = StatusFailed
		job.Message = "Import failed"
		job.Error = err.Error()
		logger.Errorf("Import job %s for version %d failed: %v", jobID, versionID, err)
		return
	}
	job.Status = StatusCompleted
	job.Message = "Import completed"
	logger.Infof("Import job %s for version %d completed", jobID, versionID)
}
