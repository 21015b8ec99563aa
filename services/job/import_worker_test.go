package job

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// waitForStatus polls until the job leaves the queued/running states.
func waitForStatus(t *testing.T, w *ImportWorkerService, jobID string) *JobInfo {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job, exists := w.GetJob(jobID)
		if !exists {
			t.Fatalf("job %s disappeared", jobID)
		}
		if job.Status == StatusCompleted || job.Status == StatusFailed {
			return job
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s did not finish in time", jobID)
	return nil
}

// TestEnqueueRunsImport verifies a queued job reaches the import function and completes
func TestEnqueueRunsImport(t *testing.T) {
	var mu sync.Mutex
	var imported []uint
	w := NewImportWorkerService(func(versionID uint) error {
		mu.Lock()
		defer mu.Unlock()
		imported = append(imported, versionID)
		return nil
	}, 4)
	defer w.Stop()

	jobID, err := w.Enqueue(42)
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	job := waitForStatus(t, w, jobID)
	if job.Status != StatusCompleted {
		t.Errorf("Expected status %s, got %s", StatusCompleted, job.Status)
	}
	if job.VersionID != 42 {
		t.Errorf("Expected version 42, got %d", job.VersionID)
	}
	if job.EndTime == nil {
		t.Error("Expected end time to be set")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(imported) != 1 || imported[0] != 42 {
		t.Errorf("Expected import of version 42, got %v", imported)
	}
}

// TestFailedImportRecordsError verifies import errors end up on the job record
func TestFailedImportRecordsError(t *testing.T) {
	w := NewImportWorkerService(func(versionID uint) error {
		return errors.New("column import stage failed")
	}, 4)
	defer w.Stop()

	jobID, err := w.Enqueue(7)
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	job := waitForStatus(t, w, jobID)
	if job.Status != StatusFailed {
		t.Errorf("Expected status %s, got %s", StatusFailed, job.Status)
	}
	if job.Error != "column import stage failed" {
		t.Errorf("Expected import error on job, got %q", job.Error)
	}
}

// TestImportsAreSerialized verifies only one import runs at a time
func TestImportsAreSerialized(t *testing.T) {
	var mu sync.Mutex
	running := 0
	maxRunning := 0

	w := NewImportWorkerService(func(versionID uint) error {
		mu.Lock()
		running++
		if running > maxRunning {
			maxRunning = running
		}
		mu.Unlock()

		time.Sleep(10 * time.Millisecond)

		mu.Lock()
		running--
		mu.Unlock()
		return nil
	}, 8)
	defer w.Stop()

	var jobIDs []string
	for i := 1; i <= 5; i++ {
		jobID, err := w.Enqueue(uint(i))
		if err != nil {
			t.Fatalf("Enqueue failed: %v", err)
		}
		jobIDs = append(jobIDs, jobID)
	}

	for _, jobID := range jobIDs {
		waitForStatus(t, w, jobID)
	}

	mu.Lock()
	defer mu.Unlock()
	if maxRunning != 1 {
		t.Errorf("Expected at most 1 concurrent import, observed %d", maxRunning)
	}
}

// TestEnqueueFullQueue verifies a full queue is reported instead of blocking
func TestEnqueueFullQueue(t *testing.T) {
	block := make(chan struct{})
	w := NewImportWorkerService(func(versionID uint) error {
		<-block
		return nil
	}, 1)
	defer func() {
		close(block)
		w.Stop()
	}()

	// First job occupies the worker, second fills the queue slot.
	if _, err := w.Enqueue(1); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if _, err := w.Enqueue(2); err == nil {
			continue
		} else {
			return
		}
	}
	t.Error("Expected Enqueue to fail once the queue is full")
}

// TestGetAllJobsPaginated_EmptyJobs tests pagination with no jobs
func TestGetAllJobsPaginated_EmptyJobs(t *testing.T) {
	w := &ImportWorkerService{
		jobs: make(map[string]*JobInfo),
	}

	result := w.GetAllJobsPaginated(1, 10)

	if result.Total != 0 {
		t.Errorf("Expected total 0, got %d", result.Total)
	}
	if len(result.Jobs) != 0 {
		t.Errorf("Expected empty jobs array, got %d jobs", len(result.Jobs))
	}
	if result.TotalPages != 0 {
		t.Errorf("Expected totalPages 0, got %d", result.TotalPages)
	}
}

// TestGetAllJobsPaginated_BeyondData tests requesting a page past the data
func TestGetAllJobsPaginated_BeyondData(t *testing.T) {
	w := &ImportWorkerService{
		jobs: make(map[string]*JobInfo),
	}
	for i := 1; i <= 3; i++ {
		id := string(rune('a' + i))
		w.jobs[id] = &JobInfo{JobID: id, VersionID: uint(i), Status: StatusCompleted}
	}

	result := w.GetAllJobsPaginated(5, 10)
	if result.Total != 3 {
		t.Errorf("Expected total 3, got %d", result.Total)
	}
	if len(result.Jobs) != 0 {
		t.Errorf("Expected empty page, got %d jobs", len(result.Jobs))
	}
	if result.TotalPages != 1 {
		t.Errorf("Expected totalPages 1, got %d", result.TotalPages)
	}
}

// TestGetAllJobsPaginated_InvalidParams tests parameter clamping
func TestGetAllJobsPaginated_InvalidParams(t *testing.T) {
	w := &ImportWorkerService{
		jobs: make(map[string]*JobInfo),
	}

	result := w.GetAllJobsPaginated(0, -1)
	if result.Page != 1 {
		t.Errorf("Expected page clamped to 1, got %d", result.Page)
	}
	if result.PageSize != 10 {
		t.Errorf("Expected pageSize defaulted to 10, got %d", result.PageSize)
	}
}

// TestGetJobsByVersion filters jobs by version id
func TestGetJobsByVersion(t *testing.T) {
	w := &ImportWorkerService{
		jobs: make(map[string]*JobInfo),
	}
	w.jobs["a"] = &JobInfo{JobID: "a", VersionID: 1}
	w.jobs["b"] = &JobInfo{JobID: "b", VersionID: 2}
	w.jobs["c"] = &JobInfo{JobID: "c", VersionID: 1}

	jobs := w.GetJobsByVersion(1)
	if len(jobs) != 2 {
		t.Errorf("Expected 2 jobs for version 1, got %d", len(jobs))
	}
}

// TestStopRefusesNewJobs verifies Enqueue fails after Stop
func TestStopRefusesNewJobs(t *testing.T) {
	w := NewImportWorkerService(func(versionID uint) error { return nil }, 4)
	w.Stop()

	if _, err := w.Enqueue(1); err == nil {
		t.Error("Expected Enqueue to fail after Stop")
	}
}
