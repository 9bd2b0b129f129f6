package pipeline

import (
	"os"
	"sort"
	"sync"
	"time"

	"quotereel/internal/pkg/logger"
)

// Cleanup deletes rendered outputs after a fixed delay. Timers are keyed by
// output ID so a pending deletion can be inspected or cancelled; deletion
// failures only log, they never surface to a request.
type Cleanup struct {
	Delay time.Duration
	Log   *logger.Logger

	mu    sync.Mutex
	tasks map[string]*cleanupTask
}

type cleanupTask struct {
	timer *time.Timer
	path  string
	runAt time.Time
}

// Pending describes one scheduled deletion.
type Pending struct {
	OutputID string    `json:"outputId"`
	Path     string    `json:"path"`
	RunAt    time.Time `json:"runAt"`
}

func NewCleanup(delay time.Duration, log *logger.Logger) *Cleanup {
	return &Cleanup{
		Delay: delay,
		Log:   log.WithComponent("cleanup"),
		tasks: make(map[string]*cleanupTask),
	}
}

// Schedule arms a deletion for the given output and returns when it will
// run. Rescheduling the same output ID replaces the earlier timer.
func (c *Cleanup) Schedule(outputID, path string) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	if prev, ok := c.tasks[outputID]; ok {
		prev.timer.Stop()
	}

	runAt := time.Now().Add(c.Delay)
	task := &cleanupTask{path: path, runAt: runAt}
	task.timer = time.AfterFunc(c.Delay, func() { c.fire(outputID, path) })
	c.tasks[outputID] = task

	c.Log.Info("cleanup scheduled", "output_id", outputID, "run_at", runAt.UTC().Format(time.RFC3339))
	return runAt
}

func (c *Cleanup) fire(outputID, path string) {
	c.mu.Lock()
	delete(c.tasks, outputID)
	c.mu.Unlock()

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		c.Log.Warn("cleanup failed", "output_id", outputID, "path", path, "error", err.Error())
		return
	}
	c.Log.Info("output cleaned up", "output_id", outputID)
}

// Cancel disarms a pending deletion. It reports whether one existed.
func (c *Cleanup) Cancel(outputID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	task, ok := c.tasks[outputID]
	if !ok {
		return false
	}
	task.timer.Stop()
	delete(c.tasks, outputID)
	c.Log.Info("cleanup cancelled", "output_id", outputID)
	return true
}

// Pending lists scheduled deletions, soonest first.
func (c *Cleanup) Pending() []Pending {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Pending, 0, len(c.tasks))
	for id, task := range c.tasks {
		out = append(out, Pending{OutputID: id, Path: task.path, RunAt: task.runAt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RunAt.Before(out[j].RunAt) })
	return out
}

// Stop disarms every pending deletion, for process shutdown. Files on disk
// are left alone.
func (c *Cleanup) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for id, task := range c.tasks {
		task.timer.Stop()
		delete(c.tasks, id)
	}
}
