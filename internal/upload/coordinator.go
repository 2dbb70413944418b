package upload

import (
	"context"
	"sync"
)

// Coordinator owns the Dispatcher, one or more UploadWorkers, and the
// DeleteWorker, and wires them one-directionally: each UploadWorker is given
// only DeleteWorker's narrow Submit capability, never a reference to
// DeleteWorker itself. This replaces the source's UploadProcessor<->
// DeleteProcessor cyclic ownership with a single owner and a one-way handle.
type Coordinator struct {
	Dispatcher    *Dispatcher
	UploadWorker  *UploadWorker // first worker, kept for single-worker callers
	UploadWorkers []*UploadWorker
	DeleteWorker  *DeleteWorker
}

// NewCoordinator assembles a Coordinator with a single UploadWorker from its
// external collaborators: containerPath (the process-wide data container,
// read-only after construction), publisher (broker publish capability), and
// fileUploader (blob PUT capability).
func NewCoordinator(containerPath string, publisher Publisher, fileUploader FileUploader) *Coordinator {
	return NewCoordinatorWithWorkers(containerPath, publisher, fileUploader, 1)
}

// NewCoordinatorWithWorkers is like NewCoordinator but runs workerCount
// UploadWorker loops over the shared UploadQueue and URICache. The design
// permits multiple UploadWorkers; per-file ordering within a single request
// stays sequential because only one worker ever holds a given
// ProcessRequest at a time.
func NewCoordinatorWithWorkers(containerPath string, publisher Publisher, fileUploader FileUploader, workerCount int) *Coordinator {
	if workerCount < 1 {
		workerCount = 1
	}

	queue := NewUploadQueue()
	cache := NewURICache()
	deleteWorker := NewDeleteWorker()
	notifier := NewNotifier(publisher)

	workers := make([]*UploadWorker, workerCount)
	for i := range workers {
		workers[i] = NewUploadWorker(queue, cache, publisher, fileUploader, deleteWorker, notifier)
	}

	return &Coordinator{
		Dispatcher:    NewDispatcher(containerPath, queue, cache),
		UploadWorker:  workers[0],
		UploadWorkers: workers,
		DeleteWorker:  deleteWorker,
	}
}

// SetMetricsStore attaches store to every UploadWorker and the DeleteWorker
// for cumulative counters.
func (c *Coordinator) SetMetricsStore(store *MetricsStore) {
	for _, w := range c.UploadWorkers {
		w.SetMetricsStore(store)
	}
	c.DeleteWorker.SetMetricsStore(store)
}

// Run starts every UploadWorker and the DeleteWorker loop and blocks until
// ctx is cancelled and all have returned. The Dispatcher has no loop of its
// own - it runs inline in the broker's message-callback goroutine via
// OnMessage.
func (c *Coordinator) Run(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(len(c.UploadWorkers) + 1)

	for _, w := range c.UploadWorkers {
		w := w
		go func() {
			defer wg.Done()
			w.Run(ctx)
		}()
	}

	go func() {
		defer wg.Done()
		c.DeleteWorker.Run(ctx)
	}()

	wg.Wait()
}
