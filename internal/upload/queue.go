package upload

import (
	"container/heap"
	"sync"
)

// uploadHeapItem pairs a ProcessRequest with the sequence number it was
// pushed with, so that equal-priority items break ties in insertion order -
// an implementation detail the spec leaves unspecified but this package pins
// down for deterministic tests.
type uploadHeapItem struct {
	request *ProcessRequest
	seq     int
}

// uploadHeap is a container/heap.Interface over uploadHeapItem, ordered by
// ascending Request.Priority (lower numeric value = higher priority), with
// ties broken by insertion order.
type uploadHeap []*uploadHeapItem

func (h uploadHeap) Len() int { return len(h) }

func (h uploadHeap) Less(i, j int) bool {
	if h[i].request.Request.Priority != h[j].request.Request.Priority {
		return h[i].request.Request.Priority < h[j].request.Request.Priority
	}
	return h[i].seq < h[j].seq
}

func (h uploadHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *uploadHeap) Push(x interface{}) {
	*h = append(*h, x.(*uploadHeapItem))
}

func (h *uploadHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// UploadQueue is the priority-ordered queue of ProcessRequests shared between
// the Dispatcher (push) and UploadWorker (push-on-retry, pop). Push and pop
// are each atomic under a single mutex; no compound operation holds the lock
// across I/O.
type UploadQueue struct {
	mu   sync.Mutex
	heap uploadHeap
	seq  int
}

// NewUploadQueue returns an empty, ready-to-use UploadQueue.
func NewUploadQueue() *UploadQueue {
	q := &UploadQueue{}
	heap.Init(&q.heap)
	return q
}

// Push enqueues req, ordered by ascending priority.
func (q *UploadQueue) Push(req *ProcessRequest) {
	q.mu.Lock()
	defer q.mu.Unlock()

	heap.Push(&q.heap, &uploadHeapItem{request: req, seq: q.seq})
	q.seq++
}

// Pop removes and returns the highest-priority (lowest numeric value)
// ProcessRequest, or ok=false if the queue is empty.
func (q *UploadQueue) Pop() (req *ProcessRequest, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.heap.Len() == 0 {
		return nil, false
	}
	item := heap.Pop(&q.heap).(*uploadHeapItem)
	return item.request, true
}

// Len returns the current number of queued requests. Intended for tests and
// metrics only.
func (q *UploadQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.heap.Len()
}
