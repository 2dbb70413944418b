package upload

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePublisher records every publish call; it never fails.
type fakePublisher struct {
	mu       sync.Mutex
	messages []publishedMessage
}

type publishedMessage struct {
	topic, messageType, body, correlationID string
}

func (p *fakePublisher) Publish(_ context.Context, topic, messageType, body, correlationID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, publishedMessage{topic, messageType, body, correlationID})
	return nil
}

func (p *fakePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.messages)
}

// fakeUploader returns a scripted result per file name.
type fakeUploader struct {
	mu      sync.Mutex
	results map[string]bool
	calls   map[string]int
}

func newFakeUploader(results map[string]bool) *fakeUploader {
	return &fakeUploader{results: results, calls: make(map[string]int)}
}

func (u *fakeUploader) Put(_ context.Context, localPath, _ string) (bool, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.calls[localPath]++
	return u.results[localPath], nil
}

func (u *fakeUploader) callCount(localPath string) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.calls[localPath]
}

// fakeDeleteSubmitter records Submit calls instead of running a real
// DeleteWorker - this is exactly the trivial test double the design notes'
// one-directional-ownership reformulation is meant to enable.
type fakeDeleteSubmitter struct {
	mu       sync.Mutex
	submits  []*ProcessRequest
}

func (d *fakeDeleteSubmitter) Submit(req *ProcessRequest) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.submits = append(d.submits, req)
}

func (d *fakeDeleteSubmitter) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.submits)
}

func TestUT_UW_01_01_ProcessRequest_HappyPath_FinalizesWithAggregateTrue(t *testing.T) {
	queue := NewUploadQueue()
	cache := NewURICache()
	publisher := &fakePublisher{}
	deleter := &fakeDeleteSubmitter{}

	req := NewProcessRequest(Request{
		UploadID:         "u1",
		FileList:         []string{"a.bin"},
		Priority:         5,
		TimeToLiveExpiry: time.Now().Add(10 * time.Minute),
	}, "/data", "corr-1")

	uploader := newFakeUploader(map[string]bool{"/data/a.bin": true})
	worker := NewUploadWorker(queue, cache, publisher, uploader, deleter, NewNotifier(publisher))
	cache.SetPollInterval(5 * time.Millisecond)
	worker.SetURIWaitTimeout(50 * time.Millisecond)

	cache.Put("a.bin", "https://x/put/a", "corr-1")

	worker.processRequest(context.Background(), req)

	assert.True(t, req.AggregateResult)
	assert.True(t, req.PerFileResults["a.bin"].Uploaded)
	assert.Equal(t, 1, deleter.count())

	notifications := 0
	for _, msg := range publisher.messages {
		if msg.topic == topicFileUploadNotification {
			notifications++
		}
	}
	assert.Equal(t, 1, notifications, "exactly one notification should be published")
}

func TestUT_UW_01_02_ProcessRequest_URIMissing_RetriesThenFinalizesFalse(t *testing.T) {
	queue := NewUploadQueue()
	cache := NewURICache()
	publisher := &fakePublisher{}
	deleter := &fakeDeleteSubmitter{}
	uploader := newFakeUploader(map[string]bool{})

	req := NewProcessRequest(Request{
		UploadID:         "u2",
		FileList:         []string{"a.bin"},
		Priority:         5,
		TimeToLiveExpiry: time.Now().Add(10 * time.Minute),
	}, "/data", "corr-2")
	require.Equal(t, InitialRetries, req.RetriesRemaining)

	worker := NewUploadWorker(queue, cache, publisher, uploader, deleter, NewNotifier(publisher))

	// Simulate repeated failed per-file loops: AggregateResult stays false,
	// as processRequest would leave it with no URI ever delivered.
	req.AggregateResult = false

	// validateUploadState must retry InitialRetries times without
	// finalizing, each time decrementing retries_remaining...
	for i := 0; i < InitialRetries; i++ {
		worker.validateUploadState(context.Background(), req)
		assert.Equal(t, 0, deleter.count())
	}
	assert.Equal(t, 0, req.RetriesRemaining)

	// ...then finalize on the attempt that would decrement it below zero.
	worker.validateUploadState(context.Background(), req)
	assert.Equal(t, 0, req.RetriesRemaining)
	assert.Equal(t, 1, deleter.count())
}

func TestUT_UW_01_03_ProcessRequest_PartialSuccess_SkipsAlreadyUploadedOnRetry(t *testing.T) {
	queue := NewUploadQueue()
	cache := NewURICache()
	publisher := &fakePublisher{}
	deleter := &fakeDeleteSubmitter{}

	req := NewProcessRequest(Request{
		UploadID:         "u3",
		FileList:         []string{"first.bin", "second.bin"},
		Priority:         5,
		TimeToLiveExpiry: time.Now().Add(10 * time.Minute),
	}, "/data", "corr-3")

	uploader := newFakeUploader(map[string]bool{"/data/first.bin": true})
	worker := NewUploadWorker(queue, cache, publisher, uploader, deleter, NewNotifier(publisher))
	cache.SetPollInterval(5 * time.Millisecond)
	worker.SetURIWaitTimeout(50 * time.Millisecond)

	cache.Put("first.bin", "https://x/put/first", "corr-3")
	// second.bin's URI is never delivered -> times out.

	worker.processRequest(context.Background(), req)

	assert.False(t, req.AggregateResult)
	assert.True(t, req.PerFileResults["first.bin"].Uploaded)
	assert.False(t, req.PerFileResults["second.bin"].Uploaded)
	assert.Equal(t, InitialRetries-1, req.RetriesRemaining)
	assert.Equal(t, 0, deleter.count(), "partial failure with retries left must not finalize yet")

	// Re-processing must not re-upload the already-succeeded file.
	cache.Put("second.bin", "https://x/put/second", "corr-3")
	uploader.results["/data/second.bin"] = true
	worker.processRequest(context.Background(), req)

	assert.Equal(t, 1, uploader.callCount("/data/first.bin"), "already-uploaded file must not be re-uploaded")
	assert.True(t, req.AggregateResult)
	assert.Equal(t, 1, deleter.count())
}

func TestUT_UW_01_05_ProcessRequest_ExpiresMidLoop_SkipsFilesAfterTTLCrossed(t *testing.T) {
	queue := NewUploadQueue()
	cache := NewURICache()
	publisher := &fakePublisher{}
	deleter := &fakeDeleteSubmitter{}
	uploader := newFakeUploader(map[string]bool{}) // no URI ever delivered for any file

	req := NewProcessRequest(Request{
		UploadID:         "u5",
		FileList:         []string{"a.bin", "b.bin", "c.bin"},
		Priority:         5,
		TimeToLiveExpiry: time.Now().Add(100 * time.Millisecond), // not expired at enqueue
	}, "/data", "corr-5")

	worker := NewUploadWorker(queue, cache, publisher, uploader, deleter, NewNotifier(publisher))
	cache.SetPollInterval(5 * time.Millisecond)
	// Each per-file URI wait burns most of the TTL budget, so expiry is
	// crossed partway through the file list rather than at enqueue time.
	worker.SetURIWaitTimeout(60 * time.Millisecond)

	worker.processRequest(context.Background(), req)

	uriRequests := 0
	for _, msg := range publisher.messages {
		if msg.topic == "RequestBlobUri" {
			uriRequests++
		}
	}
	assert.Less(t, uriRequests, 3, "expiry crossed mid-loop must skip at least one remaining file's URI request")
	assert.Greater(t, uriRequests, 0, "files before the TTL crossing must still be attempted")
	assert.True(t, req.HasExpired(time.Now()))
	assert.False(t, req.AggregateResult, "the attempted-but-undelivered files before the TTL crossing still fail the aggregate")
	assert.Equal(t, 1, deleter.count(), "expiry must still finalize the request")
}

func TestUT_UW_01_04_ProcessRequest_Expired_SkipsRemainingAndFinalizes(t *testing.T) {
	queue := NewUploadQueue()
	cache := NewURICache()
	publisher := &fakePublisher{}
	deleter := &fakeDeleteSubmitter{}
	uploader := newFakeUploader(map[string]bool{})

	req := NewProcessRequest(Request{
		UploadID:         "u4",
		FileList:         []string{"a.bin"},
		Priority:         5,
		TimeToLiveExpiry: time.Now().Add(-1 * time.Second), // already expired
	}, "/data", "corr-4")

	worker := NewUploadWorker(queue, cache, publisher, uploader, deleter, NewNotifier(publisher))
	worker.processRequest(context.Background(), req)

	// Expired files are skipped without flipping AggregateResult, but
	// finalization must still occur via the expiry branch.
	assert.True(t, req.AggregateResult, "skip-on-expired must not flip aggregate_result")
	assert.Equal(t, InitialRetries, req.RetriesRemaining, "expiry finalizes without consuming a retry")
	assert.Equal(t, 1, deleter.count())
}
