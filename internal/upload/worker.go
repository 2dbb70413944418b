package upload

import (
	"context"
	"time"

	"github.com/connectedcar/fileupload/pkg/errors"
	"github.com/connectedcar/fileupload/pkg/logging"
)

// UploadPollInterval is how long UploadWorker sleeps when the queue is empty
// before checking again.
const UploadPollInterval = 1 * time.Second

// URIWaitTimeout is the per-file deadline on waiting for a URI response
// before the file is marked unuploaded for this attempt.
const URIWaitTimeout = 120 * time.Second

// FileUploader is the narrow external collaborator the upload core invokes
// to move bytes: PUT the file at localPath to uri, returning whether it
// succeeded. Satisfied by *uploader.Uploader without this package importing
// the uploader package directly.
type FileUploader interface {
	Put(ctx context.Context, localPath, uri string) (bool, error)
}

// DeleteSubmitter is the narrow handle UploadWorker holds onto DeleteWorker:
// submit a finalized request for eventual cleanup. This is the one-directional
// ownership the design notes call for in place of UploadWorker holding a
// reference to the whole DeleteWorker.
type DeleteSubmitter interface {
	Submit(req *ProcessRequest)
}

// UploadWorker drains UploadQueue, obtaining URIs and uploading files for
// each request until it is finalized (all files uploaded, expired, or out of
// retries) or retried.
type UploadWorker struct {
	queue     *UploadQueue
	cache     *URICache
	publisher Publisher
	uploader  FileUploader
	deleter   DeleteSubmitter
	notifier  *Notifier
	metrics   *MetricsStore

	uriWaitTimeout time.Duration
}

// SetMetricsStore attaches a MetricsStore for cumulative counters. Optional;
// a nil store (the default) disables metrics recording.
func (w *UploadWorker) SetMetricsStore(store *MetricsStore) {
	w.metrics = store
}

// SetURIWaitTimeout overrides the per-file URI wait deadline. Intended for
// tests that need attemptFile to time out faster than the spec's 120s
// default.
func (w *UploadWorker) SetURIWaitTimeout(d time.Duration) {
	w.uriWaitTimeout = d
}

// NewUploadWorker wires an UploadWorker's collaborators.
func NewUploadWorker(queue *UploadQueue, cache *URICache, publisher Publisher, uploader FileUploader, deleter DeleteSubmitter, notifier *Notifier) *UploadWorker {
	return &UploadWorker{
		queue:          queue,
		cache:          cache,
		publisher:      publisher,
		uploader:       uploader,
		deleter:        deleter,
		notifier:       notifier,
		uriWaitTimeout: URIWaitTimeout,
	}
}

// Run is the worker's main loop: dequeue one request, process it fully, then
// repeat. It returns when ctx is cancelled, observed at iteration boundaries
// only - an in-flight upload is allowed to finish or fail naturally.
func (w *UploadWorker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		req, ok := w.queue.Pop()
		if !ok {
			select {
			case <-ctx.Done():
				return
			case <-time.After(UploadPollInterval):
			}
			continue
		}

		w.processRequest(ctx, req)
	}
}

// processRequest implements §4.3's per-request processing followed by
// ValidateUploadState.
func (w *UploadWorker) processRequest(ctx context.Context, req *ProcessRequest) {
	req.AggregateResult = true

	for _, fileName := range req.Request.FileList {
		if ctx.Err() != nil {
			return
		}

		result := req.PerFileResults[fileName]
		if req.HasExpired(time.Now()) || result.Uploaded {
			// Expired or already uploaded: skip without touching
			// AggregateResult - finalization relies on the expiry test
			// directly for these requests.
			continue
		}

		uploaded := w.attemptFile(ctx, req, fileName)
		result.Uploaded = uploaded
		if uploaded {
			req.LastUploadTime = time.Now()
		}
		req.AggregateResult = req.AggregateResult && uploaded
	}

	w.validateUploadState(ctx, req)
}

// attemptFile requests a URI, waits for it to arrive, and invokes the
// uploader. It never returns an error - a missing URI or upload failure
// simply yields uploaded=false, per the core's per-file error policy.
func (w *UploadWorker) attemptFile(ctx context.Context, req *ProcessRequest, fileName string) bool {
	blobPath := req.BlobPath(fileName)

	if err := w.publisher.Publish(ctx, "RequestBlobUri", "ArbitraryToCloud", blobPath, req.CorrelationID); err != nil {
		logging.LogErrorAsWarn(err, "publishing URI request", "correlation_id", req.CorrelationID, "file_name", fileName)
		errors.MonitorError(err)
	}

	uri, ok := w.cache.WaitFor(ctx, fileName, w.uriWaitTimeout)
	if !ok {
		logging.Warn().Str("correlation_id", req.CorrelationID).Str("file_name", fileName).Msg("timed out waiting for blob uri")
		return false
	}

	localPath := req.LocalPath(fileName)
	uploaded, err := w.uploader.Put(ctx, localPath, uri)
	if err != nil {
		logging.LogErrorAsWarn(err, "upload attempt failed", "correlation_id", req.CorrelationID, "file_name", fileName)
		errors.MonitorError(err)
		return false
	}
	return uploaded
}

// validateUploadState decides whether req is finalized (notify + hand off to
// DeleteWorker) or retried (decrement retries_remaining, re-enqueue).
func (w *UploadWorker) validateUploadState(ctx context.Context, req *ProcessRequest) {
	expired := req.HasExpired(time.Now())

	if req.AggregateResult || expired || req.RetriesRemaining <= 0 {
		w.notifier.Notify(ctx, req)
		w.recordFinalizeMetrics(req)
		w.deleter.Submit(req)
		return
	}

	req.RetriesRemaining--
	w.queue.Push(req)
}

// recordFinalizeMetrics updates cumulative counters for a finalized request.
// Failures here are logged, never fatal - metrics are operational visibility,
// not correctness state.
func (w *UploadWorker) recordFinalizeMetrics(req *ProcessRequest) {
	if w.metrics == nil {
		return
	}

	if err := w.metrics.RecordFinalized(req.AggregateResult); err != nil {
		logging.LogErrorAsWarn(err, "recording finalize metric", "correlation_id", req.CorrelationID)
	}

	uploadedCount := 0
	for _, result := range req.PerFileResults {
		if result.Uploaded {
			uploadedCount++
		}
	}
	if uploadedCount > 0 {
		if err := w.metrics.RecordFilesUploaded(uploadedCount); err != nil {
			logging.LogErrorAsWarn(err, "recording files-uploaded metric", "correlation_id", req.CorrelationID)
		}
	}
}
