package upload

import (
	"context"
	"os"
	"time"

	"github.com/connectedcar/fileupload/pkg/errors"
	"github.com/connectedcar/fileupload/pkg/logging"
)

// DeletePollInterval is how often DeleteWorker re-examines its queue head.
const DeletePollInterval = 30 * time.Second

// DeleteWorker holds finalized requests until their retention window
// elapses, then removes their local files. It owns a FIFO queue shared only
// with UploadWorker's Submit calls.
type DeleteWorker struct {
	queue   *deleteQueue
	metrics *MetricsStore
}

// NewDeleteWorker returns an empty, ready-to-run DeleteWorker.
func NewDeleteWorker() *DeleteWorker {
	return &DeleteWorker{queue: newDeleteQueue()}
}

// SetMetricsStore attaches a MetricsStore for cumulative counters. Optional;
// a nil store (the default) disables metrics recording.
func (d *DeleteWorker) SetMetricsStore(store *MetricsStore) {
	d.metrics = store
}

// Submit admits a finalized request for cleanup. If it has no retention
// deadline, or the deadline has already passed, its files are deleted
// immediately and it is never enqueued.
func (d *DeleteWorker) Submit(req *ProcessRequest) {
	if !req.Request.HasRetentionExpiry() || !time.Now().Before(req.Request.FileRetentionExpiry) {
		d.deleteFiles(req)
		return
	}
	d.queue.pushBack(req)
}

// Run is the worker's main loop: pop the queue head, delete its files if
// retention has now expired, otherwise push it back to the tail and wait for
// the next tick.
func (d *DeleteWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(DeletePollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.tick()
		}
	}
}

func (d *DeleteWorker) tick() {
	req, ok := d.queue.popFront()
	if !ok {
		return
	}

	if !time.Now().Before(req.Request.FileRetentionExpiry) {
		d.deleteFiles(req)
		return
	}

	// Retention not yet expired: a single-item queue busy-waits by
	// re-enqueuing until it elapses, at one check per tick.
	d.queue.pushBack(req)
}

// deleteFiles removes every file in req's file list under its snapshotted
// container path. Deletion errors are never fatal and are not reported back
// to the cloud - they are logged and the remaining files are still attempted.
func (d *DeleteWorker) deleteFiles(req *ProcessRequest) {
	deleted := 0

	for _, fileName := range req.Request.FileList {
		localPath := req.LocalPath(fileName)

		if _, err := os.Stat(localPath); os.IsNotExist(err) {
			logging.Debug().Str("correlation_id", req.CorrelationID).Str("path", localPath).Msg("skipping delete, file already absent")
			continue
		}

		if err := os.Remove(localPath); err != nil {
			wrapped := errors.NewOperationError("deleting local file", err)
			logging.LogErrorAsWarn(wrapped, "deleting local file", "correlation_id", req.CorrelationID, "path", localPath)
			errors.MonitorError(wrapped)
			continue
		}

		logging.Info().Str("correlation_id", req.CorrelationID).Str("path", localPath).Msg("local file deleted")
		deleted++
	}

	if deleted > 0 && d.metrics != nil {
		if err := d.metrics.RecordFilesDeleted(deleted); err != nil {
			logging.LogErrorAsWarn(err, "recording files-deleted metric", "correlation_id", req.CorrelationID)
		}
	}
}
