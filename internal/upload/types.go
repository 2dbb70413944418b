// Package upload implements the upload coordination core: a priority queue of
// in-flight upload requests, a bounded URI rendezvous cache, a deferred
// deletion queue, and the workers that drive requests through them.
package upload

import "time"

// Request is the inbound, immutable unit of work decoded from a
// FileUploadRequest broker message.
type Request struct {
	UploadID            string    `json:"upload_id"`
	FileList            []string  `json:"file_list"`
	Priority            int       `json:"priority"`
	TimeToLiveExpiry    time.Time `json:"time_to_live_expiry"`
	FileRetentionExpiry time.Time `json:"file_retention_expiry"`
	Metadata            string    `json:"metadata"`
}

// HasRetentionExpiry reports whether the request carries a retention
// deadline at all; a zero value means "delete immediately on finalization".
func (r *Request) HasRetentionExpiry() bool {
	return !r.FileRetentionExpiry.IsZero()
}

// FileResult is the per-file outcome tracked on a ProcessRequest.
type FileResult struct {
	Uploaded bool `json:"uploaded"`
}

// ProcessRequest wraps a Request with the mutable, in-core state tracked
// while it moves through UploadQueue and DeleteQueue. It is self-contained:
// ContainerPath is a snapshot taken at enqueue time and is never re-read from
// shared state afterward.
type ProcessRequest struct {
	Request Request

	// ContainerPath is the process-wide data-container path as it stood at
	// enqueue time.
	ContainerPath string

	// CorrelationID is copied verbatim from the inbound broker message and
	// propagated on every outbound message and log line for this request.
	CorrelationID string

	// PerFileResults holds one entry per file in Request.FileList, all
	// initially {Uploaded: false}.
	PerFileResults map[string]*FileResult

	// AggregateResult is reset to true at the start of each processing pass
	// and cleared by any file attempted in that pass that fails to upload.
	// Files skipped in the pass (already uploaded, or the request has
	// expired) leave it unchanged, so an expired request can carry true
	// while some files are not uploaded. validateUploadState reads it to
	// choose between finalizing and retrying.
	AggregateResult bool

	// RetriesRemaining starts at 3 and is decremented only on a non-terminal
	// partial failure.
	RetriesRemaining int

	// LastUploadTime is the wall-clock instant of the most recent successful
	// per-file upload within this request. It is a notification field only.
	LastUploadTime time.Time
}

// InitialRetries is the retry budget a freshly-enqueued ProcessRequest starts
// with.
const InitialRetries = 3

// NewProcessRequest builds a ProcessRequest from an inbound Request, snapshotting
// containerPath and seeding per-file result tracking.
func NewProcessRequest(req Request, containerPath, correlationID string) *ProcessRequest {
	results := make(map[string]*FileResult, len(req.FileList))
	for _, name := range req.FileList {
		results[name] = &FileResult{Uploaded: false}
	}

	return &ProcessRequest{
		Request:          req,
		ContainerPath:    containerPath,
		CorrelationID:    correlationID,
		PerFileResults:   results,
		AggregateResult:  true,
		RetriesRemaining: InitialRetries,
	}
}

// HasExpired reports whether the request's time-to-live deadline has passed
// as of now.
func (p *ProcessRequest) HasExpired(now time.Time) bool {
	return !now.Before(p.Request.TimeToLiveExpiry)
}

// LocalPath joins the request's container path with a file name to produce
// the on-disk path read for upload or removed for deletion.
func (p *ProcessRequest) LocalPath(fileName string) string {
	return p.ContainerPath + "/" + fileName
}

// BlobPath is the destination-relative path requested from the URI broker
// for a given file: upload_id/file_name.
func (p *ProcessRequest) BlobPath(fileName string) string {
	return p.Request.UploadID + "/" + fileName
}
