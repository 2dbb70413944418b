package upload

import (
	"encoding/json"

	"github.com/connectedcar/fileupload/pkg/logging"
)

// arbitraryToDevicePayload is the decoded body of an ArbitraryToDevice
// message: an asynchronous URI-response delivery.
type arbitraryToDevicePayload struct {
	RequestedFileName string `json:"requested_file_name"`
	BlobSasURI        string `json:"blob_sas_uri"`
}

// Dispatcher decodes inbound broker envelopes and routes them to the
// UploadQueue or URICache. It never blocks on worker progress - it returns
// immediately after enqueueing.
type Dispatcher struct {
	containerPath string
	queue         *UploadQueue
	cache         *URICache
}

// NewDispatcher returns a Dispatcher that snapshots containerPath onto every
// ProcessRequest it constructs.
func NewDispatcher(containerPath string, queue *UploadQueue, cache *URICache) *Dispatcher {
	return &Dispatcher{containerPath: containerPath, queue: queue, cache: cache}
}

// OnMessage is the Dispatcher's broker-callback entry point. payload is the
// still-encoded envelope body; correlationID is copied from the broker
// message's correlation metadata. Decode failures are logged and dropped.
func (d *Dispatcher) OnMessage(messageType, payload, correlationID string) {
	switch messageType {
	case "FileUploadRequest":
		d.handleUploadRequest(payload, correlationID)
	case "ArbitraryToDevice":
		d.handleURIResponse(payload, correlationID)
	default:
		logging.Warn().Str("message_type", messageType).Str("correlation_id", correlationID).
			Msg("dropping broker message with unrecognized message_type")
	}
}

func (d *Dispatcher) handleUploadRequest(payload, correlationID string) {
	var req Request
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		logging.LogErrorAsWarn(err, "discarding malformed FileUploadRequest", "correlation_id", correlationID)
		return
	}

	process := NewProcessRequest(req, d.containerPath, correlationID)
	d.queue.Push(process)

	logging.Info().
		Str("correlation_id", correlationID).
		Str("upload_id", req.UploadID).
		Int("file_count", len(req.FileList)).
		Int("priority", req.Priority).
		Msg("upload request enqueued")
}

func (d *Dispatcher) handleURIResponse(payload, correlationID string) {
	var body arbitraryToDevicePayload
	if err := json.Unmarshal([]byte(payload), &body); err != nil {
		logging.LogErrorAsWarn(err, "discarding malformed ArbitraryToDevice payload", "correlation_id", correlationID)
		return
	}

	d.cache.Put(body.RequestedFileName, body.BlobSasURI, correlationID)
}
