package upload

import (
	"context"
	"encoding/json"
	"time"

	"github.com/connectedcar/fileupload/pkg/logging"
)

// Publisher is the narrow broker capability the upload core depends on: an
// envelope publish with a correlation-id. Satisfied by *broker.Client without
// this package importing the broker package directly.
type Publisher interface {
	Publish(ctx context.Context, topic, messageType, body, correlationID string) error
}

// fileResultRecord is the wire shape of one entry in a notification's
// upload_file_list, preserving file-list order.
type fileResultRecord struct {
	FileName string `json:"file_name"`
	Uploaded bool   `json:"uploaded"`
}

// notification is the wire shape published on FileUploadNotification.
type notification struct {
	UploadID       string             `json:"upload_id"`
	Metadata       string             `json:"metadata"`
	UploadResult   bool               `json:"upload_result"`
	UploadFileList []fileResultRecord `json:"upload_file_list"`
	LastUploadTime string             `json:"last_upload_time"`
}

// Notifier publishes FileUploadNotification completion messages back to the
// broker.
type Notifier struct {
	publisher Publisher
}

// NewNotifier returns a Notifier publishing through publisher.
func NewNotifier(publisher Publisher) *Notifier {
	return &Notifier{publisher: publisher}
}

const topicFileUploadNotification = "FileUploadNotification"
const messageTypeFileUploadNotification = "FileUploadNotification"

// Notify builds and publishes the completion notification for req. Per the
// core's error policy, a publish failure is logged and swallowed - the
// at-least-once broker is expected to compensate, and no error escapes a
// worker's per-request scope.
func (n *Notifier) Notify(ctx context.Context, req *ProcessRequest) {
	list := make([]fileResultRecord, 0, len(req.Request.FileList))
	for _, name := range req.Request.FileList {
		result := req.PerFileResults[name]
		list = append(list, fileResultRecord{FileName: name, Uploaded: result != nil && result.Uploaded})
	}

	note := notification{
		UploadID:       req.Request.UploadID,
		Metadata:       req.Request.Metadata,
		UploadResult:   req.AggregateResult,
		UploadFileList: list,
		LastUploadTime: formatLastUploadTime(req.LastUploadTime),
	}

	body, err := json.Marshal(note)
	if err != nil {
		logging.LogErrorAsWarn(err, "encoding notification", "correlation_id", req.CorrelationID, "upload_id", req.Request.UploadID)
		return
	}

	if err := n.publisher.Publish(ctx, topicFileUploadNotification, messageTypeFileUploadNotification, string(body), req.CorrelationID); err != nil {
		logging.LogErrorAsWarn(err, "publishing upload notification", "correlation_id", req.CorrelationID, "upload_id", req.Request.UploadID)
		return
	}

	logging.Info().
		Str("correlation_id", req.CorrelationID).
		Str("upload_id", req.Request.UploadID).
		Bool("upload_result", req.AggregateResult).
		Msg("upload notification published")
}

func formatLastUploadTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
