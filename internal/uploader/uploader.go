// Package uploader performs the HTTP PUT of a local file's bytes to a signed
// destination URI. It is the external collaborator the upload core invokes
// once a URI has been obtained from the broker.
package uploader

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/connectedcar/fileupload/internal/util"
	"github.com/connectedcar/fileupload/pkg/errors"
	"github.com/connectedcar/fileupload/pkg/logging"
)

// blobTypeHeader and its value are required by the signed-URI contract: the
// destination is an Azure-style block blob endpoint.
const (
	blobTypeHeader = "x-ms-blob-type"
	blobTypeValue  = "BlockBlob"
)

// Uploader performs blob PUT uploads, optionally bandwidth-throttled for
// in-vehicle connectivity.
type Uploader struct {
	httpClient *http.Client
	throttler  *util.BandwidthThrottler
}

// New returns an Uploader using httpClient for transport. If maxBytesPerSecond
// is 0, uploads are not throttled.
func New(httpClient *http.Client, maxBytesPerSecond int64) *Uploader {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Uploader{
		httpClient: httpClient,
		throttler:  util.NewBandwidthThrottler(maxBytesPerSecond),
	}
}

// Put uploads the file at localPath to uri via HTTP PUT, returning true on a
// 2xx response. A missing local file, a transport failure, or a non-2xx
// status is reported as (false, nil) per the core's "mark uploaded=false,
// continue" policy. err is non-nil only when the local file exists but cannot
// be opened or stat'ed, or when the request cannot be built from uri.
func (u *Uploader) Put(ctx context.Context, localPath, uri string) (bool, error) {
	methodName, startTime := logging.LogMethodEntry("Uploader.Put", localPath)
	var ok bool
	defer func() { logging.LogMethodExit(methodName, time.Since(startTime), ok) }()

	file, err := os.Open(localPath)
	if err != nil {
		if os.IsNotExist(err) {
			logging.LogErrorAsWarn(err, "local file missing at upload time", "path", localPath)
			return false, nil
		}
		return false, errors.NewOperationError("opening file for upload", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return false, errors.NewOperationError("stat'ing file for upload", err)
	}

	body := util.NewThrottledReader(ctx, file, u.throttler)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uri, body)
	if err != nil {
		return false, errors.NewValidationError("building upload request", err)
	}
	req.Header.Set(blobTypeHeader, blobTypeValue)
	req.ContentLength = info.Size()

	resp, err := u.httpClient.Do(req)
	if err != nil {
		logging.LogErrorAsWarn(err, "upload PUT failed", "path", localPath)
		return false, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logging.Warn().Str("path", localPath).Int("status", resp.StatusCode).Msg("upload PUT returned non-2xx status")
		return false, nil
	}

	ok = true
	return true, nil
}
