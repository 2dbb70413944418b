package upload

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUT_PR_01_01_NewProcessRequest_SeedsPerFileResultsFalse(t *testing.T) {
	req := NewProcessRequest(Request{
		UploadID: "u1",
		FileList: []string{"a.bin", "b.bin"},
		Priority: 5,
	}, "/data", "corr-1")

	assert.Len(t, req.PerFileResults, 2)
	assert.False(t, req.PerFileResults["a.bin"].Uploaded)
	assert.False(t, req.PerFileResults["b.bin"].Uploaded)
	assert.True(t, req.AggregateResult)
	assert.Equal(t, InitialRetries, req.RetriesRemaining)
}

func TestUT_PR_01_02_HasExpired_ComparesAgainstTimeToLive(t *testing.T) {
	req := NewProcessRequest(Request{
		UploadID:         "u1",
		FileList:         []string{"a.bin"},
		TimeToLiveExpiry: time.Now().Add(time.Hour),
	}, "/data", "corr-1")

	assert.False(t, req.HasExpired(time.Now()))
	assert.True(t, req.HasExpired(time.Now().Add(2*time.Hour)))
}

func TestUT_PR_01_03_LocalPathAndBlobPath_JoinContainerAndUploadID(t *testing.T) {
	req := NewProcessRequest(Request{
		UploadID: "u1",
		FileList: []string{"a.bin"},
	}, "/data", "corr-1")

	assert.Equal(t, "/data/a.bin", req.LocalPath("a.bin"))
	assert.Equal(t, "u1/a.bin", req.BlobPath("a.bin"))
}

func TestUT_RQ_01_01_HasRetentionExpiry_ZeroValueMeansAbsent(t *testing.T) {
	withoutRetention := Request{}
	assert.False(t, withoutRetention.HasRetentionExpiry())

	withRetention := Request{FileRetentionExpiry: time.Now()}
	assert.True(t, withRetention.HasRetentionExpiry())
}
