package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUT_DP_01_01_OnMessage_FileUploadRequest_PushesProcessRequest(t *testing.T) {
	queue := NewUploadQueue()
	cache := NewURICache()
	dispatcher := NewDispatcher("/data", queue, cache)

	payload := `{"upload_id":"u1","file_list":["a.bin"],"priority":5}`
	dispatcher.OnMessage("FileUploadRequest", payload, "corr-1")

	req, ok := queue.Pop()
	require.True(t, ok)
	assert.Equal(t, "u1", req.Request.UploadID)
	assert.Equal(t, "/data", req.ContainerPath)
	assert.Equal(t, "corr-1", req.CorrelationID)
}

func TestUT_DP_01_02_OnMessage_MalformedFileUploadRequest_DropsMessage(t *testing.T) {
	queue := NewUploadQueue()
	cache := NewURICache()
	dispatcher := NewDispatcher("/data", queue, cache)

	dispatcher.OnMessage("FileUploadRequest", "not json", "corr-1")

	assert.Equal(t, 0, queue.Len())
}

func TestUT_DP_02_01_OnMessage_ArbitraryToDevice_PutsURIInCache(t *testing.T) {
	queue := NewUploadQueue()
	cache := NewURICache()
	dispatcher := NewDispatcher("/data", queue, cache)

	payload := `{"requested_file_name":"a.bin","blob_sas_uri":"https://x/put/a"}`
	dispatcher.OnMessage("ArbitraryToDevice", payload, "corr-1")

	uri, ok := cache.Take("a.bin")
	require.True(t, ok)
	assert.Equal(t, "https://x/put/a", uri)
}

func TestUT_DP_03_01_OnMessage_UnknownMessageType_NoStateChange(t *testing.T) {
	queue := NewUploadQueue()
	cache := NewURICache()
	dispatcher := NewDispatcher("/data", queue, cache)

	dispatcher.OnMessage("SomethingElse", `{}`, "corr-1")

	assert.Equal(t, 0, queue.Len())
	assert.Equal(t, 0, cache.Size())
}
