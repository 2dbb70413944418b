package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProcessRequest(uploadID string, priority int) *ProcessRequest {
	return NewProcessRequest(Request{
		UploadID: uploadID,
		FileList: []string{"a.bin"},
		Priority: priority,
	}, "/data", "corr-"+uploadID)
}

func TestUT_UQ_01_01_Pop_OrdersByAscendingPriority(t *testing.T) {
	queue := NewUploadQueue()

	queue.Push(newTestProcessRequest("A", 10))
	queue.Push(newTestProcessRequest("B", 1))
	queue.Push(newTestProcessRequest("C", 5))

	first, ok := queue.Pop()
	require.True(t, ok)
	assert.Equal(t, "B", first.Request.UploadID)

	second, ok := queue.Pop()
	require.True(t, ok)
	assert.Equal(t, "C", second.Request.UploadID)

	third, ok := queue.Pop()
	require.True(t, ok)
	assert.Equal(t, "A", third.Request.UploadID)
}

func TestUT_UQ_01_02_Pop_EqualPriority_PreservesInsertionOrder(t *testing.T) {
	queue := NewUploadQueue()

	queue.Push(newTestProcessRequest("first", 5))
	queue.Push(newTestProcessRequest("second", 5))

	first, ok := queue.Pop()
	require.True(t, ok)
	assert.Equal(t, "first", first.Request.UploadID)

	second, ok := queue.Pop()
	require.True(t, ok)
	assert.Equal(t, "second", second.Request.UploadID)
}

func TestUT_UQ_02_01_Pop_EmptyQueue_ReturnsNotOk(t *testing.T) {
	queue := NewUploadQueue()
	_, ok := queue.Pop()
	assert.False(t, ok)
}

func TestUT_UQ_02_02_Len_TracksPushAndPop(t *testing.T) {
	queue := NewUploadQueue()
	assert.Equal(t, 0, queue.Len())

	queue.Push(newTestProcessRequest("A", 1))
	assert.Equal(t, 1, queue.Len())

	_, _ = queue.Pop()
	assert.Equal(t, 0, queue.Len())
}
