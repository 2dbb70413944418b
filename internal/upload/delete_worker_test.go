package upload

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("data"), 0644))
	return path
}

func TestUT_DW_01_01_Submit_NoRetentionExpiry_DeletesImmediately(t *testing.T) {
	dir := t.TempDir()
	writeTempFile(t, dir, "a.bin")

	req := NewProcessRequest(Request{
		UploadID: "u1",
		FileList: []string{"a.bin"},
	}, dir, "corr-1")

	worker := NewDeleteWorker()
	worker.Submit(req)

	assert.Equal(t, 0, worker.queue.len())
	_, err := os.Stat(filepath.Join(dir, "a.bin"))
	assert.True(t, os.IsNotExist(err))
}

func TestUT_DW_01_02_Submit_RetentionAlreadyElapsed_DeletesImmediately(t *testing.T) {
	dir := t.TempDir()
	writeTempFile(t, dir, "a.bin")

	req := NewProcessRequest(Request{
		UploadID:            "u1",
		FileList:            []string{"a.bin"},
		FileRetentionExpiry: time.Now().Add(-time.Second),
	}, dir, "corr-1")

	worker := NewDeleteWorker()
	worker.Submit(req)

	assert.Equal(t, 0, worker.queue.len())
	_, err := os.Stat(filepath.Join(dir, "a.bin"))
	assert.True(t, os.IsNotExist(err))
}

func TestUT_DW_01_03_Submit_FutureRetention_EnqueuesWithoutDeleting(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, dir, "a.bin")

	req := NewProcessRequest(Request{
		UploadID:            "u1",
		FileList:            []string{"a.bin"},
		FileRetentionExpiry: time.Now().Add(time.Hour),
	}, dir, "corr-1")

	worker := NewDeleteWorker()
	worker.Submit(req)

	assert.Equal(t, 1, worker.queue.len())
	_, err := os.Stat(path)
	assert.NoError(t, err, "file must still exist while retention has not elapsed")
}

func TestUT_DW_02_01_Tick_RetentionNotYetExpired_ReenqueuesToTail(t *testing.T) {
	dir := t.TempDir()
	writeTempFile(t, dir, "a.bin")

	req := NewProcessRequest(Request{
		UploadID:            "u1",
		FileList:            []string{"a.bin"},
		FileRetentionExpiry: time.Now().Add(time.Hour),
	}, dir, "corr-1")

	worker := NewDeleteWorker()
	worker.queue.pushBack(req)

	worker.tick()

	assert.Equal(t, 1, worker.queue.len(), "request should be re-enqueued, not dropped")
}

func TestUT_DW_02_02_Tick_RetentionExpired_DeletesAndDrainsQueue(t *testing.T) {
	dir := t.TempDir()
	writeTempFile(t, dir, "a.bin")

	req := NewProcessRequest(Request{
		UploadID:            "u1",
		FileList:            []string{"a.bin"},
		FileRetentionExpiry: time.Now().Add(10 * time.Millisecond),
	}, dir, "corr-1")

	worker := NewDeleteWorker()
	worker.queue.pushBack(req)

	time.Sleep(20 * time.Millisecond)
	worker.tick()

	assert.Equal(t, 0, worker.queue.len())
	_, err := os.Stat(filepath.Join(dir, "a.bin"))
	assert.True(t, os.IsNotExist(err))
}

func TestUT_DW_03_01_DeleteFiles_MissingFile_SkipsWithoutError(t *testing.T) {
	dir := t.TempDir()

	req := NewProcessRequest(Request{
		UploadID: "u1",
		FileList: []string{"never-existed.bin"},
	}, dir, "corr-1")

	worker := NewDeleteWorker()
	assert.NotPanics(t, func() {
		worker.deleteFiles(req)
	})
}
