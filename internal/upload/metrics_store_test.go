package upload

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUT_MS_01_01_RecordFinalized_AccumulatesAcrossCalls(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.db")
	store, err := OpenMetricsStore(path)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.RecordFinalized(true))
	require.NoError(t, store.RecordFinalized(true))
	require.NoError(t, store.RecordFinalized(false))

	snapshot, err := store.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), snapshot[counterFinalizedSuccess])
	assert.Equal(t, uint64(1), snapshot[counterFinalizedFailure])
}

func TestUT_MS_01_02_RecordFilesUploadedAndDeleted_Accumulate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.db")
	store, err := OpenMetricsStore(path)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.RecordFilesUploaded(3))
	require.NoError(t, store.RecordFilesUploaded(2))
	require.NoError(t, store.RecordFilesDeleted(1))

	snapshot, err := store.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, uint64(5), snapshot[counterFilesUploaded])
	assert.Equal(t, uint64(1), snapshot[counterFilesDeleted])
}

func TestUT_MS_02_01_OpenMetricsStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.db")

	store, err := OpenMetricsStore(path)
	require.NoError(t, err)
	require.NoError(t, store.RecordFilesUploaded(7))
	require.NoError(t, store.Close())

	reopened, err := OpenMetricsStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	snapshot, err := reopened.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, uint64(7), snapshot[counterFilesUploaded])
}
