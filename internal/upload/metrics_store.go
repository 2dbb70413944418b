package upload

import (
	"encoding/binary"
	"time"

	"go.etcd.io/bbolt"

	"github.com/connectedcar/fileupload/pkg/errors"
)

// metricsBucket holds cumulative operational counters only - never queue
// state. A restart drops pending work by design (see Non-goals); this store
// exists purely so an operator can see "how many uploads has this device
// finalized, ever" across restarts.
var metricsBucket = []byte("upload_metrics")

// Counter keys within metricsBucket.
const (
	counterFinalizedSuccess = "finalized_success"
	counterFinalizedFailure = "finalized_failure"
	counterFilesUploaded    = "files_uploaded"
	counterFilesDeleted     = "files_deleted"
)

// MetricsStore persists cumulative upload/delete counters in a small bbolt
// database, surviving process restarts.
type MetricsStore struct {
	db *bbolt.DB
}

// OpenMetricsStore opens (creating if absent) a bbolt database at path for
// cumulative metrics.
func OpenMetricsStore(path string) (*MetricsStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, errors.NewOperationError("opening metrics store", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(metricsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.NewOperationError("initializing metrics store", err)
	}

	return &MetricsStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *MetricsStore) Close() error {
	return s.db.Close()
}

// RecordFinalized increments the finalized-request counter, split by whether
// the request's aggregate result was a success.
func (s *MetricsStore) RecordFinalized(success bool) error {
	key := counterFinalizedFailure
	if success {
		key = counterFinalizedSuccess
	}
	return s.increment(key, 1)
}

// RecordFilesUploaded adds n to the cumulative successfully-uploaded file
// count.
func (s *MetricsStore) RecordFilesUploaded(n int) error {
	return s.increment(counterFilesUploaded, n)
}

// RecordFilesDeleted adds n to the cumulative deleted-file count.
func (s *MetricsStore) RecordFilesDeleted(n int) error {
	return s.increment(counterFilesDeleted, n)
}

func (s *MetricsStore) increment(key string, n int) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(metricsBucket)
		current := decodeCounter(bucket.Get([]byte(key)))
		return bucket.Put([]byte(key), encodeCounter(current+uint64(n)))
	})
}

// Snapshot returns the current value of every known counter.
func (s *MetricsStore) Snapshot() (map[string]uint64, error) {
	result := make(map[string]uint64, 4)
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(metricsBucket)
		for _, key := range []string{counterFinalizedSuccess, counterFinalizedFailure, counterFilesUploaded, counterFilesDeleted} {
			result[key] = decodeCounter(bucket.Get([]byte(key)))
		}
		return nil
	})
	if err != nil {
		return nil, errors.NewOperationError("reading metrics snapshot", err)
	}
	return result, nil
}

func encodeCounter(v uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)
	return buf
}

func decodeCounter(b []byte) uint64 {
	if len(b) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(b)
}
