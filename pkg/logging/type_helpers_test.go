package logging

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTypeLogger(t *testing.T) {
	tests := []struct {
		name         string
		value        interface{}
		expectedType string
	}{
		{"bool", true, "logging.boolLogger"},
		{"int", 42, "logging.intLogger"},
		{"int8", int8(42), "logging.int8Logger"},
		{"int16", int16(42), "logging.int16Logger"},
		{"int32", int32(42), "logging.int32Logger"},
		{"int64", int64(42), "logging.int64Logger"},
		{"uint", uint(42), "logging.uintLogger"},
		{"uint8", uint8(42), "logging.uint8Logger"},
		{"uint16", uint16(42), "logging.uint16Logger"},
		{"uint32", uint32(42), "logging.uint32Logger"},
		{"uint64", uint64(42), "logging.uint64Logger"},
		{"float32", float32(42.5), "logging.float32Logger"},
		{"float64", float64(42.5), "logging.float64Logger"},
		{"string", "test", "logging.stringLogger"},
		{"time.Time", time.Now(), "logging.timeLogger"},
		{"[]byte", []byte("test"), "logging.byteSliceLogger"},
		{"[]string", []string{"test"}, "logging.stringSliceLogger"},
		{"interface{}", struct{}{}, "logging.interfaceLogger"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := getTypeLogger(reflect.TypeOf(tt.value))
			loggerType := reflect.TypeOf(logger).String()
			assert.Equal(t, tt.expectedType, loggerType)
		})
	}
}

func TestLogReturn_DoesNotPanicForPrimitiveTypes(t *testing.T) {
	require.NotPanics(t, func() {
		event := Debug()
		LogReturn(event, 0, 42)
		LogReturn(event, 1, "correlation-id")
		LogReturn(event, 2, []byte("blob"))
	})
}

func TestLogParam_DoesNotPanicForNilValue(t *testing.T) {
	require.NotPanics(t, func() {
		event := Debug()
		LogParam(event, 0, nil)
	})
}

func TestPtrLogger_DereferencesSpecialType(t *testing.T) {
	now := time.Now()
	logger := getTypeLogger(reflect.TypeOf(&now))
	require.IsType(t, ptrLogger{}, logger)
}
