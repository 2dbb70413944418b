// Package errors provides error handling utilities for the file upload agent.
package errors

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrorMetrics tracks error counts and rates by classification, for operational
// visibility into broker/upload/delete failures. It never drives retry decisions -
// the fixed retries_remaining policy in internal/upload owns that.
type ErrorMetrics struct {
	ErrorCounts            map[string]int
	NetworkErrorCount      int
	NotFoundErrorCount     int
	ValidationErrorCount   int
	OperationErrorCount    int
	ResourceBusyErrorCount int
	LastErrorTime          map[string]time.Time
	ErrorRates             map[string]float64

	mu sync.RWMutex
}

var (
	globalMetrics     *ErrorMetrics
	globalMetricsOnce sync.Once
)

// GetErrorMetrics returns the global error metrics instance
func GetErrorMetrics() *ErrorMetrics {
	globalMetricsOnce.Do(func() {
		globalMetrics = &ErrorMetrics{
			ErrorCounts:   make(map[string]int),
			LastErrorTime: make(map[string]time.Time),
			ErrorRates:    make(map[string]float64),
		}
		go globalMetrics.monitorErrorRates()
	})
	return globalMetrics
}

// RecordError classifies err and updates the corresponding counters.
func (m *ErrorMetrics) RecordError(err error) {
	if err == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	errorType := "unknown"
	switch {
	case IsNetworkError(err):
		errorType = "network"
		m.NetworkErrorCount++
	case IsNotFoundError(err):
		errorType = "not_found"
		m.NotFoundErrorCount++
	case IsValidationError(err):
		errorType = "validation"
		m.ValidationErrorCount++
	case IsOperationError(err):
		errorType = "operation"
		m.OperationErrorCount++
	case IsResourceBusyError(err):
		errorType = "resource_busy"
		m.ResourceBusyErrorCount++
	}

	m.ErrorCounts[errorType]++
	m.LastErrorTime[errorType] = time.Now()
}

func (m *ErrorMetrics) monitorErrorRates() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		m.calculateErrorRates()
		m.logErrorMetrics()
	}
}

func (m *ErrorMetrics) calculateErrorRates() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for errorType, lastTime := range m.LastErrorTime {
		count := m.ErrorCounts[errorType]
		duration := now.Sub(lastTime).Minutes()
		if duration > 0 && count > 0 {
			m.ErrorRates[errorType] = float64(count) / duration
		}
	}
}

func (m *ErrorMetrics) logErrorMetrics() {
	m.mu.RLock()
	defer m.mu.RUnlock()

	log.Info().
		Int("total_errors", sumMapValues(m.ErrorCounts)).
		Int("network_errors", m.NetworkErrorCount).
		Int("not_found_errors", m.NotFoundErrorCount).
		Int("validation_errors", m.ValidationErrorCount).
		Int("operation_errors", m.OperationErrorCount).
		Int("resource_busy_errors", m.ResourceBusyErrorCount).
		Msg("error metrics summary")

	for errorType, rate := range m.ErrorRates {
		log.Info().
			Str("error_type", errorType).
			Float64("errors_per_minute", rate).
			Msg("error rate")
	}
}

// GetMetrics returns a snapshot of the current error metrics.
func (m *ErrorMetrics) GetMetrics() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"error_counts":           m.ErrorCounts,
		"network_error_count":    m.NetworkErrorCount,
		"not_found_error_count":  m.NotFoundErrorCount,
		"validation_error_count": m.ValidationErrorCount,
		"operation_error_count":  m.OperationErrorCount,
		"resource_busy_count":    m.ResourceBusyErrorCount,
		"error_rates":            m.ErrorRates,
	}
}

// ResetMetrics clears all counters. Used by tests.
func (m *ErrorMetrics) ResetMetrics() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ErrorCounts = make(map[string]int)
	m.NetworkErrorCount = 0
	m.NotFoundErrorCount = 0
	m.ValidationErrorCount = 0
	m.OperationErrorCount = 0
	m.ResourceBusyErrorCount = 0
	m.LastErrorTime = make(map[string]time.Time)
	m.ErrorRates = make(map[string]float64)
}

func sumMapValues(m map[string]int) int {
	sum := 0
	for _, v := range m {
		sum += v
	}
	return sum
}

// MonitorError records err against the global metrics instance.
func MonitorError(err error) {
	if err == nil {
		return
	}
	GetErrorMetrics().RecordError(err)
}

// WrapAndMonitor wraps err with message, records it for monitoring, and returns the wrap.
func WrapAndMonitor(err error, message string) error {
	if err == nil {
		return nil
	}
	wrapped := Wrap(err, message)
	MonitorError(wrapped)
	return wrapped
}
