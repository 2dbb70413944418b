// Package logging provides standardized logging utilities for the file upload agent.
// This file provides utilities for generating and managing correlation ids.
//
// A correlation id ties every log line, broker message, and notification for a single
// upload request together. It arrives in the inbound broker envelope and the upload
// core only ever propagates it; GenerateCorrelationID is for a local operation that
// needs one of its own.
//
// This file is part of the consolidated logging package structure, which includes:
//   - logger.go: Core logger implementation and level management
//   - context.go: Context-aware logging functionality
//   - method.go: Method entry/exit logging (both with and without context)
//   - error.go: Error logging functionality
//   - performance.go: Performance optimization utilities
//   - constants.go: Constants used throughout the logging package
//   - correlation_id.go (this file): Utilities for generating and managing correlation ids
package logging

import (
	"fmt"
	"math/rand"
	"os/user"
	"sync/atomic"
	"time"
)

// Counter for generating unique correlation ids
var correlationIDCounter uint64

// GenerateCorrelationID generates a unique correlation id.
// Format: <timestamp>-<counter>-<random>
func GenerateCorrelationID() string {
	timestamp := time.Now().UnixNano() / int64(time.Millisecond)
	counter := atomic.AddUint64(&correlationIDCounter, 1)
	random := rand.Intn(10000)
	return fmt.Sprintf("%d-%d-%d", timestamp, counter, random)
}

// GetCurrentUserID returns the username of the current user.
// If the username cannot be determined, it returns "unknown".
func GetCurrentUserID() string {
	currentUser, err := user.Current()
	if err != nil {
		return "unknown"
	}
	return currentUser.Username
}

// NewLogContextWithCorrelationID creates a new LogContext with a freshly generated
// correlation id and the given operation.
func NewLogContextWithCorrelationID(operation string) LogContext {
	return NewLogContext(operation).WithCorrelationID(GenerateCorrelationID())
}
