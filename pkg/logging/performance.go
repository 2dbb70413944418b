// Package logging provides standardized logging utilities for the file
// upload agent.
// This file defines performance optimization utilities for logging.
//
// Performance is a critical consideration in logging, especially for high-throughput
// applications. This file provides utilities to optimize logging performance, including:
//
//   - Level checking functions to avoid expensive logging operations when not needed
//
// This file is part of the consolidated logging package structure, which includes:
//   - logger.go: Core logger implementation and level management
//   - context.go: Context-aware logging functionality
//   - method.go: Method entry/exit logging (both with and without context)
//   - error.go: Error logging functionality
//   - performance.go (this file): Performance optimization utilities
package logging

import (
	"github.com/rs/zerolog"
)

// IsLevelEnabled returns true if the specified log level is enabled
// This function is used to check if a specific log level is enabled before performing expensive operations
func IsLevelEnabled(level Level) bool {
	return zerolog.GlobalLevel() <= zerolog.Level(level)
}
