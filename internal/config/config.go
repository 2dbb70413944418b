// Package config loads the file-upload agent's configuration from the
// environment, following the teacher's load -> merge-with-defaults ->
// validate pipeline, adapted from YAML-file loading to env-var loading
// since this agent is bootstrapped by a vehicle init system rather than a
// user-edited config file.
package config

import (
	"github.com/caarlos0/env/v6"
	"github.com/imdario/mergo"

	"github.com/connectedcar/fileupload/pkg/errors"
	"github.com/connectedcar/fileupload/pkg/logging"
)

// Config holds every environment-derived setting the agent needs at startup.
type Config struct {
	// DataContainerPath is the process-wide directory files are uploaded
	// from and deleted out of. Required; empty is a fatal startup error.
	DataContainerPath string `env:"DATA_CONTAINER_PATH"`

	// BrokerURL is the MQTT broker to connect to.
	BrokerURL string `env:"BROKER_URL" envDefault:"tcp://localhost:1883"`

	// ClientID identifies this agent to the broker.
	ClientID string `env:"BROKER_CLIENT_ID" envDefault:"fileuploadd"`

	// LogLevel is one of trace/debug/info/warn/error/fatal/panic.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// LogFilePath, if set, additionally writes rotated JSON logs to this
	// path (in parallel with the console writer on stdout).
	LogFilePath string `env:"LOG_FILE_PATH" envDefault:""`

	// TLSConfigPath, if set, points at a YAML file describing mutual-TLS
	// settings for the broker connection. Empty disables TLS.
	TLSConfigPath string `env:"TLS_CONFIG_PATH" envDefault:""`

	// MetricsStorePath is where cumulative upload/delete counters persist
	// across restarts. Empty disables the metrics store.
	MetricsStorePath string `env:"METRICS_STORE_PATH" envDefault:""`

	// MaxUploadBandwidthBytesPerSec throttles outbound upload bandwidth.
	// 0 disables throttling.
	MaxUploadBandwidthBytesPerSec int64 `env:"MAX_UPLOAD_BANDWIDTH_BYTES_PER_SEC" envDefault:"0"`

	// UploadWorkerCount is the number of concurrent UploadWorker loops to
	// run. The core design permits more than one; per-request file ordering
	// stays sequential within whichever worker picks up that request.
	UploadWorkerCount int `env:"UPLOAD_WORKER_COUNT" envDefault:"1"`
}

// defaults mirrors the zero-value fallback the teacher's mergeWithDefaults
// step merges missing fields against.
func defaults() Config {
	return Config{
		BrokerURL:         "tcp://localhost:1883",
		ClientID:          "fileuploadd",
		LogLevel:          "info",
		UploadWorkerCount: 1,
	}
}

// Load reads configuration from the environment, merges it over defaults for
// any field the environment left at its zero value, and validates the
// result. A missing DataContainerPath is returned as an error, never
// defaulted - the caller is expected to treat it as fatal at startup.
func Load() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, errors.NewValidationError("parsing configuration from environment", err)
	}

	merged := defaults()
	if err := mergo.Merge(&merged, cfg, mergo.WithOverride); err != nil {
		return nil, errors.NewOperationError("merging configuration with defaults", err)
	}

	if err := validate(&merged); err != nil {
		return nil, err
	}

	return &merged, nil
}

func validate(cfg *Config) error {
	if cfg.DataContainerPath == "" {
		return errors.NewValidationError("DATA_CONTAINER_PATH is required and must not be empty", nil)
	}

	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		logging.LogErrorAsWarn(err, "invalid LOG_LEVEL, falling back to info", "log_level", cfg.LogLevel)
		cfg.LogLevel = "info"
	}

	if cfg.UploadWorkerCount <= 0 {
		logging.Warn().Int("upload_worker_count", cfg.UploadWorkerCount).Msg("UPLOAD_WORKER_COUNT must be positive, defaulting to 1")
		cfg.UploadWorkerCount = 1
	}

	return nil
}
