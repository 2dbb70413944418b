package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/connectedcar/fileupload/pkg/errors"
)

// TLSConfig describes an optional mutual-TLS setup for the broker
// connection. It is loaded from a small YAML side-file rather than flat
// environment variables because it is inherently structured (a CA plus an
// optional client certificate pair) and rarely changes at runtime.
type TLSConfig struct {
	// CAFile, if set, is a PEM bundle of additional trusted root
	// certificates for verifying the broker's server certificate.
	CAFile string `yaml:"ca_file"`

	// CertFile and KeyFile, if both set, are presented to the broker as a
	// client certificate for mutual TLS.
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`

	// ServerName overrides the name used for server certificate
	// verification, for brokers reached by IP or through a proxy.
	ServerName string `yaml:"server_name"`

	// InsecureSkipVerify disables server certificate verification. Only
	// meant for bench-rig brokers with self-signed certificates.
	InsecureSkipVerify bool `yaml:"insecure_skip_verify"`
}

// LoadTLSConfig reads and parses the YAML file at path. An empty path is
// treated like any unreadable path and returns an error; callers that treat
// TLS as optional skip the call when no path is configured.
func LoadTLSConfig(path string) (*TLSConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewValidationError("reading TLS config file", err)
	}

	var cfg TLSConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, errors.NewValidationError("parsing TLS config YAML", err)
	}

	return &cfg, nil
}
