package broker

import (
	"crypto/tls"
	"crypto/x509"
	"os"

	"github.com/connectedcar/fileupload/internal/config"
	"github.com/connectedcar/fileupload/pkg/errors"
)

// BuildTLSConfig turns a parsed TLSConfig into a *tls.Config suitable for
// Config.TLS. It is kept separate from internal/config so that package has
// no crypto/tls dependency of its own.
func BuildTLSConfig(cfg *config.TLSConfig) (*tls.Config, error) {
	tlsCfg := &tls.Config{
		ServerName:         cfg.ServerName,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	}

	if cfg.CAFile != "" {
		pem, err := os.ReadFile(cfg.CAFile)
		if err != nil {
			return nil, errors.NewValidationError("reading TLS CA file", err)
		}

		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, errors.NewValidationError("parsing TLS CA file", nil)
		}
		tlsCfg.RootCAs = pool
	}

	if cfg.CertFile != "" && cfg.KeyFile != "" {
		cert, err := tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
		if err != nil {
			return nil, errors.NewValidationError("loading TLS client certificate", err)
		}
		tlsCfg.Certificates = []tls.Certificate{cert}
	}

	return tlsCfg, nil
}
