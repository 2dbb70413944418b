// Command fileuploadd is the upload coordination agent's process entry
// point: it loads configuration, connects to the broker, wires the
// Dispatcher/UploadWorker/DeleteWorker coordinator, and runs until signalled
// to stop.
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/google/uuid"
	"github.com/spf13/pflag"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"

	"github.com/connectedcar/fileupload/internal/broker"
	"github.com/connectedcar/fileupload/internal/config"
	"github.com/connectedcar/fileupload/internal/upload"
	"github.com/connectedcar/fileupload/internal/uploader"
	"github.com/connectedcar/fileupload/pkg/errors"
	"github.com/connectedcar/fileupload/pkg/logging"
	"github.com/connectedcar/fileupload/pkg/retry"
)

var (
	flagLogLevel  string
	flagBrokerURL string
	flagShowHelp  bool
)

func setupFlags() {
	pflag.StringVar(&flagLogLevel, "log-level", "", "override LOG_LEVEL (trace|debug|info|warn|error)")
	pflag.StringVar(&flagBrokerURL, "broker-url", "", "override BROKER_URL")
	pflag.BoolVarP(&flagShowHelp, "help", "h", false, "show usage and exit")
	pflag.Usage = usage
}

func usage() {
	fmt.Fprintf(os.Stderr, "fileuploadd - in-vehicle upload coordination agent\n\n")
	fmt.Fprintf(os.Stderr, "Usage: fileuploadd [flags]\n\n")
	pflag.PrintDefaults()
}

func main() {
	setupFlags()
	pflag.Parse()

	if flagShowHelp {
		usage()
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("invalid configuration, refusing to start")
		os.Exit(1)
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if flagBrokerURL != "" {
		cfg.BrokerURL = flagBrokerURL
	}

	if level, err := logging.ParseLevel(cfg.LogLevel); err == nil {
		logging.SetGlobalLevel(level)
	}

	if cfg.LogFilePath != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.LogFilePath,
			MaxSize:    10, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		}
		defer rotator.Close()

		writer := io.MultiWriter(logging.NewConsoleWriter(), rotator)
		logging.DefaultLogger = logging.New(writer)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logging.Fatal().Err(err).Msg("fileuploadd exited with error")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	// Suffix the configured client ID with a fresh UUID so that a
	// crash-restart never collides with a still-registered session under
	// the broker's old client ID.
	clientID := fmt.Sprintf("%s-%s", cfg.ClientID, uuid.NewString())

	brokerCfg := broker.Config{
		BrokerURL: cfg.BrokerURL,
		ClientID:  clientID,
	}

	if cfg.TLSConfigPath != "" {
		tlsSettings, err := config.LoadTLSConfig(cfg.TLSConfigPath)
		if err != nil {
			return err
		}
		tlsConfig, err := broker.BuildTLSConfig(tlsSettings)
		if err != nil {
			return err
		}
		brokerCfg.TLS = tlsConfig
	}

	// The broker may still be starting up when this agent is launched by the
	// vehicle's init system, so the first connect attempt is retried with
	// backoff instead of failing the process immediately.
	connectRetry := retry.DefaultConfig()
	connectRetry.RetryableErrors = append(connectRetry.RetryableErrors, errors.IsTimeoutError)

	brokerClient, err := retry.DoWithResult(ctx, func() (*broker.Client, error) {
		return broker.Connect(ctx, brokerCfg)
	}, connectRetry)
	if err != nil {
		return err
	}
	defer brokerClient.Disconnect(1000)

	fileUploader := uploader.New(http.DefaultClient, cfg.MaxUploadBandwidthBytesPerSec)
	coordinator := upload.NewCoordinatorWithWorkers(cfg.DataContainerPath, brokerClient, fileUploader, cfg.UploadWorkerCount)

	if cfg.MetricsStorePath != "" {
		store, err := upload.OpenMetricsStore(cfg.MetricsStorePath)
		if err != nil {
			logging.LogErrorAsWarn(err, "failed to open metrics store, continuing without persisted metrics")
		} else {
			defer store.Close()
			coordinator.SetMetricsStore(store)
		}
	}

	if err := brokerClient.Subscribe(broker.TopicRequestFileUpload, func(envelope broker.Envelope) {
		coordinator.Dispatcher.OnMessage(envelope.MessageType, envelope.Payload, envelope.CorrelationID)
	}); err != nil {
		return err
	}

	if err := brokerClient.Subscribe(broker.TopicFileUploadBlobURI, func(envelope broker.Envelope) {
		coordinator.Dispatcher.OnMessage(envelope.MessageType, envelope.Payload, envelope.CorrelationID)
	}); err != nil {
		return err
	}

	if sent, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		logging.LogErrorAsWarn(err, "sd_notify READY failed")
	} else if sent {
		logging.Debug().Msg("sd_notify READY=1 sent")
	}

	coordinator.Run(ctx)

	if sent, err := daemon.SdNotify(false, daemon.SdNotifyStopping); err != nil {
		logging.LogErrorAsWarn(err, "sd_notify STOPPING failed")
	} else if sent {
		logging.Debug().Msg("sd_notify STOPPING=1 sent")
	}

	return nil
}
