// Package broker wraps the paho MQTT client with the envelope, topic, and
// correlation-id conventions the upload core expects from its message broker
// collaborator.
package broker

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/connectedcar/fileupload/pkg/errors"
	"github.com/connectedcar/fileupload/pkg/logging"
)

// Topics used by the upload core. Exact values are part of the broker
// contract.
const (
	TopicRequestFileUpload      = "RequestFileUpload"
	TopicFileUploadBlobURI      = "FileUploadBlobUri"
	TopicRequestBlobURI         = "RequestBlobUri"
	TopicFileUploadNotification = "FileUploadNotification"
)

// Known message_type discriminators carried in the envelope.
const (
	MessageTypeFileUploadRequest      = "FileUploadRequest"
	MessageTypeArbitraryToDevice      = "ArbitraryToDevice"
	MessageTypeArbitraryToCloud       = "ArbitraryToCloud"
	MessageTypeFileUploadNotification = "FileUploadNotification"
)

// qosAtLeastOnce is used for every publish and subscribe the core issues.
const qosAtLeastOnce byte = 1

// Envelope is the outer shape of every inbound and outbound broker payload:
// a message_type discriminator plus an opaque, still-encoded payload body.
// paho.mqtt.golang's v3.1.1 wire support has no standard user-properties
// mechanism, so CorrelationID rides in-band in the envelope rather than as a
// transport-level property.
type Envelope struct {
	MessageType   string `json:"message_type"`
	Payload       string `json:"payload"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

// MessageHandler is invoked once per inbound message on a subscribed topic,
// with the message's envelope already decoded.
type MessageHandler func(envelope Envelope)

// Client is a thin wrapper around a paho MQTT client, applying the envelope
// convention uniformly to every publish/subscribe.
type Client struct {
	inner mqtt.Client
}

// Config configures the underlying paho client.
type Config struct {
	BrokerURL string
	ClientID  string

	ConnectTimeout time.Duration

	// TLS, if non-nil, is handed to the paho client, which uses it only
	// when BrokerURL has a TLS scheme such as ssl:// or tls://; a tcp://
	// URL still connects in plain text. Built by the caller from
	// internal/config's TLSConfig, keeping certificate-loading out of this
	// package.
	TLS *tls.Config
}

// Connect dials the broker and blocks until the connection is acknowledged
// or ctx is done.
func Connect(ctx context.Context, cfg Config) (*Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.BrokerURL).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true)

	if cfg.TLS != nil {
		opts.SetTLSConfig(cfg.TLS)
	}

	inner := mqtt.NewClient(opts)

	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 30 * time.Second
	}

	token := inner.Connect()
	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return nil, errors.NewNetworkError("connecting to broker", err)
		}
	case <-time.After(cfg.ConnectTimeout):
		return nil, errors.NewTimeoutError("connecting to broker", fmt.Errorf("no CONNACK within %s", cfg.ConnectTimeout))
	case <-ctx.Done():
		return nil, errors.NewTimeoutError("connecting to broker", ctx.Err())
	}

	logging.Info().Str("broker_url", cfg.BrokerURL).Str("client_id", cfg.ClientID).Msg("connected to broker")
	return &Client{inner: inner}, nil
}

// Disconnect gracefully closes the connection, waiting up to quiesceMillis
// for in-flight publishes to drain.
func (c *Client) Disconnect(quiesceMillis uint) {
	c.inner.Disconnect(quiesceMillis)
}

// Subscribe registers handler for every message delivered on topic, decoding
// the envelope before invoking it. Decode failures are logged and dropped;
// they never reach handler, per the Dispatcher's decode-error policy.
func (c *Client) Subscribe(topic string, handler MessageHandler) error {
	token := c.inner.Subscribe(topic, qosAtLeastOnce, func(_ mqtt.Client, msg mqtt.Message) {
		var envelope Envelope
		if err := json.Unmarshal(msg.Payload(), &envelope); err != nil {
			logging.LogErrorAsWarn(err, "discarding malformed broker envelope", "topic", topic)
			return
		}
		handler(envelope)
	})

	token.Wait()
	return token.Error()
}

// Publish sends an envelope wrapping messageType/body on topic, with
// correlationID attached for log/trace propagation by the receiver. Publish
// failures are returned to the caller, who is expected to log-and-continue
// per the core's error-handling policy rather than treat them as fatal.
func (c *Client) Publish(ctx context.Context, topic, messageType, body, correlationID string) error {
	envelope := Envelope{MessageType: messageType, Payload: body, CorrelationID: correlationID}
	encoded, err := json.Marshal(envelope)
	if err != nil {
		return errors.NewValidationError("encoding outbound envelope", err)
	}

	token := c.inner.Publish(topic, qosAtLeastOnce, false, encoded)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return errors.NewTimeoutError(fmt.Sprintf("publishing to %s", topic), ctx.Err())
	}

	if err := token.Error(); err != nil {
		wrapped := errors.NewNetworkError(fmt.Sprintf("publishing to %s", topic), err)
		errors.MonitorError(wrapped)
		return wrapped
	}
	return nil
}
