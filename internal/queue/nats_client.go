package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/Gamepig/coach-rocks-ai-sub001/internal/shared/telemetry"
)

// NATSClient publishes analysis messages to a NATS subject consumed by
// cmd/worker.
type NATSClient struct {
	conn    *nats.Conn
	subject string
}

// NATSOptions tunes the NATS connection.
type NATSOptions struct {
	ConnectTimeout time.Duration
	ReconnectWait  time.Duration
	MaxReconnects  int
}

// NewNATSClient connects to NATS and returns a publisher for the subject.
func NewNATSClient(url, subject string, options NATSOptions) (*NATSClient, error) {
	connectTimeout := options.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 2 * time.Second
	}
	reconnectWait := options.ReconnectWait
	if reconnectWait <= 0 {
		reconnectWait = 2 * time.Second
	}
	maxReconnects := options.MaxReconnects
	if maxReconnects <= 0 {
		maxReconnects = 60
	}

	conn, err := nats.Connect(
		url,
		nats.Name("coach-rocks-analysis"),
		nats.Timeout(connectTimeout),
		nats.ReconnectWait(reconnectWait),
		nats.MaxReconnects(maxReconnects),
		nats.RetryOnFailedConnect(true),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			fields := map[string]any{}
			if err != nil {
				fields["error"] = err.Error()
			}
			telemetry.Warn("nats.disconnected", fields)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			telemetry.Info("nats.reconnected", map[string]any{"url": nc.ConnectedUrl()})
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &NATSClient{conn: conn, subject: subject}, nil
}

// Close closes the connection.
func (c *NATSClient) Close() {
	if c.conn != nil {
		c.conn.Close()
	}
}

// Send publishes the encoded message.
func (c *NATSClient) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := EncodeMessage(msg)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	if err := c.conn.Publish(c.subject, payload); err != nil {
		return fmt.Errorf("nats publish: %w", err)
	}
	return nil
}

// Subscribe consumes messages in the "workers" queue group until ctx is
// canceled, then drains the subscription.
func (c *NATSClient) Subscribe(ctx context.Context, handler func(context.Context, []byte)) error {
	sub, err := c.conn.QueueSubscribe(c.subject, "workers", func(m *nats.Msg) {
		if ctx.Err() != nil {
			return
		}
		handler(ctx, m.Data)
	})
	if err != nil {
		return fmt.Errorf("nats subscribe: %w", err)
	}
	if err := c.conn.Flush(); err != nil {
		return fmt.Errorf("nats flush: %w", err)
	}

	<-ctx.Done()
	if err := sub.Drain(); err != nil {
		return fmt.Errorf("nats drain subscription: %w", err)
	}
	if err := c.conn.FlushTimeout(5 * time.Second); err != nil {
		return fmt.Errorf("nats flush after drain: %w", err)
	}
	return nil
}

var _ Client = (*NATSClient)(nil)
