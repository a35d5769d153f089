package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/config"
	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/core/domain"
)

// Publisher is an after hook that emits a merged event to JetStream whenever
// a close operation completed. Publish failures are logged, never surfaced:
// losing one notification must not fail a finished merge.
type Publisher struct {
	logger *slog.Logger
	conn   *nats.Conn
	js     jetstream.JetStream
	config config.NATSConfig
}

// NewPublisher creates a new publisher and ensures the stream exists
func NewPublisher(ctx context.Context, cfg config.NATSConfig, logger *slog.Logger) (*Publisher, error) {

	opts := []nats.Option{
		nats.Name(cfg.ClientName),
		nats.ReconnectWait(2 * time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn("NATS disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
	}
	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to connect to JetStream: %w", err)
	}

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     cfg.StreamName,
		Subjects: []string{cfg.Subject},
	})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ensure stream: %w", err)
	}

	return &Publisher{
		conn:   conn,
		js:     js,
		config: cfg,
		logger: logger,
	}, nil
}

// Before never vetoes
func (p *Publisher) Before(ctx context.Context, hc *domain.HookContext) (bool, error) {
	return true, nil
}

// After publishes the merged-session event for close operations
func (p *Publisher) After(ctx context.Context, hc *domain.HookContext, result domain.Result) error {
	if hc.Operation != "close" {
		return nil
	}

	event := domain.SessionMergedEvent{
		SessionID: hc.SessionID,
		Operator:  hc.Operator,
		MergedAt:  time.Now().UTC(),
	}
	if name, ok := result["name"].(string); ok {
		event.Name = name
	}
	if size, ok := result["size"].(int64); ok {
		event.Size = size
	}
	if location, ok := result["location"].(string); ok {
		event.Location = location
	}

	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("failed to encode merged event", "session_id", hc.SessionID, "error", err)
		return nil
	}

	if _, err := p.js.Publish(ctx, p.config.Subject, data); err != nil {
		p.logger.Error("failed to publish merged event", "session_id", hc.SessionID, "error", err)
	}
	return nil
}

// Close drains the connection
func (p *Publisher) Close() {
	if err := p.conn.Drain(); err != nil {
		p.logger.Error("failed to drain NATS connection", "error", err)
	}
}
