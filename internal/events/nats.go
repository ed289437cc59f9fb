package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// Ensure NatsPublisher implements Publisher
var _ Publisher = (*NatsPublisher)(nil)

// NatsPublisher sends JSON events over core NATS.
type NatsPublisher struct {
	nc      *nats.Conn
	counter *prometheus.CounterVec
}

// NewNatsPublisher creates a publisher on an open connection. counter may
// be nil; when set it is labelled by subject and outcome.
func NewNatsPublisher(nc *nats.Conn, counter *prometheus.CounterVec) *NatsPublisher {
	return &NatsPublisher{nc: nc, counter: counter}
}

// Publish marshals payload and sends it with the caller's trace context in
// the message headers.
func (p *NatsPublisher) Publish(ctx context.Context, subject string, payload any) error {
	msg, err := buildMsg(ctx, subject, payload)
	if err != nil {
		p.count(subject, "error")
		return err
	}

	slog.Debug("Publishing event", "subject", subject)

	if err := p.nc.PublishMsg(msg); err != nil {
		p.count(subject, "error")
		return fmt.Errorf("failed to publish %s: %w", subject, err)
	}
	p.count(subject, "ok")
	return nil
}

func (p *NatsPublisher) count(subject, outcome string) {
	if p.counter != nil {
		p.counter.WithLabelValues(subject, outcome).Inc()
	}
}

func buildMsg(ctx context.Context, subject string, payload any) (*nats.Msg, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s event: %w", subject, err)
	}

	msg := &nats.Msg{
		Subject: subject,
		Data:    data,
		Header:  nats.Header{},
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(msg.Header))
	return msg, nil
}
