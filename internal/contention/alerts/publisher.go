package alerts

import (
	"context"
	"fmt"

	"lockwatch/pkg/kafka"
	"lockwatch/pkg/logger"
	"lockwatch/pkg/model"
)

const (
	EventTypeContentionAlert = "contention.alert"

	schemaVersion = "1"
	sourceService = "lockwatch-monitor"
)

// Publisher emits alert events for monitoring passes that crossed the
// warning or critical threshold.
type Publisher interface {
	Publish(ctx context.Context, alert *model.AlertEvent) error
	Close() error
}

type kafkaPublisher struct {
	producer *kafka.Producer
	log      *logger.Logger
}

func NewKafkaPublisher(producer *kafka.Producer, log *logger.Logger) Publisher {
	return &kafkaPublisher{producer: producer, log: log}
}

func (p *kafkaPublisher) Publish(ctx context.Context, alert *model.AlertEvent) error {
	if alert.Level == "" || alert.Level == model.AlertNone.String() {
		return nil
	}

	msg := kafka.NewMessage().
		WithKey(alert.TenantID).
		WithValue(alert).
		WithEventID(alert.ID).
		WithEventType(EventTypeContentionAlert).
		WithCorrelationID(alert.PassID).
		WithSchemaVersion(schemaVersion).
		WithSource(sourceService).
		WithHeader("alert-level", alert.Level).
		Build()

	if err := p.producer.Publish(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish alert for tenant %s: %w", alert.TenantID, err)
	}

	p.log.Info("alert published",
		"tenant_id", alert.TenantID,
		"pass_id", alert.PassID,
		"level", alert.Level,
		"recommendations", len(alert.Recommendations),
	)
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

// noopPublisher is used when alerting is disabled by configuration.
type noopPublisher struct{}

func NewNoopPublisher() Publisher { return noopPublisher{} }

func (noopPublisher) Publish(context.Context, *model.AlertEvent) error { return nil }

func (noopPublisher) Close() error { return nil }
