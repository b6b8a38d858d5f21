package services

import (
	"context"
	"encoding/json"
	"fmt"
	"knitcraft_server/structs"
	"time"

	"github.com/IBM/sarama"
	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
	EventBespokeCreated     = "bespoke.created"
)

// DomainEvent is the envelope written to Kafka.
type DomainEvent struct {
	ID         uuid.UUID `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload"`
}

func NewDomainEvent(eventType string, payload any) *DomainEvent {
	return &DomainEvent{
		ID:         uuid.New(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// EventService publishes domain events. Without configured brokers it is a no-op.
type EventService struct {
	logger   *gecho.Logger
	producer sarama.SyncProducer
}

func NewEventService(logger *gecho.Logger, cfg *structs.KafkaConfig) *EventService {
	if len(cfg.Brokers) == 0 {
		logger.Info("Kafka brokers not configured, domain events disabled")
		return &EventService{logger: logger}
	}

	saramaCfg := sarama.NewConfig()
	saramaCfg.ClientID = cfg.ClientID
	saramaCfg.Producer.RequiredAcks = sarama.WaitForAll
	saramaCfg.Producer.Retry.Max = 3
	saramaCfg.Producer.Return.Successes = true
	saramaCfg.Producer.Timeout = 5 * time.Second

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaCfg)
	if err != nil {
		logger.Warn("Failed to start Kafka producer, domain events disabled",
			gecho.Field("brokers", cfg.Brokers),
			gecho.Field("error", err),
		)
		return &EventService{logger: logger}
	}

	logger.Info("Kafka producer connected", gecho.Field("brokers", cfg.Brokers))
	return &EventService{logger: logger, producer: producer}
}

// NewEventServiceWithProducer wires an existing producer.
func NewEventServiceWithProducer(logger *gecho.Logger, producer sarama.SyncProducer) *EventService {
	return &EventService{logger: logger, producer: producer}
}

func (es *EventService) Enabled() bool {
	return es.producer != nil
}

func (es *EventService) Publish(ctx context.Context, topic, key string, event *DomainEvent) error {
	if es.producer == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event %s: %w", event.Type, err)
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(body),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event-type"), Value: []byte(event.Type)},
		},
	}

	partition, offset, err := es.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to publish %s to %s: %w", event.Type, topic, err)
	}

	es.logger.Debug("Event published",
		gecho.Field("type", event.Type),
		gecho.Field("topic", topic),
		gecho.Field("partition", partition),
		gecho.Field("offset", offset),
	)
	return nil
}

func (es *EventService) Close() error {
	if es.producer == nil {
		return nil
	}
	return es.producer.Close()
}
