package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// Publisher публикует события бронирования в Kafka
// Ключ сообщения - AggregateID, поэтому события одной записи попадают в одну партицию по порядку
type Publisher struct {
	writer  MessageWriter
	timeout time.Duration
	log     Logger

	mu     sync.RWMutex
	closed bool
}

// NewKafkaPublisher создает publisher поверх kafka-go writer
func NewKafkaPublisher(brokers []string, topic string, timeout time.Duration, log Logger) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: timeout,
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			log.Error("kafka: "+msg, args...)
		}),
	}
	return NewPublisher(writer, timeout, log)
}

// NewPublisher создает publisher поверх произвольного writer
func NewPublisher(writer MessageWriter, timeout time.Duration, log Logger) *Publisher {
	return &Publisher{
		writer:  writer,
		timeout: timeout,
		log:     log,
	}
}

// Publish отправляет событие
func (p *Publisher) Publish(ctx context.Context, event Event) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrClosed
	}

	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: marshal %s: %v", ErrInternal, event.Type, err)
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(event.AggregateID, 10)),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("%w: %s id=%d: %v", ErrPublish, event.Type, event.AggregateID, err)
	}

	p.log.Info("Event published: type=%s, id=%d", event.Type, event.AggregateID)
	return nil
}

// Close закрывает writer, повторный вызов безопасен
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	return p.writer.Close()
}

// NoopPublisher используется, когда события выключены
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }

func (NoopPublisher) Close() error { return nil }
