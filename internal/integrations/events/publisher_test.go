package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   int
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed++
	return nil
}

func TestPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := NewPublisher(w, time.Second, logger.Nop())

	err := p.Publish(context.Background(), Event{
		Type:        TypeAppointmentCreated,
		AggregateID: 42,
		Payload:     AppointmentPayload{ID: 42, SalonID: 1, Date: "2024-06-01", StartTime: "09:00", EndTime: "09:35", Status: "pending"},
	})
	require.NoError(t, err)
	require.Len(t, w.messages, 1)

	msg := w.messages[0]
	assert.Equal(t, "42", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, TypeAppointmentCreated, string(msg.Headers[0].Value))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, TypeAppointmentCreated, decoded["type"])
	assert.EqualValues(t, 42, decoded["aggregateId"])
	assert.NotEmpty(t, decoded["occurredAt"])
}

func TestPublisher_WriteError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := NewPublisher(w, time.Second, logger.Nop())

	err := p.Publish(context.Background(), Event{Type: TypeFamilyBookingCreated, AggregateID: 1})
	assert.ErrorIs(t, err, ErrPublish)
}

func TestPublisher_Closed(t *testing.T) {
	w := &fakeWriter{}
	p := NewPublisher(w, time.Second, logger.Nop())

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.Equal(t, 1, w.closed)

	err := p.Publish(context.Background(), Event{Type: TypeAppointmentCancelled, AggregateID: 1})
	assert.ErrorIs(t, err, ErrClosed)
}
