package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/tilo-app/tilo-api/internal/domain/event"
)

var _ event.Publisher = (*Publisher)(nil)

// Publisher adaptador Kafka del puerto event.Publisher. Publica los eventos de
// dominio como JSON en un único topic; el tipo viaja en un header para que los
// consumidores enruten sin deserializar el payload.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher construye el writer. La clave de partición agrupa los eventos
// de un mismo (producto, outlet) para preservar su orden relativo.
func NewPublisher(brokers []string, topic string) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}
	return &Publisher{writer: writer}
}

// Publish serializa y envía el evento.
func (p *Publisher) Publish(ctx context.Context, key string, eventType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(eventType)},
		},
	})
}

// Close cierra el writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
