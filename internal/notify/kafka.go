package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaNotifier publishes each notification as a JSON event keyed by
// recipient. A downstream mailer consumes the topic.
type KafkaNotifier struct {
	writer messageWriter
}

// NewKafkaNotifier creates a producer for topic on the comma separated brokers.
func NewKafkaNotifier(brokers, topic string) (*KafkaNotifier, error) {
	if brokers == "" {
		return nil, fmt.Errorf("kafka brokers not configured")
	}
	if topic == "" {
		topic = "notifications"
	}
	w := &kafka.Writer{
		Addr:     kafka.TCP(strings.Split(brokers, ",")...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	return &KafkaNotifier{writer: w}, nil
}

type kafkaEvent struct {
	Message
	Attachments []kafkaAttachment `json:"attachments,omitempty"`
}

type kafkaAttachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Content     []byte `json:"content"`
}

func (n *KafkaNotifier) Notify(ctx context.Context, msg Message) error {
	evt := kafkaEvent{Message: msg}
	for _, a := range msg.Attachments {
		evt.Attachments = append(evt.Attachments, kafkaAttachment(a))
	}

	value, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encoding notification: %w", err)
	}

	err = n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.Recipient),
		Value: value,
		Headers: []kafka.Header{
			{Key: "kind", Value: []byte(msg.Kind)},
		},
	})
	if err != nil {
		return fmt.Errorf("publishing notification: %w", err)
	}
	return nil
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}
