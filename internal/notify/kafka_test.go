package notify

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs []kafka.Message
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestKafkaNotifierPublishesKeyedEvent(t *testing.T) {
	w := &fakeWriter{}
	n := &KafkaNotifier{writer: w}

	err := n.Notify(context.Background(), Message{
		Recipient: "asha@example.com",
		Kind:      KindPrescriptionDelivery,
		Data:      map[string]any{"prescriptionId": "rx-1"},
		Attachments: []Attachment{{
			Filename:    "Prescription_rx-1.pdf",
			ContentType: "application/pdf",
			Content:     []byte("pdf"),
		}},
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	m := w.msgs[0]
	assert.Equal(t, "asha@example.com", string(m.Key))
	assert.Equal(t, "kind", m.Headers[0].Key)
	assert.Equal(t, string(KindPrescriptionDelivery), string(m.Headers[0].Value))

	var decoded struct {
		Recipient   string         `json:"recipient"`
		Kind        string         `json:"kind"`
		Data        map[string]any `json:"data"`
		Attachments []struct {
			Filename string `json:"filename"`
			Content  []byte `json:"content"`
		} `json:"attachments"`
	}
	require.NoError(t, json.Unmarshal(m.Value, &decoded))
	assert.Equal(t, "rx-1", decoded.Data["prescriptionId"])
	require.Len(t, decoded.Attachments, 1)
	assert.Equal(t, []byte("pdf"), decoded.Attachments[0].Content)
}

func TestNewKafkaNotifierRequiresBrokers(t *testing.T) {
	_, err := NewKafkaNotifier("", "notifications")
	assert.Error(t, err)
}
