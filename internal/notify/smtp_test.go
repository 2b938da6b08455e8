package notify

import (
	"bytes"
	"context"
	"crypto/rand"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

type capturedMail struct {
	to  []string
	raw string
}

func captureSender(t *testing.T, out *capturedMail, err error) sendFunc {
	return func(_ context.Context, msgs ...*mail.Msg) error {
		require.Len(t, msgs, 1)
		to, rerr := msgs[0].GetRecipients()
		require.NoError(t, rerr)
		var buf bytes.Buffer
		_, werr := msgs[0].WriteTo(&buf)
		require.NoError(t, werr)
		*out = capturedMail{to: to, raw: buf.String()}
		return err
	}
}

func TestSMTPNotifierRendersTemplate(t *testing.T) {
	var got capturedMail
	n := NewSMTPNotifier(SMTPConfig{Host: "mail.local", Port: "2525", From: "clinic@example.com"})
	n.send = captureSender(t, &got, nil)

	err := n.Notify(context.Background(), Message{
		Recipient: "asha@example.com",
		Kind:      KindAppointmentRejected,
		Data: map[string]any{
			"patientName": "Asha",
			"date":        "2024-06-10",
			"time":        "09:00 AM",
			"reason":      "Doctor unavailable",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"asha@example.com"}, got.to)
	assert.Contains(t, got.raw, "Subject: Appointment not approved")
	assert.Contains(t, got.raw, "Reason: Doctor unavailable")
	assert.Contains(t, got.raw, "text/plain")
}

func TestSMTPNotifierCopiesPrescriptionDeliveryAndAttaches(t *testing.T) {
	var got capturedMail
	n := NewSMTPNotifier(SMTPConfig{Host: "mail.local", Port: "25", From: "clinic@example.com", CopyTo: "doctor@example.com"})
	n.send = captureSender(t, &got, nil)

	err := n.Notify(context.Background(), Message{
		Recipient: "asha@example.com",
		Kind:      KindPrescriptionDelivery,
		Data:      map[string]any{"patientName": "Asha", "doctorName": "Dr. Rao", "diagnosis": "Indigestion"},
		Attachments: []Attachment{{
			Filename:    "Prescription_1.pdf",
			ContentType: "application/pdf",
			Content:     []byte("%PDF-1.3"),
		}},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"asha@example.com", "doctor@example.com"}, got.to)
	assert.Contains(t, got.raw, "multipart/mixed")
	assert.Contains(t, got.raw, `filename="Prescription_1.pdf"`)
	assert.Contains(t, got.raw, "JVBERi0xLjM=", "attachment is base64 encoded")
}

func TestSMTPNotifierFoldsLargeAttachments(t *testing.T) {
	var got capturedMail
	n := NewSMTPNotifier(SMTPConfig{Host: "mail.local", Port: "25", From: "clinic@example.com"})
	n.send = captureSender(t, &got, nil)

	pdf := make([]byte, 4096)
	_, err := rand.Read(pdf)
	require.NoError(t, err)

	err = n.Notify(context.Background(), Message{
		Recipient:   "asha@example.com",
		Kind:        KindPrescriptionDelivery,
		Data:        map[string]any{"patientName": "Asha"},
		Attachments: []Attachment{{Filename: "Prescription_2.pdf", ContentType: "application/pdf", Content: pdf}},
	})
	require.NoError(t, err)

	for _, line := range strings.Split(got.raw, "\r\n") {
		assert.LessOrEqual(t, len(line), 998, "line exceeds the SMTP limit: %.40q", line)
		if !strings.ContainsAny(line, ": ") {
			assert.LessOrEqual(t, len(line), 76, "encoded line not folded: %.40q", line)
		}
	}
}

func TestSMTPNotifierErrors(t *testing.T) {
	var got capturedMail
	n := NewSMTPNotifier(SMTPConfig{Host: "mail.local", Port: "25", From: "clinic@example.com"})
	n.send = captureSender(t, &got, errors.New("connection refused"))

	err := n.Notify(context.Background(), Message{Recipient: "a@example.com", Kind: KindAppointmentReminder})
	assert.ErrorContains(t, err, "connection refused")

	err = n.Notify(context.Background(), Message{Recipient: "a@example.com", Kind: Kind("unknown")})
	assert.ErrorContains(t, err, "no email template")

	err = n.Notify(context.Background(), Message{Recipient: "not an address", Kind: KindAppointmentReminder})
	assert.ErrorContains(t, err, "recipient address")
}
