package notify

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"text/template"

	"github.com/wneessen/go-mail"
)

// SMTPConfig holds the relay settings.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	// CopyTo receives a copy of every prescription delivery.
	CopyTo string
}

type sendFunc func(ctx context.Context, msgs ...*mail.Msg) error

// SMTPNotifier renders each kind through a text template and hands the
// message to go-mail, which does the MIME encoding and the SMTP session.
type SMTPNotifier struct {
	cfg  SMTPConfig
	send sendFunc
}

func NewSMTPNotifier(cfg SMTPConfig) *SMTPNotifier {
	n := &SMTPNotifier{cfg: cfg}
	n.send = n.dialAndSend
	return n
}

func (n *SMTPNotifier) dialAndSend(ctx context.Context, msgs ...*mail.Msg) error {
	opts := []mail.Option{mail.WithTLSPolicy(mail.TLSOpportunistic)}
	if n.cfg.Port != "" {
		port, err := strconv.Atoi(n.cfg.Port)
		if err != nil {
			return fmt.Errorf("invalid SMTP port %q: %w", n.cfg.Port, err)
		}
		opts = append(opts, mail.WithPort(port))
	}
	if n.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(n.cfg.Username),
			mail.WithPassword(n.cfg.Password),
		)
	}

	client, err := mail.NewClient(n.cfg.Host, opts...)
	if err != nil {
		return err
	}
	return client.DialAndSendWithContext(ctx, msgs...)
}

type emailTemplate struct {
	subject *template.Template
	body    *template.Template
}

func mustTemplate(subject, body string) emailTemplate {
	return emailTemplate{
		subject: template.Must(template.New("subject").Option("missingkey=zero").Parse(subject)),
		body:    template.Must(template.New("body").Option("missingkey=zero").Parse(body)),
	}
}

var templates = map[Kind]emailTemplate{
	KindBookingConfirmation: mustTemplate(
		"Appointment request received",
		"Dear {{.patientName}},\n\nYour appointment request for {{.date}} at {{.time}} has been received and is {{.status}}.\nYou will be notified once the doctor reviews it.\n",
	),
	KindAppointmentRequest: mustTemplate(
		"New appointment request: {{.patientName}}",
		"A new appointment was requested.\n\nPatient: {{.patientName}}\nPhone: {{.patientPhone}}\nDate: {{.date}}\nTime: {{.time}}\n\nApprove: {{.approveURL}}\nReject: {{.rejectURL}}\n",
	),
	KindAppointmentApproved: mustTemplate(
		"Appointment approved",
		"Dear {{.patientName}},\n\nYour appointment on {{.date}} at {{.time}} has been approved.\n",
	),
	KindAppointmentRejected: mustTemplate(
		"Appointment not approved",
		"Dear {{.patientName}},\n\nYour appointment on {{.date}} at {{.time}} could not be approved.{{if .reason}}\nReason: {{.reason}}{{end}}\n",
	),
	KindAppointmentRescheduled: mustTemplate(
		"Appointment rescheduled",
		"Dear {{.patientName}},\n\nYour appointment has moved to {{.date}} at {{.time}} and is awaiting approval.\n",
	),
	KindAppointmentCancelled: mustTemplate(
		"Appointment cancelled",
		"Dear {{.patientName}},\n\nYour appointment on {{.date}} at {{.time}} has been cancelled.\n",
	),
	KindAppointmentReminder: mustTemplate(
		"Reminder: appointment tomorrow at {{.time}}",
		"Dear {{.patientName}},\n\nThis is a reminder of your appointment on {{.date}} at {{.time}}.\n",
	),
	KindPrescriptionDelivery: mustTemplate(
		"Your prescription",
		"Dear {{.patientName}},\n\nYour prescription from {{.doctorName}} is attached.\nDiagnosis: {{.diagnosis}}\n",
	),
}

func (n *SMTPNotifier) Notify(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m, err := n.compose(msg)
	if err != nil {
		return err
	}
	if err := n.send(ctx, m); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	return nil
}

func (n *SMTPNotifier) compose(msg Message) (*mail.Msg, error) {
	tpl, ok := templates[msg.Kind]
	if !ok {
		return nil, fmt.Errorf("no email template for %s", msg.Kind)
	}
	var subject, body bytes.Buffer
	if err := tpl.subject.Execute(&subject, msg.Data); err != nil {
		return nil, fmt.Errorf("rendering subject: %w", err)
	}
	if err := tpl.body.Execute(&body, msg.Data); err != nil {
		return nil, fmt.Errorf("rendering body: %w", err)
	}

	m := mail.NewMsg()
	if err := m.From(n.cfg.From); err != nil {
		return nil, fmt.Errorf("sender address: %w", err)
	}
	if err := m.To(msg.Recipient); err != nil {
		return nil, fmt.Errorf("recipient address: %w", err)
	}
	if msg.Kind == KindPrescriptionDelivery && n.cfg.CopyTo != "" && n.cfg.CopyTo != msg.Recipient {
		if err := m.AddTo(n.cfg.CopyTo); err != nil {
			return nil, fmt.Errorf("copy address: %w", err)
		}
	}
	m.Subject(subject.String())
	m.SetDate()
	m.SetBodyString(mail.TypeTextPlain, body.String())

	for _, a := range msg.Attachments {
		err := m.AttachReader(a.Filename, bytes.NewReader(a.Content),
			mail.WithFileContentType(mail.ContentType(a.ContentType)))
		if err != nil {
			return nil, fmt.Errorf("attaching %s: %w", a.Filename, err)
		}
	}
	return m, nil
}
