package prescriptions

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/SamarthKalavadia/hospital-management-system/internal/directory"
	"github.com/SamarthKalavadia/hospital-management-system/internal/models"
	"github.com/SamarthKalavadia/hospital-management-system/internal/notify"
	"github.com/SamarthKalavadia/hospital-management-system/internal/render"
)

// Directory resolves patients and doctors for documents and delivery.
type Directory interface {
	Contact(ctx context.Context, userID string) (directory.Contact, error)
}

// Deliverer renders a committed prescription, stores the PDF and mails it to
// the patient. It runs after the transaction; its failures never undo one.
type Deliverer struct {
	store    Store
	dir      Directory
	renderer render.Renderer
	files    *render.FileStore
	notifier *notify.Dispatcher
	timeout  time.Duration
	log      zerolog.Logger
	wg       sync.WaitGroup
}

func NewDeliverer(store Store, dir Directory, renderer render.Renderer, files *render.FileStore, notifier *notify.Dispatcher, log zerolog.Logger) *Deliverer {
	return &Deliverer{
		store:    store,
		dir:      dir,
		renderer: renderer,
		files:    files,
		notifier: notifier,
		timeout:  time.Minute,
		log:      log,
	}
}

// DeliverAsync runs Deliver in the background and only logs the outcome.
func (d *Deliverer) DeliverAsync(prescriptionID string) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := d.Deliver(ctx, prescriptionID); err != nil {
			d.log.Warn().Err(err).Str("prescription_id", prescriptionID).Msg("prescription delivery failed")
			return
		}
		d.log.Info().Str("prescription_id", prescriptionID).Msg("prescription delivered")
	}()
}

// Wait blocks until background deliveries finish.
func (d *Deliverer) Wait() {
	d.wg.Wait()
}

// Deliver renders, stores and sends a prescription.
func (d *Deliverer) Deliver(ctx context.Context, prescriptionID string) error {
	p, err := d.store.FindByID(ctx, prescriptionID)
	if err != nil {
		return err
	}
	patient, doctor := d.parties(ctx, p)

	pdf, err := d.renderAndStore(ctx, p, patient, doctor)
	if err != nil {
		return err
	}
	if patient.Email == "" {
		return ErrNoRecipient
	}

	return d.notifier.SendNow(ctx, notify.Message{
		Recipient: patient.Email,
		Kind:      notify.KindPrescriptionDelivery,
		Data: map[string]any{
			"prescriptionId": p.ID,
			"patientName":    patient.Name,
			"doctorName":     doctor.Name,
			"diagnosis":      p.Diagnosis,
		},
		Attachments: []notify.Attachment{{
			Filename:    filepath.Base(render.PrescriptionPath(p.ID)),
			ContentType: "application/pdf",
			Content:     pdf,
		}},
	})
}

// Document returns the stored PDF, rendering it first when it is missing.
func (d *Deliverer) Document(ctx context.Context, p *models.Prescription) ([]byte, error) {
	if p.PDFPath != "" {
		data, err := d.files.Open(p.PDFPath)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		d.log.Info().Str("prescription_id", p.ID).Msg("stored pdf missing, rendering again")
	}

	patient, doctor := d.parties(ctx, p)
	return d.renderAndStore(ctx, p, patient, doctor)
}

func (d *Deliverer) renderAndStore(ctx context.Context, p *models.Prescription, patient, doctor directory.Contact) ([]byte, error) {
	pdf, err := d.renderer.Render(documentFor(p, patient, doctor))
	if err != nil {
		return nil, err
	}

	rel, err := d.files.Save(render.PrescriptionPath(p.ID), pdf)
	if err != nil {
		return nil, err
	}
	if err := d.store.SetPDFPath(ctx, p.ID, rel); err != nil {
		return nil, fmt.Errorf("record pdf path: %w", err)
	}
	p.PDFPath = rel
	return pdf, nil
}

// parties resolves both contacts, falling back to the names on record.
func (d *Deliverer) parties(ctx context.Context, p *models.Prescription) (patient, doctor directory.Contact) {
	patient = directory.Contact{ID: p.PatientID, Name: p.PatientName}
	if c, err := d.dir.Contact(ctx, p.PatientID); err == nil {
		patient = c
	} else {
		d.log.Warn().Err(err).Str("prescription_id", p.ID).Msg("patient lookup failed")
	}

	doctor = directory.Contact{ID: p.DoctorID, Name: "Doctor"}
	if c, err := d.dir.Contact(ctx, p.DoctorID); err == nil {
		doctor = c
	}
	return patient, doctor
}

func documentFor(p *models.Prescription, patient, doctor directory.Contact) render.Document {
	doc := render.Document{
		PrescriptionID: p.ID,
		IssuedAt:       p.CreatedAt,
		Patient:        render.Party{Name: patient.Name, Email: patient.Email, Phone: patient.Phone, Gender: patient.Gender},
		Doctor:         render.Party{Name: doctor.Name, Email: doctor.Email},
		Diagnosis:      p.Diagnosis,
	}
	for _, l := range p.Medicines {
		doc.Lines = append(doc.Lines, render.Line{
			Name:         l.MedicineName,
			Dosage:       l.Dosage,
			Duration:     l.Duration,
			Instructions: l.Instructions,
			Qty:          l.Qty,
		})
	}
	return doc
}
