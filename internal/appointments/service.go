// Package appointments owns the lifecycle of a booking: creation against the
// slot registry, doctor review, rescheduling, cancellation and the periodic
// sweeps that complete past appointments and send reminders.
package appointments

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/SamarthKalavadia/hospital-management-system/internal/apperr"
	"github.com/SamarthKalavadia/hospital-management-system/internal/clock"
	"github.com/SamarthKalavadia/hospital-management-system/internal/directory"
	"github.com/SamarthKalavadia/hospital-management-system/internal/metrics"
	"github.com/SamarthKalavadia/hospital-management-system/internal/models"
	"github.com/SamarthKalavadia/hospital-management-system/internal/notify"
	"github.com/SamarthKalavadia/hospital-management-system/internal/slots"
)

// Directory resolves users for notifications.
type Directory interface {
	Contact(ctx context.Context, userID string) (directory.Contact, error)
	DefaultDoctor(ctx context.Context) (directory.Contact, error)
}

// Action is a doctor decision carried by an emailed link.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// ActionClaims is the payload of an action link.
type ActionClaims struct {
	AppointmentID string
	DoctorID      string
	Action        Action
}

// ActionTokens signs and verifies action links.
type ActionTokens interface {
	Issue(claims ActionClaims) (string, error)
	Parse(token string) (ActionClaims, error)
}

// Config carries the time policies of the state machine.
type Config struct {
	CancelNotice        time.Duration
	AutoCompleteBuffer  time.Duration
	ReminderWindowLower time.Duration
	ReminderWindowUpper time.Duration
	// ActionBaseURL is the public prefix of the approve/reject links.
	ActionBaseURL string
}

// DefaultConfig is the clinic's standing policy.
func DefaultConfig() Config {
	return Config{
		CancelNotice:        24 * time.Hour,
		AutoCompleteBuffer:  30 * time.Minute,
		ReminderWindowLower: 23 * time.Hour,
		ReminderWindowUpper: 25 * time.Hour,
	}
}

type Service struct {
	repo      Repository
	registry  *slots.Registry
	directory Directory
	notifier  *notify.Dispatcher
	tokens    ActionTokens
	cfg       Config
	now       clock.Clock
	log       zerolog.Logger
}

func NewService(repo Repository, dir Directory, notifier *notify.Dispatcher, tokens ActionTokens, cfg Config, now clock.Clock, log zerolog.Logger) *Service {
	if now == nil {
		now = clock.System
	}
	return &Service{
		repo:      repo,
		registry:  slots.NewRegistry(repo),
		directory: dir,
		notifier:  notifier,
		tokens:    tokens,
		cfg:       cfg,
		now:       now,
		log:       log,
	}
}

// Slots returns the day's menu with booking state.
func (s *Service) Slots(ctx context.Context, date time.Time) ([]slots.Availability, error) {
	return s.registry.ForDate(ctx, date)
}

// BookInput describes a booking request.
type BookInput struct {
	PatientID    string
	PatientName  string
	PatientPhone string
	DoctorID     string
	Date         time.Time
	TimeValue    string
	// Status lets a doctor book an already approved appointment.
	Status models.AppointmentStatus
}

// Book creates an appointment in the requested slot.
func (s *Service) Book(ctx context.Context, actor models.Actor, in BookInput) (a *models.Appointment, err error) {
	defer func() { record("book", err) }()

	if actor.IsPatient() {
		in.PatientID = actor.ID
	} else if !actor.IsStaff() {
		return nil, apperr.ErrForbidden
	}

	date := clock.StartOfDay(in.Date)
	slot, ok := slots.Lookup(in.TimeValue)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSlot, in.TimeValue)
	}
	if slots.IsClosedDay(date) {
		return nil, ErrClosedDay
	}
	now := s.now()
	if !clock.CombineDateAndTime(date, slot.TimeValue).After(now) {
		return nil, ErrAlreadyPast
	}

	free, err := s.registry.IsFree(ctx, date, slot.TimeValue)
	if err != nil {
		return nil, err
	}
	if !free {
		return nil, ErrSlotConflict
	}

	patient := directory.Contact{ID: in.PatientID, Name: in.PatientName, Phone: in.PatientPhone}
	if in.PatientID != "" {
		c, err := s.directory.Contact(ctx, in.PatientID)
		if err != nil {
			return nil, err
		}
		patient = mergeContact(c, patient)
	}
	if patient.ID == "" && strings.TrimSpace(patient.Name) == "" {
		return nil, ErrMissingPatient
	}

	doctor, err := s.resolveDoctor(ctx, actor, in.DoctorID)
	if err != nil {
		return nil, err
	}

	key := slots.Key(date, slot.TimeValue)
	a = &models.Appointment{
		PatientID:    patient.ID,
		PatientName:  patient.Name,
		PatientPhone: patient.Phone,
		DoctorID:     doctor.ID,
		Date:         date,
		Time:         slot.Time,
		TimeValue:    slot.TimeValue,
		SlotKey:      &key,
		Status:       models.StatusPending,
	}
	if actor.IsDoctor() && (in.Status == models.StatusApproved || in.Status == models.StatusConfirmed) {
		a.Status = models.StatusApproved
		a.ApprovedByDoctorAt = &now
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	s.log.Info().Str("appointment_id", a.ID).Str("slot", key).Str("status", string(a.Status)).Msg("appointment booked")

	s.notifier.Send(s.message(patient.Email, notify.KindBookingConfirmation, a))
	if a.Status == models.StatusPending {
		s.sendActionRequest(a, doctor)
	}
	return a, nil
}

func mergeContact(stored, given directory.Contact) directory.Contact {
	if given.Name != "" {
		stored.Name = given.Name
	}
	if given.Phone != "" {
		stored.Phone = given.Phone
	}
	return stored
}

func (s *Service) resolveDoctor(ctx context.Context, actor models.Actor, doctorID string) (directory.Contact, error) {
	switch {
	case doctorID != "":
		return s.directory.Contact(ctx, doctorID)
	case actor.IsDoctor():
		return s.directory.Contact(ctx, actor.ID)
	default:
		return s.directory.DefaultDoctor(ctx)
	}
}

// Approve moves a pending appointment to approved. Re-approving an approved
// one refreshes the stamp.
func (s *Service) Approve(ctx context.Context, actor models.Actor, id string) (a *models.Appointment, err error) {
	defer func() { record("approve", err) }()

	if !actor.IsDoctor() {
		return nil, apperr.ErrForbidden
	}
	return s.approve(ctx, id, models.OpenStatuses)
}

func (s *Service) approve(ctx context.Context, id string, from []models.AppointmentStatus) (*models.Appointment, error) {
	now := s.now()
	a, err := s.transition(ctx, id, from, Changes{Status: models.StatusApproved, ApprovedAt: &now})
	if err != nil {
		return nil, err
	}
	s.notifier.Send(s.message(s.patientEmail(ctx, a), notify.KindAppointmentApproved, a))
	return a, nil
}

// Reject moves a pending appointment to rejected. The slot stays taken.
func (s *Service) Reject(ctx context.Context, actor models.Actor, id, reason string) (a *models.Appointment, err error) {
	defer func() { record("reject", err) }()

	if !actor.IsDoctor() {
		return nil, apperr.ErrForbidden
	}
	return s.reject(ctx, id, reason)
}

func (s *Service) reject(ctx context.Context, id, reason string) (*models.Appointment, error) {
	now := s.now()
	reason = strings.TrimSpace(reason)
	a, err := s.transition(ctx, id, []models.AppointmentStatus{models.StatusPending}, Changes{
		Status:     models.StatusRejected,
		RejectedAt: &now,
		Reason:     &reason,
	})
	if err != nil {
		return nil, err
	}
	msg := s.message(s.patientEmail(ctx, a), notify.KindAppointmentRejected, a)
	msg.Data["reason"] = reason
	s.notifier.Send(msg)
	return a, nil
}

// Reschedule moves an open appointment to a new free slot and sends it back
// for approval, whoever performs it.
func (s *Service) Reschedule(ctx context.Context, actor models.Actor, id string, date time.Time, timeValue string) (a *models.Appointment, err error) {
	defer func() { record("reschedule", err) }()

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.PatientID != actor.ID && !actor.IsDoctor() {
		return nil, apperr.ErrForbidden
	}
	if current.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: %s appointment cannot be rescheduled", ErrInvalidTransition, current.Status)
	}

	date = clock.StartOfDay(date)
	slot, ok := slots.Lookup(timeValue)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSlot, timeValue)
	}
	if slots.IsClosedDay(date) {
		return nil, ErrClosedDay
	}
	if !clock.CombineDateAndTime(date, slot.TimeValue).After(s.now()) {
		return nil, ErrAlreadyPast
	}

	key := slots.Key(date, slot.TimeValue)
	if current.SlotKey == nil || *current.SlotKey != key {
		free, err := s.registry.IsFree(ctx, date, slot.TimeValue)
		if err != nil {
			return nil, err
		}
		if !free {
			return nil, ErrSlotConflict
		}
	}

	a, err = s.transition(ctx, id, models.OpenStatuses, Changes{
		Status:        models.StatusPending,
		Date:          &date,
		Time:          slot.Time,
		TimeValue:     slot.TimeValue,
		SlotKey:       &key,
		ResetReminder: true,
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Send(s.message(s.patientEmail(ctx, a), notify.KindAppointmentRescheduled, a))
	if doctor, err := s.directory.Contact(ctx, a.DoctorID); err == nil {
		s.sendActionRequest(a, doctor)
	}
	return a, nil
}

// Cancel lets the owning patient cancel an open appointment that is more
// than the notice period away.
func (s *Service) Cancel(ctx context.Context, actor models.Actor, id string) (a *models.Appointment, err error) {
	defer func() { record("cancel", err) }()

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.PatientID == "" || current.PatientID != actor.ID {
		return nil, apperr.ErrForbidden
	}
	if current.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: %s appointment cannot be cancelled", ErrInvalidTransition, current.Status)
	}

	now := s.now()
	instant := clock.CombineDateAndTime(current.Date, current.TimeValue)
	if !instant.After(now) {
		return nil, ErrAlreadyPast
	}
	if instant.Sub(now) < s.cfg.CancelNotice {
		return nil, ErrWindowTooClose
	}

	a, err = s.transition(ctx, id, models.OpenStatuses, Changes{Status: models.StatusCancelled, ClearSlot: true})
	if err != nil {
		return nil, err
	}
	s.notifier.Send(s.message(s.patientEmail(ctx, a), notify.KindAppointmentCancelled, a))
	return a, nil
}

// ApplyAction executes an emailed approve/reject link. Links only act on
// appointments that are still pending.
func (s *Service) ApplyAction(ctx context.Context, token string) (a *models.Appointment, action Action, err error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidActionToken, err)
	}

	pending := []models.AppointmentStatus{models.StatusPending}
	switch claims.Action {
	case ActionApprove:
		a, err = s.approve(ctx, claims.AppointmentID, pending)
	case ActionReject:
		a, err = s.reject(ctx, claims.AppointmentID, "")
	default:
		return nil, "", ErrInvalidActionToken
	}
	record("action_"+string(claims.Action), err)
	return a, claims.Action, err
}

// Get returns an appointment visible to actor.
func (s *Service) Get(ctx context.Context, actor models.Actor, id string) (*models.Appointment, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsStaff() && a.PatientID != actor.ID {
		return nil, apperr.ErrForbidden
	}
	return a, nil
}

// List returns the actor's appointments: their own for a patient, their
// assigned ones for a doctor, everything for an admin.
func (s *Service) List(ctx context.Context, actor models.Actor) ([]models.Appointment, error) {
	switch {
	case actor.IsAdmin():
		return s.repo.List(ctx, Filter{})
	case actor.IsDoctor():
		return s.repo.List(ctx, Filter{DoctorID: actor.ID})
	case actor.IsPatient():
		return s.repo.List(ctx, Filter{PatientID: actor.ID})
	}
	return nil, apperr.ErrForbidden
}

// History returns the actor's appointments that reached a terminal state.
func (s *Service) History(ctx context.Context, actor models.Actor) ([]models.Appointment, error) {
	terminal := []models.AppointmentStatus{models.StatusCompleted, models.StatusCancelled, models.StatusRejected}
	switch {
	case actor.IsDoctor():
		return s.repo.List(ctx, Filter{DoctorID: actor.ID, Statuses: terminal})
	case actor.IsPatient():
		return s.repo.List(ctx, Filter{PatientID: actor.ID, Statuses: terminal})
	case actor.IsAdmin():
		return s.repo.List(ctx, Filter{Statuses: terminal})
	}
	return nil, apperr.ErrForbidden
}

// Upcoming lists a patient's slot-holding appointments from today on.
func (s *Service) Upcoming(ctx context.Context, patientID string) ([]models.Appointment, error) {
	today := clock.StartOfDay(s.now())
	return s.repo.List(ctx, Filter{PatientID: patientID, Statuses: models.OpenStatuses, FromDay: &today})
}

// CountToday counts slot-holding appointments on the current day.
func (s *Service) CountToday(ctx context.Context) (int64, error) {
	return s.repo.CountForDay(ctx, clock.StartOfDay(s.now()))
}

// DeleteForPatient removes every appointment of a patient.
func (s *Service) DeleteForPatient(ctx context.Context, patientID string) error {
	return s.repo.DeleteByPatient(ctx, patientID)
}

func (s *Service) transition(ctx context.Context, id string, from []models.AppointmentStatus, changes Changes) (*models.Appointment, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !statusIn(current.Status, from) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, changes.Status)
	}

	if err := s.repo.Transition(ctx, id, from, changes); err != nil {
		if errors.Is(err, errStale) {
			return nil, fmt.Errorf("%w: appointment changed while updating", ErrInvalidTransition)
		}
		return nil, err
	}

	changes.Apply(current)
	s.log.Info().Str("appointment_id", id).Str("status", string(current.Status)).Msg("appointment updated")
	return current, nil
}

func statusIn(s models.AppointmentStatus, set []models.AppointmentStatus) bool {
	for _, v := range set {
		if s == v {
			return true
		}
	}
	return false
}

func record(transition string, err error) {
	metrics.AppointmentTransitions.WithLabelValues(transition, metrics.Result(err)).Inc()
}

func (s *Service) patientEmail(ctx context.Context, a *models.Appointment) string {
	if a.PatientID == "" {
		return ""
	}
	c, err := s.directory.Contact(ctx, a.PatientID)
	if err != nil {
		s.log.Warn().Err(err).Str("appointment_id", a.ID).Msg("patient contact lookup failed")
		return ""
	}
	return c.Email
}

func (s *Service) message(recipient string, kind notify.Kind, a *models.Appointment) notify.Message {
	return notify.Message{
		Recipient: recipient,
		Kind:      kind,
		Data: map[string]any{
			"appointmentId": a.ID,
			"patientName":   a.PatientName,
			"patientPhone":  a.PatientPhone,
			"date":          a.Date.Format(time.DateOnly),
			"time":          a.Time,
			"status":        string(a.Status),
		},
	}
}

func (s *Service) sendActionRequest(a *models.Appointment, doctor directory.Contact) {
	msg := s.message(doctor.Email, notify.KindAppointmentRequest, a)
	for _, act := range []Action{ActionApprove, ActionReject} {
		token, err := s.tokens.Issue(ActionClaims{AppointmentID: a.ID, DoctorID: doctor.ID, Action: act})
		if err != nil {
			s.log.Warn().Err(err).Str("appointment_id", a.ID).Msg("signing action link failed")
			return
		}
		msg.Data[string(act)+"URL"] = s.cfg.ActionBaseURL + "/" + string(act) + "?token=" + url.QueryEscape(token)
	}
	s.notifier.Send(msg)
}
