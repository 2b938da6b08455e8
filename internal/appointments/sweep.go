package appointments

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/SamarthKalavadia/hospital-management-system/internal/clock"
	"github.com/SamarthKalavadia/hospital-management-system/internal/metrics"
	"github.com/SamarthKalavadia/hospital-management-system/internal/models"
	"github.com/SamarthKalavadia/hospital-management-system/internal/notify"
)

// SweepResult summarises one pass over the appointments.
type SweepResult struct {
	Examined int `json:"examined"`
	Updated  int `json:"updated"`
	Failed   int `json:"failed"`
}

// appointmentInstant resolves the scheduled instant, preferring the
// canonical time value over the display string.
func (s *Service) appointmentInstant(a *models.Appointment) time.Time {
	if _, _, ok := clock.ParseTimeOfDay(a.TimeValue); ok {
		return clock.CombineDateAndTime(a.Date, a.TimeValue)
	}
	if _, _, ok := clock.ParseTimeOfDay(a.Time); !ok {
		s.log.Warn().Str("appointment_id", a.ID).
			Str("time_value", a.TimeValue).Str("time", a.Time).
			Msg("unparsable appointment time, treating as end of day")
	}
	return clock.CombineDateAndTime(a.Date, a.Time)
}

// AutoComplete marks every open appointment more than the buffer past its
// instant as completed. Running it twice has the same effect as once.
func (s *Service) AutoComplete(ctx context.Context, now time.Time) (SweepResult, error) {
	var res SweepResult

	open, err := s.repo.ListOpen(ctx)
	if err != nil {
		return res, err
	}

	for i := range open {
		a := &open[i]
		res.Examined++
		if !clock.HasPassedWithBuffer(s.appointmentInstant(a), now, s.cfg.AutoCompleteBuffer) {
			continue
		}

		err := s.repo.Transition(ctx, a.ID, models.OpenStatuses, Changes{
			Status: models.StatusCompleted,
			Expect: &Schedule{Date: a.Date, TimeValue: a.TimeValue},
		})
		switch {
		case err == nil:
			res.Updated++
			metrics.SweepRecords.WithLabelValues("auto_complete", "updated").Inc()
		case errors.Is(err, errStale):
			// Moved or rescheduled by a user transition since the listing.
		default:
			res.Failed++
			metrics.SweepRecords.WithLabelValues("auto_complete", "error").Inc()
			s.log.Error().Err(err).Str("appointment_id", a.ID).Msg("auto-complete failed")
		}
	}

	s.log.Info().Int("examined", res.Examined).Int("completed", res.Updated).Int("failed", res.Failed).Msg("auto-complete sweep")
	return res, nil
}

// SendReminders notifies patients whose appointment falls inside the
// reminder window. Each appointment is claimed before sending, so a reminder
// goes out at most once even with overlapping sweeps.
func (s *Service) SendReminders(ctx context.Context, now time.Time) (SweepResult, error) {
	var res SweepResult

	candidates, err := s.repo.ListReminderCandidates(ctx, clock.StartOfDay(now))
	if err != nil {
		return res, err
	}

	for i := range candidates {
		a := &candidates[i]
		res.Examined++
		if !clock.IsWithinWindow(s.appointmentInstant(a), now, s.cfg.ReminderWindowLower, s.cfg.ReminderWindowUpper) {
			continue
		}

		claimed, err := s.repo.ClaimReminder(ctx, a.ID)
		if err != nil {
			res.Failed++
			metrics.SweepRecords.WithLabelValues("reminder", "error").Inc()
			s.log.Error().Err(err).Str("appointment_id", a.ID).Msg("claiming reminder failed")
			continue
		}
		if !claimed {
			continue
		}

		res.Updated++
		metrics.SweepRecords.WithLabelValues("reminder", "updated").Inc()
		s.notifier.Send(s.message(s.patientEmail(ctx, a), notify.KindAppointmentReminder, a))
	}

	s.log.Info().Int("examined", res.Examined).Int("reminded", res.Updated).Int("failed", res.Failed).Msg("reminder sweep")
	return res, nil
}

// Runner drives both sweeps on fixed intervals.
type Runner struct {
	svc           *Service
	completeEvery time.Duration
	remindEvery   time.Duration
	log           zerolog.Logger
}

func NewRunner(svc *Service, completeEvery, remindEvery time.Duration, log zerolog.Logger) *Runner {
	return &Runner{svc: svc, completeEvery: completeEvery, remindEvery: remindEvery, log: log}
}

// Run blocks until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) {
	complete := time.NewTicker(r.completeEvery)
	defer complete.Stop()
	remind := time.NewTicker(r.remindEvery)
	defer remind.Stop()

	r.log.Info().
		Dur("auto_complete_every", r.completeEvery).
		Dur("reminder_every", r.remindEvery).
		Msg("appointment sweeps started")

	for {
		select {
		case <-ctx.Done():
			r.log.Info().Msg("appointment sweeps stopped")
			return
		case <-complete.C:
			if _, err := r.svc.AutoComplete(ctx, r.svc.now()); err != nil {
				r.log.Error().Err(err).Msg("auto-complete sweep failed")
			}
		case <-remind.C:
			if _, err := r.svc.SendReminders(ctx, r.svc.now()); err != nil {
				r.log.Error().Err(err).Msg("reminder sweep failed")
			}
		}
	}
}

// RunOnce executes both sweeps a single time.
func (r *Runner) RunOnce(ctx context.Context) (completed, reminded SweepResult, err error) {
	now := r.svc.now()
	if completed, err = r.svc.AutoComplete(ctx, now); err != nil {
		return completed, reminded, err
	}
	reminded, err = r.svc.SendReminders(ctx, now)
	return completed, reminded, err
}
