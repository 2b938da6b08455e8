// Package app assembles the services from configuration. Every cobra
// command builds one App and closes it on exit.
package app

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/SamarthKalavadia/hospital-management-system/internal/appointments"
	"github.com/SamarthKalavadia/hospital-management-system/internal/config"
	"github.com/SamarthKalavadia/hospital-management-system/internal/directory"
	"github.com/SamarthKalavadia/hospital-management-system/internal/inventory"
	"github.com/SamarthKalavadia/hospital-management-system/internal/logger"
	"github.com/SamarthKalavadia/hospital-management-system/internal/models"
	"github.com/SamarthKalavadia/hospital-management-system/internal/notify"
	"github.com/SamarthKalavadia/hospital-management-system/internal/prescriptions"
	"github.com/SamarthKalavadia/hospital-management-system/internal/records"
	"github.com/SamarthKalavadia/hospital-management-system/internal/render"
	"github.com/SamarthKalavadia/hospital-management-system/internal/utils"
)

const notifyTimeout = 30 * time.Second

type App struct {
	Config        *config.Config
	Log           zerolog.Logger
	DB            *gorm.DB
	Directory     *directory.Store
	Records       *records.Store
	Notifier      *notify.Dispatcher
	Appointments  *appointments.Service
	Sweeps        *appointments.Runner
	Catalogue     *inventory.Catalogue
	Medicines     *inventory.GormStore
	Prescriptions *prescriptions.Service
	Deliverer     *prescriptions.Deliverer

	closers []io.Closer
}

// New connects to the database and wires every service.
func New(cfg *config.Config, log zerolog.Logger) (*App, error) {
	db, err := models.InitDB(models.DatabaseConfig{DSN: cfg.Database.DSN, LogLevel: cfg.LogLevel})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return Wire(cfg, log, db)
}

// Wire builds the services on an open database.
func Wire(cfg *config.Config, log zerolog.Logger, db *gorm.DB) (*App, error) {
	a := &App{Config: cfg, Log: log, DB: db}

	next, err := a.transport()
	if err != nil {
		return nil, err
	}
	a.Notifier = notify.NewDispatcher(next, logger.Component(log, "notify"), notifyTimeout)
	a.Directory = directory.NewStore(db)
	a.Records = records.NewStore(db)

	apptCfg := appointments.Config{
		CancelNotice:        cfg.CancelNotice,
		AutoCompleteBuffer:  cfg.Sweep.AutoCompleteBuffer,
		ReminderWindowLower: cfg.Sweep.ReminderWindowLower,
		ReminderWindowUpper: cfg.Sweep.ReminderWindowUpper,
		ActionBaseURL:       cfg.AppURL + "/api/v1/appointments/action",
	}
	tokens := utils.NewActionTokenIssuer(cfg.ActionTokenSecret, cfg.ActionTokenTTL)
	apptLog := logger.Component(log, "appointments")
	a.Appointments = appointments.NewService(appointments.NewGormRepository(db), a.Directory, a.Notifier, tokens, apptCfg, nil, apptLog)
	a.Sweeps = appointments.NewRunner(a.Appointments, cfg.Sweep.AutoCompleteInterval, cfg.Sweep.ReminderInterval, logger.Component(log, "sweeps"))

	a.Medicines = inventory.NewGormStore(db)
	a.Catalogue = inventory.NewCatalogue(a.Medicines, logger.Component(log, "inventory"))

	rxLog := logger.Component(log, "prescriptions")
	rxStore := prescriptions.NewGormStore(db)
	files := render.NewFileStore(cfg.UploadsDir)
	a.Deliverer = prescriptions.NewDeliverer(rxStore, a.Directory, render.NewPDFRenderer(cfg.ClinicName), files, a.Notifier, rxLog)
	a.Prescriptions = prescriptions.NewService(rxStore, a.Directory, a.Deliverer, nil, rxLog)

	return a, nil
}

// transport picks the notification adapter named by MAILER_TRANSPORT.
func (a *App) transport() (notify.Notifier, error) {
	m := a.Config.Mailer
	switch m.Transport {
	case "smtp":
		if m.SMTPHost == "" {
			return nil, fmt.Errorf("smtp transport requires SMTP_HOST")
		}
		return notify.NewSMTPNotifier(notify.SMTPConfig{
			Host:     m.SMTPHost,
			Port:     m.SMTPPort,
			Username: m.SMTPUser,
			Password: m.SMTPPassword,
			From:     m.DefaultFrom,
			CopyTo:   m.CopyTo,
		}), nil
	case "kafka":
		k, err := notify.NewKafkaNotifier(a.Config.Kafka.Brokers, a.Config.Kafka.Topic)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, k)
		return k, nil
	}
	return notify.NewLogNotifier(logger.Component(a.Log, "mailer")), nil
}

// Close waits for background deliveries and releases connections.
func (a *App) Close() error {
	a.Deliverer.Wait()
	a.Notifier.Wait()
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.Log.Warn().Err(err).Msg("close failed")
		}
	}
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
