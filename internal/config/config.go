package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Config holds all configuration for the application.
type Config struct {
	Port                      string
	Origin                    string
	Environment               string
	LogLevel                  string
	JWTSecret                 string
	JWTRefreshSecret          string
	JWTExpirationMinutes      int
	JWTRefreshExpirationHours int
	ActionTokenSecret         string
	ActionTokenTTL            time.Duration
	Database                  DatabaseConfig
	Mailer                    MailerConfig
	Kafka                     KafkaConfig
	UploadsDir                string
	AppURL                    string
	ClinicName                string
	Sweep                     SweepConfig
	CancelNotice              time.Duration
}

// DatabaseConfig holds database connection details.
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	DSN      string
}

// MailerConfig selects and configures the notification transport.
type MailerConfig struct {
	Transport    string
	DefaultFrom  string
	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	// CopyTo receives a copy of every prescription email.
	CopyTo string
}

type KafkaConfig struct {
	Brokers string
	Topic   string
}

// SweepConfig holds the background sweep schedule and windows.
type SweepConfig struct {
	AutoCompleteInterval time.Duration
	ReminderInterval     time.Duration
	AutoCompleteBuffer   time.Duration
	ReminderWindowLower  time.Duration
	ReminderWindowUpper  time.Duration
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "3306"),
		Username: getEnv("DB_USERNAME", "root"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "hospital"),
	}
	dbConfig.DSN = buildDSN(dbConfig)

	transport := strings.ToLower(getEnv("MAILER_TRANSPORT", "log"))
	switch transport {
	case "log", "smtp", "kafka":
	default:
		return nil, fmt.Errorf("invalid MAILER_TRANSPORT: %q", transport)
	}
	mailerConfig := MailerConfig{
		Transport:    transport,
		DefaultFrom:  getEnv("MAILER_DEFAULT_FROM", "no-reply@clinic.local"),
		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		CopyTo:       getEnv("DOCTOR_EMAIL", ""),
	}

	kafkaConfig := KafkaConfig{
		Brokers: getEnv("KAFKA_BROKERS", "localhost:9092"),
		Topic:   getEnv("KAFKA_TOPIC", "clinic-notifications"),
	}

	jwtExpMinutes, err := strconv.Atoi(getEnv("JWT_EXPIRATION_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION_MINUTES: %w", err)
	}

	jwtRefreshExpHours, err := strconv.Atoi(getEnv("JWT_REFRESH_EXPIRATION_HOURS", "168"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_REFRESH_EXPIRATION_HOURS: %w", err)
	}

	actionTTL, err := getDuration("ACTION_TOKEN_TTL", "168h")
	if err != nil {
		return nil, err
	}
	cancelNotice, err := getDuration("CANCEL_NOTICE", "24h")
	if err != nil {
		return nil, err
	}

	var sweep SweepConfig
	for _, d := range []struct {
		key string
		def string
		dst *time.Duration
	}{
		{"SWEEP_AUTO_COMPLETE_INTERVAL", "15m", &sweep.AutoCompleteInterval},
		{"SWEEP_REMINDER_INTERVAL", "30m", &sweep.ReminderInterval},
		{"SWEEP_AUTO_COMPLETE_BUFFER", "30m", &sweep.AutoCompleteBuffer},
		{"SWEEP_REMINDER_WINDOW_LOWER", "23h", &sweep.ReminderWindowLower},
		{"SWEEP_REMINDER_WINDOW_UPPER", "25h", &sweep.ReminderWindowUpper},
	} {
		if *d.dst, err = getDuration(d.key, d.def); err != nil {
			return nil, err
		}
	}
	if sweep.ReminderWindowLower >= sweep.ReminderWindowUpper {
		return nil, fmt.Errorf("invalid SWEEP_REMINDER_WINDOW_LOWER: must be below SWEEP_REMINDER_WINDOW_UPPER")
	}

	return &Config{
		Port:                      getEnv("PORT", "3001"),
		Origin:                    getEnv("ORIGIN", "http://localhost:4200"),
		Environment:               getEnv("APP_ENV", "development"),
		LogLevel:                  getEnv("LOG_LEVEL", "info"),
		JWTSecret:                 getEnv("JWT_SECRET", "default_jwt_secret"),
		JWTRefreshSecret:          getEnv("JWT_REFRESH_SECRET", "default_refresh_secret"),
		JWTExpirationMinutes:      jwtExpMinutes,
		JWTRefreshExpirationHours: jwtRefreshExpHours,
		ActionTokenSecret:         getEnv("ACTION_TOKEN_SECRET", "default_action_secret"),
		ActionTokenTTL:            actionTTL,
		Database:                  dbConfig,
		Mailer:                    mailerConfig,
		Kafka:                     kafkaConfig,
		UploadsDir:                getEnv("UPLOADS_DIR", "uploads"),
		AppURL:                    strings.TrimRight(getEnv("APP_URL", "http://localhost:3001"), "/"),
		ClinicName:                getEnv("CLINIC_NAME", "Ayurvedic Clinic"),
		Sweep:                     sweep,
		CancelNotice:              cancelNotice,
	}, nil
}

// buildDSN formats the MySQL DSN. ClientFoundRows makes an update that
// changes nothing still report its matched row.
func buildDSN(db DatabaseConfig) string {
	cfg := mysql.NewConfig()
	cfg.User = db.Username
	cfg.Passwd = db.Password
	cfg.Net = "tcp"
	cfg.Addr = db.Host + ":" + db.Port
	cfg.DBName = db.Name
	cfg.ParseTime = true
	cfg.Loc = time.Local
	cfg.ClientFoundRows = true
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN()
}

func getDuration(key, defaultValue string) (time.Duration, error) {
	v, err := time.ParseDuration(getEnv(key, defaultValue))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return v, nil
}

// getEnv returns the environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
