package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "TASKMINDER"

const (
	MailTransportLog      = "log"
	MailTransportPostmark = "postmark"
	MailTransportSMTP     = "smtp"
)

type Config struct {
	Port      string
	DBPath    string
	LogLevel  string
	LogFormat string
	BaseURL   string
	Location  *time.Location

	SessionTTL     time.Duration
	AllowedOrigins []string

	SchedulerEnabled bool
	ReminderInterval time.Duration
	ReminderWindow   time.Duration
	SummaryHour      int
	SummaryMinute    int

	Mail Mail
}

type Mail struct {
	Transport      string
	From           string
	PostmarkToken  string
	PostmarkStream string
	SMTPHost       string
	SMTPPort       int
	SMTPUsername   string
	SMTPPassword   string
}

// Load reads configuration from TASKMINDER_* environment variables,
// falling back to defaults. Malformed values are errors rather than
// silently replaced.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	// VERCEL is set by the platform itself and carries no prefix.
	if err := v.BindEnv("vercel", "VERCEL"); err != nil {
		return nil, fmt.Errorf("bind VERCEL: %w", err)
	}

	v.SetDefault("port", "8080")
	v.SetDefault("db_path", "taskminder.db")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("base_url", "http://localhost:8080")
	v.SetDefault("timezone", "Local")
	v.SetDefault("session_ttl", "720h")
	v.SetDefault("allowed_origins", "")
	v.SetDefault("scheduler_enabled", strconv.FormatBool(v.GetString("vercel") == ""))
	v.SetDefault("reminder_interval", "30m")
	v.SetDefault("reminder_window", "1h")
	v.SetDefault("daily_summary_at", "07:00")
	v.SetDefault("mail_transport", MailTransportLog)
	v.SetDefault("mail_from", "")
	v.SetDefault("postmark_token", "")
	v.SetDefault("postmark_stream", "outbound")
	v.SetDefault("smtp_host", "")
	v.SetDefault("smtp_port", "587")
	v.SetDefault("smtp_username", "")
	v.SetDefault("smtp_password", "")

	cfg := &Config{
		Port:      v.GetString("port"),
		DBPath:    v.GetString("db_path"),
		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),
		BaseURL:   strings.TrimRight(v.GetString("base_url"), "/"),
		Mail: Mail{
			Transport:      strings.ToLower(strings.TrimSpace(v.GetString("mail_transport"))),
			From:           v.GetString("mail_from"),
			PostmarkToken:  v.GetString("postmark_token"),
			PostmarkStream: v.GetString("postmark_stream"),
			SMTPHost:       v.GetString("smtp_host"),
			SMTPUsername:   v.GetString("smtp_username"),
			SMTPPassword:   v.GetString("smtp_password"),
		},
	}

	var err error
	if cfg.Location, err = time.LoadLocation(v.GetString("timezone")); err != nil {
		return nil, fmt.Errorf("TASKMINDER_TIMEZONE: %w", err)
	}
	if cfg.SessionTTL, err = positiveDuration(v, "session_ttl"); err != nil {
		return nil, err
	}
	if cfg.ReminderInterval, err = positiveDuration(v, "reminder_interval"); err != nil {
		return nil, err
	}
	if cfg.ReminderWindow, err = positiveDuration(v, "reminder_window"); err != nil {
		return nil, err
	}
	if cfg.SchedulerEnabled, err = strconv.ParseBool(v.GetString("scheduler_enabled")); err != nil {
		return nil, fmt.Errorf("TASKMINDER_SCHEDULER_ENABLED: %w", err)
	}
	if cfg.SummaryHour, cfg.SummaryMinute, err = ParseClock(v.GetString("daily_summary_at")); err != nil {
		return nil, fmt.Errorf("TASKMINDER_DAILY_SUMMARY_AT: %w", err)
	}
	if cfg.Mail.SMTPPort, err = strconv.Atoi(v.GetString("smtp_port")); err != nil {
		return nil, fmt.Errorf("TASKMINDER_SMTP_PORT: %w", err)
	}
	for _, o := range strings.Split(v.GetString("allowed_origins"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	if err := cfg.Mail.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func positiveDuration(v *viper.Viper, key string) (time.Duration, error) {
	name := envPrefix + "_" + strings.ToUpper(key)
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s: must be positive", name)
	}
	return d, nil
}

// ParseClock parses a 24-hour "HH:MM" time of day.
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, 0, fmt.Errorf("want HH:MM, got %q", s)
	}
	return t.Hour(), t.Minute(), nil
}

func (m Mail) validate() error {
	switch m.Transport {
	case MailTransportLog:
		return nil
	case MailTransportPostmark:
		if m.PostmarkToken == "" {
			return fmt.Errorf("TASKMINDER_POSTMARK_TOKEN is required for the postmark transport")
		}
	case MailTransportSMTP:
		if m.SMTPHost == "" {
			return fmt.Errorf("TASKMINDER_SMTP_HOST is required for the smtp transport")
		}
	default:
		return fmt.Errorf("TASKMINDER_MAIL_TRANSPORT: unknown transport %q", m.Transport)
	}
	if m.From == "" {
		return fmt.Errorf("TASKMINDER_MAIL_FROM is required for the %s transport", m.Transport)
	}
	return nil
}
