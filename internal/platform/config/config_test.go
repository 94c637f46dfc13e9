package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/trainhub")
	t.Setenv("REMINDER_LEAD_TIME", "")
	t.Setenv("FEEDBACK_WINDOW_HOURS", "")

	cfg := Load()
	if cfg.ReminderLeadTime != 14*24*time.Hour {
		t.Fatalf("expected two week lead time, got %s", cfg.ReminderLeadTime)
	}
	if cfg.FeedbackWindowHours != 5 {
		t.Fatalf("expected 5 hour feedback window, got %d", cfg.FeedbackWindowHours)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestLoadOverridesAndFallbacks(t *testing.T) {
	t.Setenv("REMINDER_INTERVAL", "15m")
	t.Setenv("SMTP_PORT", "not-a-number")
	t.Setenv("EMAIL_ENABLED", "true")

	cfg := Load()
	if cfg.ReminderInterval != 15*time.Minute {
		t.Fatalf("expected override, got %s", cfg.ReminderInterval)
	}
	if cfg.SMTPPort != 587 {
		t.Fatalf("expected fallback port, got %d", cfg.SMTPPort)
	}
	if !cfg.EmailEnabled {
		t.Fatal("expected email enabled")
	}
}

func TestValidate(t *testing.T) {
	base := Config{
		DatabaseURL:         "postgres://localhost/trainhub",
		TokenTTL:            time.Hour,
		MaxBodyBytes:        4096,
		RateLimitPerMinute:  60,
		ReminderInterval:    time.Hour,
		ReminderLeadTime:    time.Hour,
		FeedbackWindowHours: 5,
		ScheduleTimezone:    "UTC",
	}
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"missing database url", func(c *Config) { c.DatabaseURL = "" }},
		{"production without secret", func(c *Config) { c.Environment = "production" }},
		{"email without host", func(c *Config) { c.EmailEnabled = true }},
		{"unknown zone", func(c *Config) { c.ScheduleTimezone = "Mars/Olympus" }},
		{"zero feedback window", func(c *Config) { c.FeedbackWindowHours = 0 }},
		{"tiny body limit", func(c *Config) { c.MaxBodyBytes = 10 }},
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("base config should validate: %v", err)
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
