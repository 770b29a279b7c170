package config

import (
	"fmt"

	"github.com/Zachkp/portfolio/internal/jobs"
)

// ValidationError reports a single invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	if c.Service.Port < 1 || c.Service.Port > 65535 {
		return &ValidationError{Field: "service.port", Message: "must be between 1 and 65535"}
	}
	if c.Content.ImageWidth < 1 {
		return &ValidationError{Field: "content.image_width", Message: "must be positive"}
	}
	if c.Contact.PerMinute < 1 || c.Contact.Burst < 1 {
		return &ValidationError{Field: "contact", Message: "per_minute and burst must be positive"}
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error", "fatal":
	default:
		return &ValidationError{Field: "logging.level", Message: "must be one of: debug, info, warn, error, fatal"}
	}

	if c.Analytics.Enabled {
		if _, err := jobs.Parser.Parse(c.Analytics.CleanupSchedule); err != nil {
			return &ValidationError{Field: "analytics.cleanup_schedule", Message: err.Error()}
		}
		if c.Analytics.Retention <= 0 {
			return &ValidationError{Field: "analytics.retention", Message: "must be positive"}
		}
	}

	return nil
}
