package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator checks a loaded configuration against its struct tags plus the
// estimator's own rules
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator with the custom tags registered:
//
//	redisurl  empty, or a redis:// or rediss:// URL with a host
func NewValidator() *Validator {
	v := validator.New()
	_ = v.RegisterValidation("redisurl", validateRedisURL)
	v.RegisterStructValidation(validateDatabase, DatabaseConfig{})
	return &Validator{validate: v}
}

// Validate validates a struct using validation tags
func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func validateRedisURL(fl validator.FieldLevel) bool {
	raw := fl.Field().String()
	if raw == "" {
		return true
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "redis" || u.Scheme == "rediss") && u.Host != ""
}

// validateDatabase requires a postgres URL to carry a postgres scheme; a
// keyword DSN belongs in the individual fields instead
func validateDatabase(sl validator.StructLevel) {
	db := sl.Current().Interface().(DatabaseConfig)
	if db.Type != "postgres" || db.URL == "" {
		return
	}
	u, err := url.Parse(db.URL)
	if err != nil || (u.Scheme != "postgres" && u.Scheme != "postgresql") {
		sl.ReportError(db.URL, "URL", "URL", "postgresurl", "")
	}
}

// secretFields never have their values echoed in errors
var secretFields = map[string]bool{"Password": true, "URL": true, "RedisURL": true}

// formatValidationError lists every failed field on its own line
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}
	messages := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		rule := e.Tag()
		if e.Param() != "" {
			rule += "=" + e.Param()
		}
		if secretFields[e.StructField()] {
			messages = append(messages, fmt.Sprintf("%s failed %s", e.Namespace(), rule))
			continue
		}
		messages = append(messages, fmt.Sprintf("%s failed %s (value: '%v')", e.Namespace(), rule, e.Value()))
	}
	return fmt.Errorf("validation failed:\n  %s", strings.Join(messages, "\n  "))
}

// ValidateConfig validates the entire configuration
func ValidateConfig(cfg *Config) error {
	return NewValidator().Validate(cfg)
}
