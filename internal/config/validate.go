package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/secret-garden/garden/internal/breathing"
	"github.com/secret-garden/garden/internal/gamification"
)

var (
	validate *validator.Validate
	once     sync.Once
)

func getValidator() *validator.Validate {
	once.Do(initValidator)
	return validate
}

func initValidator() {
	validate = validator.New()
	_ = validate.RegisterValidation("ascending", ascending)
	_ = validate.RegisterValidation("metric", knownMetric)
	_ = validate.RegisterValidation("breathing_pattern", breathingPattern)
}

// ascending accepts an int slice that starts at 0 and strictly increases.
func ascending(fl validator.FieldLevel) bool {
	f := fl.Field()
	if f.Kind() != reflect.Slice || f.Len() == 0 || f.Index(0).Int() != 0 {
		return false
	}
	for i := 1; i < f.Len(); i++ {
		if f.Index(i).Int() <= f.Index(i-1).Int() {
			return false
		}
	}
	return true
}

func knownMetric(fl validator.FieldLevel) bool {
	m := gamification.Metric(fl.Field().String())
	for _, known := range gamification.Metrics {
		if m == known {
			return true
		}
	}
	return false
}

func breathingPattern(fl validator.FieldLevel) bool {
	_, err := breathing.ParsePattern(fl.Field().String())
	return err == nil
}

// Validate checks the whole configuration and reports every problem found.
func (c *Config) Validate() error {
	err := getValidator().Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, prettyError(e))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func prettyError(e validator.FieldError) string {
	field := strings.TrimPrefix(e.Namespace(), "Config.")
	switch e.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, e.Param())
	case "min":
		return fmt.Sprintf("%s needs at least %s entries", field, e.Param())
	case "gt", "gte":
		return fmt.Sprintf("%s must be %s %s", field, map[string]string{"gt": ">", "gte": ">="}[e.Tag()], e.Param())
	case "ascending":
		return field + " must start at 0 and strictly increase"
	case "unique":
		return fmt.Sprintf("%s has duplicate %s values", field, e.Param())
	case "metric":
		return fmt.Sprintf("%s %q is not a known metric", field, e.Value())
	case "breathing_pattern":
		return fmt.Sprintf("%s %q is not a breathing pattern", field, e.Value())
	case "timezone":
		return fmt.Sprintf("%s %q is not a known timezone", field, e.Value())
	default:
		return e.Error()
	}
}
