package db

import (
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
)

// DefaultDateLayout is the text form of deployment dates (DD/MM/YYYY)
const DefaultDateLayout = "02/01/2006"

var clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// IsClock reports whether s is a well-formed "HH:MM" time of day
func IsClock(s string) bool {
	return clockPattern.MatchString(s)
}

// NewValidator returns a validator with the custom tags used by the input types:
// hhmm (time of day) and shiftdate (date in the given layout)
func NewValidator(dateLayout string) *validator.Validate {
	if dateLayout == "" {
		dateLayout = DefaultDateLayout
	}

	v := validator.New()
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return IsClock(fl.Field().String())
	})
	_ = v.RegisterValidation("shiftdate", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(dateLayout, fl.Field().String())
		return err == nil
	})
	return v
}
