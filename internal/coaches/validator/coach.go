package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"coachly/pkg/logger"
	"coachly/pkg/model"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type CoachValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewCoachValidator(log *logger.Logger) *CoachValidator {
	v := validator.New()

	if err := v.RegisterValidation("time_of_day", validateTimeOfDay); err != nil {
		log.Fatal("Failed to register 'time_of_day' validator", "error", err)
	}

	log.Info("Coach validator initialized successfully")

	return &CoachValidator{
		validate: v,
		logger:   log,
	}
}

func validateTimeOfDay(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	if s == "" {
		return false
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}

// Validate runs struct validation plus the cross-field checks the tags
// cannot express: every availability window must end after it starts.
func (v *CoachValidator) Validate(coach *model.CoachProfile) error {
	if err := v.validate.Struct(coach); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	var windowErrs ValidationErrors
	for i, rule := range coach.Availability {
		if !windowEndsAfterStart(rule) {
			windowErrs = append(windowErrs, ValidationError{
				Field:   fmt.Sprintf("availability[%d]", i),
				Message: "end_time must be after start_time",
			})
		}
	}
	if len(windowErrs) > 0 {
		return windowErrs
	}
	return nil
}

func windowEndsAfterStart(rule model.WeeklyAvailability) bool {
	start, err := time.Parse("15:04", strings.TrimSpace(rule.StartTime))
	if err != nil {
		return false
	}
	end, err := time.Parse("15:04", strings.TrimSpace(rule.EndTime))
	if err != nil {
		return false
	}
	return end.After(start)
}

func (v *CoachValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s characters", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "time_of_day":
			message = fmt.Sprintf("%s must be in HH:MM 24-hour format", err.Field())
		case "timezone":
			message = fmt.Sprintf("%s must be a valid IANA timezone name", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
