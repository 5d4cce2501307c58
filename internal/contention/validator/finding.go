package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"lockwatch/pkg/logger"
	"lockwatch/pkg/model"

	"github.com/go-playground/validator/v10"
)

var (
	cycleKeyRegex = regexp.MustCompile(`^\d+(-\d+)+$`)
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

// FindingValidator guards the persistence boundary: every finding the
// engine produces is checked before it is written or published, so a
// scoring or detection bug surfaces as a failed pass instead of corrupt
// dashboard data.
type FindingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewFindingValidator(log *logger.Logger) *FindingValidator {
	v := validator.New()

	if err := v.RegisterValidation("cycle_key", validateCycleKey); err != nil {
		log.Fatal("Failed to register 'cycle_key' validator",
			"error", err,
		)
	}

	log.Info("Finding validator initialized successfully")

	return &FindingValidator{
		validate: v,
		logger:   log,
	}
}

func validateCycleKey(fl validator.FieldLevel) bool {
	return cycleKeyRegex.MatchString(fl.Field().String())
}

func (v *FindingValidator) ValidateDeadlock(event *model.DeadlockEvent) error {
	if err := v.validate.Struct(event); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	victimInCycle := false
	for _, id := range event.SessionIDs {
		if id == event.VictimSessionID {
			victimInCycle = true
			break
		}
	}
	if !victimInCycle {
		return ValidationErrors{
			ValidationError{
				Field:   "VictimSessionID",
				Message: fmt.Sprintf("victim session %d is not part of the cycle", event.VictimSessionID),
			},
		}
	}

	if event.Status == model.DeadlockResolved && event.ResolvedAt == nil {
		return ValidationErrors{
			ValidationError{
				Field:   "ResolvedAt",
				Message: "resolved events must carry a resolution timestamp",
			},
		}
	}

	return nil
}

func (v *FindingValidator) ValidateWindow(window *model.AnalysisWindow) error {
	if err := v.validate.Struct(window); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if window.PeriodEnd.Before(window.PeriodStart) {
		return ValidationErrors{
			ValidationError{
				Field:   "PeriodEnd",
				Message: "period_end must not precede period_start",
			},
		}
	}

	return nil
}

func (v *FindingValidator) ValidateAlert(alert *model.AlertEvent) error {
	if err := v.validate.Struct(alert); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *FindingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "uuid4":
			message = fmt.Sprintf("%s must be a valid UUID", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "cycle_key":
			message = fmt.Sprintf("%s must be dash-joined session ids", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
