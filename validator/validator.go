package validator

import (
	stderrors "errors"
	"fmt"
	"regexp"
	"strings"

	"munaybol/constants"
	"munaybol/errors"
	"munaybol/models"

	"github.com/gin-gonic/gin/binding"
	playground "github.com/go-playground/validator/v10"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// RegisterBindings adds the custom tags used in request DTOs to gin's validator
func RegisterBindings() error {
	v, ok := binding.Validator.Engine().(*playground.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	if err := v.RegisterValidation("fecha", isDate); err != nil {
		return err
	}
	return v.RegisterValidation("rol", isRole)
}

func isDate(fl playground.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	_, err := models.ParseDate(s)
	return err == nil
}

func isRole(fl playground.FieldLevel) bool {
	s := fl.Field().String()
	return s == "" || s == constants.RoleUser || s == constants.RoleSuperAdmin
}

// BindingError turns gin binding failures into a 400 AppError with a readable message
func BindingError(err error) *errors.AppError {
	var verrs playground.ValidationErrors
	if stderrors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := jsonName(fe.Field())
		switch fe.Tag() {
		case "required":
			return errors.NewAppError(errors.ErrCodeRequiredField, fmt.Sprintf("El campo %s es obligatorio.", field), err)
		case "email":
			return errors.NewAppError(errors.ErrCodeInvalidEmail, "Correo electrónico inválido.", err)
		case "fecha":
			return errors.NewAppError(errors.ErrCodeInvalidFormat, fmt.Sprintf("%s: formato de fecha inválido, use AAAA-MM-DD.", field), err)
		case "min", "max", "gte", "lte":
			return errors.NewAppError(errors.ErrCodeValidation, fmt.Sprintf("El campo %s está fuera de rango.", field), err)
		default:
			return errors.NewAppError(errors.ErrCodeValidation, fmt.Sprintf("El campo %s no es válido.", field), err)
		}
	}
	return errors.NewAppError(errors.ErrCodeInvalidFormat, "Cuerpo de la solicitud inválido.", err)
}

func jsonName(field string) string {
	var b strings.Builder
	for i, r := range field {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte('_')
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}

// ParseDateParam parses an optional YYYY-MM-DD value, returning def when empty
func ParseDateParam(name, value string, def models.Date) (models.Date, error) {
	if strings.TrimSpace(value) == "" {
		return def, nil
	}
	d, err := models.ParseDate(value)
	if err != nil {
		return models.Date{}, errors.NewAppError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("%s: formato de fecha inválido, use AAAA-MM-DD.", name), err)
	}
	return d, nil
}

// ValidateRange rejects windows whose end precedes their start
func ValidateRange(from, to models.Date) error {
	if to.Before(from) {
		return errors.NewAppError(errors.ErrCodeInvertedRange, "La fecha 'hasta' no puede ser anterior a 'desde'.", nil)
	}
	return nil
}

// ValidateReservationDates checks a reservation interval
func ValidateReservationDates(start, end models.Date) error {
	if start.IsZero() {
		return errors.NewAppError(errors.ErrCodeRequiredField, "El campo fecha_reserva es obligatorio.", nil)
	}
	if end.IsZero() {
		return errors.NewAppError(errors.ErrCodeRequiredField, "El campo fecha_caducidad es obligatorio.", nil)
	}
	if end.Before(start) {
		return errors.NewAppError(errors.ErrCodeInvertedRange, "La fecha_caducidad no puede ser anterior a fecha_reserva.", nil)
	}
	return nil
}

// ValidateRegistration checks email and password of a new account
func ValidateRegistration(email, password string) error {
	if strings.TrimSpace(email) == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "El campo correo es obligatorio.", nil)
	}
	if !IsValidEmail(email) {
		return errors.NewAppError(errors.ErrCodeInvalidEmail, "Correo electrónico inválido.", nil)
	}
	return ValidatePassword(password)
}

func ValidatePassword(password string) error {
	if len(password) < 6 {
		return errors.NewAppError(errors.ErrCodeValidation, "La contraseña debe tener al menos 6 caracteres.", nil)
	}
	return nil
}

func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidateReview enforces rating bounds and a single target
func ValidateReview(r *models.Review) error {
	if r.Calificacion < 1 || r.Calificacion > 5 {
		return errors.NewAppError(errors.ErrCodeValidation, "La calificación debe estar entre 1 y 5.", nil)
	}
	if r.TargetCount() != 1 {
		return errors.NewAppError(errors.ErrCodeValidation, "Debe indicar exactamente uno: hotel, lugar turístico o paquete.", nil)
	}
	return nil
}

// ValidatePaymentStatus accepts only known payment states
func ValidatePaymentStatus(status string) error {
	switch status {
	case constants.PaymentPending, constants.PaymentCompleted, constants.PaymentRejected:
		return nil
	}
	return errors.NewAppError(errors.ErrCodeValidation, "Estado de pago inválido.", nil)
}
