package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/ISB-BookingService/pkg/types"
)

// ErrValidation базовая ошибка валидации структуры
var ErrValidation = errors.New("validation failed")

// Error ошибки валидации по полям (имена полей из json тегов)
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	msgs := make([]string, 0, len(names))
	for _, name := range names {
		msgs = append(msgs, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return strings.Join(msgs, "; ")
}

func (e *Error) Unwrap() error {
	return ErrValidation
}

// Validator обертка над go-playground/validator с доменными тегами
type Validator struct {
	validate *validator.Validate
}

// New создает валидатор
// Дополнительные теги:
// - time_window: окно "HH:MM-HH:MM"
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("time_window", func(fl validator.FieldLevel) bool {
		_, err := types.ParseTimeWindow(fl.Field().String())
		return err == nil
	})

	return &Validator{validate: v}
}

// Struct валидирует структуру, возвращает *Error или nil
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	out := &Error{Fields: make(map[string]string, len(fieldErrors))}
	for _, fe := range fieldErrors {
		out.Fields[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required"
	case "email":
		return "invalid email format"
	case "max":
		return fmt.Sprintf("maximum length is %s", fe.Param())
	case "datetime":
		return "invalid date, expected YYYY-MM-DD"
	case "time_window":
		return "invalid time window, expected HH:MM-HH:MM"
	default:
		return fmt.Sprintf("failed on %s", fe.Tag())
	}
}
