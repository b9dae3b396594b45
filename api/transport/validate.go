package transport

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/fastygo/taskmanager/domain"
)

// Client-facing validation messages.
const (
	MsgTitleMandatory    = "Title is mandatory"
	MsgStatusInvalid     = "Status must be 'Pending', 'In Progress', or 'Completed'"
	MsgFirstNameRequired = "First name is mandatory"
	MsgLastNameRequired  = "Last name is mandatory"
	MsgTimezoneRequired  = "Timezone is mandatory"
	MsgTimezoneInvalid   = "Timezone must be a valid IANA time zone"
	MsgMalformedBody     = "Malformed JSON request"
)

var messages = map[string]string{
	"title.notblank":     MsgTitleMandatory,
	"status.taskstatus":  MsgStatusInvalid,
	"firstName.notblank": MsgFirstNameRequired,
	"lastName.notblank":  MsgLastNameRequired,
	"timezone.notblank":  MsgTimezoneRequired,
	"timezone.timezone":  MsgTimezoneInvalid,
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("taskstatus", func(fl validator.FieldLevel) bool {
		return domain.ValidStatus(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// Validate checks v against its validate tags and reports the first failing
// field as an invalid domain error.
func Validate(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return domain.Invalid(message(fieldErrs[0]))
	}
	return domain.WrapError(domain.ErrCodeInvalid, "invalid request", err)
}

func message(fe validator.FieldError) string {
	if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	return fe.Field() + " is invalid"
}

// ParseZone resolves the optional timezone query parameter. An empty value
// yields a nil location. Callers treat a failure as a missing hint.
func ParseZone(raw string) (*time.Location, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if err := validate.Var(raw, "timezone"); err != nil {
		return nil, domain.Invalid(MsgTimezoneInvalid)
	}
	loc, err := time.LoadLocation(raw)
	if err != nil {
		return nil, domain.Invalid(MsgTimezoneInvalid)
	}
	return loc, nil
}
