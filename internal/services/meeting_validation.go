package services

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"meetings-api/internal/domain/meeting"
	apperrors "meetings-api/pkg/errors"

	"github.com/go-playground/validator/v10"
)

const (
	msgRequired = "This field is required."
	msgBlank    = "This field may not be blank."
)

// MeetingInput carries client-writable meeting fields. A nil pointer means
// the field was absent from the payload.
type MeetingInput struct {
	Agenda      *string
	Description *string
	Status      *string
	Date        *string
	StartTime   *string
	MeetingURL  *string
}

// meetingFields is the flattened form the validator runs over.
type meetingFields struct {
	Agenda      string `json:"agenda" validate:"required,max=255"`
	Description string `json:"description"`
	Status      string `json:"status" validate:"required,meeting_status"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime   string `json:"start_time" validate:"required,time_of_day"`
	MeetingURL  string `json:"meeting_url" validate:"required,max=200,absolute_url"`
}

var meetingValidator = newMeetingValidator()

func newMeetingValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v, "meeting_status", func(fl validator.FieldLevel) bool {
		_, ok := meeting.ParseStatus(fl.Field().String())
		return ok
	})
	mustRegister(v, "time_of_day", func(fl validator.FieldLevel) bool {
		_, err := meeting.ParseTimeOfDay(fl.Field().String())
		return err == nil
	})
	mustRegister(v, "absolute_url", func(fl validator.FieldLevel) bool {
		u, err := url.Parse(fl.Field().String())
		return err == nil && u.Scheme != "" && u.Host != ""
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// ValidateMeetingInput checks in and returns a ValidationError listing every
// offending field. With partial set only the supplied fields are checked.
func ValidateMeetingInput(in MeetingInput, partial bool) error {
	fields, present := flattenMeetingInput(in)

	var err error
	if partial {
		if len(present) == 0 {
			return nil
		}
		err = meetingValidator.StructPartial(fields, present...)
	} else {
		err = meetingValidator.Struct(fields)
	}
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	supplied := make(map[string]bool, len(present))
	for _, name := range present {
		supplied[name] = true
	}

	verr := apperrors.NewValidationError("invalid meeting")
	for _, fe := range fieldErrs {
		verr.Add(fe.Field(), fieldMessage(fe, supplied[fe.StructField()]))
	}
	return verr
}

func flattenMeetingInput(in MeetingInput) (meetingFields, []string) {
	var (
		out     meetingFields
		present []string
	)
	set := func(src *string, dst *string, name string) {
		if src == nil {
			return
		}
		*dst = *src
		present = append(present, name)
	}
	set(in.Agenda, &out.Agenda, "Agenda")
	set(in.Description, &out.Description, "Description")
	set(in.Status, &out.Status, "Status")
	set(in.Date, &out.Date, "Date")
	set(in.StartTime, &out.StartTime, "StartTime")
	set(in.MeetingURL, &out.MeetingURL, "MeetingURL")
	return out, present
}

func fieldMessage(fe validator.FieldError, supplied bool) string {
	switch fe.Tag() {
	case "required":
		if supplied {
			return msgBlank
		}
		return msgRequired
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "meeting_status":
		return fmt.Sprintf("%q is not a valid choice.", fe.Value())
	case "datetime":
		return "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."
	case "time_of_day":
		return "Time has wrong format. Use one of these formats instead: hh:mm[:ss[.uuuuuu]]."
	case "absolute_url":
		return "Enter a valid URL."
	default:
		return fmt.Sprintf("Failed on the %s rule.", fe.Tag())
	}
}

// applyMeetingInput copies supplied fields onto m. Input must already be valid.
func applyMeetingInput(m *meeting.Meeting, in MeetingInput) error {
	if in.Agenda != nil {
		m.Agenda = *in.Agenda
	}
	if in.Description != nil {
		m.Description = *in.Description
	}
	if in.Status != nil {
		st, ok := meeting.ParseStatus(*in.Status)
		if !ok {
			return apperrors.ErrInvalidInput
		}
		m.Status = st
	}
	if in.Date != nil {
		d, err := meeting.ParseDate(*in.Date)
		if err != nil {
			return apperrors.ErrInvalidInput
		}
		m.Date = d
	}
	if in.StartTime != nil {
		t, err := meeting.ParseTimeOfDay(*in.StartTime)
		if err != nil {
			return apperrors.ErrInvalidInput
		}
		m.StartTime = t
	}
	if in.MeetingURL != nil {
		m.MeetingURL = *in.MeetingURL
	}
	return nil
}
