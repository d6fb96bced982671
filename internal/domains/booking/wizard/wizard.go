// Package wizard holds the four-step booking flow. A State is a plain value
// carried by the client; the server keeps no drafts.
package wizard

import (
	"fmt"
	"maps"
	"salon/shared/constant"
	"salon/shared/failure"
	"salon/shared/validator"
	"slices"
	"time"
)

type Step int

const (
	StepSelectService Step = iota + 1
	StepSelectStaff
	StepSelectDateTime
	StepConfirm
)

const (
	FieldStep        = "step"
	FieldServiceID   = "service_id"
	FieldStaffID     = "staff_id"
	FieldDate        = "date"
	FieldTime        = "time"
	FieldClientName  = "client_name"
	FieldClientEmail = "client_email"
)

const startTimeLayout = constant.BookingDateFormat + " " + constant.TimeSlotFormat

// ErrIncomplete is returned when a submit is attempted before every step is valid.
var ErrIncomplete = failure.BadRequestFromString("please complete all booking steps")

var fieldMessages = map[string]string{
	FieldServiceID:   "Please select a service.",
	FieldStaffID:     "Please select a stylist.",
	FieldDate:        "Please select a date.",
	FieldTime:        "Please select a time.",
	FieldClientName:  "Please enter your full name.",
	FieldClientEmail: "Please enter a valid email address.",
}

// DefaultSlots are the bookable start times of a day.
var DefaultSlots = []string{
	"09:00 AM", "10:00 AM", "11:00 AM", "12:00 PM",
	"01:00 PM", "02:00 PM", "03:00 PM", "04:00 PM", "05:00 PM",
}

type State struct {
	Step        Step   `json:"step"`
	ServiceID   string `json:"service_id"`
	StaffID     string `json:"staff_id"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	ClientName  string `json:"client_name"`
	ClientEmail string `json:"client_email"`
}

// FieldErrors maps a state field to a human readable problem.
type FieldErrors map[string]string

// Rules are the environment a state is validated against.
type Rules struct {
	Today time.Time
	Slots []string
}

type serviceFields struct {
	ServiceID string `json:"service_id" validate:"required"`
}

type staffFields struct {
	StaffID string `json:"staff_id" validate:"required"`
}

type dateTimeFields struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
	Time string `json:"time" validate:"required,timeslot"`
}

type contactFields struct {
	ClientName  string `json:"client_name"  validate:"required,min=2,max=100"`
	ClientEmail string `json:"client_email" validate:"required,email"`
}

// New starts an empty wizard at the first step.
func New() State {
	return State{Step: StepSelectService}
}

// Validate checks the fields owned by step only.
func (s State) Validate(step Step, rules Rules) FieldErrors {
	var errs map[string]string

	switch step {
	case StepSelectService:
		errs = validator.FieldErrors(&serviceFields{ServiceID: s.ServiceID})
	case StepSelectStaff:
		errs = validator.FieldErrors(&staffFields{StaffID: s.StaffID})
	case StepSelectDateTime:
		errs = validator.FieldErrors(&dateTimeFields{Date: s.Date, Time: s.Time})
		if len(errs) == 0 {
			return s.validateSchedule(rules)
		}
	case StepConfirm:
		errs = validator.FieldErrors(&contactFields{ClientName: s.ClientName, ClientEmail: s.ClientEmail})
	default:
		return FieldErrors{FieldStep: fmt.Sprintf("step must be between %d and %d", StepSelectService, StepConfirm)}
	}

	return friendly(errs)
}

// Next advances one step when every step up to the current one is valid.
// Otherwise the state is returned unchanged with the errors of the current
// step, or of the first invalid earlier step when the current one is valid.
func (s State) Next(rules Rules) (State, FieldErrors) {
	if errs := s.Validate(s.Step, rules); errs != nil {
		return s, errs
	}

	if _, errs := s.firstInvalid(s.Step-1, rules); errs != nil {
		return s, errs
	}

	if s.Step == StepConfirm {
		return s, FieldErrors{FieldStep: "already at the final step, submit the booking"}
	}

	s.Step++

	return s, nil
}

// Previous goes back one step keeping every entered value.
func (s State) Previous() State {
	switch {
	case s.Step > StepConfirm:
		s.Step = StepConfirm
	case s.Step > StepSelectService:
		s.Step--
	default:
		s.Step = StepSelectService
	}

	return s
}

// Ready reports whether the state may be submitted.
func (s State) Ready(rules Rules) error {
	if s.Step != StepConfirm {
		return ErrIncomplete
	}

	if _, errs := s.firstInvalid(StepSelectDateTime, rules); errs != nil {
		return ErrIncomplete
	}

	errs := s.Validate(StepConfirm, rules)
	if errs == nil {
		return nil
	}

	for _, field := range []string{FieldClientName, FieldClientEmail} {
		if msg, ok := errs[field]; ok {
			return failure.BadRequestFromString(msg)
		}
	}

	return ErrIncomplete
}

// StartTime is the selected date and slot in loc.
func (s State) StartTime(loc *time.Location) (time.Time, error) {
	start, err := time.ParseInLocation(startTimeLayout, s.Date+" "+s.Time, loc)
	if err != nil {
		return start, fmt.Errorf("failed to parse start time: %w", err)
	}

	return start, nil
}

// EndTime adds a service duration in minutes to start.
func EndTime(start time.Time, durationMinutes int) time.Time {
	return start.Add(time.Duration(durationMinutes) * time.Minute)
}

func (s State) firstInvalid(last Step, rules Rules) (Step, FieldErrors) {
	for step := StepSelectService; step <= last; step++ {
		if errs := s.Validate(step, rules); errs != nil {
			return step, errs
		}
	}

	return last, nil
}

func (s State) validateSchedule(rules Rules) FieldErrors {
	slots := rules.Slots
	if len(slots) == 0 {
		slots = DefaultSlots
	}

	if !slices.Contains(slots, s.Time) {
		return FieldErrors{FieldTime: fieldMessages[FieldTime]}
	}

	date, err := time.ParseInLocation(constant.BookingDateFormat, s.Date, rules.Today.Location())
	if err != nil {
		return FieldErrors{FieldDate: fieldMessages[FieldDate]}
	}

	year, month, day := rules.Today.Date()
	if date.Before(time.Date(year, month, day, 0, 0, 0, 0, rules.Today.Location())) {
		return FieldErrors{FieldDate: "Please select a date that is not in the past."}
	}

	return nil
}

func friendly(errs map[string]string) FieldErrors {
	if len(errs) == 0 {
		return nil
	}

	out := make(FieldErrors, len(errs))

	for field := range maps.Keys(errs) {
		if msg, ok := fieldMessages[field]; ok {
			out[field] = msg

			continue
		}

		out[field] = errs[field]
	}

	return out
}
