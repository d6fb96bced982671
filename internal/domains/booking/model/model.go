package model

import (
	"salon/shared/model"
	"time"
)

const (
	TableName  = "appointments"
	EntityName = "appointment"

	FieldID               = "id"
	FieldUserID           = "user_id"
	FieldServiceID        = "service_id"
	FieldStaffID          = "staff_id"
	FieldStartTime        = "start_time"
	FieldEndTime          = "end_time"
	FieldClientEmail      = "client_email"
	FieldStatus           = "status"
	FieldConfirmationSent = "confirmation_sent"
)

// StatusScheduled is the only status a booking is created with.
const StatusScheduled = "scheduled"

// Appointment is a booked slot. Service and staff names and the price are
// copied at booking time so later catalog edits do not rewrite history.
type Appointment struct {
	ID               string    `db:"id"`
	UserID           *string   `db:"user_id"`
	ServiceID        string    `db:"service_id"`
	ServiceName      string    `db:"service_name"`
	StaffID          string    `db:"staff_id"`
	StaffName        string    `db:"staff_name"`
	StartTime        time.Time `db:"start_time"`
	EndTime          time.Time `db:"end_time"`
	ClientName       string    `db:"client_name"`
	ClientEmail      string    `db:"client_email"`
	Status           string    `db:"status"`
	Price            float64   `db:"price"`
	ConfirmationSent bool      `db:"confirmation_sent"`
	model.Metadata
}

func (a Appointment) Duration() time.Duration {
	return a.EndTime.Sub(a.StartTime)
}
