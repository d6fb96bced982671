package dto

import (
	"salon/internal/domains/booking/model"
	"salon/internal/domains/booking/queue"
	"salon/internal/domains/booking/wizard"
	"salon/shared"
	"salon/shared/constant"
	gDto "salon/shared/dto"
	"salon/shared/timezone"
)

// WizardResponse is the state after a transition and the errors that kept it in place.
type WizardResponse struct {
	State  wizard.State       `json:"state"`
	Errors wizard.FieldErrors `json:"errors,omitempty"`
}

type SlotsResponse struct {
	Slots []string `json:"slots"`
}

type AppointmentResponse struct {
	ID               string  `json:"id"`
	UserID           *string `json:"user_id"`
	ServiceID        string  `json:"service_id"`
	ServiceName      string  `json:"service_name"`
	StaffID          string  `json:"staff_id"`
	StaffName        string  `json:"staff_name"`
	StartTime        string  `json:"start_time"`
	EndTime          string  `json:"end_time"`
	Date             string  `json:"date"`
	Time             string  `json:"time"`
	ClientName       string  `json:"client_name"`
	ClientEmail      string  `json:"client_email"`
	Status           string  `json:"status"`
	Price            float64 `json:"price"`
	ConfirmationSent bool    `json:"confirmation_sent"`
	gDto.Metadata
}

func (r *AppointmentResponse) FromModel(model model.Appointment) {
	r.ID = model.ID
	r.UserID = model.UserID
	r.ServiceID = model.ServiceID
	r.ServiceName = model.ServiceName
	r.StaffID = model.StaffID
	r.StaffName = model.StaffName
	r.StartTime = timezone.Format(model.StartTime, constant.DateFormat)
	r.EndTime = timezone.Format(model.EndTime, constant.DateFormat)
	r.Date = timezone.Format(model.StartTime, constant.BookingDateFormat)
	r.Time = timezone.Format(model.StartTime, constant.TimeSlotFormat)
	r.ClientName = model.ClientName
	r.ClientEmail = model.ClientEmail
	r.Status = model.Status
	r.Price = model.Price
	r.ConfirmationSent = model.ConfirmationSent
	r.Metadata.FromModel(model.Metadata)
}

type GetAppointmentsResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	TotalPage    int                   `json:"total_page"`
	TotalData    int                   `json:"total_data"`
}

func (r *GetAppointmentsResponse) FromModels(models []model.Appointment, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Appointments = make([]AppointmentResponse, len(models))
	for i, mod := range models {
		r.Appointments[i].FromModel(mod)
	}
}

type QueueResponse struct {
	TotalInQueue         int     `json:"total_in_queue"`
	Position             int     `json:"position"`
	PeopleAhead          int     `json:"people_ahead"`
	EstimatedWaitMinutes int     `json:"estimated_wait_minutes"`
	Progress             float64 `json:"progress"`
}

func (r *QueueResponse) FromStatus(status queue.Status) {
	r.TotalInQueue = status.Total
	r.Position = status.Position
	r.PeopleAhead = status.PeopleAhead
	r.EstimatedWaitMinutes = status.WaitMinutes
	r.Progress = status.Progress
}
