package model

import "time"

const (
	DriverLog   = "log"
	DriverSMTP  = "smtp"
	DriverKafka = "kafka"
)

// Message is an outgoing email. Body is HTML.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Confirmation carries what the booking confirmation email lists.
type Confirmation struct {
	ClientName  string
	ClientEmail string
	ServiceName string
	StaffName   string
	StartTime   time.Time
	TimeSlot    string
	Price       float64
}
