package service

import (
	"bytes"
	"fmt"
	"html/template"
	"salon/internal/domains/notification/model"
	"salon/shared/constant"
)

const DefaultConfirmationSubject = "Your Shear Bliss Appointment Confirmation"

var confirmationTemplate = template.Must(template.New("confirmation").Parse(`
<h1>Your Booking is Confirmed!</h1>
<p>Hi {{.ClientName}},</p>
<p>This is a confirmation for your upcoming appointment at Shear Bliss.</p>
<h2>Appointment Details:</h2>
<ul>
  <li><strong>Service:</strong> {{.ServiceName}}</li>
  <li><strong>Stylist:</strong> {{.StaffName}}</li>
  <li><strong>Date:</strong> {{.Date}}</li>
  <li><strong>Time:</strong> {{.TimeSlot}}</li>
  <li><strong>Price:</strong> {{.Price}}</li>
</ul>
<p>We look forward to seeing you!</p>
<p><em>- The Shear Bliss Team</em></p>
`))

type confirmationView struct {
	ClientName  string
	ServiceName string
	StaffName   string
	Date        string
	TimeSlot    string
	Price       string
}

// ConfirmationMessage renders the booking confirmation email. An empty subject uses the default one.
func ConfirmationMessage(subject string, c model.Confirmation) (model.Message, error) {
	if subject == constant.Empty {
		subject = DefaultConfirmationSubject
	}

	view := confirmationView{
		ClientName:  c.ClientName,
		ServiceName: c.ServiceName,
		StaffName:   c.StaffName,
		Date:        c.StartTime.Format(constant.DisplayDateFormat),
		TimeSlot:    c.TimeSlot,
		Price:       FormatPrice(c.Price),
	}

	var body bytes.Buffer
	if err := confirmationTemplate.Execute(&body, view); err != nil {
		return model.Message{}, fmt.Errorf("failed to render confirmation email: %w", err)
	}

	return model.Message{
		To:      c.ClientEmail,
		Subject: subject,
		Body:    body.String(),
	}, nil
}

// FormatPrice prints an amount in Ghana cedis with two decimals.
func FormatPrice(amount float64) string {
	return fmt.Sprintf("GH₵%.2f", amount)
}
