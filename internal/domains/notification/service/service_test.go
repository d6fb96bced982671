package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"salon/config"
	kafkaInfra "salon/infras/kafka"
	kafkaMocks "salon/infras/kafka/mocks"
	"salon/infras/otel/mocks"
	notificationMocks "salon/internal/domains/notification/mocks"
	"salon/internal/domains/notification/model"
	"salon/internal/domains/notification/service"
)

func TestLogSender(t *testing.T) {
	cfg := &config.Config{}
	cfg.Notification.Driver = model.DriverLog

	sender := service.New(cfg, nil, mocks.NewOtel())

	res, err := sender.Send(context.Background(), model.Message{To: "jane@example.com", Subject: "Hi", Body: "<p>Hi</p>"})

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "Email sent successfully (simulated).", res.Message)
}

func TestUnknownDriverFallsBackToLog(t *testing.T) {
	cfg := &config.Config{}
	cfg.Notification.Driver = "pigeon"

	res, err := service.New(cfg, nil, mocks.NewOtel()).Send(context.Background(), model.Message{To: "jane@example.com"})

	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestKafkaSender(t *testing.T) {
	msg := model.Message{To: "jane@example.com", Subject: "Hi", Body: "<p>Hi</p>"}

	tests := []struct {
		name    string
		sendErr error
		wantErr bool
	}{
		{name: "queues the message"},
		{name: "reports broker failure", sendErr: errors.New("broker down"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := kafkaMocks.NewMockClient(ctrl)

			cfg := &config.Config{}
			cfg.Notification.Driver = model.DriverKafka
			cfg.Notification.Topic = "salon.test"

			client.EXPECT().
				SendMessages(gomock.Any(), "salon.test", kafkaInfra.Message{Key: msg.To, Value: msg}).
				Return(tt.sendErr)

			res, err := service.New(cfg, client, mocks.NewOtel()).Send(context.Background(), msg)

			if tt.wantErr {
				require.Error(t, err)
				assert.False(t, res.Success)

				return
			}

			require.NoError(t, err)
			assert.True(t, res.Success)
		})
	}
}

func TestTopicDefault(t *testing.T) {
	assert.Equal(t, "salon.notifications", service.Topic(&config.Config{}))
}

func TestBuildMIME(t *testing.T) {
	date := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	raw := string(service.BuildMIME("Shear Bliss <noreply@shearbliss.com>", model.Message{
		To:      "jane@example.com",
		Subject: "Your Shear Bliss Appointment Confirmation",
		Body:    "<h1>Hi</h1>",
	}, date))

	assert.Contains(t, raw, "From: Shear Bliss <noreply@shearbliss.com>\r\n")
	assert.Contains(t, raw, "To: jane@example.com\r\n")
	assert.Contains(t, raw, "Subject: Your Shear Bliss Appointment Confirmation\r\n")
	assert.Contains(t, raw, "Content-Type: text/html; charset=\"UTF-8\"\r\n")
	assert.True(t, strings.HasSuffix(raw, "\r\n\r\n<h1>Hi</h1>"))
}

func TestConfirmationMessage(t *testing.T) {
	confirmation := model.Confirmation{
		ClientName:  "Jane <Doe>",
		ClientEmail: "jane@example.com",
		ServiceName: "Classic Haircut",
		StaffName:   "Jessica Miller",
		StartTime:   time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		TimeSlot:    "10:00 AM",
		Price:       65,
	}

	msg, err := service.ConfirmationMessage("", confirmation)

	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", msg.To)
	assert.Equal(t, service.DefaultConfirmationSubject, msg.Subject)
	assert.Contains(t, msg.Body, "Your Booking is Confirmed!")
	assert.Contains(t, msg.Body, "Hi Jane &lt;Doe&gt;,")
	assert.Contains(t, msg.Body, "Classic Haircut")
	assert.Contains(t, msg.Body, "Jessica Miller")
	assert.Contains(t, msg.Body, "June 1, 2025")
	assert.Contains(t, msg.Body, "10:00 AM")
	assert.Contains(t, msg.Body, "GH₵65.00")
}

func TestConsumerHandle(t *testing.T) {
	msg := model.Message{To: "jane@example.com", Subject: "Hi", Body: "<p>Hi</p>"}
	payload, err := json.Marshal(msg)
	require.NoError(t, err)

	tests := []struct {
		name    string
		value   []byte
		setup   func(sender *notificationMocks.MockSender)
		wantErr bool
	}{
		{
			name:  "delivers a queued message",
			value: payload,
			setup: func(sender *notificationMocks.MockSender) {
				sender.EXPECT().Send(gomock.Any(), msg).Return(model.Result{Success: true}, nil)
			},
		},
		{
			name:  "drops a malformed message",
			value: []byte("{not json"),
			setup: func(_ *notificationMocks.MockSender) {},
		},
		{
			name:  "keeps the offset when delivery fails",
			value: payload,
			setup: func(sender *notificationMocks.MockSender) {
				sender.EXPECT().Send(gomock.Any(), msg).Return(model.Result{}, errors.New("smtp down"))
			},
			wantErr: true,
		},
		{
			name:  "keeps the offset when delivery is refused",
			value: payload,
			setup: func(sender *notificationMocks.MockSender) {
				sender.EXPECT().Send(gomock.Any(), msg).Return(model.Result{Success: false, Message: "mailbox full"}, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			sender := notificationMocks.NewMockSender(ctrl)
			tt.setup(sender)

			consumer := service.NewConsumer(&config.Config{}, kafkaMocks.NewMockClient(ctrl), sender)

			err := consumer.Handle(context.Background(), kafkaGo.Message{Key: []byte(msg.To), Value: tt.value})

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConsumerRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := kafkaMocks.NewMockClient(ctrl)

	cfg := &config.Config{}
	cfg.Notification.Topic = "salon.test"

	client.EXPECT().Consume(gomock.Any(), "", "salon.test", gomock.Any()).Return(nil)

	consumer := service.NewConsumer(cfg, client, notificationMocks.NewMockSender(ctrl))

	assert.NoError(t, consumer.Run(context.Background()))
}
