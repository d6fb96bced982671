package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"net/smtp"
	"salon/config"
	"salon/infras/kafka"
	"salon/infras/otel"
	"salon/internal/domains/notification/model"
	"salon/shared/constant"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	resultSimulated = "Email sent successfully (simulated)."
	resultDelivered = "Email sent successfully."
	resultQueued    = "Email queued for delivery."

	defaultTopic = "salon.notifications"
)

// Sender delivers or queues one message.
type Sender interface {
	Send(ctx context.Context, msg model.Message) (model.Result, error)
}

// New picks the sender configured by the notification driver. Unknown drivers fall back to log.
func New(cfg *config.Config, kafkaClient kafka.Client, otel otel.Otel) Sender {
	switch cfg.Notification.Driver {
	case model.DriverKafka:
		return &kafkaSender{client: kafkaClient, topic: Topic(cfg), otel: otel}
	case model.DriverSMTP:
		return &smtpSender{cfg: cfg, otel: otel}
	default:
		return &logSender{otel: otel}
	}
}

// NewDeliverer returns the sender used to drain the queue: SMTP when a host is configured, log otherwise.
func NewDeliverer(cfg *config.Config, otel otel.Otel) Sender {
	if cfg.Notification.SMTP.Host != constant.Empty {
		return &smtpSender{cfg: cfg, otel: otel}
	}

	return &logSender{otel: otel}
}

// Topic is the Kafka topic queued confirmations travel on.
func Topic(cfg *config.Config) string {
	if cfg.Notification.Topic == constant.Empty {
		return defaultTopic
	}

	return cfg.Notification.Topic
}

type logSender struct {
	otel otel.Otel
}

func (s *logSender) Send(ctx context.Context, msg model.Message) (res model.Result, err error) {
	_, scope := s.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".Notification.Log")
	defer scope.End()

	log.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Int("body_length", len(msg.Body)).
		Msg("Simulating email send")

	return model.Result{Success: true, Message: resultSimulated}, nil
}

type smtpSender struct {
	cfg  *config.Config
	otel otel.Otel
}

func (s *smtpSender) Send(ctx context.Context, msg model.Message) (res model.Result, err error) {
	_, scope := s.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".Notification.SMTP")
	defer scope.End()
	defer scope.TraceIfError(err)

	smtpCfg := s.cfg.Notification.SMTP
	addr := fmt.Sprintf("%s:%s", smtpCfg.Host, smtpCfg.Port)

	var auth smtp.Auth
	if smtpCfg.Username != constant.Empty {
		auth = smtp.PlainAuth("", smtpCfg.Username, smtpCfg.Password, smtpCfg.Host)
	}

	payload := BuildMIME(s.cfg.Notification.From, msg, time.Now())

	if err = smtp.SendMail(addr, auth, s.cfg.Notification.From, []string{msg.To}, payload); err != nil {
		log.Error().Err(err).Str("to", msg.To).Msg("failed to send email")

		return model.Result{Success: false, Message: err.Error()}, fmt.Errorf("failed to send email: %w", err)
	}

	log.Info().Str("to", msg.To).Str("subject", msg.Subject).Msg("Email sent")

	return model.Result{Success: true, Message: resultDelivered}, nil
}

// BuildMIME renders msg as an RFC 5322 message with an HTML body.
func BuildMIME(from string, msg model.Message, date time.Time) []byte {
	var sb strings.Builder

	sb.WriteString("From: " + from + "\r\n")
	sb.WriteString("To: " + msg.To + "\r\n")
	sb.WriteString("Subject: " + msg.Subject + "\r\n")
	sb.WriteString("Date: " + date.Format(time.RFC1123Z) + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(msg.Body)

	return []byte(sb.String())
}

type kafkaSender struct {
	client kafka.Client
	topic  string
	otel   otel.Otel
}

func (s *kafkaSender) Send(ctx context.Context, msg model.Message) (res model.Result, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".Notification.Kafka")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.client.SendMessages(ctx, s.topic, kafka.Message{Key: msg.To, Value: msg}); err != nil {
		log.Error().Err(err).Str("topic", s.topic).Msg("failed to queue email")

		return model.Result{Success: false, Message: err.Error()}, fmt.Errorf("failed to queue email: %w", err)
	}

	return model.Result{Success: true, Message: resultQueued}, nil
}
