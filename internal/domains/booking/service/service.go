package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Booking=MockBookingService

import (
	"context"
	"errors"
	"fmt"
	"salon/config"
	"salon/infras/otel"
	"salon/infras/pubsub"
	"salon/internal/domains/booking/model"
	"salon/internal/domains/booking/model/dto"
	"salon/internal/domains/booking/queue"
	"salon/internal/domains/booking/repository"
	"salon/internal/domains/booking/wizard"
	catalogModel "salon/internal/domains/catalog/model"
	catalogRepo "salon/internal/domains/catalog/repository"
	notificationModel "salon/internal/domains/notification/model"
	notificationService "salon/internal/domains/notification/service"
	staffModel "salon/internal/domains/staff/model"
	staffRepo "salon/internal/domains/staff/repository"
	userModel "salon/internal/domains/user/model"
	userRepo "salon/internal/domains/user/repository"
	"salon/shared"
	"salon/shared/constant"
	gDto "salon/shared/dto"
	"salon/shared/failure"
	gModel "salon/shared/model"
	"salon/shared/timezone"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	defaultNotifyMaxRetries = 3
	notifyInitialInterval   = 200 * time.Millisecond
	notifyMaxInterval       = 2 * time.Second
)

var (
	errBookingFailed = errors.New("booking failed")
	errNotSent       = errors.New("confirmation was not sent")
)

type Booking interface {
	Next(ctx context.Context, state wizard.State) (dto.WizardResponse, error)
	Previous(state wizard.State) dto.WizardResponse
	Slots() dto.SlotsResponse
	Submit(ctx context.Context, state wizard.State) (dto.AppointmentResponse, error)
	Get(ctx context.Context, id string) (dto.AppointmentResponse, error)
	GetMine(ctx context.Context, req gDto.QueryParams) (dto.GetAppointmentsResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetAppointmentsResponse, error)
	Queue(ctx context.Context, appointmentID string) (dto.QueueResponse, error)
}

type serviceImpl struct {
	repo        repository.Booking
	catalogRepo catalogRepo.Catalog
	staffRepo   staffRepo.Staff
	userRepo    userRepo.User
	sender      notificationService.Sender
	bus         pubsub.Bus
	cfg         *config.Config
	otel        otel.Otel
}

func New(
	repo repository.Booking,
	catalogRepo catalogRepo.Catalog,
	staffRepo staffRepo.Staff,
	userRepo userRepo.User,
	sender notificationService.Sender,
	bus pubsub.Bus,
	cfg *config.Config,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:        repo,
		catalogRepo: catalogRepo,
		staffRepo:   staffRepo,
		userRepo:    userRepo,
		sender:      sender,
		bus:         bus,
		cfg:         cfg,
		otel:        otel,
	}
}

// Next validates the current step and, when it passes, checks that the
// selections made so far still exist before moving on.
func (s *serviceImpl) Next(ctx context.Context, state wizard.State) (res dto.WizardResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Next")
	defer scope.End()
	defer scope.TraceIfError(err)

	next, errs := state.Next(s.rules())
	if errs != nil {
		return dto.WizardResponse{State: next, Errors: errs}, nil
	}

	if state.Step >= wizard.StepSelectService {
		found, err := s.catalogRepo.Exist(ctx, shared.FilterByID(state.ServiceID, catalogModel.FieldID, catalogModel.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to check if service exists")

			return res, fmt.Errorf("failed to check if service exists: %w", err)
		}

		if !found {
			return dto.WizardResponse{State: state, Errors: wizard.FieldErrors{wizard.FieldServiceID: "The selected service is no longer available."}}, nil
		}
	}

	if state.Step >= wizard.StepSelectStaff {
		found, err := s.staffRepo.Exist(ctx, shared.FilterByID(state.StaffID, staffModel.FieldID, staffModel.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to check if stylist exists")

			return res, fmt.Errorf("failed to check if stylist exists: %w", err)
		}

		if !found {
			return dto.WizardResponse{State: state, Errors: wizard.FieldErrors{wizard.FieldStaffID: "The selected stylist is no longer available."}}, nil
		}
	}

	return dto.WizardResponse{State: next}, nil
}

func (s *serviceImpl) Previous(state wizard.State) dto.WizardResponse {
	return dto.WizardResponse{State: state.Previous()}
}

func (s *serviceImpl) Slots() dto.SlotsResponse {
	return dto.SlotsResponse{Slots: s.rules().Slots}
}

// Submit writes the appointment and then sends the confirmation. The two
// calls are independent: when every send attempt fails the appointment is
// kept with confirmation_sent=false and the caller gets "booking failed".
func (s *serviceImpl) Submit(ctx context.Context, state wizard.State) (res dto.AppointmentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Submit")
	defer scope.End()
	defer scope.TraceIfError(err)

	c := context.WithoutCancel(ctx)
	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if userID != constant.Empty {
		state, err = s.withIdentity(ctx, state, userID)
		if err != nil {
			return res, err
		}
	}

	if err = state.Ready(s.rules()); err != nil {
		return res, err
	}

	service, err := s.catalogRepo.Get(ctx, shared.FilterByID(state.ServiceID, catalogModel.FieldID, catalogModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get service")

		return res, fmt.Errorf("failed to get service: %w", err)
	}

	staff, err := s.staffRepo.Get(ctx, shared.FilterByID(state.StaffID, staffModel.FieldID, staffModel.TableName),
		staffModel.FieldID, staffModel.FieldName)
	if err != nil {
		log.Error().Err(err).Msg("failed to get stylist")

		return res, fmt.Errorf("failed to get stylist: %w", err)
	}

	if service.ID == constant.Empty || staff.ID == constant.Empty {
		return res, wizard.ErrIncomplete
	}

	start, err := state.StartTime(timezone.GetLocation())
	if err != nil {
		return res, wizard.ErrIncomplete
	}

	appointment := newAppointment(state, service, staff, start, userID)

	if err = s.repo.Insert(c, appointment); err != nil {
		log.Error().Err(err).Msg("failed to create appointment")

		return res, failure.InternalError(errBookingFailed)
	}

	s.changed(c, pubsub.ActionCreated, appointment.ID)

	if err = s.confirm(c, appointment, state.Time); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("appointment_id", appointment.ID).Msg("appointment saved but confirmation failed")

		return res, failure.BadGateway(errBookingFailed.Error())
	}

	appointment.ConfirmationSent = true
	res.FromModel(appointment)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.AppointmentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	appointment, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get appointment")

		return res, fmt.Errorf("failed to get appointment: %w", err)
	}

	if appointment.ID == constant.Empty {
		return res, failure.NotFound("appointment not found")
	}

	res.FromModel(appointment)

	return res, nil
}

func (s *serviceImpl) GetMine(ctx context.Context, req gDto.QueryParams) (res dto.GetAppointmentsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetMine")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if userID == constant.Empty {
		return res, failure.Unauthorized("not signed in")
	}

	return s.GetAll(ctx, req, repository.FilterByUserID(userID))
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetAppointmentsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count appointments")

		return res, fmt.Errorf("failed to count appointments: %w", err)
	}

	appointments, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get appointments")

		return res, fmt.Errorf("failed to get appointments: %w", err)
	}

	res.FromModels(appointments, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) Queue(ctx context.Context, appointmentID string) (res dto.QueueResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Queue")
	defer scope.End()
	defer scope.TraceIfError(err)

	now := timezone.Now()
	params := gDto.QueryParams{SortBy: model.FieldStartTime, SortDir: gDto.SortDirAsc}

	appointments, err := s.repo.GetAll(ctx, params, repository.FilterQueue(now),
		model.FieldID, model.FieldStartTime, model.FieldEndTime)
	if err != nil {
		log.Error().Err(err).Msg("failed to get queue")

		return res, fmt.Errorf("failed to get queue: %w", err)
	}

	res.FromStatus(queue.Compute(appointments, appointmentID, now))

	return res, nil
}

func (s *serviceImpl) withIdentity(ctx context.Context, state wizard.State, userID string) (wizard.State, error) {
	if state.ClientName != constant.Empty && state.ClientEmail != constant.Empty {
		return state, nil
	}

	user, err := s.userRepo.Get(ctx, shared.FilterByID(userID, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return state, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == constant.Empty {
		return state, nil
	}

	if state.ClientName == constant.Empty && user.FullName != nil {
		state.ClientName = *user.FullName
	}

	if state.ClientEmail == constant.Empty {
		state.ClientEmail = user.Email
	}

	return state, nil
}

// confirm sends the confirmation email with bounded retries and records the
// outcome on the appointment.
func (s *serviceImpl) confirm(ctx context.Context, appointment model.Appointment, slot string) error {
	msg, err := notificationService.ConfirmationMessage(s.cfg.Notification.Subject, notificationModel.Confirmation{
		ClientName:  appointment.ClientName,
		ClientEmail: appointment.ClientEmail,
		ServiceName: appointment.ServiceName,
		StaffName:   appointment.StaffName,
		StartTime:   appointment.StartTime,
		TimeSlot:    slot,
		Price:       appointment.Price,
	})
	if err != nil {
		return err
	}

	send := func() (notificationModel.Result, error) {
		result, err := s.sender.Send(ctx, msg)
		if err != nil {
			return result, err
		}

		if !result.Success {
			return result, fmt.Errorf("%w: %s", errNotSent, result.Message)
		}

		return result, nil
	}

	if _, err = backoff.Retry(ctx, send,
		backoff.WithBackOff(s.notifyBackOff()),
		backoff.WithMaxTries(s.notifyMaxTries()),
	); err != nil {
		return fmt.Errorf("failed to send confirmation: %w", err)
	}

	updatedFields := map[string]any{
		model.FieldConfirmationSent: true,
		constant.FieldModifiedAt:    timezone.Now(),
		constant.FieldModifiedBy:    appointment.CreatedBy,
	}

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(appointment.ID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Str("appointment_id", appointment.ID).Msg("failed to mark confirmation as sent")
	}

	return nil
}

func (s *serviceImpl) changed(ctx context.Context, action, id string) {
	event := pubsub.Event{Collection: constant.CollectionAppointments, Action: action, ID: id}
	if err := s.bus.Publish(ctx, event); err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to publish appointment change")
	}
}

func (s *serviceImpl) rules() wizard.Rules {
	slots := s.cfg.Booking.TimeSlots
	if len(slots) == 0 {
		slots = wizard.DefaultSlots
	}

	return wizard.Rules{Today: timezone.Now(), Slots: slots}
}

func (s *serviceImpl) notifyBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = notifyInitialInterval
	b.MaxInterval = notifyMaxInterval

	return b
}

func (s *serviceImpl) notifyMaxTries() uint {
	if s.cfg.Booking.NotifyMaxRetries == 0 {
		return defaultNotifyMaxRetries
	}

	return s.cfg.Booking.NotifyMaxRetries
}

func newAppointment(state wizard.State, service catalogModel.Service, staff staffModel.Staff, start time.Time, userID string) model.Appointment {
	createdBy := constant.ContextGuest

	var owner *string
	if userID != constant.Empty {
		owner = &userID
		createdBy = userID
	}

	now := timezone.Now()

	return model.Appointment{
		ID:          uuid.NewString(),
		UserID:      owner,
		ServiceID:   service.ID,
		ServiceName: service.Name,
		StaffID:     staff.ID,
		StaffName:   staff.Name,
		StartTime:   start,
		EndTime:     wizard.EndTime(start, service.Duration),
		ClientName:  state.ClientName,
		ClientEmail: state.ClientEmail,
		Status:      model.StatusScheduled,
		Price:       service.Price,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  createdBy,
			ModifiedBy: createdBy,
		},
	}
}
