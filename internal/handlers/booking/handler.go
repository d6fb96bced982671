package booking

import (
	"net/http"
	"salon/infras/otel"
	"salon/internal/domains/booking/service"
	"salon/internal/domains/booking/wizard"
	"salon/shared/constant"
	gDto "salon/shared/dto"
	"salon/shared/failure"
	"salon/shared/validator"
	"salon/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

var errAppointmentIDRequired = failure.BadRequestFromString("appointment_id is required")

type Handler struct {
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateBooking)
		routerGroup.Post("/wizard/next", handler.NextStep)
		routerGroup.Post("/wizard/previous", handler.PreviousStep)
		routerGroup.Get("/slots", handler.GetSlots)
		routerGroup.Get("/mine", handler.GetMyBookings)
		routerGroup.Get("/{id}", handler.GetBookingByID)
	})

	router.Get("/queue", handler.GetQueue)
}

// NextStep validates the current wizard step and advances.
// @Summary Advance the booking wizard
// @Description Validate every step up to the current one. On success the state moves one step forward; otherwise it moves to the first invalid step and field errors are returned.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body wizard.State true "Wizard state"
// @Success 200 {object} response.Data[dto.WizardResponse] "Advanced state"
// @Failure 400 {object} response.Data[dto.WizardResponse] "State with field errors"
// @Failure 500 {object} response.Error
// @Router /v1/bookings/wizard/next [post]
func (handler *Handler) NextStep(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".NextStep")
	defer scope.End()

	state := wizard.New()

	if err := validator.Decode(r.Body, &state); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to decode wizard state")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Next(ctx, state)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to advance wizard")

		response.WithError(w, err)

		return
	}

	if len(res.Errors) > 0 {
		scope.SetAttribute("wizard.step", int(res.State.Step))

		response.WithJSON(w, http.StatusBadRequest, res)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// PreviousStep moves the wizard back one step.
// @Summary Go back in the booking wizard
// @Description Move one step back keeping every entered value.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body wizard.State true "Wizard state"
// @Success 200 {object} response.Data[dto.WizardResponse] "Previous state"
// @Failure 400 {object} response.Error
// @Router /v1/bookings/wizard/previous [post]
func (handler *Handler) PreviousStep(w http.ResponseWriter, r *http.Request) {
	_, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".PreviousStep")
	defer scope.End()

	state := wizard.New()

	if err := validator.Decode(r.Body, &state); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to decode wizard state")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, handler.service.Previous(state))
}

// GetSlots lists the bookable time slots of a day.
// @Summary Get time slots
// @Tags Booking
// @Produce json
// @Success 200 {object} response.Data[dto.SlotsResponse]
// @Router /v1/bookings/slots [get]
func (handler *Handler) GetSlots(w http.ResponseWriter, r *http.Request) {
	_, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSlots")
	defer scope.End()

	response.WithJSON(w, http.StatusOK, handler.service.Slots())
}

// CreateBooking submits a completed wizard.
// @Summary Book an appointment
// @Description Persist the appointment and send the confirmation email. A signed-in client's name and email fill empty contact fields. When the email cannot be sent the response is 502 although the appointment exists.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body wizard.State true "Completed wizard state"
// @Success 201 {object} response.Data[dto.AppointmentResponse] "Booked appointment"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Failure 502 {object} response.Error
// @Router /v1/bookings [post]
func (handler *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	state := wizard.State{}

	if err := validator.Decode(r.Body, &state); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to decode wizard state")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Submit(ctx, state)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create booking")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking created successfully")

	response.WithJSON(w, http.StatusCreated, res)
}

// GetMyBookings lists the appointments of the signed-in client.
// @Summary Get my bookings
// @Tags Booking
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetAppointmentsResponse]
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/mine [get]
// @Security BearerAuth
func (handler *Handler) GetMyBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	res, err := handler.service.GetMine(ctx, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get my bookings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// GetBookingByID retrieves an appointment, e.g. for the confirmation page.
// @Summary Get a booking by ID
// @Tags Booking
// @Produce json
// @Param id path string true "Appointment ID"
// @Success 200 {object} response.Data[dto.AppointmentResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id} [get]
func (handler *Handler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	res, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get booking by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// GetQueue reports where an appointment stands in today's queue.
// @Summary Queue position
// @Tags Booking
// @Produce json
// @Param appointment_id query string true "Appointment ID"
// @Success 200 {object} response.Data[dto.QueueResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/queue [get]
func (handler *Handler) GetQueue(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetQueue")
	defer scope.End()

	appointmentID := r.URL.Query().Get(constant.RequestParamAppointmentID)
	if appointmentID == constant.Empty {
		scope.TraceError(errAppointmentIDRequired)

		response.WithError(w, errAppointmentIDRequired)

		return
	}

	res, err := handler.service.Queue(ctx, appointmentID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get queue status")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}
