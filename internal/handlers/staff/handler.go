package staff

import (
	"net/http"
	"salon/infras/otel"
	"salon/internal/domains/staff/model"
	"salon/internal/domains/staff/model/dto"
	"salon/internal/domains/staff/repository"
	"salon/internal/domains/staff/service"
	userService "salon/internal/domains/user/service"
	"salon/shared/constant"
	gDto "salon/shared/dto"
	"salon/shared/validator"
	"salon/transport/http/response"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service     service.Staff
	userService userService.User
	otel        otel.Otel
}

func New(service service.Staff, userService userService.User, otel otel.Otel) Handler {
	return Handler{
		service:     service,
		userService: userService,
		otel:        otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/staff", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetStaff)
		routerGroup.Get("/{id}", handler.GetStaffByID)
		routerGroup.Post("/{id}/reviews", handler.AddReview)
	})
}

// GetStaff retrieves the stylist roster.
// @Summary Get all stylists
// @Description Retrieve the stylists with their reviews, most recent review first.
// @Tags Staff
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param name query string false "Filter by name"
// @Success 200 {object} response.Data[dto.GetStaffResponse] "List of stylists"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/staff [get]
func (handler *Handler) GetStaff(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetStaff")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)
	queryParams.RestrictSort(constant.FieldCreatedAt,
		constant.FieldCreatedAt, model.FieldName, model.FieldRating, model.FieldReviewCount)

	filterGroup := repository.FilterByName(r.URL.Query().Get(constant.RequestParamName))

	staff, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get staff")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Staff retrieved successfully")

	response.WithJSON(w, http.StatusOK, staff)
}

// GetStaffByID retrieves a stylist by ID.
// @Summary Get a stylist by ID
// @Description Retrieve a stylist and their reviews, most recent review first.
// @Tags Staff
// @Accept json
// @Produce json
// @Param id path string true "Staff ID"
// @Success 200 {object} response.Data[dto.StaffResponse] "Stylist details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/staff/{id} [get]
func (handler *Handler) GetStaffByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetStaffByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	res, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get staff by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Staff retrieved successfully")

	response.WithJSON(w, http.StatusOK, res)
}

// AddReview submits a review for a stylist.
// @Summary Review a stylist
// @Description Append a review and recompute the stylist rating. A signed-in client may omit user_name.
// @Tags Staff
// @Accept json
// @Produce json
// @Param id path string true "Staff ID"
// @Param request body dto.AddReviewRequest true "Review"
// @Success 201 {object} response.Data[dto.StaffResponse] "Updated stylist"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/staff/{id}/reviews [post]
func (handler *Handler) AddReview(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AddReview")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.AddReviewRequest{}

	if err := validator.Decode(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to decode request body")

		response.WithError(w, err)

		return
	}

	req.UserName = strings.TrimSpace(req.UserName)
	if req.UserName == constant.Empty {
		req.UserName = handler.identityName(r)
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.AddReview(ctx, req, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("staff_id", id).Msg("failed to add review")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Review added successfully")

	response.WithJSON(w, http.StatusCreated, res)
}

// identityName is the display name of the signed-in client, or empty.
func (handler *Handler) identityName(r *http.Request) string {
	userID, _ := r.Context().Value(constant.ContextKeyUserID).(string)
	if userID == constant.Empty {
		return constant.Empty
	}

	user, err := handler.userService.Get(r.Context(), userID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("could not resolve reviewer name")

		return constant.Empty
	}

	return user.DisplayName()
}
