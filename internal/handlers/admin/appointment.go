package admin

import (
	"net/http"
	"salon/internal/domains/booking/model"
	"salon/internal/domains/booking/repository"
	"salon/shared/constant"
	gDto "salon/shared/dto"
	"salon/transport/http/response"

	"github.com/rs/zerolog/log"
)

// GetAppointments lists every appointment for the admin panel.
// @Summary List appointments
// @Tags Admin
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status"
// @Param staff_id query string false "Filter by stylist"
// @Success 200 {object} response.Data[dto.GetAppointmentsResponse]
// @Failure 401 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/appointments [get]
// @Security BearerAuth
func (handler *Handler) GetAppointments(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAppointments")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)
	queryParams.RestrictSort(model.FieldStartTime, model.FieldStartTime, constant.FieldCreatedAt, model.FieldStatus)

	filter := repository.FilterAdmin(
		r.URL.Query().Get(constant.RequestParamStatus),
		r.URL.Query().Get(constant.RequestParamStaffID),
	)

	res, err := handler.bookingService.GetAll(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get appointments")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}
