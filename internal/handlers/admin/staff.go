package admin

import (
	"context"
	"net/http"
	"salon/internal/domains/staff/model/dto"
	"salon/shared/constant"
	"salon/shared/validator"
	"salon/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// CreateStaff adds a stylist with no reviews.
// @Summary Add a stylist
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body dto.CreateStaffRequest true "Stylist"
// @Success 202 {object} response.Message
// @Failure 400 {object} response.Error
// @Router /v1/admin/staff [post]
// @Security BearerAuth
func (handler *Handler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateStaff")
	defer scope.End()

	req := dto.CreateStaffRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	handler.detach(ctx, constant.CollectionStaff, constant.Empty, func(ctx context.Context) error {
		_, err := handler.staffService.Create(ctx, req)

		return err //nolint:wrapcheck
	})

	response.WithMessage(w, http.StatusAccepted, "Staff creation accepted")
}

// UpdateStaff edits a stylist's profile. Reviews and rating are never touched.
// @Summary Edit a stylist
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Staff ID"
// @Param request body dto.UpdateStaffRequest true "Fields to change"
// @Success 202 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/admin/staff/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateStaff(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateStaff")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateStaffRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if req.IsEmpty() {
		scope.TraceError(errEmptyUpdate)

		response.WithError(w, errEmptyUpdate)

		return
	}

	if err := handler.staffService.Exists(ctx, id); err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	handler.detach(ctx, constant.CollectionStaff, id, func(ctx context.Context) error {
		return handler.staffService.Update(ctx, req, id)
	})

	response.WithMessage(w, http.StatusAccepted, "Staff update accepted")
}

// DeleteStaff removes a stylist after explicit confirmation.
// @Summary Delete a stylist
// @Tags Admin
// @Produce json
// @Param id path string true "Staff ID"
// @Param confirm query bool true "Must be true"
// @Success 202 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/admin/staff/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteStaff(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteStaff")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if !confirmed(r) {
		scope.TraceError(errConfirmationRequired)

		response.WithError(w, errConfirmationRequired)

		return
	}

	if err := handler.staffService.Exists(ctx, id); err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	handler.detach(ctx, constant.CollectionStaff, id, func(ctx context.Context) error {
		return handler.staffService.Delete(ctx, id)
	})

	response.WithMessage(w, http.StatusAccepted, "Staff deletion accepted")
}
