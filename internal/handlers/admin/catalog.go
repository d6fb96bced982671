package admin

import (
	"context"
	"net/http"
	"salon/internal/domains/catalog/model/dto"
	"salon/shared/constant"
	"salon/shared/validator"
	"salon/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// CreateService adds a service to the catalog.
// @Summary Add a service
// @Description Validate and accept a new service. The write completes after the response; watch /v1/stream/services for the result.
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body dto.CreateServiceRequest true "Service"
// @Success 202 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 403 {object} response.Error
// @Router /v1/admin/services [post]
// @Security BearerAuth
func (handler *Handler) CreateService(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateService")
	defer scope.End()

	req := dto.CreateServiceRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	handler.detach(ctx, constant.CollectionServices, constant.Empty, func(ctx context.Context) error {
		_, err := handler.catalogService.Create(ctx, req)

		return err //nolint:wrapcheck
	})

	response.WithMessage(w, http.StatusAccepted, "Service creation accepted")
}

// UpdateService edits the given fields of a service.
// @Summary Edit a service
// @Description Overwrite the given fields, keeping the id and every field not sent.
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Service ID"
// @Param request body dto.UpdateServiceRequest true "Fields to change"
// @Success 202 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/admin/services/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateService(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateService")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateServiceRequest{}

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

	if err := handler.catalogService.Exists(ctx, id); err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	handler.detach(ctx, constant.CollectionServices, id, func(ctx context.Context) error {
		return handler.catalogService.Update(ctx, req, id)
	})

	response.WithMessage(w, http.StatusAccepted, "Service update accepted")
}

// DeleteService removes a service after explicit confirmation.
// @Summary Delete a service
// @Tags Admin
// @Produce json
// @Param id path string true "Service ID"
// @Param confirm query bool true "Must be true"
// @Success 202 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/admin/services/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteService(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteService")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if !confirmed(r) {
		scope.TraceError(errConfirmationRequired)

		response.WithError(w, errConfirmationRequired)

		return
	}

	if err := handler.catalogService.Exists(ctx, id); err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	handler.detach(ctx, constant.CollectionServices, id, func(ctx context.Context) error {
		return handler.catalogService.Delete(ctx, id)
	})

	response.WithMessage(w, http.StatusAccepted, "Service deletion accepted")
}
