package admin

import (
	"net/http"
	"salon/shared/constant"
	"salon/transport/http/response"

	"github.com/rs/zerolog/log"
)

// Seed fills empty collections with the fallback catalog.
// @Summary Ensure seeded
// @Description Insert the fallback services and stylists into collections that are empty. Safe to call repeatedly.
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Data[dto.SeedResponse]
// @Failure 401 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/seed [post]
// @Security BearerAuth
func (handler *Handler) Seed(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Seed")
	defer scope.End()

	res, err := handler.seeder.EnsureSeeded(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to seed collections")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}
