package home

import (
	"net/http"
	"salon/infras/otel"
	catalogDto "salon/internal/domains/catalog/model/dto"
	catalogService "salon/internal/domains/catalog/service"
	staffDto "salon/internal/domains/staff/model/dto"
	staffService "salon/internal/domains/staff/service"
	"salon/shared/constant"
	gDto "salon/shared/dto"
	"salon/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const featuredLimit = 3

type Response struct {
	Services []catalogDto.ServiceResponse `json:"services"`
	Staff    []staffDto.StaffResponse     `json:"staff"`
}

type Handler struct {
	catalogService catalogService.Catalog
	staffService   staffService.Staff
	otel           otel.Otel
}

func New(catalogService catalogService.Catalog, staffService staffService.Staff, otel otel.Otel) Handler {
	return Handler{
		catalogService: catalogService,
		staffService:   staffService,
		otel:           otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/home", handler.GetHome)
}

// GetHome returns the featured services and stylists of the landing page.
// @Summary Landing page content
// @Description The first three services and the first three stylists.
// @Tags Home
// @Produce json
// @Success 200 {object} response.Data[Response]
// @Failure 500 {object} response.Error
// @Router /v1/home [get]
func (handler *Handler) GetHome(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetHome")
	defer scope.End()

	params := gDto.QueryParams{
		Page:    constant.DefaultValuePage,
		Limit:   featuredLimit,
		SortBy:  constant.FieldCreatedAt,
		SortDir: gDto.SortDirAsc,
	}

	services, err := handler.catalogService.GetAll(ctx, params, gDto.FilterGroup{})
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get featured services")

		response.WithError(w, err)

		return
	}

	staff, err := handler.staffService.GetAll(ctx, params, gDto.FilterGroup{})
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get featured staff")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, Response{
		Services: services.Services,
		Staff:    staff.Staff,
	})
}
