package admin

import (
	"context"
	"net/http"
	"salon/infras/otel"
	"salon/infras/pubsub"
	bookingService "salon/internal/domains/booking/service"
	catalogService "salon/internal/domains/catalog/service"
	mediaService "salon/internal/domains/media/service"
	roleService "salon/internal/domains/role/service"
	seedService "salon/internal/domains/seed/service"
	staffService "salon/internal/domains/staff/service"
	"salon/shared"
	"salon/shared/constant"
	"salon/shared/failure"
	"salon/transport/http/response"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

var (
	errConfirmationRequired = failure.BadRequestFromString("deletion requires confirmation")
	errEmptyUpdate          = failure.BadRequestFromString("update request cannot be empty")
)

type AccessResponse struct {
	IsAdmin bool `json:"is_admin"`
}

type Handler struct {
	catalogService catalogService.Catalog
	staffService   staffService.Staff
	bookingService bookingService.Booking
	mediaService   mediaService.Media
	seeder         seedService.Seeder
	authorizer     roleService.Authorizer
	bus            pubsub.Bus
	otel           otel.Otel
	writes         *sync.WaitGroup
}

func New(
	catalogService catalogService.Catalog,
	staffService staffService.Staff,
	bookingService bookingService.Booking,
	mediaService mediaService.Media,
	seeder seedService.Seeder,
	authorizer roleService.Authorizer,
	bus pubsub.Bus,
	otel otel.Otel,
) Handler {
	return Handler{
		catalogService: catalogService,
		staffService:   staffService,
		bookingService: bookingService,
		mediaService:   mediaService,
		seeder:         seeder,
		authorizer:     authorizer,
		bus:            bus,
		otel:           otel,
		writes:         &sync.WaitGroup{},
	}
}

// Router mounts the admin panel routes on an already prefixed group.
func (handler *Handler) Router(router chi.Router) {
	router.Get("/access", handler.GetAccess)

	router.Route("/services", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateService)
		routerGroup.Patch("/{id}", handler.UpdateService)
		routerGroup.Delete("/{id}", handler.DeleteService)
	})

	router.Route("/staff", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateStaff)
		routerGroup.Patch("/{id}", handler.UpdateStaff)
		routerGroup.Delete("/{id}", handler.DeleteStaff)
	})

	router.Post("/images", handler.UploadImage)
	router.Get("/appointments", handler.GetAppointments)
	router.Post("/seed", handler.Seed)
}

// Wait blocks until every detached write has finished.
func (handler *Handler) Wait() {
	handler.writes.Wait()
}

// GetAccess reports whether the caller may use the admin panel.
// @Summary Admin capability probe
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Data[AccessResponse]
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/access [get]
// @Security BearerAuth
func (handler *Handler) GetAccess(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAccess")
	defer scope.End()

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	isAdmin, err := handler.authorizer.IsAdmin(ctx, userID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to check admin capability")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, AccessResponse{IsAdmin: isAdmin})
}

// detach runs write after the response has been sent. A failure is
// announced on the change stream of collection as a write_failed event.
func (handler *Handler) detach(ctx context.Context, collection, id string, write func(ctx context.Context) error) {
	c := context.WithoutCancel(ctx)

	handler.writes.Add(1)

	go func() {
		defer handler.writes.Done()

		err := write(c)
		if err == nil {
			return
		}

		log.Error().Err(err).Str("collection", collection).Str("id", id).Msg("detached admin write failed")

		event := pubsub.Event{
			Collection: collection,
			Action:     pubsub.ActionWriteFailed,
			ID:         id,
			Error:      err.Error(),
		}

		if err := handler.bus.Publish(c, event); err != nil {
			log.Error().Err(err).Str("collection", collection).Msg("failed to publish write failure")
		}
	}()
}

func confirmed(r *http.Request) bool {
	confirm := shared.ConvertStringToBool(r.URL.Query().Get(constant.RequestParamConfirm))

	return confirm != nil && *confirm
}
