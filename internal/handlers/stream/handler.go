package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"salon/config"
	"salon/infras/otel"
	catalogService "salon/internal/domains/catalog/service"
	staffService "salon/internal/domains/staff/service"
	"salon/shared/constant"
	gDto "salon/shared/dto"
	"salon/shared/failure"
	"salon/transport/http/response"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const (
	defaultHeartbeatSeconds = 15

	eventSnapshot    = "snapshot"
	eventWriteFailed = "write_failed"
)

var (
	errUnknownCollection    = failure.NotFound("unknown collection")
	errStreamingUnsupported = failure.InternalError(errors.New("streaming unsupported"))
)

type snapshotFunc func(ctx context.Context) (any, error)

type Handler struct {
	hub       *Hub
	snapshots map[string]snapshotFunc
	heartbeat time.Duration
	otel      otel.Otel
}

func New(hub *Hub, catalog catalogService.Catalog, staff staffService.Staff, cfg *config.Config, otel otel.Otel) Handler {
	heartbeat := cfg.Realtime.HeartbeatSeconds
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeatSeconds
	}

	everything := gDto.QueryParams{SortBy: constant.FieldCreatedAt, SortDir: gDto.SortDirAsc}

	return Handler{
		hub: hub,
		snapshots: map[string]snapshotFunc{
			constant.CollectionServices: func(ctx context.Context) (any, error) {
				res, err := catalog.GetAll(ctx, everything, gDto.FilterGroup{})

				return res.Services, err //nolint:wrapcheck
			},
			constant.CollectionStaff: func(ctx context.Context) (any, error) {
				res, err := staff.GetAll(ctx, everything, gDto.FilterGroup{})

				return res.Staff, err //nolint:wrapcheck
			},
		},
		heartbeat: time.Duration(heartbeat) * time.Second,
		otel:      otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/stream/{collection}", handler.Stream)
}

// Stream is a live read of a whole collection over server-sent events.
// @Summary Live collection read
// @Description Sends a snapshot event with the full collection on connect and after every change, write_failed events for failed admin writes, and heartbeat comments.
// @Tags Stream
// @Produce text/event-stream
// @Param collection path string true "services or staff"
// @Success 200 {string} string "event stream"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/stream/{collection} [get]
func (handler *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	collection := chi.URLParam(r, constant.RequestParamCollection)

	snapshot, ok := handler.snapshots[collection]
	if !ok {
		response.WithError(w, errUnknownCollection)

		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.WithError(w, errStreamingUnsupported)

		return
	}

	client, err := handler.hub.Join(collection)
	if err != nil {
		log.Error().Err(err).Str("collection", collection).Msg("failed to open stream")

		response.WithError(w, err)

		return
	}
	defer handler.hub.Leave(client)

	w.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeEventStream)
	w.Header().Set(constant.RequestHeaderCacheControl, "no-cache")
	w.Header().Set(constant.RequestHeaderConnection, "keep-alive")
	w.Header().Set(constant.RequestHeaderAccelBuffering, "no")
	w.WriteHeader(http.StatusOK)

	if err := handler.sendSnapshot(ctx, w, collection, snapshot); err != nil {
		return
	}

	flusher.Flush()

	heartbeat := time.NewTicker(handler.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": heartbeat\n\n"); err != nil {
				return
			}
		case <-client.Changed:
			if err := handler.sendSnapshot(ctx, w, collection, snapshot); err != nil {
				return
			}
		case event := <-client.Failures:
			if err := writeEvent(w, eventWriteFailed, event); err != nil {
				return
			}
		}

		flusher.Flush()
	}
}

// sendSnapshot writes the current collection. A failed read is logged and
// skipped so the stream survives a transient store error; only write errors
// end the stream.
func (handler *Handler) sendSnapshot(ctx context.Context, w http.ResponseWriter, collection string, snapshot snapshotFunc) error {
	ctx, scope := handler.otel.NewScope(ctx, constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".StreamSnapshot")
	defer scope.End()

	scope.SetAttribute("stream.collection", collection)

	data, err := snapshot(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("collection", collection).Msg("failed to read stream snapshot")

		return nil
	}

	return writeEvent(w, eventSnapshot, data)
}

func writeEvent(w http.ResponseWriter, name string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		log.Warn().Err(err).Str("event", name).Msg("failed to marshal stream event")

		return nil
	}

	if _, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, payload); err != nil {
		return fmt.Errorf("failed to write stream event: %w", err)
	}

	return nil
}
