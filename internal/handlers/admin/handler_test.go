package admin_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"salon/infras/otel/mocks"
	"salon/infras/pubsub"
	pubsubMocks "salon/infras/pubsub/mocks"
	bookingMocks "salon/internal/domains/booking/mocks"
	bookingDto "salon/internal/domains/booking/model/dto"
	catalogMocks "salon/internal/domains/catalog/mocks"
	catalogDto "salon/internal/domains/catalog/model/dto"
	mediaMocks "salon/internal/domains/media/mocks"
	roleMocks "salon/internal/domains/role/mocks"
	seedMocks "salon/internal/domains/seed/mocks"
	seedDto "salon/internal/domains/seed/model/dto"
	staffMocks "salon/internal/domains/staff/mocks"
	staffDto "salon/internal/domains/staff/model/dto"
	"salon/internal/handlers/admin"
	"salon/shared/constant"
	"salon/shared/failure"
)

type fixture struct {
	handler    *admin.Handler
	router     chi.Router
	catalog    *catalogMocks.MockCatalogService
	staff      *staffMocks.MockStaffService
	booking    *bookingMocks.MockBookingService
	seeder     *seedMocks.MockSeeder
	authorizer *roleMocks.MockAuthorizer
	bus        *pubsubMocks.MockBus
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		catalog:    catalogMocks.NewMockCatalogService(ctrl),
		staff:      staffMocks.NewMockStaffService(ctrl),
		booking:    bookingMocks.NewMockBookingService(ctrl),
		seeder:     seedMocks.NewMockSeeder(ctrl),
		authorizer: roleMocks.NewMockAuthorizer(ctrl),
		bus:        pubsubMocks.NewMockBus(ctrl),
	}

	handler := admin.New(f.catalog, f.staff, f.booking, mediaMocks.NewMockMedia(ctrl), f.seeder, f.authorizer, f.bus, mocks.NewOtel())
	f.handler = &handler

	f.router = chi.NewRouter()
	f.router.Route("/admin", f.handler.Router)

	return f
}

func (f fixture) serve(method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()

	f.router.ServeHTTP(rec, req)

	return rec
}

const validService = `{"name":"Signature Haircut","description":"Consultation, wash, cut and style.","price":85,"duration":60,"image_url":"https://picsum.photos/seed/cut/400/300"}`

func TestGetAccess(t *testing.T) {
	f := newFixture(t)

	f.authorizer.EXPECT().IsAdmin(gomock.Any(), "user-1").Return(true, nil)

	req := httptest.NewRequest(http.MethodGet, "/admin/access", nil)
	req = req.WithContext(context.WithValue(req.Context(), constant.ContextKeyUserID, "user-1"))

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"is_admin":true`)
}

func TestCreateService(t *testing.T) {
	t.Run("accepted and written after the response", func(t *testing.T) {
		f := newFixture(t)

		f.catalog.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, req catalogDto.CreateServiceRequest) (string, error) {
				assert.Equal(t, "Signature Haircut", req.Name)

				return "svc-1", nil
			})

		rec := f.serve(http.MethodPost, "/admin/services", validService)
		f.handler.Wait()

		assert.Equal(t, http.StatusAccepted, rec.Code)
	})

	t.Run("invalid body is rejected before any write", func(t *testing.T) {
		f := newFixture(t)

		rec := f.serve(http.MethodPost, "/admin/services", `{"name":"X"}`)
		f.handler.Wait()

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("failed write is published", func(t *testing.T) {
		f := newFixture(t)

		f.catalog.EXPECT().Create(gomock.Any(), gomock.Any()).Return("", errors.New("connection reset"))
		f.bus.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, event pubsub.Event) error {
			assert.Equal(t, constant.CollectionServices, event.Collection)
			assert.Equal(t, pubsub.ActionWriteFailed, event.Action)
			assert.Contains(t, event.Error, "connection reset")

			return nil
		})

		rec := f.serve(http.MethodPost, "/admin/services", validService)
		f.handler.Wait()

		assert.Equal(t, http.StatusAccepted, rec.Code)
	})
}

func TestUpdateService(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		f := newFixture(t)

		f.catalog.EXPECT().Exists(gomock.Any(), "svc-1").Return(nil)
		f.catalog.EXPECT().Update(gomock.Any(), gomock.Any(), "svc-1").DoAndReturn(
			func(_ context.Context, req catalogDto.UpdateServiceRequest, _ string) error {
				require.NotNil(t, req.Price)
				assert.InDelta(t, 90.0, *req.Price, 1e-9)
				assert.Empty(t, req.Name)

				return nil
			})

		rec := f.serve(http.MethodPatch, "/admin/services/svc-1", `{"price":90}`)
		f.handler.Wait()

		assert.Equal(t, http.StatusAccepted, rec.Code)
	})

	t.Run("empty update", func(t *testing.T) {
		f := newFixture(t)

		rec := f.serve(http.MethodPatch, "/admin/services/svc-1", `{}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown service", func(t *testing.T) {
		f := newFixture(t)

		f.catalog.EXPECT().Exists(gomock.Any(), "missing").Return(failure.NotFound("service not found"))

		rec := f.serve(http.MethodPatch, "/admin/services/missing", `{"price":90}`)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestDeleteService(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		exists   bool
		wantCode int
	}{
		{name: "without confirmation", query: "", wantCode: http.StatusBadRequest},
		{name: "confirmation false", query: "?confirm=false", wantCode: http.StatusBadRequest},
		{name: "confirmed", query: "?confirm=true", exists: true, wantCode: http.StatusAccepted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			if tt.exists {
				f.catalog.EXPECT().Exists(gomock.Any(), "svc-1").Return(nil)
				f.catalog.EXPECT().Delete(gomock.Any(), "svc-1").Return(nil)
			}

			rec := f.serve(http.MethodDelete, "/admin/services/svc-1"+tt.query, "")
			f.handler.Wait()

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestUpdateStaff(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		f := newFixture(t)

		f.staff.EXPECT().Exists(gomock.Any(), "staff-1").Return(nil)
		f.staff.EXPECT().Update(gomock.Any(), staffDto.UpdateStaffRequest{Experience: "9 years"}, "staff-1").Return(nil)

		rec := f.serve(http.MethodPatch, "/admin/staff/staff-1", `{"experience":"9 years"}`)
		f.handler.Wait()

		assert.Equal(t, http.StatusAccepted, rec.Code)
	})

	t.Run("failed write is published on the staff stream", func(t *testing.T) {
		f := newFixture(t)

		f.staff.EXPECT().Exists(gomock.Any(), "staff-1").Return(nil)
		f.staff.EXPECT().Update(gomock.Any(), gomock.Any(), "staff-1").Return(errors.New("timeout"))
		f.bus.EXPECT().Publish(gomock.Any(), pubsub.Event{
			Collection: constant.CollectionStaff,
			Action:     pubsub.ActionWriteFailed,
			ID:         "staff-1",
			Error:      "timeout",
		}).Return(nil)

		rec := f.serve(http.MethodPatch, "/admin/staff/staff-1", `{"experience":"9 years"}`)
		f.handler.Wait()

		assert.Equal(t, http.StatusAccepted, rec.Code)
	})
}

func TestDeleteStaff(t *testing.T) {
	f := newFixture(t)

	f.staff.EXPECT().Exists(gomock.Any(), "missing").Return(failure.NotFound("staff not found"))

	rec := f.serve(http.MethodDelete, "/admin/staff/missing?confirm=true", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetAppointments(t *testing.T) {
	f := newFixture(t)

	f.booking.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(bookingDto.GetAppointmentsResponse{}, nil)

	rec := f.serve(http.MethodGet, "/admin/appointments?status=scheduled&staff_id=staff-1", "")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSeed(t *testing.T) {
	f := newFixture(t)

	f.seeder.EXPECT().EnsureSeeded(gomock.Any()).Return(seedDto.SeedResponse{ServicesInserted: 6, StaffInserted: 4}, nil)

	rec := f.serve(http.MethodPost, "/admin/seed", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"services_inserted":6`)
}

func TestUploadImage_MissingFile(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/images", strings.NewReader("--x--\r\n"))
	req.Header.Set(constant.RequestHeaderContentType, "multipart/form-data; boundary=x")

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
