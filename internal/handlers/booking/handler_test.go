package booking_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"salon/infras/otel/mocks"
	bookingMocks "salon/internal/domains/booking/mocks"
	"salon/internal/domains/booking/model/dto"
	"salon/internal/domains/booking/wizard"
	"salon/internal/handlers/booking"
	"salon/shared/failure"
)

func newRouter(t *testing.T) (*bookingMocks.MockBookingService, chi.Router) {
	t.Helper()

	ctrl := gomock.NewController(t)
	svc := bookingMocks.NewMockBookingService(ctrl)

	handler := booking.New(svc, mocks.NewOtel())

	router := chi.NewRouter()
	handler.Router(router)

	return svc, router
}

func serve(router chi.Router, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	return rec
}

func TestNextStep(t *testing.T) {
	t.Run("advances a valid step", func(t *testing.T) {
		svc, router := newRouter(t)

		svc.EXPECT().Next(gomock.Any(), wizard.State{Step: wizard.StepSelectService, ServiceID: "svc-1"}).
			Return(dto.WizardResponse{State: wizard.State{Step: wizard.StepSelectStaff, ServiceID: "svc-1"}}, nil)

		rec := serve(router, http.MethodPost, "/bookings/wizard/next", `{"step":1,"service_id":"svc-1"}`)

		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Data dto.WizardResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, wizard.StepSelectStaff, body.Data.State.Step)
		assert.Empty(t, body.Data.Errors)
	})

	t.Run("field errors come back with the state", func(t *testing.T) {
		svc, router := newRouter(t)

		svc.EXPECT().Next(gomock.Any(), gomock.Any()).Return(dto.WizardResponse{
			State:  wizard.State{Step: wizard.StepSelectService},
			Errors: wizard.FieldErrors{wizard.FieldServiceID: "Please select a service."},
		}, nil)

		rec := serve(router, http.MethodPost, "/bookings/wizard/next", `{"step":1}`)

		require.Equal(t, http.StatusBadRequest, rec.Code)

		var body struct {
			Data dto.WizardResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Please select a service.", body.Data.Errors[wizard.FieldServiceID])
	})

	t.Run("malformed body", func(t *testing.T) {
		_, router := newRouter(t)

		rec := serve(router, http.MethodPost, "/bookings/wizard/next", `{"step":`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestPreviousStep(t *testing.T) {
	svc, router := newRouter(t)

	svc.EXPECT().Previous(wizard.State{Step: wizard.StepSelectStaff, ServiceID: "svc-1", StaffID: "staff-1"}).
		Return(dto.WizardResponse{State: wizard.State{Step: wizard.StepSelectService, ServiceID: "svc-1", StaffID: "staff-1"}})

	rec := serve(router, http.MethodPost, "/bookings/wizard/previous", `{"step":2,"service_id":"svc-1","staff_id":"staff-1"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"staff_id":"staff-1"`)
}

func TestCreateBooking(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc, router := newRouter(t)

		svc.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(dto.AppointmentResponse{ID: "appt-1"}, nil)

		rec := serve(router, http.MethodPost, "/bookings", `{"step":4,"service_id":"svc-1","staff_id":"staff-1","date":"2030-01-02","time":"10:00 AM","client_name":"Jane","client_email":"jane@example.com"}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), "appt-1")
	})

	t.Run("incomplete wizard", func(t *testing.T) {
		svc, router := newRouter(t)

		svc.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(dto.AppointmentResponse{}, wizard.ErrIncomplete)

		rec := serve(router, http.MethodPost, "/bookings", `{"step":1}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("confirmation not sent", func(t *testing.T) {
		svc, router := newRouter(t)

		svc.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(dto.AppointmentResponse{}, failure.BadGateway("appointment booked but the confirmation email could not be sent"))

		rec := serve(router, http.MethodPost, "/bookings", `{"step":4}`)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}

func TestGetBookingByID(t *testing.T) {
	svc, router := newRouter(t)

	svc.EXPECT().Get(gomock.Any(), "appt-1").Return(dto.AppointmentResponse{ID: "appt-1"}, nil)

	rec := serve(router, http.MethodGet, "/bookings/appt-1", "")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetQueue(t *testing.T) {
	t.Run("requires an appointment id", func(t *testing.T) {
		_, router := newRouter(t)

		rec := serve(router, http.MethodGet, "/queue", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "appointment_id is required")
	})

	t.Run("reports the position", func(t *testing.T) {
		svc, router := newRouter(t)

		svc.EXPECT().Queue(gomock.Any(), "appt-1").Return(dto.QueueResponse{TotalInQueue: 3, Position: 2, PeopleAhead: 1}, nil)

		rec := serve(router, http.MethodGet, "/queue?appointment_id=appt-1", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"people_ahead":1`)
	})
}
