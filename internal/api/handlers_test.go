package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prabhav0001/DeeCee2-sub000/internal/appointment"
	"github.com/prabhav0001/DeeCee2-sub000/internal/notify"
	redisclient "github.com/prabhav0001/DeeCee2-sub000/internal/redis"
)

func newTestRouter() (http.Handler, *appointment.MemoryRepository) {
	repo := appointment.NewMemoryRepository()
	svc := appointment.NewService(repo, redisclient.NopLocker{}, nil, notify.NopDispatcher{}, appointment.StatusConfirmed)

	// Health handlers are wired but not exercised here, so nil backends are
	// fine.
	router := NewRouter(RouterConfig{
		Service: svc,
		Env:     "test",
		Version: "test",
	})
	return router, repo
}

func bookingBody() map[string]string {
	return map[string]string{
		"service":  "styling",
		"location": "Mumbai",
		"date":     "2024-06-01",
		"time":     "13:00",
		"name":     "Asha Rao",
		"email":    "asha@example.com",
		"phone":    "9876543210",
		"notes":    "first visit",
	}
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestCreateAppointment_Created(t *testing.T) {
	router, _ := newTestRouter()

	rec := doJSON(t, router, http.MethodPost, "/appointments", bookingBody())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	resp := decode[AppointmentResponse](t, rec)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Appointment)
	assert.NotEqual(t, uuid.Nil, resp.Appointment.ID)
	assert.Equal(t, "13:00", resp.Appointment.Time)
	assert.Equal(t, appointment.StatusConfirmed, resp.Appointment.Status)
	assert.NotEmpty(t, resp.Confirmation)
}

func TestCreateAppointment_MissingEmail(t *testing.T) {
	router, repo := newTestRouter()

	body := bookingBody()
	delete(body, "email")

	rec := doJSON(t, router, http.MethodPost, "/appointments", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decode[ErrorResponse](t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "Missing required field: email", resp.Error)

	appts, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, appts, "no partial record persisted")
}

func TestCreateAppointment_SlotConflict(t *testing.T) {
	router, _ := newTestRouter()

	rec := doJSON(t, router, http.MethodPost, "/appointments", bookingBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	body := bookingBody()
	body["email"] = "other@example.com"
	body["id"] = uuid.NewString()

	rec = doJSON(t, router, http.MethodPost, "/appointments", body)
	require.Equal(t, http.StatusConflict, rec.Code)

	resp := decode[ErrorResponse](t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "This time slot is already booked", resp.Error)
}

func TestCreateAppointment_MaskedSlotRejected(t *testing.T) {
	router, _ := newTestRouter()

	body := bookingBody()
	body["time"] = "12:00" // masked for 2024-06-01/Mumbai

	rec := doJSON(t, router, http.MethodPost, "/appointments", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decode[ErrorResponse](t, rec)
	assert.Equal(t, "This time slot is not available", resp.Error)
}

func TestCreateAppointment_InvalidJSON(t *testing.T) {
	router, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/appointments", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListAppointments(t *testing.T) {
	router, _ := newTestRouter()

	rec := doJSON(t, router, http.MethodGet, "/appointments", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	empty := decode[ListAppointmentsResponse](t, rec)
	assert.True(t, empty.Success)
	assert.Equal(t, 0, empty.Count)
	assert.NotNil(t, empty.Appointments)

	doJSON(t, router, http.MethodPost, "/appointments", bookingBody())

	rec = doJSON(t, router, http.MethodGet, "/appointments", nil)
	resp := decode[ListAppointmentsResponse](t, rec)
	assert.Equal(t, 1, resp.Count)
	assert.Len(t, resp.Appointments, 1)
}

func TestGetAppointment(t *testing.T) {
	router, _ := newTestRouter()

	rec := doJSON(t, router, http.MethodPost, "/appointments", bookingBody())
	created := decode[AppointmentResponse](t, rec)

	rec = doJSON(t, router, http.MethodGet, "/appointments/"+created.Appointment.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[AppointmentResponse](t, rec)
	assert.Equal(t, created.Appointment.ID, resp.Appointment.ID)

	rec = doJSON(t, router, http.MethodGet, "/appointments/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/appointments/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCancelAppointment_ReleasesSlot(t *testing.T) {
	router, _ := newTestRouter()

	rec := doJSON(t, router, http.MethodPost, "/appointments", bookingBody())
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[AppointmentResponse](t, rec)

	rec = doJSON(t, router, http.MethodDelete, "/appointments/"+created.Appointment.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[AppointmentResponse](t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, appointment.StatusCancelled, resp.Appointment.Status)

	// The triple is free again: the same booking now succeeds.
	body := bookingBody()
	body["email"] = "rebook@example.com"
	rec = doJSON(t, router, http.MethodPost, "/appointments", body)
	assert.Equal(t, http.StatusCreated, rec.Code, "cancelled slot must be reusable")
}

func TestCancelAppointment_NotFound(t *testing.T) {
	router, _ := newTestRouter()

	rec := doJSON(t, router, http.MethodDelete, "/appointments/"+uuid.NewString(), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	resp := decode[ErrorResponse](t, rec)
	assert.Equal(t, "Appointment not found", resp.Error)
}

func TestUpdateStatus(t *testing.T) {
	router, _ := newTestRouter()

	rec := doJSON(t, router, http.MethodPost, "/appointments", bookingBody())
	created := decode[AppointmentResponse](t, rec)
	path := fmt.Sprintf("/appointments/%s/status", created.Appointment.ID)

	rec = doJSON(t, router, http.MethodPatch, path, UpdateStatusRequest{Status: "completed"})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[AppointmentResponse](t, rec)
	assert.Equal(t, appointment.StatusCompleted, resp.Appointment.Status)

	// Terminal state: no way back.
	rec = doJSON(t, router, http.MethodPatch, path, UpdateStatusRequest{Status: "confirmed"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, router, http.MethodPatch, path, UpdateStatusRequest{Status: "archived"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAvailabilityEndpoint(t *testing.T) {
	router, _ := newTestRouter()

	rec := doJSON(t, router, http.MethodGet, "/availability?date=2024-06-01&location=Mumbai", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[AvailabilityResponse](t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "2024-06-01", resp.Date)
	assert.Equal(t, "Mumbai", resp.Location)
	require.Len(t, resp.Slots, 8, "every catalog slot is reported")

	byTime := map[string]bool{}
	for _, s := range resp.Slots {
		byTime[s.Time] = s.Bookable
	}
	assert.False(t, byTime["12:00"], "masked slot")
	assert.False(t, byTime["15:00"], "masked slot")

	// Booking a slot removes it from the preview.
	doJSON(t, router, http.MethodPost, "/appointments", bookingBody())
	rec = doJSON(t, router, http.MethodGet, "/availability?date=2024-06-01&location=Mumbai", nil)
	resp = decode[AvailabilityResponse](t, rec)
	for _, s := range resp.Slots {
		if s.Time == "13:00" {
			assert.False(t, s.Bookable)
		}
	}
}

func TestAvailabilityEndpoint_MissingParams(t *testing.T) {
	router, _ := newTestRouter()

	rec := doJSON(t, router, http.MethodGet, "/availability?location=Mumbai", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing required field: date", decode[ErrorResponse](t, rec).Error)

	rec = doJSON(t, router, http.MethodGet, "/availability?date=2024-06-01", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing required field: location", decode[ErrorResponse](t, rec).Error)
}

func TestIdempotentResubmitOverHTTP(t *testing.T) {
	router, _ := newTestRouter()

	body := bookingBody()
	body["id"] = uuid.NewString()

	first := doJSON(t, router, http.MethodPost, "/appointments", body)
	require.Equal(t, http.StatusCreated, first.Code)

	second := doJSON(t, router, http.MethodPost, "/appointments", body)
	require.Equal(t, http.StatusCreated, second.Code, "same draft, same id: not a conflict")

	rec := doJSON(t, router, http.MethodGet, "/appointments", nil)
	resp := decode[ListAppointmentsResponse](t, rec)
	assert.Equal(t, 1, resp.Count, "retry must not duplicate the booking")
}

func TestCreateAppointment_DuplicateIDDifferentSlot(t *testing.T) {
	router, _ := newTestRouter()

	body := bookingBody()
	body["id"] = uuid.NewString()

	first := doJSON(t, router, http.MethodPost, "/appointments", body)
	require.Equal(t, http.StatusCreated, first.Code)

	body["time"] = "14:00"
	rec := doJSON(t, router, http.MethodPost, "/appointments", body)
	require.Equal(t, http.StatusConflict, rec.Code)

	// The 14:00 slot is free; the conflict is the reused id, and the
	// message must say so rather than blame the slot.
	resp := decode[ErrorResponse](t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "An appointment with this id already exists", resp.Error)
}
