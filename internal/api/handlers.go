package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/prabhav0001/DeeCee2-sub000/internal/appointment"
)

// User-facing error strings are part of the API contract; clients match on
// them.
const (
	msgSlotTaken     = "This time slot is already booked"
	msgIDConflict    = "An appointment with this id already exists"
	msgCreateFailed  = "Failed to create appointment"
	msgNotFound      = "Appointment not found"
	msgBadTransition = "Invalid status transition"
	msgListFailed    = "Failed to load appointments"
	msgAvailFailed   = "Failed to load availability"
	msgInvalidBody   = "Invalid request body"
	msgInvalidID     = "Invalid appointment id"
	msgInvalidStatus = "Invalid status value"
	msgCancelFailed  = "Failed to cancel appointment"
)

func availabilityHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date := r.URL.Query().Get("date")
		location := r.URL.Query().Get("location")

		if date == "" {
			writeError(w, http.StatusBadRequest, "Missing required field: date")
			return
		}
		if location == "" {
			writeError(w, http.StatusBadRequest, "Missing required field: location")
			return
		}

		slots, err := svc.Availability(r.Context(), date, location)
		if err != nil {
			log.Printf("availability request failed for %s/%s: %v", date, location, err)
			writeError(w, http.StatusInternalServerError, msgAvailFailed)
			return
		}

		writeJSON(w, http.StatusOK, AvailabilityResponse{
			Success:  true,
			Date:     date,
			Location: location,
			Slots:    slots,
		})
	}
}

func createAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, msgInvalidBody)
			return
		}

		appt, confirmation, err := svc.Book(r.Context(), req.draft())
		if err != nil {
			handleBookError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, AppointmentResponse{
			Success:      true,
			Appointment:  appt,
			Confirmation: confirmation,
		})
	}
}

func handleBookError(w http.ResponseWriter, err error) {
	var vErr *appointment.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeError(w, http.StatusBadRequest, vErr.Fields.Primary())
	case errors.Is(err, appointment.ErrSlotTaken):
		writeError(w, http.StatusConflict, msgSlotTaken)
	case errors.Is(err, appointment.ErrIDConflict):
		writeError(w, http.StatusConflict, msgIDConflict)
	default:
		log.Printf("booking failed: %v", err)
		writeError(w, http.StatusInternalServerError, msgCreateFailed)
	}
}

func listAppointmentsHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		appts, err := svc.List(r.Context())
		if err != nil {
			log.Printf("list appointments failed: %v", err)
			writeError(w, http.StatusInternalServerError, msgListFailed)
			return
		}
		if appts == nil {
			appts = []appointment.Appointment{}
		}

		writeJSON(w, http.StatusOK, ListAppointmentsResponse{
			Success:      true,
			Appointments: appts,
			Count:        len(appts),
		})
	}
}

func getAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}

		appt, err := svc.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, appointment.ErrNotFound) {
				writeError(w, http.StatusNotFound, msgNotFound)
				return
			}
			log.Printf("get appointment %s failed: %v", id, err)
			writeError(w, http.StatusInternalServerError, msgListFailed)
			return
		}

		writeJSON(w, http.StatusOK, AppointmentResponse{Success: true, Appointment: appt})
	}
}

func cancelAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}

		appt, err := svc.Cancel(r.Context(), id)
		if err != nil {
			switch {
			case errors.Is(err, appointment.ErrNotFound):
				writeError(w, http.StatusNotFound, msgNotFound)
			case errors.Is(err, appointment.ErrInvalidTransition):
				writeError(w, http.StatusConflict, msgBadTransition)
			default:
				log.Printf("cancel appointment %s failed: %v", id, err)
				writeError(w, http.StatusInternalServerError, msgCancelFailed)
			}
			return
		}

		writeJSON(w, http.StatusOK, AppointmentResponse{Success: true, Appointment: appt})
	}
}

func updateStatusHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}

		var req UpdateStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, msgInvalidBody)
			return
		}

		to := appointment.Status(req.Status)
		if !appointment.ValidStatus(to) {
			writeError(w, http.StatusBadRequest, msgInvalidStatus)
			return
		}

		appt, err := svc.UpdateStatus(r.Context(), id, to)
		if err != nil {
			switch {
			case errors.Is(err, appointment.ErrNotFound):
				writeError(w, http.StatusNotFound, msgNotFound)
			case errors.Is(err, appointment.ErrInvalidTransition):
				writeError(w, http.StatusConflict, msgBadTransition)
			default:
				log.Printf("update status for %s failed: %v", id, err)
				writeError(w, http.StatusInternalServerError, msgListFailed)
			}
			return
		}

		writeJSON(w, http.StatusOK, AppointmentResponse{Success: true, Appointment: appt})
	}
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidID)
		return uuid.Nil, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Success: false, Error: msg})
}
