package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"smileclinic/internal/entities"
	"smileclinic/internal/service"
)

type BookingHandler struct {
	Service *service.AppointmentService
}

func NewBookingHandler(svc *service.AppointmentService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

func (h *BookingHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	var req AvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	day, err := h.Service.DayAvailability(req.Date, req.TreatmentID, req.ScheduleID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, day)
}

func (h *BookingHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req entities.AppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	confirmation, err := h.Service.Book(&req)
	if err != nil {
		http.Error(w, err.Error(), bookingStatus(err))
		return
	}
	writeJSON(w, confirmation)
}

func (h *BookingHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	email := r.URL.Query().Get("email")
	if email == "" {
		http.Error(w, "email required", http.StatusBadRequest)
		return
	}
	appointment, err := h.Service.GetByCode(code, email)
	if err != nil {
		http.Error(w, "Appointment not found", http.StatusNotFound)
		return
	}
	writeJSON(w, appointment)
}

func (h *BookingHandler) RescheduleAppointment(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	var req entities.RescheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if err := h.Service.Reschedule(code, &req); err != nil {
		http.Error(w, err.Error(), bookingStatus(err))
		return
	}
	writeJSON(w, map[string]string{"message": "Appointment rescheduled"})
}

func (h *BookingHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if err := h.Service.Cancel(code, req.Email); err != nil {
		http.Error(w, err.Error(), bookingStatus(err))
		return
	}
	writeJSON(w, map[string]string{"message": "Appointment cancelled"})
}

func (h *BookingHandler) ListTreatments(w http.ResponseWriter, r *http.Request) {
	treatments, err := h.Service.Treatments.List()
	if err != nil {
		http.Error(w, "Could not list treatments", http.StatusInternalServerError)
		return
	}
	writeJSON(w, treatments)
}

func bookingStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrSlotTaken),
		errors.Is(err, service.ErrPatientConflict),
		errors.Is(err, service.ErrDentistBusy),
		errors.Is(err, service.ErrAppointmentState):
		return http.StatusConflict
	case errors.Is(err, service.ErrClinicClosed),
		errors.Is(err, service.ErrTooLateToCancel):
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadRequest
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
