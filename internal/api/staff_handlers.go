package api

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"smileclinic/internal/db"
	"smileclinic/internal/repository"
	"smileclinic/internal/service"
)

type StaffHandler struct {
	Appointments  *service.AppointmentService
	Dentists      *service.DentistService
	Feedback      *service.FeedbackService
	Notifications *repository.NotificationRepository
}

func NewStaffHandler(appointments *service.AppointmentService, dentists *service.DentistService,
	feedback *service.FeedbackService, notifications *repository.NotificationRepository) *StaffHandler {
	return &StaffHandler{Appointments: appointments, Dentists: dentists, Feedback: feedback, Notifications: notifications}
}

func (h *StaffHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	scheduleID, _ := strconv.Atoi(query.Get("dentist_schedule_id"))
	limit, _ := strconv.Atoi(query.Get("limit"))
	offset, _ := strconv.Atoi(query.Get("offset"))

	list, err := h.Appointments.List(query.Get("date"), query.Get("status"), scheduleID, limit, offset)
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, list)
}

func (h *StaffHandler) ApproveAppointment(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, "approved")
}

func (h *StaffHandler) RejectAppointment(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, "rejected")
}

func (h *StaffHandler) CompleteAppointment(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, "completed")
}

func (h *StaffHandler) MarkNoShow(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, "no_show")
}

func (h *StaffHandler) setStatus(w http.ResponseWriter, r *http.Request, status string) {
	code := mux.Vars(r)["code"]
	if err := h.Appointments.SetStatus(code, status); err != nil {
		http.Error(w, err.Error(), bookingStatus(err))
		return
	}
	writeJSON(w, map[string]string{"code": code, "status": status})
}

type dayHoursRequest struct {
	Works bool   `json:"works"`
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

type scheduleRequest struct {
	Code        string          `json:"code"`
	FullName    string          `json:"full_name"`
	Status      string          `json:"status"`
	ContractEnd string          `json:"contract_end,omitempty"` // "2006-01-02"
	Sun         dayHoursRequest `json:"sun"`
	Mon         dayHoursRequest `json:"mon"`
	Tue         dayHoursRequest `json:"tue"`
	Wed         dayHoursRequest `json:"wed"`
	Thu         dayHoursRequest `json:"thu"`
	Fri         dayHoursRequest `json:"fri"`
	Sat         dayHoursRequest `json:"sat"`
}

func (h *StaffHandler) ListDentists(w http.ResponseWriter, r *http.Request) {
	schedules, err := h.Dentists.List()
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, schedules)
}

func (h *StaffHandler) CreateDentist(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	schedule, err := toSchedule(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Dentists.Create(schedule); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]any{"id": schedule.ID, "message": "Dentist schedule created"})
}

func (h *StaffHandler) UpdateDentist(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	schedule, err := toSchedule(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	schedule.ID = id
	if err := h.Dentists.Update(schedule); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]string{"message": "Dentist schedule updated"})
}

func (h *StaffHandler) ListFeedback(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	summary, err := h.Feedback.Summary(limit, offset)
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, summary)
}

func (h *StaffHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	notifications, err := h.Notifications.ListRecent(limit)
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, notifications)
}

func toSchedule(req scheduleRequest) (*db.DentistSchedule, error) {
	schedule := &db.DentistSchedule{
		Code:     req.Code,
		FullName: req.FullName,
		Status:   req.Status,
	}
	if req.ContractEnd != "" {
		contractEnd, err := time.Parse("2006-01-02", req.ContractEnd)
		if err != nil {
			return nil, err
		}
		schedule.ContractEnd = sql.NullTime{Time: contractEnd, Valid: true}
	}

	schedule.SunWorks, schedule.SunStart, schedule.SunEnd = dayColumns(req.Sun)
	schedule.MonWorks, schedule.MonStart, schedule.MonEnd = dayColumns(req.Mon)
	schedule.TueWorks, schedule.TueStart, schedule.TueEnd = dayColumns(req.Tue)
	schedule.WedWorks, schedule.WedStart, schedule.WedEnd = dayColumns(req.Wed)
	schedule.ThuWorks, schedule.ThuStart, schedule.ThuEnd = dayColumns(req.Thu)
	schedule.FriWorks, schedule.FriStart, schedule.FriEnd = dayColumns(req.Fri)
	schedule.SatWorks, schedule.SatStart, schedule.SatEnd = dayColumns(req.Sat)
	return schedule, nil
}

func dayColumns(day dayHoursRequest) (bool, sql.NullString, sql.NullString) {
	var start, end sql.NullString
	if day.Start != "" {
		start = sql.NullString{String: day.Start, Valid: true}
	}
	if day.End != "" {
		end = sql.NullString{String: day.End, Valid: true}
	}
	return day.Works, start, end
}
