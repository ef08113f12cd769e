package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"smileclinic/internal/db"
	"smileclinic/internal/service"
)

type PatientHandler struct {
	Service *service.PatientService
}

func NewPatientHandler(svc *service.PatientService) *PatientHandler {
	return &PatientHandler{Service: svc}
}

type patientRequest struct {
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	BirthDate string `json:"birth_date,omitempty"` // "2006-01-02"
	Notes     string `json:"notes,omitempty"`
}

type patientResponse struct {
	ID        int    `json:"id"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	BirthDate string `json:"birth_date,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

func (h *PatientHandler) RegisterPatient(w http.ResponseWriter, r *http.Request) {
	var req patientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	patient, err := toPatient(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Service.Register(patient); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, toResponse(patient))
}

func (h *PatientHandler) GetPatient(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	patient, err := h.Service.Get(id)
	if err != nil {
		http.Error(w, "Patient not found", http.StatusNotFound)
		return
	}
	writeJSON(w, toResponse(patient))
}

func (h *PatientHandler) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	var req patientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	patient, err := toPatient(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	patient.ID = id
	if err := h.Service.Update(patient); err != nil {
		http.Error(w, "Could not update patient", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"message": "Patient updated"})
}

func (h *PatientHandler) ListPatients(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	patients, err := h.Service.List(r.URL.Query().Get("search"), limit, offset)
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	responses := make([]patientResponse, 0, len(patients))
	for i := range patients {
		responses = append(responses, *toResponse(&patients[i]))
	}
	writeJSON(w, responses)
}

func toPatient(req patientRequest) (*db.Patient, error) {
	patient := &db.Patient{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Notes:    req.Notes,
	}
	if req.BirthDate != "" {
		birthDate, err := time.Parse("2006-01-02", req.BirthDate)
		if err != nil {
			return nil, err
		}
		patient.BirthDate.Time = birthDate
		patient.BirthDate.Valid = true
	}
	return patient, nil
}

func toResponse(p *db.Patient) *patientResponse {
	resp := &patientResponse{
		ID:       p.ID,
		FullName: p.FullName,
		Email:    p.Email,
		Phone:    p.Phone,
		Notes:    p.Notes,
	}
	if p.BirthDate.Valid {
		resp.BirthDate = p.BirthDate.Time.Format("2006-01-02")
	}
	return resp
}
