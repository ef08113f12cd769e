package api

import (
	"encoding/json"
	"net/http"

	"smileclinic/internal/service"
)

type StaffAuthHandler struct {
	service service.StaffAuthService
}

func NewStaffAuthHandler(svc service.StaffAuthService) *StaffAuthHandler {
	return &StaffAuthHandler{service: svc}
}

func (h *StaffAuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	token, err := h.service.Login(req.Email, req.Password)
	if err != nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	writeJSON(w, LoginResponse{Token: token})
}

func (h *StaffAuthHandler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.CreateStaff(request.Email, request.Password, request.Role); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Staff account registered successfully"))
}
