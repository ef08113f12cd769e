package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"smileclinic/internal/entities"
	"smileclinic/internal/service"
)

type FeedbackHandler struct {
	Service *service.FeedbackService
}

func NewFeedbackHandler(svc *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{Service: svc}
}

func (h *FeedbackHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req entities.FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if err := h.Service.Submit(&req); err != nil {
		status := http.StatusBadRequest
		switch {
		case errors.Is(err, service.ErrFeedbackExists):
			status = http.StatusConflict
		case errors.Is(err, service.ErrFeedbackNotReady):
			status = http.StatusUnprocessableEntity
		}
		http.Error(w, err.Error(), status)
		return
	}
	writeJSON(w, map[string]string{"message": "Thank you for your feedback"})
}
