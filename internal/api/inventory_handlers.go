package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"smileclinic/internal/service"
)

type InventoryHandler struct {
	Service *service.InventoryService
}

func NewInventoryHandler(svc *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{Service: svc}
}

func (h *InventoryHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	item, err := h.Service.RegisterItem(req.Name, req.Unit, req.ReorderThreshold)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, item)
}

func (h *InventoryHandler) RecordMovement(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	var req MovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	movement, err := h.Service.RecordMovement(itemID, req.Quantity, req.Reason, req.AppointmentID)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrInsufficientStock) {
			status = http.StatusConflict
		}
		http.Error(w, err.Error(), status)
		return
	}
	writeJSON(w, movement)
}

func (h *InventoryHandler) StockLevels(w http.ResponseWriter, r *http.Request) {
	levels, err := h.Service.StockLevels()
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, levels)
}

func (h *InventoryHandler) ListMovements(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	movements, err := h.Service.Movements(itemID, limit, offset)
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, movements)
}
