package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"smileclinic/internal/service"
)

type BillingHandler struct {
	Service *service.BillingService
}

func NewBillingHandler(svc *service.BillingService) *BillingHandler {
	return &BillingHandler{Service: svc}
}

func (h *BillingHandler) IssueInvoice(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	var req IssueInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	invoice, err := h.Service.IssueInvoice(code, req.DiscountCents)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrInvoiceExists) {
			status = http.StatusConflict
		}
		http.Error(w, err.Error(), status)
		return
	}
	writeJSON(w, invoice)
}

func (h *BillingHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	var req RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	invoice, err := h.Service.RecordPayment(code, req.Method, req.AmountCents)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, invoice)
}

func (h *BillingHandler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	invoice, err := h.Service.GetInvoice(code)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if invoice == nil {
		http.Error(w, "Invoice not found", http.StatusNotFound)
		return
	}
	writeJSON(w, invoice)
}
