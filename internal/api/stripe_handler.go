package api

import (
	"encoding/json"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"smileclinic/internal/service"
)

type StripeWebhookHandler struct {
	StripeSecret string
	appointments *service.AppointmentService
	stripeSvc    *service.StripeService
}

func NewStripeWebhookHandler(stripeSecret string, appointments *service.AppointmentService,
	stripeSvc *service.StripeService) *StripeWebhookHandler {
	return &StripeWebhookHandler{
		StripeSecret: stripeSecret,
		appointments: appointments,
		stripeSvc:    stripeSvc,
	}
}

func (h *StripeWebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	const maxBodyBytes = int64(65536)
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		log.Errorf("Error reading body: %v", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	sigHeader := r.Header.Get("Stripe-Signature")
	event, err := webhook.ConstructEvent(payload, sigHeader, h.StripeSecret)
	if err != nil {
		log.Errorf("Webhook signature verification failed: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			log.Errorf("Error parsing checkout.session: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if sess.ID == "" {
			log.Error("No session ID in checkout.session.completed")
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if err := h.appointments.ConfirmPaymentBySessionID(sess.ID); err != nil {
			log.Errorf("DB error: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		appointment, err := h.appointments.GetBySessionID(sess.ID)
		if err != nil {
			log.Errorf("DB error: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		h.appointments.Sender().SendAppointmentEmail(*appointment, "approved")
		h.appointments.Sender().SendAppointmentSMS(*appointment, "approved")

	case "charge.refunded":
		var charge stripe.Charge
		json.Unmarshal(event.Data.Raw, &charge)
		if charge.PaymentIntent != nil && charge.PaymentIntent.ID != "" {
			sessionID, err := h.stripeSvc.GetSessionIDByPaymentIntentID(charge.PaymentIntent.ID)
			if err != nil {
				log.Errorf("No session_id found for PaymentIntent %s: %v", charge.PaymentIntent.ID, err)
				return
			}
			if err := h.appointments.MarkRefundedBySessionID(sessionID); err != nil {
				log.Errorf("DB error: %v", err)
				return
			}
		}
	default:
		log.Infof("Unhandled event type: %s", event.Type)
	}

	w.WriteHeader(http.StatusOK)
}

func (h *StripeWebhookHandler) GetAppointmentBySessionID(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		http.Error(w, "session_id required", http.StatusBadRequest)
		return
	}
	appointment, err := h.appointments.GetBySessionID(sessionID)
	if err != nil {
		http.Error(w, "Appointment not found", http.StatusNotFound)
		return
	}
	writeJSON(w, appointment)
}
