package main

import (
	"database/sql"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v82"

	"smileclinic/internal/api"
	"smileclinic/internal/auth"
	"smileclinic/internal/repository"
	"smileclinic/internal/service"
)

func main() {
	godotenv.Load()
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	database, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := database.Ping(); err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")

	appointmentRepo := repository.NewAppointmentRepository(database)
	patientRepo := repository.NewPatientRepository(database)
	treatmentRepo := repository.NewTreatmentRepository(database)
	dentistRepo := repository.NewDentistRepository(database)
	calendarRepo := repository.NewCalendarRepository(database)
	billingRepo := repository.NewBillingRepository(database)
	inventoryRepo := repository.NewInventoryRepository(database)
	feedbackRepo := repository.NewFeedbackRepository(database)
	notificationRepo := repository.NewNotificationRepository(database)
	jobRepo := repository.NewJobRepository(database)
	staffAuthRepo := repository.NewStaffAuthRepository(database)

	stripeSvc := service.NewStripeService()
	sender := service.NewSenderService(notificationRepo)
	appointmentSvc := service.NewAppointmentService(appointmentRepo, patientRepo, treatmentRepo,
		dentistRepo, calendarRepo, stripeSvc, sender)
	patientSvc := service.NewPatientService(patientRepo)
	dentistSvc := service.NewDentistService(dentistRepo)
	inventorySvc := service.NewInventoryService(inventoryRepo)
	billingSvc := service.NewBillingService(billingRepo, appointmentRepo, treatmentRepo, sender)
	feedbackSvc := service.NewFeedbackService(feedbackRepo, appointmentRepo, patientRepo)
	staffAuthSvc := service.NewStaffAuthService(staffAuthRepo)
	jobSvc := service.NewJobService(jobRepo, inventorySvc, sender)

	bookingHandler := api.NewBookingHandler(appointmentSvc)
	patientHandler := api.NewPatientHandler(patientSvc)
	staffHandler := api.NewStaffHandler(appointmentSvc, dentistSvc, feedbackSvc, notificationRepo)
	inventoryHandler := api.NewInventoryHandler(inventorySvc)
	billingHandler := api.NewBillingHandler(billingSvc)
	feedbackHandler := api.NewFeedbackHandler(feedbackSvc)
	staffAuthHandler := api.NewStaffAuthHandler(staffAuthSvc)
	webhookHandler := api.NewStripeWebhookHandler(os.Getenv("STRIPE_WEBHOOK_SECRET"), appointmentSvc, stripeSvc)

	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/api/availability", bookingHandler.CheckAvailability).Methods("POST")
	r.HandleFunc("/api/appointments", bookingHandler.CreateAppointment).Methods("POST")
	r.HandleFunc("/api/appointments/{code}", bookingHandler.GetAppointment).Methods("GET")
	r.HandleFunc("/api/appointments/{code}", bookingHandler.RescheduleAppointment).Methods("PUT")
	r.HandleFunc("/api/appointments/{code}", bookingHandler.CancelAppointment).Methods("DELETE")
	r.HandleFunc("/api/appointments/by-session", webhookHandler.GetAppointmentBySessionID).Methods("GET")
	r.HandleFunc("/api/treatments", bookingHandler.ListTreatments).Methods("GET")
	r.HandleFunc("/api/patients", patientHandler.RegisterPatient).Methods("POST")
	r.HandleFunc("/api/feedback", feedbackHandler.SubmitFeedback).Methods("POST")
	r.HandleFunc("/api/staff/login", staffAuthHandler.Login).Methods("POST")
	r.HandleFunc("/api/stripe/webhook", webhookHandler.HandleWebhook).Methods("POST")

	// Staff endpoints (protected)
	staff := r.PathPrefix("/staff").Subrouter()
	staff.Use(auth.StaffAuthMiddleware)
	staff.HandleFunc("/appointments", staffHandler.ListAppointments).Methods("GET")
	staff.HandleFunc("/appointments/{code}/approve", staffHandler.ApproveAppointment).Methods("POST")
	staff.HandleFunc("/appointments/{code}/reject", staffHandler.RejectAppointment).Methods("POST")
	staff.HandleFunc("/appointments/{code}/complete", staffHandler.CompleteAppointment).Methods("POST")
	staff.HandleFunc("/appointments/{code}/no-show", staffHandler.MarkNoShow).Methods("POST")
	staff.HandleFunc("/appointments/{code}/invoice", billingHandler.IssueInvoice).Methods("POST")
	staff.HandleFunc("/appointments/{code}/invoice", billingHandler.GetInvoice).Methods("GET")
	staff.HandleFunc("/appointments/{code}/payment", billingHandler.RecordPayment).Methods("POST")
	staff.HandleFunc("/dentists", staffHandler.ListDentists).Methods("GET")
	staff.HandleFunc("/dentists", staffHandler.CreateDentist).Methods("POST")
	staff.HandleFunc("/dentists/{id}", staffHandler.UpdateDentist).Methods("PUT")
	staff.HandleFunc("/patients", patientHandler.ListPatients).Methods("GET")
	staff.HandleFunc("/patients/{id}", patientHandler.GetPatient).Methods("GET")
	staff.HandleFunc("/patients/{id}", patientHandler.UpdatePatient).Methods("PUT")
	staff.HandleFunc("/inventory/items", inventoryHandler.CreateItem).Methods("POST")
	staff.HandleFunc("/inventory/items/{id}/movements", inventoryHandler.RecordMovement).Methods("POST")
	staff.HandleFunc("/inventory/items/{id}/movements", inventoryHandler.ListMovements).Methods("GET")
	staff.HandleFunc("/inventory/stock", inventoryHandler.StockLevels).Methods("GET")
	staff.HandleFunc("/feedback", staffHandler.ListFeedback).Methods("GET")
	staff.HandleFunc("/notifications", staffHandler.ListNotifications).Methods("GET")
	staff.HandleFunc("/accounts", staffAuthHandler.CreateStaff).Methods("POST")

	scheduler := cron.New()
	scheduler.AddFunc("*/15 * * * *", func() {
		if err := jobSvc.CompletePastAppointments(); err != nil {
			log.Errorf("complete past appointments: %v", err)
		}
	})
	scheduler.AddFunc("0 * * * *", func() {
		if err := jobSvc.PurgeStalePending(48 * time.Hour); err != nil {
			log.Errorf("purge stale pending: %v", err)
		}
	})
	scheduler.AddFunc("0 18 * * *", func() {
		if err := jobSvc.SendTomorrowReminders(); err != nil {
			log.Errorf("send reminders: %v", err)
		}
	})
	scheduler.AddFunc("0 8 * * 1", func() {
		if err := jobSvc.LowStockAlert(); err != nil {
			log.Errorf("low stock alert: %v", err)
		}
	})
	scheduler.Start()
	defer scheduler.Stop()

	corsHandler := handlers.CORS(
		handlers.AllowedOrigins([]string{os.Getenv("CORS_ORIGIN")}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "Stripe-Signature"}),
	)(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Infof("Server running on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, corsHandler))
}
