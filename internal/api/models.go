package api

// Availability
type AvailabilityRequest struct {
	Date        string `json:"date"`
	TreatmentID int    `json:"treatment_id"`
	ScheduleID  int    `json:"dentist_schedule_id,omitempty"`
}

// Staff auth
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type LoginResponse struct {
	Token string `json:"token"`
}

// Billing
type IssueInvoiceRequest struct {
	DiscountCents int `json:"discount_cents"`
}
type RecordPaymentRequest struct {
	Method      string `json:"method"`
	AmountCents int    `json:"amount_cents"`
}

// Inventory
type CreateItemRequest struct {
	Name             string `json:"name"`
	Unit             string `json:"unit"`
	ReorderThreshold int    `json:"reorder_threshold"`
}
type MovementRequest struct {
	Quantity      int    `json:"quantity"`
	Reason        string `json:"reason"`
	AppointmentID int    `json:"appointment_id,omitempty"`
}
