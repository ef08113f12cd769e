package db

import (
	"database/sql"
	"time"
)

type Patient struct {
	ID        int
	FullName  string
	Email     string
	Phone     string
	BirthDate sql.NullTime
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DentistSchedule mirrors the dentist_schedules row: one record per dentist
// with seven inline weekday flags and optional "HH:MM[:SS]" hour columns.
type DentistSchedule struct {
	ID          int
	Code        string
	FullName    string
	Status      string
	ContractEnd sql.NullTime

	SunWorks, MonWorks, TueWorks, WedWorks, ThuWorks, FriWorks, SatWorks bool

	SunStart, SunEnd sql.NullString
	MonStart, MonEnd sql.NullString
	TueStart, TueEnd sql.NullString
	WedStart, WedEnd sql.NullString
	ThuStart, ThuEnd sql.NullString
	FriStart, FriEnd sql.NullString
	SatStart, SatEnd sql.NullString

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Treatment struct {
	ID             int
	Name           string
	DurationBlocks int
	PriceCents     int
}

type Appointment struct {
	ID              int
	Code            string
	PatientID       int
	TreatmentID     int
	ScheduleID      sql.NullInt64
	Date            time.Time
	TimeRange       string
	Status          string
	Notes           string
	PaymentMethod   string
	PaymentStatus   string
	StripeSessionID string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ClinicDay is the resolved calendar entry for one date: either the weekly
// default or a per-date override row.
type ClinicDay struct {
	Date         time.Time
	OpenTime     string
	CloseTime    string
	Capacity     int
	BlockMinutes int
	Closed       bool
}

type InventoryItem struct {
	ID               int
	Name             string
	Unit             string
	ReorderThreshold int
	CreatedAt        time.Time
}

type StockMovement struct {
	ID            int
	ItemID        int
	Quantity      int
	Reason        string
	AppointmentID sql.NullInt64
	CreatedAt     time.Time
}

type Invoice struct {
	ID            int
	AppointmentID int
	ReceiptNumber string
	AmountCents   int
	DiscountCents int
	TotalCents    int
	Status        string
	PaidAt        sql.NullTime
	CreatedAt     time.Time
}

type Payment struct {
	ID              int
	InvoiceID       int
	Method          string
	AmountCents     int
	StripeSessionID string
	CreatedAt       time.Time
}

type Notification struct {
	ID        int
	Channel   string
	Recipient string
	Subject   string
	Status    string
	CreatedAt time.Time
}

type Feedback struct {
	ID            int
	AppointmentID int
	PatientID     int
	Rating        int
	Comment       string
	CreatedAt     time.Time
}

type StaffAccount struct {
	ID           int
	Email        string
	PasswordHash string
	Role         string
}
