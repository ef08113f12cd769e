package repository

import (
	"database/sql"
	"errors"

	"smileclinic/internal/db"
)

type BillingRepository struct {
	DB *sql.DB
}

func NewBillingRepository(database *sql.DB) *BillingRepository {
	return &BillingRepository{DB: database}
}

const invoiceColumns = `id, appointment_id, receipt_number, amount_cents, discount_cents, total_cents, status, paid_at, created_at`

func (r *BillingRepository) CreateInvoice(inv *db.Invoice) error {
	query := `
		INSERT INTO invoices (appointment_id, receipt_number, amount_cents, discount_cents, total_cents, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id`
	return r.DB.QueryRow(query, inv.AppointmentID, inv.ReceiptNumber, inv.AmountCents,
		inv.DiscountCents, inv.TotalCents, inv.Status).Scan(&inv.ID)
}

func (r *BillingRepository) GetInvoiceByAppointment(appointmentID int) (*db.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE appointment_id = $1`
	return r.scanInvoice(r.DB.QueryRow(query, appointmentID))
}

func (r *BillingRepository) MarkInvoicePaid(id int) error {
	_, err := r.DB.Exec(`UPDATE invoices SET status = 'paid', paid_at = NOW() WHERE id = $1`, id)
	return err
}

func (r *BillingRepository) CreatePayment(p *db.Payment) error {
	query := `INSERT INTO payments (invoice_id, method, amount_cents, stripe_session_id, created_at)
		VALUES ($1, $2, $3, $4, NOW()) RETURNING id`
	return r.DB.QueryRow(query, p.InvoiceID, p.Method, p.AmountCents, p.StripeSessionID).Scan(&p.ID)
}

func (r *BillingRepository) scanInvoice(row *sql.Row) (*db.Invoice, error) {
	var inv db.Invoice
	err := row.Scan(&inv.ID, &inv.AppointmentID, &inv.ReceiptNumber, &inv.AmountCents,
		&inv.DiscountCents, &inv.TotalCents, &inv.Status, &inv.PaidAt, &inv.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &inv, nil
}
