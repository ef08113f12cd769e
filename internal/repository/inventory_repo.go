package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"smileclinic/internal/db"
)

type StockLevel struct {
	Item     db.InventoryItem
	OnHand   int
	BelowMin bool
}

type InventoryRepository struct {
	DB *sql.DB
}

func NewInventoryRepository(database *sql.DB) *InventoryRepository {
	return &InventoryRepository{DB: database}
}

func (r *InventoryRepository) CreateItem(item *db.InventoryItem) error {
	query := `INSERT INTO inventory_items (name, unit, reorder_threshold, created_at)
		VALUES ($1, $2, $3, NOW()) RETURNING id`
	return r.DB.QueryRow(query, item.Name, item.Unit, item.ReorderThreshold).Scan(&item.ID)
}

func (r *InventoryRepository) GetItem(id int) (*db.InventoryItem, error) {
	var item db.InventoryItem
	err := r.DB.QueryRow(`SELECT id, name, unit, reorder_threshold, created_at FROM inventory_items WHERE id = $1`, id).
		Scan(&item.ID, &item.Name, &item.Unit, &item.ReorderThreshold, &item.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// AddMovement appends to the stock ledger. Quantity is positive for intake,
// negative for consumption.
func (r *InventoryRepository) AddMovement(m *db.StockMovement) error {
	query := `INSERT INTO stock_movements (item_id, quantity, reason, appointment_id, created_at)
		VALUES ($1, $2, $3, $4, NOW()) RETURNING id`
	return r.DB.QueryRow(query, m.ItemID, m.Quantity, m.Reason, m.AppointmentID).Scan(&m.ID)
}

// StockLevels returns every item with its ledger sum.
func (r *InventoryRepository) StockLevels() ([]StockLevel, error) {
	query := `
		SELECT i.id, i.name, i.unit, i.reorder_threshold, i.created_at,
			COALESCE(SUM(m.quantity), 0) AS on_hand
		FROM inventory_items i
		LEFT JOIN stock_movements m ON m.item_id = i.id
		GROUP BY i.id, i.name, i.unit, i.reorder_threshold, i.created_at
		ORDER BY i.name`

	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("error querying stock levels: %w", err)
	}
	defer rows.Close()

	var levels []StockLevel
	for rows.Next() {
		var l StockLevel
		if err := rows.Scan(&l.Item.ID, &l.Item.Name, &l.Item.Unit, &l.Item.ReorderThreshold, &l.Item.CreatedAt, &l.OnHand); err != nil {
			return nil, fmt.Errorf("error scanning stock level: %w", err)
		}
		l.BelowMin = l.OnHand < l.Item.ReorderThreshold
		levels = append(levels, l)
	}
	return levels, rows.Err()
}

func (r *InventoryRepository) OnHand(itemID int) (int, error) {
	var onHand int
	err := r.DB.QueryRow(`SELECT COALESCE(SUM(quantity), 0) FROM stock_movements WHERE item_id = $1`, itemID).Scan(&onHand)
	return onHand, err
}

func (r *InventoryRepository) Movements(itemID, limit, offset int) ([]db.StockMovement, error) {
	query := `SELECT id, item_id, quantity, reason, appointment_id, created_at
		FROM stock_movements WHERE item_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.DB.Query(query, itemID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("error listing stock movements: %w", err)
	}
	defer rows.Close()

	var movements []db.StockMovement
	for rows.Next() {
		var m db.StockMovement
		if err := rows.Scan(&m.ID, &m.ItemID, &m.Quantity, &m.Reason, &m.AppointmentID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning stock movement: %w", err)
		}
		movements = append(movements, m)
	}
	return movements, rows.Err()
}
