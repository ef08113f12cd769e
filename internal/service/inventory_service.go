package service

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"smileclinic/internal/db"
	"smileclinic/internal/repository"
)

var ErrInsufficientStock = errors.New("movement would take stock below zero")

type InventoryService struct {
	Repo *repository.InventoryRepository
}

func NewInventoryService(repo *repository.InventoryRepository) *InventoryService {
	return &InventoryService{Repo: repo}
}

func (s *InventoryService) RegisterItem(name, unit string, reorderThreshold int) (*db.InventoryItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("item name cannot be empty")
	}
	if reorderThreshold < 0 {
		return nil, errors.New("reorder threshold cannot be negative")
	}
	item := &db.InventoryItem{Name: name, Unit: unit, ReorderThreshold: reorderThreshold}
	if err := s.Repo.CreateItem(item); err != nil {
		return nil, err
	}
	return item, nil
}

// RecordMovement appends to the stock ledger. Consumption is rejected when
// it would drive the on-hand level negative.
func (s *InventoryService) RecordMovement(itemID, quantity int, reason string, appointmentID int) (*db.StockMovement, error) {
	if quantity == 0 {
		return nil, errors.New("movement quantity cannot be zero")
	}
	item, err := s.Repo.GetItem(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("inventory item %d not found", itemID)
	}

	if quantity < 0 {
		onHand, err := s.Repo.OnHand(itemID)
		if err != nil {
			return nil, err
		}
		if onHand+quantity < 0 {
			return nil, ErrInsufficientStock
		}
	}

	movement := &db.StockMovement{
		ItemID:        itemID,
		Quantity:      quantity,
		Reason:        reason,
		AppointmentID: sql.NullInt64{Int64: int64(appointmentID), Valid: appointmentID != 0},
	}
	if err := s.Repo.AddMovement(movement); err != nil {
		return nil, err
	}
	return movement, nil
}

func (s *InventoryService) StockLevels() ([]repository.StockLevel, error) {
	return s.Repo.StockLevels()
}

func (s *InventoryService) LowStock() ([]repository.StockLevel, error) {
	levels, err := s.Repo.StockLevels()
	if err != nil {
		return nil, err
	}
	var low []repository.StockLevel
	for _, l := range levels {
		if l.BelowMin {
			low = append(low, l)
		}
	}
	return low, nil
}

func (s *InventoryService) Movements(itemID, limit, offset int) ([]db.StockMovement, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.Repo.Movements(itemID, limit, offset)
}
