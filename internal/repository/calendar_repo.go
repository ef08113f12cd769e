package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"smileclinic/internal/db"
	"smileclinic/internal/slots"
)

type CalendarRepository struct {
	DB *sql.DB
}

func NewCalendarRepository(database *sql.DB) *CalendarRepository {
	return &CalendarRepository{DB: database}
}

// DayFor resolves the clinic calendar for a date: a per-date override row
// wins, otherwise the weekly default for that weekday applies. A missing
// weekly default means the clinic is closed that day.
func (r *CalendarRepository) DayFor(date time.Time) (db.ClinicDay, error) {
	day := db.ClinicDay{Date: date}

	query := `SELECT open_time, close_time, capacity, block_minutes, closed
		FROM clinic_day_overrides WHERE date = $1`
	err := r.DB.QueryRow(query, date).Scan(&day.OpenTime, &day.CloseTime, &day.Capacity, &day.BlockMinutes, &day.Closed)
	if err == nil {
		return day, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return day, fmt.Errorf("error querying clinic day override: %w", err)
	}

	query = `SELECT open_time, close_time, capacity, block_minutes
		FROM clinic_week WHERE weekday = $1`
	err = r.DB.QueryRow(query, int(date.Weekday())).Scan(&day.OpenTime, &day.CloseTime, &day.Capacity, &day.BlockMinutes)
	if errors.Is(err, sql.ErrNoRows) {
		day.Closed = true
		return day, nil
	}
	if err != nil {
		return day, fmt.Errorf("error querying clinic week: %w", err)
	}
	return day, nil
}

// GridFor builds the capacity grid for a date from the resolved clinic day.
// A closed day yields an empty grid.
func (r *CalendarRepository) GridFor(date time.Time) (slots.CapacityGrid, error) {
	day, err := r.DayFor(date)
	if err != nil {
		return slots.CapacityGrid{}, err
	}
	return BuildGrid(day)
}

// BuildGrid expands a clinic day into the ordered candidate start times.
func BuildGrid(day db.ClinicDay) (slots.CapacityGrid, error) {
	if day.Closed {
		return slots.CapacityGrid{}, nil
	}
	open, err := slots.ParseClock(day.OpenTime)
	if err != nil {
		return slots.CapacityGrid{}, fmt.Errorf("bad clinic open time %q: %w", day.OpenTime, err)
	}
	closing, err := slots.ParseClock(day.CloseTime)
	if err != nil {
		return slots.CapacityGrid{}, fmt.Errorf("bad clinic close time %q: %w", day.CloseTime, err)
	}
	block := day.BlockMinutes
	if block <= 0 {
		block = slots.DefaultBlockMinutes
	}
	grid := slots.CapacityGrid{Capacity: day.Capacity, BlockMinutes: block}
	for t := open; t+block <= closing; t += block {
		grid.Starts = append(grid.Starts, slots.Clock(t))
	}
	return grid, nil
}
