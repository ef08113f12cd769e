package repository

import (
	"database/sql"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"smileclinic/internal/db"
	"smileclinic/internal/slots"
)

type DentistRepository struct {
	DB *sql.DB
}

func NewDentistRepository(database *sql.DB) *DentistRepository {
	return &DentistRepository{DB: database}
}

const dentistColumns = `id, code, full_name, status, contract_end,
		sun_works, mon_works, tue_works, wed_works, thu_works, fri_works, sat_works,
		sun_start, sun_end, mon_start, mon_end, tue_start, tue_end, wed_start, wed_end,
		thu_start, thu_end, fri_start, fri_end, sat_start, sat_end,
		created_at, updated_at`

func (r *DentistRepository) List() ([]db.DentistSchedule, error) {
	query := `SELECT ` + dentistColumns + ` FROM dentist_schedules ORDER BY code`
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("error querying dentist schedules: %w", err)
	}
	defer rows.Close()

	var schedules []db.DentistSchedule
	for rows.Next() {
		s, err := scanDentist(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}
	return schedules, rows.Err()
}

func (r *DentistRepository) GetByID(id int) (*db.DentistSchedule, error) {
	query := `SELECT ` + dentistColumns + ` FROM dentist_schedules WHERE id = $1`
	s, err := scanDentist(r.DB.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *DentistRepository) Create(s *db.DentistSchedule) error {
	query := `
		INSERT INTO dentist_schedules (code, full_name, status, contract_end,
			sun_works, mon_works, tue_works, wed_works, thu_works, fri_works, sat_works,
			sun_start, sun_end, mon_start, mon_end, tue_start, tue_end, wed_start, wed_end,
			thu_start, thu_end, fri_start, fri_end, sat_start, sat_end,
			created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,NOW(),NOW())
		RETURNING id`
	return r.DB.QueryRow(query,
		s.Code, s.FullName, s.Status, s.ContractEnd,
		s.SunWorks, s.MonWorks, s.TueWorks, s.WedWorks, s.ThuWorks, s.FriWorks, s.SatWorks,
		s.SunStart, s.SunEnd, s.MonStart, s.MonEnd, s.TueStart, s.TueEnd, s.WedStart, s.WedEnd,
		s.ThuStart, s.ThuEnd, s.FriStart, s.FriEnd, s.SatStart, s.SatEnd,
	).Scan(&s.ID)
}

func (r *DentistRepository) Update(s *db.DentistSchedule) error {
	query := `
		UPDATE dentist_schedules SET code=$1, full_name=$2, status=$3, contract_end=$4,
			sun_works=$5, mon_works=$6, tue_works=$7, wed_works=$8, thu_works=$9, fri_works=$10, sat_works=$11,
			sun_start=$12, sun_end=$13, mon_start=$14, mon_end=$15, tue_start=$16, tue_end=$17,
			wed_start=$18, wed_end=$19, thu_start=$20, thu_end=$21, fri_start=$22, fri_end=$23,
			sat_start=$24, sat_end=$25, updated_at=NOW()
		WHERE id=$26`
	_, err := r.DB.Exec(query,
		s.Code, s.FullName, s.Status, s.ContractEnd,
		s.SunWorks, s.MonWorks, s.TueWorks, s.WedWorks, s.ThuWorks, s.FriWorks, s.SatWorks,
		s.SunStart, s.SunEnd, s.MonStart, s.MonEnd, s.TueStart, s.TueEnd, s.WedStart, s.WedEnd,
		s.ThuStart, s.ThuEnd, s.FriStart, s.FriEnd, s.SatStart, s.SatEnd,
		s.ID,
	)
	return err
}

// ListAvailabilities returns the roster mapped into the slot engine's
// read-only projection.
func (r *DentistRepository) ListAvailabilities() ([]slots.DentistAvailability, error) {
	schedules, err := r.List()
	if err != nil {
		return nil, err
	}
	availabilities := make([]slots.DentistAvailability, 0, len(schedules))
	for _, s := range schedules {
		availabilities = append(availabilities, ToAvailability(s))
	}
	return availabilities, nil
}

// ToAvailability maps a schedule row to the slot engine projection. The
// seven weekday columns land in fixed arrays indexed by time.Weekday, and
// stored hours that fail to parse degrade to "no constraint" with a warning.
func ToAvailability(s db.DentistSchedule) slots.DentistAvailability {
	a := slots.DentistAvailability{
		ScheduleID: s.ID,
		Code:       s.Code,
		Active:     s.Status == "active",
	}
	if s.ContractEnd.Valid {
		end := s.ContractEnd.Time
		a.ContractEnd = &end
	}

	works := [7]bool{s.SunWorks, s.MonWorks, s.TueWorks, s.WedWorks, s.ThuWorks, s.FriWorks, s.SatWorks}
	starts := [7]sql.NullString{s.SunStart, s.MonStart, s.TueStart, s.WedStart, s.ThuStart, s.FriStart, s.SatStart}
	ends := [7]sql.NullString{s.SunEnd, s.MonEnd, s.TueEnd, s.WedEnd, s.ThuEnd, s.FriEnd, s.SatEnd}

	for day := time.Sunday; day <= time.Saturday; day++ {
		a.Workdays[day] = works[day]
		a.Hours[day] = dayWindow(s.Code, day, starts[day], ends[day])
	}
	return a
}

func dayWindow(code string, day time.Weekday, start, end sql.NullString) *slots.TimeRange {
	if !start.Valid || !end.Valid || start.String == "" || end.String == "" {
		return nil
	}
	from, err := slots.ParseClock(start.String)
	if err != nil {
		log.Warnf("dentist %s: bad %s start time %q, treating as unconstrained", code, day, start.String)
		return nil
	}
	to, err := slots.ParseClock(end.String)
	if err != nil {
		log.Warnf("dentist %s: bad %s end time %q, treating as unconstrained", code, day, end.String)
		return nil
	}
	if to <= from {
		log.Warnf("dentist %s: inverted %s hours %q-%q, treating as unconstrained", code, day, start.String, end.String)
		return nil
	}
	return &slots.TimeRange{Start: from, End: to}
}

func scanDentist(row interface{ Scan(...any) error }) (db.DentistSchedule, error) {
	var s db.DentistSchedule
	err := row.Scan(
		&s.ID, &s.Code, &s.FullName, &s.Status, &s.ContractEnd,
		&s.SunWorks, &s.MonWorks, &s.TueWorks, &s.WedWorks, &s.ThuWorks, &s.FriWorks, &s.SatWorks,
		&s.SunStart, &s.SunEnd, &s.MonStart, &s.MonEnd, &s.TueStart, &s.TueEnd, &s.WedStart, &s.WedEnd,
		&s.ThuStart, &s.ThuEnd, &s.FriStart, &s.FriEnd, &s.SatStart, &s.SatEnd,
		&s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}
