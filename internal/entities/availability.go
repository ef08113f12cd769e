package entities

type BlockAvailability struct {
	Start    string `json:"start"`
	End      string `json:"end"`
	Booked   int    `json:"booked"`
	Capacity int    `json:"capacity"`
	Bookable bool   `json:"bookable"`
}

type DayAvailability struct {
	Date            string              `json:"date"`
	Open            bool                `json:"open"`
	DurationMinutes int                 `json:"duration_minutes"`
	Blocks          []BlockAvailability `json:"blocks,omitempty"`
	AvailableStarts []string            `json:"available_starts"`
}
