package entities

type AppointmentEmailData struct {
	PatientName   string
	Code          string
	Treatment     string
	DentistCode   string
	DateFormatted string
	TimeRange     string
	Status        string
	CurrentYear   int
}

type ReceiptEmailData struct {
	PatientName   string
	ReceiptNumber string
	Code          string
	Treatment     string
	DateFormatted string
	Amount        string
	Discount      string
	Total         string
	Method        string
	CurrentYear   int
}
