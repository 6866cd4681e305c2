package dto

// BookingListDTO is the compact projection used by listing endpoints.
type BookingListDTO struct {
	ID           uint   `json:"id"`
	PublicCode   string `json:"publicCode"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	DurationMin  int    `json:"durationMin"`
	Status       string `json:"status"`
	CustomerName string `json:"customerName"`
	ServiceName  string `json:"serviceName"`
}
