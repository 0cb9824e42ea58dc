package dto

type AppointmentListDTO struct {
	ID           uint   `json:"id"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	Status       string `json:"status"`
	LocationName string `json:"location_name"`
	ServiceName  string `json:"service_name"`
	PatientName  string `json:"patient_name"`
	PatientPhone string `json:"patient_phone"`
}
