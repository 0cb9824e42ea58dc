package appointment

import (
	"context"

	domain "github.com/SonrisaDental01/clinic-scheduler/internal/domain/appointment"
	"github.com/SonrisaDental01/clinic-scheduler/internal/dto"
	"github.com/SonrisaDental01/clinic-scheduler/internal/models"
)

type ListAppointmentsByDate struct {
	repo domain.Repository
}

func NewListAppointmentsByDate(
	repo domain.Repository,
) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{
		repo: repo,
	}
}

// Execute lista la agenda de un día para el portal interno.
// locationID == 0 cubre todas las sucursales.
func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	locationID uint,
	date string,
) ([]dto.AppointmentListDTO, error) {

	appointments, err := uc.repo.ListAppointmentsForDay(ctx, locationID, date)
	if err != nil {
		return nil, err
	}

	return toListDTOs(appointments), nil
}

func toListDTOs(appointments []models.Appointment) []dto.AppointmentListDTO {
	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		out = append(out, dto.AppointmentListDTO{
			ID:           ap.ID,
			Date:         ap.Date,
			Time:         ap.Time,
			Status:       ap.Status,
			LocationName: ap.LocationName,
			ServiceName:  ap.ServiceName,
			PatientName:  ap.PatientName,
			PatientPhone: ap.PatientPhone,
		})
	}
	return out
}
