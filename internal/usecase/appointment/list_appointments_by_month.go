package appointment

import (
	"context"
	"time"

	domain "github.com/SonrisaDental01/clinic-scheduler/internal/domain/appointment"
	"github.com/SonrisaDental01/clinic-scheduler/internal/dto"
)

type ListAppointmentsByMonth struct {
	repo domain.Repository
}

func NewListAppointmentsByMonth(
	repo domain.Repository,
) *ListAppointmentsByMonth {
	return &ListAppointmentsByMonth{
		repo: repo,
	}
}

// Execute alimenta el calendario mensual del portal interno.
func (uc *ListAppointmentsByMonth) Execute(
	ctx context.Context,
	locationID uint,
	year int,
	month time.Month,
) ([]dto.AppointmentListDTO, error) {

	appointments, err := uc.repo.ListAppointmentsForMonth(ctx, locationID, year, month)
	if err != nil {
		return nil, err
	}

	return toListDTOs(appointments), nil
}
