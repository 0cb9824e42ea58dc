package appointment

import (
	"context"

	"github.com/SonrisaDental01/clinic-scheduler/internal/audit"
	domain "github.com/SonrisaDental01/clinic-scheduler/internal/domain/appointment"
	"github.com/SonrisaDental01/clinic-scheduler/internal/httperr"
	"github.com/SonrisaDental01/clinic-scheduler/internal/models"
	"github.com/SonrisaDental01/clinic-scheduler/internal/timezone"
)

// Cancelación explícita desde recepción. Libera el horario igual que el
// canje del token con acción cancel.
type CancelAppointment struct {
	repo           domain.Repository
	clinicTimezone string
	audit          *audit.Dispatcher
}

func NewCancelAppointment(
	repo domain.Repository,
	clinicTimezone string,
	auditDispatcher *audit.Dispatcher,
) *CancelAppointment {
	return &CancelAppointment{
		repo:           repo,
		clinicTimezone: clinicTimezone,
		audit:          auditDispatcher,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	userID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointmentByID(ctx, appointmentID)
	if err != nil {
		if httperr.IsBusiness(err, httperr.CodeRepoUnavailable) {
			return nil, err
		}
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	if err := domain.CanStaffCancel(domain.Status(ap.Status)); err != nil {
		return nil, err
	}

	now := timezone.NowIn(uc.clinicTimezone)
	ap.Status = string(domain.StatusCancelled)
	ap.CancelledAt = &now

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	if uc.audit != nil {
		uc.audit.Dispatch(audit.Event{
			LocationID: &ap.LocationID,
			UserID:     &userID,
			Action:     "appointment_cancelled",
			Entity:     "appointment",
			EntityID:   &ap.ID,
			Metadata:   map[string]any{"via": "staff"},
		})
	}

	return ap, nil
}
