package appointment

import (
	"context"

	"github.com/SonrisaDental01/clinic-scheduler/internal/audit"
	domain "github.com/SonrisaDental01/clinic-scheduler/internal/domain/appointment"
	"github.com/SonrisaDental01/clinic-scheduler/internal/httperr"
	"github.com/SonrisaDental01/clinic-scheduler/internal/models"
	"github.com/SonrisaDental01/clinic-scheduler/internal/timezone"
)

type RedeemToken struct {
	repo           domain.Repository
	clinicTimezone string
	audit          *audit.Dispatcher
}

func NewRedeemToken(
	repo domain.Repository,
	clinicTimezone string,
	auditDispatcher *audit.Dispatcher,
) *RedeemToken {
	return &RedeemToken{
		repo:           repo,
		clinicTimezone: clinicTimezone,
		audit:          auditDispatcher,
	}
}

// Execute canjea el token de los links del correo. Idempotente: los
// clientes de correo pre-visitan links, así que repetir no es error.
func (uc *RedeemToken) Execute(
	ctx context.Context,
	token string,
	action domain.Action,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointmentByToken(ctx, token)
	if err != nil {
		if httperr.IsBusiness(err, httperr.CodeRepoUnavailable) {
			return nil, err
		}
		return nil, httperr.ErrBusiness(httperr.CodeTokenNotFound)
	}

	next, changed, err := domain.Apply(domain.Status(ap.Status), action)
	if err != nil {
		return nil, err
	}

	if !changed {
		return ap, nil
	}

	now := timezone.NowIn(uc.clinicTimezone)
	ap.Status = string(next)

	var auditAction string
	switch next {
	case domain.StatusConfirmed:
		ap.ConfirmedAt = &now
		auditAction = "appointment_confirmed"
	case domain.StatusCancelled:
		ap.CancelledAt = &now
		auditAction = "appointment_cancelled"
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	if uc.audit != nil {
		uc.audit.Dispatch(audit.Event{
			LocationID: &ap.LocationID,
			Action:     auditAction,
			Entity:     "appointment",
			EntityID:   &ap.ID,
			Metadata: map[string]any{
				"via":          "token",
				"token_prefix": domain.TokenPrefix(token),
			},
		})
	}

	return ap, nil
}
