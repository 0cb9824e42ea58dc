package appointment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SonrisaDental01/clinic-scheduler/internal/audit"
	domain "github.com/SonrisaDental01/clinic-scheduler/internal/domain/appointment"
	"github.com/SonrisaDental01/clinic-scheduler/internal/httperr"
	"github.com/SonrisaDental01/clinic-scheduler/internal/models"
	"github.com/SonrisaDental01/clinic-scheduler/internal/notify"
	"github.com/SonrisaDental01/clinic-scheduler/internal/timezone"
	"github.com/SonrisaDental01/clinic-scheduler/internal/usecase/referral"
)

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo     domain.Repository
	policy   domain.CalendarPolicy
	referral *referral.Validate

	clinicTimezone string
	publicBaseURL  string

	audit  *audit.Dispatcher
	notify *notify.Dispatcher

	now func() time.Time
}

func NewCreateAppointment(
	repo domain.Repository,
	policy domain.CalendarPolicy,
	referralValidator *referral.Validate,
	clinicTimezone string,
	publicBaseURL string,
	auditDispatcher *audit.Dispatcher,
	notifyDispatcher *notify.Dispatcher,
) *CreateAppointment {
	uc := &CreateAppointment{
		repo:           repo,
		policy:         policy,
		referral:       referralValidator,
		clinicTimezone: clinicTimezone,
		publicBaseURL:  publicBaseURL,
		audit:          auditDispatcher,
		notify:         notifyDispatcher,
	}
	uc.now = func() time.Time { return timezone.NowIn(clinicTimezone) }
	return uc
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	req domain.BookingRequest,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1. Datos de contacto obligatorios
	// --------------------------------------------------
	name := strings.TrimSpace(req.PatientName)
	phone := strings.TrimSpace(req.PatientPhone)
	email := strings.TrimSpace(req.PatientEmail)

	if name == "" || phone == "" || email == "" || !strings.Contains(email, "@") {
		return nil, httperr.ErrBusiness(httperr.CodeValidation)
	}

	// --------------------------------------------------
	// 2. Fecha y hora contra la política del calendario
	//    (todo antes de tocar la base)
	// --------------------------------------------------
	loc := timezone.Location(uc.clinicTimezone)

	date, err := domain.ParseDate(req.Date, loc)
	if err != nil {
		return nil, err
	}

	if !uc.policy.IsBookableDate(date, uc.now()) {
		return nil, httperr.ErrBusiness(httperr.CodeValidation)
	}

	if !uc.policy.Grid.Contains(req.Time) {
		return nil, httperr.ErrBusiness(httperr.CodeValidation)
	}

	// --------------------------------------------------
	// 3. Sucursal y servicio
	// --------------------------------------------------
	location, err := uc.repo.GetLocationBySlug(ctx, req.LocationSlug)
	if err != nil {
		if httperr.IsBusiness(err, httperr.CodeRepoUnavailable) {
			return nil, err
		}
		return nil, httperr.ErrBusiness("location_not_found")
	}

	service, err := uc.repo.GetService(ctx, req.ServiceID)
	if err != nil {
		if httperr.IsBusiness(err, httperr.CodeRepoUnavailable) {
			return nil, err
		}
		return nil, httperr.ErrBusiness("service_not_found")
	}

	// --------------------------------------------------
	// 4. Código de referido (opcional)
	//    Un código inválido no bloquea la cita: se guarda vacío y
	//    facturación nunca ve un beneficio no verificado.
	// --------------------------------------------------
	referralCode := ""
	if uc.referral != nil {
		if res := uc.referral.Execute(ctx, req.ReferralCode); res == referral.ResultValid {
			referralCode = referral.Normalize(req.ReferralCode)
		}
	}

	// --------------------------------------------------
	// 5. Inserción atómica: el índice único parcial decide la
	//    carrera, no una lectura previa.
	// --------------------------------------------------
	ap := &models.Appointment{
		LocationID:   location.ID,
		ServiceID:    service.ID,
		LocationName: location.Name,
		ServiceName:  service.Name,

		Date: req.Date,
		Time: req.Time,

		PatientName:  name,
		PatientPhone: phone,
		PatientEmail: email,
		ReferralCode: referralCode,

		Status:            string(domain.InitialStatus()),
		ConfirmationToken: domain.NewConfirmationToken(),
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		if httperr.IsBusiness(err, httperr.CodeSlotTaken) {
			uc.dispatchAudit(location.ID, "appointment_conflict", nil, map[string]any{
				"date": req.Date,
				"time": req.Time,
			})
		}
		return nil, err
	}

	// --------------------------------------------------
	// 6. Auditoría + correo de confirmación
	// --------------------------------------------------
	uc.dispatchAudit(location.ID, "appointment_created", &ap.ID, map[string]any{
		"date":         ap.Date,
		"time":         ap.Time,
		"token_prefix": domain.TokenPrefix(ap.ConfirmationToken),
	})

	if uc.notify != nil {
		uc.notify.Dispatch(notify.Confirmation{
			PatientName:  ap.PatientName,
			PatientEmail: ap.PatientEmail,
			LocationName: ap.LocationName,
			ServiceName:  ap.ServiceName,
			Date:         ap.Date,
			Time:         ap.Time,
			ConfirmURL:   uc.actionURL(ap.ConfirmationToken, domain.ActionConfirm),
			CancelURL:    uc.actionURL(ap.ConfirmationToken, domain.ActionCancel),
		})
	}

	return ap, nil
}

func (uc *CreateAppointment) actionURL(token string, action domain.Action) string {
	return fmt.Sprintf(
		"%s/appointment-action?token=%s&action=%s",
		strings.TrimRight(uc.publicBaseURL, "/"),
		token,
		action,
	)
}

func (uc *CreateAppointment) dispatchAudit(
	locationID uint,
	action string,
	entityID *uint,
	meta map[string]any,
) {
	if uc.audit == nil {
		return
	}
	uc.audit.Dispatch(audit.Event{
		LocationID: &locationID,
		Action:     action,
		Entity:     "appointment",
		EntityID:   entityID,
		Metadata:   meta,
	})
}
