package appointment

import (
	"strings"

	"github.com/SonrisaDental01/clinic-scheduler/internal/httperr"
)

// ===============================
// Booking Wizard (máquina de pasos)
// ===============================

type Step int

const (
	StepSelectingBranchAndService Step = iota
	StepSelectingDate
	StepSelectingTime
	StepEnteringContactInfo
	StepSubmitted
)

func (s Step) String() string {
	switch s {
	case StepSelectingBranchAndService:
		return "selecting_branch_and_service"
	case StepSelectingDate:
		return "selecting_date"
	case StepSelectingTime:
		return "selecting_time"
	case StepEnteringContactInfo:
		return "entering_contact_info"
	case StepSubmitted:
		return "submitted"
	}
	return "unknown"
}

// BookingRequest es el estado serializable del wizard: nada de estado
// ambiente, todo lo elegido viaja explícito entre pasos.
type BookingRequest struct {
	LocationSlug string `json:"location_slug"`
	ServiceID    uint   `json:"service_id"`

	Date string `json:"date"` // YYYY-MM-DD
	Time string `json:"time"` // HH:MM

	PatientName  string `json:"patient_name"`
	PatientPhone string `json:"patient_phone"`
	PatientEmail string `json:"patient_email"`
	ReferralCode string `json:"referral_code"`
}

type BookingState struct {
	Step    Step           `json:"step"`
	Request BookingRequest `json:"request"`
}

func NewBookingState() BookingState {
	return BookingState{Step: StepSelectingBranchAndService}
}

// StepInput trae los datos del paso actual. Solo se leen los campos que
// ese paso necesita.
type StepInput struct {
	LocationSlug string
	ServiceID    uint

	Date string
	Time string

	PatientName  string
	PatientPhone string
	PatientEmail string
	ReferralCode string
}

// Advance es la transición pura (estado, entrada) -> estado | error.
// Cada paso exige los datos del paso anterior para avanzar.
func Advance(s BookingState, in StepInput) (BookingState, error) {
	switch s.Step {

	case StepSelectingBranchAndService:
		if strings.TrimSpace(in.LocationSlug) == "" || in.ServiceID == 0 {
			return s, httperr.ErrBusiness(httperr.CodeValidation)
		}
		s.Request.LocationSlug = strings.TrimSpace(in.LocationSlug)
		s.Request.ServiceID = in.ServiceID
		s.Step = StepSelectingDate
		return s, nil

	case StepSelectingDate:
		if strings.TrimSpace(in.Date) == "" {
			return s, httperr.ErrBusiness(httperr.CodeValidation)
		}
		// Cambiar de fecha invalida cualquier hora elegida antes.
		s.Request.Date = strings.TrimSpace(in.Date)
		s.Request.Time = ""
		s.Step = StepSelectingTime
		return s, nil

	case StepSelectingTime:
		if strings.TrimSpace(in.Time) == "" {
			return s, httperr.ErrBusiness(httperr.CodeValidation)
		}
		s.Request.Time = strings.TrimSpace(in.Time)
		s.Step = StepEnteringContactInfo
		return s, nil

	case StepEnteringContactInfo:
		name := strings.TrimSpace(in.PatientName)
		phone := strings.TrimSpace(in.PatientPhone)
		email := strings.TrimSpace(in.PatientEmail)
		if name == "" || phone == "" || email == "" {
			return s, httperr.ErrBusiness(httperr.CodeValidation)
		}
		s.Request.PatientName = name
		s.Request.PatientPhone = phone
		s.Request.PatientEmail = email
		s.Request.ReferralCode = strings.TrimSpace(in.ReferralCode)
		s.Step = StepSubmitted
		return s, nil
	}

	return s, httperr.ErrBusiness("invalid_state")
}

// Back regresa al paso inmediato anterior. Al salir de la selección de
// hora o de fecha, la hora deja de ser válida y se limpia.
func Back(s BookingState) BookingState {
	switch s.Step {
	case StepSelectingDate:
		s.Step = StepSelectingBranchAndService
		s.Request.Time = ""
	case StepSelectingTime:
		s.Step = StepSelectingDate
		s.Request.Time = ""
	case StepEnteringContactInfo:
		s.Step = StepSelectingTime
	case StepSubmitted:
		s.Step = StepEnteringContactInfo
	}
	return s
}

// MarkSlotTaken regresa el wizard a la selección de hora después de
// perder la carrera por el horario; quien llama vuelve a pedir la
// disponibilidad para que la hora en conflicto salga como ocupada.
func MarkSlotTaken(s BookingState) BookingState {
	s.Step = StepSelectingTime
	s.Request.Time = ""
	return s
}
