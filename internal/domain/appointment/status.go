package appointment

import "github.com/SonrisaDental01/clinic-scheduler/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

func InitialStatus() Status {
	return StatusPending
}

// ===============================
// Token actions
// ===============================

type Action string

const (
	ActionConfirm Action = "confirm"
	ActionCancel  Action = "cancel"
)

func ParseAction(raw string) (Action, error) {
	switch Action(raw) {
	case ActionConfirm, ActionCancel:
		return Action(raw), nil
	}
	return "", httperr.ErrBusiness(httperr.CodeValidation)
}

// Apply calcula el siguiente estado al canjear el token. Es idempotente:
// repetir una acción ya aplicada regresa el estado actual sin error.
// "cancelled" es absorbente: el horario pudo haberse vuelto a ocupar,
// así que una cita cancelada nunca revive.
func Apply(current Status, action Action) (next Status, changed bool, err error) {
	switch current {
	case StatusPending:
		if action == ActionConfirm {
			return StatusConfirmed, true, nil
		}
		return StatusCancelled, true, nil

	case StatusConfirmed:
		if action == ActionCancel {
			return StatusCancelled, true, nil
		}
		return StatusConfirmed, false, nil

	case StatusCancelled:
		return StatusCancelled, false, nil
	}

	return current, false, httperr.ErrBusiness("invalid_state")
}

// CanStaffCancel define si recepción puede cancelar una cita.
func CanStaffCancel(current Status) error {
	if current == StatusCancelled {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}
