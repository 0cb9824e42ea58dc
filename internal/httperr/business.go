package httperr

import "errors"

// ===============================
// Códigos canónicos del núcleo
// ===============================

const (
	// Entrada inválida: el cliente corrige y reintenta, nunca se reintenta solo.
	CodeValidation = "validation_failed"

	// Se perdió la carrera por el horario; hay que elegir otra hora.
	CodeSlotTaken = "slot_already_booked"

	// Token de confirmación desconocido.
	CodeTokenNotFound = "token_not_found"

	// Falla transitoria de la base; seguro reintentar con backoff.
	CodeRepoUnavailable = "repository_unavailable"
)

type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}
