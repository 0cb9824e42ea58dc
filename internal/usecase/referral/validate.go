package referral

import (
	"context"
	"strings"

	domain "github.com/SonrisaDental01/clinic-scheduler/internal/domain/appointment"
)

// Resultado del chequeo para el wizard: "sin código" (el usuario aún no
// termina de teclear) se distingue de "inválido" (tecleó uno que no existe).
type Result string

const (
	ResultNoCode  Result = "no_code"
	ResultValid   Result = "valid"
	ResultInvalid Result = "invalid"
)

// Normalize deja el código en mayúsculas; la búsqueda es insensible a
// mayúsculas por construcción porque los códigos se guardan así.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

type Validate struct {
	repo      domain.Repository
	minLength int
}

func NewValidate(repo domain.Repository, minLength int) *Validate {
	if minLength <= 0 {
		minLength = 4
	}
	return &Validate{repo: repo, minLength: minLength}
}

func (uc *Validate) Execute(ctx context.Context, code string) Result {
	norm := Normalize(code)

	if len(norm) < uc.minLength {
		return ResultNoCode
	}

	// Cualquier falla de la base cuenta como inválido: nunca se regala
	// un beneficio (el descuento lo aplica facturación) por un error.
	if _, err := uc.repo.FindActiveReferralCode(ctx, norm); err != nil {
		return ResultInvalid
	}

	return ResultValid
}
