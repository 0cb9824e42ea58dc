package appointment

import (
	"crypto/rand"
	"encoding/hex"
)

const tokenBytes = 32

// NewConfirmationToken genera el token de un solo uso que viaja en los
// links del correo. Es la única autenticación del canje público, así que
// sale de crypto/rand y nunca se escribe completo en logs.
func NewConfirmationToken() string {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		// rand.Read solo falla si el sistema está roto de verdad
		panic(err)
	}
	return hex.EncodeToString(b)
}

// TokenPrefix es lo único del token que puede aparecer en logs y auditoría.
func TokenPrefix(token string) string {
	if len(token) <= 8 {
		return token
	}
	return token[:8]
}
