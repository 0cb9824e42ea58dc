package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-Id"

const ContextRequestID = "requestID"

// RequestIDMiddleware propaga o genera el identificador de la petición;
// el frontend lo manda de vuelta al reportar errores de agendamiento.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Writer.Header().Set(RequestIDHeader, id)
		c.Set(ContextRequestID, id)

		c.Next()
	}
}
