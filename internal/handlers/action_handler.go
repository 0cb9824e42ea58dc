package handlers

import (
	"fmt"
	"html"
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/SonrisaDental01/clinic-scheduler/internal/domain/appointment"
	"github.com/SonrisaDental01/clinic-scheduler/internal/httperr"
	"github.com/SonrisaDental01/clinic-scheduler/internal/models"
	"github.com/SonrisaDental01/clinic-scheduler/internal/notify"
	ucAppointment "github.com/SonrisaDental01/clinic-scheduler/internal/usecase/appointment"
)

// Canje de los links del correo: GET /appointment-action?token=..&action=..
// Regresa páginas legibles, no JSON, porque el click llega directo del
// cliente de correo.
type ActionHandler struct {
	redeem *ucAppointment.RedeemToken
}

func NewActionHandler(redeem *ucAppointment.RedeemToken) *ActionHandler {
	return &ActionHandler{redeem: redeem}
}

func (h *ActionHandler) HandleAction(c *gin.Context) {
	token := c.Query("token")

	action, err := domain.ParseAction(c.Query("action"))
	if token == "" || err != nil {
		h.page(c, http.StatusBadRequest, "Liga incompleta",
			"La liga que abriste no está completa. Usa el botón del correo de tu cita.")
		return
	}

	ap, err := h.redeem.Execute(c.Request.Context(), token, action)
	if err != nil {
		switch {
		case httperr.IsBusiness(err, httperr.CodeRepoUnavailable):
			h.page(c, http.StatusServiceUnavailable, "Intenta de nuevo",
				"No pudimos procesar tu solicitud en este momento. Intenta de nuevo en unos minutos.")
		default:
			// Mismo mensaje para token inexistente o corrupto: la página
			// no revela si una liga parecida existió alguna vez.
			h.page(c, http.StatusNotFound, "Liga no válida",
				"Esta liga ya no es válida. Si necesitas mover tu cita, llama a tu sucursal.")
		}
		return
	}

	h.resultPage(c, ap)
}

func (h *ActionHandler) resultPage(c *gin.Context, ap *models.Appointment) {
	var title, detail string

	switch domain.Status(ap.Status) {
	case domain.StatusConfirmed:
		title = "¡Cita confirmada!"
		detail = "Te esperamos. Si no puedes asistir, usa la liga de cancelación de tu correo."
	case domain.StatusCancelled:
		title = "Cita cancelada"
		detail = "Tu horario quedó libre para otro paciente. Cuando quieras, agenda una nueva cita."
	default:
		title = "Cita pendiente"
		detail = "Tu cita sigue pendiente de confirmación."
	}

	body := fmt.Sprintf(
		"<p>%s — %s</p><p>%s a las %s</p><p>%s</p>",
		html.EscapeString(ap.LocationName),
		html.EscapeString(ap.ServiceName),
		html.EscapeString(notify.HumanDate(ap.Date)),
		html.EscapeString(ap.Time),
		detail,
	)

	h.render(c, http.StatusOK, title, body)
}

func (h *ActionHandler) page(c *gin.Context, status int, title, message string) {
	h.render(c, status, title, "<p>"+html.EscapeString(message)+"</p>")
}

func (h *ActionHandler) render(c *gin.Context, status int, title, bodyHTML string) {
	page := fmt.Sprintf(`<!DOCTYPE html>
<html lang="es">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>%s — Sonrisa Dental</title>
  <style>
    body { font-family: sans-serif; max-width: 32rem; margin: 4rem auto; padding: 0 1rem; color: #333; }
    h1 { color: #0b7285; }
  </style>
</head>
<body>
  <h1>%s</h1>
  %s
</body>
</html>`, html.EscapeString(title), html.EscapeString(title), bodyHTML)

	c.Data(status, "text/html; charset=utf-8", []byte(page))
}
