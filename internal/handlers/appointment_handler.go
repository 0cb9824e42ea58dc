package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/SonrisaDental01/clinic-scheduler/internal/domain/appointment"
	"github.com/SonrisaDental01/clinic-scheduler/internal/httperr"
	"github.com/SonrisaDental01/clinic-scheduler/internal/httpresp"
	"github.com/SonrisaDental01/clinic-scheduler/internal/middleware"
	ucAppointment "github.com/SonrisaDental01/clinic-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER (portal interno)
// ======================================================

type AppointmentHandler struct {
	listByDate  *ucAppointment.ListAppointmentsByDate
	listByMonth *ucAppointment.ListAppointmentsByMonth
	cancel      *ucAppointment.CancelAppointment
}

func NewAppointmentHandler(
	listByDate *ucAppointment.ListAppointmentsByDate,
	listByMonth *ucAppointment.ListAppointmentsByMonth,
	cancel *ucAppointment.CancelAppointment,
) *AppointmentHandler {
	return &AppointmentHandler{
		listByDate:  listByDate,
		listByMonth: listByMonth,
		cancel:      cancel,
	}
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "La fecha es obligatoria.")
		return
	}
	if _, err := domain.ParseDate(dateStr, time.UTC); err != nil {
		httperr.BadRequest(c, "invalid_date", "Fecha inválida.")
		return
	}

	locationID := parseLocationFilter(c)

	appointments, err := h.listByDate.Execute(c.Request.Context(), locationID, dateStr)
	if err != nil {
		httperr.Unavailable(c, httperr.CodeRepoUnavailable, "No se pudo consultar la agenda.")
		return
	}

	httpresp.List(c, appointments)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 2000 || year > 2100 {
		httperr.BadRequest(c, "invalid_year", "Año inválido.")
		return
	}

	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_month", "Mes inválido.")
		return
	}

	locationID := parseLocationFilter(c)

	appointments, err := h.listByMonth.Execute(
		c.Request.Context(),
		locationID,
		year,
		time.Month(month),
	)
	if err != nil {
		httperr.Unavailable(c, httperr.CodeRepoUnavailable, "No se pudo consultar la agenda.")
		return
	}

	httpresp.OK(c, gin.H{
		"year":         year,
		"month":        month,
		"appointments": appointments,
	})
}

// ======================================================
// CANCEL (recepción)
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	ap, err := h.cancel.Execute(c.Request.Context(), userID, uint(id))
	if err != nil {
		switch {
		case httperr.IsBusiness(err, "appointment_not_found"):
			httperr.NotFound(c, "appointment_not_found", "Cita no encontrada.")
		case httperr.IsBusiness(err, "invalid_state"):
			httperr.BadRequest(c, "invalid_state", "La cita ya estaba cancelada.")
		case httperr.IsBusiness(err, httperr.CodeRepoUnavailable):
			httperr.Unavailable(c, httperr.CodeRepoUnavailable, "No se pudo cancelar, intenta de nuevo.")
		default:
			httperr.Internal(c, "failed_to_cancel", "Error al cancelar la cita.")
		}
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// HELPERS
// ======================================================

func parseLocationFilter(c *gin.Context) uint {
	raw := c.Query("location_id")
	if raw == "" {
		return 0
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}
