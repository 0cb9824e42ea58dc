package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/SonrisaDental01/clinic-scheduler/internal/domain/appointment"
	"github.com/SonrisaDental01/clinic-scheduler/internal/httperr"
	ucAppointment "github.com/SonrisaDental01/clinic-scheduler/internal/usecase/appointment"
	ucReferral "github.com/SonrisaDental01/clinic-scheduler/internal/usecase/referral"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	repo         domain.Repository
	availability *ucAppointment.GetAvailability
	create       *ucAppointment.CreateAppointment
	referral     *ucReferral.Validate
}

func NewPublicHandler(
	repo domain.Repository,
	availability *ucAppointment.GetAvailability,
	create *ucAppointment.CreateAppointment,
	referral *ucReferral.Validate,
) *PublicHandler {
	return &PublicHandler{
		repo:         repo,
		availability: availability,
		create:       create,
		referral:     referral,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type PublicCreateAppointmentRequest struct {
	ServiceID uint   `json:"service_id" binding:"required"`
	Date      string `json:"date" binding:"required"` // YYYY-MM-DD
	Time      string `json:"time" binding:"required"` // HH:MM

	PatientName  string `json:"patient_name" binding:"required"`
	PatientPhone string `json:"patient_phone" binding:"required"`
	PatientEmail string `json:"patient_email" binding:"required,email"`

	ReferralCode string `json:"referral_code"`
}

////////////////////////////////////////////////////////
// REFERENCE DATA (paso 1 del wizard)
////////////////////////////////////////////////////////

func (h *PublicHandler) ListLocations(c *gin.Context) {
	locations, err := h.repo.ListLocations(c.Request.Context())
	if err != nil {
		httperr.Unavailable(c, httperr.CodeRepoUnavailable, "Servicio no disponible, intenta de nuevo.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"locations": locations})
}

func (h *PublicHandler) ListServices(c *gin.Context) {
	slug := c.Param("slug")

	if _, err := h.repo.GetLocationBySlug(c.Request.Context(), slug); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "location_not_found", "Sucursal no encontrada.")
			return
		}
		httperr.Unavailable(c, httperr.CodeRepoUnavailable, "Servicio no disponible, intenta de nuevo.")
		return
	}

	services, err := h.repo.ListServices(c.Request.Context())
	if err != nil {
		httperr.Unavailable(c, httperr.CodeRepoUnavailable, "Servicio no disponible, intenta de nuevo.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"services": services})
}

////////////////////////////////////////////////////////
// AVAILABILITY (solo informativa, la verdad vive en el insert)
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	slug := c.Param("slug")
	dateStr := c.Query("date")

	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "La fecha es obligatoria.")
		return
	}
	if _, err := domain.ParseDate(dateStr, time.UTC); err != nil {
		httperr.BadRequest(c, "invalid_date", "Fecha inválida.")
		return
	}

	location, err := h.repo.GetLocationBySlug(c.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "location_not_found", "Sucursal no encontrada.")
			return
		}
		httperr.Unavailable(c, httperr.CodeRepoUnavailable, "Servicio no disponible, intenta de nuevo.")
		return
	}

	day, err := h.availability.Execute(c.Request.Context(), location.ID, dateStr)
	if err != nil {
		// "No hay información" nunca se presenta como "todo ocupado".
		httperr.Unavailable(c, httperr.CodeRepoUnavailable, "No se pudo consultar la disponibilidad, intenta de nuevo.")
		return
	}

	c.JSON(http.StatusOK, day)
}

////////////////////////////////////////////////////////
// CREATE APPOINTMENT (wizard completo del lado del servidor)
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateAppointment(c *gin.Context) {
	slug := c.Param("slug")

	var req PublicCreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeValidation, "Datos inválidos.")
		return
	}

	// El servidor recorre los mismos pasos del wizard: cada transición
	// valida lo que el paso anterior debió dejar.
	state, err := walkWizard(slug, req)
	if err != nil {
		httperr.BadRequest(c, httperr.CodeValidation, "Datos incompletos para agendar.")
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), state.Request)
	if err != nil {
		h.mapCreateError(c, state, err)
		return
	}

	c.JSON(http.StatusCreated, ap)
}

func walkWizard(slug string, req PublicCreateAppointmentRequest) (domain.BookingState, error) {
	state := domain.NewBookingState()

	steps := []domain.StepInput{
		{LocationSlug: slug, ServiceID: req.ServiceID},
		{Date: req.Date},
		{Time: req.Time},
		{
			PatientName:  req.PatientName,
			PatientPhone: req.PatientPhone,
			PatientEmail: req.PatientEmail,
			ReferralCode: req.ReferralCode,
		},
	}

	var err error
	for _, in := range steps {
		if state, err = domain.Advance(state, in); err != nil {
			return state, err
		}
	}

	return state, nil
}

func (h *PublicHandler) mapCreateError(c *gin.Context, state domain.BookingState, err error) {
	switch {
	case httperr.IsBusiness(err, httperr.CodeSlotTaken):
		// Perdió la carrera: el wizard regresa a elegir hora con la
		// disponibilidad recién consultada, donde ya aparece ocupada.
		state = domain.MarkSlotTaken(state)

		location, lerr := h.repo.GetLocationBySlug(c.Request.Context(), state.Request.LocationSlug)
		var day *ucAppointment.DayAvailability
		if lerr == nil {
			day, _ = h.availability.Execute(c.Request.Context(), location.ID, state.Request.Date)
		}

		c.JSON(http.StatusConflict, gin.H{
			"error_code":   httperr.CodeSlotTaken,
			"message":      "Ese horario se acaba de ocupar, elige otro por favor.",
			"step":         state.Step.String(),
			"availability": day,
		})

	case httperr.IsBusiness(err, "location_not_found"):
		httperr.NotFound(c, "location_not_found", "Sucursal no encontrada.")

	case httperr.IsBusiness(err, "service_not_found"):
		httperr.BadRequest(c, "service_not_found", "Servicio inválido.")

	case httperr.IsBusiness(err, httperr.CodeValidation):
		httperr.BadRequest(c, httperr.CodeValidation, "Revisa los datos de tu cita.")

	case httperr.IsBusiness(err, httperr.CodeRepoUnavailable):
		httperr.Unavailable(c, httperr.CodeRepoUnavailable, "No pudimos guardar tu cita, intenta de nuevo.")

	default:
		httperr.Internal(c, "failed_to_create_appointment", "Error al crear la cita.")
	}
}

////////////////////////////////////////////////////////
// REFERRAL CHECK (para el campo del wizard)
////////////////////////////////////////////////////////

func (h *PublicHandler) CheckReferral(c *gin.Context) {
	code := c.Query("code")

	result := h.referral.Execute(c.Request.Context(), code)

	c.JSON(http.StatusOK, gin.H{
		"result": result,
		"valid":  result == ucReferral.ResultValid,
	})
}
