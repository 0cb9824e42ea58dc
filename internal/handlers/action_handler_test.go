package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SonrisaDental01/clinic-scheduler/internal/models"
	"github.com/SonrisaDental01/clinic-scheduler/internal/timezone"
	ucAppointment "github.com/SonrisaDental01/clinic-scheduler/internal/usecase/appointment"
)

func newActionRouter(repo *stubRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)

	redeemUC := ucAppointment.NewRedeemToken(repo, timezone.DefaultTimezone, nil)
	h := NewActionHandler(redeemUC)

	r := gin.New()
	r.GET("/appointment-action", h.HandleAction)
	return r
}

func seedAppointment(repo *stubRepo, token string) *models.Appointment {
	ap := &models.Appointment{
		LocationID:        1,
		ServiceID:         2,
		LocationName:      "Sonrisa Dental Tepic",
		ServiceName:       "Limpieza dental",
		Date:              "2025-03-10",
		Time:              "09:00",
		PatientName:       "María López",
		PatientPhone:      "3111234567",
		PatientEmail:      "maria@example.com",
		Status:            "pending",
		ConfirmationToken: token,
	}
	repo.nextID++
	ap.ID = repo.nextID
	repo.appointments[ap.ID] = ap
	return ap
}

func TestHandleAction_Confirm(t *testing.T) {
	repo := newStubRepo()
	seedAppointment(repo, "tok123")
	r := newActionRouter(repo)

	w := getPath(r, "/appointment-action?token=tok123&action=confirm")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")

	body := w.Body.String()
	assert.Contains(t, body, "Cita confirmada")
	assert.Contains(t, body, "Sonrisa Dental Tepic")
	assert.Contains(t, body, "lunes 10 de marzo de 2025")
}

func TestHandleAction_Cancel(t *testing.T) {
	repo := newStubRepo()
	ap := seedAppointment(repo, "tok123")
	r := newActionRouter(repo)

	w := getPath(r, "/appointment-action?token=tok123&action=cancel")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Cita cancelada")

	stored := repo.appointments[ap.ID]
	assert.Equal(t, "cancelled", stored.Status)
}

func TestHandleAction_RepeatedClickIsFriendly(t *testing.T) {
	repo := newStubRepo()
	seedAppointment(repo, "tok123")
	r := newActionRouter(repo)

	w := getPath(r, "/appointment-action?token=tok123&action=confirm")
	require.Equal(t, http.StatusOK, w.Code)

	// El cliente de correo pre-visita la liga: el segundo click ve la
	// misma página de éxito.
	w = getPath(r, "/appointment-action?token=tok123&action=confirm")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Cita confirmada")
}

func TestHandleAction_UnknownToken(t *testing.T) {
	r := newActionRouter(newStubRepo())

	w := getPath(r, "/appointment-action?token=nope&action=confirm")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// La página no revela si la liga existió: mensaje genérico.
	body := w.Body.String()
	assert.Contains(t, body, "Liga no válida")
	assert.NotContains(t, body, "nope")
}

func TestHandleAction_IncompleteLink(t *testing.T) {
	r := newActionRouter(newStubRepo())

	w := getPath(r, "/appointment-action?action=confirm")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = getPath(r, "/appointment-action?token=tok123&action=delete")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleAction_RepoDown(t *testing.T) {
	repo := newStubRepo()
	seedAppointment(repo, "tok123")
	repo.down = true
	r := newActionRouter(repo)

	w := getPath(r, "/appointment-action?token=tok123&action=confirm")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "Intenta de nuevo")
}
