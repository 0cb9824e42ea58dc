package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	domain "github.com/SonrisaDental01/clinic-scheduler/internal/domain/appointment"
	"github.com/SonrisaDental01/clinic-scheduler/internal/httperr"
	"github.com/SonrisaDental01/clinic-scheduler/internal/models"
	"github.com/SonrisaDental01/clinic-scheduler/internal/timezone"
	ucAppointment "github.com/SonrisaDental01/clinic-scheduler/internal/usecase/appointment"
	ucReferral "github.com/SonrisaDental01/clinic-scheduler/internal/usecase/referral"
)

////////////////////////////////////////////////////////
// TEST DOUBLES
////////////////////////////////////////////////////////

// stubRepo cubre lo que las rutas públicas tocan; reproduce el índice
// único parcial bajo un mutex igual que lo haría Postgres.
type stubRepo struct {
	mu           sync.Mutex
	appointments map[uint]*models.Appointment
	nextID       uint
	down         bool
}

var _ domain.Repository = (*stubRepo)(nil)

func newStubRepo() *stubRepo {
	return &stubRepo{appointments: make(map[uint]*models.Appointment)}
}

var stubLocations = []models.Location{
	{ID: 1, Name: "Sonrisa Dental Tepic", Slug: "tepic"},
	{ID: 2, Name: "Sonrisa Dental Xalisco", Slug: "xalisco"},
}

var stubServices = []models.Service{
	{ID: 1, Name: "Valoración", Active: true},
	{ID: 2, Name: "Limpieza dental", Active: true},
}

func (s *stubRepo) fail() error { return httperr.ErrBusiness(httperr.CodeRepoUnavailable) }

func (s *stubRepo) ListLocations(ctx context.Context) ([]models.Location, error) {
	if s.down {
		return nil, s.fail()
	}
	return stubLocations, nil
}

func (s *stubRepo) GetLocationBySlug(ctx context.Context, slug string) (*models.Location, error) {
	if s.down {
		return nil, s.fail()
	}
	for i := range stubLocations {
		if stubLocations[i].Slug == slug {
			l := stubLocations[i]
			return &l, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) ListServices(ctx context.Context) ([]models.Service, error) {
	if s.down {
		return nil, s.fail()
	}
	return stubServices, nil
}

func (s *stubRepo) GetService(ctx context.Context, id uint) (*models.Service, error) {
	if s.down {
		return nil, s.fail()
	}
	for i := range stubServices {
		if stubServices[i].ID == id {
			sv := stubServices[i]
			return &sv, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) CreateAppointment(ctx context.Context, ap *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down {
		return s.fail()
	}
	for _, existing := range s.appointments {
		if existing.Status != "cancelled" &&
			existing.LocationID == ap.LocationID &&
			existing.Date == ap.Date &&
			existing.Time == ap.Time {
			return httperr.ErrBusiness(httperr.CodeSlotTaken)
		}
	}
	s.nextID++
	ap.ID = s.nextID
	cp := *ap
	s.appointments[ap.ID] = &cp
	return nil
}

func (s *stubRepo) ListBookedTimes(ctx context.Context, locationID uint, date string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down {
		return nil, s.fail()
	}
	var out []string
	for _, ap := range s.appointments {
		if ap.LocationID == locationID && ap.Date == date && ap.Status != "cancelled" {
			out = append(out, ap.Time)
		}
	}
	return out, nil
}

func (s *stubRepo) GetAppointmentByToken(ctx context.Context, token string) (*models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down {
		return nil, s.fail()
	}
	for _, ap := range s.appointments {
		if ap.ConfirmationToken == token {
			cp := *ap
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) GetAppointmentByID(ctx context.Context, id uint) (*models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ap, ok := s.appointments[id]; ok {
		cp := *ap
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) UpdateAppointment(ctx context.Context, ap *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down {
		return s.fail()
	}
	cp := *ap
	s.appointments[ap.ID] = &cp
	return nil
}

func (s *stubRepo) ListAppointmentsForDay(ctx context.Context, locationID uint, date string) ([]models.Appointment, error) {
	return nil, nil
}

func (s *stubRepo) ListAppointmentsForMonth(ctx context.Context, locationID uint, year int, month time.Month) ([]models.Appointment, error) {
	return nil, nil
}

func (s *stubRepo) FindActiveReferralCode(ctx context.Context, code string) (*models.ReferralCode, error) {
	if s.down {
		return nil, s.fail()
	}
	if code == "ABCD" {
		return &models.ReferralCode{ID: 1, Code: "ABCD", Active: true}, nil
	}
	return nil, gorm.ErrRecordNotFound
}

////////////////////////////////////////////////////////
// ROUTER
////////////////////////////////////////////////////////

func newPublicRouter(t *testing.T, repo *stubRepo) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	grid, err := domain.BuildGrid("09:00", "14:00", "16:00", "20:00", 30)
	require.NoError(t, err)
	policy := domain.CalendarPolicy{ClosedWeekday: time.Sunday, Grid: grid}

	referralUC := ucReferral.NewValidate(repo, 4)
	availabilityUC := ucAppointment.NewGetAvailability(repo, grid)
	createUC := ucAppointment.NewCreateAppointment(
		repo, policy, referralUC,
		timezone.DefaultTimezone, "https://citas.sonrisadental.mx",
		nil, nil,
	)

	h := NewPublicHandler(repo, availabilityUC, createUC, referralUC)

	r := gin.New()
	pub := r.Group("/api/public")
	pub.GET("/locations", h.ListLocations)
	pub.GET("/locations/:slug/services", h.ListServices)
	pub.GET("/locations/:slug/availability", h.Availability)
	pub.POST("/locations/:slug/appointments", h.CreateAppointment)
	pub.GET("/referral-codes/check", h.CheckReferral)
	return r
}

// nextBookableDate regresa una fecha futura que no cae en domingo, para
// que la política del calendario la acepte con el reloj real.
func nextBookableDate() string {
	d := time.Now().AddDate(0, 0, 7)
	if d.Weekday() == time.Sunday {
		d = d.AddDate(0, 0, 1)
	}
	return d.Format(domain.DateLayout)
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func getPath(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createBody() gin.H {
	return gin.H{
		"service_id":    2,
		"date":          nextBookableDate(),
		"time":          "09:00",
		"patient_name":  "María López",
		"patient_phone": "3111234567",
		"patient_email": "maria@example.com",
	}
}

////////////////////////////////////////////////////////
// TESTS
////////////////////////////////////////////////////////

func TestPublicListLocations(t *testing.T) {
	r := newPublicRouter(t, newStubRepo())

	w := getPath(r, "/api/public/locations")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Locations []models.Location `json:"locations"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Locations, 2)
}

func TestPublicListServices_UnknownLocation(t *testing.T) {
	r := newPublicRouter(t, newStubRepo())

	w := getPath(r, "/api/public/locations/cancun/services")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPublicAvailability(t *testing.T) {
	repo := newStubRepo()
	r := newPublicRouter(t, repo)
	date := nextBookableDate()

	w := getPath(r, "/api/public/locations/tepic/availability?date="+date)
	require.Equal(t, http.StatusOK, w.Code)

	var day ucAppointment.DayAvailability
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &day))
	assert.Equal(t, date, day.Date)
	assert.Len(t, day.Available, 18)
	assert.Empty(t, day.Booked)
}

func TestPublicAvailability_BadInput(t *testing.T) {
	r := newPublicRouter(t, newStubRepo())

	w := getPath(r, "/api/public/locations/tepic/availability")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = getPath(r, "/api/public/locations/tepic/availability?date=hoy")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPublicAvailability_RepoDownIsNotFullyBooked(t *testing.T) {
	repo := newStubRepo()
	repo.down = true
	r := newPublicRouter(t, repo)

	w := getPath(r, "/api/public/locations/tepic/availability?date="+nextBookableDate())
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestPublicCreateAppointment(t *testing.T) {
	r := newPublicRouter(t, newStubRepo())

	w := postJSON(t, r, "/api/public/locations/tepic/appointments", createBody())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var ap models.Appointment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ap))
	assert.Equal(t, "pending", ap.Status)
	assert.Equal(t, "Sonrisa Dental Tepic", ap.LocationName)

	// El token nunca viaja en la respuesta pública.
	assert.NotContains(t, w.Body.String(), "confirmation_token")
}

func TestPublicCreateAppointment_SlotConflict(t *testing.T) {
	r := newPublicRouter(t, newStubRepo())

	w := postJSON(t, r, "/api/public/locations/tepic/appointments", createBody())
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, r, "/api/public/locations/tepic/appointments", createBody())
	require.Equal(t, http.StatusConflict, w.Code)

	var resp struct {
		ErrorCode    string                         `json:"error_code"`
		Step         string                         `json:"step"`
		Availability *ucAppointment.DayAvailability `json:"availability"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "slot_already_booked", resp.ErrorCode)
	assert.Equal(t, "selecting_time", resp.Step)
	require.NotNil(t, resp.Availability)
	assert.Contains(t, resp.Availability.Booked, "09:00")
}

func TestPublicCreateAppointment_BadPayload(t *testing.T) {
	r := newPublicRouter(t, newStubRepo())

	body := createBody()
	delete(body, "patient_email")
	w := postJSON(t, r, "/api/public/locations/tepic/appointments", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body = createBody()
	body["time"] = "09:15"
	w = postJSON(t, r, "/api/public/locations/tepic/appointments", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPublicCreateAppointment_UnknownLocation(t *testing.T) {
	r := newPublicRouter(t, newStubRepo())

	w := postJSON(t, r, "/api/public/locations/cancun/appointments", createBody())
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPublicCheckReferral(t *testing.T) {
	r := newPublicRouter(t, newStubRepo())

	cases := []struct {
		code  string
		want  string
		valid bool
	}{
		{"abcd", "valid", true},
		{"ABCD", "valid", true},
		{"ZZZZ", "invalid", false},
		{"ab", "no_code", false},
	}

	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			w := getPath(r, fmt.Sprintf("/api/public/referral-codes/check?code=%s", tc.code))
			require.Equal(t, http.StatusOK, w.Code)

			var resp struct {
				Result string `json:"result"`
				Valid  bool   `json:"valid"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tc.want, resp.Result)
			assert.Equal(t, tc.valid, resp.Valid)
		})
	}
}
