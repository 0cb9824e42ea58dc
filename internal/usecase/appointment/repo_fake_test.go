package appointment

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	domain "github.com/SonrisaDental01/clinic-scheduler/internal/domain/appointment"
	"github.com/SonrisaDental01/clinic-scheduler/internal/httperr"
	"github.com/SonrisaDental01/clinic-scheduler/internal/models"
)

// fakeRepo emula en memoria el contrato del repositorio de Postgres,
// incluido el índice único parcial: el chequeo de duplicados corre bajo
// el mismo mutex que la inserción, igual que el índice decide en la base.
type fakeRepo struct {
	mu sync.Mutex

	locations []models.Location
	services  []models.Service
	referrals []models.ReferralCode

	appointments map[uint]*models.Appointment
	nextID       uint

	// down simula la base caída: toda operación regresa repository_unavailable.
	down bool

	createCalls int
	updateCalls int
}

var _ domain.Repository = (*fakeRepo)(nil)

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		locations: []models.Location{
			{ID: 1, Name: "Sonrisa Dental Tepic", Slug: "tepic"},
			{ID: 2, Name: "Sonrisa Dental Xalisco", Slug: "xalisco"},
		},
		services: []models.Service{
			{ID: 1, Name: "Valoración", Active: true},
			{ID: 2, Name: "Limpieza dental", Active: true},
		},
		referrals: []models.ReferralCode{
			{ID: 1, Code: "ABCD", OwnerName: "Dra. Rivera", Active: true},
			{ID: 2, Code: "WXYZ", OwnerName: "Dr. Ponce", Active: false},
		},
		appointments: make(map[uint]*models.Appointment),
	}
}

func (f *fakeRepo) unavailable() error {
	return httperr.ErrBusiness(httperr.CodeRepoUnavailable)
}

func (f *fakeRepo) ListLocations(ctx context.Context) ([]models.Location, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return nil, f.unavailable()
	}
	return append([]models.Location(nil), f.locations...), nil
}

func (f *fakeRepo) GetLocationBySlug(ctx context.Context, slug string) (*models.Location, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return nil, f.unavailable()
	}
	for i := range f.locations {
		if f.locations[i].Slug == slug {
			l := f.locations[i]
			return &l, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) ListServices(ctx context.Context) ([]models.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return nil, f.unavailable()
	}
	return append([]models.Service(nil), f.services...), nil
}

func (f *fakeRepo) GetService(ctx context.Context, id uint) (*models.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return nil, f.unavailable()
	}
	for i := range f.services {
		if f.services[i].ID == id && f.services[i].Active {
			s := f.services[i]
			return &s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) CreateAppointment(ctx context.Context, ap *models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.down {
		return f.unavailable()
	}

	for _, existing := range f.appointments {
		if existing.Status == "cancelled" {
			continue
		}
		if existing.LocationID == ap.LocationID && existing.Date == ap.Date && existing.Time == ap.Time {
			return httperr.ErrBusiness(httperr.CodeSlotTaken)
		}
	}

	f.nextID++
	ap.ID = f.nextID
	ap.CreatedAt = time.Now()
	cp := *ap
	f.appointments[ap.ID] = &cp
	return nil
}

func (f *fakeRepo) ListBookedTimes(ctx context.Context, locationID uint, date string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return nil, f.unavailable()
	}
	var out []string
	for _, ap := range f.appointments {
		if ap.LocationID == locationID && ap.Date == date && ap.Status != "cancelled" {
			out = append(out, ap.Time)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetAppointmentByToken(ctx context.Context, token string) (*models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return nil, f.unavailable()
	}
	for _, ap := range f.appointments {
		if ap.ConfirmationToken == token {
			cp := *ap
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) GetAppointmentByID(ctx context.Context, id uint) (*models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return nil, f.unavailable()
	}
	ap, ok := f.appointments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *ap
	return &cp, nil
}

func (f *fakeRepo) UpdateAppointment(ctx context.Context, ap *models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	if f.down {
		return f.unavailable()
	}
	if _, ok := f.appointments[ap.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *ap
	cp.UpdatedAt = time.Now()
	f.appointments[ap.ID] = &cp
	return nil
}

func (f *fakeRepo) ListAppointmentsForDay(ctx context.Context, locationID uint, date string) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return nil, f.unavailable()
	}
	var out []models.Appointment
	for _, ap := range f.appointments {
		if ap.Date != date {
			continue
		}
		if locationID != 0 && ap.LocationID != locationID {
			continue
		}
		out = append(out, *ap)
	}
	return out, nil
}

func (f *fakeRepo) ListAppointmentsForMonth(ctx context.Context, locationID uint, year int, month time.Month) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return nil, f.unavailable()
	}
	var out []models.Appointment
	for _, ap := range f.appointments {
		d, err := time.Parse(domain.DateLayout, ap.Date)
		if err != nil {
			continue
		}
		if d.Year() != year || d.Month() != month {
			continue
		}
		if locationID != 0 && ap.LocationID != locationID {
			continue
		}
		out = append(out, *ap)
	}
	return out, nil
}

func (f *fakeRepo) FindActiveReferralCode(ctx context.Context, code string) (*models.ReferralCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return nil, f.unavailable()
	}
	for i := range f.referrals {
		if f.referrals[i].Code == code && f.referrals[i].Active {
			r := f.referrals[i]
			return &r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// get regresa la cita guardada (no una copia) para inspección directa.
func (f *fakeRepo) get(id uint) *models.Appointment {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.appointments[id]
}
