package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domain "github.com/SonrisaDental01/clinic-scheduler/internal/domain/appointment"
	"github.com/SonrisaDental01/clinic-scheduler/internal/httperr"
	"github.com/SonrisaDental01/clinic-scheduler/internal/models"
)

const (
	defaultTimeout    = 3 * time.Second
	defaultMaxRetries = 2
	retryBackoff      = 100 * time.Millisecond
)

type AppointmentGormRepository struct {
	db *gorm.DB

	// Tope por intento y reintentos ante fallas transitorias.
	timeout    time.Duration
	maxRetries int
	backoff    time.Duration
}

func NewAppointmentGormRepository(
	db *gorm.DB,
	timeout time.Duration,
	maxRetries int,
) *AppointmentGormRepository {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if maxRetries < 0 {
		maxRetries = defaultMaxRetries
	}
	return &AppointmentGormRepository{
		db:         db,
		timeout:    timeout,
		maxRetries: maxRetries,
		backoff:    retryBackoff,
	}
}

const uniqueViolation = "23505"

// isUniqueViolation detecta el choque contra el índice parcial de
// (location_id, date, time) en postgres.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// unavailable envuelve fallas de infraestructura como transitorias:
// quien llama puede reintentar, nunca interpretarlas como "ocupado".
func unavailable(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", httperr.BusinessError{Code: httperr.CodeRepoUnavailable}, err)
}

// withRetry corre la operación con su propio deadline por intento y la
// reintenta unas pocas veces si la falla fue transitoria. Resultados de
// negocio (horario ocupado, fila inexistente) salen de inmediato.
// Reintentar la inserción es seguro: el índice único absorbe duplicados.
func (r *AppointmentGormRepository) withRetry(
	ctx context.Context,
	op func(ctx context.Context) error,
) error {

	var err error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return unavailable(ctx.Err())
			case <-time.After(time.Duration(attempt) * r.backoff):
			}
		}

		attemptCtx, cancel := context.WithTimeout(ctx, r.timeout)
		err = op(attemptCtx)
		cancel()

		if err == nil || !httperr.IsBusiness(err, httperr.CodeRepoUnavailable) {
			return err
		}
	}
	return err
}

// --------------------------------------------------
// Reference data
// --------------------------------------------------

func (r *AppointmentGormRepository) ListLocations(
	ctx context.Context,
) ([]models.Location, error) {

	var locations []models.Location
	err := r.withRetry(ctx, func(ctx context.Context) error {
		if err := r.db.WithContext(ctx).
			Order("id ASC").
			Find(&locations).Error; err != nil {
			return unavailable(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return locations, nil
}

func (r *AppointmentGormRepository) GetLocationBySlug(
	ctx context.Context,
	slug string,
) (*models.Location, error) {

	var location models.Location
	err := r.withRetry(ctx, func(ctx context.Context) error {
		if err := r.db.WithContext(ctx).
			Where("slug = ?", slug).
			First(&location).Error; err != nil {

			if errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			return unavailable(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &location, nil
}

func (r *AppointmentGormRepository) ListServices(
	ctx context.Context,
) ([]models.Service, error) {

	var services []models.Service
	err := r.withRetry(ctx, func(ctx context.Context) error {
		if err := r.db.WithContext(ctx).
			Where("active = true").
			Order("id ASC").
			Find(&services).Error; err != nil {
			return unavailable(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return services, nil
}

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	id uint,
) (*models.Service, error) {

	var service models.Service
	err := r.withRetry(ctx, func(ctx context.Context) error {
		if err := r.db.WithContext(ctx).
			Where("id = ? AND active = true", id).
			First(&service).Error; err != nil {

			if errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			return unavailable(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &service, nil
}

// --------------------------------------------------
// Appointment (create / conflict)
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {

	return r.withRetry(ctx, func(ctx context.Context) error {
		if err := r.db.WithContext(ctx).Create(ap).Error; err != nil {
			if isUniqueViolation(err) {
				return httperr.ErrBusiness(httperr.CodeSlotTaken)
			}
			return unavailable(err)
		}
		return nil
	})
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *AppointmentGormRepository) ListBookedTimes(
	ctx context.Context,
	locationID uint,
	date string,
) ([]string, error) {

	var times []string
	err := r.withRetry(ctx, func(ctx context.Context) error {
		if err := r.db.WithContext(ctx).
			Model(&models.Appointment{}).
			Where(
				"location_id = ? AND date = ? AND status <> ?",
				locationID, date, string(domain.StatusCancelled),
			).
			Order("time ASC").
			Pluck("time", &times).Error; err != nil {
			return unavailable(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return times, nil
}

// --------------------------------------------------
// Token redemption
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointmentByToken(
	ctx context.Context,
	token string,
) (*models.Appointment, error) {

	var ap models.Appointment
	err := r.withRetry(ctx, func(ctx context.Context) error {
		if err := r.db.WithContext(ctx).
			Where("confirmation_token = ?", token).
			First(&ap).Error; err != nil {

			if errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			return unavailable(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) GetAppointmentByID(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	err := r.withRetry(ctx, func(ctx context.Context) error {
		if err := r.db.WithContext(ctx).
			First(&ap, id).Error; err != nil {

			if errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			return unavailable(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {

	return r.withRetry(ctx, func(ctx context.Context) error {
		if err := r.db.WithContext(ctx).Save(ap).Error; err != nil {
			return unavailable(err)
		}
		return nil
	})
}

// --------------------------------------------------
// Staff portal
// --------------------------------------------------

func (r *AppointmentGormRepository) ListAppointmentsForDay(
	ctx context.Context,
	locationID uint,
	date string,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	err := r.withRetry(ctx, func(ctx context.Context) error {
		q := r.db.WithContext(ctx).Where("date = ?", date)
		if locationID != 0 {
			q = q.Where("location_id = ?", locationID)
		}

		if err := q.Order("time ASC").Find(&aps).Error; err != nil {
			return unavailable(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return aps, nil
}

func (r *AppointmentGormRepository) ListAppointmentsForMonth(
	ctx context.Context,
	locationID uint,
	year int,
	month time.Month,
) ([]models.Appointment, error) {

	prefix := fmt.Sprintf("%04d-%02d-%%", year, int(month))

	var aps []models.Appointment
	err := r.withRetry(ctx, func(ctx context.Context) error {
		q := r.db.WithContext(ctx).Where("date LIKE ?", prefix)
		if locationID != 0 {
			q = q.Where("location_id = ?", locationID)
		}

		if err := q.Order("date ASC, time ASC").Find(&aps).Error; err != nil {
			return unavailable(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return aps, nil
}

// --------------------------------------------------
// Referral
// --------------------------------------------------

func (r *AppointmentGormRepository) FindActiveReferralCode(
	ctx context.Context,
	code string,
) (*models.ReferralCode, error) {

	var rc models.ReferralCode
	err := r.withRetry(ctx, func(ctx context.Context) error {
		if err := r.db.WithContext(ctx).
			Where("code = ? AND active = true", code).
			First(&rc).Error; err != nil {

			if errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			return unavailable(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rc, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
