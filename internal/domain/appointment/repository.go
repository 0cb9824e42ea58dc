package appointment

import (
	"context"
	"time"

	"github.com/SonrisaDental01/clinic-scheduler/internal/models"
)

type Repository interface {
	// -------- Reference data --------
	ListLocations(
		ctx context.Context,
	) ([]models.Location, error)

	GetLocationBySlug(
		ctx context.Context,
		slug string,
	) (*models.Location, error)

	ListServices(
		ctx context.Context,
	) ([]models.Service, error)

	GetService(
		ctx context.Context,
		id uint,
	) (*models.Service, error)

	// -------- Appointment (create / conflict) --------

	// CreateAppointment inserta la cita. El índice único parcial sobre
	// (location_id, date, time) con status <> 'cancelled' es el punto de
	// verdad: dos envíos simultáneos al mismo horario terminan en un
	// ganador y un CodeSlotTaken, sin lógica leer-luego-escribir.
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Availability --------
	ListBookedTimes(
		ctx context.Context,
		locationID uint,
		date string,
	) ([]string, error)

	// -------- Token redemption --------
	GetAppointmentByToken(
		ctx context.Context,
		token string,
	) (*models.Appointment, error)

	GetAppointmentByID(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Staff portal --------
	ListAppointmentsForDay(
		ctx context.Context,
		locationID uint,
		date string,
	) ([]models.Appointment, error)

	ListAppointmentsForMonth(
		ctx context.Context,
		locationID uint,
		year int,
		month time.Month,
	) ([]models.Appointment, error)

	// -------- Referral --------
	FindActiveReferralCode(
		ctx context.Context,
		code string,
	) (*models.ReferralCode, error)
}
