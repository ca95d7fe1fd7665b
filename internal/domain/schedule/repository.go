package schedule

import (
	"context"
	"time"

	"github.com/frailin-studio/booking-api/internal/models"
)

type Repository interface {
	// -------- Barber / Service --------
	GetBarber(
		ctx context.Context,
		barberID uint,
	) (*models.User, error)

	GetService(
		ctx context.Context,
		serviceID uint,
	) (*models.Service, error)

	// -------- Schedule config --------
	GetSchedule(
		ctx context.Context,
		barberID uint,
	) (*models.BarberSchedule, error)

	ListOverrides(
		ctx context.Context,
		barberID uint,
	) ([]models.ScheduleOverride, error)

	// -------- Client --------
	GetOrCreateClient(
		ctx context.Context,
		name string,
		phone string,
		email string,
	) (*models.Client, error)

	// -------- Appointment --------
	ListActiveAppointments(
		ctx context.Context,
		barberID uint,
		dayStart time.Time,
		dayEnd time.Time,
	) ([]models.Appointment, error)

	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// GetAppointmentForBarber solo encuentra citas del barbero dado:
	// las mutaciones del panel nunca tocan la agenda de otro barbero.
	GetAppointmentForBarber(
		ctx context.Context,
		appointmentID uint,
		barberID uint,
	) (*models.Appointment, error)

	GetAppointmentByToken(
		ctx context.Context,
		token string,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Blocked intervals --------
	ListBlockedIntervals(
		ctx context.Context,
		barberID uint,
		date string,
	) ([]models.BlockedInterval, error)

	// -------- Waitlist --------
	ListWaitingEntries(
		ctx context.Context,
		date string,
	) ([]models.WaitlistEntry, error)

	UpdateWaitlistEntry(
		ctx context.Context,
		entry *models.WaitlistEntry,
	) error
}
