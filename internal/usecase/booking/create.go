package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/frailin-studio/booking-api/internal/audit"
	"github.com/frailin-studio/booking-api/internal/cache"
	domain "github.com/frailin-studio/booking-api/internal/domain/schedule"
	"github.com/frailin-studio/booking-api/internal/httperr"
	"github.com/frailin-studio/booking-api/internal/metrics"
	"github.com/frailin-studio/booking-api/internal/models"
	"github.com/frailin-studio/booking-api/internal/notify"
	"github.com/frailin-studio/booking-api/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	BarberID  uint
	ServiceID uint

	ClientName  string
	ClientPhone string
	ClientEmail string

	Date string // "YYYY-MM-DD"
	Time string // "HH:MM"

	Notes    string
	BookedBy string // CLIENT | BARBER

	// La promoción desde lista de espera manda su propio mensaje;
	// evita duplicar la confirmación estándar.
	suppressConfirmation bool
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo     domain.Repository
	audit    *audit.Dispatcher
	notifier *notify.Dispatcher
	cache    *cache.AvailabilityCache
	locks    *barberLocks
	shopName string
}

func NewCreateAppointment(
	repo domain.Repository,
	auditDispatcher *audit.Dispatcher,
	notifier *notify.Dispatcher,
	slotCache *cache.AvailabilityCache,
	shopName string,
) *CreateAppointment {
	return &CreateAppointment{
		repo:     repo,
		audit:    auditDispatcher,
		notifier: notifier,
		cache:    slotCache,
		locks:    newBarberLocks(),
		shopName: shopName,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	service, err := uc.repo.GetService(ctx, in.ServiceID)
	if err != nil {
		return nil, httperr.ErrBusiness("service_not_found")
	}

	barber, err := uc.repo.GetBarber(ctx, in.BarberID)
	if err != nil {
		return nil, httperr.ErrBusiness("barber_not_found")
	}

	sched, err := uc.repo.GetSchedule(ctx, in.BarberID)
	if err != nil {
		return nil, httperr.ErrBusiness("schedule_not_found")
	}

	start, err := timezone.At(in.Date, in.Time)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}
	end := start.Add(time.Duration(service.DurationMin) * time.Minute)

	// Idempotente por teléfono: nunca duplica un cliente. Puede ir
	// antes de la sección crítica porque no toca la agenda.
	client, err := uc.repo.GetOrCreateClient(
		ctx,
		in.ClientName,
		in.ClientPhone,
		in.ClientEmail,
	)
	if err != nil {
		return nil, err
	}

	bookedBy := in.BookedBy
	if bookedBy == "" {
		bookedBy = models.BookedByClient
	}

	// Sección crítica por barbero: el snapshot que valida el
	// Conflict Validator es el mismo contra el que se inserta.
	// El constraint de exclusión en Postgres cubre el caso
	// multi-proceso (ver internal/db).
	lock := uc.locks.forBarber(in.BarberID)
	lock.Lock()
	defer lock.Unlock()

	day, err := timezone.ParseDate(timezone.DateStr(start))
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	overrides, err := uc.repo.ListOverrides(ctx, in.BarberID)
	if err != nil {
		return nil, err
	}

	appointments, err := uc.repo.ListActiveAppointments(
		ctx,
		in.BarberID,
		day,
		day.Add(24*time.Hour),
	)
	if err != nil {
		return nil, err
	}

	blocks, err := uc.repo.ListBlockedIntervals(
		ctx,
		in.BarberID,
		timezone.DateStr(start),
	)
	if err != nil {
		return nil, err
	}

	if err := domain.Validate(domain.ConflictInput{
		Schedule:     sched,
		Overrides:    overrides,
		Appointments: appointments,
		Blocks:       blocks,
		Start:        start,
		DurationMin:  service.DurationMin,
	}); err != nil {
		uc.recordConflict(err, in, start)
		return nil, err
	}

	ap := &models.Appointment{
		BarberID:  in.BarberID,
		ClientID:  client.ID,
		ServiceID: service.ID,
		StartTime: start,
		EndTime:   end,
		Status:    string(domain.StatusConfirmed),
		BookedBy:  bookedBy,
		Token:     uuid.NewString(),
		Notes:     in.Notes,
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		if httperr.IsExclusionConflict(err) {
			conflictErr := httperr.ErrBusinessMsg(
				httperr.CodeSlotTaken,
				"Ese horario ya está ocupado.",
			)
			uc.recordConflict(conflictErr, in, start)
			return nil, conflictErr
		}
		return nil, err
	}

	uc.cache.InvalidateDay(in.BarberID, timezone.DateStr(start))
	metrics.BookingsTotal.Inc()

	uc.audit.Dispatch(audit.Event{
		UserID:   nil,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{
			"barber_id": in.BarberID,
			"booked_by": bookedBy,
			"start":     start,
		},
	})

	// Notificaciones fire-and-forget: la cita ya es durable, un fallo
	// de entrega no la revierte ni afecta la respuesta.
	dateStr := timezone.DateStr(start)
	if !in.suppressConfirmation {
		uc.notifier.Dispatch(client.Phone, notify.ConfirmationMessage(
			client.Name, service.Name, dateStr, in.Time, uc.shopName,
		))
	}
	uc.notifier.Dispatch(barber.Phone, notify.NewBookingMessage(
		client.Name, service.Name, dateStr, in.Time,
	))

	return ap, nil
}

func (uc *CreateAppointment) recordConflict(
	err error,
	in CreateAppointmentInput,
	start time.Time,
) {
	be, ok := httperr.AsBusiness(err)
	if !ok || !httperr.IsConflictCode(be.Code) {
		return
	}

	metrics.BookingConflictsTotal.Inc()
	uc.audit.Dispatch(audit.Event{
		Action: "appointment_conflict",
		Entity: "appointment",
		Metadata: map[string]any{
			"barber_id": in.BarberID,
			"start":     start,
			"code":      be.Code,
		},
	})
}
