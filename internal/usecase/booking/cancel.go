package booking

import (
	"context"

	"github.com/frailin-studio/booking-api/internal/audit"
	"github.com/frailin-studio/booking-api/internal/cache"
	domain "github.com/frailin-studio/booking-api/internal/domain/schedule"
	"github.com/frailin-studio/booking-api/internal/httperr"
	"github.com/frailin-studio/booking-api/internal/models"
	"github.com/frailin-studio/booking-api/internal/notify"
	"github.com/frailin-studio/booking-api/internal/timezone"
)

// ======================================================
// CANCEL + CASCADE
// ======================================================

type CancelAppointment struct {
	repo     domain.Repository
	audit    *audit.Dispatcher
	notifier *notify.Dispatcher
	cache    *cache.AvailabilityCache
	policy   WaitlistPolicy
}

func NewCancelAppointment(
	repo domain.Repository,
	auditDispatcher *audit.Dispatcher,
	notifier *notify.Dispatcher,
	slotCache *cache.AvailabilityCache,
	policy WaitlistPolicy,
) *CancelAppointment {
	return &CancelAppointment{
		repo:     repo,
		audit:    auditDispatcher,
		notifier: notifier,
		cache:    slotCache,
		policy:   policy,
	}
}

// ExecuteByID cancela desde el panel. La búsqueda va acotada al
// barbero actor: una cita ajena se responde como inexistente.
func (uc *CancelAppointment) ExecuteByID(
	ctx context.Context,
	actorID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointmentForBarber(ctx, appointmentID, actorID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	return uc.cancel(ctx, ap, &actorID)
}

// ExecuteByToken cancela desde el enlace público del cliente.
func (uc *CancelAppointment) ExecuteByToken(
	ctx context.Context,
	token string,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointmentByToken(ctx, token)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	return uc.cancel(ctx, ap, nil)
}

func (uc *CancelAppointment) cancel(
	ctx context.Context,
	ap *models.Appointment,
	actorID *uint,
) (*models.Appointment, error) {

	if err := domain.Cancel(ap, timezone.Now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	dateStr := timezone.DateStr(ap.StartTime)
	uc.cache.InvalidateDay(ap.BarberID, dateStr)

	uc.audit.Dispatch(audit.Event{
		UserID:   actorID,
		Action:   "appointment_cancelled",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	// Aviso al barbero de que se le movió la agenda
	_, hour, minute := timezone.WallClock(ap.StartTime)
	timeStr := domain.FormatHM(hour*60 + minute)

	if barber, err := uc.repo.GetBarber(ctx, ap.BarberID); err == nil {
		uc.notifier.Dispatch(barber.Phone, notify.CancellationMessage(
			ap.Client.Name, ap.Service.Name, dateStr, timeStr,
		))
	}

	// Cascada: el cupo liberado va a la lista de espera según la
	// política configurada del despliegue.
	uc.policy.OnSlotFreed(ctx, FreedSlot{
		BarberID:  ap.BarberID,
		ServiceID: ap.ServiceID,
		Start:     ap.StartTime,
		Date:      dateStr,
	})

	return ap, nil
}
