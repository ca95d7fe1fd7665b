package booking

import (
	"context"
	"log"

	"github.com/frailin-studio/booking-api/internal/audit"
	domain "github.com/frailin-studio/booking-api/internal/domain/schedule"
	"github.com/frailin-studio/booking-api/internal/httperr"
	"github.com/frailin-studio/booking-api/internal/metrics"
	"github.com/frailin-studio/booking-api/internal/models"
	"github.com/frailin-studio/booking-api/internal/notify"
	"github.com/frailin-studio/booking-api/internal/timezone"
)

// ======================================================
// WAITLIST PROMOTER
// ======================================================

type PromoteFromWaitlist struct {
	repo     domain.Repository
	create   *CreateAppointment
	notifier *notify.Dispatcher
	audit    *audit.Dispatcher
	shopName string
}

func NewPromoteFromWaitlist(
	repo domain.Repository,
	create *CreateAppointment,
	notifier *notify.Dispatcher,
	auditDispatcher *audit.Dispatcher,
	shopName string,
) *PromoteFromWaitlist {
	return &PromoteFromWaitlist{
		repo:     repo,
		create:   create,
		notifier: notifier,
		audit:    auditDispatcher,
		shopName: shopName,
	}
}

// Execute agenda al mejor candidato de la lista de espera en el cupo
// liberado: mismo servicio primero, el más antiguo como desempate.
// Devuelve (nil, nil) cuando no hay nadie esperando o cuando otro ya
// tomó el cupo: la transacción de reserva re-valida contra el estado
// actual, así dos cancelaciones que compiten no promueven doble.
func (uc *PromoteFromWaitlist) Execute(
	ctx context.Context,
	freed FreedSlot,
) (*models.Appointment, error) {

	entries, err := uc.repo.ListWaitingEntries(ctx, freed.Date)
	if err != nil {
		return nil, err
	}

	entry := domain.PickBestEntry(entries, freed.ServiceID)
	if entry == nil {
		return nil, nil
	}

	_, hour, minute := timezone.WallClock(freed.Start)
	timeStr := domain.FormatHM(hour*60 + minute)

	ap, err := uc.create.Execute(ctx, CreateAppointmentInput{
		BarberID:    freed.BarberID,
		ServiceID:   entry.ServiceID,
		ClientName:  entry.Name,
		ClientPhone: entry.Phone,
		Date:        freed.Date,
		Time:        timeStr,
		BookedBy:    models.BookedByBarber,

		suppressConfirmation: true,
	})
	if err != nil {
		// Cupo ya tomado: la entrada sigue WAITING para el próximo.
		if be, ok := httperr.AsBusiness(err); ok {
			log.Printf("waitlist promotion skipped (%s) for %s", be.Code, freed.Date)
			return nil, nil
		}
		return nil, err
	}

	entry.Status = string(domain.WaitlistBooked)
	entry.Notified = true
	if err := uc.repo.UpdateWaitlistEntry(ctx, entry); err != nil {
		return nil, err
	}

	metrics.WaitlistPromotionsTotal.Inc()

	uc.audit.Dispatch(audit.Event{
		Action:   "waitlist_promoted",
		Entity:   "waitlist_entry",
		EntityID: &entry.ID,
		Metadata: map[string]any{
			"appointment_id": ap.ID,
			"date":           freed.Date,
		},
	})

	service, err := uc.repo.GetService(ctx, entry.ServiceID)
	if err == nil {
		uc.notifier.Dispatch(entry.Phone, notify.PromotionMessage(
			entry.Name, service.Name, freed.Date, timeStr, uc.shopName,
		))
	}

	return ap, nil
}
