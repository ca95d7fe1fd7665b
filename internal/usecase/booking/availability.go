package booking

import (
	"context"
	"time"

	"github.com/frailin-studio/booking-api/internal/cache"
	domain "github.com/frailin-studio/booking-api/internal/domain/schedule"
	"github.com/frailin-studio/booking-api/internal/httperr"
	"github.com/frailin-studio/booking-api/internal/timezone"
)

// ======================================================
// GET AVAILABILITY
// ======================================================

type AvailabilityInput struct {
	BarberID  uint
	ServiceID uint
	Date      string // "YYYY-MM-DD" en fecha de negocio
}

type GetAvailability struct {
	repo  domain.Repository
	cache *cache.AvailabilityCache
}

func NewGetAvailability(
	repo domain.Repository,
	slotCache *cache.AvailabilityCache,
) *GetAvailability {
	return &GetAvailability{
		repo:  repo,
		cache: slotCache,
	}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in AvailabilityInput,
) (*domain.Availability, error) {

	// La disponibilidad de hoy cambia cada minuto por la marca de
	// horarios pasados: no se cachea.
	isToday := timezone.DateStr(timezone.Now()) == in.Date

	if !isToday {
		if av, ok := uc.cache.Get(in.BarberID, in.Date, in.ServiceID); ok {
			return av, nil
		}
	}

	service, err := uc.repo.GetService(ctx, in.ServiceID)
	if err != nil {
		return nil, httperr.ErrBusiness("service_not_found")
	}

	sched, err := uc.repo.GetSchedule(ctx, in.BarberID)
	if err != nil {
		return nil, httperr.ErrBusiness("schedule_not_found")
	}

	day, err := timezone.ParseDate(in.Date)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	weekday, _, _ := timezone.WallClock(day)

	overrides, err := uc.repo.ListOverrides(ctx, in.BarberID)
	if err != nil {
		return nil, err
	}

	eff, err := domain.EffectiveDayFor(sched, overrides, weekday)
	if err != nil {
		return nil, err
	}

	// "Cerrado" se reporta explícito, nunca como lista vacía a secas:
	// el cliente distingue día libre de día lleno.
	if eff.DayOff {
		av := &domain.Availability{Slots: []domain.Slot{}, DayOff: true}
		if !isToday {
			uc.cache.Store(in.BarberID, in.Date, in.ServiceID, av)
		}
		return av, nil
	}

	blocks, err := uc.repo.ListBlockedIntervals(ctx, in.BarberID, in.Date)
	if err != nil {
		return nil, err
	}

	if domain.HasAllDayBlock(blocks) {
		av := &domain.Availability{Slots: []domain.Slot{}, Blocked: true}
		if !isToday {
			uc.cache.Store(in.BarberID, in.Date, in.ServiceID, av)
		}
		return av, nil
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

	var now time.Time
	if isToday {
		now = timezone.Now()
	}

	slots := domain.BuildSlots(domain.SlotsInput{
		Day:            day,
		Window:         eff.Window,
		GranularityMin: sched.SlotGranularityMin,
		DurationMin:    service.DurationMin,
		Appointments:   appointments,
		Blocks:         blocks,
		Now:            now,
	})

	if slots == nil {
		slots = []domain.Slot{}
	}

	av := &domain.Availability{Slots: slots}
	if !isToday {
		uc.cache.Store(in.BarberID, in.Date, in.ServiceID, av)
	}
	return av, nil
}
