package schedule

import (
	"time"

	"github.com/frailin-studio/booking-api/internal/httperr"
	"github.com/frailin-studio/booking-api/internal/models"
	"github.com/frailin-studio/booking-api/internal/timezone"
)

type ConflictInput struct {
	Schedule  *models.BarberSchedule
	Overrides []models.ScheduleOverride

	// Citas activas del barbero en el día de negocio propuesto.
	Appointments []models.Appointment
	// Bloqueos del día propuesto.
	Blocks []models.BlockedInterval

	Start       time.Time
	DurationMin int
}

// Validate aplica las reglas sobre un snapshot de lectura y devuelve la
// primera violación, en orden: día libre, horario de atención,
// solapamiento con cita activa, intervalo bloqueado. Sin efectos.
func Validate(in ConflictInput) error {
	weekday, hour, minute := timezone.WallClock(in.Start)

	eff, err := EffectiveDayFor(in.Schedule, in.Overrides, weekday)
	if err != nil {
		return err
	}

	if eff.DayOff {
		return httperr.ErrBusinessMsg(
			httperr.CodeClosedDay,
			"Ese día no hay atención.",
		)
	}

	startMin := hour*60 + minute
	if startMin < eff.Window.Open || startMin+in.DurationMin > eff.Window.Close {
		return httperr.ErrBusinessMsg(
			httperr.CodeOutsideHours,
			"Horario de atención: "+FormatHM(eff.Window.Open)+" a "+FormatHM(eff.Window.Close)+".",
		)
	}

	end := in.Start.Add(time.Duration(in.DurationMin) * time.Minute)
	for _, ap := range in.Appointments {
		if in.Start.Before(ap.EndTime) && end.After(ap.StartTime) {
			return httperr.ErrBusinessMsg(
				httperr.CodeSlotTaken,
				"Ese horario ya está ocupado.",
			)
		}
	}

	if startInsideBlock(startMin, in.Blocks) {
		return httperr.ErrBusinessMsg(
			httperr.CodeSlotBlocked,
			"Ese horario está bloqueado por el barbero.",
		)
	}

	return nil
}
