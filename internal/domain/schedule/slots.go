package schedule

import (
	"time"

	"github.com/frailin-studio/booking-api/internal/models"
)

const DefaultGranularityMin = 15

type Slot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// Availability es el resultado completo de la consulta de horarios.
// DayOff y Blocked distinguen "cerrado" de "todo ocupado".
type Availability struct {
	Slots   []Slot `json:"slots"`
	DayOff  bool   `json:"day_off"`
	Blocked bool   `json:"blocked"`
}

type SlotsInput struct {
	// Day es medianoche del día consultado en la zona del negocio.
	Day            time.Time
	Window         DayWindow
	GranularityMin int
	DurationMin    int

	// Citas activas (PENDING/CONFIRMED) del barbero ese día.
	Appointments []models.Appointment
	// Bloqueos por rango del día (los all-day se resuelven antes).
	Blocks []models.BlockedInterval

	// Now marca horarios pasados cuando el día consultado es hoy.
	// Cero significa que el día no es hoy.
	Now time.Time
}

// HasAllDayBlock reporta si algún bloqueo cubre el día entero.
func HasAllDayBlock(blocks []models.BlockedInterval) bool {
	for _, b := range blocks {
		if b.AllDay {
			return true
		}
	}
	return false
}

// BuildSlots enumera candidatos de open a close-duración inclusive, con
// paso fijo de granularidad. El paso nunca escala con la duración del
// servicio: la regla de solapamiento es la que impide doble agenda.
// Los horarios pasados de hoy se marcan no disponibles, no se omiten.
func BuildSlots(in SlotsInput) []Slot {
	granularity := in.GranularityMin
	if granularity <= 0 {
		granularity = DefaultGranularityMin
	}

	var nowMinute time.Time
	if !in.Now.IsZero() {
		nowMinute = in.Now.Truncate(time.Minute)
	}

	var slots []Slot
	for m := in.Window.Open; m+in.DurationMin <= in.Window.Close; m += granularity {
		start := in.Day.Add(time.Duration(m) * time.Minute)
		end := start.Add(time.Duration(in.DurationMin) * time.Minute)

		available := true

		if !nowMinute.IsZero() && start.Before(nowMinute) {
			available = false
		}

		if available {
			for _, ap := range in.Appointments {
				if start.Before(ap.EndTime) && end.After(ap.StartTime) {
					available = false
					break
				}
			}
		}

		if available && startInsideBlock(m, in.Blocks) {
			available = false
		}

		slots = append(slots, Slot{
			Time:      FormatHM(m),
			Available: available,
		})
	}

	return slots
}

// startInsideBlock aplica la prueba puntual sobre el inicio del
// candidato: start >= blockStart && start < blockEnd.
func startInsideBlock(startMin int, blocks []models.BlockedInterval) bool {
	for _, b := range blocks {
		if b.AllDay {
			return true
		}

		bs, err := ParseHM(b.StartTime)
		if err != nil {
			continue
		}
		be, err := ParseHM(b.EndTime)
		if err != nil {
			continue
		}

		if startMin >= bs && startMin < be {
			return true
		}
	}
	return false
}
