package schedule

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/frailin-studio/booking-api/internal/models"
)

// Ventana de atención de un día, en minutos desde medianoche.
type DayWindow struct {
	Open  int
	Close int
}

// ParseHM convierte "HH:MM" a minutos desde medianoche.
func ParseHM(hm string) (int, error) {
	parts := strings.SplitN(hm, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q", hm)
	}

	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", hm)
	}

	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", hm)
	}

	return h*60 + m, nil
}

func FormatHM(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// DaysOffSet interpreta el CSV de días libres ("0,1" → {0,1}).
func DaysOffSet(csv string) map[int]bool {
	set := make(map[int]bool)
	for _, part := range strings.Split(csv, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if d, err := strconv.Atoi(part); err == nil && d >= 0 && d <= 6 {
			set[d] = true
		}
	}
	return set
}

type EffectiveDay struct {
	Window DayWindow
	DayOff bool
}

// EffectiveDayFor resuelve la ventana vigente de un día de la semana:
// override si existe, si no el horario default. Un día libre sin
// override queda marcado DayOff.
func EffectiveDayFor(
	sched *models.BarberSchedule,
	overrides []models.ScheduleOverride,
	weekday int,
) (EffectiveDay, error) {

	for _, ov := range overrides {
		if ov.Weekday != weekday {
			continue
		}

		open, err := ParseHM(ov.OpenTime)
		if err != nil {
			return EffectiveDay{}, err
		}
		close, err := ParseHM(ov.CloseTime)
		if err != nil {
			return EffectiveDay{}, err
		}

		return EffectiveDay{Window: DayWindow{Open: open, Close: close}}, nil
	}

	if DaysOffSet(sched.DaysOff)[weekday] {
		return EffectiveDay{DayOff: true}, nil
	}

	open, err := ParseHM(sched.OpenTime)
	if err != nil {
		return EffectiveDay{}, err
	}
	close, err := ParseHM(sched.CloseTime)
	if err != nil {
		return EffectiveDay{}, err
	}

	return EffectiveDay{Window: DayWindow{Open: open, Close: close}}, nil
}
