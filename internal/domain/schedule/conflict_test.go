package schedule

import (
	"strings"
	"testing"
	"time"

	"github.com/frailin-studio/booking-api/internal/httperr"
	"github.com/frailin-studio/booking-api/internal/models"
	"github.com/frailin-studio/booking-api/internal/timezone"
)

func defaultSchedule() *models.BarberSchedule {
	return &models.BarberSchedule{
		BarberID:           1,
		OpenTime:           "09:00",
		CloseTime:          "19:00",
		SlotGranularityMin: 15,
		DaysOff:            "0", // domingo
	}
}

func mustAt(t *testing.T, date, hm string) time.Time {
	t.Helper()
	instant, err := timezone.At(date, hm)
	if err != nil {
		t.Fatalf("At(%s %s): %v", date, hm, err)
	}
	return instant
}

func TestValidateOK(t *testing.T) {
	err := Validate(ConflictInput{
		Schedule:    defaultSchedule(),
		Start:       mustAt(t, "2026-02-16", "10:00"), // lunes
		DurationMin: 30,
	})
	if err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
}

func TestValidateClosedDay(t *testing.T) {
	err := Validate(ConflictInput{
		Schedule:    defaultSchedule(),
		Start:       mustAt(t, "2026-02-15", "10:00"), // domingo
		DurationMin: 30,
	})
	if !httperr.IsBusiness(err, httperr.CodeClosedDay) {
		t.Fatalf("expected closed_day, got %v", err)
	}
}

func TestValidateOverrideWinsOverDayOff(t *testing.T) {
	err := Validate(ConflictInput{
		Schedule: defaultSchedule(),
		Overrides: []models.ScheduleOverride{
			{BarberID: 1, Weekday: 0, OpenTime: "10:00", CloseTime: "14:00"},
		},
		Start:       mustAt(t, "2026-02-15", "11:00"), // domingo con override
		DurationMin: 30,
	})
	if err != nil {
		t.Fatalf("override must open the day, got %v", err)
	}
}

func TestValidateOutsideHours(t *testing.T) {
	cases := []struct {
		name string
		hm   string
		dur  int
	}{
		{"before open", "08:30", 30},
		{"ends after close", "18:45", 30},
		{"exactly at close", "19:00", 30},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(ConflictInput{
				Schedule:    defaultSchedule(),
				Start:       mustAt(t, "2026-02-16", tc.hm),
				DurationMin: tc.dur,
			})
			if !httperr.IsBusiness(err, httperr.CodeOutsideHours) {
				t.Fatalf("expected outside_hours, got %v", err)
			}

			// El mensaje debe incluir la ventana vigente del día.
			be, _ := httperr.AsBusiness(err)
			if !strings.Contains(be.Message, "09:00") || !strings.Contains(be.Message, "19:00") {
				t.Fatalf("message must carry effective hours, got %q", be.Message)
			}
		})
	}
}

func TestValidateBoundaryCloseMinusDuration(t *testing.T) {
	// 18:30 + 30 = 19:00 exacto: válido. Un minuto después ya no.
	err := Validate(ConflictInput{
		Schedule:    defaultSchedule(),
		Start:       mustAt(t, "2026-02-16", "18:30"),
		DurationMin: 30,
	})
	if err != nil {
		t.Fatalf("close-duration boundary must be valid, got %v", err)
	}

	err = Validate(ConflictInput{
		Schedule:    defaultSchedule(),
		Start:       mustAt(t, "2026-02-16", "18:31"),
		DurationMin: 30,
	})
	if !httperr.IsBusiness(err, httperr.CodeOutsideHours) {
		t.Fatalf("expected outside_hours one minute later, got %v", err)
	}
}

func TestValidateSlotTaken(t *testing.T) {
	// Cita confirmada 10:00–10:30; proponer 10:15 de 30 min → slot_taken.
	existing := models.Appointment{
		BarberID:  1,
		Status:    string(StatusConfirmed),
		StartTime: mustAt(t, "2026-02-16", "10:00"),
		EndTime:   mustAt(t, "2026-02-16", "10:30"),
	}

	err := Validate(ConflictInput{
		Schedule:     defaultSchedule(),
		Appointments: []models.Appointment{existing},
		Start:        mustAt(t, "2026-02-16", "10:15"),
		DurationMin:  30,
	})
	if !httperr.IsBusiness(err, httperr.CodeSlotTaken) {
		t.Fatalf("expected slot_taken, got %v", err)
	}

	// Pegado por detrás (10:30) no choca.
	err = Validate(ConflictInput{
		Schedule:     defaultSchedule(),
		Appointments: []models.Appointment{existing},
		Start:        mustAt(t, "2026-02-16", "10:30"),
		DurationMin:  30,
	})
	if err != nil {
		t.Fatalf("back-to-back booking must be valid, got %v", err)
	}
}

func TestValidateSlotBlocked(t *testing.T) {
	err := Validate(ConflictInput{
		Schedule: defaultSchedule(),
		Blocks: []models.BlockedInterval{
			{BarberID: 1, Date: "2026-02-16", StartTime: "12:00", EndTime: "13:00"},
		},
		Start:       mustAt(t, "2026-02-16", "12:30"),
		DurationMin: 30,
	})
	if !httperr.IsBusiness(err, httperr.CodeSlotBlocked) {
		t.Fatalf("expected slot_blocked, got %v", err)
	}
}

func TestValidateOrderDayOffBeforeBlocked(t *testing.T) {
	// Con día libre y bloqueo simultáneos gana closed_day: es la
	// primera regla del orden.
	err := Validate(ConflictInput{
		Schedule: defaultSchedule(),
		Blocks: []models.BlockedInterval{
			{BarberID: 1, Date: "2026-02-15", AllDay: true},
		},
		Start:       mustAt(t, "2026-02-15", "10:00"),
		DurationMin: 30,
	})
	if !httperr.IsBusiness(err, httperr.CodeClosedDay) {
		t.Fatalf("expected closed_day first, got %v", err)
	}
}
