package schedule

import (
	"testing"
	"time"

	"github.com/frailin-studio/booking-api/internal/models"
	"github.com/frailin-studio/booking-api/internal/timezone"
)

func mustDay(t *testing.T, date string) time.Time {
	t.Helper()
	day, err := timezone.ParseDate(date)
	if err != nil {
		t.Fatalf("ParseDate(%s): %v", date, err)
	}
	return day
}

func slotTimes(slots []Slot, onlyAvailable bool) []string {
	var out []string
	for _, s := range slots {
		if onlyAvailable && !s.Available {
			continue
		}
		out = append(out, s.Time)
	}
	return out
}

func findSlot(t *testing.T, slots []Slot, hm string) Slot {
	t.Helper()
	for _, s := range slots {
		if s.Time == hm {
			return s
		}
	}
	t.Fatalf("slot %s not found", hm)
	return Slot{}
}

func TestBuildSlotsFullDay(t *testing.T) {
	// Abierto 09:00–19:00, paso 15 min, servicio de 30 min, sin citas:
	// de "09:00" a "18:30", nunca "18:45".
	slots := BuildSlots(SlotsInput{
		Day:            mustDay(t, "2026-02-16"),
		Window:         DayWindow{Open: 9 * 60, Close: 19 * 60},
		GranularityMin: 15,
		DurationMin:    30,
	})

	if len(slots) != 39 {
		t.Fatalf("expected 39 slots, got %d", len(slots))
	}
	if slots[0].Time != "09:00" {
		t.Fatalf("first slot = %s", slots[0].Time)
	}
	if last := slots[len(slots)-1]; last.Time != "18:30" || !last.Available {
		t.Fatalf("last slot = %+v, expected available 18:30", last)
	}
	for _, s := range slots {
		if s.Time == "18:45" {
			t.Fatal("18:45 must not be enumerated for a 30-min service")
		}
		if !s.Available {
			t.Fatalf("slot %s unexpectedly unavailable", s.Time)
		}
	}
}

func TestBuildSlotsCloseMinusDurationBoundary(t *testing.T) {
	// Con duración 60: el último candidato es exactamente close-60.
	slots := BuildSlots(SlotsInput{
		Day:            mustDay(t, "2026-02-16"),
		Window:         DayWindow{Open: 9 * 60, Close: 19 * 60},
		GranularityMin: 15,
		DurationMin:    60,
	})

	if last := slots[len(slots)-1]; last.Time != "18:00" {
		t.Fatalf("expected last slot 18:00, got %s", last.Time)
	}
}

func TestBuildSlotsOverlapMarksUnavailable(t *testing.T) {
	day := mustDay(t, "2026-02-16")

	booked := models.Appointment{
		StartTime: day.Add(10 * time.Hour),
		EndTime:   day.Add(10*time.Hour + 30*time.Minute),
	}

	slots := BuildSlots(SlotsInput{
		Day:            day,
		Window:         DayWindow{Open: 9 * 60, Close: 19 * 60},
		GranularityMin: 15,
		DurationMin:    30,
		Appointments:   []models.Appointment{booked},
	})

	// 09:45 termina 10:15 → choca; 10:15 empieza antes de 10:30 → choca;
	// 09:30 y 10:30 quedan libres.
	for _, hm := range []string{"09:45", "10:00", "10:15"} {
		if findSlot(t, slots, hm).Available {
			t.Fatalf("slot %s should overlap the 10:00–10:30 booking", hm)
		}
	}
	for _, hm := range []string{"09:30", "10:30"} {
		if !findSlot(t, slots, hm).Available {
			t.Fatalf("slot %s should be free", hm)
		}
	}
}

func TestBuildSlotsBlockedRange(t *testing.T) {
	slots := BuildSlots(SlotsInput{
		Day:            mustDay(t, "2026-02-16"),
		Window:         DayWindow{Open: 9 * 60, Close: 19 * 60},
		GranularityMin: 15,
		DurationMin:    30,
		Blocks: []models.BlockedInterval{
			{Date: "2026-02-16", StartTime: "12:00", EndTime: "13:00"},
		},
	})

	// La prueba es puntual sobre el inicio: 12:00 y 12:45 bloqueados,
	// 11:45 y 13:00 libres aunque su intervalo toque el bloqueo.
	for _, hm := range []string{"12:00", "12:15", "12:30", "12:45"} {
		if findSlot(t, slots, hm).Available {
			t.Fatalf("slot %s should be blocked", hm)
		}
	}
	for _, hm := range []string{"11:45", "13:00"} {
		if !findSlot(t, slots, hm).Available {
			t.Fatalf("slot %s should be free", hm)
		}
	}
}

func TestBuildSlotsPastMarkedNotOmitted(t *testing.T) {
	day := mustDay(t, "2026-02-16")
	now := day.Add(11*time.Hour + 7*time.Minute)

	slots := BuildSlots(SlotsInput{
		Day:            day,
		Window:         DayWindow{Open: 9 * 60, Close: 19 * 60},
		GranularityMin: 15,
		DurationMin:    30,
		Now:            now,
	})

	if len(slots) != 39 {
		t.Fatalf("past slots must stay in the list, got %d", len(slots))
	}
	if findSlot(t, slots, "11:00").Available {
		t.Fatal("11:00 is in the past at 11:07")
	}
	if !findSlot(t, slots, "11:15").Available {
		t.Fatal("11:15 is still bookable at 11:07")
	}
}

func TestHasAllDayBlock(t *testing.T) {
	blocks := []models.BlockedInterval{
		{Date: "2026-02-16", StartTime: "12:00", EndTime: "13:00"},
	}
	if HasAllDayBlock(blocks) {
		t.Fatal("ranged block must not count as all-day")
	}

	blocks = append(blocks, models.BlockedInterval{Date: "2026-02-16", AllDay: true})
	if !HasAllDayBlock(blocks) {
		t.Fatal("expected all-day block")
	}
}

func TestBuildSlotsGranularityIndependentOfDuration(t *testing.T) {
	// Servicio de 20 min: el paso sigue siendo 15, no 20.
	slots := BuildSlots(SlotsInput{
		Day:            mustDay(t, "2026-02-16"),
		Window:         DayWindow{Open: 9 * 60, Close: 10 * 60},
		GranularityMin: 15,
		DurationMin:    20,
	})

	got := slotTimes(slots, false)
	// close-duration = 09:40, pero el último candidato del paso de 15
	// que cabe entero es 09:30.
	want := []string{"09:00", "09:15", "09:30"}

	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
