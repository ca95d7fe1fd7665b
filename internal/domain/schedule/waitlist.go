package schedule

import "github.com/frailin-studio/booking-api/internal/models"

// ===============================
// Waitlist Status
// ===============================

type WaitlistStatus string

const (
	WaitlistWaiting  WaitlistStatus = "WAITING"
	WaitlistNotified WaitlistStatus = "NOTIFIED"
	WaitlistBooked   WaitlistStatus = "BOOKED"
	WaitlistExpired  WaitlistStatus = "EXPIRED"
)

// CanTransitionWaitlist: WAITING → NOTIFIED/BOOKED/EXPIRED,
// NOTIFIED → BOOKED/EXPIRED. BOOKED y EXPIRED son terminales.
func CanTransitionWaitlist(from, to WaitlistStatus) bool {
	switch from {
	case WaitlistWaiting:
		return to == WaitlistNotified || to == WaitlistBooked || to == WaitlistExpired
	case WaitlistNotified:
		return to == WaitlistBooked || to == WaitlistExpired
	default:
		return false
	}
}

// PickBestEntry elige a quién promover cuando se libera un cupo:
// primero quien pidió el mismo servicio, desempate por antigüedad;
// si nadie coincide, el más antiguo sin importar servicio.
// Las entradas deben venir ordenadas por creación ascendente.
func PickBestEntry(entries []models.WaitlistEntry, serviceID uint) *models.WaitlistEntry {
	for i := range entries {
		if entries[i].ServiceID == serviceID {
			return &entries[i]
		}
	}
	if len(entries) > 0 {
		return &entries[0]
	}
	return nil
}
