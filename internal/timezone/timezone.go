package timezone

import "time"

// Zona horaria del negocio. Colombia no observa horario de verano,
// así que un offset fijo es un fallback correcto cuando no hay tzdata.
const BusinessTimezone = "America/Bogota"

const fixedOffsetSeconds = -5 * 60 * 60

var location = loadLocation()

func loadLocation() *time.Location {
	if loc, err := time.LoadLocation(BusinessTimezone); err == nil {
		return loc
	}
	return time.FixedZone("-05", fixedOffsetSeconds)
}

func Location() *time.Location {
	return location
}

func Now() time.Time {
	return time.Now().In(location)
}

// WallClock proyecta un instante al reloj de pared del negocio.
func WallClock(t time.Time) (weekday int, hour int, minute int) {
	local := t.In(location)
	return int(local.Weekday()), local.Hour(), local.Minute()
}

// DateStr devuelve la fecha de negocio "YYYY-MM-DD" de un instante.
func DateStr(t time.Time) string {
	return t.In(location).Format("2006-01-02")
}

// ParseDate interpreta "YYYY-MM-DD" como medianoche en la zona del negocio.
func ParseDate(dateStr string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", dateStr, location)
}

// At interpreta fecha + hora de pared en la zona del negocio.
func At(dateStr, timeStr string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", dateStr+" "+timeStr, location)
}
