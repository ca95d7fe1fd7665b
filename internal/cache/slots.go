package cache

import (
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/frailin-studio/booking-api/internal/domain/schedule"
)

// AvailabilityCache guarda resultados de disponibilidad por
// (barbero, fecha, servicio). Cualquier escritura que toque el día de
// un barbero invalida todas sus entradas de esa fecha.
type AvailabilityCache struct {
	cache *lru.Cache[string, *schedule.Availability]
}

// New devuelve nil cuando size <= 0: el caché queda deshabilitado y
// todos los métodos son no-op sobre el receptor nil.
func New(size int) (*AvailabilityCache, error) {
	if size <= 0 {
		return nil, nil
	}

	c, err := lru.New[string, *schedule.Availability](size)
	if err != nil {
		return nil, err
	}

	return &AvailabilityCache{cache: c}, nil
}

func key(barberID uint, date string, serviceID uint) string {
	return fmt.Sprintf("%d|%s|%d", barberID, date, serviceID)
}

func dayPrefix(barberID uint, date string) string {
	return fmt.Sprintf("%d|%s|", barberID, date)
}

func (c *AvailabilityCache) Get(barberID uint, date string, serviceID uint) (*schedule.Availability, bool) {
	if c == nil {
		return nil, false
	}
	return c.cache.Get(key(barberID, date, serviceID))
}

func (c *AvailabilityCache) Store(barberID uint, date string, serviceID uint, av *schedule.Availability) {
	if c == nil {
		return
	}
	c.cache.Add(key(barberID, date, serviceID), av)
}

// InvalidateDay elimina todas las entradas del barbero en esa fecha,
// sin importar el servicio consultado.
func (c *AvailabilityCache) InvalidateDay(barberID uint, date string) {
	if c == nil {
		return
	}

	prefix := dayPrefix(barberID, date)
	for _, k := range c.cache.Keys() {
		if strings.HasPrefix(k, prefix) {
			c.cache.Remove(k)
		}
	}
}

// Purge vacía el caché completo. Se usa cuando cambia el horario de un
// barbero: afecta todas las fechas y no se puede invalidar por prefijo.
func (c *AvailabilityCache) Purge() {
	if c == nil {
		return
	}
	c.cache.Purge()
}
