package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	BookingsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookings_total",
		Help: "Citas creadas con éxito.",
	})

	BookingConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "booking_conflicts_total",
		Help: "Intentos de reserva rechazados por conflicto de horario.",
	})

	WaitlistPromotionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "waitlist_promotions_total",
		Help: "Promociones automáticas desde la lista de espera.",
	})

	NotificationsSentTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_sent_total",
		Help: "Mensajes salientes por resultado.",
	}, []string{"status"})
)

func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
