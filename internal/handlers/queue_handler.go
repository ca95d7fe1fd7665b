package handlers

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/frailin-studio/booking-api/internal/domain/schedule"
	"github.com/frailin-studio/booking-api/internal/httperr"
	"github.com/frailin-studio/booking-api/internal/models"
	"github.com/frailin-studio/booking-api/internal/timezone"
)

// QueueHandler expone la cola del día para la pantalla pública del
// local: quién sigue, sin datos de contacto y con el nombre enmascarado.
type QueueHandler struct {
	db       *gorm.DB
	shopName string
}

func NewQueueHandler(db *gorm.DB, shopName string) *QueueHandler {
	return &QueueHandler{db: db, shopName: shopName}
}

type queueItem struct {
	ID          uint   `json:"id"`
	ClientName  string `json:"client_name"`
	ServiceName string `json:"service_name"`
	DurationMin int    `json:"duration_min"`
	Time        string `json:"time"`
	Status      string `json:"status"`
}

// maskName deja nombre de pila e inicial del segundo nombre/apellido:
// "María Fernanda López" → "María F."
func maskName(name string) string {
	parts := strings.Fields(strings.TrimSpace(name))
	switch {
	case len(parts) == 0:
		return "Cliente"
	case len(parts) == 1:
		return parts[0]
	default:
		return parts[0] + " " + string([]rune(parts[1])[:1]) + "."
	}
}

// GET /api/public/queue — citas de hoy en orden de llegada.
func (h *QueueHandler) List(c *gin.Context) {
	today := timezone.DateStr(timezone.Now())

	day, err := timezone.ParseDate(today)
	if err != nil {
		httperr.Internal(c, "failed_to_resolve_day", "Error al resolver el día.")
		return
	}

	var aps []models.Appointment
	if err := h.db.
		Preload("Client").
		Preload("Service").
		Where(
			"start_time >= ? AND start_time < ? AND status IN ?",
			day, day.Add(24*time.Hour),
			[]string{
				string(domain.StatusPending),
				string(domain.StatusConfirmed),
				string(domain.StatusCompleted),
			},
		).
		Order("start_time ASC").
		Find(&aps).Error; err != nil {

		httperr.Internal(c, "failed_to_list_queue", "Error al listar la cola del día.")
		return
	}

	items := make([]queueItem, 0, len(aps))
	for _, ap := range aps {
		_, hour, minute := timezone.WallClock(ap.StartTime)
		items = append(items, queueItem{
			ID:          ap.ID,
			ClientName:  maskName(ap.Client.Name),
			ServiceName: ap.Service.Name,
			DurationMin: ap.Service.DurationMin,
			Time:        domain.FormatHM(hour*60 + minute),
			Status:      ap.Status,
		})
	}

	// La pantalla del local refresca seguido; nada de cachés intermedios
	c.Header("Cache-Control", "no-store, no-cache, must-revalidate")

	c.JSON(200, gin.H{
		"shop_name":    h.shopName,
		"appointments": items,
		"updated_at":   time.Now().UTC().Format(time.RFC3339),
	})
}
