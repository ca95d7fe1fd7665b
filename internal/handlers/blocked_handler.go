package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/frailin-studio/booking-api/internal/audit"
	"github.com/frailin-studio/booking-api/internal/cache"
	domain "github.com/frailin-studio/booking-api/internal/domain/schedule"
	"github.com/frailin-studio/booking-api/internal/httperr"
	"github.com/frailin-studio/booking-api/internal/httpresp"
	"github.com/frailin-studio/booking-api/internal/middleware"
	"github.com/frailin-studio/booking-api/internal/models"
	"github.com/frailin-studio/booking-api/internal/timezone"
)

type BlockedHandler struct {
	db    *gorm.DB
	cache *cache.AvailabilityCache
	audit *audit.Dispatcher
}

func NewBlockedHandler(db *gorm.DB, slotCache *cache.AvailabilityCache, auditDispatcher *audit.Dispatcher) *BlockedHandler {
	return &BlockedHandler{
		db:    db,
		cache: slotCache,
		audit: auditDispatcher,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBlockedRequest struct {
	BarberID  uint   `json:"barber_id" binding:"required"`
	Date      string `json:"date" binding:"required"` // YYYY-MM-DD
	StartTime string `json:"start_time"`              // HH:MM
	EndTime   string `json:"end_time"`
	AllDay    bool   `json:"all_day"`
	Reason    string `json:"reason"`
}

// ======================================================
// LIST
// ======================================================

func (h *BlockedHandler) List(c *gin.Context) {
	q := h.db.Order("date ASC, start_time ASC")

	if barberID := c.Query("barber_id"); barberID != "" {
		q = q.Where("barber_id = ?", barberID)
	}
	if date := c.Query("date"); date != "" {
		q = q.Where("date = ?", date)
	}

	var intervals []models.BlockedInterval
	if err := q.Find(&intervals).Error; err != nil {
		httperr.Internal(c, "failed_to_list_blocked", "Error al listar bloqueos.")
		return
	}

	httpresp.List(c, intervals)
}

// ======================================================
// CREATE
// ======================================================

func (h *BlockedHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateBlockedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Barbero y fecha son requeridos.")
		return
	}

	if _, err := timezone.ParseDate(req.Date); err != nil {
		httperr.BadRequest(c, "invalid_date", "Fecha inválida.")
		return
	}

	if req.AllDay {
		// Un bloqueo de día entero cubre toda la jornada sin
		// importar el horario configurado.
		req.StartTime = "00:00"
		req.EndTime = "23:59"
	} else {
		start, err := domain.ParseHM(req.StartTime)
		if err != nil {
			httperr.BadRequest(c, "invalid_time", "Hora de inicio inválida.")
			return
		}
		end, err := domain.ParseHM(req.EndTime)
		if err != nil {
			httperr.BadRequest(c, "invalid_time", "Hora de fin inválida.")
			return
		}
		if start >= end {
			httperr.BadRequest(c, "invalid_interval", "El inicio debe ser antes del fin.")
			return
		}
	}

	var barber models.User
	if err := h.db.
		Where("id = ? AND role = ? AND active = true", req.BarberID, models.RoleBarber).
		First(&barber).Error; err != nil {
		httperr.NotFound(c, "barber_not_found", "Barbero no encontrado.")
		return
	}

	interval := models.BlockedInterval{
		BarberID:  req.BarberID,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		AllDay:    req.AllDay,
		Reason:    req.Reason,
	}

	if err := h.db.Create(&interval).Error; err != nil {
		httperr.Internal(c, "failed_to_create_blocked", "Error al crear el bloqueo.")
		return
	}

	h.cache.InvalidateDay(interval.BarberID, interval.Date)

	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "interval_blocked",
		Entity:   "blocked_interval",
		EntityID: &interval.ID,
		Metadata: map[string]any{"date": interval.Date, "all_day": interval.AllDay},
	})

	httpresp.Created(c, interval)
}

// ======================================================
// DELETE
// ======================================================

func (h *BlockedHandler) Delete(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := paramUint(c, "id")
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var interval models.BlockedInterval
	if err := h.db.First(&interval, id).Error; err != nil {
		httperr.NotFound(c, "blocked_not_found", "Bloqueo no encontrado.")
		return
	}

	if err := h.db.Delete(&interval).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_blocked", "Error al eliminar el bloqueo.")
		return
	}

	h.cache.InvalidateDay(interval.BarberID, interval.Date)

	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "interval_unblocked",
		Entity:   "blocked_interval",
		EntityID: &interval.ID,
	})

	c.JSON(200, gin.H{"message": "Bloqueo eliminado."})
}
