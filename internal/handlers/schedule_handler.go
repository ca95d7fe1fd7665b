package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/frailin-studio/booking-api/internal/audit"
	"github.com/frailin-studio/booking-api/internal/cache"
	domain "github.com/frailin-studio/booking-api/internal/domain/schedule"
	"github.com/frailin-studio/booking-api/internal/httperr"
	"github.com/frailin-studio/booking-api/internal/middleware"
	"github.com/frailin-studio/booking-api/internal/models"
)

type ScheduleHandler struct {
	db    *gorm.DB
	cache *cache.AvailabilityCache
	audit *audit.Dispatcher
}

func NewScheduleHandler(db *gorm.DB, slotCache *cache.AvailabilityCache, auditDispatcher *audit.Dispatcher) *ScheduleHandler {
	return &ScheduleHandler{
		db:    db,
		cache: slotCache,
		audit: auditDispatcher,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type UpsertScheduleRequest struct {
	OpenTime           string `json:"open_time" binding:"required"`  // HH:MM
	CloseTime          string `json:"close_time" binding:"required"` // HH:MM
	SlotGranularityMin int    `json:"slot_granularity_min"`
	DaysOff            string `json:"days_off"` // CSV, ej. "0" o "0,1"
}

type UpsertOverrideRequest struct {
	Weekday   int    `json:"weekday" binding:"min=0,max=6"`
	OpenTime  string `json:"open_time" binding:"required"`
	CloseTime string `json:"close_time" binding:"required"`
}

// ======================================================
// GET
// ======================================================

func (h *ScheduleHandler) Get(c *gin.Context) {
	barberID, err := paramUint(c, "barberId")
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var sched models.BarberSchedule
	if err := h.db.Where("barber_id = ?", barberID).First(&sched).Error; err != nil {
		httperr.NotFound(c, "schedule_not_found", "El barbero no tiene horario configurado.")
		return
	}

	var overrides []models.ScheduleOverride
	h.db.Where("barber_id = ?", barberID).Order("weekday ASC").Find(&overrides)

	c.JSON(200, gin.H{
		"schedule":  sched,
		"overrides": overrides,
	})
}

// ======================================================
// UPSERT
// ======================================================

func (h *ScheduleHandler) Upsert(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	barberID, err := paramUint(c, "barberId")
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var req UpsertScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Horario de apertura y cierre son requeridos.")
		return
	}

	if err := validateWindow(req.OpenTime, req.CloseTime); err != nil {
		httperr.BadRequest(c, "invalid_hours", err.Error())
		return
	}
	if req.SlotGranularityMin < 0 {
		httperr.BadRequest(c, "invalid_granularity", "La granularidad debe ser positiva.")
		return
	}
	if !validDaysOff(req.DaysOff) {
		httperr.BadRequest(c, "invalid_days_off", "Días libres inválidos.")
		return
	}

	var barber models.User
	if err := h.db.
		Where("id = ? AND role = ? AND active = true", barberID, models.RoleBarber).
		First(&barber).Error; err != nil {
		httperr.NotFound(c, "barber_not_found", "Barbero no encontrado.")
		return
	}

	var sched models.BarberSchedule
	err = h.db.Where("barber_id = ?", barberID).First(&sched).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		sched = models.BarberSchedule{BarberID: barberID}
	case err != nil:
		httperr.Internal(c, "failed_to_load_schedule", "Error al cargar el horario.")
		return
	}

	sched.OpenTime = req.OpenTime
	sched.CloseTime = req.CloseTime
	sched.DaysOff = req.DaysOff
	if req.SlotGranularityMin > 0 {
		sched.SlotGranularityMin = req.SlotGranularityMin
	}

	if err := h.db.Save(&sched).Error; err != nil {
		httperr.Internal(c, "failed_to_save_schedule", "Error al guardar el horario.")
		return
	}

	// El horario cambia los slots de todos los días futuros; como el
	// caché se indexa por fecha no podemos invalidar por prefijo, así
	// que vaciamos todo.
	h.cache.Purge()

	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "schedule_updated",
		Entity:   "barber_schedule",
		EntityID: &sched.ID,
		Metadata: map[string]any{"open": sched.OpenTime, "close": sched.CloseTime},
	})

	c.JSON(200, sched)
}

// ======================================================
// OVERRIDES
// ======================================================

func (h *ScheduleHandler) UpsertOverride(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	barberID, err := paramUint(c, "barberId")
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var req UpsertOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Día y horario son requeridos.")
		return
	}

	if err := validateWindow(req.OpenTime, req.CloseTime); err != nil {
		httperr.BadRequest(c, "invalid_hours", err.Error())
		return
	}

	var override models.ScheduleOverride
	err = h.db.
		Where("barber_id = ? AND weekday = ?", barberID, req.Weekday).
		First(&override).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		override = models.ScheduleOverride{BarberID: barberID, Weekday: req.Weekday}
	case err != nil:
		httperr.Internal(c, "failed_to_load_override", "Error al cargar el horario especial.")
		return
	}

	override.OpenTime = req.OpenTime
	override.CloseTime = req.CloseTime

	if err := h.db.Save(&override).Error; err != nil {
		httperr.Internal(c, "failed_to_save_override", "Error al guardar el horario especial.")
		return
	}

	h.cache.Purge()

	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "schedule_override_updated",
		Entity:   "schedule_override",
		EntityID: &override.ID,
		Metadata: map[string]any{"weekday": override.Weekday},
	})

	c.JSON(200, override)
}

func (h *ScheduleHandler) DeleteOverride(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := paramUint(c, "id")
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var override models.ScheduleOverride
	if err := h.db.First(&override, id).Error; err != nil {
		httperr.NotFound(c, "override_not_found", "Horario especial no encontrado.")
		return
	}

	if err := h.db.Delete(&override).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_override", "Error al eliminar el horario especial.")
		return
	}

	h.cache.Purge()

	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "schedule_override_deleted",
		Entity:   "schedule_override",
		EntityID: &override.ID,
	})

	c.JSON(200, gin.H{"message": "Horario especial eliminado."})
}

func validDaysOff(csv string) bool {
	for _, part := range strings.Split(csv, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := strconv.Atoi(part)
		if err != nil || d < 0 || d > 6 {
			return false
		}
	}
	return true
}

func validateWindow(openTime, closeTime string) error {
	open, err := domain.ParseHM(openTime)
	if err != nil {
		return errors.New("Hora de apertura inválida.")
	}
	closeM, err := domain.ParseHM(closeTime)
	if err != nil {
		return errors.New("Hora de cierre inválida.")
	}
	if open >= closeM {
		return errors.New("La apertura debe ser antes del cierre.")
	}
	return nil
}
