package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/frailin-studio/booking-api/internal/audit"
	domain "github.com/frailin-studio/booking-api/internal/domain/schedule"
	"github.com/frailin-studio/booking-api/internal/httperr"
	"github.com/frailin-studio/booking-api/internal/httpresp"
	"github.com/frailin-studio/booking-api/internal/middleware"
	"github.com/frailin-studio/booking-api/internal/models"
	"github.com/frailin-studio/booking-api/internal/timezone"
	"github.com/frailin-studio/booking-api/internal/validators"
)

type WaitlistHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewWaitlistHandler(db *gorm.DB, auditDispatcher *audit.Dispatcher) *WaitlistHandler {
	return &WaitlistHandler{
		db:    db,
		audit: auditDispatcher,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type JoinWaitlistRequest struct {
	Date      string `json:"date" binding:"required"` // YYYY-MM-DD
	ServiceID uint   `json:"service_id" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
}

type UpdateWaitlistRequest struct {
	Status string `json:"status" binding:"required"`
}

// ======================================================
// JOIN (público)
// ======================================================

func (h *WaitlistHandler) Join(c *gin.Context) {
	var req JoinWaitlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Todos los campos son requeridos.")
		return
	}

	if _, err := timezone.ParseDate(req.Date); err != nil {
		httperr.BadRequest(c, "invalid_date", "Fecha inválida.")
		return
	}

	if !validators.IsPhoneValid(req.Phone) {
		httperr.BadRequest(c, "invalid_phone", "Teléfono inválido.")
		return
	}
	phone := validators.NormalizePhone(req.Phone)

	var service models.Service
	if err := h.db.
		Where("id = ? AND active = true", req.ServiceID).
		First(&service).Error; err != nil {
		httperr.NotFound(c, "service_not_found", "Servicio no encontrado.")
		return
	}

	// Máximo una entrada WAITING por (fecha, teléfono)
	var count int64
	h.db.Model(&models.WaitlistEntry{}).
		Where(
			"date = ? AND phone = ? AND status = ?",
			req.Date, phone, string(domain.WaitlistWaiting),
		).
		Count(&count)
	if count > 0 {
		httperr.Conflict(c, "already_waiting", "Ya estás en la lista de espera para ese día.")
		return
	}

	entry := models.WaitlistEntry{
		Date:      req.Date,
		ServiceID: req.ServiceID,
		Name:      req.Name,
		Phone:     phone,
		Status:    string(domain.WaitlistWaiting),
	}

	if err := h.db.Create(&entry).Error; err != nil {
		httperr.Internal(c, "failed_to_join_waitlist", "Error al entrar a la lista de espera.")
		return
	}

	h.audit.Dispatch(audit.Event{
		Action:   "waitlist_joined",
		Entity:   "waitlist_entry",
		EntityID: &entry.ID,
	})

	httpresp.Created(c, entry)
}

// ======================================================
// LIST (panel)
// ======================================================

func (h *WaitlistHandler) List(c *gin.Context) {
	q := h.db.Preload("Service").Order("created_at ASC")

	if date := c.Query("date"); date != "" {
		q = q.Where("date = ?", date)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var entries []models.WaitlistEntry
	if err := q.Find(&entries).Error; err != nil {
		httperr.Internal(c, "failed_to_list_waitlist", "Error al listar la lista de espera.")
		return
	}

	httpresp.List(c, entries)
}

// ======================================================
// UPDATE STATUS (panel)
// ======================================================

func (h *WaitlistHandler) UpdateStatus(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := paramUint(c, "id")
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var req UpdateWaitlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Estado requerido.")
		return
	}

	var entry models.WaitlistEntry
	if err := h.db.First(&entry, id).Error; err != nil {
		httperr.NotFound(c, "waitlist_not_found", "Entrada no encontrada.")
		return
	}

	from := domain.WaitlistStatus(entry.Status)
	to := domain.WaitlistStatus(req.Status)
	if !domain.CanTransitionWaitlist(from, to) {
		httperr.BadRequest(c, "invalid_state", "Transición de estado inválida.")
		return
	}

	entry.Status = string(to)
	if to == domain.WaitlistNotified {
		entry.Notified = true
	}

	if err := h.db.Save(&entry).Error; err != nil {
		httperr.Internal(c, "failed_to_update_waitlist", "Error al actualizar la entrada.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "waitlist_status_changed",
		Entity:   "waitlist_entry",
		EntityID: &entry.ID,
		Metadata: map[string]any{"from": string(from), "to": string(to)},
	})

	c.JSON(200, entry)
}
