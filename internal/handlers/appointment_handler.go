package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/frailin-studio/booking-api/internal/domain/schedule"
	"github.com/frailin-studio/booking-api/internal/httperr"
	"github.com/frailin-studio/booking-api/internal/httpresp"
	"github.com/frailin-studio/booking-api/internal/middleware"
	"github.com/frailin-studio/booking-api/internal/models"
	"github.com/frailin-studio/booking-api/internal/timezone"
	"github.com/frailin-studio/booking-api/internal/usecase/booking"
	"github.com/frailin-studio/booking-api/internal/validators"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	db *gorm.DB

	createUC   *booking.CreateAppointment
	cancelUC   *booking.CancelAppointment
	completeUC *booking.CompleteAppointment
	noShowUC   *booking.MarkNoShow
}

func NewAppointmentHandler(
	db *gorm.DB,
	createUC *booking.CreateAppointment,
	cancelUC *booking.CancelAppointment,
	completeUC *booking.CompleteAppointment,
	noShowUC *booking.MarkNoShow,
) *AppointmentHandler {
	return &AppointmentHandler{
		db:         db,
		createUC:   createUC,
		cancelUC:   cancelUC,
		completeUC: completeUC,
		noShowUC:   noShowUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	BarberID  uint `json:"barber_id" binding:"required"`
	ServiceID uint `json:"service_id" binding:"required"`

	ClientName  string `json:"client_name" binding:"required"`
	Phone       string `json:"phone" binding:"required"`
	Email       string `json:"email"`

	Date string `json:"date" binding:"required"` // YYYY-MM-DD
	Time string `json:"time" binding:"required"` // HH:MM

	Notes    string `json:"notes"`
	BookedBy string `json:"booked_by"`
}

type CancelByTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ======================================================
// CREATE (público)
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	if !validators.IsPhoneValid(req.Phone) {
		httperr.BadRequest(c, "invalid_phone", "Teléfono inválido.")
		return
	}

	bookedBy := req.BookedBy
	if bookedBy != "" && bookedBy != models.BookedByClient && bookedBy != models.BookedByBarber {
		httperr.BadRequest(c, "invalid_booked_by", "Origen de reserva inválido.")
		return
	}

	ap, err := h.createUC.Execute(
		c.Request.Context(),
		booking.CreateAppointmentInput{
			BarberID:    req.BarberID,
			ServiceID:   req.ServiceID,
			ClientName:  req.ClientName,
			ClientPhone: validators.NormalizePhone(req.Phone),
			ClientEmail: req.Email,
			Date:        req.Date,
			Time:        req.Time,
			Notes:       req.Notes,
			BookedBy:    bookedBy,
		},
	)
	if err != nil {
		writeBusinessError(c, err, "Error al crear la cita.")
		return
	}

	httpresp.Created(c, ap)
}

// ======================================================
// CANCEL (público, por token)
// ======================================================

func (h *AppointmentHandler) CancelByToken(c *gin.Context) {
	var req CancelByTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Token requerido.")
		return
	}

	ap, err := h.cancelUC.ExecuteByToken(c.Request.Context(), req.Token)
	if err != nil {
		writeBusinessError(c, err, "Error al cancelar la cita.")
		return
	}

	c.JSON(200, ap)
}

// ======================================================
// LIST (panel)
// ======================================================

func (h *AppointmentHandler) List(c *gin.Context) {
	barberID := c.MustGet(middleware.ContextUserID).(uint)

	q := h.db.
		Preload("Client").
		Preload("Service").
		Where("barber_id = ?", barberID)

	if dateStr := c.Query("date"); dateStr != "" {
		day, err := timezone.ParseDate(dateStr)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Fecha inválida.")
			return
		}
		q = q.Where(
			"start_time >= ? AND start_time < ?",
			day, day.Add(24*time.Hour),
		)
	}

	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var aps []models.Appointment
	if err := q.Order("start_time ASC").Find(&aps).Error; err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Error al listar citas.")
		return
	}

	httpresp.List(c, aps)
}

// ======================================================
// UPDATE STATUS (panel)
// ======================================================

// PATCH /api/appointments/:id — CANCELLED dispara la cascada de
// lista de espera; COMPLETED y NO_SHOW solo cierran la cita.
func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	barberID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := paramUint(c, "id")
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Estado requerido.")
		return
	}

	var (
		ap    *models.Appointment
		ucErr error
	)

	switch domain.Status(req.Status) {
	case domain.StatusCancelled:
		ap, ucErr = h.cancelUC.ExecuteByID(c.Request.Context(), barberID, id)
	case domain.StatusCompleted:
		ap, ucErr = h.completeUC.Execute(c.Request.Context(), barberID, id)
	case domain.StatusNoShow:
		ap, ucErr = h.noShowUC.Execute(c.Request.Context(), barberID, id)
	default:
		httperr.BadRequest(c, "invalid_status", "Estado no soportado.")
		return
	}

	if ucErr != nil {
		writeBusinessError(c, ucErr, "Error al actualizar la cita.")
		return
	}

	c.JSON(200, ap)
}
