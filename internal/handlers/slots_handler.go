package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/frailin-studio/booking-api/internal/httperr"
	"github.com/frailin-studio/booking-api/internal/httpresp"
	"github.com/frailin-studio/booking-api/internal/usecase/booking"
)

type SlotsHandler struct {
	getAvailability *booking.GetAvailability
}

func NewSlotsHandler(getAvailability *booking.GetAvailability) *SlotsHandler {
	return &SlotsHandler{getAvailability: getAvailability}
}

// GET /api/public/slots?date=YYYY-MM-DD&service_id=N&barber_id=N
func (h *SlotsHandler) Get(c *gin.Context) {
	dateStr := c.Query("date")
	serviceIDStr := c.Query("service_id")
	barberIDStr := c.Query("barber_id")

	if dateStr == "" || serviceIDStr == "" || barberIDStr == "" {
		httperr.BadRequest(c, "missing_params", "Fecha, servicio y barbero son obligatorios.")
		return
	}

	serviceID, err := strconv.ParseUint(serviceIDStr, 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_service_id", "Servicio inválido.")
		return
	}

	barberID, err := strconv.ParseUint(barberIDStr, 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_barber_id", "Barbero inválido.")
		return
	}

	av, err := h.getAvailability.Execute(
		c.Request.Context(),
		booking.AvailabilityInput{
			BarberID:  uint(barberID),
			ServiceID: uint(serviceID),
			Date:      dateStr,
		},
	)
	if err != nil {
		writeBusinessError(c, err, "Error al calcular horarios.")
		return
	}

	httpresp.OK(c, av)
}
