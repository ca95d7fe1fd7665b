package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/frailin-studio/booking-api/internal/httperr"
)

var notFoundCodes = map[string]bool{
	"service_not_found":     true,
	"barber_not_found":      true,
	"schedule_not_found":    true,
	"appointment_not_found": true,
	"waitlist_not_found":    true,
}

// writeBusinessError traduce el error de negocio al status correcto:
// not-found → 404, conflicto de agenda → 409, lo demás → 400.
func writeBusinessError(c *gin.Context, err error, fallbackMsg string) {
	be, ok := httperr.AsBusiness(err)
	if !ok {
		httperr.Internal(c, "internal_error", fallbackMsg)
		return
	}

	msg := be.Message
	if msg == "" {
		msg = fallbackMsg
	}

	switch {
	case notFoundCodes[be.Code]:
		httperr.NotFound(c, be.Code, msg)
	case httperr.IsConflictCode(be.Code):
		httperr.Conflict(c, be.Code, msg)
	default:
		httperr.BadRequest(c, be.Code, msg)
	}
}
