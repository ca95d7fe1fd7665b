package httperr

import "errors"

// Códigos de las violaciones de agenda. closed_day y outside_hours son
// corregibles por el usuario (400); slot_taken y slot_blocked son
// conflictos (409).
const (
	CodeClosedDay    = "closed_day"
	CodeOutsideHours = "outside_hours"
	CodeSlotTaken    = "slot_taken"
	CodeSlotBlocked  = "slot_blocked"
)

type BusinessError struct {
	Code    string
	Message string
}

func (e BusinessError) Error() string {
	if e.Message != "" {
		return e.Code + ": " + e.Message
	}
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func ErrBusinessMsg(code, message string) error {
	return BusinessError{Code: code, Message: message}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// AsBusiness extrae el error de negocio, si lo hay.
func AsBusiness(err error) (BusinessError, bool) {
	var be BusinessError
	ok := errors.As(err, &be)
	return be, ok
}

// IsConflictCode reporta si el código se responde como 409.
func IsConflictCode(code string) bool {
	return code == CodeSlotTaken || code == CodeSlotBlocked
}
