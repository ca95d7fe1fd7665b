package notify

import (
	"context"
	"log"
)

// Sender entrega un mensaje de WhatsApp/SMS a un teléfono. La entrega
// es best-effort: ningún llamador debe fallar por un error de envío.
type Sender interface {
	Send(ctx context.Context, phone, message string) error
}

// LogSender es el sender por defecto cuando no hay credenciales de
// Twilio configuradas: solo deja rastro en el log.
type LogSender struct{}

func (LogSender) Send(_ context.Context, phone, message string) error {
	log.Printf("notify (log only) to=%s: %s", phone, message)
	return nil
}
