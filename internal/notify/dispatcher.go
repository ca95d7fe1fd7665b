package notify

import (
	"context"
	"log"
	"time"

	"github.com/frailin-studio/booking-api/internal/metrics"
)

type outbound struct {
	phone   string
	message string
}

// Dispatcher desacopla el envío de la respuesta HTTP: la reserva queda
// confirmada apenas se escribe la cita, llegue o no el mensaje.
type Dispatcher struct {
	sender Sender
	queue  chan outbound
}

func NewDispatcher(sender Sender) *Dispatcher {
	d := &Dispatcher{
		sender: sender,
		queue:  make(chan outbound, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for msg := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)

		if err := d.sender.Send(ctx, msg.phone, msg.message); err != nil {
			// fallo de entrega: solo log, nunca reintento síncrono
			log.Printf("notify error to=%s: %v", msg.phone, err)
			metrics.NotificationsSentTotal.WithLabelValues("error").Inc()
		} else {
			metrics.NotificationsSentTotal.WithLabelValues("ok").Inc()
		}

		cancel()
	}
}

// Dispatch encola el mensaje y retorna de inmediato.
func (d *Dispatcher) Dispatch(phone, message string) {
	if phone == "" {
		return
	}

	select {
	case d.queue <- outbound{phone: phone, message: message}:
	default:
		log.Println("notify queue full, dropping message")
		metrics.NotificationsSentTotal.WithLabelValues("dropped").Inc()
	}
}
