package notify

import "fmt"

// Plantillas de WhatsApp en el idioma de los clientes del negocio.

func ConfirmationMessage(clientName, serviceName, dateStr, timeStr, shopName string) string {
	return fmt.Sprintf(
		"✅ *¡Cita confirmada, %s!*\n\n📋 Servicio: %s\n📅 Fecha: %s\n🕐 Hora: %s\n💈 %s\n\n¡Te esperamos!",
		clientName, serviceName, dateStr, timeStr, shopName,
	)
}

func NewBookingMessage(clientName, serviceName, dateStr, timeStr string) string {
	return fmt.Sprintf(
		"📅 *Nueva cita*\n\n👤 Cliente: %s\n📋 Servicio: %s\n📅 Fecha: %s\n🕐 Hora: %s",
		clientName, serviceName, dateStr, timeStr,
	)
}

func CancellationMessage(clientName, serviceName, dateStr, timeStr string) string {
	return fmt.Sprintf(
		"❌ *Cita cancelada*\n\n👤 Cliente: %s\n📋 Servicio: %s\n📅 Fecha: %s\n🕐 Hora: %s\n\nEl cliente canceló su cita.",
		clientName, serviceName, dateStr, timeStr,
	)
}

func SlotFreedMessage(clientName, dateStr, shopName string) string {
	return fmt.Sprintf(
		"🔔 *¡Hola, %s!*\n\nSe liberó un cupo para el %s en %s. Entra ya y reserva tu horario antes de que lo tomen.",
		clientName, dateStr, shopName,
	)
}

func PromotionMessage(clientName, serviceName, dateStr, timeStr, shopName string) string {
	return fmt.Sprintf(
		"🎉 *¡Buenas noticias, %s!*\n\nSe liberó un cupo y te agendamos automáticamente:\n\n📋 Servicio: %s\n📅 Fecha: %s\n🕐 Hora: %s\n💈 %s\n\n¡Te esperamos!",
		clientName, serviceName, dateStr, timeStr, shopName,
	)
}
