package validators

import (
	"net"
	"strings"
)

// IsEmailDomainValid rechaza en el registro los dominios que no
// resuelven: un typo en el correo del barbero deja el panel sin
// recuperación de acceso. Best-effort, un DNS caído no debe bloquear.
func IsEmailDomainValid(email string) bool {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}

	domain := strings.ToLower(email[at+1:])

	if mx, err := net.LookupMX(domain); err == nil && len(mx) > 0 {
		return true
	}

	// sin MX: algunos dominios reciben correo directo en el registro A
	if ips, err := net.LookupIP(domain); err == nil && len(ips) > 0 {
		return true
	}

	return false
}
