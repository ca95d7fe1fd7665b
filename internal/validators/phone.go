package validators

import "strings"

// NormalizePhone deja el teléfono en forma canónica: solo dígitos y un
// "+" inicial opcional. El teléfono es la identidad del cliente, así
// que dos formatos del mismo número deben colapsar en uno.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for i, r := range phone {
		if r == '+' && i == 0 {
			b.WriteRune(r)
			continue
		}
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func IsPhoneValid(phone string) bool {
	normalized := NormalizePhone(phone)
	digits := strings.TrimPrefix(normalized, "+")
	return len(digits) >= 7 && len(digits) <= 15
}
