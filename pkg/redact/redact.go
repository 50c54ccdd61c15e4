// redact маскирует персональные данные получателей перед записью в логи.
package redact

import "strings"

// Phone маскирует номер телефона, оставляя последние две цифры.
//
// Примеры:
//
//	"+15551234567" -> "+*********67"
//	"12"           -> "***"
//	""             -> "***"
func Phone(s string) string {
	s = strings.TrimSpace(s)

	r := []rune(s)
	if len(r) <= 2 {
		return "***"
	}

	var b strings.Builder
	b.Grow(len(s))

	for i, c := range r {
		switch {
		case i == 0 && c == '+':
			b.WriteRune(c)
		case i >= len(r)-2:
			b.WriteRune(c)
		default:
			b.WriteByte('*')
		}
	}

	return b.String()
}
