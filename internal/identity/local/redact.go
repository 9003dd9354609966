package local

import "strings"

// maskEmail reduce un email a una forma segura para los logs de intentos de
// login: primera letra del usuario y del primer label del dominio. La
// entrada viene directo del formulario, así que puede no ser un email.
func maskEmail(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	at := strings.IndexByte(s, '@')
	if at <= 0 || at == len(s)-1 {
		return "***"
	}
	user, dom := s[:at], s[at+1:]
	if len(user) > 1 {
		user = user[:1] + "…"
	}
	if dot := strings.IndexByte(dom, '.'); dot > 1 {
		dom = dom[:1] + "…" + dom[dot:]
	}
	return user + "@" + dom
}
