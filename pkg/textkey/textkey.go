// Package textkey construye claves de comparación para nombres de negocio
// provenientes de fuentes distintas (scraping, registros públicos).
package textkey

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Key pasa a minúsculas, descompone con NFKD y conserva solo [a-z0-9].
// "Café Olé, LLC" -> "cafeolellc".
func Key(s string) string {
	decomposed := norm.NFKD.String(strings.ToLower(s))
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
