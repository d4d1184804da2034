// Package leads contiene el pipeline puro del visor de negocios: normalización de
// contactos, inferencia de categoría y servicios, score de inteligencia y la
// secuencia filtrar → ordenar → paginar. No depende de base de datos ni de HTTP.
package leads

import (
	"math"
	"sort"
	"strings"

	"github.com/jhoicas/leadmine-api/internal/domain/entity"
)

// PhoneEntry teléfono normalizado para la vista. Confidence nil = desconocida.
type PhoneEntry struct {
	Number     string   `json:"number"`
	Confidence *float64 `json:"confidence"`
	Type       string   `json:"type"`
}

// SocialLink perfil social de un negocio.
type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// Website sitio web de un negocio.
type Website struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

// PhoneTypeGoogle marca el teléfono que viene de la ficha de Google.
const PhoneTypeGoogle = "google"

// NormalizePhone deja solo dígitos y quita el "1" inicial de números de 11 dígitos.
// "+1 555-123-4567" -> "5551234567".
func NormalizePhone(num string) string {
	var b strings.Builder
	b.Grow(len(num))
	for i := 0; i < len(num); i++ {
		if c := num[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	digits := b.String()
	if len(digits) == 11 && digits[0] == '1' {
		return digits[1:]
	}
	return digits
}

// DedupePhones conserva la primera aparición de cada número normalizado.
// Entradas cuya clave queda vacía se descartan.
func DedupePhones(list []PhoneEntry) []PhoneEntry {
	seen := make(map[string]struct{}, len(list))
	out := make([]PhoneEntry, 0, len(list))
	for _, p := range list {
		key := NormalizePhone(p.Number)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}

// BestPrimaryPhone elige el teléfono principal: deduplica quedándose con la mayor
// confianza por número y devuelve el de mayor confianza global. Confianza
// desconocida o no finita cuenta como 0. Empates: gana el que apareció primero.
func BestPrimaryPhone(list []PhoneEntry) string {
	type candidate struct {
		num  string
		conf float64
	}
	byKey := make(map[string]int, len(list))
	var cands []candidate
	for _, p := range list {
		num := strings.TrimSpace(p.Number)
		key := NormalizePhone(num)
		if key == "" {
			continue
		}
		conf := 0.0
		if p.Confidence != nil && !math.IsNaN(*p.Confidence) && !math.IsInf(*p.Confidence, 0) {
			conf = *p.Confidence
		}
		if idx, ok := byKey[key]; ok {
			if conf > cands[idx].conf {
				cands[idx] = candidate{num: num, conf: conf}
			}
			continue
		}
		byKey[key] = len(cands)
		cands = append(cands, candidate{num: num, conf: conf})
	}
	if len(cands) == 0 {
		return ""
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].conf > cands[j].conf })
	return cands[0].num
}

// PhonesOf arma la lista cruda de teléfonos en orden de fuente:
// teléfono de Google primero y luego phone_1..phone_5.
func PhonesOf(b *entity.Business) []PhoneEntry {
	out := make([]PhoneEntry, 0, 6)
	if n := strings.TrimSpace(b.GooglePhone); n != "" {
		out = append(out, PhoneEntry{Number: n, Type: PhoneTypeGoogle})
	}
	for _, p := range b.Phones {
		if n := strings.TrimSpace(p.Number); n != "" {
			out = append(out, PhoneEntry{Number: n, Confidence: p.Confidence, Type: p.Source})
		}
	}
	return out
}

// NormalizeURL quita una sola barra final y pasa a minúsculas.
func NormalizeURL(u string) string {
	return strings.ToLower(strings.TrimSuffix(u, "/"))
}

// DedupeByURL conserva la primera aparición de cada URL normalizada; descarta claves vacías.
func DedupeByURL[T any](items []T, urlOf func(T) string) []T {
	seen := make(map[string]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, it := range items {
		key := NormalizeURL(urlOf(it))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, it)
	}
	return out
}

// SocialLinksOf perfiles sociales en orden fijo de plataforma, ya deduplicados.
func SocialLinksOf(b *entity.Business) []SocialLink {
	raw := []SocialLink{
		{"facebook", b.SocialFacebook},
		{"instagram", b.SocialInstagram},
		{"linkedin", b.SocialLinkedin},
		{"twitter", b.SocialTwitter},
		{"youtube", b.SocialYoutube},
		{"tiktok", b.SocialTiktok},
	}
	present := raw[:0]
	for _, s := range raw {
		if strings.TrimSpace(s.URL) != "" {
			present = append(present, s)
		}
	}
	return DedupeByURL(present, func(s SocialLink) string { return s.URL })
}

// WebsitesOf sitios del negocio (hoy solo el oficial de Google), deduplicados.
func WebsitesOf(b *entity.Business) []Website {
	var raw []Website
	if b.GoogleOfficialWebsite != "" {
		raw = append(raw, Website{URL: b.GoogleOfficialWebsite, Type: "official"})
	}
	return DedupeByURL(raw, func(w Website) string { return w.URL })
}
