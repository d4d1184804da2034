package leads

import "regexp"

// Rule asocia una etiqueta a un conjunto de patrones; basta con que uno coincida.
type Rule struct {
	Label    string
	Patterns []*regexp.Regexp
}

// RuleTable tabla ordenada de reglas. El orden es parte del comportamiento.
type RuleTable []Rule

// NewRule compila los patrones tal cual. Panic si alguno es inválido (tablas estáticas).
func NewRule(label string, patterns ...string) Rule {
	r := Rule{Label: label, Patterns: make([]*regexp.Regexp, 0, len(patterns))}
	for _, p := range patterns {
		r.Patterns = append(r.Patterns, regexp.MustCompile(p))
	}
	return r
}

// NewFoldRule igual que NewRule pero sin distinguir mayúsculas.
func NewFoldRule(label string, patterns ...string) Rule {
	folded := make([]string, len(patterns))
	for i, p := range patterns {
		folded[i] = "(?i)" + p
	}
	return NewRule(label, folded...)
}

func (r Rule) matches(text string) bool {
	for _, re := range r.Patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// FirstMatch recorre la tabla en orden y devuelve la etiqueta de la primera regla
// con algún patrón que coincida, o "" si ninguna coincide.
func (t RuleTable) FirstMatch(text string) string {
	if text == "" {
		return ""
	}
	for _, r := range t {
		if r.matches(text) {
			return r.Label
		}
	}
	return ""
}

// AllMatches acumula todas las etiquetas que coinciden, sin repetir,
// en el orden en que aparecen en la tabla.
func (t RuleTable) AllMatches(text string) []string {
	out := []string{}
	if text == "" {
		return out
	}
	seen := make(map[string]struct{})
	for _, r := range t {
		if _, ok := seen[r.Label]; ok {
			continue
		}
		if r.matches(text) {
			seen[r.Label] = struct{}{}
			out = append(out, r.Label)
		}
	}
	return out
}

// Labels etiquetas de la tabla en orden, sin repetir.
func (t RuleTable) Labels() []string {
	out := make([]string, 0, len(t))
	seen := make(map[string]struct{}, len(t))
	for _, r := range t {
		if _, ok := seen[r.Label]; ok {
			continue
		}
		seen[r.Label] = struct{}{}
		out = append(out, r.Label)
	}
	return out
}
