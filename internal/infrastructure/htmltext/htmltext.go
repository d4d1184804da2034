// Package htmltext limpia el HTML que el scraper deja en descripciones y about-copy.
package htmltext

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// tagStart reconoce el comienzo de una etiqueta de apertura o cierre.
var tagStart = regexp.MustCompile(`^</?([a-zA-Z][a-zA-Z0-9]*)(?:[\s/>]|$)`)

var knownTags = map[string]bool{
	"a": true, "b": true, "i": true, "u": true, "em": true, "strong": true, "small": true,
	"span": true, "p": true, "div": true, "br": true, "hr": true, "font": true, "center": true,
	"ul": true, "ol": true, "li": true, "dl": true, "dt": true, "dd": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"img": true, "table": true, "thead": true, "tbody": true, "tr": true, "td": true, "th": true,
	"section": true, "article": true, "header": true, "footer": true, "nav": true, "main": true,
	"blockquote": true, "pre": true, "code": true, "sup": true, "sub": true,
	"script": true, "style": true, "noscript": true, "html": true, "body": true, "head": true,
}

// Clean devuelve el texto visible de s con espacios colapsados. Solo se parsea
// cuando s contiene etiquetas HTML reconocibles; un '<' suelto ("11am<midnight",
// "a < b") se conserva como texto. Si el HTML no se puede leer, devuelve s.
func Clean(s string) string {
	markup, ok := escapeStray(s)
	if !ok {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return s
	}
	doc.Find("script, style, noscript").Remove()
	doc.Find("br, p, div, li, h1, h2, h3, h4").Each(func(_ int, sel *goquery.Selection) {
		sel.AppendHtml(" ")
	})
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// escapeStray escapa cada '<' que no abre una etiqueta conocida ni un comentario.
// ok indica si s contiene al menos una etiqueta real.
func escapeStray(s string) (out string, ok bool) {
	if !strings.ContainsRune(s, '<') {
		return s, false
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '<' {
			sb.WriteByte(s[i])
			continue
		}
		rest := s[i:]
		if strings.HasPrefix(rest, "<!--") {
			ok = true
			sb.WriteByte('<')
			continue
		}
		if m := tagStart.FindStringSubmatch(rest); m != nil && knownTags[strings.ToLower(m[1])] {
			ok = true
			sb.WriteByte('<')
			continue
		}
		sb.WriteString("&lt;")
	}
	return sb.String(), ok
}
