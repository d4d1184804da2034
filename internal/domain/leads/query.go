package leads

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey criterio de orden del visor.
type SortKey string

const (
	SortDefault      SortKey = ""
	SortIntelligence SortKey = "intelligence"
	SortPhones       SortKey = "phones"
	SortWebsites     SortKey = "websites"
	SortReviews      SortKey = "reviews"
	SortRating       SortKey = "rating"
	SortName         SortKey = "name"
	SortCategory     SortKey = "category"
)

var sortKeys = map[SortKey]struct{}{
	SortIntelligence: {}, SortPhones: {}, SortWebsites: {}, SortReviews: {},
	SortRating: {}, SortName: {}, SortCategory: {},
}

// RawQuery parámetros tal como llegan del query string.
type RawQuery struct {
	Search   string
	Category string
	MinScore string
	Verified string
	Outreach string
	Stage    string
	Page     string
	PerPage  string
	SortBy   string
	SortDir  string
}

// QueryLimits valores por defecto y techo de per_page.
type QueryLimits struct {
	DefaultPerPage int
	MaxPerPage     int
}

// Query parámetros ya saneados. Verified nil = sin filtro.
type Query struct {
	Search   string
	Category string
	MinScore int
	Verified *bool
	Outreach string
	Stage    string
	Page     int
	PerPage  int
	SortBy   SortKey
	Asc      bool
}

// ParseQuery nunca falla: numéricos inválidos caen a valores seguros
// (page 1, per_page por defecto, min_score 0) y un sort_by desconocido al orden por defecto.
func ParseQuery(raw RawQuery, limits QueryLimits) Query {
	if limits.DefaultPerPage <= 0 {
		limits.DefaultPerPage = 50
	}
	if limits.MaxPerPage < limits.DefaultPerPage {
		limits.MaxPerPage = limits.DefaultPerPage
	}

	q := Query{
		Search:   strings.TrimSpace(raw.Search),
		Outreach: raw.Outreach,
		Stage:    raw.Stage,
		Page:     1,
		PerPage:  limits.DefaultPerPage,
		Asc:      strings.EqualFold(strings.TrimSpace(raw.SortDir), "asc"),
	}

	if c := strings.ToLower(strings.TrimSpace(raw.Category)); c != "all" {
		q.Category = c
	}
	if n, err := strconv.Atoi(strings.TrimSpace(raw.MinScore)); err == nil && n > 0 {
		q.MinScore = n
	}
	switch raw.Verified {
	case "true":
		v := true
		q.Verified = &v
	case "false":
		v := false
		q.Verified = &v
	}
	if n, err := strconv.Atoi(strings.TrimSpace(raw.Page)); err == nil && n > 0 {
		q.Page = n
	}
	if n, err := strconv.Atoi(strings.TrimSpace(raw.PerPage)); err == nil && n > 0 {
		q.PerPage = min(n, limits.MaxPerPage)
	}
	if k := SortKey(strings.ToLower(strings.TrimSpace(raw.SortBy))); k != "" {
		if _, ok := sortKeys[k]; ok {
			q.SortBy = k
		}
	}
	return q
}

// Filter aplica los filtros activos de q (conjunción).
func Filter(list []View, q Query) []View {
	out := make([]View, 0, len(list))
	for _, v := range list {
		if q.Category != "" && strings.ToLower(v.Category) != q.Category {
			continue
		}
		if q.Verified != nil && v.Verified != *q.Verified {
			continue
		}
		if q.Outreach != "" && v.OutreachStatus != q.Outreach {
			continue
		}
		if q.Stage != "" && v.Stage != q.Stage {
			continue
		}
		if q.MinScore > 0 && v.IntelligenceScore < q.MinScore {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Sort ordena en sitio. La dirección invierte solo la comparación principal;
// los desempates son siempre fijos. Categoría vacía va al final en ambas direcciones.
func Sort(list []View, key SortKey, asc bool) {
	// collate.Collator no es seguro para uso concurrente.
	coll := collate.New(language.English)
	byName := func(a, b View) int { return coll.CompareString(a.Name, b.Name) }
	dir := -1
	if asc {
		dir = 1
	}

	var cmp func(a, b View) int
	switch key {
	case SortIntelligence:
		cmp = func(a, b View) int {
			if c := dir * compareInt(a.IntelligenceScore, b.IntelligenceScore); c != 0 {
				return c
			}
			if c := compareFloat(b.AverageRating, a.AverageRating); c != 0 {
				return c
			}
			return byName(a, b)
		}
	case SortPhones:
		cmp = byCount(dir, func(v View) int { return v.PhonesFound }, byName)
	case SortWebsites:
		cmp = byCount(dir, func(v View) int { return v.WebsitesFound }, byName)
	case SortReviews:
		cmp = byCount(dir, func(v View) int { return v.TotalReviews }, byName)
	case SortRating:
		cmp = func(a, b View) int {
			if c := dir * compareFloat(a.AverageRating, b.AverageRating); c != 0 {
				return c
			}
			return byName(a, b)
		}
	case SortName:
		cmp = func(a, b View) int { return dir * byName(a, b) }
	case SortCategory:
		cmp = func(a, b View) int {
			switch {
			case a.Category == "" && b.Category != "":
				return 1
			case a.Category != "" && b.Category == "":
				return -1
			}
			if c := dir * coll.CompareString(a.Category, b.Category); c != 0 {
				return c
			}
			return byName(a, b)
		}
	default:
		cmp = func(a, b View) int {
			if c := compareInt(b.IntelligenceScore, a.IntelligenceScore); c != 0 {
				return c
			}
			if c := compareFloat(b.AverageRating, a.AverageRating); c != 0 {
				return c
			}
			return byName(a, b)
		}
	}
	sort.SliceStable(list, func(i, j int) bool { return cmp(list[i], list[j]) < 0 })
}

func byCount(dir int, field func(View) int, tie func(a, b View) int) func(a, b View) int {
	return func(a, b View) int {
		if c := dir * compareInt(field(a), field(b)); c != 0 {
			return c
		}
		return tie(a, b)
	}
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Page una página de resultados con su metadata.
type Page struct {
	Items      []View
	Total      int
	Page       int
	PerPage    int
	TotalPages int
}

// Paginate corta la página pedida. totalPages = max(1, ceil(total/perPage)) y
// la página se acota a [1, totalPages].
func Paginate(list []View, page, perPage int) Page {
	if perPage <= 0 {
		perPage = 1
	}
	total := len(list)
	totalPages := max(1, (total+perPage-1)/perPage)
	page = max(1, min(page, totalPages))
	start := min((page-1)*perPage, total)
	end := min(start+perPage, total)
	return Page{
		Items:      list[start:end],
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}
}

// Run ejecuta filtrar → ordenar → paginar sobre vistas ya construidas.
func Run(list []View, q Query) Page {
	filtered := Filter(list, q)
	Sort(filtered, q.SortBy, q.Asc)
	return Paginate(filtered, q.Page, q.PerPage)
}
