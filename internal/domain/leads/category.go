package leads

import (
	"strings"

	"github.com/jhoicas/leadmine-api/internal/domain/entity"
)

// CategoryRules tabla de categorías. Las variantes específicas (cocinas, Nail Salon,
// Car Wash, Yoga Studio) van antes de su categoría genérica para que ganen.
var CategoryRules = RuleTable{
	NewFoldRule("Pizza", `\bpizza\b`, `\bpizzeria\b`),
	NewFoldRule("Sushi", `\bsushi\b`),
	NewFoldRule("Chinese Restaurant", `\bchinese\b`),
	NewFoldRule("Indian Restaurant", `\bindian\b`, `\bcurry\b`),
	NewFoldRule("Thai Restaurant", `\bthai\b`),
	NewFoldRule("Mexican Restaurant", `\bmexican\b`, `\btaqueria\b`),
	NewFoldRule("Seafood", `\bseafood\b`, `\bfish\b`, `\boyster\b`),
	NewFoldRule("Steakhouse", `\bsteak\b`),
	NewFoldRule("BBQ", `\bbbq\b`, `barbecue`),
	NewFoldRule("Restaurant", `\brestaurant\b`, `\bdiner\b`),
	NewFoldRule("Cafe", `\bcafe\b`, `\bcoffee\b`, `\bespresso\b`),
	NewFoldRule("Bakery", `\bbakery\b`, `\bbaker\b`),
	NewFoldRule("Bar", `\bbar\b`, `\bpub\b`, `\btavern\b`, `\bbrewery\b`),

	NewFoldRule("Nail Salon", `\bnail\b`),
	NewFoldRule("Salon", `\bsalon\b`, `\bhair\b`, `\bbarber\b`),
	NewFoldRule("Spa", `\bspa\b`, `\bmassage\b`),

	NewFoldRule("Yoga Studio", `\byoga\b`, `\bpilates\b`),
	NewFoldRule("Gym", `\bgym\b`, `\bfitness\b`),

	NewFoldRule("Hotel", `\bhotel\b`, `\binn\b`, `\blodge\b`, `\bmotel\b`),

	NewFoldRule("Car Wash", `\bcar\s*wash\b`),
	NewFoldRule("Car Dealership", `\bdealership\b`),
	NewFoldRule("Auto Repair", `\bauto\b`, `\bmechanic\b`, `\brepair\b`, `\btire\b`, `\bgarage\b`),

	NewFoldRule("Plumber", `\bplumb\w*`),
	NewFoldRule("Electrician", `\belectric\w*`),
	NewFoldRule("HVAC", `\bhvac\b`, `\bheating\b`, `\bcooling\b`, `\bfurnace\b`),
	NewFoldRule("Roofer", `\broof\w*`),
	NewFoldRule("Painter", `\bpaint\w*`),
	NewFoldRule("Landscaping", `\blandscap\w*`, `\blawn\b`, `\bsnow removal\b`),
	NewFoldRule("Construction", `\bconstruct\w*`, `\bcontractor\b`),

	NewFoldRule("Real Estate", `\breal\s*estate\b`, `\brealtor\b`),
	NewFoldRule("Law Firm", `\blaw\b`, `\blawyer\b`, `\blegal\b`),
	NewFoldRule("Accounting", `\baccount\w*`, `\btax\b`, `\bbookkeep\w*`),

	NewFoldRule("Medical Clinic", `\bclinic\b`, `\bmedical\b`),
	NewFoldRule("Dentist", `\bdent\w*`),
	NewFoldRule("Pharmacy", `\bpharmac\w*`),
	NewFoldRule("Veterinary", `\bvet\w*`, `\bveterinary\b`),

	NewFoldRule("Grocery", `\bgrocery\b`, `\bsupermarket\b`),
	NewFoldRule("Convenience Store", `\bconvenience\b`),
	NewFoldRule("Hardware Store", `\bhardware\b`),
	NewFoldRule("Retail", `\bboutique\b`, `\bclothing\b`, `\bapparel\b`, `\bstore\b`, `\bshop\b`),

	NewFoldRule("School", `\bschool\b`, `\bdaycare\b`, `\bchildcare\b`, `\btutoring\b`),

	NewFoldRule("Cleaning Service", `\bclean\w*`, `\bjanitorial\b`),
	NewFoldRule("Photography", `\bphotograph\w*`),
	NewFoldRule("Marketing Agency", `\bmarketing\b`, `\badvertis\w*`, `\bsocial\s*media\b`),
	NewFoldRule("Design/Print", `\bgraphic\b`, `\bdesign\b`, `\bprint\w*`, `\bweb\s*design\b`),
	NewFoldRule("Locksmith", `\blocksmith\b`),
}

// CategoryText une nombre, descripción y about-copy (los no vacíos) con " \n ".
func CategoryText(b *entity.Business) string {
	parts := make([]string, 0, 3)
	for _, s := range []string{b.BusinessName, b.Description, b.WebsiteAboutCopy} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " \n ")
}

// InferCategory categoría inferida del texto del negocio con la tabla por defecto; "" si no hay match.
func InferCategory(b *entity.Business) string {
	return CategoryRules.FirstMatch(CategoryText(b))
}

// KnownCategories etiquetas de la tabla por defecto, en orden de prioridad.
func KnownCategories() []string {
	return CategoryRules.Labels()
}
