package leads

import (
	"strings"

	"github.com/jhoicas/leadmine-api/internal/domain/entity"
)

// ServiceTagRules tabla de servicios y amenidades. Los patrones se aplican sobre
// el texto en minúsculas y se acumulan todas las coincidencias.
var ServiceTagRules = RuleTable{
	NewRule("Repair", `\brepair(s|ing)?\b`),
	NewRule("Installation", `\binstall(ation|ing|s)?\b`),
	NewRule("Maintenance", `\bmainten(ance|ance\s*plans|ing)\b`),
	NewRule("Emergency Service", `\bemergency\b`, `24/?7`),
	NewRule("Free Estimate", `\bfree\s+estimate(s)?\b`, `\bestimate(s)?\b`),
	NewRule("Consultation", `\bconsult(ation|ing|s)?\b`),
	NewRule("Cleaning", `\bclean(ing|up|s)?\b`, `\bjanitorial\b`),
	NewRule("Pressure Washing", `\bpressure\s*w(ash(ing)?|ash)\b`),
	NewRule("Roof Replacement", `\broof(\s|-)replacement\b`),
	NewRule("Leak Repair", `\bleak\b`),
	NewRule("Drain Cleaning", `\bdrain\b`),
	NewRule("Septic", `\bseptic\b`),
	NewRule("Electrical", `\belectrical?\b`, `\bwiring\b`, `\bpanel\s*upgrade\b`),
	NewRule("Solar Installation", `\bsolar\b`),
	NewRule("HVAC", `\bhvac\b`, `\bheating\b`, `\bcooling\b`, `\bfurnace\b`, `\bair\s*conditioning\b`),
	NewRule("Duct Cleaning", `\bduct\s*clean(ing)?\b`),
	NewRule("Insulation", `\binsulation\b`),
	NewRule("Landscaping", `\blandscap(ing|er|e)?\b`, `\blawn\b`),
	NewRule("Snow Removal", `\bsnow\s*removal\b`),
	NewRule("Tree Service", `\btree\b`),
	NewRule("Pest Control", `\bpest\s*control\b`, `\bexterminat(e|or|ion)\b`),
	NewRule("Web Design", `\bweb\s*design\b`),
	NewRule("SEO", `\bseo\b`, `search\s*engine\s*optimization`),
	NewRule("Marketing", `\bmarketing\b`, `\badvertis(ing|e|ements?)\b`),
	NewRule("Social Media", `\bsocial\s*media\b`),
	NewRule("Branding", `\bbrand(ing)?\b`),
	NewRule("Photography", `\bphotograph(y|er|ic)\b`),
	NewRule("Catering", `\bcater(ing|s)?\b`),
	NewRule("Delivery", `\bdelivery\b`),
	NewRule("Takeout", `\btake\s*out\b`, `\btakeaway\b`),
	NewRule("Dine-in", `\bdine\s*in\b`),
	NewRule("Reservations", `\breservation(s)?\b`, `\bbook\b`),
	NewRule("Event Hosting", `\bevent(s)?\b`, `\bparty\b`, `\bvenue\b`),
	NewRule("Wedding", `\bwedding(s)?\b`),
	NewRule("Private Dining", `\bprivate\s*dining\b`),
	NewRule("Gluten-Free", `\bgluten[-\s]?free\b`),
	NewRule("Vegan Options", `\bvegan\b`),
	NewRule("Wheelchair Accessible", `\bwheelchair\s*access(ible|ibility)\b`),
	NewRule("Parking", `\bparking\b`),
	NewRule("Wi-Fi", `\bwi?[- ]?fi\b`),
	NewRule("Memberships", `\bmembership(s)?\b`),
	NewRule("Personal Training", `\bpersonal\s*train(ing|er)\b`),
	NewRule("Classes", `\bclass(es)?\b`, `\bcourse(s)?\b`),
	NewRule("Yoga", `\byoga\b`),
	NewRule("Pilates", `\bpilates\b`),
	NewRule("Massage", `\bmassage\b`),
	NewRule("Facials", `\bfacial(s)?\b`),
	NewRule("Manicure", `\bmanicure(s)?\b`),
	NewRule("Pedicure", `\bpedicure(s)?\b`),
	NewRule("Haircut", `\bhair\s*cut(s)?\b`, `\bbarber\b`, `\bhair\s*color(ing)?\b`),
	NewRule("Towing", `\btow(ing|s)?\b`),
	NewRule("Inspection", `\binspection(s)?\b`),
	NewRule("Oil Change", `\boil\s*change\b`),
	NewRule("Tire Service", `\btire(s)?\b`),
	NewRule("Detailing", `\bdetail(ing|er|s)?\b`),
	NewRule("Real Estate", `\breal\s*estate\b`, `\brealt(or|y)\b`),
	NewRule("Property Management", `\bproperty\s*management\b`),
	NewRule("Legal Services", `\blegal\b`, `\battorney\b`, `\blawyer\b`),
	NewRule("Tax Preparation", `\btax\b`),
	NewRule("Bookkeeping", `\bbookkeep(ing|er)?\b`),
	NewRule("Accounting", `\baccount(ing|ant)?\b`),
	NewRule("Teeth Cleaning", `\bteeth\s*clean(ing)?\b`),
	NewRule("Braces", `\bbrace(s)?\b`, `\borthodont(ic|ist)\b`),
	NewRule("Implants", `\bimplant(s)?\b`),
	NewRule("Emergency Dental", `\bemergency\s*dent(al|ist)\b`),
	NewRule("Vaccinations", `\bvaccin(e|ation|ations)\b`),
	NewRule("Grooming", `\bgroom(ing|er)?\b`),
	NewRule("Boarding", `\bboard(ing)?\b`),
	NewRule("Curbside Pickup", `\bcurbside\s*pickup\b`),
}

// ServicesText texto del que se extraen servicios: about-copy, o la descripción si no hay.
func ServicesText(b *entity.Business) string {
	if b.WebsiteAboutCopy != "" {
		return b.WebsiteAboutCopy
	}
	return b.Description
}

// ExtractServiceTags todas las etiquetas de servicio presentes en el texto.
func ExtractServiceTags(text string) []string {
	return ServiceTagRules.AllMatches(strings.ToLower(text))
}
