package leads_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/leadmine-api/internal/domain/entity"
	"github.com/jhoicas/leadmine-api/internal/domain/leads"
)

func TestInferCategory_EspecificoAntesQueGenerico(t *testing.T) {
	b := &entity.Business{BusinessName: "Tony's Pizza Restaurant"}
	assert.Equal(t, "Pizza", leads.InferCategory(b))

	b = &entity.Business{BusinessName: "Glam Nail Salon"}
	assert.Equal(t, "Nail Salon", leads.InferCategory(b))
}

func TestInferCategory_UsaDescripcionYAbout(t *testing.T) {
	b := &entity.Business{BusinessName: "Sunrise", Description: "Fresh espresso every morning"}
	assert.Equal(t, "Cafe", leads.InferCategory(b))

	b = &entity.Business{BusinessName: "Sunrise", WebsiteAboutCopy: "Best BARBECUE in town"}
	assert.Equal(t, "BBQ", leads.InferCategory(b))
}

func TestInferCategory_SinCoincidencia(t *testing.T) {
	assert.Equal(t, "", leads.InferCategory(&entity.Business{BusinessName: "Zed Holdings"}))
	assert.Equal(t, "", leads.InferCategory(&entity.Business{}))
}

func TestRuleTable_ElOrdenDecide(t *testing.T) {
	text := "pizza restaurant"
	pizzaFirst := leads.RuleTable{
		leads.NewFoldRule("Pizza", `\bpizza\b`),
		leads.NewFoldRule("Restaurant", `\brestaurant\b`),
	}
	restaurantFirst := leads.RuleTable{pizzaFirst[1], pizzaFirst[0]}

	assert.Equal(t, "Pizza", pizzaFirst.FirstMatch(text))
	assert.Equal(t, "Restaurant", restaurantFirst.FirstMatch(text))
}

func TestRuleTable_AllMatchesSinRepetir(t *testing.T) {
	table := leads.RuleTable{
		leads.NewRule("Delivery", `\bdelivery\b`),
		leads.NewRule("Catering", `\bcater(ing)?\b`),
		leads.NewRule("Delivery", `\bdeliver\b`),
	}
	assert.Equal(t, []string{"Delivery", "Catering"}, table.AllMatches("we deliver and offer delivery and catering"))
	assert.Equal(t, []string{}, table.AllMatches(""))
	assert.Equal(t, []string{"Delivery", "Catering"}, table.Labels())
}

func TestExtractServiceTags(t *testing.T) {
	tags := leads.ExtractServiceTags("Free Wi-Fi, curbside pickup and a trusted attorney on staff")
	assert.Contains(t, tags, "Wi-Fi")
	assert.Contains(t, tags, "Curbside Pickup")
	assert.Contains(t, tags, "Legal Services")
}

func TestExtractServiceTags_VariantesWiFi(t *testing.T) {
	for _, text := range []string{"free wifi", "Free WiFi", "wi-fi lounge", "wi fi", "w-fi"} {
		assert.Contains(t, leads.ExtractServiceTags(text), "Wi-Fi", text)
	}
	assert.NotContains(t, leads.ExtractServiceTags("wood-fired oven"), "Wi-Fi")
	assert.Equal(t, []string{"Legal Services"}, leads.ExtractServiceTags("ask our attorney"))
}

func TestServicesText_PrefiereAbout(t *testing.T) {
	b := &entity.Business{Description: "desc", WebsiteAboutCopy: "about"}
	assert.Equal(t, "about", leads.ServicesText(b))
	b.WebsiteAboutCopy = ""
	assert.Equal(t, "desc", leads.ServicesText(b))
}

func TestKnownCategories_SinDuplicados(t *testing.T) {
	cats := leads.KnownCategories()
	seen := map[string]bool{}
	for _, c := range cats {
		assert.False(t, seen[c], c)
		seen[c] = true
	}
	assert.Contains(t, cats, "Cafe")
}
