package leads_test

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/leadmine-api/internal/domain/entity"
	"github.com/jhoicas/leadmine-api/internal/domain/leads"
)

func withRelations(b entity.Business, cf map[string]any, status entity.LeadStatus) *entity.BusinessWithRelations {
	r := &entity.BusinessWithRelations{Business: b}
	if cf != nil {
		ed := entity.NewEditableData("ed-"+b.ID, b.ID, time.Now())
		ed.CustomFields = cf
		r.EditableData = ed
	}
	if status != "" {
		r.LeadInfo = entity.NewLeadInfo("li-"+b.ID, b.ID, entity.AssigneeSystem, entity.LeadSourceLegacyViewer, time.Now())
		r.LeadInfo.Status = status
	}
	return r
}

func TestBuild_VistaCompleta(t *testing.T) {
	b := entity.Business{
		ID:                    "b1",
		BusinessName:          "Bean There Coffee",
		GoogleAddress:         "1 Main St",
		GooglePhone:           "+1 555-123-4567",
		GoogleOfficialWebsite: "https://beanthere.com",
		GoogleRating:          4.4,
		GoogleReviewsCount:    12,
		SocialFacebook:        "https://facebook.com/beanthere",
		WebsiteAboutCopy:      "Espresso bar with free wifi and vegan pastries",
	}
	b.Phones[0] = entity.ScrapedPhone{Number: "5551234567", Source: "website"}

	v := leads.NewViewBuilder().Build(withRelations(b, map[string]any{"verified": "yes"}, entity.LeadStatusContacted))

	assert.Equal(t, "Cafe", v.Category)
	assert.Equal(t, 1, v.PhonesFound, "duplicado normalizado")
	assert.Equal(t, 1, v.SocialAccounts)
	assert.Equal(t, 1, v.WebsitesFound)
	assert.Equal(t, 1, v.ReviewsFound)
	assert.True(t, v.Verified)
	assert.Equal(t, "contacted", v.OutreachStatus)
	assert.Equal(t, "prospect", v.Stage)
	assert.Contains(t, v.ServicesTags, "Wi-Fi")
	assert.Contains(t, v.ServicesTags, "Vegan Options")
	assert.Equal(t, 1+1+1+1+4, v.IntelligenceScore)
}

func TestBuild_CategoriaExplicitaGana(t *testing.T) {
	b := entity.Business{ID: "b2", BusinessName: "Pizza Palace"}
	v := leads.NewViewBuilder().Build(withRelations(b, map[string]any{"category": "Bar"}, ""))
	assert.Equal(t, "Bar", v.Category)
	assert.Equal(t, "", v.Stage)
	assert.NotNil(t, v.ServicesTags)
}

func TestBuild_FalloDeInferenciaNoAborta(t *testing.T) {
	broken := leads.RuleTable{{Label: "Broken", Patterns: []*regexp.Regexp{nil}}}
	var recovered []string
	vb := leads.NewViewBuilder(
		leads.WithCategoryRules(broken),
		leads.WithRecoverHook(func(id string, _ any) { recovered = append(recovered, id) }),
	)

	b := entity.Business{ID: "b3", BusinessName: "Cafe Uno", GoogleRating: 5}
	views := vb.BuildAll([]*entity.BusinessWithRelations{withRelations(b, nil, "")})

	require.Len(t, views, 1)
	assert.Equal(t, "", views[0].Category)
	assert.Equal(t, []string{}, views[0].ServicesTags)
	assert.Equal(t, 5, views[0].IntelligenceScore)
	assert.Equal(t, []string{"b3"}, recovered)
}

func TestBuild_TextCleaner(t *testing.T) {
	vb := leads.NewViewBuilder(leads.WithTextCleaner(func(s string) string {
		return strings.ReplaceAll(s, "<b>", "")
	}))
	b := entity.Business{ID: "b4", BusinessName: "X", Description: "<b>sushi"}
	v := vb.Build(withRelations(b, nil, ""))
	assert.Equal(t, "<b>sushi", v.Services, "services se muestra sin limpiar")
	assert.Equal(t, "Sushi", v.Category)
	assert.Equal(t, "Sushi", vb.InferCategory(&b))
}

// La limpieza no altera lo que se muestra aunque cambie el texto que ven las reglas.
func TestBuild_TextCleanerNoTocaServices(t *testing.T) {
	vb := leads.NewViewBuilder(leads.WithTextCleaner(func(string) string { return "" }))
	desc := "Open 11am<midnight daily. Wood-fired pizza and wings"
	b := entity.Business{ID: "b5", BusinessName: "Tony", Description: desc}

	v := vb.Build(withRelations(b, nil, ""))
	assert.Equal(t, desc, v.Services)
	assert.Equal(t, "", v.Category)
	assert.Equal(t, []string{}, v.ServicesTags)
	assert.Equal(t, "", vb.InferCategory(&b))
}

func TestViewBuilder_InferCategorySinLimpieza(t *testing.T) {
	b := entity.Business{ID: "b6", BusinessName: "Tony", Description: "Open 11am<midnight daily. Wood-fired pizza and wings"}
	assert.Equal(t, "Pizza", leads.NewViewBuilder().InferCategory(&b))
	assert.Equal(t, leads.InferCategory(&b), leads.NewViewBuilder().InferCategory(&b))
}

func TestBuildDetail_ReseñasTolerantes(t *testing.T) {
	vb := leads.NewViewBuilder()

	b := entity.Business{ID: "b5", GoogleReviewsJSON: `[{"author":"Ana","rating":5,"text":"great"},"basura",{"author":"Luis"}]`}
	d := vb.BuildDetail(withRelations(b, nil, ""))
	require.Len(t, d.Google.Reviews, 2)
	assert.Equal(t, "Ana", d.Google.Reviews[0].Author)

	b.GoogleReviewsJSON = "{not json"
	d = vb.BuildDetail(withRelations(b, nil, ""))
	assert.Equal(t, []leads.GoogleReview{}, d.Google.Reviews)
}
