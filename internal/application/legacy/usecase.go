// Package legacy implementa el visor legacy: el pipeline normalizar → inferir →
// filtrar → ordenar → paginar sobre los negocios, más estadísticas, exportación y ficha PDF.
package legacy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/leadmine-api/internal/application/dto"
	"github.com/jhoicas/leadmine-api/internal/application/ports"
	"github.com/jhoicas/leadmine-api/internal/domain"
	"github.com/jhoicas/leadmine-api/internal/domain/entity"
	"github.com/jhoicas/leadmine-api/internal/domain/leads"
	"github.com/jhoicas/leadmine-api/internal/domain/repository"
	"github.com/jhoicas/leadmine-api/internal/infrastructure/htmltext"
	"github.com/jhoicas/leadmine-api/internal/infrastructure/metrics"
	"github.com/jhoicas/leadmine-api/pkg/logger"
)

const (
	statsCacheKey = "legacy:stats"
	loadedFile    = "Database (PostgreSQL)"
)

// UseCase casos de uso del visor legacy.
type UseCase struct {
	businesses repository.BusinessRepository
	tx         ports.TxRunner
	cache      ports.Cache
	exporter   ports.ViewExporter
	sheets     ports.LeadSheetRenderer
	views      *leads.ViewBuilder
	limits     leads.QueryLimits
	statsTTL   time.Duration
	log        *logger.Logger
	now        func() time.Time
}

// Deps dependencias del visor.
type Deps struct {
	Businesses repository.BusinessRepository
	Tx         ports.TxRunner
	Cache      ports.Cache
	Exporter   ports.ViewExporter
	Sheets     ports.LeadSheetRenderer
	Limits     leads.QueryLimits
	StatsTTL   time.Duration
	Log        *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(d Deps) *UseCase {
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	log := d.Log.Component("legacy")
	return &UseCase{
		businesses: d.Businesses,
		tx:         d.Tx,
		cache:      d.Cache,
		exporter:   d.Exporter,
		sheets:     d.Sheets,
		views:      NewViewBuilder(log),
		limits:     d.Limits,
		statsTTL:   d.StatsTTL,
		log:        log,
		now:        time.Now,
	}
}

// NewViewBuilder builder de vistas con limpieza de HTML; las inferencias que entran
// en pánico se registran y cuentan en métricas.
func NewViewBuilder(log *logger.Logger) *leads.ViewBuilder {
	return leads.NewViewBuilder(
		leads.WithTextCleaner(htmltext.Clean),
		leads.WithRecoverHook(func(businessID string, recovered any) {
			metrics.IncInferenceRecovery()
			log.Warn().Str("business_id", businessID).Interface("panic", recovered).
				Msg("inferencia fallida; se devuelve el registro sin categoría ni tags")
		}),
	)
}

// loadViews trae los negocios que coinciden con search y construye sus vistas.
func (uc *UseCase) loadViews(ctx context.Context, op, search string) ([]leads.View, error) {
	start := time.Now()
	list, err := uc.businesses.SearchForViewer(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("legacy %s: %w", op, err)
	}
	views := uc.views.BuildAll(list)
	metrics.ObservePipeline(op, len(views), time.Since(start))
	return views, nil
}

// List ejecuta el pipeline completo y devuelve la página pedida.
func (uc *UseCase) List(ctx context.Context, raw leads.RawQuery) (*dto.LegacyListResponse, error) {
	q := leads.ParseQuery(raw, uc.limits)
	views, err := uc.loadViews(ctx, "list", q.Search)
	if err != nil {
		return nil, err
	}
	page := leads.Run(views, q)
	items := page.Items
	if items == nil {
		items = []leads.View{}
	}
	return &dto.LegacyListResponse{
		Businesses: items,
		Total:      page.Total,
		Page:       page.Page,
		PerPage:    page.PerPage,
		TotalPages: page.TotalPages,
	}, nil
}

// Export escribe el resultado completo (mismos filtros y orden, sin paginar) en w.
func (uc *UseCase) Export(ctx context.Context, raw leads.RawQuery, w io.Writer) error {
	q := leads.ParseQuery(raw, uc.limits)
	views, err := uc.loadViews(ctx, "export", q.Search)
	if err != nil {
		return err
	}
	filtered := leads.Filter(views, q)
	leads.Sort(filtered, q.SortBy, q.Asc)
	if err := uc.exporter.Export(w, filtered); err != nil {
		return fmt.Errorf("legacy export: %w", err)
	}
	return nil
}

// Detail vista de un negocio con el bloque de Google. ErrNotFound si no existe.
func (uc *UseCase) Detail(ctx context.Context, id string) (*leads.DetailView, error) {
	b, err := uc.businesses.GetWithRelations(ctx, id, 0)
	if err != nil {
		return nil, fmt.Errorf("legacy detail: %w", err)
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	v := uc.views.BuildDetail(b)
	return &v, nil
}

// Sheet ficha PDF del negocio.
func (uc *UseCase) Sheet(ctx context.Context, id string) ([]byte, error) {
	v, err := uc.Detail(ctx, id)
	if err != nil {
		return nil, err
	}
	out, err := uc.sheets.Render(*v)
	if err != nil {
		return nil, fmt.Errorf("legacy sheet: %w", err)
	}
	return out, nil
}

// Update aplica los cambios del visor en una transacción: overlay (verified, category,
// notes) y, si stage u outreach resuelven un estado, el lead.
func (uc *UseCase) Update(ctx context.Context, id string, in dto.LegacyUpdateRequest) error {
	exists, err := uc.businesses.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("legacy update: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}

	var verified *bool
	if in.Verified != nil {
		var raw any
		if err := json.Unmarshal(in.Verified, &raw); err != nil {
			return domain.ErrInvalidInput
		}
		v := entity.Truthy(raw)
		verified = &v
	}
	status, hasStatus := leads.ResolveStatus(deref(in.Stage), deref(in.OutreachStatus))
	now := uc.now()

	err = uc.tx.Run(ctx, func(r ports.TxRepos) error {
		ed, err := r.EditableData.GetByBusinessID(ctx, id)
		if err != nil {
			return err
		}
		if ed == nil {
			ed = entity.NewEditableData(uuid.New().String(), id, now)
		}
		custom := ed.CloneCustomFields()
		if verified != nil {
			custom[entity.CustomFieldVerified] = *verified
		}
		if c, ok := in.Category.(string); ok {
			custom[entity.CustomFieldCategory] = c
		}
		ed.CustomFields = custom
		if n, ok := in.Notes.(string); ok {
			ed.Notes = n
		}
		ed.UpdatedAt = now
		if err := r.EditableData.Upsert(ctx, ed); err != nil {
			return err
		}

		if !hasStatus {
			return nil
		}
		li, err := r.LeadInfo.GetByBusinessID(ctx, id)
		if err != nil {
			return err
		}
		if li == nil {
			li = entity.NewLeadInfo(uuid.New().String(), id, entity.AssigneeSystem, entity.LeadSourceLegacyViewer, now)
		}
		li.Status = status
		li.UpdatedAt = now
		return r.LeadInfo.Upsert(ctx, li)
	})
	if err != nil {
		return fmt.Errorf("legacy update: %w", err)
	}
	uc.InvalidateStats(ctx)
	return nil
}

// Stats coberturas agregadas. Se cachean statsTTL; un error de caché no rompe la respuesta.
func (uc *UseCase) Stats(ctx context.Context) (*dto.LegacyStatsResponse, error) {
	if raw, found, err := uc.cache.Get(ctx, statsCacheKey); err != nil {
		metrics.ObserveCacheLookup(statsCacheKey, "error")
		uc.log.Warn().Err(err).Msg("caché de estadísticas no disponible")
	} else if found {
		var cached dto.LegacyStatsResponse
		if err := json.Unmarshal(raw, &cached); err == nil {
			metrics.ObserveCacheLookup(statsCacheKey, "hit")
			return &cached, nil
		}
	} else {
		metrics.ObserveCacheLookup(statsCacheKey, "miss")
	}

	cov, err := uc.businesses.Coverage(ctx)
	if err != nil {
		return nil, fmt.Errorf("legacy stats: %w", err)
	}
	views, err := uc.loadViews(ctx, "stats", "")
	if err != nil {
		return nil, err
	}

	out := &dto.LegacyStatsResponse{
		TotalBusinesses:      cov.Total,
		PhoneCoverage:        percent(cov.WithPhone, cov.Total),
		SocialCoverage:       percent(cov.WithSocial, cov.Total),
		ReviewCoverage:       percent(cov.WithReviews, cov.Total),
		WebsiteCoverage:      percent(cov.WithWebsite, cov.Total),
		AvgIntelligenceScore: meanScore(views),
		AvgRating:            cov.AvgRating,
		LoadedFile:           loadedFile,
	}
	if raw, err := json.Marshal(out); err == nil {
		if err := uc.cache.Set(ctx, statsCacheKey, raw, uc.statsTTL); err != nil {
			uc.log.Warn().Err(err).Msg("no se pudo cachear estadísticas")
		}
	}
	return out, nil
}

// InvalidateStats descarta las estadísticas cacheadas.
func (uc *UseCase) InvalidateStats(ctx context.Context) {
	if err := uc.cache.Del(ctx, statsCacheKey); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo invalidar caché de estadísticas")
	}
}

// Categories categorías presentes en los datos (explícitas o inferidas) con su cantidad.
func (uc *UseCase) Categories(ctx context.Context) (*dto.CategoriesResponse, error) {
	views, err := uc.loadViews(ctx, "categories", "")
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, v := range views {
		if v.Category != "" {
			counts[v.Category]++
		}
	}
	out := make([]dto.CategoryCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, dto.CategoryCount{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return &dto.CategoriesResponse{Categories: out}, nil
}

// KnownCategories etiquetas de la tabla de reglas, en orden de prioridad.
func (uc *UseCase) KnownCategories() dto.KnownCategoriesResponse {
	return dto.KnownCategoriesResponse{Categories: leads.KnownCategories()}
}

func percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// meanScore media del score con un decimal; 0 sin vistas.
func meanScore(views []leads.View) float64 {
	if len(views) == 0 {
		return 0
	}
	sum := 0
	for _, v := range views {
		sum += v.IntelligenceScore
	}
	return math.Round(float64(sum)/float64(len(views))*10) / 10
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
