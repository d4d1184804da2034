package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/leadmine-api/internal/domain/entity"
	"github.com/jhoicas/leadmine-api/internal/domain/repository"
)

var _ repository.BusinessRepository = (*BusinessRepo)(nil)

// BusinessRepo implementación de BusinessRepository (usable con pool o tx).
type BusinessRepo struct {
	q     Querier
	notes *NoteRepo
}

// NewBusinessRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBusinessRepository(q Querier) *BusinessRepo {
	return &BusinessRepo{q: q, notes: NewNoteRepository(q)}
}

// Exists indica si hay un negocio con ese id.
func (r *BusinessRepo) Exists(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM businesses WHERE id = $1)`, id).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("exists business: %w", err)
	}
	return ok, nil
}

// GetWithRelations negocio con overlay, lead y notas (notesLimit 0 = todas).
func (r *BusinessRepo) GetWithRelations(ctx context.Context, id string, notesLimit int) (*entity.BusinessWithRelations, error) {
	query := `SELECT ` + selectList(businessColumns, editableColumns, leadColumns) + relationsJoin + `
		WHERE b.id = $1`
	var row relationsRow
	if err := row.scan(r.q.QueryRow(ctx, query, id), false); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get business: %w", err)
	}
	b, err := row.result()
	if err != nil {
		return nil, err
	}
	notes, err := r.notes.ListByBusiness(ctx, id, notesLimit)
	if err != nil {
		return nil, err
	}
	b.Notes = notes
	return b, nil
}

// SearchForViewer búsqueda gruesa del visor legacy; el resto del filtrado es en memoria.
func (r *BusinessRepo) SearchForViewer(ctx context.Context, search string) ([]*entity.BusinessWithRelations, error) {
	query := `SELECT ` + selectList(businessColumns, editableColumns, leadColumns) + relationsJoin
	var args []any
	if search = strings.TrimSpace(search); search != "" {
		query += `
		WHERE b.business_name ILIKE $1 OR b.google_address ILIKE $1
		   OR b.google_phone ILIKE $1 OR b.description ILIKE $1`
		args = append(args, likePattern(search))
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search businesses: %w", err)
	}
	return collectRelations(rows, false)
}

// List listado paginado del CRM con las notas más recientes de cada negocio.
func (r *BusinessRepo) List(ctx context.Context, f repository.BusinessListFilter) ([]*entity.BusinessWithRelations, int, error) {
	where, args := listWhere(f)

	var total int
	countQuery := `SELECT COUNT(*)` + relationsJoin + where
	if err := r.q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count businesses: %w", err)
	}

	n := len(args)
	query := `SELECT ` + selectList(businessColumns, editableColumns, leadColumns) + relationsJoin + where +
		fmt.Sprintf(`
		ORDER BY b.created_at DESC, b.id
		LIMIT $%d OFFSET $%d`, n+1, n+2)
	rows, err := r.q.Query(ctx, query, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list businesses: %w", err)
	}
	list, err := collectRelations(rows, false)
	if err != nil {
		return nil, 0, err
	}
	if err := r.attachNotes(ctx, list, f.NotesLimit); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func listWhere(f repository.BusinessListFilter) (string, []any) {
	var conds []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if s := strings.TrimSpace(f.Search); s != "" {
		p := arg(likePattern(s))
		conds = append(conds, fmt.Sprintf(
			"(b.business_name ILIKE %[1]s OR b.google_address ILIKE %[1]s OR b.google_phone ILIKE %[1]s OR b.description ILIKE %[1]s)", p))
	}
	if f.Status != "" {
		conds = append(conds, "li.status = "+arg(string(f.Status)))
	}
	if f.Priority != "" {
		conds = append(conds, "li.priority = "+arg(string(f.Priority)))
	}
	if f.AssignedTo != "" {
		conds = append(conds, "li.assigned_to = "+arg(f.AssignedTo))
	}
	if f.DateFrom != nil {
		conds = append(conds, "li.last_contact_date >= "+arg(*f.DateFrom))
	}
	if f.DateTo != nil {
		conds = append(conds, "li.last_contact_date <= "+arg(*f.DateTo))
	}
	if len(f.Tags) > 0 {
		conds = append(conds, "ed.tags @> "+arg(f.Tags))
	}
	if f.HasNotes != nil {
		exists := "EXISTS (SELECT 1 FROM notes n WHERE n.business_id = b.id)"
		if !*f.HasNotes {
			exists = "NOT " + exists
		}
		conds = append(conds, exists)
	}

	if len(conds) == 0 {
		return "", args
	}
	return "\n\t\tWHERE " + strings.Join(conds, " AND "), args
}

func (r *BusinessRepo) attachNotes(ctx context.Context, list []*entity.BusinessWithRelations, limit int) error {
	if len(list) == 0 || limit <= 0 {
		return nil
	}
	ids := make([]string, len(list))
	byID := make(map[string]*entity.BusinessWithRelations, len(list))
	for i, b := range list {
		ids[i] = b.ID
		byID[b.ID] = b
		b.Notes = []*entity.Note{}
	}
	notes, err := r.notes.ListLatestForBusinesses(ctx, ids, limit)
	if err != nil {
		return err
	}
	for _, n := range notes {
		if b, ok := byID[n.BusinessID]; ok {
			b.Notes = append(b.Notes, n)
		}
	}
	return nil
}

// ListBatch lote para procesos batch, paginado por (created_at, id).
func (r *BusinessRepo) ListBatch(ctx context.Context, after *repository.BatchCursor, take int) ([]*entity.BusinessWithRelations, error) {
	query := `SELECT ` + selectList(businessColumns, editableColumns, leadColumns) + relationsJoin
	args := []any{take}
	if after != nil {
		query += `
		WHERE (b.created_at, b.id) > ($2, $3)`
		args = append(args, after.CreatedAt, after.ID)
	}
	query += `
		ORDER BY b.created_at, b.id
		LIMIT $1`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list batch: %w", err)
	}
	return collectRelations(rows, false)
}

// ListNames id y nombre de todos los negocios.
func (r *BusinessRepo) ListNames(ctx context.Context) ([]repository.BusinessName, error) {
	rows, err := r.q.Query(ctx, `SELECT id, COALESCE(business_name, '') FROM businesses ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list business names: %w", err)
	}
	defer rows.Close()
	var list []repository.BusinessName
	for rows.Next() {
		var n repository.BusinessName
		if err := rows.Scan(&n.ID, &n.Name); err != nil {
			return nil, fmt.Errorf("scan business name: %w", err)
		}
		list = append(list, n)
	}
	return list, rows.Err()
}

// ListForIntegration página del feed de integración, por id ascendente.
func (r *BusinessRepo) ListForIntegration(ctx context.Context, f repository.IntegrationFilter) ([]*entity.BusinessWithRelations, error) {
	var conds []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if len(f.IDs) > 0 {
		conds = append(conds, "b.id = ANY("+arg(f.IDs)+")")
	}
	if f.Cursor != "" {
		conds = append(conds, "b.id > "+arg(f.Cursor))
	}
	if f.HasEmail {
		conds = append(conds, "(ed.primary_email IS NOT NULL OR ed.alternate_email IS NOT NULL)")
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		p := arg(likePattern(s))
		t := arg(s)
		conds = append(conds, fmt.Sprintf(
			"(b.business_name ILIKE %[1]s OR b.google_address ILIKE %[1]s OR ed.contact_person ILIKE %[1]s OR %[2]s = ANY(ed.tags))", p, t))
	}

	query := `SELECT ` + selectList(businessColumns, editableColumns, leadColumns, inviteColumns) + relationsJoin + `
		LEFT JOIN campaign_invites ci ON ci.business_id = b.id`
	if len(conds) > 0 {
		query += "\n\t\tWHERE " + strings.Join(conds, " AND ")
	}
	query += "\n\t\tORDER BY b.id\n\t\tLIMIT " + arg(f.Limit)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list integration businesses: %w", err)
	}
	return collectRelations(rows, true)
}

// ListIDsWithoutInvite negocios que aún no tienen invitación de campaña.
func (r *BusinessRepo) ListIDsWithoutInvite(ctx context.Context, ids []string) ([]string, error) {
	query := `
		SELECT b.id FROM businesses b
		WHERE NOT EXISTS (SELECT 1 FROM campaign_invites ci WHERE ci.business_id = b.id)`
	var args []any
	if len(ids) > 0 {
		query += ` AND b.id = ANY($1)`
		args = append(args, ids)
	}
	query += ` ORDER BY b.id`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list businesses without invite: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan business id: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// Coverage conteos de cobertura para las estadísticas del visor.
func (r *BusinessRepo) Coverage(ctx context.Context) (*repository.Coverage, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE google_phone IS NOT NULL OR phone_1 IS NOT NULL OR phone_2 IS NOT NULL
				OR phone_3 IS NOT NULL OR phone_4 IS NOT NULL OR phone_5 IS NOT NULL),
			COUNT(*) FILTER (WHERE social_facebook IS NOT NULL OR social_instagram IS NOT NULL
				OR social_linkedin IS NOT NULL OR social_twitter IS NOT NULL
				OR social_youtube IS NOT NULL OR social_tiktok IS NOT NULL),
			COUNT(*) FILTER (WHERE google_reviews_count > 0),
			COUNT(*) FILTER (WHERE google_official_website IS NOT NULL),
			COALESCE(AVG(google_rating), 0)
		FROM businesses`
	var c repository.Coverage
	err := r.q.QueryRow(ctx, query).Scan(&c.Total, &c.WithPhone, &c.WithSocial, &c.WithReviews, &c.WithWebsite, &c.AvgRating)
	if err != nil {
		return nil, fmt.Errorf("coverage: %w", err)
	}
	return &c, nil
}
