package repository

import (
	"context"
	"time"

	"github.com/jhoicas/leadmine-api/internal/domain/entity"
)

// BusinessListFilter criterios del listado del CRM. Campos vacíos/nil no filtran.
type BusinessListFilter struct {
	Search     string
	Status     entity.LeadStatus
	Priority   entity.Priority
	AssignedTo string
	Tags       []string // todos requeridos
	HasNotes   *bool
	DateFrom   *time.Time // sobre lead_info.last_contact_date
	DateTo     *time.Time
	Limit      int
	Offset     int
	NotesLimit int // notas más recientes por negocio
}

// IntegrationFilter criterios del feed de integración (paginación por cursor de id).
type IntegrationFilter struct {
	Limit    int
	Cursor   string
	HasEmail bool
	IDs      []string
	Search   string
}

// BatchCursor posición de la paginación por lotes (created_at, id).
type BatchCursor struct {
	CreatedAt time.Time
	ID        string
}

// BusinessName par id/nombre para el cruce con registros externos.
type BusinessName struct {
	ID   string
	Name string
}

// Coverage conteos agregados para las estadísticas del visor.
type Coverage struct {
	Total       int
	WithPhone   int
	WithSocial  int
	WithReviews int
	WithWebsite int
	AvgRating   float64
}

// BusinessRepository puerto de lectura de negocios scrapeados y sus relaciones.
type BusinessRepository interface {
	Exists(ctx context.Context, id string) (bool, error)
	// GetWithRelations devuelve nil, nil si no existe. notesLimit 0 = todas las notas.
	GetWithRelations(ctx context.Context, id string, notesLimit int) (*entity.BusinessWithRelations, error)
	// SearchForViewer trae overlay y lead de todos los negocios que coinciden con search
	// (ILIKE sobre nombre, dirección, teléfono y descripción). search vacío = todos.
	SearchForViewer(ctx context.Context, search string) ([]*entity.BusinessWithRelations, error)
	// List listado del CRM ordenado por created_at desc; devuelve también el total sin paginar.
	List(ctx context.Context, f BusinessListFilter) ([]*entity.BusinessWithRelations, int, error)
	// ListBatch siguiente lote ordenado por (created_at, id) a partir de after (nil = inicio).
	ListBatch(ctx context.Context, after *BatchCursor, take int) ([]*entity.BusinessWithRelations, error)
	ListNames(ctx context.Context) ([]BusinessName, error)
	// ListForIntegration incluye overlay, lead e invitación; orden por id asc.
	ListForIntegration(ctx context.Context, f IntegrationFilter) ([]*entity.BusinessWithRelations, error)
	// ListIDsWithoutInvite ids sin invitación, restringidos a ids si no está vacío.
	ListIDsWithoutInvite(ctx context.Context, ids []string) ([]string, error)
	Coverage(ctx context.Context) (*Coverage, error)
}
