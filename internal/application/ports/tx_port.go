package ports

import (
	"context"

	"github.com/jhoicas/leadmine-api/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Businesses   repository.BusinessRepository
	EditableData repository.EditableDataRepository
	LeadInfo     repository.LeadInfoRepository
	Notes        repository.NoteRepository
	Invites      repository.CampaignInviteRepository
}

// TxRunner ejecuta fn dentro de una transacción; si fn devuelve error se hace rollback.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}
