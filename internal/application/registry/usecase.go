// Package registry cruza un registro público de licencias con los negocios
// scrapeados y fija el email verificado en el overlay editable.
package registry

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/leadmine-api/internal/application/ports"
	"github.com/jhoicas/leadmine-api/internal/domain/entity"
	"github.com/jhoicas/leadmine-api/internal/domain/repository"
	"github.com/jhoicas/leadmine-api/internal/infrastructure/metrics"
	"github.com/jhoicas/leadmine-api/pkg/logger"
	"github.com/jhoicas/leadmine-api/pkg/textkey"
)

// VerifiedEmailTag tag que marca un email tomado del registro de licencias.
const VerifiedEmailTag = "verified-license-email"

const (
	jobName            = "registry_sync"
	maxLoggedDuplicate = 10
)

// Duplicate fila del registro que coincide con más de un negocio.
type Duplicate struct {
	Row     ports.RegistryRow
	Matches []repository.BusinessName
}

// Report resultado de una sincronización.
type Report struct {
	Rows       int
	Matched    int
	Created    int
	Updated    int
	Skipped    int
	Duplicates []Duplicate
}

// UseCase sincroniza emails desde el registro.
type UseCase struct {
	reader     ports.RegistryReader
	businesses repository.BusinessRepository
	tx         ports.TxRunner
	log        *logger.Logger
	now        func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(reader ports.RegistryReader, businesses repository.BusinessRepository, tx ports.TxRunner, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		reader:     reader,
		businesses: businesses,
		tx:         tx,
		log:        log.Component(jobName),
		now:        time.Now,
	}
}

// Sync lee el libro y aplica cada fila con coincidencia única en su propia transacción.
func (uc *UseCase) Sync(ctx context.Context, workbook io.Reader) (Report, error) {
	var rep Report
	started := time.Now()

	rows, err := uc.reader.Read(workbook)
	if err != nil {
		return rep, fmt.Errorf("registry: leer libro: %w", err)
	}
	rows = dedupeByName(rows)
	rep.Rows = len(rows)
	uc.log.Info().Int("rows", rep.Rows).Msg("registro cargado")

	names, err := uc.businesses.ListNames(ctx)
	if err != nil {
		return rep, fmt.Errorf("registry: listar negocios: %w", err)
	}
	byKey := make(map[string][]repository.BusinessName, len(names))
	for _, n := range names {
		key := textkey.Key(n.Name)
		if key == "" {
			continue
		}
		byKey[key] = append(byKey[key], n)
	}

	for _, row := range rows {
		key := textkey.Key(row.EntityName)
		if key == "" {
			continue
		}
		matches := byKey[key]
		switch {
		case len(matches) == 0:
			rep.Skipped++
			continue
		case len(matches) > 1:
			rep.Duplicates = append(rep.Duplicates, Duplicate{Row: row, Matches: matches})
			continue
		}
		rep.Matched++

		email := strings.TrimSpace(row.ContactEmail)
		if email == "" {
			continue
		}
		var outcome applyOutcome
		err := uc.tx.Run(ctx, func(repos ports.TxRepos) error {
			var err error
			outcome, err = uc.apply(ctx, repos.EditableData, matches[0].ID, email)
			return err
		})
		if err != nil {
			return rep, fmt.Errorf("registry: negocio %s: %w", matches[0].ID, err)
		}
		switch outcome {
		case outcomeCreated:
			rep.Created++
		case outcomeUpdated:
			rep.Updated++
		}
	}

	metrics.AddBatchRecords(jobName, "matched", rep.Matched)
	metrics.AddBatchRecords(jobName, "created", rep.Created)
	metrics.AddBatchRecords(jobName, "updated", rep.Updated)
	metrics.AddBatchRecords(jobName, "skipped", rep.Skipped)
	metrics.AddBatchRecords(jobName, "duplicate", len(rep.Duplicates))
	metrics.ObservePipeline(jobName, rep.Rows, time.Since(started))

	uc.logReport(rep)
	return rep, nil
}

type applyOutcome int

const (
	outcomeUnchanged applyOutcome = iota
	outcomeCreated
	outcomeUpdated
)

// apply fija email como principal. El principal anterior pasa a alternativo cuando
// el alternativo está vacío o es redundante (igual al nuevo o al anterior).
func (uc *UseCase) apply(ctx context.Context, editable repository.EditableDataRepository, businessID, email string) (applyOutcome, error) {
	now := uc.now()
	ed, err := editable.GetByBusinessID(ctx, businessID)
	if err != nil {
		return outcomeUnchanged, err
	}
	if ed == nil {
		ed = entity.NewEditableData(uuid.NewString(), businessID, now)
		ed.PrimaryEmail = email
		ed.Tags = []string{VerifiedEmailTag}
		if err := editable.Upsert(ctx, ed); err != nil {
			return outcomeUnchanged, err
		}
		return outcomeCreated, nil
	}

	dirty := false
	primary := strings.TrimSpace(ed.PrimaryEmail)
	alternate := strings.TrimSpace(ed.AlternateEmail)
	if !strings.EqualFold(primary, email) {
		ed.PrimaryEmail = email
		dirty = true
		if primary != "" && (alternate == "" || strings.EqualFold(alternate, email) || strings.EqualFold(alternate, primary)) {
			ed.AlternateEmail = primary
		}
	}
	if !ed.HasTag(VerifiedEmailTag) {
		ed.Tags = append(append([]string{}, ed.Tags...), VerifiedEmailTag)
		dirty = true
	}
	if !dirty {
		return outcomeUnchanged, nil
	}
	ed.UpdatedAt = now
	if err := editable.Upsert(ctx, ed); err != nil {
		return outcomeUnchanged, err
	}
	return outcomeUpdated, nil
}

// dedupeByName conserva la primera fila de cada nombre (sin distinguir mayúsculas).
func dedupeByName(rows []ports.RegistryRow) []ports.RegistryRow {
	seen := make(map[string]struct{}, len(rows))
	out := make([]ports.RegistryRow, 0, len(rows))
	for _, r := range rows {
		key := strings.ToLower(strings.TrimSpace(r.EntityName))
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}

func (uc *UseCase) logReport(rep Report) {
	uc.log.Info().
		Int("matched", rep.Matched).
		Int("created", rep.Created).
		Int("updated", rep.Updated).
		Msg("sincronización de registro completada")

	if n := len(rep.Duplicates); n > 0 {
		uc.log.Warn().Int("duplicates", n).Msg("filas del registro con varias coincidencias, requieren revisión")
		for i, d := range rep.Duplicates {
			if i == maxLoggedDuplicate {
				break
			}
			matched := make([]string, len(d.Matches))
			for j, m := range d.Matches {
				matched[j] = m.Name
			}
			uc.log.Warn().
				Str("entity_name", d.Row.EntityName).
				Str("email", d.Row.ContactEmail).
				Strs("matches", matched).
				Msg("coincidencia ambigua")
		}
	}
	if rep.Skipped > 0 {
		uc.log.Warn().Int("skipped", rep.Skipped).Msg("filas del registro sin negocio correspondiente")
	}
}
