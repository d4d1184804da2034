// Package backfill completa los datos derivados de los negocios ya scrapeados:
// lead comercial por defecto, overlay editable, categoría inferida y teléfono principal.
package backfill

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/leadmine-api/internal/application/ports"
	"github.com/jhoicas/leadmine-api/internal/domain/entity"
	"github.com/jhoicas/leadmine-api/internal/domain/leads"
	"github.com/jhoicas/leadmine-api/internal/domain/repository"
	"github.com/jhoicas/leadmine-api/internal/infrastructure/htmltext"
	"github.com/jhoicas/leadmine-api/internal/infrastructure/metrics"
	"github.com/jhoicas/leadmine-api/pkg/logger"
)

const jobName = "backfill"

// Options parámetros del recorrido.
type Options struct {
	Take       int
	Retries    int
	RetryDelay time.Duration
	Pause      time.Duration
}

// Report resultado de una corrida.
type Report struct {
	Processed       int
	Updated         int
	LeadsCreated    int
	OverlaysCreated int
	Retries         int
}

// UseCase recorre todos los negocios por lotes.
type UseCase struct {
	businesses  repository.BusinessRepository
	tx          ports.TxRunner
	opts        Options
	log         *logger.Logger
	now         func() time.Time
	sleep       func(ctx context.Context, d time.Duration) error
	isTransient func(error) bool
	categories  *leads.ViewBuilder
}

// NewUseCase construye el caso de uso. isTransient decide qué errores se reintentan.
func NewUseCase(businesses repository.BusinessRepository, tx ports.TxRunner, opts Options, isTransient func(error) bool, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	if opts.Take <= 0 {
		opts.Take = 100
	}
	if opts.Retries <= 0 {
		opts.Retries = 1
	}
	if isTransient == nil {
		isTransient = func(error) bool { return false }
	}
	return &UseCase{
		businesses:  businesses,
		tx:          tx,
		opts:        opts,
		log:         log.Component(jobName),
		now:         time.Now,
		sleep:       sleepCtx,
		isTransient: isTransient,
		// Misma limpieza de texto que el visor para que ambos infieran igual.
		categories:  leads.NewViewBuilder(leads.WithTextCleaner(htmltext.Clean)),
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Run procesa lote a lote hasta agotar la tabla. Un error no transitorio, o uno
// transitorio que agota los reintentos, detiene la corrida y se devuelve junto al
// reporte parcial.
func (uc *UseCase) Run(ctx context.Context) (Report, error) {
	var rep Report
	var cursor *repository.BatchCursor
	started := time.Now()

	for {
		batch, err := uc.businesses.ListBatch(ctx, cursor, uc.opts.Take)
		if err != nil {
			return rep, fmt.Errorf("backfill: listar lote: %w", err)
		}
		for _, b := range batch {
			changed, err := uc.processWithRetry(ctx, b, &rep)
			if err != nil {
				metrics.AddBatchRecords(jobName, "failed", 1)
				return rep, fmt.Errorf("backfill: negocio %s: %w", b.ID, err)
			}
			rep.Processed++
			if changed {
				rep.Updated++
				metrics.AddBatchRecords(jobName, "updated", 1)
			} else {
				metrics.AddBatchRecords(jobName, "unchanged", 1)
			}
			if err := uc.sleep(ctx, uc.opts.Pause); err != nil {
				return rep, err
			}
		}
		if len(batch) > 0 {
			last := batch[len(batch)-1]
			cursor = &repository.BatchCursor{CreatedAt: last.CreatedAt, ID: last.ID}
			uc.log.Info().Int("processed", rep.Processed).Int("updated", rep.Updated).Msg("lote procesado")
		}
		if len(batch) < uc.opts.Take {
			break
		}
	}

	metrics.ObservePipeline(jobName, rep.Processed, time.Since(started))
	uc.log.Info().
		Int("processed", rep.Processed).
		Int("updated", rep.Updated).
		Int("leads_created", rep.LeadsCreated).
		Int("overlays_created", rep.OverlaysCreated).
		Msg("backfill completado")
	return rep, nil
}

func (uc *UseCase) processWithRetry(ctx context.Context, b *entity.BusinessWithRelations, rep *Report) (bool, error) {
	var lastErr error
	for attempt := 1; attempt <= uc.opts.Retries; attempt++ {
		var res recordResult
		err := uc.tx.Run(ctx, func(repos ports.TxRepos) error {
			var err error
			res, err = uc.process(ctx, repos, &b.Business)
			return err
		})
		if err == nil {
			if res.leadCreated {
				rep.LeadsCreated++
			}
			if res.overlayCreated {
				rep.OverlaysCreated++
			}
			return res.changed(), nil
		}
		lastErr = err
		if !uc.isTransient(err) || attempt == uc.opts.Retries {
			break
		}
		rep.Retries++
		uc.log.Warn().Err(err).Str("business_id", b.ID).
			Int("attempt", attempt).Int("retries", uc.opts.Retries).
			Msg("error transitorio, reintentando")
		if err := uc.sleep(ctx, uc.opts.RetryDelay*time.Duration(attempt)); err != nil {
			return false, err
		}
	}
	return false, lastErr
}

type recordResult struct {
	leadCreated    bool
	overlayCreated bool
	overlayUpdated bool
}

func (r recordResult) changed() bool {
	return r.leadCreated || r.overlayCreated || r.overlayUpdated
}

// process relee lead y overlay dentro de la transacción para que un reintento
// parta del estado confirmado.
func (uc *UseCase) process(ctx context.Context, repos ports.TxRepos, b *entity.Business) (recordResult, error) {
	var res recordResult
	now := uc.now()

	lead, err := repos.LeadInfo.GetByBusinessID(ctx, b.ID)
	if err != nil {
		return res, err
	}
	if lead == nil {
		lead = entity.NewLeadInfo(uuid.NewString(), b.ID, entity.AssigneeSystem, entity.LeadSourceBackfill, now)
		if err := repos.LeadInfo.Upsert(ctx, lead); err != nil {
			return res, err
		}
		res.leadCreated = true
	}

	ed, err := repos.EditableData.GetByBusinessID(ctx, b.ID)
	if err != nil {
		return res, err
	}
	if ed == nil {
		ed = entity.NewEditableData(uuid.NewString(), b.ID, now)
		ed.PrimaryPhone = leads.BestPrimaryPhone(leads.PhonesOf(b))
		if cat := uc.categories.InferCategory(b); cat != "" {
			ed.CustomFields[entity.CustomFieldCategory] = cat
		}
		if err := repos.EditableData.Upsert(ctx, ed); err != nil {
			return res, err
		}
		res.overlayCreated = true
		return res, nil
	}

	dirty := false
	if ed.Category() == "" {
		if cat := uc.categories.InferCategory(b); cat != "" {
			cf := ed.CloneCustomFields()
			cf[entity.CustomFieldCategory] = cat
			ed.CustomFields = cf
			dirty = true
		}
	}
	if strings.TrimSpace(ed.PrimaryPhone) == "" {
		if phone := leads.BestPrimaryPhone(leads.PhonesOf(b)); phone != "" {
			ed.PrimaryPhone = phone
			dirty = true
		}
	}
	if ed.Tags == nil {
		ed.Tags = []string{}
		dirty = true
	}
	if !dirty {
		return res, nil
	}
	ed.UpdatedAt = now
	if err := repos.EditableData.Upsert(ctx, ed); err != nil {
		return res, err
	}
	res.overlayUpdated = true
	return res, nil
}
