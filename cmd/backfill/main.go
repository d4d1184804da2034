// backfill completa los datos derivados de todos los negocios: crea el lead comercial
// por defecto y el overlay editable con categoría inferida y teléfono principal.
// Es idempotente; se puede relanzar tras una corrida interrumpida.
//
// Uso: go run ./cmd/backfill
// Parámetros vía entorno: BACKFILL_TAKE, BACKFILL_RETRIES, BACKFILL_RETRY_DELAY_MS, BACKFILL_PAUSE_MS.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jhoicas/leadmine-api/internal/application/backfill"
	"github.com/jhoicas/leadmine-api/internal/infrastructure/postgres"
	"github.com/jhoicas/leadmine-api/pkg/config"
	"github.com/jhoicas/leadmine-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	uc := backfill.NewUseCase(
		postgres.NewBusinessRepository(pool),
		postgres.NewTxRunner(pool),
		backfill.Options{
			Take:       cfg.Backfill.Take,
			Retries:    cfg.Backfill.Retries,
			RetryDelay: cfg.Backfill.RetryDelay,
			Pause:      cfg.Backfill.Pause,
		},
		postgres.IsTransient,
		log,
	)

	rep, err := uc.Run(ctx)
	l := log.Info()
	if err != nil {
		l = log.Error().Err(err)
	}
	l.Int("processed", rep.Processed).
		Int("updated", rep.Updated).
		Int("leads_created", rep.LeadsCreated).
		Int("overlays_created", rep.OverlaysCreated).
		Int("retries", rep.Retries).
		Msg("backfill terminado")
	if err != nil {
		pool.Close()
		os.Exit(1)
	}
}
