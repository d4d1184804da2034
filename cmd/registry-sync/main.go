// registry-sync copia el email de contacto del registro oficial de licencias (.xlsx)
// a los negocios cuyo nombre normalizado coincide con un único registro, y los marca
// con el tag verified-license-email. Los nombres ambiguos se reportan y no se tocan.
//
// Uso: go run ./cmd/registry-sync [ruta/registro.xlsx]
// Por defecto busca registry.xlsx en el directorio actual.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jhoicas/leadmine-api/internal/application/registry"
	"github.com/jhoicas/leadmine-api/internal/infrastructure/postgres"
	"github.com/jhoicas/leadmine-api/internal/infrastructure/xlsx"
	"github.com/jhoicas/leadmine-api/pkg/config"
	"github.com/jhoicas/leadmine-api/pkg/logger"
)

func main() {
	path := "registry.xlsx"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	f, err := os.Open(path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("abrir registro")
	}
	defer f.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	uc := registry.NewUseCase(
		xlsx.NewRegistryReader(),
		postgres.NewBusinessRepository(pool),
		postgres.NewTxRunner(pool),
		log,
	)
	if _, err := uc.Sync(ctx, f); err != nil {
		log.Error().Err(err).Str("path", path).Msg("sincronización del registro fallida")
		pool.Close()
		os.Exit(1)
	}
}
