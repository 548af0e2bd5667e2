// Package backend elige e inicializa el almacenamiento de documentos según STORE_BACKEND.
package backend

import (
	"context"

	"github.com/jhoicas/epi-control-api/internal/infrastructure/docstore"
	"github.com/jhoicas/epi-control-api/internal/infrastructure/jsonserver"
	"github.com/jhoicas/epi-control-api/internal/infrastructure/memory"
	"github.com/jhoicas/epi-control-api/internal/infrastructure/postgres"
	"github.com/jhoicas/epi-control-api/pkg/config"
	"github.com/jhoicas/epi-control-api/pkg/logger"
)

// Open abre el almacenamiento configurado. Con postgres aplica antes las
// migraciones si DB_MIGRATE está activo.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (docstore.Backend, error) {
	switch cfg.Store.Backend {
	case config.BackendPostgres:
		if cfg.DB.Migrate {
			if err := postgres.Migrate(cfg.DB, log.Component("migrate")); err != nil {
				return nil, err
			}
		}
		pool, err := postgres.NewPool(ctx, cfg.DB, log.Component("postgres"))
		if err != nil {
			return nil, err
		}
		return postgres.NewDocumentStore(pool), nil

	case config.BackendMemory:
		if cfg.Store.SeedFile == "" {
			return memory.New(), nil
		}
		b, err := memory.LoadFile(cfg.Store.SeedFile)
		if err != nil {
			return nil, err
		}
		log.Info().Str("file", cfg.Store.SeedFile).Msg("backend en memoria cargado")
		return b, nil

	default:
		url := cfg.Store.BaseURL(cfg.App.Env)
		log.Info().Str("url", url).Msg("usando json-server")
		return jsonserver.NewClient(jsonserver.Config{
			BaseURL:    url,
			Timeout:    cfg.Store.Timeout,
			HealthPath: cfg.Store.HealthPath,
		}, log.Component("jsonserver")), nil
	}
}
