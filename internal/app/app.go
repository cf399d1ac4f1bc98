package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/bluelinehq/rinkline/internal/config"
	"github.com/bluelinehq/rinkline/internal/infrastructure/repository/memory"
	"github.com/bluelinehq/rinkline/internal/infrastructure/repository/postgres"
	"github.com/bluelinehq/rinkline/internal/platform/logging"
	"github.com/bluelinehq/rinkline/internal/usecase"
)

// NewPipelineService wires the pipeline against postgres when DB_URL is
// set, or against the seeded in-memory repositories otherwise. The
// in-memory wiring backs local development and the demo dataset.
func NewPipelineService(cfg config.Config, logger *logging.Logger) (*usecase.PipelineService, func() error, error) {
	if cfg.DBURL == "" {
		service, err := newMemoryPipelineService(cfg, logger)
		return service, func() error { return nil }, err
	}

	db, err := sqlx.Connect("postgres", cfg.DBURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to %s: %w", dbNameFromURL(cfg.DBURL), err)
	}

	service, err := usecase.NewPipelineService(
		cfg,
		postgres.NewRawDataRepository(db),
		postgres.NewDimensionRepository(db),
		postgres.NewResolutionRepository(db),
		postgres.NewFactRepository(db),
		postgres.NewFindingRepository(db),
		postgres.NewGroundTruthRepository(db),
		postgres.NewSnapshotRepository(db),
		logger,
	)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	return service, db.Close, nil
}

func newMemoryPipelineService(cfg config.Config, logger *logging.Logger) (*usecase.PipelineService, error) {
	return usecase.NewPipelineService(
		cfg,
		memory.NewRawDataRepository(memory.SeedEventRows(), memory.SeedShiftRows()),
		memory.NewDimensionRepository(memory.SeedDimensions()),
		memory.NewResolutionRepository(),
		memory.NewFactRepository(),
		memory.NewFindingRepository(),
		memory.NewGroundTruthRepository(memory.SeedGroundTruth()),
		memory.NewSnapshotRepository(),
		logger,
	)
}
