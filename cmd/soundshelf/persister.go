package main

import (
	"context"
	"io"
	"time"

	"soundshelf/internal/store"
	"soundshelf/shared/go/config"
	"soundshelf/shared/go/logging"
	"soundshelf/shared/go/models"
)

// loggingPersister records the outcome and latency of every snapshot write.
type loggingPersister struct {
	next    store.Persister
	backend string
	logger  *logging.Logger
}

func (p *loggingPersister) Load(ctx context.Context) (*models.Snapshot, error) {
	return p.next.Load(ctx)
}

func (p *loggingPersister) Save(ctx context.Context, snap *models.Snapshot) error {
	start := time.Now()
	err := p.next.Save(ctx, snap)
	p.logger.StoreWrite(p.backend, time.Since(start), err)
	return err
}

func openPersister(ctx context.Context, cfg config.StoreConfig, logger *logging.Logger) (store.Persister, io.Closer, error) {
	persister, closer, err := store.OpenBackend(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return &loggingPersister{next: persister, backend: cfg.Backend, logger: logger}, closer, nil
}
