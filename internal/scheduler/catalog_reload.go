package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/vianime/internal/catalog"
	"github.com/MrSnakeDoc/vianime/internal/logger"
)

// CatalogReloader handles periodic reloading of the catalog file.
// Without a file the built-in catalog is used and never reloaded.
type CatalogReloader struct {
	loader        *catalog.Loader
	index         *catalog.Index
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewCatalogReloader creates a new catalog reloader. catalogFile may be empty.
func NewCatalogReloader(
	catalogFile string,
	idx *catalog.Index,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *CatalogReloader {
	var loader *catalog.Loader
	if catalogFile != "" {
		loader = catalog.NewLoader(catalogFile)
	}
	return &CatalogReloader{
		loader:        loader,
		index:         idx,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start loads the catalog and begins the periodic reload process.
// A catalog file that fails to load on start leaves the built-in catalog in place.
func (cr *CatalogReloader) Start(ctx context.Context) error {
	if err := cr.Reload(ctx); err != nil {
		if cr.index.Count() > 0 {
			return fmt.Errorf("initial reload failed: %w", err)
		}
		cr.logger.Error("failed to load catalog file, using built-in catalog",
			logger.String("file", cr.loader.Path()),
			logger.Error(err))
		cr.index.Update(catalog.Builtin(), catalog.SourceBuiltin)
	}

	if cr.loader == nil || cr.interval <= 0 {
		go cr.drainTriggers(ctx)
		return nil
	}

	ticker := time.NewTicker(cr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := cr.Reload(ctx); err != nil {
					cr.logger.Error("failed to reload catalog",
						logger.Error(err))
				}
			case <-cr.manualTrigger:
				cr.logger.Info("manual reload triggered")
				if err := cr.Reload(ctx); err != nil {
					cr.logger.Error("failed to reload catalog",
						logger.Error(err))
				}
			case <-cr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// drainTriggers serves manual triggers when there is no ticker.
func (cr *CatalogReloader) drainTriggers(ctx context.Context) {
	for {
		select {
		case <-cr.manualTrigger:
			cr.logger.Info("manual reload triggered")
			if err := cr.Reload(ctx); err != nil {
				cr.logger.Error("failed to reload catalog", logger.Error(err))
			}
		case <-cr.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Stop stops the reloader
func (cr *CatalogReloader) Stop() {
	close(cr.stopCh)
}

// Reload replaces the index content. A failed load keeps the current entries.
func (cr *CatalogReloader) Reload(_ context.Context) error {
	if cr.loader == nil {
		cr.index.Update(catalog.Builtin(), catalog.SourceBuiltin)
		cr.logger.Debug("built-in catalog loaded",
			logger.Int("count", cr.index.Count()))
		return nil
	}

	cr.logger.Info("reloading catalog", logger.String("file", cr.loader.Path()))

	categories, err := cr.loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	cr.index.Update(categories, cr.loader.Path())

	cr.logger.Info("loaded catalog",
		logger.Int("categories", len(categories)),
		logger.Int("count", cr.index.Count()))
	return nil
}
