// Package catalog pushes commerce products into the retail catalog.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/wowstore/storefront/internal/retail"
	"github.com/wowstore/storefront/internal/storefront"
)

const (
	DefaultBatchSize   = 100
	DefaultConcurrency = 2
	DefaultAttempts    = 3
)

// ErrNoSource is returned by IndexAll when no commerce source is configured.
var ErrNoSource = errors.New("no product source configured")

// Source pages through commerce products.
type Source interface {
	Products(ctx context.Context, first int, after string) (*storefront.ProductPage, error)
}

// Config configures an Indexer.
type Config struct {
	Source      Source // Optional; required by IndexAll
	Importer    retail.Importer
	BatchSize   int
	Concurrency int
	Attempts    uint
	RetryDelay  time.Duration
	Logger      *slog.Logger
}

// Summary reports the outcome of an index run.
type Summary struct {
	Received int      `json:"received"`
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Batches  int      `json:"batches"`
	Invalid  []string `json:"invalid,omitempty"`
}

// Indexer imports products in bounded concurrent batches.
type Indexer struct {
	source      Source
	importer    retail.Importer
	batchSize   int
	concurrency int
	attempts    uint
	delay       time.Duration
	logger      *slog.Logger
}

// NewIndexer creates an indexer.
func NewIndexer(cfg Config) (*Indexer, error) {
	if cfg.Importer == nil {
		return nil, retail.ErrNotConfigured
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.Attempts == 0 {
		cfg.Attempts = DefaultAttempts
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Indexer{
		source:      cfg.Source,
		importer:    cfg.Importer,
		batchSize:   cfg.BatchSize,
		concurrency: cfg.Concurrency,
		attempts:    cfg.Attempts,
		delay:       cfg.RetryDelay,
		logger:      cfg.Logger,
	}, nil
}

// Index imports products. Products that fail validation are skipped and
// listed in the summary; the first batch that still fails after retries
// aborts the run.
func (ix *Indexer) Index(ctx context.Context, products []retail.CatalogProduct) (Summary, error) {
	summary := Summary{Received: len(products)}

	valid := make([]retail.CatalogProduct, 0, len(products))
	for _, p := range products {
		if err := p.Validate(); err != nil {
			summary.Skipped++
			summary.Invalid = append(summary.Invalid, err.Error())
			continue
		}
		valid = append(valid, p)
	}

	batches := chunk(valid, ix.batchSize)
	summary.Batches = len(batches)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ix.concurrency)
	for i, batch := range batches {
		g.Go(func() error {
			if err := ix.importBatch(gctx, batch); err != nil {
				return fmt.Errorf("batch %d: %w", i, err)
			}
			mu.Lock()
			summary.Imported += len(batch)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return summary, err
	}

	ix.logger.Info("catalog indexed",
		"received", summary.Received,
		"imported", summary.Imported,
		"skipped", summary.Skipped,
		"batches", summary.Batches)
	return summary, nil
}

// IndexAll pulls every product from the source and imports them.
func (ix *Indexer) IndexAll(ctx context.Context) (Summary, error) {
	products, err := ix.fetchAll(ctx)
	if err != nil {
		return Summary{}, err
	}
	return ix.Index(ctx, products)
}

func (ix *Indexer) fetchAll(ctx context.Context) ([]retail.CatalogProduct, error) {
	if ix.source == nil {
		return nil, ErrNoSource
	}
	var out []retail.CatalogProduct
	cursor := ""
	for {
		page, err := ix.source.Products(ctx, storefront.MaxPageSize, cursor)
		if err != nil {
			return nil, err
		}
		for _, p := range page.Products {
			out = append(out, FromStorefront(p))
		}
		ix.logger.Debug("fetched product page", "count", len(page.Products), "total", len(out))
		if !page.HasNextPage || page.EndCursor == "" || page.EndCursor == cursor {
			return out, nil
		}
		cursor = page.EndCursor
	}
}

func (ix *Indexer) importBatch(ctx context.Context, batch []retail.CatalogProduct) error {
	return retry.Do(
		func() error {
			err := ix.importer.ImportProducts(ctx, batch)
			if permanent(err) {
				return retry.Unrecoverable(err)
			}
			return err
		},
		retry.Context(ctx),
		retry.Attempts(ix.attempts),
		retry.Delay(ix.delay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			ix.logger.Warn("retrying catalog batch", "attempt", n+1, "size", len(batch), "error", err)
		}),
	)
}

// permanent reports whether an import error will repeat on retry.
func permanent(err error) bool {
	if err == nil {
		return false
	}
	if retail.IsClientError(err) || errors.Is(err, retail.ErrImportRejected) {
		return true
	}
	switch status.Code(err) {
	case codes.InvalidArgument, codes.NotFound, codes.PermissionDenied, codes.FailedPrecondition:
		return true
	}
	return false
}

func chunk[T any](items []T, size int) [][]T {
	var out [][]T
	for size < len(items) {
		items, out = items[size:], append(out, items[:size:size])
	}
	if len(items) > 0 {
		out = append(out, items)
	}
	return out
}
