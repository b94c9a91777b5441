package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"time"

	"github.com/JonMunkholm/barcodesheet/internal/layout"
	"github.com/JonMunkholm/barcodesheet/internal/logging"
	"github.com/JonMunkholm/barcodesheet/internal/symbol"
	"golang.org/x/sync/errgroup"
)

// ExportSummary describes a finished export.
type ExportSummary struct {
	Generation    uint64        `json:"generation"`
	Records       int           `json:"records"`
	ImagesPlaced  int           `json:"imagesPlaced"`
	ImagesOmitted int           `json:"imagesOmitted"`
	Pages         int           `json:"pages"`
	Duration      time.Duration `json:"duration"`
}

// Exporter turns a Workspace into a PDF.
type Exporter struct {
	limiter *ExportLimiter
	raster  symbol.RasterOptions
	grid    layout.Grid
	timeout time.Duration
}

// ExporterConfig configures an Exporter. Zero values use defaults.
type ExporterConfig struct {
	Limiter     *ExportLimiter
	RasterScale int
	Grid        *layout.Grid
	Timeout     time.Duration
}

// NewExporter builds an exporter. A nil limiter means unlimited.
func NewExporter(cfg ExporterConfig) *Exporter {
	grid := layout.DefaultGrid()
	if cfg.Grid != nil {
		grid = *cfg.Grid
	}
	return &Exporter{
		limiter: cfg.Limiter,
		raster:  symbol.RasterOptions{Scale: cfg.RasterScale},
		grid:    grid,
		timeout: cfg.Timeout,
	}
}

// Export writes the controller's current workspace to w.
// A concurrent export on the same controller fails with ErrExportInProgress.
// The workspace is captured once, so an ingestion during the export does not
// affect its output.
func (e *Exporter) Export(ctx context.Context, c *Controller, w io.Writer) (ExportSummary, error) {
	release, err := c.beginExport()
	if err != nil {
		return ExportSummary{}, err
	}
	defer release()

	ws := c.Workspace()
	if ws.Len() == 0 {
		return ExportSummary{}, ErrNoRecords
	}

	if e.limiter != nil {
		if !e.limiter.TryAcquire() {
			logging.FromContext(ctx).Info("export queued", "session", c.ID(), "active", e.limiter.ActiveCount())
			if err := e.limiter.Acquire(ctx); err != nil {
				return ExportSummary{}, err
			}
		}
		defer e.limiter.Release()
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	log := logging.WithFields(ctx, "session", c.ID(), "generation", ws.Generation)
	summary, err := e.ExportWorkspace(ctx, ws, w)
	if err != nil {
		log.Error("export failed", "error", err)
		return summary, err
	}

	log.Info("export completed",
		"records", summary.Records,
		"images_placed", summary.ImagesPlaced,
		"images_omitted", summary.ImagesOmitted,
		"pages", summary.Pages,
		"duration_ms", summary.Duration.Milliseconds(),
	)
	return summary, nil
}

// ExportWorkspace rasterizes every handle of ws concurrently, then composes
// and writes the document once. It does not take the controller guard or the
// limiter; the CLI calls it directly.
func (e *Exporter) ExportWorkspace(ctx context.Context, ws *Workspace, w io.Writer) (ExportSummary, error) {
	start := time.Now()
	summary := ExportSummary{Generation: ws.Generation, Records: ws.Len()}

	rasters, err := RasterizeAll(ctx, ws.Handles, e.raster)
	if err != nil {
		return summary, fmt.Errorf("rasterize: %w", err)
	}

	items := make([]layout.Item, ws.Len())
	for i, rec := range ws.Records {
		items[i] = layout.Item{
			Primary:     rasters[2*i],
			Secondary:   rasters[2*i+1],
			Description: rec.Description,
		}
	}

	res, err := layout.Compose(w, items, e.grid)
	summary.ImagesPlaced = res.ImagesPlaced
	summary.ImagesOmitted = res.ImagesOmitted
	summary.Pages = res.Pages
	summary.Duration = time.Since(start)
	return summary, err
}

// RasterizeAll converts every handle to PNG concurrently and returns the
// results in handle order. A nil handle, or one that fails to encode, yields
// a nil entry. Only cancellation of ctx fails the batch. At most GOMAXPROCS
// encoders run at once.
func RasterizeAll(ctx context.Context, handles []*symbol.Symbol, opts symbol.RasterOptions) ([][]byte, error) {
	return rasterizeAll(ctx, handles, runtime.GOMAXPROCS(0), func(ctx context.Context, s *symbol.Symbol) ([]byte, error) {
		return symbol.Rasterize(ctx, s, opts)
	})
}

type rasterizeFunc func(ctx context.Context, s *symbol.Symbol) ([]byte, error)

func rasterizeAll(ctx context.Context, handles []*symbol.Symbol, limit int, rasterize rasterizeFunc) ([][]byte, error) {
	out := make([][]byte, len(handles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, h := range handles {
		g.Go(func() error {
			data, err := rasterize(gctx, h)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				slog.Warn("rasterize failed, image omitted", "index", i, "error", err)
				return nil
			}
			out[i] = data
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
