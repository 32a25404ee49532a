// Package export turns a rendered plan region into a downloadable PDF.
package export

import (
	"context"
	"errors"
	"image"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
)

// DefaultScale is the raster upscaling factor; lower values are raised to it.
const DefaultScale = 2

// Region is a laid-out view that can be painted to a bitmap.
type Region interface {
	Attached() bool
	Size() (width, height int)
	Rasterize(scale int) (*image.RGBA, error)
}

// BandRegion can paint horizontal bands of itself. Slice pagination uses it
// so no single bitmap has to hold the whole region.
type BandRegion interface {
	Region
	RasterizeBand(scale, y0, y1 int) (*image.RGBA, error)
}

// Controls are interactive overlays hidden while a region is captured.
type Controls interface {
	HideControls()
	ShowControls()
}

type Options struct {
	Pagination Pagination
	Scale      int
}

type Result struct {
	Location string
	Bytes    int
	Pages    int
	Clipped  bool
}

// Pipeline runs one export at a time.
type Pipeline struct {
	sem *semaphore.Weighted
	log zerolog.Logger
}

func NewPipeline(log zerolog.Logger) *Pipeline {
	return &Pipeline{sem: semaphore.NewWeighted(1), log: log}
}

// Export captures region and hands the PDF to sink. controls may be nil.
// Any failure returns an *Error and emits nothing; controls are restored on
// every path once hidden.
func (p *Pipeline) Export(ctx context.Context, region Region, controls Controls, sink Sink, opts Options) (Result, error) {
	if !p.sem.TryAcquire(1) {
		return Result{}, ErrExportInProgress
	}
	defer p.sem.Release(1)

	scale := opts.Scale
	if scale < DefaultScale {
		scale = DefaultScale
	}
	log := p.log.With().Str("pagination", string(opts.Pagination)).Int("scale", scale).Logger()

	if err := checkRegion(region); err != nil {
		log.Warn().Err(err).Msg("export precondition failed")
		return Result{}, stageErr(StagePrecondition, err)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, stageErr(StagePrecondition, err)
	}

	var (
		layout Layout
		err    error
	)
	if br, ok := region.(BandRegion); ok && opts.Pagination == PaginationSlice {
		layout, err = captureBands(ctx, br, controls, scale)
		if err != nil {
			log.Error().Err(err).Msg("rasterize failed")
			return Result{}, stageErr(StageRasterize, err)
		}
		log.Debug().Int("bands", len(layout.Pages)).Msg("rasterized")
	} else {
		bmp, err := capture(region, controls, scale)
		if err != nil {
			log.Error().Err(err).Msg("rasterize failed")
			return Result{}, stageErr(StageRasterize, err)
		}
		log.Debug().Int("width", bmp.Bounds().Dx()).Int("height", bmp.Bounds().Dy()).Msg("rasterized")

		layout, err = Paginate(bmp, opts.Pagination)
		if err != nil {
			log.Error().Err(err).Msg("paginate failed")
			return Result{}, stageErr(StagePaginate, err)
		}
	}
	if layout.Clipped {
		log.Warn().Msg("content taller than one page was clipped; use slice pagination to keep it")
	}

	pdf, err := composePDF(layout)
	if err != nil {
		log.Error().Err(err).Msg("encode failed")
		return Result{}, err
	}

	if err := ctx.Err(); err != nil {
		return Result{}, stageErr(StageEmit, err)
	}
	loc, err := sink.Emit(ctx, FileName, pdf)
	if err != nil {
		log.Error().Err(err).Msg("emit failed")
		return Result{}, stageErr(StageEmit, err)
	}
	log.Info().Str("location", loc).Int("bytes", len(pdf)).Int("pages", len(layout.Pages)).Msg("exported")
	return Result{Location: loc, Bytes: len(pdf), Pages: len(layout.Pages), Clipped: layout.Clipped}, nil
}

func checkRegion(r Region) error {
	if r == nil || !r.Attached() {
		return ErrRegionUnavailable
	}
	if w, h := r.Size(); w <= 0 || h <= 0 {
		return ErrRegionUnavailable
	}
	return nil
}

// capture hides controls, rasterizes and restores controls even on panic.
func capture(r Region, c Controls, scale int) (*image.RGBA, error) {
	if c != nil {
		c.HideControls()
		defer c.ShowControls()
	}
	img, err := r.Rasterize(scale)
	if err != nil {
		return nil, err
	}
	if img == nil {
		return nil, errors.New("rasterizer returned no image")
	}
	return img, nil
}

// captureBands paints r one page-height band at a time with controls hidden.
func captureBands(ctx context.Context, r BandRegion, c Controls, scale int) (Layout, error) {
	if c != nil {
		c.HideControls()
		defer c.ShowControls()
	}
	// Size is read with controls hidden; the layout may shrink.
	w, h := r.Size()
	bands := SliceBands(w, h)
	if len(bands) == 0 {
		return Layout{}, ErrRegionUnavailable
	}
	ptPerPx := PageWidthPt / float64(w)
	pages := make([]Page, 0, len(bands))
	for _, b := range bands {
		if err := ctx.Err(); err != nil {
			return Layout{}, err
		}
		img, err := r.RasterizeBand(scale, b[0], b[1])
		if err != nil {
			return Layout{}, err
		}
		if img == nil {
			return Layout{}, errors.New("rasterizer returned no image")
		}
		pages = append(pages, Page{Image: img, HeightPt: float64(b[1]-b[0]) * ptPerPx})
	}
	return Layout{Pages: pages}, nil
}
