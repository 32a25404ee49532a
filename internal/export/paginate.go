package export

import (
	"fmt"
	"image"
	"strings"
)

// A4 portrait in points.
const (
	PageWidthPt  = 595.28
	PageHeightPt = 841.89
)

type Pagination string

const (
	// PaginationSingle places the whole bitmap on one page scaled to page
	// width. Content taller than the page is clipped.
	PaginationSingle Pagination = "single"
	// PaginationSlice cuts the bitmap into page-height slices.
	PaginationSlice Pagination = "slice"
)

func ParsePagination(s string) (Pagination, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(PaginationSingle):
		return PaginationSingle, nil
	case string(PaginationSlice):
		return PaginationSlice, nil
	default:
		return "", fmt.Errorf("invalid pagination %q (expected single|slice)", s)
	}
}

// Page is one PDF page: an image placed at the top-left, scaled to
// page width, with height HeightPt.
type Page struct {
	Image    image.Image
	HeightPt float64
}

type Layout struct {
	Pages   []Page
	Clipped bool
}

// SliceBands cuts a region of logical size w x h into page-height bands
// [y0, y1), each filling one A4 page at page width.
func SliceBands(w, h int) [][2]int {
	if w <= 0 || h <= 0 {
		return nil
	}
	step := int(PageHeightPt * float64(w) / PageWidthPt)
	if step < 1 {
		step = 1
	}
	var bands [][2]int
	for y := 0; y < h; y += step {
		end := y + step
		if end > h {
			end = h
		}
		bands = append(bands, [2]int{y, end})
	}
	return bands
}

// Paginate fits bmp to A4 portrait width.
func Paginate(bmp image.Image, p Pagination) (Layout, error) {
	b := bmp.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return Layout{}, fmt.Errorf("empty bitmap %dx%d", b.Dx(), b.Dy())
	}
	ptPerPx := PageWidthPt / float64(b.Dx())
	fullHeightPt := float64(b.Dy()) * ptPerPx

	switch p {
	case PaginationSingle, "":
		return Layout{
			Pages:   []Page{{Image: bmp, HeightPt: fullHeightPt}},
			Clipped: fullHeightPt > PageHeightPt,
		}, nil
	case PaginationSlice:
		slicePx := int(PageHeightPt / ptPerPx)
		if slicePx < 1 {
			slicePx = 1
		}
		sub, ok := bmp.(interface {
			SubImage(image.Rectangle) image.Image
		})
		if !ok {
			return Layout{}, fmt.Errorf("bitmap %T cannot be sliced", bmp)
		}
		var pages []Page
		for y := b.Min.Y; y < b.Max.Y; y += slicePx {
			end := y + slicePx
			if end > b.Max.Y {
				end = b.Max.Y
			}
			img := sub.SubImage(image.Rect(b.Min.X, y, b.Max.X, end))
			pages = append(pages, Page{Image: img, HeightPt: float64(end-y) * ptPerPx})
		}
		return Layout{Pages: pages}, nil
	default:
		return Layout{}, fmt.Errorf("invalid pagination %q", p)
	}
}
