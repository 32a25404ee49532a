package render

import (
	"fmt"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

type FontRole int

const (
	Regular FontRole = iota
	Bold
	Italic
)

var (
	parsedOnce  sync.Once
	parsedFonts map[FontRole]*sfnt.Font
	parsedErr   error
)

func parsed() (map[FontRole]*sfnt.Font, error) {
	parsedOnce.Do(func() {
		srcs := map[FontRole][]byte{
			Regular: goregular.TTF,
			Bold:    gobold.TTF,
			Italic:  goitalic.TTF,
		}
		out := make(map[FontRole]*sfnt.Font, len(srcs))
		for role, ttf := range srcs {
			f, err := opentype.Parse(ttf)
			if err != nil {
				parsedErr = fmt.Errorf("parse font %d: %w", role, err)
				return
			}
			out[role] = f
		}
		parsedFonts = out
	})
	return parsedFonts, parsedErr
}

type faceKey struct {
	role FontRole
	size float64
}

// faces caches opentype faces for one layout or raster pass. Faces are not
// safe for concurrent use, so each pass gets its own set.
type faces struct {
	scale float64
	m     map[faceKey]font.Face
}

func newFaces(scale float64) *faces {
	return &faces{scale: scale, m: map[faceKey]font.Face{}}
}

func (fs *faces) get(role FontRole, size float64) (font.Face, error) {
	k := faceKey{role, size}
	if f, ok := fs.m[k]; ok {
		return f, nil
	}
	fonts, err := parsed()
	if err != nil {
		return nil, err
	}
	f, err := opentype.NewFace(fonts[role], &opentype.FaceOptions{
		Size:    size * fs.scale,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	fs.m[k] = f
	return f, nil
}

func (fs *faces) close() {
	for _, f := range fs.m {
		_ = f.Close()
	}
}

func lineHeight(size float64) int {
	return int(math.Ceil(size * 1.35))
}
