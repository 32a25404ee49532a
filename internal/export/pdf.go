package export

import (
	"bytes"
	"fmt"
	"image/jpeg"

	"github.com/go-pdf/fpdf"
)

// JPEGQuality is the lossy quality used for page images.
const JPEGQuality = 92

// composePDF encodes each page as JPEG and places it on its own A4 page.
func composePDF(l Layout) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	for i, p := range l.Pages {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, p.Image, &jpeg.Options{Quality: JPEGQuality}); err != nil {
			return nil, stageErr(StageEncode, fmt.Errorf("page %d: %w", i+1, err))
		}
		name := fmt.Sprintf("page-%d", i+1)
		opts := fpdf.ImageOptions{ImageType: "JPG", ReadDpi: false}
		pdf.RegisterImageOptionsReader(name, opts, &buf)
		pdf.AddPage()
		pdf.ImageOptions(name, 0, 0, PageWidthPt, p.HeightPt, false, opts, 0, "")
		if err := pdf.Error(); err != nil {
			return nil, stageErr(StageEncode, err)
		}
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, stageErr(StageEncode, err)
	}
	return out.Bytes(), nil
}
