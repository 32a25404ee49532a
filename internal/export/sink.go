package export

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/natefinch/atomic"
)

// FileName is the fixed name of every exported document.
const FileName = "lockin-plan.pdf"

// Sink receives a finished document.
type Sink interface {
	Emit(ctx context.Context, name string, pdf []byte) (string, error)
}

// FileSink writes the document into Dir atomically, so a failed export never
// leaves a partial file behind.
type FileSink struct {
	Dir string
}

func (s FileSink) Emit(_ context.Context, name string, pdf []byte) (string, error) {
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if err := atomic.WriteFile(path, bytes.NewReader(pdf)); err != nil {
		return "", err
	}
	return path, nil
}

// HTTPSink streams the document as an attachment download.
type HTTPSink struct {
	W http.ResponseWriter
}

func (s HTTPSink) Emit(_ context.Context, name string, pdf []byte) (string, error) {
	h := s.W.Header()
	h.Set("Content-Type", "application/pdf")
	h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	h.Set("Content-Length", strconv.Itoa(len(pdf)))
	if _, err := s.W.Write(pdf); err != nil {
		return "", err
	}
	return name, nil
}
