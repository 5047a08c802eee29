package report

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
	"go.uber.org/zap"
)

// ErrRendererUnavailable is returned when no renderer is configured for an export.
var ErrRendererUnavailable = errors.New("report renderer unavailable")

// Renderer turns a Document into file bytes.
type Renderer interface {
	Render(doc Document) ([]byte, error)
	Extension() string
}

// RendererFor returns the renderer for a format name ("pdf" or "xlsx").
func RendererFor(format string) (Renderer, bool) {
	switch format {
	case "pdf":
		return PDFRenderer{}, true
	case "xlsx":
		return XLSXRenderer{}, true
	default:
		return nil, false
	}
}

// Exporter renders documents and writes them to disk.
type Exporter struct {
	renderer Renderer
	logger   *zap.Logger
}

// NewExporter creates an exporter. A nil renderer makes every export fail
// with ErrRendererUnavailable.
func NewExporter(renderer Renderer, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{renderer: renderer, logger: logger}
}

// Export renders doc into dir and returns the written path.
// Nothing is written unless rendering succeeds, and the file appears atomically.
func (e *Exporter) Export(doc Document, dir string) (string, error) {
	if e.renderer == nil {
		return "", ErrRendererUnavailable
	}

	data, err := e.renderer.Render(doc)
	if err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	path := filepath.Join(dir, doc.FileName(e.renderer.Extension()))
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}

	e.logger.Info("report exported",
		zap.String("path", path),
		zap.String("kind", string(doc.Kind)),
		zap.String("report_id", doc.ID),
		zap.Int("bytes", len(data)),
	)
	return path, nil
}
