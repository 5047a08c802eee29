package report

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

const (
	pdfMargin     = 15.0
	pdfLineHeight = 7.0
)

// PDFRenderer renders a Document as an A4 PDF.
type PDFRenderer struct{}

// Extension implements Renderer.
func (PDFRenderer) Extension() string { return "pdf" }

// Render implements Renderer.
func (PDFRenderer) Render(doc Document) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetTitle(doc.Title, true)
	pdf.SetSubject(doc.ID, true)
	pdf.SetCreationDate(doc.GeneratedAt)
	pdf.AddPage()

	w := &pdfWriter{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	w.width, _ = pdf.GetPageSize()
	w.width -= 2 * pdfMargin

	w.text(doc.Title, 16, "B", "C")
	w.text(doc.Subtitle, 14, "", "C")
	pdf.Ln(6)
	for _, f := range doc.Header() {
		w.text(f.Label+": "+f.Value, 12, "", "L")
	}
	pdf.Ln(6)

	if len(doc.Summary) > 0 {
		w.heading("Statistical Summary")
		w.fields(doc.Summary)
	}

	for _, sec := range doc.Sections {
		w.heading(sec.Title)
		if sec.IsEmpty() {
			w.text(sec.Empty, 11, "I", "L")
			continue
		}
		w.fields(sec.Fields)
		for _, t := range sec.Tables {
			w.table(t)
		}
	}

	if len(doc.Recommendations) > 0 {
		w.heading("Recommendations")
		for _, rec := range doc.Recommendations {
			w.text("- "+rec, 11, "", "L")
		}
	}

	pdf.Ln(6)
	w.text(doc.Footer, 9, "I", "C")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

type pdfWriter struct {
	pdf   *fpdf.Fpdf
	tr    func(string) string
	width float64
}

func (w *pdfWriter) text(s string, size float64, style, align string) {
	w.pdf.SetFont("Helvetica", style, size)
	w.pdf.MultiCell(w.width, pdfLineHeight*size/12, w.tr(s), "", align, false)
}

func (w *pdfWriter) heading(s string) {
	w.pdf.Ln(3)
	w.text(s, 14, "B", "L")
	w.pdf.Ln(1)
}

func (w *pdfWriter) fields(fields []Field) {
	for _, f := range fields {
		w.text(f.Label+": "+f.Value, 11, "", "L")
	}
}

func (w *pdfWriter) table(t Table) {
	if t.Title != "" {
		w.text(t.Title, 12, "B", "L")
	}
	if len(t.Columns) == 0 {
		return
	}

	colWidth := w.width / float64(len(t.Columns))
	w.pdf.SetFont("Helvetica", "B", 10)
	w.pdf.SetFillColor(230, 243, 255)
	for _, c := range t.Columns {
		w.pdf.CellFormat(colWidth, pdfLineHeight, w.fit(c, colWidth), "1", 0, "C", true, 0, "")
	}
	w.pdf.Ln(-1)

	w.pdf.SetFont("Helvetica", "", 10)
	for _, row := range t.Rows {
		for _, cell := range row {
			w.pdf.CellFormat(colWidth, pdfLineHeight, w.fit(cell, colWidth), "1", 0, "L", false, 0, "")
		}
		w.pdf.Ln(-1)
	}
	w.pdf.Ln(2)
}

// fit truncates s so it fits a cell of the given width.
func (w *pdfWriter) fit(s string, width float64) string {
	out := w.tr(s)
	limit := width - 2
	if w.pdf.GetStringWidth(out) <= limit {
		return out
	}
	// Translated text is single-byte, so trimming bytes is safe
	for len(out) > 0 && w.pdf.GetStringWidth(out+"...") > limit {
		out = out[:len(out)-1]
	}
	return out + "..."
}
