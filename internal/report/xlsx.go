package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const summarySheet = "Summary"

// XLSXRenderer renders a Document as a workbook: one summary sheet plus one sheet per table.
type XLSXRenderer struct{}

// Extension implements Renderer.
func (XLSXRenderer) Extension() string { return "xlsx" }

// Render implements Renderer.
func (XLSXRenderer) Render(doc Document) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 13}})
	if err != nil {
		return nil, fmt.Errorf("failed to create title style: %w", err)
	}

	s := &sheetWriter{f: f, sheet: summarySheet, bold: boldStyle}
	s.title(doc.Title)
	s.line(doc.Subtitle)
	s.fields(doc.Header())
	s.line("Report ID", doc.ID)
	s.row++

	if len(doc.Summary) > 0 {
		s.title("Statistical Summary")
		s.fields(doc.Summary)
		s.row++
	}

	names := map[string]int{summarySheet: 1}
	for _, sec := range doc.Sections {
		s.title(sec.Title)
		if sec.IsEmpty() {
			s.line(sec.Empty)
		}
		s.fields(sec.Fields)
		for _, t := range sec.Tables {
			name := sheetName(t, sec, names)
			s.line(name, fmt.Sprintf("%d rows", len(t.Rows)))
			if err := writeTable(f, name, t, headerStyle); err != nil {
				return nil, err
			}
		}
		s.row++
	}

	if len(doc.Recommendations) > 0 {
		s.title("Recommendations")
		for _, rec := range doc.Recommendations {
			s.line(rec)
		}
		s.row++
	}
	s.line(doc.Footer)

	if err := f.SetColWidth(summarySheet, "A", "A", 28); err != nil {
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}
	if err := f.SetColWidth(summarySheet, "B", "B", 40); err != nil {
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}
	if s.err != nil {
		return nil, s.err
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write to buffer: %w", err)
	}
	return buf.Bytes(), nil
}

// sheetWriter appends rows to a sheet and keeps the first error.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	bold  int
	row   int
	err   error
}

func (s *sheetWriter) line(values ...string) {
	s.row++
	for i, v := range values {
		s.set(i+1, v)
	}
}

func (s *sheetWriter) title(text string) {
	s.line(text)
	if s.err != nil {
		return
	}
	cell, _ := excelize.CoordinatesToCellName(1, s.row)
	if err := s.f.SetCellStyle(s.sheet, cell, cell, s.bold); err != nil {
		s.err = fmt.Errorf("failed to set title style: %w", err)
	}
}

func (s *sheetWriter) fields(fields []Field) {
	for _, fl := range fields {
		s.line(fl.Label, fl.Value)
	}
}

func (s *sheetWriter) set(col int, value string) {
	if s.err != nil {
		return
	}
	if err := setCellValue(s.f, s.sheet, col, s.row, value); err != nil {
		s.err = fmt.Errorf("failed to set cell value at row %d, col %d: %w", s.row, col, err)
	}
}

func writeTable(f *excelize.File, sheet string, t Table, headerStyle int) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	for col, header := range t.Columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("failed to set header style: %w", err)
		}
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(sheet, name, name, 18); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i, row := range t.Rows {
		for col, value := range row {
			if err := setCellValue(f, sheet, col+1, i+2, value); err != nil {
				return fmt.Errorf("failed to set cell value at row %d, col %d: %w", i+2, col+1, err)
			}
		}
	}

	// Freeze the header row
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze panes: %w", err)
	}
	return nil
}

// sheetName picks a unique sheet name of at most 31 characters.
func sheetName(t Table, sec Section, used map[string]int) string {
	base := t.Title
	if base == "" {
		base = sec.Title
	}
	if len(base) > 28 {
		base = base[:28]
	}
	used[base]++
	if n := used[base]; n > 1 {
		return fmt.Sprintf("%s %d", base, n)
	}
	return base
}

func setCellValue(f *excelize.File, sheet string, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, cell, value)
}
