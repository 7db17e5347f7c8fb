package services

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

const (
	excelSheet   = "Заключение"
	excelMinRows = 15
)

// excelColumnWidths are the fixed widths of columns A..G.
var excelColumnWidths = []float64{14, 18, 24, 36, 16, 10, 14}

// excelTableHeader is the bilingual column description row.
var excelTableHeader = []string{
	"№ стыка\nJoint No.",
	"Диаметр x толщина, мм\nDiameter x wall, mm",
	"Сварщик (клеймо)\nWelder (stamp)",
	"Описание дефектов\nDefect description",
	"Расположение\nLocation",
	"Оценка\nAssessment",
	"Примечание\nNote",
}

// excelRowCells maps a defect onto columns A..G.
func excelRowCells(d DefectRow) []string {
	return []string{
		d.WeldID,
		d.Geometry(),
		d.WelderName.Or(PlaceholderDash),
		d.Description.Or(NoDefectsText),
		d.Location.Or(DefaultLocationText),
		d.Tag,
		"",
	}
}

type excelStyles struct {
	label, value, title, subtitle, tableHeader, cell, verdict, paragraph int
}

func newExcelStyles(f *excelize.File) (excelStyles, error) {
	var s excelStyles
	defs := []struct {
		dst   *int
		style *excelize.Style
	}{
		{&s.label, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Size: 10},
			Alignment: &excelize.Alignment{Vertical: "center", WrapText: true},
		}},
		{&s.value, &excelize.Style{
			Font:      &excelize.Font{Size: 10},
			Alignment: &excelize.Alignment{Vertical: "center", WrapText: true},
		}},
		{&s.title, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Size: 14},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		}},
		{&s.subtitle, &excelize.Style{
			Font:      &excelize.Font{Size: 11},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		}},
		{&s.tableHeader, &excelize.Style{
			Font: &excelize.Font{Bold: true, Size: 10},
			Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6E6E6"}, Pattern: 1},
			Alignment: &excelize.Alignment{
				Horizontal: "center",
				Vertical:   "center",
				WrapText:   true,
			},
			Border: thinBorders(),
		}},
		{&s.cell, &excelize.Style{
			Font: &excelize.Font{Size: 10},
			Alignment: &excelize.Alignment{
				Horizontal: "center",
				Vertical:   "center",
				WrapText:   true,
			},
			Border: thinBorders(),
		}},
		{&s.paragraph, &excelize.Style{
			Font:      &excelize.Font{Size: 10},
			Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
		}},
		{&s.verdict, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Size: 12},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		}},
	}
	for _, d := range defs {
		id, err := f.NewStyle(d.style)
		if err != nil {
			return s, fmt.Errorf("create style: %w", err)
		}
		*d.dst = id
	}
	return s, nil
}

// excelSheetWriter tracks the current row while the sheet is filled top
// to bottom.
type excelSheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
	err   error
}

func (w *excelSheetWriter) cell(col int) string {
	name, _ := excelize.CoordinatesToCellName(col, w.row)
	return name
}

// merged writes v into columns from..to of the current row as one cell.
func (w *excelSheetWriter) merged(from, to int, v string, style int) {
	if w.err != nil {
		return
	}
	start, end := w.cell(from), w.cell(to)
	if from != to {
		if err := w.f.MergeCell(w.sheet, start, end); err != nil {
			w.err = fmt.Errorf("merge %s:%s: %w", start, end, err)
			return
		}
	}
	// String cells are never evaluated, so values such as "-15 °C" are
	// written as is.
	if err := w.f.SetCellStr(w.sheet, start, v); err != nil {
		w.err = fmt.Errorf("set %s: %w", start, err)
		return
	}
	if err := w.f.SetCellStyle(w.sheet, start, end, style); err != nil {
		w.err = fmt.Errorf("style %s:%s: %w", start, end, err)
	}
}

// cells writes one value per column starting at column A.
func (w *excelSheetWriter) cells(values []string, style int) {
	for i, v := range values {
		w.merged(i+1, i+1, v, style)
	}
}

func (w *excelSheetWriter) height(h float64) {
	if w.err != nil {
		return
	}
	if err := w.f.SetRowHeight(w.sheet, w.row, h); err != nil {
		w.err = fmt.Errorf("row height %d: %w", w.row, err)
	}
}

func (w *excelSheetWriter) next() { w.row++ }

// GenerateExcel renders the presentation as a single-sheet workbook: a
// label/value header, a merged title, the defect table and the verdict.
func GenerateExcel(p *Presentation) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), excelSheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	lastCol := len(excelColumnWidths)
	for i, width := range excelColumnWidths {
		name, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(excelSheet, name, name, width); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", name, err)
		}
	}

	styles, err := newExcelStyles(f)
	if err != nil {
		return nil, err
	}

	w := &excelSheetWriter{f: f, sheet: excelSheet, row: 1}

	// Header region: label in A:B, value in C:G.
	for _, field := range p.Fields() {
		w.merged(1, 2, field.Label, styles.label)
		w.merged(3, lastCol, field.Value, styles.value)
		w.next()
	}
	w.next()

	// Title region.
	w.merged(1, lastCol, p.Title, styles.title)
	w.height(22)
	w.next()
	w.merged(1, lastCol, p.Subtitle, styles.subtitle)
	w.next()
	w.merged(1, lastCol, "от "+p.DateLong, styles.subtitle)
	w.next()
	w.next()

	// Table region.
	w.cells(excelTableHeader, styles.tableHeader)
	w.height(30)
	w.next()
	index := make([]string, lastCol)
	for i := range index {
		index[i] = strconv.Itoa(i + 1)
	}
	w.cells(index, styles.tableHeader)
	w.next()

	for _, d := range p.Defects {
		w.cells(excelRowCells(d), styles.cell)
		w.next()
	}
	// An empty table is padded so the printed form keeps its shape.
	if len(p.Defects) == 0 {
		for range excelMinRows {
			w.cells(make([]string, lastCol), styles.cell)
			w.next()
		}
	}
	w.next()

	if c, ok := p.Conclusion.Get(); ok && c != "" {
		w.merged(1, lastCol, "Заключение: "+c, styles.paragraph)
		w.height(15 * float64(len(WrapText(c, 120))+1))
		w.next()
		w.next()
	}
	w.merged(1, lastCol, p.Verdict, styles.verdict)
	w.height(32)

	if w.err != nil {
		return nil, w.err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}
