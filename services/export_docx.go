package services

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/fumiama/go-docx"
)

// Font sizes in half-points.
const (
	docxTitleSize   = 32
	docxHeadingSize = 24
	docxBodySize    = 22
	docxTableSize   = 20
	docxVerdictSize = 28
)

var docxTableHeader = []string{"№ п/п", "№ стыка", "Сварщик", "Описание дефектов", "Оценка"}

// docxColumnWidths fill the 9355 twip text width of an A4 page with the
// margins below.
var docxColumnWidths = []int64{700, 1500, 2000, 4155, 1000}

// A4 portrait with a 3 cm binding margin, in twips.
var docxSection = &docx.SectPr{
	PgSz:  &docx.PgSz{W: 11906, H: 16838},
	PgMar: &docx.PgMar{Top: 1134, Left: 1701, Bottom: 1134, Right: 850, Header: 708, Footer: 708},
}

// docxRowCells maps a defect onto the table columns.
func docxRowCells(d DefectRow) []string {
	return []string{
		strconv.Itoa(d.Index),
		d.WeldID,
		d.WelderName.Or(PlaceholderDash),
		d.Description.Or(NoDefectsText),
		d.Tag,
	}
}

type docxRun struct {
	text string
	bold bool
	size int
}

// addDocxRun appends a sized run to p. Leading and trailing spaces are kept.
func addDocxRun(p *docx.Paragraph, r docxRun) {
	run := p.AddText(r.text)
	size := strconv.Itoa(r.size)
	run.Size(size).SizeCs(size)
	if r.bold {
		run.Bold()
	}
	for _, c := range run.Children {
		if t, ok := c.(*docx.Text); ok {
			t.XMLSpace = "preserve"
		}
	}
}

func addDocxParagraph(p *docx.Paragraph, align string, runs ...docxRun) {
	if align != "" {
		p.Justification(align)
	}
	for _, r := range runs {
		addDocxRun(p, r)
	}
}

// addDocxTable adds a bordered table with a bold header row.
func addDocxTable(w *docx.Docx, header []string, rows [][]string) {
	var width int64
	for _, cw := range docxColumnWidths {
		width += cw
	}
	tbl := w.AddTableTwips(make([]int64, len(rows)+1), docxColumnWidths, width, nil)
	for i, tr := range tbl.TableRows {
		values, bold := header, true
		if i > 0 {
			values, bold = rows[i-1], false
		}
		for j, cell := range tr.TableCells {
			addDocxParagraph(cell.AddParagraph(), "center", docxRun{text: values[j], bold: bold, size: docxTableSize})
		}
	}
}

// buildDocx lays the document out in the same order as the PDF.
func buildDocx(p *Presentation) *docx.Docx {
	w := docx.New().WithDefaultTheme()
	addDocxParagraph(w.AddParagraph(), "center", docxRun{text: p.Title, bold: true, size: docxTitleSize})
	addDocxParagraph(w.AddParagraph(), "center", docxRun{text: p.Subtitle, size: docxBodySize})
	addDocxParagraph(w.AddParagraph(), "right", docxRun{text: "Дата: " + p.Date, size: docxBodySize})

	for _, s := range p.Sections {
		addDocxParagraph(w.AddParagraph(), "", docxRun{text: s.Title, bold: true, size: docxHeadingSize})
		for _, f := range s.Fields {
			addDocxParagraph(w.AddParagraph(), "",
				docxRun{text: f.Label + ": ", bold: true, size: docxBodySize},
				docxRun{text: f.Value, size: docxBodySize},
			)
		}
	}

	if len(p.Defects) > 0 {
		addDocxParagraph(w.AddParagraph(), "", docxRun{text: "Результаты контроля", bold: true, size: docxHeadingSize})
		rows := make([][]string, 0, len(p.Defects))
		for _, def := range p.Defects {
			rows = append(rows, docxRowCells(def))
		}
		addDocxTable(w, docxTableHeader, rows)
	}

	if c, ok := p.Conclusion.Get(); ok && c != "" {
		addDocxParagraph(w.AddParagraph(), "", docxRun{text: "Заключение", bold: true, size: docxHeadingSize})
		for _, line := range strings.Split(c, "\n") {
			addDocxParagraph(w.AddParagraph(), "both", docxRun{text: line, size: docxBodySize})
		}
	}

	addDocxParagraph(w.AddParagraph(), "center", docxRun{text: p.Verdict, bold: true, size: docxVerdictSize})

	// Section properties close the body.
	w.Document.Body.Items = append(w.Document.Body.Items, docxSection)
	return w
}

// GenerateDocx renders the presentation as a Word document.
func GenerateDocx(p *Presentation) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := buildDocx(p).WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write docx: %w", err)
	}
	return buf.Bytes(), nil
}
