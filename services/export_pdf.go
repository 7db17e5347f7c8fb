package services

import (
	"fmt"
	"strconv"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/core/entity"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/johnfercher/maroto/v2/pkg/repository"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// ExportOptions tunes the generated documents.
type ExportOptions struct {
	WrapWidth int    // characters per line of body text
	FontPath  string // optional TTF replacing the embedded Go fonts in the PDF
}

const pdfFontFamily = "ndt"

// Vertical space per text line, in mm.
const (
	pdfTableLineHeight = 3.5
	// pdfMaxTableLines keeps a single table row well inside the printable
	// height of an A4 page.
	pdfMaxTableLines = 60
)

type pdfBlockKind int

const (
	pdfTitle pdfBlockKind = iota
	pdfSubtitle
	pdfDate
	pdfSectionTitle
	pdfField
	pdfTableHeader
	pdfTableRow
	pdfTableEmpty
	pdfParagraph
	pdfVerdict
)

// pdfBlock is one layout unit of the PDF. Text is already wrapped.
type pdfBlock struct {
	kind  pdfBlockKind
	lines []string
	cells [][]string
}

// pdfColumn describes one defect table column on the 12-unit maroto grid.
type pdfColumn struct {
	title string
	span  int
}

var pdfColumns = []pdfColumn{
	{"№ п/п", 1},
	{"№ стыка", 1},
	{"Сварщик", 2},
	{"Диаметр", 1},
	{"Описание дефектов", 3},
	{"Расположение", 2},
	{"Размер", 1},
	{"Оценка", 1},
}

// pdfRowCells maps a defect onto the table columns with placeholders.
func pdfRowCells(d DefectRow) []string {
	return []string{
		strconv.Itoa(d.Index),
		d.WeldID,
		d.WelderName.Or(PlaceholderDash),
		d.Diameter.Or(PlaceholderDash),
		d.Description.Or(NoDefectsText),
		d.Location.Or(PlaceholderDash),
		d.Size.Or(PlaceholderDash),
		d.Tag,
	}
}

// buildPDFBlocks lays out p in document order with body text wrapped to
// width characters.
func buildPDFBlocks(p *Presentation, width int) []pdfBlock {
	if width <= 0 {
		width = 90
	}
	blocks := []pdfBlock{
		{kind: pdfTitle, lines: WrapText(p.Title, width)},
		{kind: pdfSubtitle, lines: WrapText(p.Subtitle, width)},
		{kind: pdfDate, lines: []string{"Дата: " + p.Date}},
	}

	for _, s := range p.Sections {
		blocks = append(blocks, pdfBlock{kind: pdfSectionTitle, lines: []string{s.Title}})
		for _, f := range s.Fields {
			blocks = append(blocks, pdfBlock{kind: pdfField, lines: WrapText(f.Label+": "+f.Value, width)})
		}
	}

	blocks = append(blocks, pdfBlock{kind: pdfSectionTitle, lines: []string{"Результаты контроля"}})
	header := make([][]string, len(pdfColumns))
	for i, c := range pdfColumns {
		header[i] = WrapText(c.title, columnWidth(width, c.span))
	}
	blocks = append(blocks, pdfBlock{kind: pdfTableHeader, cells: header})
	if len(p.Defects) == 0 {
		blocks = append(blocks, pdfBlock{kind: pdfTableEmpty, lines: []string{NoDefectsText}})
	}
	for _, d := range p.Defects {
		raw := pdfRowCells(d)
		cells := make([][]string, len(raw))
		for i, v := range raw {
			cells[i] = WrapText(v, columnWidth(width, pdfColumns[i].span))
		}
		blocks = append(blocks, pdfBlock{kind: pdfTableRow, cells: cells})
	}

	if c, ok := p.Conclusion.Get(); ok && c != "" {
		blocks = append(blocks,
			pdfBlock{kind: pdfSectionTitle, lines: []string{"Заключение"}},
			pdfBlock{kind: pdfParagraph, lines: WrapText(c, width)},
		)
	}
	blocks = append(blocks, pdfBlock{kind: pdfVerdict, lines: WrapText(p.Verdict, width)})
	return blocks
}

// columnWidth scales the page wrap width to a table column. Table text is
// set smaller than body text.
func columnWidth(width, span int) int {
	w := width * span * 11 / (12 * 9)
	if w < 4 {
		return 4
	}
	return w
}

// GeneratePDF renders the presentation as an A4 portrait PDF. Pagination is
// handled by maroto as rows overflow a page.
func GeneratePDF(p *Presentation, opts ExportOptions) ([]byte, error) {
	builder := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).
		WithTopMargin(12).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Страница {current} из {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		})

	fonts, err := pdfFonts(opts.FontPath)
	if err != nil {
		return nil, err
	}
	builder = builder.
		WithCustomFonts(fonts).
		WithDefaultFont(&props.Font{Family: pdfFontFamily})

	m := maroto.New(builder.Build())
	for _, b := range buildPDFBlocks(p, opts.WrapWidth) {
		addPDFBlock(m, b)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

// pdfFonts registers the regular and bold faces of the document font. The
// Go fonts cover Cyrillic and are used unless path names a TTF file.
func pdfFonts(path string) ([]*entity.CustomFont, error) {
	repo := repository.New()
	if path != "" {
		repo = repo.
			AddUTF8Font(pdfFontFamily, fontstyle.Normal, path).
			AddUTF8Font(pdfFontFamily, fontstyle.Bold, path)
	} else {
		repo = repo.
			AddUTF8FontFromBytes(pdfFontFamily, fontstyle.Normal, goregular.TTF).
			AddUTF8FontFromBytes(pdfFontFamily, fontstyle.Bold, gobold.TTF)
	}
	fonts, err := repo.Load()
	if err != nil {
		return nil, fmt.Errorf("load pdf font %s: %w", path, err)
	}
	return fonts, nil
}

func addPDFBlock(m core.Maroto, b pdfBlock) {
	switch b.kind {
	case pdfTitle:
		addLines(m, b.lines, props.Text{Size: 14, Style: fontstyle.Bold, Align: align.Center}, 6.5)
	case pdfSubtitle:
		addLines(m, b.lines, props.Text{Size: 10, Align: align.Center}, 5)
	case pdfDate:
		addLines(m, b.lines, props.Text{Size: 9, Align: align.Right}, 5)
		m.AddRows(row.New(3))
	case pdfSectionTitle:
		m.AddRows(row.New(2))
		addLines(m, b.lines, props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Left}, 6)
	case pdfField, pdfParagraph:
		addLines(m, b.lines, props.Text{Size: 9, Align: align.Left}, 4.5)
	case pdfTableHeader:
		addTableCells(m, b.cells, props.Text{Size: 7, Style: fontstyle.Bold, Align: align.Center},
			&props.Color{Red: 230, Green: 230, Blue: 230})
	case pdfTableRow:
		addTableCells(m, b.cells, props.Text{Size: 7, Align: align.Center}, nil)
	case pdfTableEmpty:
		m.AddRows(row.New(7).Add(
			col.New(12).Add(text.New(b.lines[0], props.Text{Size: 8, Align: align.Center, Top: 1.5})).
				WithStyle(tableCellStyle(nil)),
		))
	case pdfVerdict:
		m.AddRows(row.New(6))
		addLines(m, b.lines, props.Text{Size: 11, Style: fontstyle.Bold, Align: align.Center}, 5.5)
	}
}

// addLines adds one full-width row per pre-wrapped line so maroto can move
// to a new page between any two lines.
func addLines(m core.Maroto, lines []string, style props.Text, lineHeight float64) {
	for _, l := range lines {
		m.AddRows(row.New(lineHeight).Add(col.New(12).Add(text.New(l, style))))
	}
}

// addTableCells adds one table row. A row with more than pdfMaxTableLines
// lines in some cell continues in further rows so no row is taller than a
// page.
func addTableCells(m core.Maroto, cells [][]string, style props.Text, bg *props.Color) {
	maxLines := 1
	for _, c := range cells {
		maxLines = max(maxLines, len(c))
	}

	for from := 0; from < maxLines; from += pdfMaxTableLines {
		to := min(from+pdfMaxTableLines, maxLines)
		cols := make([]core.Col, 0, len(cells))
		for i, lines := range cells {
			c := col.New(pdfColumns[i].span)
			for j := from; j < to && j < len(lines); j++ {
				s := style
				s.Top = 1 + float64(j-from)*pdfTableLineHeight
				c.Add(text.New(lines[j], s))
			}
			cols = append(cols, c.WithStyle(tableCellStyle(bg)))
		}
		m.AddRows(row.New(float64(to-from)*pdfTableLineHeight + 2).Add(cols...))
	}
}

func tableCellStyle(bg *props.Color) *props.Cell {
	return &props.Cell{
		BackgroundColor: bg,
		BorderType:      border.Full,
		BorderColor:     &props.Color{Red: 0, Green: 0, Blue: 0},
		BorderThickness: 0.2,
	}
}
