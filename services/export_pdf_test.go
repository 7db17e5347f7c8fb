package services

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"unicode/utf16"

	"github.com/mattn/go-runewidth"

	"ndtreports/model"
)

func allPDFText(blocks []pdfBlock) string {
	var b strings.Builder
	for _, blk := range blocks {
		for _, l := range blk.lines {
			b.WriteString(l)
			b.WriteByte('\n')
		}
		for _, c := range blk.cells {
			b.WriteString(strings.Join(c, " "))
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// A4 height in points.
const pdfPageHeight = 841.89

// pdfTextOp matches the text operators written for UTF-8 fonts: position
// followed by an escaped UTF-16BE string.
var pdfTextOp = regexp.MustCompile(`(?s)BT (-?[0-9.]+) (-?[0-9.]+) Td \(((?:\\.|[^\\])*?)\) Tj`)

// pdfString encodes s the way it appears inside a content stream string.
func pdfString(s string) []byte {
	var b []byte
	for _, u := range utf16.Encode([]rune(s)) {
		b = append(b, byte(u>>8), byte(u))
	}
	var out []byte
	for _, c := range b {
		switch c {
		case '\\', '(', ')':
			out = append(out, '\\', c)
		case '\r':
			out = append(out, '\\', 'r')
		default:
			out = append(out, c)
		}
	}
	return out
}

type pdfTextLine struct {
	y    float64
	text []byte
}

func pdfTextLines(t *testing.T, pdf []byte) []pdfTextLine {
	t.Helper()
	var lines []pdfTextLine
	for _, m := range pdfTextOp.FindAllSubmatch(pdf, -1) {
		y, err := strconv.ParseFloat(string(m[2]), 64)
		if err != nil {
			t.Fatalf("bad text position %q: %v", m[2], err)
		}
		lines = append(lines, pdfTextLine{y: y, text: m[3]})
	}
	return lines
}

func pdfPageCount(pdf []byte) int {
	return bytes.Count(pdf, []byte("<</Type /Page\n"))
}

// assertLinesOnPage checks every text line sits inside the page and returns
// how many lines contain word.
func assertLinesOnPage(t *testing.T, pdf []byte, word string) int {
	t.Helper()
	lines := pdfTextLines(t, pdf)
	if len(lines) == 0 {
		t.Fatal("no text operators found in the PDF")
	}
	needle := pdfString(word)
	count := 0
	for _, l := range lines {
		if l.y <= 0 || l.y > pdfPageHeight {
			t.Errorf("text at y=%.2f is outside the page", l.y)
		}
		if bytes.Contains(l.text, needle) {
			count++
		}
	}
	return count
}

func TestGeneratePDF_CyrillicText(t *testing.T) {
	p := BuildPresentation(fullRecord())
	result, err := GeneratePDF(p, ExportOptions{WrapWidth: 90})
	if err != nil {
		t.Fatalf("GeneratePDF() error = %v", err)
	}

	for _, want := range []string{p.Title, "Результаты контроля", "Сварщик", "Оборудование: УД2-12"} {
		if !bytes.Contains(result, pdfString(want)) {
			t.Errorf("PDF text %q not found", want)
		}
	}
	if bytes.Contains(result, []byte("(..........")) {
		t.Error("Cyrillic text was replaced with dots")
	}
}

func TestGeneratePDF_LongConclusionPaginates(t *testing.T) {
	rec := fullRecord()
	rec.Conclusion = model.Some(strings.Repeat("слово ", 4000))
	p := BuildPresentation(rec)

	result, err := GeneratePDF(p, ExportOptions{WrapWidth: 90})
	if err != nil {
		t.Fatalf("GeneratePDF() error = %v", err)
	}
	if pages := pdfPageCount(result); pages < 2 {
		t.Errorf("pages = %d, want several", pages)
	}

	c, _ := p.Conclusion.Get()
	want := len(WrapText(c, 90))
	if got := assertLinesOnPage(t, result, "слово"); got != want {
		t.Errorf("conclusion lines in PDF = %d, want %d", got, want)
	}
}

func TestGeneratePDF_TallDefectRowSplits(t *testing.T) {
	rec := fullRecord()
	desc := strings.Repeat("непровар ", 800)
	rec.Defects[0].Description = model.Some(desc)
	p := BuildPresentation(rec)

	result, err := GeneratePDF(p, ExportOptions{WrapWidth: 90})
	if err != nil {
		t.Fatalf("GeneratePDF() error = %v", err)
	}
	if pages := pdfPageCount(result); pages < 2 {
		t.Errorf("pages = %d, want several", pages)
	}

	want := len(WrapText(p.Defects[0].Description.Or(""), columnWidth(90, 3)))
	if want <= pdfMaxTableLines {
		t.Fatalf("description wraps to %d lines, too few to split", want)
	}
	if got := assertLinesOnPage(t, result, "непровар"); got != want {
		t.Errorf("description lines in PDF = %d, want %d", got, want)
	}
}

func TestGeneratePDF_Full(t *testing.T) {
	result, err := GeneratePDF(BuildPresentation(fullRecord()), ExportOptions{WrapWidth: 90})
	if err != nil {
		t.Fatalf("GeneratePDF() error = %v", err)
	}
	if len(result) < 5 || string(result[:5]) != "%PDF-" {
		t.Fatalf("result does not start with PDF header")
	}
}

func TestGeneratePDF_IncompleteRecordDoesNotFail(t *testing.T) {
	result, err := GeneratePDF(BuildPresentation(sparseRecord()), ExportOptions{})
	if err != nil {
		t.Fatalf("GeneratePDF() error = %v", err)
	}
	if len(result) == 0 {
		t.Fatal("GeneratePDF() returned empty bytes")
	}
}

func TestGeneratePDF_MissingFont(t *testing.T) {
	_, err := GeneratePDF(BuildPresentation(sparseRecord()), ExportOptions{FontPath: "/nonexistent/font.ttf"})
	if err == nil {
		t.Fatal("expected an error for a missing font file")
	}
}

func TestBuildPDFBlocks_Order(t *testing.T) {
	blocks := buildPDFBlocks(BuildPresentation(fullRecord()), 90)

	if blocks[0].kind != pdfTitle {
		t.Errorf("first block = %v, want title", blocks[0].kind)
	}
	if last := blocks[len(blocks)-1]; last.kind != pdfVerdict {
		t.Errorf("last block = %v, want verdict", last.kind)
	}

	text := allPDFText(blocks)
	order := []string{"ЗАКЛЮЧЕНИЕ", "Лаборатория неразрушающего контроля", "Объект контроля", "Параметры контроля", "Результаты контроля", "Заключение", "Сварные соединения соответствуют"}
	pos := -1
	for _, s := range order {
		i := strings.Index(text, s)
		if i <= pos {
			t.Fatalf("%q out of order (at %d, previous %d)", s, i, pos)
		}
		pos = i
	}
}

func TestBuildPDFBlocks_NoEquipmentLabelWhenAbsent(t *testing.T) {
	text := allPDFText(buildPDFBlocks(BuildPresentation(sparseRecord()), 90))
	if strings.Contains(text, "Оборудование:") {
		t.Error("absent equipment produced an Оборудование: line")
	}

	text = allPDFText(buildPDFBlocks(BuildPresentation(fullRecord()), 90))
	if !strings.Contains(text, "Оборудование: УД2-12") {
		t.Error("present equipment missing from PDF layout")
	}
}

func TestBuildPDFBlocks_Placeholders(t *testing.T) {
	blocks := buildPDFBlocks(BuildPresentation(fullRecord()), 90)

	var rows [][][]string
	for _, b := range blocks {
		if b.kind == pdfTableRow {
			rows = append(rows, b.cells)
		}
	}
	if len(rows) != 2 {
		t.Fatalf("table rows = %d, want 2", len(rows))
	}
	second := rows[1]
	if second[2][0] != PlaceholderDash {
		t.Errorf("welder placeholder = %q", second[2][0])
	}
	if strings.Join(second[4], " ") != NoDefectsText {
		t.Errorf("description default = %q", strings.Join(second[4], " "))
	}
	if second[5][0] != PlaceholderDash || second[6][0] != PlaceholderDash {
		t.Error("location and size placeholders should be dashes")
	}
	if second[7][0] != "БРАК" {
		t.Errorf("tag = %q", second[7][0])
	}
}

func TestBuildPDFBlocks_NoDefectsRow(t *testing.T) {
	blocks := buildPDFBlocks(BuildPresentation(sparseRecord()), 90)
	found := false
	for _, b := range blocks {
		if b.kind == pdfTableRow {
			t.Error("record without defects produced a defect row")
		}
		if b.kind == pdfTableEmpty && b.lines[0] == NoDefectsText {
			found = true
		}
	}
	if !found {
		t.Error("missing the no-defects row")
	}
}

func TestBuildPDFBlocks_WrapsLongText(t *testing.T) {
	rec := fullRecord()
	rec.Conclusion = model.Some(strings.Repeat("Контроль сварного соединения выполнен ", 10))
	rec.Defects[0].Description = model.Some(strings.Repeat("непровар ", 12))
	p := BuildPresentation(rec)

	for _, b := range buildPDFBlocks(p, 40) {
		for _, l := range b.lines {
			if runewidth.StringWidth(l) > 40 {
				t.Errorf("line wider than 40: %q", l)
			}
		}
	}
}
