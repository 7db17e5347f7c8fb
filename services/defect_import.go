package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"ndtreports/model"
)

// ImportField describes one column of the defect import sheet.
type ImportField struct {
	Key          string // DefectDraft field the column fills
	Label        string // header shown in the sheet
	Description  string // shown on the instructions sheet
	ExampleValue string
	Required     bool
}

// DefectImportFields returns the ordered columns of the defect import sheet.
func DefectImportFields() []ImportField {
	return []ImportField{
		{Key: "weld_id", Label: "№ стыка", Description: "Номер сварного соединения", ExampleValue: "СС-123", Required: true},
		{Key: "welder_id", Label: "Клеймо сварщика", Description: "Код сварщика из справочника", ExampleValue: "W01"},
		{Key: "diameter", Label: "Диаметр", Description: "Наружный диаметр, мм", ExampleValue: "1420"},
		{Key: "wall_thickness", Label: "Толщина стенки", Description: "Толщина стенки, мм", ExampleValue: "21.6"},
		{Key: "description", Label: "Описание дефектов", Description: "Обозначение дефекта", ExampleValue: "Пора Аа 2"},
		{Key: "location", Label: "Расположение", Description: "Координата дефекта", ExampleValue: "гладь"},
		{Key: "size", Label: "Размер", Description: "Размер дефекта, мм", ExampleValue: "2x2"},
		{Key: "verdict", Label: "Оценка", Description: "ПРИГ или БРАК, пусто означает ПРИГ", ExampleValue: "ПРИГ"},
	}
}

// ValidationError represents a single field-level error on one row.
type ValidationError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult is returned after parsing and validating an uploaded file.
type ValidationResult struct {
	TotalRows int               `json:"total_rows"`
	ValidRows int               `json:"valid_rows"`
	ErrorRows int               `json:"error_rows"`
	Errors    []ValidationError `json:"errors"`
	Defects   []DefectDraft     `json:"-"`
	FileName  string            `json:"-"`
}

// HasErrors reports whether any row failed validation.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// errNoDataRows is returned for sheets without anything below the header.
var errNoDataRows = errors.New("file must contain a header row and at least one data row")

// splitHeader separates the header line from the data rows.
func splitHeader(rows [][]string) ([]string, [][]string, error) {
	if len(rows) < 2 {
		return nil, nil, errNoDataRows
	}
	return rows[0], rows[1:], nil
}

// parseCSV reads a CSV upload. Semicolon separated files, as saved by
// spreadsheet software with a Russian locale, are detected from the header
// line; a UTF-8 byte order mark is dropped.
func parseCSV(file io.Reader) ([]string, [][]string, error) {
	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, nil, fmt.Errorf("read csv upload: %w", err)
	}
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))

	r := csv.NewReader(bytes.NewReader(raw))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	if header, _, _ := bytes.Cut(raw, []byte("\n")); bytes.Count(header, []byte(";")) > bytes.Count(header, []byte(",")) {
		r.Comma = ';'
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("decode csv upload: %w", err)
	}
	return splitHeader(rows)
}

// parseExcel reads the first sheet of an xlsx upload.
func parseExcel(file io.Reader) ([]string, [][]string, error) {
	book, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("open xlsx upload: %w", err)
	}
	defer book.Close()

	rows, err := book.GetRows(book.GetSheetName(0))
	if err != nil {
		return nil, nil, fmt.Errorf("read xlsx rows: %w", err)
	}
	return splitHeader(rows)
}

// mapHeadersToFields maps uploaded column headers to ImportField keys.
// Returns ordered list of field keys (one per column) and any unrecognized columns.
func mapHeadersToFields(headers []string, fields []ImportField) ([]string, []string) {
	labelToKey := make(map[string]string, len(fields))
	for _, f := range fields {
		labelToKey[strings.ToLower(f.Label)] = f.Key
		labelToKey[f.Key] = f.Key
	}

	mapped := make([]string, len(headers))
	var unrecognized []string
	for i, h := range headers {
		norm := strings.ToLower(strings.TrimSpace(h))
		// the template marks required columns with " *"
		norm = strings.TrimSpace(strings.TrimSuffix(norm, "*"))

		if key, ok := labelToKey[norm]; ok {
			mapped[i] = key
		} else if strings.TrimSpace(h) != "" {
			unrecognized = append(unrecognized, h)
		}
	}
	return mapped, unrecognized
}

// ParseDefectFile parses and validates an uploaded defect sheet. Rows that
// are entirely empty are skipped. A file without a weld id column is
// rejected outright.
func ParseDefectFile(file io.Reader, fileName string) (*ValidationResult, error) {
	var (
		headers  []string
		dataRows [][]string
		err      error
	)
	lowerName := strings.ToLower(fileName)
	switch {
	case strings.HasSuffix(lowerName, ".csv"):
		headers, dataRows, err = parseCSV(file)
	case strings.HasSuffix(lowerName, ".xlsx"):
		headers, dataRows, err = parseExcel(file)
	default:
		return nil, fmt.Errorf("unsupported file format: must be .csv or .xlsx")
	}
	if err != nil {
		return nil, err
	}

	fields := DefectImportFields()
	columnKeys, _ := mapHeadersToFields(headers, fields)
	if !contains(columnKeys, "weld_id") {
		return nil, fmt.Errorf("missing required column %q", fields[0].Label)
	}

	keyToLabel := make(map[string]string, len(fields))
	for _, f := range fields {
		keyToLabel[f.Key] = f.Label
	}

	result := &ValidationResult{FileName: fileName}
	for rowIdx, row := range dataRows {
		rowNum := rowIdx + 2 // 1-indexed, +1 for header row
		rowData := make(map[string]string, len(columnKeys))
		for colIdx, key := range columnKeys {
			if key == "" || colIdx >= len(row) {
				continue
			}
			rowData[key] = strings.TrimSpace(row[colIdx])
		}
		if isEmptyRow(rowData) {
			continue
		}
		result.TotalRows++

		var rowErrors []ValidationError
		for _, f := range fields {
			if f.Required && rowData[f.Key] == "" {
				rowErrors = append(rowErrors, ValidationError{
					Row:     rowNum,
					Field:   f.Label,
					Message: fmt.Sprintf("Поле %q обязательно", f.Label),
				})
			}
		}

		verdict := model.VerdictPass
		if v := strings.ToUpper(rowData["verdict"]); v != "" {
			parsed, err := model.ParseVerdict(v)
			if err != nil {
				rowErrors = append(rowErrors, ValidationError{
					Row:     rowNum,
					Field:   keyToLabel["verdict"],
					Message: fmt.Sprintf("Оценка должна быть %s или %s", model.VerdictPass, model.VerdictFail),
				})
			}
			verdict = parsed
		}

		if len(rowErrors) > 0 {
			result.Errors = append(result.Errors, rowErrors...)
			result.ErrorRows++
			continue
		}
		result.Defects = append(result.Defects, DefectDraft{
			WeldID:        rowData["weld_id"],
			WelderID:      rowData["welder_id"],
			Diameter:      rowData["diameter"],
			WallThickness: rowData["wall_thickness"],
			Description:   rowData["description"],
			Location:      rowData["location"],
			Size:          rowData["size"],
			Verdict:       verdict,
		})
	}
	result.ValidRows = result.TotalRows - result.ErrorRows
	if result.TotalRows == 0 {
		return nil, errNoDataRows
	}
	return result, nil
}

func isEmptyRow(data map[string]string) bool {
	for _, v := range data {
		if v != "" {
			return false
		}
	}
	return true
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// sheetHeaderStyle is the bold white-on-color style of import sheet headers.
func sheetHeaderStyle(f *excelize.File, fill string) int {
	style, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{fill}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorders(),
	})
	return style
}

// setWidths applies column widths in order starting at column A.
func setWidths(f *excelize.File, sheet string, widths ...float64) {
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(sheet, col, col, w)
	}
}

func workbookBytes(f *excelize.File, what string) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write %s: %w", what, err)
	}
	return buf.Bytes(), nil
}

// GenerateDefectTemplate builds the xlsx sheet users fill in for a defect
// import, with a verdict drop list and a hidden instructions sheet.
func GenerateDefectTemplate() ([]byte, error) {
	fields := DefectImportFields()

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Дефекты"
	_ = f.SetSheetName(f.GetSheetName(0), sheet)
	required := sheetHeaderStyle(f, "#1D4ED8")
	optional := sheetHeaderStyle(f, "#6B7280")

	widths := make([]float64, len(fields))
	for i, field := range fields {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		if field.Required {
			_ = f.SetCellStr(sheet, cell, field.Label+" *")
			_ = f.SetCellStyle(sheet, cell, cell, required)
		} else {
			_ = f.SetCellStr(sheet, cell, field.Label)
			_ = f.SetCellStyle(sheet, cell, cell, optional)
		}
		widths[i] = 18

		if field.Key == "verdict" {
			dv := excelize.NewDataValidation(true)
			dv.Sqref = fmt.Sprintf("%s2:%s1000", col, col)
			if err := dv.SetDropList([]string{string(model.VerdictPass), string(model.VerdictFail)}); err == nil {
				_ = f.AddDataValidation(sheet, dv)
			}
		}
	}
	setWidths(f, sheet, widths...)
	_ = f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	addInstructionsSheet(f, fields)
	return workbookBytes(f, "defect template")
}

// addInstructionsSheet lists every column with its meaning on a hidden
// sheet.
func addInstructionsSheet(f *excelize.File, fields []ImportField) {
	const sheet = "Инструкция"
	_, _ = f.NewSheet(sheet)

	title, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	head, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E5E7EB"}, Pattern: 1},
	})

	_ = f.SetCellStr(sheet, "A1", "Импорт дефектов - инструкция")
	_ = f.SetCellStyle(sheet, "A1", "A1", title)
	_ = f.SetSheetRow(sheet, "A3", &[]string{"Поле", "Обязательное", "Описание", "Пример"})
	_ = f.SetCellStyle(sheet, "A3", "D3", head)

	for i, field := range fields {
		required := "Нет"
		if field.Required {
			required = "Да"
		}
		_ = f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+4), &[]string{field.Label, required, field.Description, field.ExampleValue})
	}
	setWidths(f, sheet, 22, 14, 45, 20)
	_ = f.SetSheetVisible(sheet, false)
}

// GenerateErrorReport lists the rejected cells of an upload as an xlsx
// download.
func GenerateErrorReport(errs []ValidationError) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Ошибки"
	_ = f.SetSheetName(f.GetSheetName(0), sheet)

	_ = f.SetSheetRow(sheet, "A1", &[]string{"Строка", "Поле", "Ошибка"})
	_ = f.SetCellStyle(sheet, "A1", "C1", sheetHeaderStyle(f, "#DC2626"))
	setWidths(f, sheet, 8, 22, 55)

	for i, e := range errs {
		_ = f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &[]any{e.Row, e.Field, e.Message})
	}
	return workbookBytes(f, "error report")
}
