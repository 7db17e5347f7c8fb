package services

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"ndtreports/model"
)

func TestParseCSV_Valid(t *testing.T) {
	input := "№ стыка,Оценка\nСС-1,ПРИГ\nСС-2,БРАК\n"
	headers, rows, err := parseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parseCSV() error = %v", err)
	}
	if len(headers) != 2 {
		t.Errorf("expected 2 headers, got %d", len(headers))
	}
	if len(rows) != 2 {
		t.Errorf("expected 2 data rows, got %d", len(rows))
	}
}

func TestParseCSV_SemicolonAndBOM(t *testing.T) {
	input := "\xef\xbb\xbf№ стыка;Размер\nСС-1;2,5x3\n"
	headers, rows, err := parseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parseCSV() error = %v", err)
	}
	if headers[0] != "№ стыка" {
		t.Errorf("BOM not stripped: %q", headers[0])
	}
	if len(rows[0]) != 2 || rows[0][1] != "2,5x3" {
		t.Errorf("semicolon split wrong: %q", rows[0])
	}
}

func TestParseCSV_HeaderOnly(t *testing.T) {
	_, _, err := parseCSV(strings.NewReader("№ стыка,Оценка\n"))
	if err == nil {
		t.Fatal("expected error for header-only file")
	}
	if !strings.Contains(err.Error(), "at least one data row") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestParseCSV_Empty(t *testing.T) {
	if _, _, err := parseCSV(strings.NewReader("")); err == nil {
		t.Error("expected error for empty file")
	}
}

func TestMapHeadersToFields(t *testing.T) {
	fields := DefectImportFields()

	t.Run("labels and required marker", func(t *testing.T) {
		mapped, unrecognized := mapHeadersToFields([]string{"№ стыка *", " оценка ", "Размер"}, fields)
		want := []string{"weld_id", "verdict", "size"}
		for i := range want {
			if mapped[i] != want[i] {
				t.Errorf("column %d: got %q, want %q", i, mapped[i], want[i])
			}
		}
		if len(unrecognized) != 0 {
			t.Errorf("unexpected unrecognized columns: %v", unrecognized)
		}
	})

	t.Run("field keys", func(t *testing.T) {
		mapped, _ := mapHeadersToFields([]string{"weld_id", "welder_id"}, fields)
		if mapped[0] != "weld_id" || mapped[1] != "welder_id" {
			t.Errorf("got %v", mapped)
		}
	})

	t.Run("unknown column", func(t *testing.T) {
		mapped, unrecognized := mapHeadersToFields([]string{"№ стыка", "Примечание"}, fields)
		if mapped[1] != "" {
			t.Errorf("unknown column mapped to %q", mapped[1])
		}
		if len(unrecognized) != 1 || unrecognized[0] != "Примечание" {
			t.Errorf("unrecognized = %v", unrecognized)
		}
	})
}

func TestParseDefectFile_CSV(t *testing.T) {
	input := strings.Join([]string{
		"№ стыка,Клеймо сварщика,Описание дефектов,Оценка",
		"СС-1,W01,,приг",
		"СС-2,W02,Пора Аа 2,БРАК",
		",,,",
		"СС-3,,,",
	}, "\n")

	result, err := ParseDefectFile(strings.NewReader(input), "defects.CSV")
	if err != nil {
		t.Fatalf("ParseDefectFile() error = %v", err)
	}
	if result.HasErrors() {
		t.Fatalf("unexpected errors: %+v", result.Errors)
	}
	if result.TotalRows != 3 || result.ValidRows != 3 {
		t.Errorf("rows: total %d valid %d, want 3/3", result.TotalRows, result.ValidRows)
	}
	if len(result.Defects) != 3 {
		t.Fatalf("expected 3 defects, got %d", len(result.Defects))
	}
	if result.Defects[0].Verdict != model.VerdictPass {
		t.Errorf("lower-case verdict not accepted: %q", result.Defects[0].Verdict)
	}
	if d := result.Defects[1]; d.Verdict != model.VerdictFail || d.Description != "Пора Аа 2" || d.WelderID != "W02" {
		t.Errorf("second defect = %+v", d)
	}
	if result.Defects[2].Verdict != model.VerdictPass {
		t.Errorf("empty verdict should default to %s", model.VerdictPass)
	}
}

func TestParseDefectFile_RowErrors(t *testing.T) {
	input := strings.Join([]string{
		"№ стыка,Оценка",
		"СС-1,ПРИГ",
		",БРАК",
		"СС-3,годен",
	}, "\n")

	result, err := ParseDefectFile(strings.NewReader(input), "defects.csv")
	if err != nil {
		t.Fatalf("ParseDefectFile() error = %v", err)
	}
	if result.ErrorRows != 2 || result.ValidRows != 1 {
		t.Errorf("rows: errors %d valid %d, want 2/1", result.ErrorRows, result.ValidRows)
	}
	if len(result.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %+v", result.Errors)
	}
	if result.Errors[0].Row != 3 || result.Errors[0].Field != "№ стыка" {
		t.Errorf("first error = %+v", result.Errors[0])
	}
	if result.Errors[1].Row != 4 || result.Errors[1].Field != "Оценка" {
		t.Errorf("second error = %+v", result.Errors[1])
	}
	if len(result.Defects) != 1 || result.Defects[0].WeldID != "СС-1" {
		t.Errorf("valid defects = %+v", result.Defects)
	}
}

func TestParseDefectFile_Rejects(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		fileName string
		wantErr  string
	}{
		{"unsupported extension", "№ стыка\nСС-1\n", "defects.txt", "unsupported file format"},
		{"no weld column", "Оценка\nПРИГ\n", "defects.csv", "missing required column"},
		{"only blank rows", "№ стыка,Оценка\n,\n", "defects.csv", "at least one data row"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDefectFile(strings.NewReader(tt.input), tt.fileName)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestParseDefectFile_TemplateRoundTrip(t *testing.T) {
	data, err := GenerateDefectTemplate()
	if err != nil {
		t.Fatalf("GenerateDefectTemplate() error = %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("template is not valid Excel: %v", err)
	}
	sheet := f.GetSheetName(0)
	f.SetCellValue(sheet, "A2", "СС-10")
	f.SetCellValue(sheet, "H2", "БРАК")
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	f.Close()

	result, err := ParseDefectFile(&buf, "filled.xlsx")
	if err != nil {
		t.Fatalf("ParseDefectFile() error = %v", err)
	}
	if len(result.Defects) != 1 {
		t.Fatalf("expected 1 defect, got %+v", result)
	}
	if d := result.Defects[0]; d.WeldID != "СС-10" || d.Verdict != model.VerdictFail {
		t.Errorf("defect = %+v", d)
	}
}

func TestGenerateDefectTemplate_Headers(t *testing.T) {
	data, err := GenerateDefectTemplate()
	if err != nil {
		t.Fatalf("GenerateDefectTemplate() error = %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("template is not valid Excel: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Дефекты")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	fields := DefectImportFields()
	if len(rows) == 0 || len(rows[0]) != len(fields) {
		t.Fatalf("header row = %v", rows)
	}
	if rows[0][0] != "№ стыка *" {
		t.Errorf("required column not marked: %q", rows[0][0])
	}
	if rows[0][1] != "Клеймо сварщика" {
		t.Errorf("optional column marked: %q", rows[0][1])
	}
	visible, err := f.GetSheetVisible("Инструкция")
	if err != nil {
		t.Fatalf("GetSheetVisible: %v", err)
	}
	if visible {
		t.Error("instructions sheet should be hidden")
	}
}

func TestGenerateErrorReport(t *testing.T) {
	errs := []ValidationError{
		{Row: 3, Field: "№ стыка", Message: "Поле \"№ стыка\" обязательно"},
		{Row: 5, Field: "Оценка", Message: "Оценка должна быть ПРИГ или БРАК"},
	}
	data, err := GenerateErrorReport(errs)
	if err != nil {
		t.Fatalf("GenerateErrorReport() error = %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("report is not valid Excel: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Ошибки")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[1][0] != "3" || rows[2][1] != "Оценка" {
		t.Errorf("unexpected rows: %v", rows)
	}
}
