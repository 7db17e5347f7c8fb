package services

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExportFilename(t *testing.T) {
	tests := []struct {
		number string
		format Format
		expect string
	}{
		{"НК-2024-001", FormatPDF, "НК-2024-001.pdf"},
		{"НК-2024-001", FormatXLSX, "НК-2024-001.xlsx"},
		{"НК-2024-001", FormatDOCX, "НК-2024-001.docx"},
		{"НК/2024 001", FormatPDF, "НК-2024-001.pdf"},
		{"../etc", FormatPDF, "..-etc.pdf"},
		{"", FormatPDF, "заключение.pdf"},
	}
	for _, tt := range tests {
		if got := ExportFilename(tt.number, tt.format); got != tt.expect {
			t.Errorf("ExportFilename(%q, %s) = %q, want %q", tt.number, tt.format, got, tt.expect)
		}
	}
}

func TestParseFormat(t *testing.T) {
	for _, in := range []string{"pdf", "XLSX", " docx "} {
		if _, err := ParseFormat(in); err != nil {
			t.Errorf("ParseFormat(%q) error = %v", in, err)
		}
	}
	if _, err := ParseFormat("odt"); err == nil {
		t.Error("ParseFormat(odt) should fail")
	}
}

func TestWriteExports_WritesAndOverwrites(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	p := BuildPresentation(fullRecord())

	paths, err := WriteExports(dir, p, ExportOptions{WrapWidth: 90})
	if err != nil {
		t.Fatalf("WriteExports: %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("paths = %v", paths)
	}
	for _, name := range []string{"НК-2024-001.pdf", "НК-2024-001.xlsx", "НК-2024-001.docx"} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}

	stale := filepath.Join(dir, "НК-2024-001.docx")
	if err := os.WriteFile(stale, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := WriteExports(dir, p, ExportOptions{}); err != nil {
		t.Fatalf("second WriteExports: %v", err)
	}
	b, err := os.ReadFile(stale)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) == "stale" {
		t.Error("re-export did not overwrite the existing file")
	}
}
