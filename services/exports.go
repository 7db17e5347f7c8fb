package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format is an export file format, named by its extension.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
	FormatDOCX Format = "docx"
)

// Formats lists every export format in the order artifacts are written.
var Formats = []Format{FormatPDF, FormatXLSX, FormatDOCX}

// ParseFormat accepts a format name case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// ContentType is the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
	return "application/octet-stream"
}

// Render produces the artifact bytes for one format.
func Render(p *Presentation, f Format, opts ExportOptions) ([]byte, error) {
	switch f {
	case FormatPDF:
		return GeneratePDF(p, opts)
	case FormatXLSX:
		return GenerateExcel(p)
	case FormatDOCX:
		return GenerateDocx(p)
	}
	return nil, fmt.Errorf("unknown export format %q", f)
}

// ExportFilename names the artifact "<number>.<ext>". Path separators and
// other characters unsafe in file names are replaced with dashes.
func ExportFilename(number string, f Format) string {
	name := sanitizeFilename(number)
	if name == "" {
		name = "заключение"
	}
	return name + "." + string(f)
}

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		}
		if r < 0x20 {
			return -1
		}
		return r
	}, s)
}

// WriteExports writes all three artifacts for p into dir, creating it if
// needed and overwriting files of the same name. It returns the written
// paths.
func WriteExports(dir string, p *Presentation, opts ExportOptions) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}
	paths := make([]string, 0, len(Formats))
	for _, f := range Formats {
		data, err := Render(p, f, opts)
		if err != nil {
			return paths, fmt.Errorf("render %s: %w", f, err)
		}
		path := filepath.Join(dir, ExportFilename(p.Number, f))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
