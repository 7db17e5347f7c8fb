package services

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestWrapText(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		width  int
		expect []string
	}{
		{"empty", "", 10, nil},
		{"fits", "Пора Аа 2", 20, []string{"Пора Аа 2"}},
		{"breaks on spaces", "непровар корня шва длиной 12 мм", 15, []string{"непровар корня", "шва длиной 12", "мм"}},
		{"keeps newlines", "строка один\nстрока два", 40, []string{"строка один", "строка два"}},
		{"splits long word", "СТО-Газпром-15-1.3", 8, []string{"СТО-Газп", "ром-15-1", ".3"}},
		{"collapses spaces", "a   b", 10, []string{"a b"}},
		{"no wrap", "один два три", 0, []string{"один два три"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapText(tt.input, tt.width)
			if len(got) != len(tt.expect) {
				t.Fatalf("WrapText(%q, %d) = %q, want %q", tt.input, tt.width, got, tt.expect)
			}
			for i := range got {
				if got[i] != tt.expect[i] {
					t.Errorf("line %d = %q, want %q", i, got[i], tt.expect[i])
				}
			}
		})
	}
}

func TestWrapText_NeverLosesWords(t *testing.T) {
	input := "Контроль выполнен в соответствии с требованиями СТО Газпром 15-1.3-004-2023 при температуре минус 15 градусов"
	lines := WrapText(input, 12)
	for _, l := range lines {
		if runewidth.StringWidth(l) > 12 {
			t.Errorf("line %q wider than 12", l)
		}
	}
	if got := strings.Join(lines, " "); strings.ReplaceAll(got, " ", "") != strings.ReplaceAll(input, " ", "") {
		t.Errorf("wrapped text lost content: %q", got)
	}
}
