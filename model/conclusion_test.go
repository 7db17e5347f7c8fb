package model

import (
	"errors"
	"testing"
)

func TestParseResult(t *testing.T) {
	tests := []struct {
		in      string
		want    Result
		wantErr bool
	}{
		{"допущено", ResultAccepted, false},
		{"не допущено", ResultRejected, false},
		{"accepted", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseResult(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidResult) {
					t.Fatalf("ParseResult(%q) error = %v, want ErrInvalidResult", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseResult(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseResult(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestResultNormalize_ClosedSet(t *testing.T) {
	for _, r := range []Result{"", "maybe", ResultAccepted, ResultRejected} {
		n := r.Normalize()
		if n != ResultAccepted && n != ResultRejected {
			t.Errorf("Normalize(%q) = %q, outside the closed set", r, n)
		}
	}
	if ResultRejected.Accepted() {
		t.Error("rejected result reported as accepted")
	}
}

func TestVerdictTag_ClosedSet(t *testing.T) {
	tests := []struct {
		in   Verdict
		want string
	}{
		{VerdictPass, "ПРИГ"},
		{VerdictFail, "БРАК"},
		{"", "ПРИГ"},
		{"ok", "ПРИГ"},
	}
	for _, tt := range tests {
		if got := tt.in.Tag(); got != tt.want {
			t.Errorf("Verdict(%q).Tag() = %q, want %q", tt.in, got, tt.want)
		}
	}
	if _, err := ParseVerdict("годен"); !errors.Is(err, ErrInvalidVerdict) {
		t.Errorf("ParseVerdict(годен) error = %v, want ErrInvalidVerdict", err)
	}
}

func TestOptionalAttributes_AbsentVsEmpty(t *testing.T) {
	rec := InspectionRecord{
		Equipment:    Some(""),
		NormativeDoc: Some("СТО Газпром 15-1.3-004-2023"),
	}

	attrs := rec.OptionalAttributes()
	if v, ok := attrs[AttrEquipment]; !ok || v != "" {
		t.Errorf("present empty equipment should persist as empty string, got %q, %v", v, ok)
	}
	if _, ok := attrs[AttrExecutor]; ok {
		t.Error("absent executor must not produce a key")
	}

	var back InspectionRecord
	back.Executor = Some("stale")
	back.SetOptionalAttributes(attrs)
	if !back.Equipment.Present() {
		t.Error("equipment should be present after round trip")
	}
	if back.Executor.Present() {
		t.Error("executor should be absent after round trip")
	}
	if got := back.NormativeDoc.Or(""); got != "СТО Газпром 15-1.3-004-2023" {
		t.Errorf("normative doc = %q", got)
	}
}

func TestClone_DoesNotShareDefects(t *testing.T) {
	rec := InspectionRecord{Defects: []DefectRecord{{WeldID: "СС-1"}, {WeldID: "СС-2"}}}
	cp := rec.Clone()
	cp.Defects[0].WeldID = "changed"
	if rec.Defects[0].WeldID != "СС-1" {
		t.Error("Clone shares the defects backing array")
	}
}

func TestNonBlank(t *testing.T) {
	if NonBlank("   ").Present() {
		t.Error("blank input should be absent")
	}
	if got := NonBlank("  УД2-12 ").Or(""); got != "УД2-12" {
		t.Errorf("NonBlank trimmed = %q", got)
	}
}
