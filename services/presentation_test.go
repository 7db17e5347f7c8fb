package services

import (
	"reflect"
	"strings"
	"testing"

	"ndtreports/model"
)

func TestBuildPresentation_SectionOrder(t *testing.T) {
	p := BuildPresentation(fullRecord())

	titles := make([]string, 0, len(p.Sections))
	for _, s := range p.Sections {
		titles = append(titles, s.Title)
	}
	want := []string{"Лаборатория неразрушающего контроля", "Объект контроля", "Параметры контроля"}
	if !reflect.DeepEqual(titles, want) {
		t.Errorf("sections = %v, want %v", titles, want)
	}
	if p.Title != "ЗАКЛЮЧЕНИЕ № НК-2024-001" {
		t.Errorf("Title = %q", p.Title)
	}
	if p.Date != "15.01.2024" {
		t.Errorf("Date = %q", p.Date)
	}
	if p.Verdict != VerdictAcceptedText {
		t.Errorf("Verdict = %q", p.Verdict)
	}
}

func TestBuildPresentation_OmitsAbsentFields(t *testing.T) {
	p := BuildPresentation(sparseRecord())

	for _, s := range p.Sections {
		if s.Title == "Лаборатория неразрушающего контроля" {
			t.Error("lab section should be dropped when all its fields are absent")
		}
	}
	for _, f := range p.Fields() {
		if f.Label == LabelEquipment {
			t.Error("absent equipment produced a field")
		}
	}
	if p.Verdict != VerdictRejectedText {
		t.Errorf("Verdict = %q", p.Verdict)
	}
}

func TestBuildPresentation_PresentEmptyIsKept(t *testing.T) {
	rec := sparseRecord()
	rec.Equipment = model.Some("")

	found := false
	for _, f := range BuildPresentation(rec).Fields() {
		if f.Label == LabelEquipment {
			found = true
		}
	}
	if !found {
		t.Error("present empty equipment should still produce its field")
	}
}

func TestBuildPresentation_RequiredFieldsAlwaysRendered(t *testing.T) {
	p := BuildPresentation(model.InspectionRecord{})
	labels := map[string]bool{}
	for _, f := range p.Fields() {
		labels[f.Label] = true
	}
	for _, l := range []string{LabelObject, LabelPipelineSection, LabelControlMethod} {
		if !labels[l] {
			t.Errorf("required field %q missing from an empty record", l)
		}
	}
}

func TestBuildPresentation_DoesNotMutateInput(t *testing.T) {
	rec := fullRecord()
	before := rec.Clone()
	p := BuildPresentation(rec)
	p.Defects[0].WeldID = "changed"
	p.Sections[0].Fields[0].Value = "changed"

	if !reflect.DeepEqual(rec, before) {
		t.Error("BuildPresentation mutated its input")
	}
}

func TestBuildPresentation_DefectRows(t *testing.T) {
	p := BuildPresentation(fullRecord())
	if len(p.Defects) != 2 {
		t.Fatalf("defects = %d", len(p.Defects))
	}
	if p.Defects[0].Index != 1 || p.Defects[1].Index != 2 {
		t.Error("defect rows must be indexed from 1 in input order")
	}
	if p.Defects[1].Tag != "БРАК" {
		t.Errorf("tag = %q", p.Defects[1].Tag)
	}
	if got := p.Defects[0].Geometry(); got != "1420 x 21.6" {
		t.Errorf("Geometry = %q", got)
	}
	if p.Defects[1].Description.Present() {
		t.Error("absent description must stay absent in the presentation model")
	}
}

func TestBuildPresentation_TagsAreClosedSet(t *testing.T) {
	rec := fullRecord()
	rec.Defects = append(rec.Defects, model.DefectRecord{WeldID: "x", Verdict: "?"})
	for _, d := range BuildPresentation(rec).Defects {
		if d.Tag != "ПРИГ" && d.Tag != "БРАК" {
			t.Errorf("tag %q outside the closed set", d.Tag)
		}
	}
	if strings.Contains(BuildPresentation(rec).Verdict, "?") {
		t.Error("verdict leaked an unknown value")
	}
}
