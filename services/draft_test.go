package services

import (
	"testing"
	"time"

	"ndtreports/model"
	"ndtreports/refdata"
)

func testDirectory() *refdata.Directory {
	return refdata.NewDirectory(refdata.Bundle{
		Customers: []model.Customer{{ID: "c1", Name: `ООО "Газпром трансгаз Томск"`}},
		Welders: []model.Welder{
			{ID: "w1", Name: "Иванов И.И.", Stamp: "4АБФ"},
			{ID: "w2", Name: "Петров П.П."},
		},
		PipeDiameters: []model.PipeDiameter{{ID: "d1", Diameter: "1420", WallThickness: "21.6"}},
	})
}

func TestNewDraft_Defaults(t *testing.T) {
	today := time.Date(2024, time.January, 15, 9, 30, 0, 0, time.UTC)
	d := NewDraft(DraftDefaults{
		LabName:      "ЛНК «Север»",
		NormativeDoc: "СТО Газпром 15-1.3-004-2023",
	}, "НК-2024-003", today)

	if d.Date != "2024-01-15" {
		t.Errorf("Date = %q, want 2024-01-15", d.Date)
	}
	if d.Number != "НК-2024-003" {
		t.Errorf("Number = %q", d.Number)
	}
	if d.Result != model.ResultAccepted {
		t.Errorf("Result = %q, want допущено", d.Result)
	}
	if d.NormativeDoc != "СТО Газпром 15-1.3-004-2023" || d.LabName != "ЛНК «Север»" {
		t.Errorf("defaults not applied: %+v", d)
	}
}

func TestDraft_ApplyTemplate(t *testing.T) {
	d := Draft{ObjectName: "МГ Ухта", Equipment: "старый"}
	d.ApplyTemplate(model.Template{
		ID:            "1",
		ControlMethod: "Ультразвуковой контроль",
		Fields: map[string]string{
			model.TemplateEquipment:    "УД2-12",
			model.TemplateNormativeDoc: "СТО Газпром 15-1.3-004-2023",
			"unknownKey":               "ignored",
		},
	})

	if d.ControlMethod != "Ультразвуковой контроль" {
		t.Errorf("ControlMethod = %q", d.ControlMethod)
	}
	if d.Equipment != "УД2-12" {
		t.Errorf("Equipment = %q", d.Equipment)
	}
	if d.ObjectName != "МГ Ухта" {
		t.Errorf("template must not touch ObjectName, got %q", d.ObjectName)
	}
}

func TestDraft_AutofillFrom(t *testing.T) {
	var d Draft
	d.AutofillFrom(model.InspectionRecord{
		ObjectName:      `МГ "Сила Сибири"`,
		PipelineSection: "ПК 10",
		ControlMethod:   "Радиографический контроль",
		Executor:        model.Some("Сидоров"),
	})
	if d.ObjectName != `МГ "Сила Сибири"` || d.PipelineSection != "ПК 10" || d.ControlMethod != "Радиографический контроль" {
		t.Errorf("autofill incomplete: %+v", d)
	}
	if d.Executor != "" {
		t.Error("autofill must only copy object and method fields")
	}
}

func TestDraft_Validate(t *testing.T) {
	errs := Draft{}.Validate()
	for _, key := range []string{"number", "date", "object_name", "control_method"} {
		if _, ok := errs[key]; !ok {
			t.Errorf("expected validation error for %q", key)
		}
	}
	ok := Draft{Number: "НК-2024-001", Date: "2024-01-01", ObjectName: "x", ControlMethod: "y"}.Validate()
	if len(ok) != 0 {
		t.Errorf("unexpected errors: %v", ok)
	}
}

func TestFinalize_ResolvesReferences(t *testing.T) {
	d := Draft{
		Number:         "НК-2024-001",
		CustomerID:     "c1",
		PipeDiameterID: "d1",
		Equipment:      "  ",
		Defects: []DefectDraft{
			{WeldID: "СС-1", WelderID: "w1", Verdict: model.VerdictPass},
			{WeldID: "СС-2", WelderID: "missing", Diameter: "530", Verdict: model.VerdictFail},
			{},
			{WeldID: "СС-3", Verdict: "годен"},
		},
	}

	rec := Finalize(d, testDirectory())

	if got := rec.CustomerName.Or(""); got != `ООО "Газпром трансгаз Томск"` {
		t.Errorf("CustomerName = %q", got)
	}
	if got := rec.PipeDiameter.Or(""); got != "1420" {
		t.Errorf("PipeDiameter = %q", got)
	}
	if got := rec.WallThickness.Or(""); got != "21.6" {
		t.Errorf("WallThickness = %q", got)
	}
	if rec.Equipment.Present() {
		t.Error("blank equipment should be absent")
	}
	if len(rec.Defects) != 3 {
		t.Fatalf("blank defect row should be dropped, got %d defects", len(rec.Defects))
	}
	if got := rec.Defects[0].WelderName.Or(""); got != "Иванов И.И. (4АБФ)" {
		t.Errorf("WelderName = %q", got)
	}
	if rec.Defects[1].WelderName.Present() {
		t.Error("unknown welder id should resolve to an absent name")
	}
	if got := rec.Defects[1].Diameter.Or(""); got != "530" {
		t.Errorf("explicit defect diameter lost, got %q", got)
	}
	if got := rec.Defects[0].Diameter.Or(""); got != "1420" {
		t.Errorf("defect should inherit record diameter, got %q", got)
	}
	if rec.Defects[2].Verdict != model.VerdictPass {
		t.Errorf("unknown verdict should normalize to ПРИГ, got %q", rec.Defects[2].Verdict)
	}
}

func TestFinalize_EmptyDirectoryMissesQuietly(t *testing.T) {
	rec := Finalize(Draft{
		CustomerID: "c1",
		Defects:    []DefectDraft{{WeldID: "СС-1", WelderID: "w1"}},
	}, refdata.NewDirectory(refdata.Bundle{}))

	if rec.CustomerName.Present() {
		t.Error("customer name should be absent when reference data is empty")
	}
	if rec.Defects[0].WelderName.Present() {
		t.Error("welder name should be absent when reference data is empty")
	}
	if got := rec.CustomerID.Or(""); got != "c1" {
		t.Errorf("customer id should still be kept, got %q", got)
	}
}

// Names are resolved when a record is saved. Later edits to a welder do not
// reach records that were already finalized.
func TestFinalize_SnapshotSemantics(t *testing.T) {
	dir := testDirectory()
	svc := NewConclusionService(newMemoryRepo(), dir, "НК")

	saved, err := svc.Save(Draft{
		Number:  "НК-2024-001",
		Defects: []DefectDraft{{WeldID: "СС-1", WelderID: "w2"}},
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	dir.PutWelder(model.Welder{ID: "w2", Name: "Петров-Водкин П.П."})

	got, err := svc.Get(saved.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if name := got.Defects[0].WelderName.Or(""); name != "Петров П.П." {
		t.Errorf("finalized welder name changed to %q", name)
	}

	next, err := svc.Save(Draft{
		Number:  "НК-2024-002",
		Defects: []DefectDraft{{WeldID: "СС-2", WelderID: "w2"}},
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if name := next.Defects[0].WelderName.Or(""); name != "Петров-Водкин П.П." {
		t.Errorf("new record should pick up the edited name, got %q", name)
	}
}

func TestDraftFromRecord_RoundTrip(t *testing.T) {
	rec := model.InspectionRecord{
		ID:           "abc",
		Number:       "НК-2024-005",
		Date:         "2024-02-01",
		ObjectName:   "МГ Бованенково",
		Result:       model.ResultRejected,
		CustomerID:   model.Some("gone"),
		CustomerName: model.Some("АО Заказчик"),
		Equipment:    model.Some("УД2-12"),
		Defects: []model.DefectRecord{
			{WeldID: "Б-3", WelderID: model.Some("gone"), WelderName: model.Some("Кузнецов"), Verdict: model.VerdictFail},
			{WeldID: "Б-1", Verdict: model.VerdictPass},
			{WeldID: "Б-2", Verdict: model.VerdictPass},
		},
	}

	again := Finalize(DraftFromRecord(rec), refdata.NewDirectory(refdata.Bundle{}))

	if again.ID != "abc" {
		t.Errorf("ID changed to %q", again.ID)
	}
	ids := again.WeldIDs()
	want := []string{"Б-3", "Б-1", "Б-2"}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("defect order = %v, want %v", ids, want)
		}
	}
	if got := again.CustomerName.Or(""); got != "АО Заказчик" {
		t.Errorf("carried customer name lost, got %q", got)
	}
	if got := again.Defects[0].WelderName.Or(""); got != "Кузнецов" {
		t.Errorf("carried welder name lost, got %q", got)
	}
	if again.Result != model.ResultRejected {
		t.Errorf("Result = %q", again.Result)
	}
}
