package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"

	"ndtreports/model"
)

// Appender stores a finalized conclusion. store.Repository satisfies it.
type Appender interface {
	Append(rec model.InspectionRecord) (model.InspectionRecord, error)
}

// SampleConclusions returns the two demonstration conclusions shown on a
// fresh install.
func SampleConclusions() []model.InspectionRecord {
	return []model.InspectionRecord{
		{
			Number:          "НК-2024-001",
			Date:            "2024-01-15",
			ObjectName:      `МГ "Сила Сибири"`,
			PipelineSection: "ПК 125+40 - ПК 127+10",
			ControlMethod:   "Ультразвуковой контроль",
			Result:          model.ResultAccepted,
			Equipment:       model.Some("УД2-12"),
			NormativeDoc:    model.Some("СТО Газпром 15-1.3-004-2023"),
			Defects: []model.DefectRecord{
				{WeldID: "СС-123", Verdict: model.VerdictPass},
			},
		},
		{
			Number:          "НК-2024-002",
			Date:            "2024-01-16",
			ObjectName:      `МГ "Северный поток"`,
			PipelineSection: "ПК 8+00 - ПК 9+50",
			ControlMethod:   "Радиографический контроль",
			Result:          model.ResultRejected,
			Equipment:       model.Some("РАП-150/300"),
			NormativeDoc:    model.Some("СТО Газпром 15-1.3-004-2023"),
			Defects: []model.DefectRecord{
				{WeldID: "СП-456", Verdict: model.VerdictFail, Description: model.Some("Непровар Da 12"), Size: model.Some("12")},
			},
		},
	}
}

// Seed inserts the sample conclusions through repo when the conclusions
// collection is empty. Safe to call on every startup.
func Seed(app *pocketbase.PocketBase, repo Appender) error {
	col, err := app.FindCollectionByNameOrId(Conclusions)
	if err != nil {
		return fmt.Errorf("seed: could not find %s collection: %w", Conclusions, err)
	}

	existing, err := app.FindRecordsByFilter(col, "id != ''", "", 1, 0)
	if err != nil {
		return fmt.Errorf("seed: could not query %s: %w", Conclusions, err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	for _, rec := range SampleConclusions() {
		saved, err := repo.Append(rec)
		if err != nil {
			return fmt.Errorf("seed: save conclusion %q: %w", rec.Number, err)
		}
		log.Printf("seed: conclusion %q (%s)\n", saved.Number, saved.ID)
	}
	return nil
}
