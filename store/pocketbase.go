package store

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase/core"

	"ndtreports/collections"
	"ndtreports/model"
)

// Compile-time check that RecordStore satisfies Repository.
var _ Repository = (*RecordStore)(nil)

// RecordStore keeps conclusions in the PocketBase "conclusions" and
// "defects" collections. Insertion order is tracked by the conclusion "seq"
// field and defect order by "sort_order".
type RecordStore struct {
	app core.App
}

// NewRecordStore returns a Repository backed by app.
func NewRecordStore(app core.App) *RecordStore {
	return &RecordStore{app: app}
}

// Append inserts rec and its defects in one transaction.
func (s *RecordStore) Append(rec model.InspectionRecord) (model.InspectionRecord, error) {
	var saved model.InspectionRecord
	err := s.app.RunInTransaction(func(txApp core.App) error {
		col, err := txApp.FindCollectionByNameOrId(collections.Conclusions)
		if err != nil {
			return fmt.Errorf("find %s collection: %w", collections.Conclusions, err)
		}

		seq, err := nextSeq(txApp, col)
		if err != nil {
			return err
		}

		record := core.NewRecord(col)
		record.Set("seq", seq)
		setConclusionFields(record, rec)
		if err := txApp.Save(record); err != nil {
			return fmt.Errorf("save conclusion: %w", err)
		}

		if err := saveDefects(txApp, record.Id, rec.Defects); err != nil {
			return err
		}

		saved = rec.Clone()
		saved.ID = record.Id
		return nil
	})
	if err != nil {
		return model.InspectionRecord{}, err
	}
	return saved, nil
}

// List returns every conclusion in insertion order.
func (s *RecordStore) List() ([]model.InspectionRecord, error) {
	records, err := s.app.FindRecordsByFilter(collections.Conclusions, "id != ''", "seq", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("list conclusions: %w", err)
	}

	out := make([]model.InspectionRecord, 0, len(records))
	for _, r := range records {
		rec, err := s.load(s.app, r)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Get returns the conclusion with the given record ID.
func (s *RecordStore) Get(id string) (model.InspectionRecord, error) {
	r, err := s.app.FindRecordById(collections.Conclusions, id)
	if err != nil {
		return model.InspectionRecord{}, fmt.Errorf("get %s: %w", id, model.ErrRecordNotFound)
	}
	return s.load(s.app, r)
}

// ReplaceByID overwrites the conclusion with rec.ID, keeping its position,
// and replaces its defects with rec.Defects in order.
func (s *RecordStore) ReplaceByID(rec model.InspectionRecord) error {
	return s.app.RunInTransaction(func(txApp core.App) error {
		record, err := txApp.FindRecordById(collections.Conclusions, rec.ID)
		if err != nil {
			return fmt.Errorf("replace %s: %w", rec.ID, model.ErrRecordNotFound)
		}

		setConclusionFields(record, rec)
		if err := txApp.Save(record); err != nil {
			return fmt.Errorf("save conclusion: %w", err)
		}

		old, err := txApp.FindRecordsByFilter(
			collections.Defects,
			"conclusion = {:id}",
			"",
			0, 0,
			map[string]any{"id": rec.ID},
		)
		if err != nil {
			return fmt.Errorf("find defects: %w", err)
		}
		for _, d := range old {
			if err := txApp.Delete(d); err != nil {
				return fmt.Errorf("delete defect %s: %w", d.Id, err)
			}
		}

		return saveDefects(txApp, rec.ID, rec.Defects)
	})
}

func (s *RecordStore) load(app core.App, r *core.Record) (model.InspectionRecord, error) {
	rec := model.InspectionRecord{
		ID:              r.Id,
		Number:          r.GetString("number"),
		Date:            r.GetString("date"),
		ObjectName:      r.GetString("object_name"),
		PipelineSection: r.GetString("pipeline_section"),
		ControlMethod:   r.GetString("control_method"),
		Result:          model.Result(r.GetString("result")).Normalize(),
	}
	rec.SetOptionalAttributes(readAttributes(r))

	defects, err := app.FindRecordsByFilter(
		collections.Defects,
		"conclusion = {:id}",
		"sort_order",
		0, 0,
		map[string]any{"id": r.Id},
	)
	if err != nil {
		return model.InspectionRecord{}, fmt.Errorf("load defects for %s: %w", r.Id, err)
	}

	for _, d := range defects {
		defect := model.DefectRecord{
			WeldID:  d.GetString("weld_id"),
			Verdict: model.Verdict(d.GetString("verdict")),
		}
		defect.SetOptionalAttributes(readAttributes(d))
		rec.Defects = append(rec.Defects, defect)
	}
	return rec, nil
}

func nextSeq(app core.App, col *core.Collection) (int, error) {
	last, err := app.FindRecordsByFilter(col, "seq > 0", "-seq", 1, 0)
	if err != nil {
		return 0, fmt.Errorf("find last seq: %w", err)
	}
	if len(last) == 0 {
		return 1, nil
	}
	return last[0].GetInt("seq") + 1, nil
}

func setConclusionFields(record *core.Record, rec model.InspectionRecord) {
	record.Set("number", rec.Number)
	record.Set("date", rec.Date)
	record.Set("object_name", rec.ObjectName)
	record.Set("pipeline_section", rec.PipelineSection)
	record.Set("control_method", rec.ControlMethod)
	record.Set("result", string(rec.Result.Normalize()))
	record.Set("attributes", rec.OptionalAttributes())
}

func saveDefects(app core.App, conclusionID string, defects []model.DefectRecord) error {
	if len(defects) == 0 {
		return nil
	}
	col, err := app.FindCollectionByNameOrId(collections.Defects)
	if err != nil {
		return fmt.Errorf("find %s collection: %w", collections.Defects, err)
	}
	for i, d := range defects {
		record := core.NewRecord(col)
		record.Set("conclusion", conclusionID)
		record.Set("sort_order", i)
		record.Set("weld_id", d.WeldID)
		record.Set("verdict", d.Verdict.Tag())
		record.Set("attributes", d.OptionalAttributes())
		if err := app.Save(record); err != nil {
			return fmt.Errorf("save defect %d: %w", i, err)
		}
	}
	return nil
}

// readAttributes decodes the "attributes" JSON field. Absent or unreadable
// attributes decode to an empty map.
func readAttributes(r *core.Record) map[string]string {
	attrs := map[string]string{}
	raw := r.GetString("attributes")
	if raw == "" || raw == "null" {
		return attrs
	}
	if err := json.Unmarshal([]byte(raw), &attrs); err != nil {
		log.Printf("store: decode attributes of %s: %v", r.Id, err)
		return map[string]string{}
	}
	return attrs
}
