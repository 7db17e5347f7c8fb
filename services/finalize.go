package services

import (
	"strings"

	"ndtreports/model"
)

// Resolver looks up reference entries by id.
type Resolver interface {
	Customer(id string) (model.Customer, bool)
	Welder(id string) (model.Welder, bool)
	PipeDiameter(id string) (model.PipeDiameter, bool)
}

// Finalize converts a draft into a record. Reference ids are resolved to
// display names here and nowhere else, so a finalized record keeps the names
// that were current when it was saved. A lookup miss keeps the name carried
// by the draft, if any, and otherwise leaves the field absent.
//
// Blank defect rows are dropped; the remaining rows keep their order. Rows
// without their own geometry inherit the record's pipe geometry.
func Finalize(d Draft, r Resolver) model.InspectionRecord {
	rec := model.InspectionRecord{
		ID:                  d.ID,
		Number:              strings.TrimSpace(d.Number),
		Date:                strings.TrimSpace(d.Date),
		ObjectName:          strings.TrimSpace(d.ObjectName),
		PipelineSection:     strings.TrimSpace(d.PipelineSection),
		ControlMethod:       strings.TrimSpace(d.ControlMethod),
		Result:              d.Result.Normalize(),
		LabName:             model.NonBlank(d.LabName),
		LabAccreditation:    model.NonBlank(d.LabAccreditation),
		LabAddress:          model.NonBlank(d.LabAddress),
		OrderNumber:         model.NonBlank(d.OrderNumber),
		CustomerID:          model.NonBlank(d.CustomerID),
		PipeDiameterID:      model.NonBlank(d.PipeDiameterID),
		WallThickness:       model.NonBlank(d.WallThickness),
		Executor:            model.NonBlank(d.Executor),
		ExecutorCertificate: model.NonBlank(d.ExecutorCertificate),
		Equipment:           model.NonBlank(d.Equipment),
		NormativeDoc:        model.NonBlank(d.NormativeDoc),
		Sensitivity:         model.NonBlank(d.Sensitivity),
		Temperature:         model.NonBlank(d.Temperature),
		Conclusion:          model.NonBlank(d.Conclusion),
	}

	rec.CustomerName = model.NonBlank(d.CustomerName)
	if id, ok := rec.CustomerID.Get(); ok {
		if c, found := r.Customer(id); found {
			rec.CustomerName = model.NonBlank(c.Name)
		}
	} else {
		rec.CustomerName = model.None()
	}

	rec.PipeDiameter = model.NonBlank(d.PipeDiameter)
	if id, ok := rec.PipeDiameterID.Get(); ok {
		if p, found := r.PipeDiameter(id); found {
			rec.PipeDiameter = model.NonBlank(p.Diameter)
			if !rec.WallThickness.Present() {
				rec.WallThickness = model.NonBlank(p.WallThickness)
			}
		}
	}

	rec.Defects = finalizeDefects(d.Defects, rec.PipeDiameter, rec.WallThickness, r)
	return rec
}

// finalizeDefects resolves welder names for rows and fills missing geometry
// from the record's pipe. Blank rows are dropped.
func finalizeDefects(rows []DefectDraft, diameter, wall model.Text, r Resolver) []model.DefectRecord {
	var out []model.DefectRecord
	for _, dd := range rows {
		if dd.blank() {
			continue
		}
		def := model.DefectRecord{
			WeldID:        strings.TrimSpace(dd.WeldID),
			WelderID:      model.NonBlank(dd.WelderID),
			Diameter:      model.NonBlank(dd.Diameter),
			WallThickness: model.NonBlank(dd.WallThickness),
			Description:   model.NonBlank(dd.Description),
			Location:      model.NonBlank(dd.Location),
			Size:          model.NonBlank(dd.Size),
			Verdict:       normalizeVerdict(dd.Verdict),
		}

		if id, ok := def.WelderID.Get(); ok {
			def.WelderName = model.NonBlank(dd.WelderName)
			if w, found := r.Welder(id); found {
				def.WelderName = model.NonBlank(w.DisplayName())
			}
		}

		if !def.Diameter.Present() {
			def.Diameter = diameter
		}
		if !def.WallThickness.Present() {
			def.WallThickness = wall
		}
		out = append(out, def)
	}
	return out
}

func normalizeVerdict(v model.Verdict) model.Verdict {
	if v == model.VerdictFail {
		return model.VerdictFail
	}
	return model.VerdictPass
}
