package services

import (
	"strings"
	"time"

	"ndtreports/config"
	"ndtreports/model"
)

// DraftDefaults seeds every new draft.
type DraftDefaults struct {
	LabName          string
	LabAccreditation string
	LabAddress       string
	NormativeDoc     string
	ControlMethod    string
}

// DefaultsFromSettings extracts the draft defaults from the configuration.
func DefaultsFromSettings(s *config.Settings) DraftDefaults {
	return DraftDefaults{
		LabName:          s.Lab.Name,
		LabAccreditation: s.Lab.Accreditation,
		LabAddress:       s.Lab.Address,
		NormativeDoc:     s.Defaults.NormativeDoc,
		ControlMethod:    s.Defaults.ControlMethod,
	}
}

// Draft is the editable form state of a conclusion. Blank strings become
// absent optional fields on Finalize.
type Draft struct {
	ID              string // set when the draft edits a finalized record
	Number          string
	Date            string
	ObjectName      string
	PipelineSection string
	ControlMethod   string
	Result          model.Result

	LabName             string
	LabAccreditation    string
	LabAddress          string
	OrderNumber         string
	CustomerID          string
	PipeDiameterID      string
	WallThickness       string // overrides the wall thickness of the selected diameter
	Executor            string
	ExecutorCertificate string
	Equipment           string
	NormativeDoc        string
	Sensitivity         string
	Temperature         string
	Conclusion          string

	// Names resolved by an earlier save. Kept when the reference entry is
	// no longer available.
	CustomerName string
	PipeDiameter string

	Defects []DefectDraft
}

// DefectDraft is one editable defect row.
type DefectDraft struct {
	WeldID        string
	WelderID      string
	WelderName    string // resolved by an earlier save
	Diameter      string
	WallThickness string
	Description   string
	Location      string
	Size          string
	Verdict       model.Verdict
}

func (d DefectDraft) blank() bool {
	return strings.TrimSpace(d.WeldID+d.WelderID+d.Diameter+d.WallThickness+d.Description+d.Location+d.Size) == ""
}

// NewDraft returns a draft dated today with the configured defaults and the
// proposed number.
func NewDraft(defaults DraftDefaults, number string, today time.Time) Draft {
	return Draft{
		Number:           number,
		Date:             today.Format(isoDate),
		ControlMethod:    defaults.ControlMethod,
		Result:           model.ResultAccepted,
		LabName:          defaults.LabName,
		LabAccreditation: defaults.LabAccreditation,
		LabAddress:       defaults.LabAddress,
		NormativeDoc:     defaults.NormativeDoc,
	}
}

// ApplyTemplate copies the template's preset fields onto the draft. Fields
// the template does not set are left untouched.
func (d *Draft) ApplyTemplate(t model.Template) {
	if t.ControlMethod != "" {
		d.ControlMethod = t.ControlMethod
	}
	for key, v := range t.Fields {
		switch key {
		case model.TemplateControlMethod:
			d.ControlMethod = v
		case model.TemplateEquipment:
			d.Equipment = v
		case model.TemplateNormativeDoc:
			d.NormativeDoc = v
		case model.TemplateSensitivity:
			d.Sensitivity = v
		case model.TemplateTemperature:
			d.Temperature = v
		}
	}
}

// AutofillFrom copies the object and method of a previous conclusion.
func (d *Draft) AutofillFrom(prev model.InspectionRecord) {
	d.ObjectName = prev.ObjectName
	d.PipelineSection = prev.PipelineSection
	d.ControlMethod = prev.ControlMethod
}

// Validate reports missing required fields keyed by form field name.
func (d Draft) Validate() map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(d.Number) == "" {
		errs["number"] = "Номер заключения обязателен"
	}
	if strings.TrimSpace(d.Date) == "" {
		errs["date"] = "Дата обязательна"
	}
	if strings.TrimSpace(d.ObjectName) == "" {
		errs["object_name"] = "Укажите объект контроля"
	}
	if strings.TrimSpace(d.ControlMethod) == "" {
		errs["control_method"] = "Выберите метод контроля"
	}
	return errs
}

// DraftFromRecord opens a finalized record for editing.
func DraftFromRecord(rec model.InspectionRecord) Draft {
	d := Draft{
		ID:                  rec.ID,
		Number:              rec.Number,
		Date:                rec.Date,
		ObjectName:          rec.ObjectName,
		PipelineSection:     rec.PipelineSection,
		ControlMethod:       rec.ControlMethod,
		Result:              rec.Result.Normalize(),
		LabName:             rec.LabName.Or(""),
		LabAccreditation:    rec.LabAccreditation.Or(""),
		LabAddress:          rec.LabAddress.Or(""),
		OrderNumber:         rec.OrderNumber.Or(""),
		CustomerID:          rec.CustomerID.Or(""),
		CustomerName:        rec.CustomerName.Or(""),
		PipeDiameterID:      rec.PipeDiameterID.Or(""),
		PipeDiameter:        rec.PipeDiameter.Or(""),
		WallThickness:       rec.WallThickness.Or(""),
		Executor:            rec.Executor.Or(""),
		ExecutorCertificate: rec.ExecutorCertificate.Or(""),
		Equipment:           rec.Equipment.Or(""),
		NormativeDoc:        rec.NormativeDoc.Or(""),
		Sensitivity:         rec.Sensitivity.Or(""),
		Temperature:         rec.Temperature.Or(""),
		Conclusion:          rec.Conclusion.Or(""),
	}
	for _, def := range rec.Defects {
		d.Defects = append(d.Defects, DefectDraft{
			WeldID:        def.WeldID,
			WelderID:      def.WelderID.Or(""),
			WelderName:    def.WelderName.Or(""),
			Diameter:      def.Diameter.Or(""),
			WallThickness: def.WallThickness.Or(""),
			Description:   def.Description.Or(""),
			Location:      def.Location.Or(""),
			Size:          def.Size.Or(""),
			Verdict:       def.Verdict,
		})
	}
	return d
}
