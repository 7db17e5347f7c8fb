package services

import "ndtreports/model"

// Labels shared by every export format.
const (
	LabelLab                 = "Лаборатория"
	LabelLabAccreditation    = "Свидетельство об аттестации"
	LabelLabAddress          = "Адрес"
	LabelObject              = "Объект контроля"
	LabelPipelineSection     = "Участок трубопровода"
	LabelCustomer            = "Заказчик"
	LabelOrderNumber         = "Номер заявки"
	LabelPipeDiameter        = "Диаметр трубы, мм"
	LabelWallThickness       = "Толщина стенки, мм"
	LabelControlMethod       = "Метод контроля"
	LabelEquipment           = "Оборудование"
	LabelNormativeDoc        = "Нормативный документ"
	LabelSensitivity         = "Чувствительность"
	LabelTemperature         = "Температура окружающего воздуха"
	LabelExecutor            = "Исполнитель"
	LabelExecutorCertificate = "Удостоверение исполнителя"
)

// Placeholders used in defect tables.
const (
	PlaceholderDash     = "-"
	NoDefectsText       = "Дефектов не выявлено"
	DefaultLocationText = "гладь"
)

// Field is one labeled value of a section.
type Field struct {
	Label string
	Value string
}

// Section is a titled group of fields. Sections without fields are not
// produced.
type Section struct {
	Title  string
	Fields []Field
}

// DefectRow is one table row. Optional values stay optional so each writer
// can pick its own placeholder.
type DefectRow struct {
	Index         int
	WeldID        string
	WelderName    model.Text
	Diameter      model.Text
	WallThickness model.Text
	Description   model.Text
	Location      model.Text
	Size          model.Text
	Tag           string
}

// Geometry is the "diameter x wallThickness" composite of the row.
func (r DefectRow) Geometry() string {
	return GeometryLabel(r.Diameter.Or(""), r.WallThickness.Or(""))
}

// Presentation is the format-neutral content of one conclusion, in document
// order: heading, sections, defects, free-text conclusion, verdict.
type Presentation struct {
	Number   string
	Date     string // DD.MM.YYYY
	DateLong string

	Title    string
	Subtitle string

	Sections []Section
	Defects  []DefectRow

	Conclusion model.Text
	Accepted   bool
	Verdict    string
}

// Verdict sentences.
const (
	VerdictAcceptedText = "Сварные соединения соответствуют требованиям нормативной документации и допущены к эксплуатации."
	VerdictRejectedText = "Сварные соединения не соответствуют требованиям нормативной документации и не допущены к эксплуатации."
)

// BuildPresentation lays out rec for export. It reads rec without changing
// it and never fails: required fields are kept even when empty, absent
// optional fields are left out.
func BuildPresentation(rec model.InspectionRecord) *Presentation {
	p := &Presentation{
		Number:     rec.Number,
		Date:       FormatDate(rec.Date),
		DateLong:   FormatDateLong(rec.Date),
		Title:      "ЗАКЛЮЧЕНИЕ № " + rec.Number,
		Subtitle:   "по результатам неразрушающего контроля сварных соединений",
		Conclusion: rec.Conclusion,
		Accepted:   rec.Result.Accepted(),
	}
	if p.Accepted {
		p.Verdict = VerdictAcceptedText
	} else {
		p.Verdict = VerdictRejectedText
	}

	sections := []Section{
		{
			Title: "Лаборатория неразрушающего контроля",
			Fields: optional(
				opt(LabelLab, rec.LabName),
				opt(LabelLabAccreditation, rec.LabAccreditation),
				opt(LabelLabAddress, rec.LabAddress),
			),
		},
		{
			Title: "Объект контроля",
			Fields: optional(
				req(LabelObject, rec.ObjectName),
				req(LabelPipelineSection, rec.PipelineSection),
				opt(LabelCustomer, rec.CustomerName),
				opt(LabelOrderNumber, rec.OrderNumber),
				opt(LabelPipeDiameter, rec.PipeDiameter),
				opt(LabelWallThickness, rec.WallThickness),
			),
		},
		{
			Title: "Параметры контроля",
			Fields: optional(
				req(LabelControlMethod, rec.ControlMethod),
				opt(LabelEquipment, rec.Equipment),
				opt(LabelNormativeDoc, rec.NormativeDoc),
				opt(LabelSensitivity, rec.Sensitivity),
				opt(LabelTemperature, rec.Temperature),
				opt(LabelExecutor, rec.Executor),
				opt(LabelExecutorCertificate, rec.ExecutorCertificate),
			),
		},
	}
	for _, s := range sections {
		if len(s.Fields) > 0 {
			p.Sections = append(p.Sections, s)
		}
	}

	for i, d := range rec.Defects {
		p.Defects = append(p.Defects, DefectRow{
			Index:         i + 1,
			WeldID:        d.WeldID,
			WelderName:    d.WelderName,
			Diameter:      d.Diameter,
			WallThickness: d.WallThickness,
			Description:   d.Description,
			Location:      d.Location,
			Size:          d.Size,
			Tag:           d.Verdict.Tag(),
		})
	}
	return p
}

// Fields returns every field of every section in document order.
func (p *Presentation) Fields() []Field {
	var out []Field
	for _, s := range p.Sections {
		out = append(out, s.Fields...)
	}
	return out
}

func req(label, value string) *Field {
	return &Field{Label: label, Value: value}
}

func opt(label string, value model.Text) *Field {
	v, ok := value.Get()
	if !ok {
		return nil
	}
	return &Field{Label: label, Value: v}
}

func optional(fields ...*Field) []Field {
	out := make([]Field, 0, len(fields))
	for _, f := range fields {
		if f != nil {
			out = append(out, *f)
		}
	}
	return out
}
