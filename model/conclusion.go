package model

import "fmt"

// Result is the overall outcome of an inspection conclusion.
type Result string

const (
	ResultAccepted Result = "допущено"
	ResultRejected Result = "не допущено"
)

// ParseResult maps a stored or submitted value onto the closed result set.
func ParseResult(s string) (Result, error) {
	switch Result(s) {
	case ResultAccepted:
		return ResultAccepted, nil
	case ResultRejected:
		return ResultRejected, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidResult, s)
}

// Normalize returns r constrained to the closed set. Anything that is not
// ResultRejected (including the zero value) is treated as accepted, which is
// also the form default.
func (r Result) Normalize() Result {
	if r == ResultRejected {
		return ResultRejected
	}
	return ResultAccepted
}

// Accepted reports whether the conclusion admits the joints to operation.
func (r Result) Accepted() bool {
	return r.Normalize() == ResultAccepted
}

// Label is the human-facing form of the result used in selects and badges.
func (r Result) Label() string {
	if r.Accepted() {
		return "Допущено к эксплуатации"
	}
	return "Не допущено к эксплуатации"
}

// Verdict is the per-joint pass/fail tag.
type Verdict string

const (
	VerdictPass Verdict = "ПРИГ"
	VerdictFail Verdict = "БРАК"
)

// ParseVerdict maps a stored or submitted value onto the closed verdict set.
func ParseVerdict(s string) (Verdict, error) {
	switch Verdict(s) {
	case VerdictPass:
		return VerdictPass, nil
	case VerdictFail:
		return VerdictFail, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidVerdict, s)
}

// Tag returns the printable tag. Only VerdictFail prints as БРАК; every other
// value, including the zero value, prints as ПРИГ.
func (v Verdict) Tag() string {
	if v == VerdictFail {
		return string(VerdictFail)
	}
	return string(VerdictPass)
}

// Attribute keys under which optional fields are persisted.
const (
	AttrLabName             = "lab_name"
	AttrLabAccreditation    = "lab_accreditation"
	AttrLabAddress          = "lab_address"
	AttrOrderNumber         = "order_number"
	AttrCustomerID          = "customer_id"
	AttrCustomerName        = "customer_name"
	AttrPipeDiameterID      = "pipe_diameter_id"
	AttrPipeDiameter        = "pipe_diameter"
	AttrWallThickness       = "wall_thickness"
	AttrExecutor            = "executor"
	AttrExecutorCertificate = "executor_certificate"
	AttrEquipment           = "equipment"
	AttrNormativeDoc        = "normative_doc"
	AttrSensitivity         = "sensitivity"
	AttrTemperature         = "temperature"
	AttrConclusion          = "conclusion"

	AttrWelderID    = "welder_id"
	AttrWelderName  = "welder_name"
	AttrDiameter    = "diameter"
	AttrDescription = "description"
	AttrLocation    = "location"
	AttrSize        = "size"
)

// InspectionRecord is a finalized conclusion. Once saved it only changes
// through a full replacement that keeps ID.
type InspectionRecord struct {
	ID              string
	Number          string
	Date            string // ISO 8601 calendar date
	ObjectName      string
	PipelineSection string
	ControlMethod   string
	Result          Result

	LabName             Text
	LabAccreditation    Text
	LabAddress          Text
	OrderNumber         Text
	CustomerID          Text
	CustomerName        Text
	PipeDiameterID      Text
	PipeDiameter        Text
	WallThickness       Text
	Executor            Text
	ExecutorCertificate Text
	Equipment           Text
	NormativeDoc        Text
	Sensitivity         Text
	Temperature         Text
	Conclusion          Text

	// Defects are kept in insertion order.
	Defects []DefectRecord
}

// DefectRecord is one inspected joint within a conclusion.
type DefectRecord struct {
	WeldID        string
	WelderID      Text
	WelderName    Text // resolved from WelderID at save time
	Diameter      Text
	WallThickness Text
	Description   Text
	Location      Text
	Size          Text
	Verdict       Verdict
}

type optionalField struct {
	key string
	ptr *Text
}

func (r *InspectionRecord) optionalFields() []optionalField {
	return []optionalField{
		{AttrLabName, &r.LabName},
		{AttrLabAccreditation, &r.LabAccreditation},
		{AttrLabAddress, &r.LabAddress},
		{AttrOrderNumber, &r.OrderNumber},
		{AttrCustomerID, &r.CustomerID},
		{AttrCustomerName, &r.CustomerName},
		{AttrPipeDiameterID, &r.PipeDiameterID},
		{AttrPipeDiameter, &r.PipeDiameter},
		{AttrWallThickness, &r.WallThickness},
		{AttrExecutor, &r.Executor},
		{AttrExecutorCertificate, &r.ExecutorCertificate},
		{AttrEquipment, &r.Equipment},
		{AttrNormativeDoc, &r.NormativeDoc},
		{AttrSensitivity, &r.Sensitivity},
		{AttrTemperature, &r.Temperature},
		{AttrConclusion, &r.Conclusion},
	}
}

func (d *DefectRecord) optionalFields() []optionalField {
	return []optionalField{
		{AttrWelderID, &d.WelderID},
		{AttrWelderName, &d.WelderName},
		{AttrDiameter, &d.Diameter},
		{AttrWallThickness, &d.WallThickness},
		{AttrDescription, &d.Description},
		{AttrLocation, &d.Location},
		{AttrSize, &d.Size},
	}
}

// OptionalAttributes returns the present optional fields keyed by attribute
// key. Absent fields have no key at all.
func (r InspectionRecord) OptionalAttributes() map[string]string {
	return collectAttributes(r.optionalFields())
}

// SetOptionalAttributes replaces every optional field from m. Keys missing
// from m leave the field absent.
func (r *InspectionRecord) SetOptionalAttributes(m map[string]string) {
	applyAttributes(r.optionalFields(), m)
}

// OptionalAttributes returns the present optional fields of the defect.
func (d DefectRecord) OptionalAttributes() map[string]string {
	return collectAttributes(d.optionalFields())
}

// SetOptionalAttributes replaces every optional field of the defect from m.
func (d *DefectRecord) SetOptionalAttributes(m map[string]string) {
	applyAttributes(d.optionalFields(), m)
}

func collectAttributes(fields []optionalField) map[string]string {
	out := make(map[string]string, len(fields))
	for _, f := range fields {
		if v, ok := f.ptr.Get(); ok {
			out[f.key] = v
		}
	}
	return out
}

func applyAttributes(fields []optionalField, m map[string]string) {
	for _, f := range fields {
		if v, ok := m[f.key]; ok {
			*f.ptr = Some(v)
		} else {
			*f.ptr = None()
		}
	}
}

// Clone returns a copy that shares no mutable state with r.
func (r InspectionRecord) Clone() InspectionRecord {
	out := r
	if r.Defects != nil {
		out.Defects = make([]DefectRecord, len(r.Defects))
		copy(out.Defects, r.Defects)
	}
	return out
}

// WeldIDs lists the joint identifiers in presentation order.
func (r InspectionRecord) WeldIDs() []string {
	ids := make([]string, 0, len(r.Defects))
	for _, d := range r.Defects {
		ids = append(ids, d.WeldID)
	}
	return ids
}
