package model

import "strings"

// Customer is a reference entry for the ordering organisation.
type Customer struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Welder is a reference entry for the welder who made a joint.
type Welder struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Stamp string `json:"stamp,omitempty" yaml:"stamp,omitempty"`
}

// DisplayName is the name baked into defect rows at save time.
func (w Welder) DisplayName() string {
	if w.Stamp == "" {
		return w.Name
	}
	return w.Name + " (" + w.Stamp + ")"
}

// PipeDiameter is a reference entry for pipe geometry.
type PipeDiameter struct {
	ID            string `json:"id" yaml:"id"`
	Diameter      string `json:"diameter" yaml:"diameter"`
	WallThickness string `json:"wall_thickness,omitempty" yaml:"wall_thickness,omitempty"`
}

// Template is a named preset of draft fields.
type Template struct {
	ID            string            `json:"id" yaml:"id"`
	Name          string            `json:"name" yaml:"name"`
	ControlMethod string            `json:"control_method" yaml:"control_method"`
	Fields        map[string]string `json:"fields" yaml:"fields"`
}

// Summary joins the template's field values for list display.
func (t Template) Summary() string {
	vals := make([]string, 0, len(t.Fields))
	for _, key := range TemplateFieldOrder {
		if v, ok := t.Fields[key]; ok && v != "" {
			vals = append(vals, v)
		}
	}
	return strings.Join(vals, " · ")
}

// Template field keys accepted by Draft.ApplyTemplate.
const (
	TemplateControlMethod = "controlMethod"
	TemplateEquipment     = "equipment"
	TemplateNormativeDoc  = "normativeDoc"
	TemplateSensitivity   = "sensitivity"
	TemplateTemperature   = "temperature"
)

// TemplateFieldOrder fixes the display order of template fields.
var TemplateFieldOrder = []string{
	TemplateControlMethod,
	TemplateEquipment,
	TemplateNormativeDoc,
	TemplateSensitivity,
	TemplateTemperature,
}
