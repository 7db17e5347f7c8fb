package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/pocketbase/pocketbase/core"

	"ndtreports/model"
	"ndtreports/services"
	"ndtreports/templates"
)

func (env *Env) templatesData(errs map[string]string) templates.TemplatesData {
	data := templates.TemplatesData{Methods: methodOptions(), Errors: errs}
	for _, t := range env.Directory.Templates() {
		data.Items = append(data.Items, templates.TemplateItem{
			ID:            t.ID,
			Name:          t.Name,
			ControlMethod: services.ControlMethodCode(t.ControlMethod),
			Summary:       t.Summary(),
		})
	}
	return data
}

func (env *Env) renderTemplates(e *core.RequestEvent, errs map[string]string) error {
	data := env.templatesData(errs)
	header, sidebar := pageChrome(e.Request)
	return render(e,
		templates.TemplatesContent(data),
		templates.TemplatesPage(data, header, sidebar),
	)
}

// HandleTemplates lists the loaded conclusion templates.
func HandleTemplates(env *Env) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return env.renderTemplates(e, nil)
	}
}

// HandleTemplateSave adds a template to the in-memory directory. Templates
// added here live until the next restart.
func HandleTemplateSave(env *Env) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Неверные данные формы")
		}
		v := func(name string) string { return strings.TrimSpace(e.Request.FormValue(name)) }

		name := v("name")
		if name == "" {
			return env.renderTemplates(e, map[string]string{"name": "Укажите название шаблона"})
		}

		t := model.Template{
			ID:            uuid.NewString(),
			Name:          name,
			ControlMethod: v("control_method"),
			Fields:        map[string]string{},
		}
		for key, field := range map[string]string{
			model.TemplateEquipment:    "equipment",
			model.TemplateNormativeDoc: "normative_doc",
			model.TemplateSensitivity:  "sensitivity",
			model.TemplateTemperature:  "temperature",
		} {
			if val := v(field); val != "" {
				t.Fields[key] = val
			}
		}
		env.Directory.PutTemplate(t)
		log.Printf("templates: added %q (%s)", t.Name, t.ID)

		SetToast(e, ToastSuccess, fmt.Sprintf("Шаблон «%s» добавлен", t.Name))
		return env.renderTemplates(e, nil)
	}
}
