package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/pocketbase/pocketbase/core"

	"ndtreports/model"
	"ndtreports/services"
	"ndtreports/templates"
)

// draftFromForm reads a submitted conclusion form. Defect rows are read in
// index order until the first missing index.
func draftFromForm(r *http.Request) services.Draft {
	v := func(name string) string { return strings.TrimSpace(r.FormValue(name)) }

	d := services.Draft{
		Number:              v("number"),
		Date:                v("date"),
		ObjectName:          v("object_name"),
		PipelineSection:     v("pipeline_section"),
		ControlMethod:       v("control_method"),
		Result:              model.Result(v("result")).Normalize(),
		LabName:             v("lab_name"),
		LabAccreditation:    v("lab_accreditation"),
		LabAddress:          v("lab_address"),
		OrderNumber:         v("order_number"),
		CustomerID:          v("customer_id"),
		CustomerName:        v("customer_name"),
		PipeDiameterID:      v("pipe_diameter_id"),
		PipeDiameter:        v("pipe_diameter"),
		WallThickness:       v("wall_thickness"),
		Executor:            v("executor"),
		ExecutorCertificate: v("executor_certificate"),
		Equipment:           v("equipment"),
		NormativeDoc:        v("normative_doc"),
		Sensitivity:         v("sensitivity"),
		Temperature:         v("temperature"),
		Conclusion:          v("conclusion"),
	}

	for i := 0; ; i++ {
		prefix := fmt.Sprintf("defects[%d].", i)
		if _, ok := r.Form[prefix+"weld_id"]; !ok {
			break
		}
		d.Defects = append(d.Defects, services.DefectDraft{
			WeldID:        v(prefix + "weld_id"),
			WelderID:      v(prefix + "welder_id"),
			WelderName:    v(prefix + "welder_name"),
			Diameter:      v(prefix + "diameter"),
			WallThickness: v(prefix + "wall_thickness"),
			Description:   v(prefix + "description"),
			Location:      v(prefix + "location"),
			Size:          v(prefix + "size"),
			Verdict:       model.Verdict(v(prefix + "verdict")),
		})
	}
	return d
}

// formData builds the view model for d.
func (env *Env) formData(d services.Draft, errs map[string]string) templates.ConclusionFormData {
	if errs == nil {
		errs = map[string]string{}
	}
	data := templates.ConclusionFormData{
		ID:     d.ID,
		IsEdit: d.ID != "",
		Values: map[string]string{
			"number":               d.Number,
			"date":                 d.Date,
			"object_name":          d.ObjectName,
			"pipeline_section":     d.PipelineSection,
			"control_method":       d.ControlMethod,
			"result":               string(d.Result.Normalize()),
			"lab_name":             d.LabName,
			"lab_accreditation":    d.LabAccreditation,
			"lab_address":          d.LabAddress,
			"order_number":         d.OrderNumber,
			"customer_id":          d.CustomerID,
			"customer_name":        d.CustomerName,
			"pipe_diameter_id":     d.PipeDiameterID,
			"pipe_diameter":        d.PipeDiameter,
			"wall_thickness":       d.WallThickness,
			"executor":             d.Executor,
			"executor_certificate": d.ExecutorCertificate,
			"equipment":            d.Equipment,
			"normative_doc":        d.NormativeDoc,
			"sensitivity":          d.Sensitivity,
			"temperature":          d.Temperature,
			"conclusion":           d.Conclusion,
		},
		Errors:    errs,
		Methods:   ensureOption(methodOptions(), d.ControlMethod, d.ControlMethod),
		Results:   []templates.Option{{Value: string(model.ResultAccepted), Label: model.ResultAccepted.Label()}, {Value: string(model.ResultRejected), Label: model.ResultRejected.Label()}},
		Verdicts:  stringOptions(services.VerdictOptions),
		Customers: ensureOption(env.customerOptions(), d.CustomerID, d.CustomerName),
		Diameters: ensureOption(env.diameterOptions(), d.PipeDiameterID, d.PipeDiameter),
		Welders:   env.welderOptions(),
		Templates: env.templateOptions(),
	}
	for _, dd := range d.Defects {
		data.Welders = ensureOption(data.Welders, dd.WelderID, dd.WelderName)
		verdict := string(dd.Verdict)
		if verdict == "" {
			verdict = string(model.VerdictPass)
		}
		data.Defects = append(data.Defects, templates.DefectFormRow{
			WeldID:        dd.WeldID,
			WelderID:      dd.WelderID,
			WelderName:    dd.WelderName,
			Diameter:      dd.Diameter,
			WallThickness: dd.WallThickness,
			Description:   dd.Description,
			Location:      dd.Location,
			Size:          dd.Size,
			Verdict:       verdict,
		})
	}
	return data
}

func (env *Env) renderForm(e *core.RequestEvent, data templates.ConclusionFormData) error {
	header, sidebar := pageChrome(e.Request)
	return render(e,
		templates.ConclusionFormContent(data),
		templates.ConclusionFormPage(data, header, sidebar),
	)
}

// HandleConclusionNew renders an empty draft with the next proposed number.
// ?template=<id> applies a template and ?autofill=1 copies the object and
// method of the latest conclusion.
func HandleConclusionNew(env *Env) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		draft, err := env.Service.NewDraft(env.draftDefaults())
		if err != nil {
			log.Printf("conclusion_new: could not propose number: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Не удалось подготовить заключение")
		}

		q := e.Request.URL.Query()
		templateID := q.Get("template")
		if templateID != "" {
			if t, ok := env.Directory.Template(templateID); ok {
				draft.ApplyTemplate(t)
			} else {
				SetToast(e, ToastWarning, "Шаблон не найден")
				templateID = ""
			}
		}

		if q.Get("autofill") != "" {
			prev, ok, err := env.Service.Latest()
			switch {
			case err != nil:
				log.Printf("conclusion_new: could not load latest conclusion: %v", err)
			case ok:
				draft.AutofillFrom(prev)
			default:
				SetToast(e, ToastInfo, "Нет предыдущих заключений")
			}
		}

		data := env.formData(draft, nil)
		data.Template = templateID
		return env.renderForm(e, data)
	}
}

// HandleConclusionCreate validates the submitted form and appends a new
// conclusion.
func HandleConclusionCreate(env *Env) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			log.Printf("conclusion_create: could not parse form: %v", err)
			return ErrorToast(e, http.StatusBadRequest, "Неверные данные формы")
		}

		draft := draftFromForm(e.Request)
		if errs := draft.Validate(); len(errs) > 0 {
			return env.renderForm(e, env.formData(draft, errs))
		}

		saved, err := env.Service.Save(draft)
		if err != nil {
			log.Printf("conclusion_create: could not save: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Не удалось сохранить заключение")
		}

		SetToast(e, ToastSuccess, fmt.Sprintf("Заключение %s сохранено", saved.Number))
		return hxRedirect(e, "/conclusions/"+saved.ID)
	}
}

// HandleConclusionEdit renders the form for a finalized conclusion.
func HandleConclusionEdit(env *Env) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := env.Service.Get(e.Request.PathValue("id"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Заключение не найдено")
		}
		return env.renderForm(e, env.formData(services.DraftFromRecord(rec), nil))
	}
}

// HandleConclusionUpdate validates the submitted form and replaces the
// conclusion in place.
func HandleConclusionUpdate(env *Env) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if err := e.Request.ParseForm(); err != nil {
			log.Printf("conclusion_update: could not parse form: %v", err)
			return ErrorToast(e, http.StatusBadRequest, "Неверные данные формы")
		}

		draft := draftFromForm(e.Request)
		draft.ID = id
		if errs := draft.Validate(); len(errs) > 0 {
			return env.renderForm(e, env.formData(draft, errs))
		}

		saved, err := env.Service.Update(draft)
		if errors.Is(err, model.ErrRecordNotFound) {
			return ErrorToast(e, http.StatusNotFound, "Заключение не найдено")
		}
		if err != nil {
			log.Printf("conclusion_update: could not save %s: %v", id, err)
			return ErrorToast(e, http.StatusInternalServerError, "Не удалось сохранить заключение")
		}

		SetToast(e, ToastSuccess, fmt.Sprintf("Заключение %s обновлено", saved.Number))
		return hxRedirect(e, "/conclusions/"+id)
	}
}

// HandleDefectRow renders one blank defect row for the "add row" button.
func HandleDefectRow(env *Env) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		index, err := strconv.Atoi(e.Request.URL.Query().Get("index"))
		if err != nil || index < 0 {
			return ErrorToast(e, http.StatusBadRequest, "Неверный номер строки")
		}
		row := templates.DefectFormRow{Verdict: string(model.VerdictPass)}
		ctx := e.Request.Context()
		if err := templates.DefectRow(index, row, env.welderOptions(), stringOptions(services.VerdictOptions)).Render(ctx, e.Response); err != nil {
			return err
		}
		return templates.AddDefectRowButton(index+1, true).Render(ctx, e.Response)
	}
}
