package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"ndtreports/model"
	"ndtreports/services"
	"ndtreports/templates"
)

// viewData maps the printable presentation onto the preview page.
func viewData(id string, p *services.Presentation) templates.ConclusionViewData {
	data := templates.ConclusionViewData{
		ID:         id,
		Title:      p.Title,
		Subtitle:   p.Subtitle,
		DateLong:   p.DateLong,
		Conclusion: p.Conclusion.Or(""),
		Verdict:    p.Verdict,
		Accepted:   p.Accepted,
	}
	for _, s := range p.Sections {
		vs := templates.ViewSection{Title: s.Title}
		for _, f := range s.Fields {
			vs.Fields = append(vs.Fields, templates.ViewField{Label: f.Label, Value: f.Value})
		}
		data.Sections = append(data.Sections, vs)
	}
	for _, d := range p.Defects {
		data.Defects = append(data.Defects, templates.ViewDefect{
			Index:       d.Index,
			WeldID:      d.WeldID,
			WelderName:  d.WelderName.Or(services.PlaceholderDash),
			Geometry:    orDash(d.Geometry()),
			Description: d.Description.Or(services.NoDefectsText),
			Location:    d.Location.Or(services.DefaultLocationText),
			Size:        d.Size.Or(services.PlaceholderDash),
			Verdict:     d.Tag,
			Rejected:    d.Tag == string(model.VerdictFail),
		})
	}
	return data
}

func orDash(s string) string {
	if s == "" {
		return services.PlaceholderDash
	}
	return s
}

// HandleConclusionView renders the on-screen preview of a conclusion with
// its export links.
func HandleConclusionView(env *Env) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		rec, err := env.Service.Get(id)
		if errors.Is(err, model.ErrRecordNotFound) {
			return ErrorToast(e, http.StatusNotFound, "Заключение не найдено")
		}
		if err != nil {
			log.Printf("conclusion_view: could not load %s: %v", id, err)
			return ErrorToast(e, http.StatusInternalServerError, "Не удалось загрузить заключение")
		}

		data := viewData(rec.ID, services.BuildPresentation(rec))
		header, sidebar := pageChrome(e.Request)
		return render(e,
			templates.ConclusionViewContent(data),
			templates.ConclusionViewPage(data, header, sidebar),
		)
	}
}
