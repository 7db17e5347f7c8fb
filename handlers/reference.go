package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/pocketbase/pocketbase/core"

	"ndtreports/model"
	"ndtreports/templates"
)

// Reference list slugs used in /reference/{kind}.
const (
	KindCustomers     = "customers"
	KindWelders       = "welders"
	KindPipeDiameters = "pipe-diameters"
)

func (env *Env) referenceData() templates.ReferenceData {
	b := env.Directory.Snapshot()
	data := templates.ReferenceData{Source: env.Source, Empty: env.Directory.Empty()}

	customers := templates.ReferenceTable{
		Kind:    KindCustomers,
		Title:   "Заказчики",
		Columns: []string{"Код", "Наименование"},
		Inputs:  []templates.Option{{Value: "name", Label: "Наименование"}},
	}
	for _, c := range b.Customers {
		customers.Rows = append(customers.Rows, []string{c.ID, c.Name})
	}

	welders := templates.ReferenceTable{
		Kind:    KindWelders,
		Title:   "Сварщики",
		Columns: []string{"Код", "ФИО", "Клеймо"},
		Inputs:  []templates.Option{{Value: "name", Label: "ФИО"}, {Value: "stamp", Label: "Клеймо"}},
	}
	for _, w := range b.Welders {
		welders.Rows = append(welders.Rows, []string{w.ID, w.Name, w.Stamp})
	}

	diameters := templates.ReferenceTable{
		Kind:    KindPipeDiameters,
		Title:   "Диаметры труб",
		Columns: []string{"Код", "Диаметр", "Толщина стенки"},
		Inputs:  []templates.Option{{Value: "diameter", Label: "Диаметр"}, {Value: "wall_thickness", Label: "Толщина стенки"}},
	}
	for _, p := range b.PipeDiameters {
		diameters.Rows = append(diameters.Rows, []string{p.ID, p.Diameter, p.WallThickness})
	}

	data.Tables = []templates.ReferenceTable{customers, welders, diameters}
	return data
}

func (env *Env) renderReference(e *core.RequestEvent) error {
	data := env.referenceData()
	header, sidebar := pageChrome(e.Request)
	return render(e,
		templates.ReferenceContent(data),
		templates.ReferencePage(data, header, sidebar),
	)
}

// HandleReference shows the loaded customers, welders and pipe diameters.
func HandleReference(env *Env) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return env.renderReference(e)
	}
}

// HandleReferenceSave adds one entry to a reference list. Entries added here
// live in memory until the next restart.
func HandleReferenceSave(env *Env) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		kind := e.Request.PathValue("kind")
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Неверные данные формы")
		}
		v := func(name string) string { return strings.TrimSpace(e.Request.FormValue(name)) }
		id := uuid.NewString()

		switch kind {
		case KindCustomers:
			if v("name") == "" {
				return ErrorToast(e, http.StatusUnprocessableEntity, "Укажите наименование заказчика")
			}
			env.Directory.PutCustomer(model.Customer{ID: id, Name: v("name")})
		case KindWelders:
			if v("name") == "" {
				return ErrorToast(e, http.StatusUnprocessableEntity, "Укажите ФИО сварщика")
			}
			env.Directory.PutWelder(model.Welder{ID: id, Name: v("name"), Stamp: v("stamp")})
		case KindPipeDiameters:
			if v("diameter") == "" {
				return ErrorToast(e, http.StatusUnprocessableEntity, "Укажите диаметр")
			}
			env.Directory.PutPipeDiameter(model.PipeDiameter{ID: id, Diameter: v("diameter"), WallThickness: v("wall_thickness")})
		default:
			return ErrorToast(e, http.StatusNotFound, "Неизвестный справочник")
		}
		log.Printf("reference: added %s entry %s", kind, id)

		SetToast(e, ToastSuccess, "Запись добавлена")
		return env.renderReference(e)
	}
}

// HandleHome sends the root path to the conclusions list.
func HandleHome() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return e.Redirect(http.StatusFound, "/conclusions")
	}
}
