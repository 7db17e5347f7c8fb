package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"ndtreports/config"
	"ndtreports/model"
	"ndtreports/refdata"
	"ndtreports/services"
	"ndtreports/store"
	"ndtreports/testhelpers"
)

// newTestRequestEvent creates a RequestEvent suitable for handler tests.
func newTestRequestEvent(app *pocketbase.PocketBase, req *http.Request, rec *httptest.ResponseRecorder) *core.RequestEvent {
	e := &core.RequestEvent{}
	e.App = app
	e.Request = req
	e.Response = rec
	return e
}

// testDirectory holds one entry of every reference kind.
func testDirectory() *refdata.Directory {
	return refdata.NewDirectory(refdata.Bundle{
		Customers:     []model.Customer{{ID: "c1", Name: "ООО Газпром трансгаз"}},
		Welders:       []model.Welder{{ID: "w1", Name: "Иванов И.И.", Stamp: "А12"}},
		PipeDiameters: []model.PipeDiameter{{ID: "d1", Diameter: "1420", WallThickness: "21.6"}},
		Templates: []model.Template{{
			ID:            "t1",
			Name:          "УЗК стыков",
			ControlMethod: "Ультразвуковой контроль",
			Fields:        map[string]string{model.TemplateEquipment: "УД2-12"},
		}},
	})
}

// newTestEnv returns a PocketBase-backed handler environment with a small
// reference directory.
func newTestEnv(t *testing.T) (*pocketbase.PocketBase, *Env) {
	t.Helper()

	app := testhelpers.NewTestApp(t)
	repo := store.NewRecordStore(app)
	dir := testDirectory()
	settings := config.Default()
	settings.Export.Dir = t.TempDir()
	svc := services.NewConclusionService(repo, dir, settings.Numbering.Prefix)
	return app, NewEnv(svc, dir, settings, "embedded")
}

// serve runs handler against req and returns the recorder.
func serve(t *testing.T, app *pocketbase.PocketBase, handler func(*core.RequestEvent) error, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

// postForm builds a urlencoded POST request.
func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// validForm returns a complete conclusion form with one defect row.
func validForm() url.Values {
	form := url.Values{}
	form.Set("number", "НК-2024-007")
	form.Set("date", "2024-03-01")
	form.Set("object_name", "МГ Бованенково - Ухта")
	form.Set("control_method", "Ультразвуковой контроль")
	form.Set("result", "допущено")
	form.Set("customer_id", "c1")
	form.Set("pipe_diameter_id", "d1")
	form.Set("defects[0].weld_id", "СС-77")
	form.Set("defects[0].welder_id", "w1")
	form.Set("defects[0].verdict", "ПРИГ")
	return form
}
