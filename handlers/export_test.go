package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ndtreports/model"
	"ndtreports/services"
	"ndtreports/testhelpers"
)

func TestHandleConclusionExport_Formats(t *testing.T) {
	for _, format := range []services.Format{services.FormatXLSX, services.FormatDOCX} {
		t.Run(string(format), func(t *testing.T) {
			app, env := newTestEnv(t)
			saved := testhelpers.CreateTestConclusion(t, env.Service.Repository(), "НК-2024-020", "Газопровод")

			req := httptest.NewRequest(http.MethodGet, "/conclusions/"+saved.ID+"/export/"+string(format), nil)
			req.SetPathValue("id", saved.ID)
			req.SetPathValue("format", string(format))
			rec := serve(t, app, HandleConclusionExport(env), req)

			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
			}
			if got := rec.Header().Get("Content-Type"); got != format.ContentType() {
				t.Errorf("expected content type %q, got %q", format.ContentType(), got)
			}
			if cd := rec.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, "attachment") {
				t.Errorf("expected attachment disposition, got %q", cd)
			}
			// xlsx and docx are both zip containers.
			if !bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")) {
				t.Error("expected a zip container")
			}
		})
	}
}

func TestHandleConclusionExport_UnknownFormat(t *testing.T) {
	app, env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/conclusions/x/export/odt", nil)
	req.SetPathValue("id", "x")
	req.SetPathValue("format", "odt")
	rec := serve(t, app, HandleConclusionExport(env), req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleConclusionExport_NotFound(t *testing.T) {
	app, env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/conclusions/nope/export/xlsx", nil)
	req.SetPathValue("id", "nope")
	req.SetPathValue("format", "xlsx")
	rec := serve(t, app, HandleConclusionExport(env), req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandleConclusionExportAll_WritesFiles(t *testing.T) {
	app, env := newTestEnv(t)
	saved := testhelpers.CreateTestConclusion(t, env.Service.Repository(), "НК-2024-021", "Газопровод")

	req := httptest.NewRequest(http.MethodPost, "/conclusions/"+saved.ID+"/export", nil)
	req.SetPathValue("id", saved.ID)
	rec := serve(t, app, HandleConclusionExportAll(env), req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d: %s", rec.Code, rec.Body.String())
	}
	for _, f := range []services.Format{services.FormatXLSX, services.FormatDOCX} {
		path := filepath.Join(env.Settings.Export.Dir, services.ExportFilename(saved.Number, f))
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected %s to exist: %v", path, err)
		}
	}
}

func TestHandleDefectTemplate(t *testing.T) {
	app, env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/defects/import-template", nil)
	rec := serve(t, app, HandleDefectTemplate(env), req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != services.FormatXLSX.ContentType() {
		t.Errorf("unexpected content type %q", got)
	}
	if rec.Body.Len() == 0 {
		t.Error("expected non-empty template")
	}
}

func uploadRequest(t *testing.T, target, fileName, content string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestHandleDefectImport_AppendsRows(t *testing.T) {
	app, env := newTestEnv(t)
	saved := testhelpers.CreateTestConclusion(t, env.Service.Repository(), "НК-2024-030", "Газопровод")

	csv := "№ стыка,Описание дефектов,Оценка\nСС-2,Пора Аа 1,БРАК\nСС-3,,ПРИГ\n"
	req := uploadRequest(t, "/conclusions/"+saved.ID+"/defects/import", "defects.csv", csv)
	req.SetPathValue("id", saved.ID)
	rec := serve(t, app, HandleDefectImport(env), req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "Добавлено строк: 2")

	got, err := env.Service.Get(saved.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	ids := strings.Join(got.WeldIDs(), ",")
	if ids != "СС-1,СС-2,СС-3" {
		t.Errorf("expected imported rows appended, got %q", ids)
	}
}

func TestHandleDefectImport_KeepsSavedNames(t *testing.T) {
	app, env := newTestEnv(t)
	saved, err := env.Service.Save(services.Draft{
		Number:     "НК-2024-033",
		Date:       "2024-03-01",
		ObjectName: "Газопровод",
		CustomerID: "c1",
		Defects:    []services.DefectDraft{{WeldID: "СС-1", WelderID: "w1"}},
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	welder := saved.Defects[0].WelderName.Or("")

	env.Directory.PutWelder(model.Welder{ID: "w1", Name: "Другой Д.Д."})
	env.Directory.PutCustomer(model.Customer{ID: "c1", Name: "Новый заказчик"})

	csv := "№ стыка,Клеймо сварщика\nСС-2,w1\n"
	req := uploadRequest(t, "/conclusions/"+saved.ID+"/defects/import", "defects.csv", csv)
	req.SetPathValue("id", saved.ID)
	rec := serve(t, app, HandleDefectImport(env), req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	got, err := env.Service.Get(saved.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Defects) != 2 {
		t.Fatalf("expected 2 defects, got %d", len(got.Defects))
	}
	if name := got.Defects[0].WelderName.Or(""); name != welder {
		t.Errorf("existing row welder changed from %q to %q", welder, name)
	}
	if name := got.CustomerName.Or(""); name != "ООО Газпром трансгаз" {
		t.Errorf("customer changed to %q", name)
	}
	if name := got.Defects[1].WelderName.Or(""); !strings.HasPrefix(name, "Другой Д.Д.") {
		t.Errorf("imported row welder = %q, want the current name", name)
	}
}

func TestHandleDefectImport_RowErrorsImportNothing(t *testing.T) {
	app, env := newTestEnv(t)
	saved := testhelpers.CreateTestConclusion(t, env.Service.Repository(), "НК-2024-031", "Газопровод")

	csv := "№ стыка,Оценка\nСС-2,ПРИГ\n,БРАК\n"
	req := uploadRequest(t, "/conclusions/"+saved.ID+"/defects/import", "defects.csv", csv)
	req.SetPathValue("id", saved.ID)
	rec := serve(t, app, HandleDefectImport(env), req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "errors_json", "Скачать отчёт об ошибках")

	got, _ := env.Service.Get(saved.ID)
	if len(got.Defects) != 1 {
		t.Errorf("expected no rows imported, got %d defects", len(got.Defects))
	}
}

func TestHandleDefectImport_UnsupportedFile(t *testing.T) {
	app, env := newTestEnv(t)
	saved := testhelpers.CreateTestConclusion(t, env.Service.Repository(), "НК-2024-032", "Газопровод")

	req := uploadRequest(t, "/conclusions/"+saved.ID+"/defects/import", "defects.txt", "x")
	req.SetPathValue("id", saved.ID)
	rec := serve(t, app, HandleDefectImport(env), req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", rec.Code)
	}
}

func TestHandleDefectErrorReport(t *testing.T) {
	app, env := newTestEnv(t)
	form := url.Values{}
	form.Set("errors_json", `[{"row":3,"field":"№ стыка","message":"Поле обязательно"}]`)
	rec := serve(t, app, HandleDefectErrorReport(env), postForm("/defects/import/errors", form))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")) {
		t.Error("expected an xlsx body")
	}
}

func TestHandleDefectErrorReport_BadJSON(t *testing.T) {
	app, env := newTestEnv(t)
	form := url.Values{}
	form.Set("errors_json", "not json")
	rec := serve(t, app, HandleDefectErrorReport(env), postForm("/defects/import/errors", form))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
