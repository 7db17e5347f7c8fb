package handlers

import (
	"errors"
	"fmt"
	"log"
	"mime"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase/core"

	"ndtreports/model"
	"ndtreports/services"
)

// writeDownload sends data as an attachment. Non-ASCII names are encoded
// per RFC 2231 by mime.FormatMediaType.
func writeDownload(e *core.RequestEvent, contentType, filename string, data []byte) error {
	e.Response.Header().Set("Content-Type", contentType)
	e.Response.Header().Set("Content-Disposition",
		mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	_, err := e.Response.Write(data)
	return err
}

func (env *Env) loadPresentation(e *core.RequestEvent, area string) (*services.Presentation, model.InspectionRecord, error) {
	id := e.Request.PathValue("id")
	rec, err := env.Service.Get(id)
	if errors.Is(err, model.ErrRecordNotFound) {
		return nil, rec, ErrorToast(e, http.StatusNotFound, "Заключение не найдено")
	}
	if err != nil {
		log.Printf("%s: could not load %s: %v", area, id, err)
		return nil, rec, ErrorToast(e, http.StatusInternalServerError, "Не удалось загрузить заключение")
	}
	return services.BuildPresentation(rec), rec, nil
}

// HandleConclusionExport returns a handler that renders one conclusion as
// pdf, xlsx or docx and downloads it.
func HandleConclusionExport(env *Env) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		format, err := services.ParseFormat(e.Request.PathValue("format"))
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Неизвестный формат")
		}

		p, _, err := env.loadPresentation(e, "export")
		if p == nil {
			return err
		}

		data, err := services.Render(p, format, env.exportOptions())
		if err != nil {
			log.Printf("export: failed to generate %s for %s: %v", format, p.Number, err)
			return ErrorToast(e, http.StatusInternalServerError, "Не удалось сформировать документ")
		}
		return writeDownload(e, format.ContentType(), services.ExportFilename(p.Number, format), data)
	}
}

// HandleConclusionExportAll writes all three artifacts into the configured
// export directory, overwriting earlier exports of the same number.
func HandleConclusionExportAll(env *Env) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		p, rec, err := env.loadPresentation(e, "export_all")
		if p == nil {
			return err
		}

		paths, err := services.WriteExports(env.Settings.Export.Dir, p, env.exportOptions())
		if err != nil {
			log.Printf("export_all: failed to write %s: %v", p.Number, err)
			return ErrorToast(e, http.StatusInternalServerError, "Не удалось сохранить документы")
		}
		log.Printf("export_all: wrote %d files for %s", len(paths), p.Number)

		SetToast(e, ToastSuccess, fmt.Sprintf("Документы сохранены в %s", env.Settings.Export.Dir))
		return hxRedirect(e, "/conclusions/"+rec.ID)
	}
}

// HandleDefectTemplate downloads the defect import sheet.
func HandleDefectTemplate(env *Env) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, err := services.GenerateDefectTemplate()
		if err != nil {
			log.Printf("defect_template: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Не удалось сформировать шаблон")
		}
		filename := fmt.Sprintf("дефекты_шаблон_%s.xlsx", time.Now().Format("2006-01-02"))
		return writeDownload(e, services.FormatXLSX.ContentType(), filename, data)
	}
}
