package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase/core"

	"ndtreports/model"
	"ndtreports/services"
	"ndtreports/templates"
)

const maxUploadSize = 10 << 20

func importResultData(id string, result *services.ValidationResult) templates.DefectImportResultData {
	data := templates.DefectImportResultData{
		ConclusionID: id,
		FileName:     result.FileName,
		TotalRows:    result.TotalRows,
		ValidRows:    result.ValidRows,
		ErrorRows:    result.ErrorRows,
	}
	for _, ve := range result.Errors {
		data.Errors = append(data.Errors, templates.ImportError{Row: ve.Row, Field: ve.Field, Message: ve.Message})
	}
	return data
}

// HandleDefectImport appends the rows of an uploaded CSV or Excel sheet to a
// conclusion's defect table. A sheet with any invalid row imports nothing.
func HandleDefectImport(env *Env) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		rec, err := env.Service.Get(id)
		if errors.Is(err, model.ErrRecordNotFound) {
			return ErrorToast(e, http.StatusNotFound, "Заключение не найдено")
		}
		if err != nil {
			log.Printf("defect_import: could not load %s: %v", id, err)
			return ErrorToast(e, http.StatusInternalServerError, "Не удалось загрузить заключение")
		}

		if err := e.Request.ParseMultipartForm(maxUploadSize); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Файл слишком большой или повреждён")
		}
		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Выберите файл для загрузки")
		}
		defer file.Close()

		result, err := services.ParseDefectFile(file, header.Filename)
		if err != nil {
			log.Printf("defect_import: %s rejected: %v", header.Filename, err)
			return ErrorToast(e, http.StatusUnprocessableEntity, fmt.Sprintf("Не удалось прочитать файл: %v", err))
		}

		data := importResultData(id, result)
		if result.HasErrors() {
			raw, err := json.Marshal(result.Errors)
			if err != nil {
				return fmt.Errorf("encode import errors: %w", err)
			}
			data.ErrorsJSON = string(raw)
			SetToast(e, ToastWarning, fmt.Sprintf("Найдены ошибки в %d строках", result.ErrorRows))
			return templates.DefectImportResult(data).Render(e.Request.Context(), e.Response)
		}

		if _, err := env.Service.AppendDefects(id, result.Defects); err != nil {
			log.Printf("defect_import: could not save %s: %v", id, err)
			return ErrorToast(e, http.StatusInternalServerError, "Не удалось сохранить дефекты")
		}
		log.Printf("defect_import: added %d rows to %s from %s", len(result.Defects), rec.Number, header.Filename)

		data.Imported = len(result.Defects)
		SetToast(e, ToastSuccess, fmt.Sprintf("Добавлено строк: %d", data.Imported))
		return templates.DefectImportResult(data).Render(e.Request.Context(), e.Response)
	}
}

// HandleDefectErrorReport turns the errors of a rejected upload back into a
// downloadable Excel report.
func HandleDefectErrorReport(env *Env) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var errs []services.ValidationError
		if err := json.Unmarshal([]byte(e.Request.FormValue("errors_json")), &errs); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Неверный список ошибок")
		}
		data, err := services.GenerateErrorReport(errs)
		if err != nil {
			log.Printf("defect_error_report: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Не удалось сформировать отчёт")
		}
		filename := fmt.Sprintf("ошибки_импорта_%s.xlsx", time.Now().Format("2006-01-02"))
		return writeDownload(e, services.FormatXLSX.ContentType(), filename, data)
	}
}
