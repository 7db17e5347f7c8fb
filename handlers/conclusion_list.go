package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase/core"

	"ndtreports/services"
	"ndtreports/templates"
)

// HandleConclusionList returns a handler that renders the conclusions list,
// newest first, narrowed by the q and method query parameters.
func HandleConclusionList(env *Env) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		query := strings.TrimSpace(e.Request.URL.Query().Get("q"))
		method := e.Request.URL.Query().Get("method")

		records, err := env.Service.List()
		if err != nil {
			log.Printf("conclusion_list: could not list conclusions: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Не удалось загрузить заключения")
		}

		matched := services.FilterConclusions(records, query, method)
		items := make([]templates.ConclusionListItem, 0, len(matched))
		for _, r := range matched {
			items = append(items, templates.ConclusionListItem{
				ID:            r.ID,
				Number:        r.Number,
				Date:          services.FormatDate(r.Date),
				ObjectName:    r.ObjectName,
				WeldIDs:       strings.Join(r.WeldIDs(), ", "),
				ControlMethod: services.ControlMethodCode(r.ControlMethod),
				Result:        r.Result.Label(),
				Accepted:      r.Result.Accepted(),
			})
		}

		data := templates.ConclusionListData{
			Query:   query,
			Method:  method,
			Methods: methodOptions(),
			Items:   items,
			Total:   len(records),
		}
		header, sidebar := pageChrome(e.Request)
		return render(e,
			templates.ConclusionListContent(data),
			templates.ConclusionListPage(data, header, sidebar),
		)
	}
}
