package handlers

import (
	"log"
	"net/http"

	"ndtreports/templates"
)

// BuildSidebarData counts conclusions and templates for the navigation badges.
// A failing repository leaves the conclusion count at zero.
func BuildSidebarData(r *http.Request, env *Env) templates.SidebarData {
	data := templates.SidebarData{
		ActivePath:     r.URL.Path,
		TemplateCount:  len(env.Directory.Templates()),
		ReferenceEmpty: env.Directory.Empty(),
	}

	records, err := env.Service.Repository().List()
	if err != nil {
		log.Printf("sidebar: could not count conclusions: %v", err)
		return data
	}
	data.ConclusionCount = len(records)
	return data
}

// pageChrome returns the header and sidebar for a full page render.
func pageChrome(r *http.Request) (templates.HeaderData, templates.SidebarData) {
	return GetHeaderData(r), GetSidebarData(r)
}
