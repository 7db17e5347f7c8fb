package handlers

import (
	"context"
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"ndtreports/templates"
)

type contextKey string

const HeaderDataKey contextKey = "headerData"
const SidebarDataKey contextKey = "sidebarData"

// GetHeaderData extracts the pre-built HeaderData from the request context.
func GetHeaderData(r *http.Request) templates.HeaderData {
	if val, ok := r.Context().Value(HeaderDataKey).(templates.HeaderData); ok {
		return val
	}
	return templates.HeaderData{}
}

// GetSidebarData extracts the pre-built SidebarData from the request context.
func GetSidebarData(r *http.Request) templates.SidebarData {
	if val, ok := r.Context().Value(SidebarDataKey).(templates.SidebarData); ok {
		return val
	}
	return templates.SidebarData{ActivePath: r.URL.Path}
}

// LayoutMiddleware builds the header and sidebar data once per request and
// stores them in the request context for the page handlers.
func LayoutMiddleware(env *Env) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		headerData := templates.HeaderData{
			LabName:          env.Settings.Lab.Name,
			LabAccreditation: env.Settings.Lab.Accreditation,
		}

		ctx := context.WithValue(e.Request.Context(), HeaderDataKey, headerData)
		ctx = context.WithValue(ctx, SidebarDataKey, BuildSidebarData(e.Request, env))
		e.Request = e.Request.WithContext(ctx)

		return e.Next()
	}
}
