package handlers

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase/core"

	"ndtreports/config"
	"ndtreports/refdata"
	"ndtreports/services"
	"ndtreports/templates"
)

// Env carries the shared dependencies of every handler.
type Env struct {
	Service   *services.ConclusionService
	Directory *refdata.Directory
	Settings  *config.Settings
	Source    string // where the reference data came from, for display
}

// NewEnv assembles the handler environment.
func NewEnv(svc *services.ConclusionService, dir *refdata.Directory, settings *config.Settings, source string) *Env {
	if dir == nil {
		dir = &refdata.Directory{}
	}
	if settings == nil {
		settings = config.Default()
	}
	return &Env{Service: svc, Directory: dir, Settings: settings, Source: source}
}

func (env *Env) draftDefaults() services.DraftDefaults {
	return services.DefaultsFromSettings(env.Settings)
}

func (env *Env) exportOptions() services.ExportOptions {
	return services.ExportOptions{
		WrapWidth: env.Settings.Export.WrapWidth,
		FontPath:  env.Settings.Export.FontPath,
	}
}

// render writes the HTMX partial when the request comes from HTMX and the
// full page otherwise.
func render(e *core.RequestEvent, partial, full templ.Component) error {
	if e.Request.Header.Get("HX-Request") == "true" {
		return partial.Render(e.Request.Context(), e.Response)
	}
	return full.Render(e.Request.Context(), e.Response)
}

// hxRedirect sends HTMX clients to url with HX-Redirect and everyone else
// with a 303.
func hxRedirect(e *core.RequestEvent, url string) error {
	if e.Request.Header.Get("HX-Request") == "true" {
		e.Response.Header().Set("HX-Redirect", url)
		e.Response.WriteHeader(http.StatusOK)
		return nil
	}
	return e.Redirect(http.StatusSeeOther, url)
}

func methodOptions() []templates.Option {
	opts := make([]templates.Option, 0, len(services.ControlMethodOptions))
	for _, m := range services.ControlMethodOptions {
		opts = append(opts, templates.Option{Value: m.Name, Label: m.Code + " - " + m.Name})
	}
	return opts
}

func stringOptions(values []string) []templates.Option {
	opts := make([]templates.Option, 0, len(values))
	for _, v := range values {
		opts = append(opts, templates.Option{Value: v, Label: v})
	}
	return opts
}

func (env *Env) customerOptions() []templates.Option {
	var opts []templates.Option
	for _, c := range env.Directory.Snapshot().Customers {
		opts = append(opts, templates.Option{Value: c.ID, Label: c.Name})
	}
	return opts
}

func (env *Env) welderOptions() []templates.Option {
	var opts []templates.Option
	for _, w := range env.Directory.Snapshot().Welders {
		opts = append(opts, templates.Option{Value: w.ID, Label: w.DisplayName()})
	}
	return opts
}

func (env *Env) diameterOptions() []templates.Option {
	var opts []templates.Option
	for _, p := range env.Directory.Snapshot().PipeDiameters {
		opts = append(opts, templates.Option{Value: p.ID, Label: services.GeometryLabel(p.Diameter, p.WallThickness)})
	}
	return opts
}

func (env *Env) templateOptions() []templates.Option {
	var opts []templates.Option
	for _, t := range env.Directory.Templates() {
		opts = append(opts, templates.Option{Value: t.ID, Label: t.Name})
	}
	return opts
}

// ensureOption keeps a stored selection visible after its reference entry
// disappeared, so saving the form again does not drop it.
func ensureOption(opts []templates.Option, value, label string) []templates.Option {
	if value == "" {
		return opts
	}
	for _, o := range opts {
		if o.Value == value {
			return opts
		}
	}
	if label == "" {
		label = value
	}
	return append(opts, templates.Option{Value: value, Label: label})
}
