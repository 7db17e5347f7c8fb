// Package templates holds the templ components that render the pages.
// Components live in the .templ files; run `templ generate` after editing
// them.
package templates

import (
	"fmt"
	"net/url"
	"strings"
)

//go:generate templ generate

// Option is one entry of a select box.
type Option struct {
	Value string
	Label string
}

type exportFormat struct {
	slug  string
	label string
}

var exportFormats = []exportFormat{{"pdf", "PDF"}, {"xlsx", "Excel"}, {"docx", "Word"}}

func pathID(id string) string {
	return url.PathEscape(id)
}

func conclusionURL(id string) string {
	return "/conclusions/" + pathID(id)
}

func exportURL(id, slug string) string {
	return conclusionURL(id) + "/export/" + slug
}

func pageTitle(parts ...string) string {
	return fmt.Sprintf("%s | Заключения НК", strings.Join(parts, " "))
}
