package services

import (
	"strings"

	"ndtreports/model"
)

// FilterConclusions keeps records whose number, object name or any weld id
// contains query, ignoring case. A non-empty method must match the control
// method exactly. Input order is preserved.
func FilterConclusions(records []model.InspectionRecord, query, method string) []model.InspectionRecord {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]model.InspectionRecord, 0, len(records))
	for _, r := range records {
		if method != "" && r.ControlMethod != method {
			continue
		}
		if q != "" && !matchesQuery(r, q) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchesQuery(r model.InspectionRecord, q string) bool {
	if strings.Contains(strings.ToLower(r.Number), q) ||
		strings.Contains(strings.ToLower(r.ObjectName), q) {
		return true
	}
	for _, id := range r.WeldIDs() {
		if strings.Contains(strings.ToLower(id), q) {
			return true
		}
	}
	return false
}
