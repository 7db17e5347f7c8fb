// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"

	"ndtreports/collections"
	"ndtreports/model"
	"ndtreports/store"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// TestConclusion returns a valid accepted conclusion with one defect row.
func TestConclusion(number, objectName string) model.InspectionRecord {
	return model.InspectionRecord{
		Number:          number,
		Date:            "2024-01-15",
		ObjectName:      objectName,
		PipelineSection: "ПК 12+300",
		ControlMethod:   "Ультразвуковой контроль",
		Result:          model.ResultAccepted,
		Equipment:       model.Some("УД2-12"),
		Defects: []model.DefectRecord{
			{WeldID: "СС-1", Verdict: model.VerdictPass},
		},
	}
}

// CreateTestConclusion appends a conclusion to repo and returns the stored copy.
func CreateTestConclusion(t *testing.T, repo store.Repository, number, objectName string) model.InspectionRecord {
	t.Helper()

	saved, err := repo.Append(TestConclusion(number, objectName))
	if err != nil {
		t.Fatalf("failed to save test conclusion: %v", err)
	}
	return saved
}

// AddTestDefect appends a defect row to the stored conclusion with the given id.
func AddTestDefect(t *testing.T, repo store.Repository, id, weldID string, verdict model.Verdict) model.InspectionRecord {
	t.Helper()

	rec, err := repo.Get(id)
	if err != nil {
		t.Fatalf("failed to load conclusion %s: %v", id, err)
	}
	rec.Defects = append(rec.Defects, model.DefectRecord{WeldID: weldID, Verdict: verdict})
	if err := repo.ReplaceByID(rec); err != nil {
		t.Fatalf("failed to save test defect: %v", err)
	}
	return rec
}

// AssertHTMLContains checks that body contains all specified fragments.
func AssertHTMLContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected HTML to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

// AssertHXRedirect checks that the response has an HX-Redirect header with the expected URL.
func AssertHXRedirect(t *testing.T, headerVal, expectedURL string) {
	t.Helper()

	if headerVal != expectedURL {
		t.Errorf("expected HX-Redirect %q, got %q", expectedURL, headerVal)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
