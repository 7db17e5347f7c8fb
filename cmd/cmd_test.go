package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ndtreports/config"
	"ndtreports/refdata"
	"ndtreports/services"
	"ndtreports/store"
	"ndtreports/testhelpers"
)

func testDeps(t *testing.T) (Deps, *store.Memory, *config.Settings) {
	t.Helper()

	repo := store.NewMemory()
	settings := config.Default()
	settings.Export.Dir = t.TempDir()
	svc := services.NewConclusionService(repo, &refdata.Directory{}, settings.Numbering.Prefix)
	return func() (*services.ConclusionService, *config.Settings, error) {
		return svc, settings, nil
	}, repo, settings
}

func run(t *testing.T, deps Deps, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	for _, c := range Commands(deps) {
		if c.Name() != args[0] {
			continue
		}
		c.SetOut(&out)
		c.SetErr(&out)
		c.SetArgs(args[1:])
		err := c.Execute()
		return out.String(), err
	}
	t.Fatalf("no command %q", args[0])
	return "", nil
}

func TestNextNumber_EmptyRepository(t *testing.T) {
	deps, _, _ := testDeps(t)

	out, err := run(t, deps, "next-number")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("НК-%d-001\n", time.Now().Year()), out)
}

func TestNextNumber_FollowsExisting(t *testing.T) {
	deps, repo, _ := testDeps(t)
	year := time.Now().Year()
	testhelpers.CreateTestConclusion(t, repo, fmt.Sprintf("НК-%d-041", year), "Объект")

	out, err := run(t, deps, "next-number")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("НК-%d-042", year), strings.TrimSpace(out))
}

func TestExport_WritesThreeFiles(t *testing.T) {
	deps, repo, _ := testDeps(t)
	saved := testhelpers.CreateTestConclusion(t, repo, "НК-2024-005", "Газопровод")
	dir := filepath.Join(t.TempDir(), "out")

	out, err := run(t, deps, "export", saved.ID, "--dir", dir)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	for _, f := range services.Formats {
		_, statErr := os.Stat(filepath.Join(dir, services.ExportFilename("НК-2024-005", f)))
		assert.NoError(t, statErr, "format %s", f)
	}
}

func TestExport_DefaultsToConfiguredDir(t *testing.T) {
	deps, repo, settings := testDeps(t)
	saved := testhelpers.CreateTestConclusion(t, repo, "НК-2024-006", "Газопровод")

	_, err := run(t, deps, "export", saved.ID)
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(settings.Export.Dir, services.ExportFilename("НК-2024-006", services.FormatDOCX)))
	assert.NoError(t, statErr)
}

func TestExport_UnknownID(t *testing.T) {
	deps, _, _ := testDeps(t)

	_, err := run(t, deps, "export", "missing")
	assert.Error(t, err)
}
