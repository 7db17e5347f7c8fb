package refdata

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ndtreports/model"
)

const testBaseURL = "https://refdata.example.test/api"

func newMockedSource(t *testing.T) *HTTPSource {
	t.Helper()
	src := NewHTTPSource(testBaseURL+"/", 2*time.Second)
	httpmock.ActivateNonDefault(src.Client().GetClient())
	t.Cleanup(httpmock.DeactivateAndReset)
	return src
}

func registerAll(t *testing.T) {
	t.Helper()
	httpmock.RegisterResponder("GET", testBaseURL+"/customers",
		httpmock.NewJsonResponderOrPanic(http.StatusOK, []model.Customer{
			{ID: "c1", Name: `ООО "Газпром трансгаз Томск"`},
		}))
	httpmock.RegisterResponder("GET", testBaseURL+"/welders",
		httpmock.NewJsonResponderOrPanic(http.StatusOK, []model.Welder{
			{ID: "w1", Name: "Петров П.П.", Stamp: "А7К"},
		}))
	httpmock.RegisterResponder("GET", testBaseURL+"/pipe-diameters",
		httpmock.NewJsonResponderOrPanic(http.StatusOK, []model.PipeDiameter{
			{ID: "d1", Diameter: "1420", WallThickness: "21.6"},
		}))
	httpmock.RegisterResponder("GET", testBaseURL+"/templates",
		httpmock.NewJsonResponderOrPanic(http.StatusOK, []model.Template{
			{ID: "t1", Name: "ВК стыков", ControlMethod: "Визуальный контроль"},
		}))
}

func TestHTTPSource_Fetch(t *testing.T) {
	src := newMockedSource(t)
	registerAll(t)

	b, err := src.Fetch(context.Background())
	require.NoError(t, err)

	require.Len(t, b.Customers, 1)
	require.Len(t, b.Welders, 1)
	require.Len(t, b.PipeDiameters, 1)
	require.Len(t, b.Templates, 1)
	assert.Equal(t, "А7К", b.Welders[0].Stamp)
	assert.Equal(t, "21.6", b.PipeDiameters[0].WallThickness)
	assert.Equal(t, 4, httpmock.GetTotalCallCount())
}

func TestHTTPSource_ErrorStatusFailsFetch(t *testing.T) {
	src := newMockedSource(t)
	registerAll(t)
	httpmock.RegisterResponder("GET", testBaseURL+"/welders",
		httpmock.NewStringResponder(http.StatusInternalServerError, `{"error":"down"}`))

	_, err := src.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/welders")
}

func TestLoad_FailureYieldsEmptyDirectory(t *testing.T) {
	src := newMockedSource(t)
	httpmock.RegisterNoResponder(httpmock.NewErrorResponder(errors.New("connection refused")))

	d := Load(context.Background(), src, zap.NewNop())
	require.NotNil(t, d)
	assert.True(t, d.Empty())

	_, ok := d.Welder("w1")
	assert.False(t, ok)
	// One attempt per session, no retries.
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestLoad_Success(t *testing.T) {
	src := newMockedSource(t)
	registerAll(t)

	d := Load(context.Background(), src, nil)
	c, ok := d.Customer("c1")
	require.True(t, ok)
	assert.Equal(t, `ООО "Газпром трансгаз Томск"`, c.Name)

	w, ok := d.Welder("w1")
	require.True(t, ok)
	assert.Equal(t, "Петров П.П. (А7К)", w.DisplayName())
}

func TestEmbeddedSource_HasDefaultTemplates(t *testing.T) {
	d := Load(context.Background(), EmbeddedSource{}, zap.NewNop())

	tpls := d.Templates()
	require.Len(t, tpls, 2)
	tpl, ok := d.Template("1")
	require.True(t, ok)
	assert.Equal(t, "УД2-12", tpl.Fields[model.TemplateEquipment])
	assert.Equal(t, "СТО Газпром 15-1.3-004-2023", tpl.Fields[model.TemplateNormativeDoc])
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ref.yaml")
	doc := `
customers:
  - id: c9
    name: АО "Стройтрансгаз"
welders:
  - id: w9
    name: Сидоров С.С.
pipe_diameters:
  - id: d9
    diameter: "530"
    wall_thickness: "8"
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	b, err := FileSource{Path: path}.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "530", b.PipeDiameters[0].Diameter)
	assert.Empty(t, b.Templates)

	_, err = FileSource{Path: filepath.Join(t.TempDir(), "missing.yaml")}.Fetch(context.Background())
	assert.Error(t, err)
}

func TestNewSource(t *testing.T) {
	assert.IsType(t, EmbeddedSource{}, NewSource("", time.Second))
	assert.IsType(t, &HTTPSource{}, NewSource("http://localhost:9000", time.Second))
	assert.IsType(t, FileSource{}, NewSource("/etc/ndt/ref.yaml", time.Second))
}

func TestDirectory_PutReplacesInPlace(t *testing.T) {
	d := NewDirectory(Bundle{Welders: []model.Welder{
		{ID: "w1", Name: "Иванов"},
		{ID: "w2", Name: "Петров"},
		{ID: "", Name: "без id"},
	}})

	d.PutWelder(model.Welder{ID: "w1", Name: "Иванов-Сидоров"})

	snap := d.Snapshot()
	require.Len(t, snap.Welders, 2)
	assert.Equal(t, "Иванов-Сидоров", snap.Welders[0].Name)
	assert.Equal(t, "Петров", snap.Welders[1].Name)
}

func TestDirectory_ZeroValueMisses(t *testing.T) {
	var d Directory
	_, ok := d.Customer("x")
	assert.False(t, ok)
	assert.True(t, d.Empty())
}
