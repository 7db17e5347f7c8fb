package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ndtreports/model"
	"ndtreports/store"
	"ndtreports/testhelpers"
)

func sampleRecord(number string) model.InspectionRecord {
	return model.InspectionRecord{
		Number:          number,
		Date:            "2024-01-15",
		ObjectName:      `МГ "Сила Сибири"`,
		PipelineSection: "ПК 12+300",
		ControlMethod:   "Ультразвуковой контроль",
		Result:          model.ResultAccepted,
		Equipment:       model.Some("УД2-12"),
		Executor:        model.Some(""),
		Defects: []model.DefectRecord{
			{WeldID: "СС-123", Verdict: model.VerdictPass, WelderName: model.Some("Иванов И.И.")},
			{WeldID: "СС-124", Verdict: model.VerdictFail, Description: model.Some("Пора Аа 2")},
			{WeldID: "СС-125", Verdict: model.VerdictPass},
		},
	}
}

// repositories runs fn against every Repository implementation.
func repositories(t *testing.T, fn func(t *testing.T, repo store.Repository)) {
	t.Run("memory", func(t *testing.T) {
		fn(t, store.NewMemory())
	})
	t.Run("pocketbase", func(t *testing.T) {
		app := testhelpers.NewTestApp(t)
		fn(t, store.NewRecordStore(app))
	})
}

func TestRepository_AppendAssignsID(t *testing.T) {
	repositories(t, func(t *testing.T, repo store.Repository) {
		a, err := repo.Append(sampleRecord("НК-2024-001"))
		require.NoError(t, err)
		b, err := repo.Append(sampleRecord("НК-2024-002"))
		require.NoError(t, err)

		assert.NotEmpty(t, a.ID)
		assert.NotEmpty(t, b.ID)
		assert.NotEqual(t, a.ID, b.ID)
	})
}

func TestRepository_ListKeepsInsertionOrder(t *testing.T) {
	repositories(t, func(t *testing.T, repo store.Repository) {
		for _, n := range []string{"НК-2024-003", "НК-2024-001", "НК-2024-002"} {
			_, err := repo.Append(sampleRecord(n))
			require.NoError(t, err)
		}

		numbers, err := store.Numbers(repo)
		require.NoError(t, err)
		assert.Equal(t, []string{"НК-2024-003", "НК-2024-001", "НК-2024-002"}, numbers)
	})
}

func TestRepository_OptionalFieldsSurvive(t *testing.T) {
	repositories(t, func(t *testing.T, repo store.Repository) {
		saved, err := repo.Append(sampleRecord("НК-2024-001"))
		require.NoError(t, err)

		got, err := repo.Get(saved.ID)
		require.NoError(t, err)

		assert.Equal(t, "УД2-12", got.Equipment.Or(""))
		assert.True(t, got.Executor.Present(), "present empty executor must stay present")
		assert.False(t, got.Sensitivity.Present(), "absent sensitivity must stay absent")
		require.Len(t, got.Defects, 3)
		assert.Equal(t, "Иванов И.И.", got.Defects[0].WelderName.Or(""))
		assert.False(t, got.Defects[2].Description.Present())
		assert.Equal(t, model.VerdictFail, got.Defects[1].Verdict)
	})
}

func TestRepository_ReplacePreservesIDAndDefectOrder(t *testing.T) {
	repositories(t, func(t *testing.T, repo store.Repository) {
		first, err := repo.Append(sampleRecord("НК-2024-001"))
		require.NoError(t, err)
		_, err = repo.Append(sampleRecord("НК-2024-002"))
		require.NoError(t, err)

		edited := first.Clone()
		edited.ObjectName = `МГ "Северный поток"`
		edited.Result = model.ResultRejected
		require.NoError(t, repo.ReplaceByID(edited))

		got, err := repo.Get(first.ID)
		require.NoError(t, err)
		assert.Equal(t, first.ID, got.ID)
		assert.Equal(t, `МГ "Северный поток"`, got.ObjectName)
		assert.Equal(t, model.ResultRejected, got.Result)
		assert.Equal(t, []string{"СС-123", "СС-124", "СС-125"}, got.WeldIDs())

		numbers, err := store.Numbers(repo)
		require.NoError(t, err)
		assert.Equal(t, []string{"НК-2024-001", "НК-2024-002"}, numbers, "replace must keep list position")
	})
}

func TestRepository_ReplaceUnknownID(t *testing.T) {
	repositories(t, func(t *testing.T, repo store.Repository) {
		rec := sampleRecord("НК-2024-001")
		rec.ID = "doesnotexist123"
		err := repo.ReplaceByID(rec)
		assert.ErrorIs(t, err, model.ErrRecordNotFound)

		_, err = repo.Get("doesnotexist123")
		assert.ErrorIs(t, err, model.ErrRecordNotFound)
	})
}

func TestMemory_ReturnsCopies(t *testing.T) {
	repo := store.NewMemory()
	saved, err := repo.Append(sampleRecord("НК-2024-001"))
	require.NoError(t, err)

	saved.Defects[0].WeldID = "mutated"

	got, err := repo.Get(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "СС-123", got.Defects[0].WeldID)
}
