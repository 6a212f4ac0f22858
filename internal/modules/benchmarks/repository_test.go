package benchmarks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testhelpers "github.com/aequitas-re/dealengine/internal/testing"
)

func newSeededRepo(t *testing.T) (*Repository, func()) {
	t.Helper()
	db, cleanup := testhelpers.NewTestDB(t, "reference")
	repo := NewRepository(db.Conn(), testhelpers.NewTestLogger())
	_, err := repo.SeedFromEmbedded()
	require.NoError(t, err)
	return repo, cleanup
}

func TestSeedFromEmbedded(t *testing.T) {
	db, cleanup := testhelpers.NewTestDB(t, "reference")
	defer cleanup()

	repo := NewRepository(db.Conn(), testhelpers.NewTestLogger())
	count, err := repo.SeedFromEmbedded()
	require.NoError(t, err)
	// 10 US rows plus 3 Belgium and 3 Netherlands reference rows
	assert.Equal(t, 16, count)

	// Seeding again replaces rows rather than failing
	count, err = repo.SeedFromEmbedded()
	require.NoError(t, err)
	assert.Equal(t, 16, count)
}

func TestGetReturnsRow(t *testing.T) {
	repo, cleanup := newSeededRepo(t)
	defer cleanup()

	row, err := repo.Get(1, "US")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.InDelta(t, 3.55, row.NetYieldMin, 0.001)
	assert.InDelta(t, 11.19, row.TotalReturnMax, 0.001)
	assert.InDelta(t, -0.19, row.SystematicRiskBeta, 0.001)
}

func TestGetMissingRowReturnsNil(t *testing.T) {
	repo, cleanup := newSeededRepo(t)
	defer cleanup()

	row, err := repo.Get(3, "Atlantis")
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestUpsertRejectsInvertedRange(t *testing.T) {
	repo, cleanup := newSeededRepo(t)
	defer cleanup()

	err := repo.Upsert(Row{
		RentDecile: 4, Geography: "US",
		NetYieldMin: 5.0, NetYieldMax: 3.0,
	})
	assert.Error(t, err)
}

func TestSeededRangesAreOrdered(t *testing.T) {
	repo, cleanup := newSeededRepo(t)
	defer cleanup()

	rows, err := repo.ListByGeography("US")
	require.NoError(t, err)
	require.Len(t, rows, 10)

	for _, row := range rows {
		assert.LessOrEqual(t, row.NetYieldMin, row.NetYieldMax, "net yield range D%d", row.RentDecile)
		assert.LessOrEqual(t, row.CapitalGainMin, row.CapitalGainMax, "capital gain range D%d", row.RentDecile)
		assert.LessOrEqual(t, row.TotalReturnMin, row.TotalReturnMax, "total return range D%d", row.RentDecile)
	}
}

func TestValidateDecileRange(t *testing.T) {
	err := Row{RentDecile: 11, Geography: "US"}.Validate()
	assert.Error(t, err)

	err = Row{RentDecile: 0, Geography: "US"}.Validate()
	assert.Error(t, err)
}
