package inventory

import (
	"context"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SamarthKalavadia/hospital-management-system/internal/models"
)

func TestSeed(t *testing.T) {
	existing := models.Medicine{BaseModel: models.BaseModel{ID: "mine"}, Name: "triphala churna", Quantity: 3, IsActive: true, Source: models.SourceManual}
	store := newMemoryStore(existing)
	ctx := context.Background()

	res, err := Seed(ctx, store, rand.New(rand.NewSource(1)), zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, len(masterList)-1, res.Inserted)
	assert.Equal(t, 1, res.Skipped)

	all, err := store.List(ctx, ListFilter{IncludeInactive: true})
	require.NoError(t, err)
	require.Len(t, all, len(masterList))
	for _, m := range all {
		if m.ID == "mine" {
			assert.Equal(t, 3, m.Quantity, "existing stock untouched")
			continue
		}
		assert.Equal(t, models.SourceSystemSeeded, m.Source)
		assert.GreaterOrEqual(t, m.Quantity, 10)
		assert.LessOrEqual(t, m.Quantity, 100)
		assert.Equal(t, 5, m.AlertLevel)
		assert.True(t, m.IsActive)
		assert.NotEmpty(t, m.DefaultDosage)
	}

	again, err := Seed(ctx, store, rand.New(rand.NewSource(2)), zerolog.Nop())
	require.NoError(t, err)
	assert.Zero(t, again.Inserted)
	assert.Equal(t, len(masterList), again.Skipped)
}

func TestMasterListNamesAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, e := range masterList {
		assert.False(t, seen[e.name], e.name)
		seen[e.name] = true
		assert.True(t, models.ValidCategory(e.category), e.name)
	}
}
