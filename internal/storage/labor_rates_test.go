package storage

import (
	"context"
	"testing"

	"github.com/Veraticus/shop-assist/internal/common"
	"github.com/Veraticus/shop-assist/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLaborRateGroups_EmptyByDefault(t *testing.T) {
	store := createTestStorage(t)

	groups, err := store.LaborRateGroups(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, groups)
	assert.Empty(t, groups)
}

func TestLaborRateGroups_AddReplaceDelete(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.AddLaborRateGroup(ctx, model.LaborRateGroup{
		Name: "Asian", Makes: []string{"Honda", "Toyota"}, LaborRate: 16000,
	}))
	require.NoError(t, store.AddLaborRateGroup(ctx, model.LaborRateGroup{
		Name: "European", Makes: []string{"BMW", "Audi"}, LaborRate: 19000,
	}))
	require.NoError(t, store.AddLaborRateGroup(ctx, model.LaborRateGroup{
		Name: "asian", Makes: []string{"Honda", "Toyota", "Lexus"}, LaborRate: 16500,
	}))

	groups, err := store.LaborRateGroups(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "asian", groups[0].Name, "replacement keeps position")
	assert.Equal(t, 16500, groups[0].LaborRate)
	assert.Equal(t, "European", groups[1].Name)

	require.NoError(t, store.DeleteLaborRateGroup(ctx, "EUROPEAN"))
	groups, err = store.LaborRateGroups(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 1)

	err = store.DeleteLaborRateGroup(ctx, "European")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSaveLaborRateGroups_Validation(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		groups []model.LaborRateGroup
	}{
		{
			name:   "missing name",
			groups: []model.LaborRateGroup{{Makes: []string{"Ford"}, LaborRate: 100}},
		},
		{
			name:   "zero rate",
			groups: []model.LaborRateGroup{{Name: "Domestic", Makes: []string{"Ford"}}},
		},
		{
			name:   "no makes",
			groups: []model.LaborRateGroup{{Name: "Domestic", LaborRate: 100}},
		},
		{
			name:   "blank make",
			groups: []model.LaborRateGroup{{Name: "Domestic", Makes: []string{" "}, LaborRate: 100}},
		},
		{
			name: "duplicate names",
			groups: []model.LaborRateGroup{
				{Name: "Domestic", Makes: []string{"Ford"}, LaborRate: 100},
				{Name: "domestic", Makes: []string{"Chevrolet"}, LaborRate: 100},
			},
		},
		{
			name: "make in two groups",
			groups: []model.LaborRateGroup{
				{Name: "Domestic", Makes: []string{"Ford"}, LaborRate: 100},
				{Name: "Trucks", Makes: []string{"FORD"}, LaborRate: 200},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.SaveLaborRateGroups(ctx, tt.groups)
			assert.ErrorIs(t, err, ErrInvalidLaborRateGroup)
		})
	}

	groups, err := store.LaborRateGroups(ctx)
	require.NoError(t, err)
	assert.Empty(t, groups, "rejected saves must not persist")
}
