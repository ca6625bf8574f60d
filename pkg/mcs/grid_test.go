package mcs

import (
	"testing"

	"github.com/maphoenix/solarroi/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridParse(t *testing.T) {
	t.Run("Embedded Dataset Loads", func(t *testing.T) {
		g, err := New(embeddedDataset)
		require.NoError(t, err)
		assert.Greater(t, g.Len(), 1000)
		assert.Equal(t, []int{1500, 3000, 4500, 6000}, g.UsageBands())
		assert.Equal(t, []int{1, 3, 5}, g.OccupancyCategories(3000))
	})

	t.Run("Exact Lookup", func(t *testing.T) {
		g, err := New([]byte(`{"3000":{"3":{"2000":{"5":82.11}}}}`))
		require.NoError(t, err)
		pct, ok := g.Lookup(3, 3000, 2000, 5)
		require.True(t, ok)
		assert.Equal(t, 82.11, pct)

		_, ok = g.Lookup(3, 3000, 2000, 6)
		assert.False(t, ok, "lookups are exact-match only")
	})

	for name, data := range map[string]string{
		"empty dataset":        `{}`,
		"not json":             `not json`,
		"percent above 100":    `{"3000":{"3":{"2000":{"5":101}}}}`,
		"percent below 0":      `{"3000":{"3":{"2000":{"5":-1}}}}`,
		"bad usage band":       `{"abc":{"3":{"2000":{"5":50}}}}`,
		"occupancy outside":    `{"3000":{"9":{"2000":{"5":50}}}}`,
		"pv not bucket of 500": `{"3000":{"3":{"2100":{"5":50}}}}`,
		"pv above max":         `{"3000":{"3":{"10500":{"5":50}}}}`,
		"battery above max":    `{"3000":{"3":{"2000":{"21":50}}}}`,
	} {
		t.Run("Rejects "+name, func(t *testing.T) {
			_, err := New([]byte(data))
			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrConfiguration)
		})
	}
}
