package fixture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirelio/api-console/internal/models"
)

func TestLoad(t *testing.T) {
	fx, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 29, fx.Len())

	days := fx.Days()
	for i, day := range days {
		if i > 0 {
			assert.Less(t, days[i-1].Date, day.Date, "dates strictly ascending")
		}

		// Status buckets account for every request.
		var sum int64
		for _, n := range day.StatusCodes {
			sum += n
		}
		assert.Equal(t, day.Requests, sum, "date %s", day.Date)

		assert.GreaterOrEqual(t, day.Requests, day.Errors())
	}
}

func TestByDate(t *testing.T) {
	fx, err := Load()
	require.NoError(t, err)

	latest, ok := fx.Latest()
	require.True(t, ok)

	day, ok := fx.ByDate(latest.Date)
	require.True(t, ok)
	assert.Equal(t, latest, day)

	_, ok = fx.ByDate("1999-01-01")
	assert.False(t, ok)
}

func TestSeedKeys(t *testing.T) {
	fx, err := Load()
	require.NoError(t, err)

	seeds := fx.SeedKeys()
	require.Len(t, seeds, 3)

	names := make([]string, 0, len(seeds))
	for _, s := range seeds {
		names = append(names, s.Name)
		assert.NotEmpty(t, s.ID)
		assert.NotEmpty(t, s.Created)
		assert.Contains(t, []string{models.KeyStatusActive, models.KeyStatusRevoked}, s.Status)
	}
	assert.Equal(t, []string{"Production", "Staging", "CI Runner"}, names)
}

func TestErrorsSumsErrorBuckets(t *testing.T) {
	day := models.UsageDay{
		Requests: 100,
		StatusCodes: map[string]int64{
			"200": 90,
			"400": 4,
			"401": 3,
			"500": 3,
		},
	}
	assert.Equal(t, int64(10), day.Errors())

	// Missing buckets count as zero.
	assert.Equal(t, int64(0), models.UsageDay{}.Errors())
}
