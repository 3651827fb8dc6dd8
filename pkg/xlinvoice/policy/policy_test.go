package policy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/xlinvoice/pkg/xlinvoice/models"
	"github.com/ukaji3/xlinvoice/pkg/xlinvoice/normalize"
)

func TestZeroTotalMeansAbsent(t *testing.T) {
	items := []models.LineItem{{Amount: 30}, {Amount: 12}}

	got, err := ZeroTotalMeansAbsent(0, items)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got)

	got, err = ZeroTotalMeansAbsent(99.9, items)
	require.NoError(t, err)
	assert.Equal(t, int64(99), got)

	got, err = ZeroTotalMeansAbsent(0, nil)
	require.NoError(t, err)
	assert.Zero(t, got)
}

func TestExtractedTotal(t *testing.T) {
	got, err := ExtractedTotal(0, []models.LineItem{{Amount: 30}})
	require.NoError(t, err)
	assert.Zero(t, got)
}

func TestTotals_OutOfRange(t *testing.T) {
	_, err := ExtractedTotal(1e20, nil)
	assert.ErrorIs(t, err, normalize.ErrAmountOutOfRange)

	_, err = ZeroTotalMeansAbsent(-1e20, nil)
	assert.ErrorIs(t, err, normalize.ErrAmountOutOfRange)

	_, err = ZeroTotalMeansAbsent(0, []models.LineItem{{Amount: math.MaxInt64}, {Amount: 1}})
	assert.ErrorIs(t, err, normalize.ErrAmountOutOfRange)
}

func TestUnitCost(t *testing.T) {
	assert.Equal(t, 50.0, AmountFallback(0, 50, true))
	assert.Equal(t, 0.0, AmountFallback(0, 50, false))
	assert.Equal(t, 20.0, AmountFallback(20, 50, true))
	assert.Equal(t, 0.0, UnitPriceOnly(0, 50, true))
}
