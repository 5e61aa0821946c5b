package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTermStructure_FlatClampOutsideRange(t *testing.T) {
	ts, err := NewTermStructure([]int{7, 30, 60}, []float64{0.9, 0.5, 0.4})
	require.NoError(t, err)

	// Below the minimum observed DTE: exactly the min-sample IV.
	assert.Equal(t, 0.9, ts.IV(0))
	assert.Equal(t, 0.9, ts.IV(6.5))
	assert.Equal(t, 0.9, ts.IV(7))

	// Above the maximum: exactly the max-sample IV, not extrapolated.
	assert.Equal(t, 0.4, ts.IV(60))
	assert.Equal(t, 0.4, ts.IV(100))
}

func TestTermStructure_LinearBetweenSamples(t *testing.T) {
	ts, err := NewTermStructure([]int{7, 30, 60}, []float64{0.9, 0.5, 0.4})
	require.NoError(t, err)

	assert.InDelta(t, 0.45, ts.IV(45), 1e-12) // midpoint of the 30-60 segment
	assert.InDelta(t, 0.5, ts.IV(30), 1e-12)
}

func TestTermStructure_SortsSamples(t *testing.T) {
	ts, err := NewTermStructure([]int{30, 7, 60}, []float64{0.5, 0.9, 0.4})
	require.NoError(t, err)

	assert.Equal(t, 7, ts.MinDTE())
	assert.Equal(t, 60, ts.MaxDTE())
	assert.Equal(t, 0.9, ts.IV(0))
}

func TestTermStructure_InvalidInput(t *testing.T) {
	_, err := NewTermStructure(nil, nil)
	assert.Error(t, err)

	_, err = NewTermStructure([]int{1, 2}, []float64{0.5})
	assert.Error(t, err)
}
