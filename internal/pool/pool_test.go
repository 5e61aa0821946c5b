package pool

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap_DeliversAllResults(t *testing.T) {
	items := make([]int, 50)
	for i := range items {
		items[i] = i
	}

	results := Map(context.Background(), items, 5, func(_ context.Context, n int) (int, error) {
		return n * 2, nil
	})

	values, errs := Collect(results)
	assert.Empty(t, errs)
	require.Len(t, values, 50)

	sum := 0
	for _, v := range values {
		sum += v
	}
	assert.Equal(t, 2450, sum) // 2 * (0+1+...+49)
}

func TestMap_BoundsConcurrency(t *testing.T) {
	items := make([]int, 40)
	var inFlight, maxInFlight int64

	results := Map(context.Background(), items, 4, func(_ context.Context, _ int) (struct{}, error) {
		n := atomic.AddInt64(&inFlight, 1)
		for {
			max := atomic.LoadInt64(&maxInFlight)
			if n <= max || atomic.CompareAndSwapInt64(&maxInFlight, max, n) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		atomic.AddInt64(&inFlight, -1)
		return struct{}{}, nil
	})

	for range results {
	}
	assert.LessOrEqual(t, atomic.LoadInt64(&maxInFlight), int64(4))
}

func TestMap_ErrorsDoNotAbortOthers(t *testing.T) {
	items := []int{0, 1, 2, 3, 4, 5}

	results := Map(context.Background(), items, 2, func(_ context.Context, n int) (int, error) {
		if n%2 == 1 {
			return 0, fmt.Errorf("odd item %d", n)
		}
		return n, nil
	})

	values, errs := Collect(results)
	assert.Len(t, values, 3)
	assert.Len(t, errs, 3)
}

func TestMap_SingleReducerSeesBest(t *testing.T) {
	scores := []float64{1.5, 4.2, 0.3, 4.1, 2.8}

	results := Map(context.Background(), scores, 3, func(_ context.Context, s float64) (float64, error) {
		return s, nil
	})

	best := 0.0
	for res := range results {
		if res.Value > best {
			best = res.Value
		}
	}
	assert.Equal(t, 4.2, best)
}

func TestMap_EmptyInput(t *testing.T) {
	results := Map(context.Background(), nil, 5, func(_ context.Context, _ int) (int, error) {
		return 0, nil
	})
	values, errs := Collect(results)
	assert.Empty(t, values)
	assert.Empty(t, errs)
}
