package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quantities(lots []Lot) []float64 {
	out := make([]float64, len(lots))
	for i, l := range lots {
		out[i] = l.Quantity
	}
	return out
}

func TestReduce(t *testing.T) {
	t.Run("partial from oldest lot", func(t *testing.T) {
		lots, err := Reduce([]Lot{{Quantity: 10, Capacity: 10}, {Quantity: 5, Capacity: 5}}, 4)
		require.NoError(t, err)
		assert.Equal(t, []float64{6, 5}, quantities(lots))
	})

	t.Run("zeroes lots in order before touching the next", func(t *testing.T) {
		lots, err := Reduce([]Lot{
			{Quantity: 3, Capacity: 10},
			{Quantity: 5, Capacity: 5},
			{Quantity: 8, Capacity: 8},
		}, 10)
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 0, 6}, quantities(lots))
	})

	t.Run("exact drain", func(t *testing.T) {
		lots, err := Reduce([]Lot{{Quantity: 2, Capacity: 2}, {Quantity: 3, Capacity: 3}}, 5)
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 0}, quantities(lots))
	})

	t.Run("insufficient stock leaves lots untouched", func(t *testing.T) {
		lots := []Lot{{Quantity: 3, Capacity: 10}, {Quantity: 2, Capacity: 5}}
		_, err := Reduce(lots, 6)
		assert.ErrorIs(t, err, ErrInsufficientStock)
		assert.Equal(t, []float64{3, 2}, quantities(lots))
	})

	t.Run("zero quantity is a no-op", func(t *testing.T) {
		lots, err := Reduce([]Lot{{Quantity: 3, Capacity: 3}}, 0)
		require.NoError(t, err)
		assert.Equal(t, []float64{3}, quantities(lots))
	})

	t.Run("negative quantity fails", func(t *testing.T) {
		_, err := Reduce([]Lot{{Quantity: 3, Capacity: 3}}, -1)
		assert.Error(t, err)
	})
}

func TestRestore(t *testing.T) {
	t.Run("fills oldest first up to capacity", func(t *testing.T) {
		lots, err := Restore([]Lot{
			{Quantity: 2, Capacity: 10},
			{Quantity: 0, Capacity: 5},
		}, 6)
		require.NoError(t, err)
		assert.Equal(t, []float64{8, 0}, quantities(lots))
	})

	t.Run("spills overflow into the next lot", func(t *testing.T) {
		lots, err := Restore([]Lot{
			{Quantity: 8, Capacity: 10},
			{Quantity: 1, Capacity: 5},
		}, 5)
		require.NoError(t, err)
		assert.Equal(t, []float64{10, 4}, quantities(lots))
	})

	t.Run("remainder lands on the oldest lot past its ceiling", func(t *testing.T) {
		lots, err := Restore([]Lot{
			{Quantity: 9, Capacity: 10},
			{Quantity: 5, Capacity: 5},
		}, 4)
		require.NoError(t, err)
		assert.Equal(t, []float64{13, 5}, quantities(lots))
	})

	t.Run("no lots is a no-op", func(t *testing.T) {
		lots, err := Restore(nil, 3)
		require.NoError(t, err)
		assert.Empty(t, lots)
	})
}

// Restoring a previously reduced quantity must conserve total stock, which is
// what keeps invoice edits loss-free.
func TestRestoreThenReduceConservation(t *testing.T) {
	original := []Lot{
		{Index: 0, Quantity: 4, Capacity: 10},
		{Index: 1, Quantity: 7, Capacity: 7},
		{Index: 2, Quantity: 2, Capacity: 12},
	}
	totalBefore := Available(original)

	reduced, err := Reduce(append([]Lot(nil), original...), 9)
	require.NoError(t, err)
	assert.Equal(t, totalBefore-9, Available(reduced))

	restored, err := Restore(reduced, 9)
	require.NoError(t, err)
	assert.Equal(t, totalBefore, Available(restored))
}
