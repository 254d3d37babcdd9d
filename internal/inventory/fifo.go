// Package inventory implements oldest-first stock lot adjustment used when
// invoices are issued or edited. The functions mutate lot quantities in
// memory; the invoice service persists the changed lots in its transaction.
package inventory

import (
	"errors"
	"fmt"
)

// ErrInsufficientStock is returned when the lots cannot cover the requested
// quantity. No lot is mutated when it is returned.
var ErrInsufficientStock = errors.New("insufficient stock")

// Lot is the adjustable view of a stock lot. Lots are expected to be ordered
// oldest first before calling Reduce or Restore.
type Lot struct {
	Index    int
	Quantity float64
	Capacity float64
}

// Available sums the remaining quantity across lots
func Available(lots []Lot) float64 {
	var total float64
	for _, l := range lots {
		total += l.Quantity
	}
	return total
}

// Reduce withdraws qty from lots oldest first, zeroing each lot before
// touching the next. The availability check runs before any mutation so a
// shortfall leaves every lot untouched.
func Reduce(lots []Lot, qty float64) ([]Lot, error) {
	if qty < 0 {
		return nil, fmt.Errorf("reduce quantity must not be negative, got %v", qty)
	}
	if qty == 0 {
		return lots, nil
	}
	if available := Available(lots); available < qty {
		return nil, fmt.Errorf("%w: need %v, have %v", ErrInsufficientStock, qty, available)
	}

	remaining := qty
	for i := range lots {
		if remaining <= 0 {
			break
		}
		if lots[i].Quantity <= remaining {
			remaining -= lots[i].Quantity
			lots[i].Quantity = 0
			continue
		}
		lots[i].Quantity -= remaining
		remaining = 0
	}
	return lots, nil
}

// Restore returns qty into lots oldest first, filling each lot up to its
// capacity ceiling and spilling overflow into the next. Whatever cannot fit
// anywhere goes into the oldest lot regardless of its ceiling, so no stock
// is ever lost on an invoice edit.
func Restore(lots []Lot, qty float64) ([]Lot, error) {
	if qty < 0 {
		return nil, fmt.Errorf("restore quantity must not be negative, got %v", qty)
	}
	if qty == 0 || len(lots) == 0 {
		return lots, nil
	}

	remaining := qty
	for i := range lots {
		if remaining <= 0 {
			break
		}
		headroom := lots[i].Capacity - lots[i].Quantity
		if headroom <= 0 {
			continue
		}
		if headroom >= remaining {
			lots[i].Quantity += remaining
			remaining = 0
			break
		}
		lots[i].Quantity = lots[i].Capacity
		remaining -= headroom
	}

	if remaining > 0 {
		lots[0].Quantity += remaining
	}
	return lots, nil
}
