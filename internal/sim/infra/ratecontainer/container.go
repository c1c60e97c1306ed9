// Package ratecontainer provides three interchangeable structures mapping
// reaction index to a non-negative rate with weighted pick:
// a flat vector, a segment tree, and a hybrid log-bucketed container.
package ratecontainer

import "errors"

// ErrNegativeRate is returned by Set when r < 0.
var ErrNegativeRate = errors.New("ratecontainer: negative rate")

// ErrIndexOutOfRange is returned by Set when the index is outside
// [0, Len()).
var ErrIndexOutOfRange = errors.New("ratecontainer: index out of range")

// ErrEmptyDistribution is returned by Pick when Total() == 0.
var ErrEmptyDistribution = errors.New("ratecontainer: empty distribution")

// Container stores R non-negative rates indexed 0..R-1 and supports the
// contract shared by every variant.
type Container interface {
	// Set assigns rate r to index i. Fails with ErrNegativeRate if r < 0,
	// ErrIndexOutOfRange if i is outside [0, Len()).
	Set(i int, r float64) error
	// Total returns the sum of all stored rates.
	Total() float64
	// Pick returns the least i such that the cumulative sum of rates
	// 0..i exceeds u. u must be in [0, Total()); fails with
	// ErrEmptyDistribution if Total() == 0.
	Pick(u float64) (int, error)
	// Len returns the number of indices the container was sized for.
	Len() int
}
