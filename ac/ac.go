// Package ac defines the static probability models the arithmetic coding algorithm requires.
// See its subpackages for particular finite precision realizations of the algorithm.
package ac

import (
	"github.com/pkg/errors"
)

var (
	// ErrSymbolRange is returned when a symbol lies outside of the alphabet of a Model.
	ErrSymbolRange = errors.New("symbol out of range")

	// ErrZeroWeight is returned when encoding a symbol whose weight is zero.
	// Such a symbol owns an empty interval and cannot be represented.
	ErrZeroWeight = errors.New("symbol has zero weight")

	// ErrBadTable is returned when a probability table cannot be constructed or parsed.
	ErrBadTable = errors.New("bad probability table")

	// ErrDecodeInsufficientBits is returned when the source ends before the decoder has
	// reconstructed the original data, i.e. when the stream was truncated.
	ErrDecodeInsufficientBits = errors.New("insufficient bits sent to decoder")

	// ErrClosed is returned when a closed coder is used.
	ErrClosed = errors.New("coder is closed")
)

// A Model is a static probabilistic model on a sequence of symbols,
// as expected by the arithmetic coding algorithm.
// Symbol s owns the half open range [low, high) returned by Interval(s) within [0, Total()).
//
// An encoder and its decoder must be given models with identical intervals,
// otherwise decoding silently produces garbage.
type Model interface {
	// Len returns the number of symbols in the alphabet, including the end-of-stream symbol.
	Len() int

	// Total returns the sum of all symbol weights.
	Total() uint64

	// Interval returns the cumulative range [low, high) of symbol.
	Interval(symbol int) (low, high uint64)

	// Find returns the symbol whose cumulative range contains target.
	Find(target uint64) int
}

// EOS returns the end-of-stream symbol of m, which is always its last symbol.
func EOS(m Model) int {
	return m.Len() - 1
}
