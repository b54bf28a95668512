package ac

import (
	"sort"

	"github.com/pkg/errors"
)

const (
	// DefaultSymbols is the size of the default alphabet: 256 byte values followed by the end-of-stream symbol.
	DefaultSymbols = 257

	// EndOfStream is the end-of-stream symbol of the default alphabet.
	EndOfStream = DefaultSymbols - 1

	// MaxTotal is the largest total weight a Table may have.
	// After renormalization the coding interval is always wider than a quarter of the 32 bit range,
	// so a total below 1<<30 guarantees every symbol of non-zero weight a non-empty sub-interval.
	MaxTotal = 1<<30 - 1
)

// A Table is an immutable Model backed by a sequence of symbol weights.
type Table struct {
	// cum[i] is the sum of the weights of symbols 0..i-1, so len(cum) == Len()+1.
	cum []uint64
}

// NewTable returns a Table whose i-th symbol has weight weights[i].
// Zero weights are allowed, but the corresponding symbols can never be encoded.
func NewTable(weights []uint64) (*Table, error) {
	if len(weights) == 0 {
		return nil, errors.Wrap(ErrBadTable, "no symbols")
	}
	cum := make([]uint64, len(weights)+1)
	for i, w := range weights {
		if w > MaxTotal {
			return nil, errors.Wrapf(ErrBadTable, "weight %d of symbol %d exceeds %d", w, i, MaxTotal)
		}
		cum[i+1] = cum[i] + w
		if cum[i+1] > MaxTotal {
			return nil, errors.Wrapf(ErrBadTable, "total weight exceeds %d", MaxTotal)
		}
	}
	if cum[len(weights)] == 0 {
		return nil, errors.Wrap(ErrBadTable, "total weight is zero")
	}
	return &Table{cum: cum}, nil
}

// Uniform returns a Table of n symbols with equal weights.
func Uniform(n int) *Table {
	if n <= 0 || n > MaxTotal {
		panic(errors.Errorf("invalid number of symbols %d", n))
	}
	cum := make([]uint64, n+1)
	for i := range cum {
		cum[i] = uint64(i)
	}
	return &Table{cum: cum}
}

// Default returns the uniform distribution over the 257 symbols of the default alphabet.
func Default() *Table {
	return Uniform(DefaultSymbols)
}

func (t *Table) Len() int {
	return len(t.cum) - 1
}

func (t *Table) Total() uint64 {
	return t.cum[len(t.cum)-1]
}

// Interval panics if symbol is out of range, callers are expected to check against Len first.
func (t *Table) Interval(symbol int) (low, high uint64) {
	return t.cum[symbol], t.cum[symbol+1]
}

// Find returns the first symbol whose cumulative range ends after target.
// Targets at or beyond Total, which only arise when decoding corrupt data,
// map to the last symbol of non-zero weight.
func (t *Table) Find(target uint64) int {
	if total := t.Total(); target >= total {
		target = total - 1
	}
	return sort.Search(t.Len(), func(i int) bool { return t.cum[i+1] > target })
}

// Weight returns the weight of symbol.
func (t *Table) Weight(symbol int) uint64 {
	return t.cum[symbol+1] - t.cum[symbol]
}

// Weights returns a copy of the weights of all symbols.
func (t *Table) Weights() []uint64 {
	w := make([]uint64, t.Len())
	for i := range w {
		w[i] = t.Weight(i)
	}
	return w
}

// Equal reports whether t and u assign identical weights to identical symbols.
func (t *Table) Equal(u *Table) bool {
	if len(t.cum) != len(u.cum) {
		return false
	}
	for i := range t.cum {
		if t.cum[i] != u.cum[i] {
			return false
		}
	}
	return true
}
