package ac

// Count returns a Table over the default alphabet whose weights follow the byte frequencies of data.
// Every byte value keeps a weight of at least one, so the table can encode any input, not only data.
// The end-of-stream symbol has weight one.
func Count(data []byte) *Table {
	weights := make([]uint64, DefaultSymbols)
	for i := range weights {
		weights[i] = 1
	}
	for _, b := range data {
		weights[b]++
	}
	scale(weights)

	t, err := NewTable(weights)
	if err != nil {
		// Unreachable, the weights are non-zero and their total fits.
		panic(err)
	}
	return t
}

// scale halves weights until their total is at most MaxTotal.
// Halving rounds up, so non-zero weights stay non-zero.
func scale(weights []uint64) {
	for {
		var total uint64
		for _, w := range weights {
			total += w
		}
		if total <= MaxTotal {
			return
		}
		for i, w := range weights {
			weights[i] = (w + 1) / 2
		}
	}
}
