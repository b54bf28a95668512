// Package witten implements the arithmetic coding algorithm described in
// Witten, Ian H.; Neal, Radford M.; Cleary, John G. (June 1987). "Arithmetic Coding for Data Compression". Communications of the ACM 30 (6): 520–540.
//
// The coder works on a 32 bit interval [low, high] and a static ac.Model.
// Bits are packed least significant bit first into bytes, and the stream carries no header:
// the decoder primes itself with the first 32 bits, symbols follow back to back,
// and the end of the data is marked by the end-of-stream symbol of the model.
//
// Encoders and Decoders are not safe for concurrent use, but independent streams may be coded in parallel.
package witten

import (
	"io"

	"github.com/fumin/arith/ac"
)

const (
	topBit    uint32 = 1 << 31
	secondBit uint32 = 1 << 30

	// codeValueBits is the number of bits the decoder reads before decoding the first symbol.
	codeValueBits = 32

	// maxGarbageBits is the number of bits a well formed stream may be read past its end.
	// The encoder terminates with at least two bits, so the decoder's 32 bit lookahead
	// overshoots the real data by at most codeValueBits-2 bits.
	maxGarbageBits = codeValueBits - 2
)

// narrow shrinks [low, high] to the sub-interval owned by the cumulative range [symLow, symHigh) out of total.
// The products are computed in 64 bits, range can be 1<<32 and total is below 1<<30.
func narrow(low, high uint32, symLow, symHigh, total uint64) (uint32, uint32) {
	arange := uint64(high-low) + 1
	newHigh := low + uint32(arange*symHigh/total-1)
	newLow := low + uint32(arange*symLow/total)
	return newLow, newHigh
}

// underflow reports the E3 condition, where the interval straddles the middle
// without its top bits having converged.
func underflow(low, high uint32) bool {
	return low&secondBit != 0 && high&secondBit == 0
}

func modelOrDefault(m ac.Model) ac.Model {
	if m == nil {
		return ac.Default()
	}
	return m
}

func closeIfCloser(x interface{}) error {
	c, ok := x.(io.Closer)
	if !ok {
		return nil
	}
	return c.Close()
}
