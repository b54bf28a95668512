package witten

import (
	"io"

	"github.com/fumin/arith/ac"
	"github.com/pkg/errors"
)

// An Encoder performs arithmetic coding on a stream of symbols given a static model.
// It implements io.WriteCloser, in which case every written byte is a symbol.
type Encoder struct {
	out   *bitWriter
	sink  io.Writer
	model ac.Model

	low   uint32
	high  uint32
	fbits uint64 // pending complementary bits from underflow

	err    error // sticky I/O error
	closed bool
}

// NewEncoder returns an Encoder writing to w.
// A nil model selects ac.Default, the uniform distribution over 256 bytes and the end-of-stream symbol.
func NewEncoder(w io.Writer, model ac.Model) *Encoder {
	return &Encoder{
		out:   newBitWriter(w),
		sink:  w,
		model: modelOrDefault(model),
		high:  0xFFFFFFFF,
	}
}

// WriteSymbol encodes symbol, an index into the model.
// A symbol outside of the model fails with ac.ErrSymbolRange and leaves the Encoder untouched.
// Once an I/O error occurs, it is returned by every later call.
func (e *Encoder) WriteSymbol(symbol int) error {
	if e.closed {
		return ac.ErrClosed
	}
	if e.err != nil {
		return e.err
	}
	if symbol < 0 || symbol >= e.model.Len() {
		return errors.Wrapf(ac.ErrSymbolRange, "symbol %d, alphabet size %d", symbol, e.model.Len())
	}
	symLow, symHigh := e.model.Interval(symbol)
	if symLow == symHigh {
		return errors.Wrapf(ac.ErrZeroWeight, "symbol %d", symbol)
	}

	e.low, e.high = narrow(e.low, e.high, symLow, symHigh, e.model.Total())
	if err := e.renormalize(); err != nil {
		e.err = err
		return err
	}
	return nil
}

func (e *Encoder) renormalize() error {
	// Shift out the converged top bits.
	for (e.low^e.high)&topBit == 0 {
		if err := e.bitPlusFollow(e.high >> 31); err != nil {
			return err
		}
		e.low <<= 1
		e.high = e.high<<1 | 1
	}

	for underflow(e.low, e.high) {
		e.fbits++
		e.high = (e.high&0x7FFFFFFF)<<1 | 0x80000001
		e.low = (e.low << 1) & 0x7FFFFFFF
	}
	return nil
}

// bitPlusFollow writes bit followed by the pending opposite bits.
func (e *Encoder) bitPlusFollow(bit uint32) error {
	if err := e.out.writeBit(bit); err != nil {
		return err
	}
	for ; e.fbits > 0; e.fbits-- {
		if err := e.out.writeBit(bit ^ 1); err != nil {
			return err
		}
	}
	return nil
}

// Write encodes each byte of p as a symbol.
func (e *Encoder) Write(p []byte) (int, error) {
	for i, b := range p {
		if err := e.WriteSymbol(int(b)); err != nil {
			return i, err
		}
	}
	return len(p), nil
}

// WriteByte encodes c as a symbol.
func (e *Encoder) WriteByte(c byte) error {
	return e.WriteSymbol(int(c))
}

// Finish terminates the stream.
// If writeEOS is true the end-of-stream symbol of the model is encoded first,
// otherwise the caller is responsible for signalling the end of the data, for example with their own terminator symbol.
// Finish then writes the bits that disambiguate the final interval, pads the last byte with zeros,
// and closes the underlying writer if it is an io.Closer.
// No symbols may be written afterwards.
// If writeEOS is true but the end-of-stream symbol has zero weight, Finish fails with ac.ErrZeroWeight
// and leaves the Encoder open.
func (e *Encoder) Finish(writeEOS bool) error {
	if e.closed {
		return ac.ErrClosed
	}
	if writeEOS {
		if err := e.WriteSymbol(ac.EOS(e.model)); err != nil && e.err == nil {
			// The model cannot represent its end-of-stream symbol. Nothing was written,
			// so the Encoder stays open for the caller to terminate with Finish(false).
			return err
		}
	}
	e.closed = true
	if e.err != nil {
		return e.err
	}

	// Select the quarter interval lying inside [low, high], any bits after it decode to the same symbols.
	e.fbits++
	if err := e.bitPlusFollow((e.low >> 30) & 1); err != nil {
		return err
	}
	if err := e.out.flush(); err != nil {
		return err
	}
	return closeIfCloser(e.sink)
}

// Close is Finish(true).
func (e *Encoder) Close() error {
	return e.Finish(true)
}
