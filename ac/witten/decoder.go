package witten

import (
	"io"

	"github.com/fumin/arith/ac"
	"github.com/pkg/errors"
)

// A Decoder decodes a stream of symbols encoded by an Encoder.
// It implements io.Reader and io.ByteReader, in which case decoding stops at the end-of-stream symbol.
//
// The Decoder must be given a model with the exact same intervals as the one used by the Encoder.
// This is not checked: a mismatched model, or a corrupt stream, yields garbage symbols rather than an error.
type Decoder struct {
	in     *bitReader
	source io.Reader
	model  ac.Model

	low   uint32
	high  uint32
	value uint32

	err    error // sticky, the interval no longer matches the encoder's after a failed read
	eos    bool
	closed bool
}

// NewDecoder returns a Decoder reading from r.
// A nil model selects ac.Default.
// NewDecoder reads the first 32 bits of the stream, any I/O error doing so is returned.
// A source shorter than 32 bits is padded, but an empty source can never be a valid stream
// and fails with ac.ErrDecodeInsufficientBits.
func NewDecoder(r io.Reader, model ac.Model) (*Decoder, error) {
	d := &Decoder{
		in:     newBitReader(r),
		source: r,
		model:  modelOrDefault(model),
		high:   0xFFFFFFFF,
	}
	for i := 0; i < codeValueBits; i++ {
		bit, err := d.in.readBit()
		if err != nil {
			return nil, err
		}
		d.value = d.value<<1 | bit
	}
	return d, nil
}

// ReadSymbol decodes the next symbol.
// After the end-of-stream symbol has been returned, ReadSymbol keeps returning it together with io.EOF,
// without consuming any more input.
// A stream that ends too early fails with ac.ErrDecodeInsufficientBits.
// Errors are sticky, every later call returns the same error.
func (d *Decoder) ReadSymbol() (int, error) {
	if d.closed {
		return 0, ac.ErrClosed
	}
	if d.err != nil {
		return 0, d.err
	}
	eos := ac.EOS(d.model)
	if d.eos {
		return eos, io.EOF
	}

	total := d.model.Total()
	arange := uint64(d.high-d.low) + 1
	target := ((uint64(d.value-d.low)+1)*total - 1) / arange
	symbol := d.model.Find(target)
	symLow, symHigh := d.model.Interval(symbol)

	d.low, d.high = narrow(d.low, d.high, symLow, symHigh, total)
	if err := d.renormalize(); err != nil {
		d.err = err
		return 0, err
	}

	if symbol == eos {
		d.eos = true
	}
	return symbol, nil
}

func (d *Decoder) renormalize() error {
	for (d.low^d.high)&topBit == 0 {
		bit, err := d.in.readBit()
		if err != nil {
			return err
		}
		d.low <<= 1
		d.high = d.high<<1 | 1
		d.value = d.value<<1 | bit
	}

	for underflow(d.low, d.high) {
		bit, err := d.in.readBit()
		if err != nil {
			return err
		}
		d.high = (d.high&0x7FFFFFFF)<<1 | 0x80000001
		d.low = (d.low << 1) & 0x7FFFFFFF
		d.value = ((d.value&0x7FFFFFFF)^0x40000000)<<1 | bit
	}
	return nil
}

// Read decodes symbols into p until p is full or the end-of-stream symbol is reached.
// Symbols that do not fit in a byte fail with ac.ErrSymbolRange.
func (d *Decoder) Read(p []byte) (int, error) {
	for i := range p {
		c, err := d.ReadByte()
		if err == io.EOF && i > 0 {
			return i, nil
		}
		if err != nil {
			return i, err
		}
		p[i] = c
	}
	return len(p), nil
}

// ReadByte decodes the next symbol as a byte.
// It returns io.EOF once the end-of-stream symbol is reached.
func (d *Decoder) ReadByte() (byte, error) {
	symbol, err := d.ReadSymbol()
	if err != nil {
		return 0, err
	}
	if symbol == ac.EOS(d.model) {
		return 0, io.EOF
	}
	if symbol > 0xFF {
		return 0, errors.Wrapf(ac.ErrSymbolRange, "symbol %d is not a byte", symbol)
	}
	return byte(symbol), nil
}

// Close closes the underlying reader if it is an io.Closer.
// Reading from a closed Decoder returns ac.ErrClosed.
func (d *Decoder) Close() error {
	if d.closed {
		return ac.ErrClosed
	}
	d.closed = true
	return closeIfCloser(d.source)
}
