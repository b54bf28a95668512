package witten

import (
	"io"

	"github.com/fumin/arith/ac"
)

// A bitWriter packs bits into bytes, least significant bit first.
type bitWriter struct {
	w     io.Writer
	bw    io.ByteWriter // w as an io.ByteWriter, if it is one
	acc   byte
	nbits uint
	buf   [1]byte
}

func newBitWriter(w io.Writer) *bitWriter {
	bw, _ := w.(io.ByteWriter)
	return &bitWriter{w: w, bw: bw}
}

func (w *bitWriter) writeBit(bit uint32) error {
	w.acc |= byte(bit&1) << w.nbits
	w.nbits++
	if w.nbits < 8 {
		return nil
	}
	return w.emit()
}

// flush writes out a partially filled byte, padding the remaining high bits with zeros.
func (w *bitWriter) flush() error {
	if w.nbits == 0 {
		return nil
	}
	return w.emit()
}

func (w *bitWriter) emit() error {
	c := w.acc
	w.acc = 0
	w.nbits = 0
	if w.bw != nil {
		return w.bw.WriteByte(c)
	}
	w.buf[0] = c
	_, err := w.w.Write(w.buf[:])
	return err
}

// A bitReader unpacks bits from bytes, least significant bit first.
// Once the source is exhausted it returns one bits, and fails with ac.ErrDecodeInsufficientBits
// after more than maxGarbageBits of them.
type bitReader struct {
	r       io.Reader
	br      io.ByteReader // r as an io.ByteReader, if it is one
	acc     byte
	nbits   uint // bits left in acc
	eof     bool
	garbage int // bits returned after the end of the source
	buf     [1]byte
}

func newBitReader(r io.Reader) *bitReader {
	br, _ := r.(io.ByteReader)
	return &bitReader{r: r, br: br}
}

func (r *bitReader) readBit() (uint32, error) {
	if r.nbits == 0 && !r.eof {
		c, err := r.next()
		switch {
		case err == io.EOF || err == io.ErrUnexpectedEOF:
			r.eof = true
		case err != nil:
			return 0, err
		default:
			r.acc = c
			r.nbits = 8
		}
	}
	if r.nbits == 0 {
		r.garbage++
		if r.garbage > maxGarbageBits {
			return 0, ac.ErrDecodeInsufficientBits
		}
		return 1, nil // the returned bit can actually be anything
	}

	bit := uint32(r.acc & 1)
	r.acc >>= 1
	r.nbits--
	return bit, nil
}

func (r *bitReader) next() (byte, error) {
	if r.br != nil {
		return r.br.ReadByte()
	}
	_, err := io.ReadFull(r.r, r.buf[:])
	return r.buf[0], err
}
