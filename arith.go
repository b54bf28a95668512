// Package arith provides a lossless compression/decompression utility built on static model arithmetic coding.
//
// A compressed file starts with the probability table the data was coded with,
// serialized in protobuf wire format and prefixed by its length as a uvarint.
// The original size follows as a uvarint, then the arithmetic coded bytes terminated by the end-of-stream symbol.
// Storing the table guarantees that the decoder uses exactly the model of the encoder,
// and storing the size lets Decompress reject truncated or corrupt files instead of returning garbage.
//
// Below is an example of using this package to compress Lincoln's Gettysburg address:
//
//	go run compress/main.go gettysburg.txt > gettys.ac
//	cat gettys.ac | go run decompress/main.go > gettys.dac
//	diff gettysburg.txt gettys.dac
//
// Reference:
// Witten, Ian H.; Neal, Radford M.; Cleary, John G. (June 1987). "Arithmetic Coding for Data Compression". Communications of the ACM 30 (6): 520–540.
package arith

import (
	"bufio"
	"encoding/binary"
	"io"
	"io/ioutil"

	"github.com/fumin/arith/ac"
	"github.com/fumin/arith/ac/witten"
	"github.com/pkg/errors"
)

// ErrCorrupt is returned by Decompress when the decoded data disagrees with the size recorded in the header.
var ErrCorrupt = errors.New("corrupt compressed data")

// maxHeaderSize bounds the serialized table, 257 weights of at most 5 varint bytes each plus framing.
const maxHeaderSize = 4096

// Stats reports the sizes involved in a compression.
type Stats struct {
	Original   int64 // bytes read from the source
	Header     int64 // bytes of the length prefixed table and the original size
	Compressed int64 // bytes written, including the header
}

// Compress compresses the contents of src and writes them to dst.
// The probability table is counted from src, unless uniform is true, in which case every byte is equally likely.
func Compress(dst io.Writer, src io.Reader, uniform bool) error {
	_, err := CompressStats(dst, src, uniform)
	return err
}

// CompressStats is like Compress, and reports the sizes of its input and output.
func CompressStats(dst io.Writer, src io.Reader, uniform bool) (Stats, error) {
	data, err := ioutil.ReadAll(src)
	if err != nil {
		return Stats{}, errors.Wrap(err, "")
	}
	table := ac.Default()
	if !uniform {
		table = ac.Count(data)
	}

	cw := &countingWriter{w: bufio.NewWriter(dst)}
	if err := writeTable(cw, table); err != nil {
		return Stats{}, errors.Wrap(err, "")
	}
	if err := writeUvarint(cw, uint64(len(data))); err != nil {
		return Stats{}, errors.Wrap(err, "")
	}
	header := cw.n

	enc := witten.NewEncoder(cw, table)
	if _, err := enc.Write(data); err != nil {
		return Stats{}, errors.Wrap(err, "")
	}
	if err := enc.Close(); err != nil {
		return Stats{}, errors.Wrap(err, "")
	}
	if err := cw.w.Flush(); err != nil {
		return Stats{}, errors.Wrap(err, "")
	}

	return Stats{Original: int64(len(data)), Header: header, Compressed: cw.n}, nil
}

// Decompress decompresses data produced by Compress from src and writes it to dst.
// A truncated or corrupt src fails with ErrCorrupt or ac.ErrDecodeInsufficientBits,
// although some of the decoded bytes may have been written to dst already.
func Decompress(dst io.Writer, src io.Reader) error {
	br := bufio.NewReader(src)
	table, err := readTable(br)
	if err != nil {
		return errors.Wrap(err, "")
	}
	size, err := binary.ReadUvarint(br)
	if err != nil {
		return errors.Wrap(err, "original size")
	}

	dec, err := witten.NewDecoder(br, table)
	if err != nil {
		return errors.Wrap(err, "")
	}
	bw := bufio.NewWriter(dst)
	n, err := io.Copy(bw, io.LimitReader(dec, int64(size)))
	if err != nil {
		return errors.Wrap(err, "")
	}
	if uint64(n) < size {
		return errors.Wrapf(ErrCorrupt, "end of stream after %d of %d bytes", n, size)
	}
	if _, err := dec.ReadByte(); err != io.EOF {
		if err != nil {
			return errors.Wrap(err, "")
		}
		return errors.Wrapf(ErrCorrupt, "no end of stream after %d bytes", size)
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}

func writeTable(w io.Writer, table *ac.Table) error {
	b, err := table.MarshalBinary()
	if err != nil {
		return errors.Wrap(err, "")
	}
	if err := writeUvarint(w, uint64(len(b))); err != nil {
		return errors.Wrap(err, "")
	}
	if _, err := w.Write(b); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}

func writeUvarint(w io.Writer, x uint64) error {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(buf[:], x)
	if _, err := w.Write(buf[:n]); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}

func readTable(r *bufio.Reader) (*ac.Table, error) {
	size, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, errors.Wrap(err, "table size")
	}
	if size > maxHeaderSize {
		return nil, errors.Wrapf(ac.ErrBadTable, "table of %d bytes", size)
	}
	b := make([]byte, size)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, errors.Wrap(err, "table")
	}
	table, err := ac.ParseTable(b)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	return table, nil
}

// countingWriter counts the bytes written through it.
// It forwards WriteByte so that the encoder does not allocate per byte.
type countingWriter struct {
	w *bufio.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

func (cw *countingWriter) WriteByte(c byte) error {
	if err := cw.w.WriteByte(c); err != nil {
		return err
	}
	cw.n++
	return nil
}
