package arith

import (
	"bytes"
	"io/ioutil"
	"math/rand"
	"os"
	"strings"
	"testing"

	"github.com/fumin/arith/ac"
	"github.com/fumin/arith/ac/witten"
	"github.com/pkg/errors"
)

const gettysburg = `Four score and seven years ago our fathers brought forth on this continent, a new nation, conceived in Liberty, and dedicated to the proposition that all men are created equal.
Now we are engaged in a great civil war, testing whether that nation, or any nation so conceived and so dedicated, can long endure. We are met on a great battle-field of that war. We have come to dedicate a portion of that field, as a final resting place for those who here gave their lives that that nation might live. It is altogether fitting and proper that we should do this.
`

func TestCompress(t *testing.T) {
	name, err := writeTemp([]byte(gettysburg))
	if err != nil {
		t.Fatalf("%v", err)
	}
	defer os.Remove(name)

	for _, uniform := range []bool{false, true} {
		// Compress
		src, err := os.Open(name)
		if err != nil {
			t.Fatalf("%v", err)
		}
		f, err := ioutil.TempFile("", "arith.TestCompress.Compress")
		if err != nil {
			t.Fatalf("%v", err)
		}
		defer f.Close()
		defer os.Remove(f.Name())
		stats, err := CompressStats(f, src, uniform)
		src.Close()
		if err != nil {
			t.Fatalf("%+v", err)
		}
		t.Logf("uniform %v: %+v", uniform, stats)
		if stats.Original != int64(len(gettysburg)) {
			t.Errorf("%d", stats.Original)
		}
		if !uniform && stats.Compressed-stats.Header >= stats.Original {
			t.Errorf("%+v", stats)
		}

		// Decompress
		if _, err := f.Seek(0, 0); err != nil {
			t.Fatalf("%v", err)
		}
		df, err := ioutil.TempFile("", "arith.TestCompress.Decompress")
		if err != nil {
			t.Fatalf("%v", err)
		}
		defer df.Close()
		defer os.Remove(df.Name())
		if err := Decompress(df, f); err != nil {
			t.Fatalf("%+v", err)
		}

		// Check if the decompressed result is the same as the original file
		if _, err := df.Seek(0, 0); err != nil {
			t.Fatalf("%v", err)
		}
		decom, err := ioutil.ReadAll(df)
		if err != nil {
			t.Fatalf("%v", err)
		}
		if !bytes.Equal([]byte(gettysburg), decom) {
			t.Errorf("%q", decom)
		}
	}
}

func TestCompressBinary(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, n := range []int{0, 1, 2, 255, 4096} {
		data := make([]byte, n)
		for i := range data {
			// A skewed distribution, so that counting the table pays off.
			data[i] = byte(int(rng.ExpFloat64() * 8))
		}

		compressed := bytes.NewBuffer(nil)
		if err := Compress(compressed, bytes.NewReader(data), false); err != nil {
			t.Fatalf("%+v", err)
		}
		decompressed := bytes.NewBuffer(nil)
		if err := Decompress(decompressed, compressed); err != nil {
			t.Fatalf("%+v", err)
		}
		if !bytes.Equal(data, decompressed.Bytes()) {
			t.Errorf("%d: round trip mismatch", n)
		}
	}
}

// TestDecompressTruncated checks that no proper prefix of a compressed file decompresses successfully into wrong data.
func TestDecompressTruncated(t *testing.T) {
	for _, data := range []string{"", "x", "a sentence of twenty-three", gettysburg} {
		compressed := bytes.NewBuffer(nil)
		if err := Compress(compressed, strings.NewReader(data), false); err != nil {
			t.Fatalf("%+v", err)
		}
		full := compressed.Bytes()

		for size := 0; size < len(full); size++ {
			out := bytes.NewBuffer(nil)
			err := Decompress(out, bytes.NewReader(full[:size]))
			if err == nil && out.String() != data {
				t.Errorf("%d of %d bytes: decompressed %q without error", size, len(full), out.String())
			}
			if out.Len() > len(data) {
				t.Errorf("%d of %d bytes: %d bytes output", size, len(full), out.Len())
			}
		}

		// Trailing bytes after a complete file are ignored.
		for _, trailing := range []byte{0x00, 0xFF} {
			src := append(append([]byte{}, full...), bytes.Repeat([]byte{trailing}, 8)...)
			out := bytes.NewBuffer(nil)
			if err := Decompress(out, bytes.NewReader(src)); err != nil {
				t.Fatalf("%+v", err)
			}
			if out.String() != data {
				t.Errorf("%q", out.String())
			}
		}
	}
}

// Test coded streams whose length disagrees with the size recorded in the header.
func TestDecompressSizeMismatch(t *testing.T) {
	for _, size := range []uint64{1, 3} {
		buf := bytes.NewBuffer(nil)
		if err := writeTable(buf, ac.Default()); err != nil {
			t.Fatalf("%+v", err)
		}
		if err := writeUvarint(buf, size); err != nil {
			t.Fatalf("%+v", err)
		}
		enc := witten.NewEncoder(buf, nil)
		if _, err := enc.Write([]byte("ab")); err != nil {
			t.Fatalf("%+v", err)
		}
		if err := enc.Close(); err != nil {
			t.Fatalf("%+v", err)
		}

		err := Decompress(ioutil.Discard, buf)
		if errors.Cause(err) != ErrCorrupt {
			t.Errorf("size %d: %v", size, err)
		}
	}
}

func TestDecompressBadHeader(t *testing.T) {
	// A header claiming a huge table.
	if err := Decompress(ioutil.Discard, strings.NewReader("\xff\xff\xff\xff\x0f")); errors.Cause(err) != ac.ErrBadTable {
		t.Errorf("%v", err)
	}

	// A header whose table is not a valid protobuf message.
	if err := Decompress(ioutil.Discard, strings.NewReader("\x02\x0a\x05")); errors.Cause(err) != ac.ErrBadTable {
		t.Errorf("%v", err)
	}

	// A truncated header.
	if err := Decompress(ioutil.Discard, strings.NewReader("\x05\x0a")); err == nil {
		t.Errorf("expected error")
	}
}

func writeTemp(b []byte) (string, error) {
	f, err := ioutil.TempFile("", "arith.TestCompress.Source")
	if err != nil {
		return "", errors.Wrap(err, "")
	}
	defer f.Close()
	if _, err := f.Write(b); err != nil {
		return "", errors.Wrap(err, "")
	}
	return f.Name(), nil
}
