package ac

import (
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

// weightsField is the protobuf field number of the packed weights in a serialized Table.
const weightsField protowire.Number = 1

// MarshalBinary serializes t in protobuf wire format,
// as a message whose field 1 holds the weights as packed varints.
func (t *Table) MarshalBinary() ([]byte, error) {
	var packed []byte
	for i := 0; i < t.Len(); i++ {
		packed = protowire.AppendVarint(packed, t.Weight(i))
	}
	b := protowire.AppendTag(nil, weightsField, protowire.BytesType)
	b = protowire.AppendBytes(b, packed)
	return b, nil
}

// ParseTable parses a Table serialized by MarshalBinary.
// Unknown fields are skipped, and unpacked weights are accepted as well as packed ones.
func ParseTable(b []byte) (*Table, error) {
	var weights []uint64
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, errors.Wrap(ErrBadTable, protowire.ParseError(n).Error())
		}
		b = b[n:]

		if num != weightsField {
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, errors.Wrap(ErrBadTable, protowire.ParseError(n).Error())
			}
			b = b[n:]
			continue
		}

		switch typ {
		case protowire.BytesType:
			packed, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, errors.Wrap(ErrBadTable, protowire.ParseError(n).Error())
			}
			b = b[n:]
			for len(packed) > 0 {
				w, m := protowire.ConsumeVarint(packed)
				if m < 0 {
					return nil, errors.Wrap(ErrBadTable, protowire.ParseError(m).Error())
				}
				packed = packed[m:]
				weights = append(weights, w)
			}
		case protowire.VarintType:
			w, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, errors.Wrap(ErrBadTable, protowire.ParseError(n).Error())
			}
			b = b[n:]
			weights = append(weights, w)
		default:
			return nil, errors.Wrapf(ErrBadTable, "wire type %d for weights", typ)
		}
	}
	return NewTable(weights)
}

// UnmarshalBinary replaces the contents of t with the Table serialized in b.
func (t *Table) UnmarshalBinary(b []byte) error {
	parsed, err := ParseTable(b)
	if err != nil {
		return err
	}
	t.cum = parsed.cum
	return nil
}
