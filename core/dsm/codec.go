package dsm

import (
	"fmt"

	"github.com/huangsam/gauge/schema"
	"google.golang.org/protobuf/encoding/protowire"
)

// Wire layout, in protobuf encoding:
//
//	matrix { repeated row = 1 }
//	row    { string uuid = 1; repeated cell cell = 2 }
//	cell   { int64 weight = 1; int64 offset = 2 }
const (
	matrixRowField  = 1
	rowUUIDField    = 1
	rowCellField    = 2
	cellWeightField = 1
	cellOffsetField = 2
)

// Encode serializes a matrix into its binary measure payload.
func Encode(d schema.DsmData) []byte {
	var out []byte
	for _, r := range d.Rows {
		var row []byte
		row = protowire.AppendTag(row, rowUUIDField, protowire.BytesType)
		row = protowire.AppendString(row, r.UUID)
		for _, c := range r.Cells {
			var cell []byte
			cell = protowire.AppendTag(cell, cellWeightField, protowire.VarintType)
			cell = protowire.AppendVarint(cell, uint64(int64(c.Weight)))
			cell = protowire.AppendTag(cell, cellOffsetField, protowire.VarintType)
			cell = protowire.AppendVarint(cell, uint64(int64(c.Offset)))
			row = protowire.AppendTag(row, rowCellField, protowire.BytesType)
			row = protowire.AppendBytes(row, cell)
		}
		out = protowire.AppendTag(out, matrixRowField, protowire.BytesType)
		out = protowire.AppendBytes(out, row)
	}
	return out
}

// Decode parses a payload produced by Encode. Unknown fields are skipped.
func Decode(b []byte) (schema.DsmData, error) {
	var d schema.DsmData
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, v []byte) error {
		if num != matrixRowField || typ != protowire.BytesType {
			return nil
		}
		row, err := decodeRow(v)
		if err != nil {
			return err
		}
		d.Rows = append(d.Rows, row)
		return nil
	})
	if err != nil {
		return schema.DsmData{}, fmt.Errorf("failed to decode dsm: %w", err)
	}
	return d, nil
}

func decodeRow(b []byte) (schema.DsmRow, error) {
	var row schema.DsmRow
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, v []byte) error {
		switch {
		case num == rowUUIDField && typ == protowire.BytesType:
			row.UUID = string(v)
		case num == rowCellField && typ == protowire.BytesType:
			cell, err := decodeCell(v)
			if err != nil {
				return err
			}
			row.Cells = append(row.Cells, cell)
		}
		return nil
	})
	return row, err
}

func decodeCell(b []byte) (schema.DsmCell, error) {
	var cell schema.DsmCell
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return cell, protowire.ParseError(n)
		}
		b = b[n:]
		if typ != protowire.VarintType {
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return cell, protowire.ParseError(n)
			}
			b = b[n:]
			continue
		}
		v, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return cell, protowire.ParseError(n)
		}
		b = b[n:]
		switch num {
		case cellWeightField:
			cell.Weight = int(int64(v))
		case cellOffsetField:
			cell.Offset = int(int64(v))
		}
	}
	return cell, nil
}

// consumeFields walks the length-delimited and varint fields of a message. Length-delimited
// values are handed to fn; other fields are skipped.
func consumeFields(b []byte, fn func(num protowire.Number, typ protowire.Type, v []byte) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		if typ == protowire.BytesType {
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			b = b[n:]
			if err := fn(num, typ, v); err != nil {
				return err
			}
			continue
		}
		n = protowire.ConsumeFieldValue(num, typ, b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
	}
	return nil
}
