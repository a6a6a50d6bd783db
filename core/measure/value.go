// Package measure holds typed measure values and the per-run measure store.
package measure

import (
	"fmt"
	"strconv"

	"github.com/huangsam/gauge/schema"
)

// Kind tells which field of a Value is set.
type Kind int

const (
	NoValue Kind = iota
	IntKind
	LongKind
	FloatKind
	BoolKind
	StringKind
	BytesKind
	LevelKind
)

// Value is exactly one typed measure value, possibly none.
type Value struct {
	kind Kind
	num  float64
	str  string
	data []byte
}

// None returns the absent value.
func None() Value { return Value{} }

// Int returns an int value.
func Int(v int) Value { return Value{kind: IntKind, num: float64(v)} }

// Long returns a long value, used for work durations.
func Long(v int64) Value { return Value{kind: LongKind, num: float64(v)} }

// Float returns a float value.
func Float(v float64) Value { return Value{kind: FloatKind, num: v} }

// Bool returns a boolean value.
func Bool(v bool) Value {
	if v {
		return Value{kind: BoolKind, num: 1}
	}
	return Value{kind: BoolKind}
}

// String returns a text value.
func String(s string) Value { return Value{kind: StringKind, str: s} }

// Bytes returns an opaque binary value.
func Bytes(b []byte) Value { return Value{kind: BytesKind, data: b} }

// LevelValue returns an alert level value.
func LevelValue(l schema.Level) Value { return Value{kind: LevelKind, str: string(l)} }

// FromNumeric builds the value of a numeric metric type from a float.
func FromNumeric(t schema.MetricType, v float64) Value {
	switch t {
	case schema.IntMetric, schema.RatingMetric:
		return Int(int(v))
	case schema.WorkDurMetric:
		return Long(int64(v))
	case schema.BoolMetric:
		return Bool(v != 0)
	default:
		return Float(v)
	}
}

// Kind returns the kind of the value.
func (v Value) Kind() Kind { return v.kind }

// IsSet reports whether the value holds anything.
func (v Value) IsSet() bool { return v.kind != NoValue }

// Numeric returns the value as a number. Booleans are 0 or 1.
func (v Value) Numeric() (float64, bool) {
	switch v.kind {
	case IntKind, LongKind, FloatKind, BoolKind:
		return v.num, true
	default:
		return 0, false
	}
}

// Text returns the value of a string or level measure.
func (v Value) Text() (string, bool) {
	switch v.kind {
	case StringKind, LevelKind:
		return v.str, true
	default:
		return "", false
	}
}

// Data returns the payload of a bytes measure.
func (v Value) Data() []byte { return v.data }

// Level returns the alert level of a level measure.
func (v Value) Level() schema.Level {
	if v.kind != LevelKind {
		return ""
	}
	return schema.Level(v.str)
}

// String renders the value for display.
func (v Value) String() string {
	switch v.kind {
	case IntKind, LongKind:
		return strconv.FormatInt(int64(v.num), 10)
	case FloatKind:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case BoolKind:
		return strconv.FormatBool(v.num != 0)
	case StringKind, LevelKind:
		return v.str
	case BytesKind:
		return fmt.Sprintf("<%d bytes>", len(v.data))
	default:
		return ""
	}
}

// Equal reports whether both values have the same kind and content.
func (v Value) Equal(o Value) bool {
	return v.kind == o.kind && v.num == o.num && v.str == o.str && string(v.data) == string(o.data)
}
