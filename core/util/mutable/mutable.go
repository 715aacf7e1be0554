/*
Package mutable provides reusable, typed value holders with value
semantics. They are the keys grouping and distinct-value collectors
use to bucket documents without allocating per document.
*/
package mutable

import (
	"cmp"
	"fmt"
	"math"
	"strings"

	"github.com/ironsweet/docvalues/core/util"
)

// util/mutable/MutableValue.java

/*
Value is a holder of one typed scalar that can be overwritten in place
through Copy(). A Value that does not Exist still carries the zero
value of its type.

The set of implementations is closed: ValueBool, ValueInt32,
ValueInt64, ValueFloat32, ValueFloat64 and ValueStr.
*/
type Value interface {
	fmt.Stringer
	// Whether the document had a value.
	Exists() bool
	// The native value, nil when it does not exist.
	Object() interface{}
	// Overwrites this value with source, which must be of the same type.
	Copy(source Value)
	// Returns an independent copy of this value.
	Duplicate() Value
	// Equality against a value known to be of the same type.
	EqualsSameType(other Value) bool
	// Order against a value known to be of the same type. Equal values
	// order a missing one first.
	CompareSameType(other Value) int
	// Hash consistent with Equals.
	Hash() uint32
	typeName() string
}

/* Returns whether a and b have the same type, value and existence. */
func Equals(a, b Value) bool {
	return a.typeName() == b.typeName() && a.EqualsSameType(b)
}

/*
Total order over values of any type. Values of different types order
by a hash of their type name, then by the name itself.
*/
func CompareTo(a, b Value) int {
	ta, tb := a.typeName(), b.typeName()
	if ta != tb {
		if c := cmp.Compare(typeHash(ta), typeHash(tb)); c != 0 {
			return c
		}
		return strings.Compare(ta, tb)
	}
	return a.CompareSameType(b)
}

func typeHash(name string) uint32 {
	return util.MurmurHash3_x86_32([]byte(name), 0)
}

func compareExists(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	}
	return -1
}

func stringOf(v Value) string {
	if !v.Exists() {
		return "(null)"
	}
	return fmt.Sprint(v.Object())
}

// util/mutable/MutableValueBool.java

type ValueBool struct {
	Value   bool
	Missing bool
}

func (v *ValueBool) Exists() bool     { return !v.Missing }
func (v *ValueBool) typeName() string { return "mutable.ValueBool" }
func (v *ValueBool) String() string   { return stringOf(v) }

func (v *ValueBool) Object() interface{} {
	if v.Missing {
		return nil
	}
	return v.Value
}

func (v *ValueBool) Copy(source Value) {
	*v = *source.(*ValueBool)
}

func (v *ValueBool) Duplicate() Value {
	ans := *v
	return &ans
}

func (v *ValueBool) EqualsSameType(other Value) bool {
	return *v == *other.(*ValueBool)
}

func (v *ValueBool) CompareSameType(other Value) int {
	b := other.(*ValueBool)
	if v.Value != b.Value {
		if v.Value {
			return 1
		}
		return -1
	}
	return compareExists(!v.Missing, !b.Missing)
}

func (v *ValueBool) Hash() uint32 {
	switch {
	case v.Value:
		return 2
	case v.Missing:
		return 0
	}
	return 1
}

// util/mutable/MutableValueInt.java

type ValueInt32 struct {
	Value   int32
	Missing bool
}

func (v *ValueInt32) Exists() bool     { return !v.Missing }
func (v *ValueInt32) typeName() string { return "mutable.ValueInt32" }
func (v *ValueInt32) String() string   { return stringOf(v) }

func (v *ValueInt32) Object() interface{} {
	if v.Missing {
		return nil
	}
	return v.Value
}

func (v *ValueInt32) Copy(source Value) {
	*v = *source.(*ValueInt32)
}

func (v *ValueInt32) Duplicate() Value {
	ans := *v
	return &ans
}

func (v *ValueInt32) EqualsSameType(other Value) bool {
	return *v == *other.(*ValueInt32)
}

func (v *ValueInt32) CompareSameType(other Value) int {
	b := other.(*ValueInt32)
	if c := cmp.Compare(v.Value, b.Value); c != 0 {
		return c
	}
	return compareExists(!v.Missing, !b.Missing)
}

func (v *ValueInt32) Hash() uint32 {
	// mix the higher bits into the lower ones
	return uint32((v.Value >> 8) + (v.Value >> 25))
}

// util/mutable/MutableValueLong.java

type ValueInt64 struct {
	Value   int64
	Missing bool
}

func (v *ValueInt64) Exists() bool     { return !v.Missing }
func (v *ValueInt64) typeName() string { return "mutable.ValueInt64" }
func (v *ValueInt64) String() string   { return stringOf(v) }

func (v *ValueInt64) Object() interface{} {
	if v.Missing {
		return nil
	}
	return v.Value
}

func (v *ValueInt64) Copy(source Value) {
	*v = *source.(*ValueInt64)
}

func (v *ValueInt64) Duplicate() Value {
	ans := *v
	return &ans
}

func (v *ValueInt64) EqualsSameType(other Value) bool {
	return *v == *other.(*ValueInt64)
}

func (v *ValueInt64) CompareSameType(other Value) int {
	b := other.(*ValueInt64)
	if c := cmp.Compare(v.Value, b.Value); c != 0 {
		return c
	}
	return compareExists(!v.Missing, !b.Missing)
}

func (v *ValueInt64) Hash() uint32 {
	return uint32(v.Value) + uint32(v.Value>>32)
}

// util/mutable/MutableValueFloat.java

/*
Floating point values compare and hash by bit pattern: NaN equals
itself and sorts above +Inf, -0 sorts below +0.
*/
type ValueFloat32 struct {
	Value   float32
	Missing bool
}

func (v *ValueFloat32) Exists() bool     { return !v.Missing }
func (v *ValueFloat32) typeName() string { return "mutable.ValueFloat32" }
func (v *ValueFloat32) String() string   { return stringOf(v) }

func (v *ValueFloat32) Object() interface{} {
	if v.Missing {
		return nil
	}
	return v.Value
}

func (v *ValueFloat32) Copy(source Value) {
	*v = *source.(*ValueFloat32)
}

func (v *ValueFloat32) Duplicate() Value {
	ans := *v
	return &ans
}

func (v *ValueFloat32) EqualsSameType(other Value) bool {
	b := other.(*ValueFloat32)
	return float32Bits(v.Value) == float32Bits(b.Value) && v.Missing == b.Missing
}

func (v *ValueFloat32) CompareSameType(other Value) int {
	b := other.(*ValueFloat32)
	if c := CompareFloat32(v.Value, b.Value); c != 0 {
		return c
	}
	return compareExists(!v.Missing, !b.Missing)
}

func (v *ValueFloat32) Hash() uint32 {
	return uint32(float32Bits(v.Value))
}

// util/mutable/MutableValueDouble.java

type ValueFloat64 struct {
	Value   float64
	Missing bool
}

func (v *ValueFloat64) Exists() bool     { return !v.Missing }
func (v *ValueFloat64) typeName() string { return "mutable.ValueFloat64" }
func (v *ValueFloat64) String() string   { return stringOf(v) }

func (v *ValueFloat64) Object() interface{} {
	if v.Missing {
		return nil
	}
	return v.Value
}

func (v *ValueFloat64) Copy(source Value) {
	*v = *source.(*ValueFloat64)
}

func (v *ValueFloat64) Duplicate() Value {
	ans := *v
	return &ans
}

func (v *ValueFloat64) EqualsSameType(other Value) bool {
	b := other.(*ValueFloat64)
	return float64Bits(v.Value) == float64Bits(b.Value) && v.Missing == b.Missing
}

func (v *ValueFloat64) CompareSameType(other Value) int {
	b := other.(*ValueFloat64)
	if c := CompareFloat64(v.Value, b.Value); c != 0 {
		return c
	}
	return compareExists(!v.Missing, !b.Missing)
}

func (v *ValueFloat64) Hash() uint32 {
	bits := float64Bits(v.Value)
	return uint32(bits ^ bits>>32)
}

// util/mutable/MutableValueStr.java

/* Holds a byte string. A missing value holds no bytes. */
type ValueStr struct {
	Value   []byte
	Missing bool
}

func (v *ValueStr) Exists() bool     { return !v.Missing }
func (v *ValueStr) typeName() string { return "mutable.ValueStr" }
func (v *ValueStr) String() string   { return stringOf(v) }

func (v *ValueStr) Object() interface{} {
	if v.Missing {
		return nil
	}
	return string(v.Value)
}

func (v *ValueStr) Copy(source Value) {
	s := source.(*ValueStr)
	v.Value = append(v.Value[:0], s.Value...)
	v.Missing = s.Missing
}

func (v *ValueStr) Duplicate() Value {
	return &ValueStr{append([]byte(nil), v.Value...), v.Missing}
}

func (v *ValueStr) EqualsSameType(other Value) bool {
	b := other.(*ValueStr)
	return v.Missing == b.Missing && string(v.Value) == string(b.Value)
}

func (v *ValueStr) CompareSameType(other Value) int {
	b := other.(*ValueStr)
	if c := util.CompareBytes(v.Value, b.Value); c != 0 {
		return c
	}
	return compareExists(!v.Missing, !b.Missing)
}

func (v *ValueStr) Hash() uint32 {
	return util.MurmurHash3_x86_32(v.Value, util.GOOD_FAST_HASH_SEED)
}

/*
Compares float32 values like CompareFloat64 does.
*/
func CompareFloat32(a, b float32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return cmp.Compare(float32Bits(a), float32Bits(b))
}

/*
Total order over float64 values: -0 before +0, and NaN after every
other value, equal to itself.
*/
func CompareFloat64(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return cmp.Compare(float64Bits(a), float64Bits(b))
}

// raw bits with NaN collapsed to a single pattern
func float32Bits(f float32) int32 {
	if f != f {
		return 0x7fc00000
	}
	return int32(math.Float32bits(f))
}

func float64Bits(f float64) int64 {
	if f != f {
		return 0x7ff8000000000000
	}
	return int64(math.Float64bits(f))
}
