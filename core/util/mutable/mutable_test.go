package mutable

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func allValues() []Value {
	return []Value{
		&ValueBool{Value: true},
		&ValueInt32{Value: -7},
		&ValueInt64{Value: 1 << 40},
		&ValueFloat32{Value: 1.5},
		&ValueFloat64{Value: -2.25},
		&ValueStr{Value: []byte("red")},
		&ValueStr{Missing: true},
		&ValueInt64{Missing: true},
	}
}

func TestDuplicateIsIndependent(t *testing.T) {
	for _, v := range allValues() {
		dup := v.Duplicate()
		assert.True(t, Equals(dup, v), "%T", v)
		assert.Equal(t, v.Hash(), dup.Hash(), "%T", v)
		assert.Equal(t, 0, CompareTo(v, dup), "%T", v)
	}

	a := &ValueStr{Value: []byte("blue")}
	dup := a.Duplicate()
	a.Value[0] = 'g'
	a.Value = append(a.Value, 'x')
	assert.Equal(t, "blue", dup.String())

	n := &ValueInt64{Value: 3}
	dupN := n.Duplicate()
	n.Value, n.Missing = 4, true
	assert.Equal(t, int64(3), dupN.Object())
}

func TestCopy(t *testing.T) {
	for _, v := range allValues() {
		target := v.Duplicate()
		// scribble over the target through a value of another state
		switch x := target.(type) {
		case *ValueStr:
			x.Value, x.Missing = []byte("something longer"), !x.Missing
		case *ValueInt64:
			x.Value, x.Missing = 99, !x.Missing
		}
		target.Copy(v)
		assert.True(t, Equals(target, v), "%T", v)
	}

	s := &ValueStr{Value: make([]byte, 0, 16)}
	s.Copy(&ValueStr{Value: []byte("abc")})
	assert.Equal(t, 16, cap(s.Value))
	assert.Panics(t, func() { s.Copy(&ValueInt32{}) })
}

func TestMissingOrdersFirst(t *testing.T) {
	present := &ValueInt32{Value: 0}
	missing := &ValueInt32{Missing: true}
	assert.Equal(t, -1, CompareTo(missing, present))
	assert.Equal(t, 1, CompareTo(present, missing))
	assert.False(t, Equals(missing, present))
	assert.Nil(t, missing.Object())
	assert.Equal(t, "(null)", missing.String())
	assert.Equal(t, int32(0), present.Object())
	assert.Equal(t, "0", present.String())

	assert.Equal(t, -1, CompareTo(&ValueBool{Missing: true}, &ValueBool{}))
	assert.Equal(t, -1, CompareTo(&ValueBool{}, &ValueBool{Value: true}))
	assert.Equal(t, -1, CompareTo(&ValueStr{Missing: true}, &ValueStr{}))
	assert.Equal(t, -1, CompareTo(&ValueStr{Value: []byte("a")}, &ValueStr{Value: []byte("ab")}))
}

func TestCrossTypeOrderIsAntisymmetric(t *testing.T) {
	values := allValues()
	for _, a := range values {
		for _, b := range values {
			ab, ba := CompareTo(a, b), CompareTo(b, a)
			assert.Equal(t, sign(ab), -sign(ba), "%v %v", a, b)
			if a.typeName() != b.typeName() {
				assert.NotZero(t, ab)
				assert.False(t, Equals(a, b))
			}
		}
	}
	// same numeric value, different types
	assert.False(t, Equals(&ValueInt32{Value: 1}, &ValueInt64{Value: 1}))
}

func sign(c int) int {
	switch {
	case c < 0:
		return -1
	case c > 0:
		return 1
	}
	return 0
}

func TestFloatBitSemantics(t *testing.T) {
	nan := &ValueFloat64{Value: math.NaN()}
	assert.True(t, Equals(nan, nan.Duplicate()))
	assert.Equal(t, nan.Hash(), (&ValueFloat64{Value: -math.NaN()}).Hash())
	assert.Equal(t, 1, CompareTo(nan, &ValueFloat64{Value: math.Inf(1)}))

	negZero := &ValueFloat64{Value: math.Copysign(0, -1)}
	zero := &ValueFloat64{}
	assert.False(t, Equals(negZero, zero))
	assert.Equal(t, -1, CompareTo(negZero, zero))

	f := &ValueFloat32{Value: float32(math.NaN())}
	assert.True(t, Equals(f, f.Duplicate()))
	assert.Equal(t, -1, CompareFloat32(float32(math.Copysign(0, -1)), 0))
	assert.Equal(t, -1, CompareFloat32(1, 2))
}

func TestHashConsistentWithEquals(t *testing.T) {
	a := &ValueStr{Value: []byte("color/red")}
	b := &ValueStr{Value: append(make([]byte, 0, 32), "color/red"...)}
	assert.True(t, Equals(a, b))
	assert.Equal(t, a.Hash(), b.Hash())

	assert.Equal(t, (&ValueInt64{Value: -1}).Hash(), (&ValueInt64{Value: -1}).Hash())
	assert.NotEqual(t, (&ValueBool{}).Hash(), (&ValueBool{Missing: true}).Hash())
}
