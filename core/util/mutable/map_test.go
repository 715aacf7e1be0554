package mutable

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapByValue(t *testing.T) {
	m := NewMap[int](4)
	m.Put(&ValueStr{Value: []byte("a")}, 1)
	m.Put(&ValueStr{Missing: true}, 2)
	m.Put(&ValueInt64{Value: 7}, 3)
	m.Put(&ValueStr{Value: []byte("b")}, 4)
	assert.Equal(t, 4, m.Len())

	v, ok := m.Get(&ValueStr{Value: []byte("a")})
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	// the missing string differs from the empty one
	_, ok = m.Get(&ValueStr{})
	assert.False(t, ok)
	v, _ = m.Get(&ValueStr{Missing: true})
	assert.Equal(t, 2, v)
	// same number, other type
	_, ok = m.Get(&ValueInt32{Value: 7})
	assert.False(t, ok)

	m.Put(&ValueInt64{Value: 7}, 30)
	assert.Equal(t, 4, m.Len())
	v, _ = m.Get(&ValueInt64{Value: 7})
	assert.Equal(t, 30, v)

	assert.True(t, m.Remove(&ValueStr{Value: []byte("a")}))
	assert.False(t, m.Remove(&ValueStr{Value: []byte("a")}))
	m.Put(&ValueStr{Value: []byte("c")}, 5)

	var keys []string
	m.Each(func(key Value, _ int) bool {
		keys = append(keys, key.String())
		return true
	})
	// freed entries are reused
	assert.Equal(t, []string{"c", "(null)", "7", "b"}, keys)

	var first []string
	m.Each(func(key Value, _ int) bool {
		first = append(first, key.String())
		return false
	})
	assert.Len(t, first, 1)
}
