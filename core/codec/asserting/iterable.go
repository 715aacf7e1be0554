package asserting

import (
	. "github.com/ironsweet/docvalues/core/codec/spi"
	. "github.com/ironsweet/docvalues/core/index/model"
)

// Every pass over a guarded sequence gets its own checked iterator.
// Iterators cannot remove elements, so only the Next/Value protocol
// needs checking.

func guardNumeric(field *FieldInfo, what string, values NumericIterable) NumericIterable {
	return func() NumericIterator {
		it := values()
		check(it != nil, "field %v: nil iterator over %v", field.Name, what)
		return &assertingNumericIterator{in: it, state: &iteratorState{field: field, what: what}}
	}
}

type iteratorState struct {
	field     *FieldInfo
	what      string
	index     int
	started   bool
	exhausted bool
}

func (s *iteratorState) next(more bool) bool {
	check(!s.exhausted || !more, "field %v: %v iterator resumed after exhaustion", s.field.Name, s.what)
	if s.started && !s.exhausted {
		s.index++
	}
	s.started = true
	if !more {
		s.exhausted = true
	}
	return more
}

func (s *iteratorState) checkValue() {
	check(s.started, "field %v: Value called before Next on %v", s.field.Name, s.what)
	check(!s.exhausted, "field %v: Value called on exhausted %v iterator (%v elements)", s.field.Name, s.what, s.index)
}

type assertingNumericIterator struct {
	in    NumericIterator
	state *iteratorState
}

func (it *assertingNumericIterator) Next() bool {
	return it.state.next(it.in.Next())
}

func (it *assertingNumericIterator) Value() (int64, bool) {
	it.state.checkValue()
	return it.in.Value()
}

func guardBytes(field *FieldInfo, what string, values BytesIterable) BytesIterable {
	return func() BytesIterator {
		it := values()
		check(it != nil, "field %v: nil iterator over %v", field.Name, what)
		return &assertingBytesIterator{in: it, state: &iteratorState{field: field, what: what}}
	}
}

type assertingBytesIterator struct {
	in    BytesIterator
	state *iteratorState
}

func (it *assertingBytesIterator) Next() bool {
	return it.state.next(it.in.Next())
}

func (it *assertingBytesIterator) Value() []byte {
	it.state.checkValue()
	return it.in.Value()
}
