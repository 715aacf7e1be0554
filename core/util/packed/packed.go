/*
Package packed stores sequences of unsigned integers using a fixed
number of bits per value. Values are laid out back to back, most
significant bit first, so a stream of valueCount values takes
ByteCount(valueCount, bitsPerValue) bytes.
*/
package packed

import (
	"fmt"

	"github.com/ironsweet/docvalues/core/util"
)

/* Returns how many bits are required to hold values up to and including maxValue, treated as unsigned. */
func UnsignedBitsRequired(maxValue int64) int {
	if maxValue == 0 {
		return 1
	}
	return util.BitsRequired(uint64(maxValue))
}

/* Returns the number of bytes needed to store valueCount values of bitsPerValue bits. */
func ByteCount(valueCount, bitsPerValue int) int64 {
	return (int64(valueCount)*int64(bitsPerValue) + 7) >> 3
}

/* Appends fixed-width values to a DataOutput. */
type Writer struct {
	out          util.DataWriter
	bitsPerValue int
	valueCount   int
	written      int
	current      byte
	bitsUsed     int
}

func NewWriter(out util.DataWriter, valueCount, bitsPerValue int) *Writer {
	assert2(bitsPerValue > 0 && bitsPerValue <= 64, "bitsPerValue must be in [1, 64], got %v", bitsPerValue)
	return &Writer{out: out, bitsPerValue: bitsPerValue, valueCount: valueCount}
}

func (w *Writer) Add(v int64) error {
	assert2(w.bitsPerValue == 64 || uint64(v)>>uint(w.bitsPerValue) == 0,
		"value %v does not fit in %v bits", v, w.bitsPerValue)
	assert2(w.written < w.valueCount, "too many values, expected %v", w.valueCount)
	for remaining := w.bitsPerValue; remaining > 0; {
		space := 8 - w.bitsUsed
		take := space
		if remaining < take {
			take = remaining
		}
		bits := (uint64(v) >> uint(remaining-take)) & (1<<uint(take) - 1)
		w.current |= byte(bits << uint(space-take))
		w.bitsUsed += take
		remaining -= take
		if w.bitsUsed == 8 {
			if err := w.out.WriteByte(w.current); err != nil {
				return err
			}
			w.current, w.bitsUsed = 0, 0
		}
	}
	w.written++
	return nil
}

/* Flushes the pending partial byte. Must be called after the last Add. */
func (w *Writer) Finish() error {
	assert2(w.written == w.valueCount, "expected %v values, got %v", w.valueCount, w.written)
	if w.bitsUsed > 0 {
		if err := w.out.WriteByte(w.current); err != nil {
			return err
		}
		w.current, w.bitsUsed = 0, 0
	}
	return nil
}

/*
Random access over values written by Writer. The backing slice is
never modified, so any number of goroutines may call Get.
*/
type Reader struct {
	data         []byte
	bitsPerValue int
	valueCount   int
}

func NewReader(data []byte, valueCount, bitsPerValue int) (*Reader, error) {
	if bitsPerValue < 0 || bitsPerValue > 64 {
		return nil, fmt.Errorf("invalid bitsPerValue: %v", bitsPerValue)
	}
	if int64(len(data)) < ByteCount(valueCount, bitsPerValue) {
		return nil, fmt.Errorf("packed block too short: %v bytes for %v values of %v bits",
			len(data), valueCount, bitsPerValue)
	}
	return &Reader{data, bitsPerValue, valueCount}, nil
}

func (r *Reader) Size() int { return r.valueCount }

func (r *Reader) Get(index int) int64 {
	assert2(index >= 0 && index < r.valueCount, "index %v out of bounds [0,%v)", index, r.valueCount)
	if r.bitsPerValue == 0 {
		return 0
	}
	bitPos := int64(index) * int64(r.bitsPerValue)
	bytePos, bitOff := bitPos>>3, int(bitPos&7)
	var v uint64
	for remaining := r.bitsPerValue; remaining > 0; bytePos++ {
		avail := 8 - bitOff
		take := avail
		if remaining < take {
			take = remaining
		}
		bits := (uint64(r.data[bytePos]) >> uint(avail-take)) & (1<<uint(take) - 1)
		v = v<<uint(take) | bits
		remaining -= take
		bitOff = 0
	}
	return int64(v)
}

func assert2(ok bool, msg string, args ...interface{}) {
	if !ok {
		panic(fmt.Sprintf(msg, args...))
	}
}
