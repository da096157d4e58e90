package vector

import (
	"encoding/binary"
	"math"

	"github.com/factset/go-drill-vector/memory"
)

// fixedBuffer is the single data buffer shared by every fixed-width store.
type fixedBuffer struct {
	alloc memory.Allocator
	width int

	buf           *memory.Buffer
	valueCount    int
	valueCapacity int
}

func (f *fixedBuffer) allocate(valueCount int) error {
	f.clear()
	if valueCount < 0 {
		return contractViolation("allocate", "negative value count %d", valueCount)
	}

	buf, err := f.alloc.Allocate(valueCount * f.width)
	if err != nil {
		return err
	}
	f.buf = buf
	f.valueCapacity = valueCount
	return nil
}

func (f *fixedBuffer) slot(index int) []byte {
	start := index * f.width
	return f.buf.Bytes()[start : start+f.width]
}

func (f *fixedBuffer) bufferSize() int {
	return f.valueCount * f.width
}

func (f *fixedBuffer) buffers() []*memory.Buffer {
	if f.buf == nil {
		return []*memory.Buffer{memory.NewBufferBytes(nil)}
	}
	return []*memory.Buffer{memory.SliceBuffer(f.buf, 0, f.bufferSize())}
}

func (f *fixedBuffer) load(valueCount int, buf *memory.Buffer) (int, error) {
	f.clear()
	n := valueCount * f.width
	if buf.Len() < n {
		return 0, corruptWireData("%d values of width %d need %d bytes, buffer has %d", valueCount, f.width, n, buf.Len())
	}

	f.buf = memory.SliceBuffer(buf, 0, n)
	f.valueCount = valueCount
	f.valueCapacity = valueCount
	return n, nil
}

func (f *fixedBuffer) transferTo(target *fixedBuffer) {
	target.clear()
	target.buf, target.valueCount, target.valueCapacity = f.buf, f.valueCount, f.valueCapacity
	f.buf = nil
	f.clear()
}

func (f *fixedBuffer) copySlot(inIndex, outIndex int, from *fixedBuffer) {
	copy(f.slot(outIndex), from.slot(inIndex))
}

func (f *fixedBuffer) clear() {
	if f.buf != nil {
		f.buf.Release()
		f.buf = nil
	}
	f.valueCount = 0
	f.valueCapacity = 0
}

// FixedValues stores little-endian numbers of one Go type.
type FixedValues[T Numeric] struct {
	fixedBuffer

	get    func([]byte) T
	put    func([]byte, T)
	object func(T) interface{}
}

// NewFixedValues returns an empty store for T. If object is not nil it is used
// to convert values for Object.
func NewFixedValues[T Numeric](alloc memory.Allocator, object func(T) interface{}) *FixedValues[T] {
	width, get, put := numericCodec[T]()
	return &FixedValues[T]{
		fixedBuffer: fixedBuffer{alloc: alloc, width: width},
		get:         get,
		put:         put,
		object:      object,
	}
}

func numericCodec[T Numeric]() (int, func([]byte) T, func([]byte, T)) {
	var zero T
	le := binary.LittleEndian
	switch any(zero).(type) {
	case int8:
		return 1, func(b []byte) T { return T(int8(b[0])) }, func(b []byte, v T) { b[0] = byte(int8(v)) }
	case uint8:
		return 1, func(b []byte) T { return T(b[0]) }, func(b []byte, v T) { b[0] = uint8(v) }
	case int16:
		return 2, func(b []byte) T { return T(int16(le.Uint16(b))) }, func(b []byte, v T) { le.PutUint16(b, uint16(int16(v))) }
	case uint16:
		return 2, func(b []byte) T { return T(le.Uint16(b)) }, func(b []byte, v T) { le.PutUint16(b, uint16(v)) }
	case int32:
		return 4, func(b []byte) T { return T(int32(le.Uint32(b))) }, func(b []byte, v T) { le.PutUint32(b, uint32(int32(v))) }
	case uint32:
		return 4, func(b []byte) T { return T(le.Uint32(b)) }, func(b []byte, v T) { le.PutUint32(b, uint32(v)) }
	case int64:
		return 8, func(b []byte) T { return T(int64(le.Uint64(b))) }, func(b []byte, v T) { le.PutUint64(b, uint64(int64(v))) }
	case uint64:
		return 8, func(b []byte) T { return T(le.Uint64(b)) }, func(b []byte, v T) { le.PutUint64(b, uint64(v)) }
	case float32:
		return 4, func(b []byte) T { return T(math.Float32frombits(le.Uint32(b))) }, func(b []byte, v T) { le.PutUint32(b, math.Float32bits(float32(v))) }
	default:
		return 8, func(b []byte) T { return T(math.Float64frombits(le.Uint64(b))) }, func(b []byte, v T) { le.PutUint64(b, math.Float64bits(float64(v))) }
	}
}

func (f *FixedValues[T]) Get(index int) T {
	return f.get(f.slot(index))
}

func (f *FixedValues[T]) Set(index int, value T) {
	f.put(f.slot(index), value)
}

func (f *FixedValues[T]) Object(index int) interface{} {
	if f.object != nil {
		return f.object(f.Get(index))
	}
	return f.Get(index)
}

func (f *FixedValues[T]) Allocate(_, valueCount int) error { return f.allocate(valueCount) }
func (f *FixedValues[T]) Clear()                           { f.clear() }
func (f *FixedValues[T]) Buffers() []*memory.Buffer        { return f.buffers() }
func (f *FixedValues[T]) BufferSize() int                  { return f.bufferSize() }
func (f *FixedValues[T]) SetValueCount(n int)              { f.valueCount = n }
func (f *FixedValues[T]) ValueCount() int                  { return f.valueCount }
func (f *FixedValues[T]) ValueCapacity() int               { return f.valueCapacity }

func (f *FixedValues[T]) Load(_, valueCount int, buf *memory.Buffer) (int, error) {
	return f.load(valueCount, buf)
}

func (f *FixedValues[T]) TransferTo(target ElementStore[T]) error {
	t, ok := target.(*FixedValues[T])
	if !ok {
		return mismatchedStore("transfer", f, target)
	}
	f.transferTo(&t.fixedBuffer)
	return nil
}

func (f *FixedValues[T]) CopyFrom(inIndex, outIndex int, from ElementStore[T]) error {
	src, ok := from.(*FixedValues[T])
	if !ok {
		return mismatchedStore("copy", f, from)
	}
	f.copySlot(inIndex, outIndex, &src.fixedBuffer)
	return nil
}

func (f *FixedValues[T]) generateTestData(valueCount int) {
	for i := 0; i < valueCount; i++ {
		f.Set(i, T(i))
	}
	f.valueCount = valueCount
}

// FixedBytesValues stores fixed size byte slots such as decimals and
// intervals, which have no native Go type.
type FixedBytesValues struct {
	fixedBuffer

	object func([]byte) interface{}
}

// NewFixedBytesValues returns an empty store with width byte slots.
func NewFixedBytesValues(alloc memory.Allocator, width int, object func([]byte) interface{}) *FixedBytesValues {
	return &FixedBytesValues{
		fixedBuffer: fixedBuffer{alloc: alloc, width: width},
		object:      object,
	}
}

// Width is the size of one slot in bytes.
func (f *FixedBytesValues) Width() int {
	return f.width
}

// Get returns the slot itself, not a copy.
func (f *FixedBytesValues) Get(index int) []byte {
	return f.slot(index)
}

// Set copies value into the slot, a short value leaves the tail zeroed.
func (f *FixedBytesValues) Set(index int, value []byte) {
	s := f.slot(index)
	n := copy(s, value)
	clear(s[n:])
}

func (f *FixedBytesValues) Object(index int) interface{} {
	if f.object != nil {
		return f.object(f.Get(index))
	}
	return append([]byte(nil), f.Get(index)...)
}

func (f *FixedBytesValues) Allocate(_, valueCount int) error { return f.allocate(valueCount) }
func (f *FixedBytesValues) Clear()                           { f.clear() }
func (f *FixedBytesValues) Buffers() []*memory.Buffer        { return f.buffers() }
func (f *FixedBytesValues) BufferSize() int                  { return f.bufferSize() }
func (f *FixedBytesValues) SetValueCount(n int)              { f.valueCount = n }
func (f *FixedBytesValues) ValueCount() int                  { return f.valueCount }
func (f *FixedBytesValues) ValueCapacity() int               { return f.valueCapacity }

func (f *FixedBytesValues) Load(_, valueCount int, buf *memory.Buffer) (int, error) {
	return f.load(valueCount, buf)
}

func (f *FixedBytesValues) TransferTo(target ElementStore[[]byte]) error {
	t, ok := target.(*FixedBytesValues)
	if !ok || t.width != f.width {
		return mismatchedStore("transfer", f, target)
	}
	f.transferTo(&t.fixedBuffer)
	return nil
}

func (f *FixedBytesValues) CopyFrom(inIndex, outIndex int, from ElementStore[[]byte]) error {
	src, ok := from.(*FixedBytesValues)
	if !ok || src.width != f.width {
		return mismatchedStore("copy", f, from)
	}
	f.copySlot(inIndex, outIndex, &src.fixedBuffer)
	return nil
}

func (f *FixedBytesValues) generateTestData(valueCount int) {
	for i := 0; i < valueCount; i++ {
		s := f.slot(i)
		for j := range s {
			s[j] = byte(i + j)
		}
	}
	f.valueCount = valueCount
}
