package vector

import "github.com/factset/go-drill-vector/memory"

// BitValues stores booleans packed one per bit, the layout of a Drill BIT
// column. It shares its buffer handling with ValidityBitmap.
type BitValues struct {
	bits ValidityBitmap
}

func NewBitValues(alloc memory.Allocator) *BitValues {
	return &BitValues{bits: ValidityBitmap{alloc: alloc}}
}

func (b *BitValues) Get(index int) bool {
	return b.bits.Get(index) == 1
}

func (b *BitValues) Set(index int, value bool) {
	if value {
		b.bits.Set(index, 1)
	} else {
		b.bits.Set(index, 0)
	}
}

func (b *BitValues) Object(index int) interface{} {
	return b.Get(index)
}

func (b *BitValues) Allocate(_, valueCount int) error { return b.bits.Allocate(valueCount) }
func (b *BitValues) Clear()                           { b.bits.Clear() }
func (b *BitValues) BufferSize() int                  { return b.bits.BufferSize() }
func (b *BitValues) SetValueCount(n int)              { b.bits.SetValueCount(n) }
func (b *BitValues) ValueCount() int                  { return b.bits.ValueCount() }
func (b *BitValues) ValueCapacity() int               { return b.bits.ValueCapacity() }

func (b *BitValues) Buffers() []*memory.Buffer {
	return []*memory.Buffer{b.bits.Buffer()}
}

func (b *BitValues) Load(_, valueCount int, buf *memory.Buffer) (int, error) {
	return b.bits.Load(valueCount, buf)
}

func (b *BitValues) TransferTo(target ElementStore[bool]) error {
	t, ok := target.(*BitValues)
	if !ok {
		return mismatchedStore("transfer", b, target)
	}
	b.bits.TransferTo(&t.bits)
	return nil
}

func (b *BitValues) CopyFrom(inIndex, outIndex int, from ElementStore[bool]) error {
	src, ok := from.(*BitValues)
	if !ok {
		return mismatchedStore("copy", b, from)
	}
	b.bits.CopyFrom(inIndex, outIndex, &src.bits)
	return nil
}

func (b *BitValues) generateTestData(valueCount int) {
	b.bits.generateTestData(valueCount)
}
