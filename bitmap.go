package vector

import (
	"github.com/apache/arrow-go/v18/arrow/bitutil"

	"github.com/factset/go-drill-vector/memory"
)

// ValidityBitmap tracks one bit per value slot, 1 for a present value and 0
// for null. Bits are packed least significant bit first, which is also the
// layout arrow uses for its validity buffers.
type ValidityBitmap struct {
	alloc memory.Allocator

	buf           *memory.Buffer
	valueCount    int
	valueCapacity int
}

// NewValidityBitmap returns an empty bitmap that allocates from alloc.
func NewValidityBitmap(alloc memory.Allocator) *ValidityBitmap {
	return &ValidityBitmap{alloc: alloc}
}

// Allocate releases the current buffer and reserves zeroed room for
// valueCount bits.
func (b *ValidityBitmap) Allocate(valueCount int) error {
	b.Clear()
	if valueCount < 0 {
		return contractViolation("allocate", "negative value count %d", valueCount)
	}

	buf, err := b.alloc.Allocate(bitutil.CeilByte(valueCount) / 8)
	if err != nil {
		return err
	}

	b.buf = buf
	b.valueCapacity = valueCount
	return nil
}

// Get returns the bit at index as 0 or 1.
func (b *ValidityBitmap) Get(index int) int {
	if bitutil.BitIsSet(b.buf.Bytes(), index) {
		return 1
	}
	return 0
}

// Set writes the bit at index, any non-zero value sets it.
func (b *ValidityBitmap) Set(index, value int) {
	bitutil.SetBitTo(b.buf.Bytes(), index, value != 0)
}

// CopyFrom copies bit inIndex of from into bit outIndex of b.
func (b *ValidityBitmap) CopyFrom(inIndex, outIndex int, from *ValidityBitmap) {
	b.Set(outIndex, from.Get(inIndex))
}

func (b *ValidityBitmap) SetValueCount(n int) {
	b.valueCount = n
}

func (b *ValidityBitmap) ValueCount() int {
	return b.valueCount
}

// ValueCapacity is the number of slots that were reserved, not the number of
// bits the rounded up buffer could physically hold.
func (b *ValidityBitmap) ValueCapacity() int {
	return b.valueCapacity
}

// BufferSize is the number of bytes needed to serialize ValueCount bits.
func (b *ValidityBitmap) BufferSize() int {
	return bitutil.CeilByte(b.valueCount) / 8
}

// Buffer returns a new reference to the occupied bytes. It does not clear the
// bitmap; the caller releases the returned reference.
func (b *ValidityBitmap) Buffer() *memory.Buffer {
	if b.buf == nil {
		return memory.NewBufferBytes(nil)
	}
	return memory.SliceBuffer(b.buf, 0, b.BufferSize())
}

// Load reads valueCount bits from the front of buf without copying. It returns
// the number of bytes consumed.
func (b *ValidityBitmap) Load(valueCount int, buf *memory.Buffer) (int, error) {
	b.Clear()
	n := bitutil.CeilByte(valueCount) / 8
	if buf.Len() < n {
		return 0, corruptWireData("validity bitmap needs %d bytes, buffer has %d", n, buf.Len())
	}

	b.buf = memory.SliceBuffer(buf, 0, n)
	b.valueCount = valueCount
	b.valueCapacity = valueCount
	return n, nil
}

// TransferTo moves the buffer into target, which is cleared first, and leaves
// b empty.
func (b *ValidityBitmap) TransferTo(target *ValidityBitmap) {
	target.Clear()
	target.buf, target.valueCount, target.valueCapacity = b.buf, b.valueCount, b.valueCapacity
	b.buf = nil
	b.Clear()
}

// NullCount counts the zero bits among the first ValueCount slots.
func (b *ValidityBitmap) NullCount() int {
	if b.buf == nil {
		return 0
	}
	return b.valueCount - bitutil.CountSetBits(b.buf.Bytes(), 0, b.valueCount)
}

// Clear releases the buffer. It is safe to call on an empty bitmap.
func (b *ValidityBitmap) Clear() {
	if b.buf != nil {
		b.buf.Release()
		b.buf = nil
	}
	b.valueCount = 0
	b.valueCapacity = 0
}

// generateTestData sets every other bit starting with the first one.
func (b *ValidityBitmap) generateTestData(valueCount int) {
	for i := 0; i < valueCount; i++ {
		b.Set(i, (i+1)%2)
	}
	b.valueCount = valueCount
}
