package vector

import (
	"encoding/binary"

	"github.com/factset/go-drill-vector/memory"
)

const (
	offsetWidth = 4
	// default payload reserved per value when AllocateNewBytes is given no
	// byte count
	defaultVarWidth = 8
)

// VarBinaryValues stores variable length byte strings as an offset table
// followed by a flat payload. Slot i spans payload[offset[i]:offset[i+1]].
//
// Values must be written in increasing index order. Skipped slots read back as
// empty once SetValueCount has been called.
type VarBinaryValues struct {
	alloc memory.Allocator
	typ   MinorType

	offsets *memory.Buffer
	data    *memory.Buffer

	valueCount    int
	valueCapacity int
	byteCapacity  int
	lastSet       int
}

// NewVarBinaryValues returns an empty store. Object returns strings for
// MinorTypeVarChar and byte slices for everything else.
func NewVarBinaryValues(alloc memory.Allocator, typ MinorType) *VarBinaryValues {
	return &VarBinaryValues{alloc: alloc, typ: typ, lastSet: -1}
}

func (v *VarBinaryValues) offset(index int) int {
	return int(binary.LittleEndian.Uint32(v.offsets.Bytes()[index*offsetWidth:]))
}

func (v *VarBinaryValues) setOffset(index, off int) {
	binary.LittleEndian.PutUint32(v.offsets.Bytes()[index*offsetWidth:], uint32(off))
}

// fillEmpties gives every slot after lastSet and before index a zero length.
func (v *VarBinaryValues) fillEmpties(index int) {
	for i := v.lastSet + 1; i < index; i++ {
		v.setOffset(i+1, v.offset(i))
	}
}

// Get returns the bytes of slot index without copying.
func (v *VarBinaryValues) Get(index int) []byte {
	return v.data.Bytes()[v.offset(index):v.offset(index+1)]
}

// Set writes value into slot index. It panics with a *ContractViolation when
// index goes backwards or the payload would outgrow ByteCapacity.
func (v *VarBinaryValues) Set(index int, value []byte) {
	if index < v.lastSet {
		panic(contractViolation("set", "slot %d written after slot %d", index, v.lastSet))
	}

	v.fillEmpties(index)
	start := v.offset(index)
	end := start + len(value)
	if end > v.byteCapacity {
		panic(contractViolation("set", "%d bytes at slot %d exceed byte capacity %d", len(value), index, v.byteCapacity))
	}

	copy(v.data.Bytes()[start:end], value)
	v.setOffset(index+1, end)
	v.lastSet = index
}

func (v *VarBinaryValues) Object(index int) interface{} {
	if v.typ == MinorTypeVarChar {
		return string(v.Get(index))
	}
	return append([]byte(nil), v.Get(index)...)
}

func (v *VarBinaryValues) Allocate(totalBytes, valueCount int) error {
	v.Clear()
	if valueCount < 0 {
		return contractViolation("allocate", "negative value count %d", valueCount)
	}
	if totalBytes <= 0 {
		totalBytes = valueCount * defaultVarWidth
	}

	offsets, err := v.alloc.Allocate((valueCount + 1) * offsetWidth)
	if err != nil {
		return err
	}
	data, err := v.alloc.Allocate(totalBytes)
	if err != nil {
		offsets.Release()
		return err
	}

	v.offsets, v.data = offsets, data
	v.valueCapacity = valueCount
	v.byteCapacity = totalBytes
	return nil
}

func (v *VarBinaryValues) Clear() {
	if v.offsets != nil {
		v.offsets.Release()
		v.offsets = nil
	}
	if v.data != nil {
		v.data.Release()
		v.data = nil
	}
	v.valueCount = 0
	v.valueCapacity = 0
	v.byteCapacity = 0
	v.lastSet = -1
}

// VarByteLength is the number of payload bytes used by the first ValueCount
// slots.
func (v *VarBinaryValues) VarByteLength() int {
	if v.valueCount == 0 || v.offsets == nil {
		return 0
	}
	return v.offset(v.valueCount)
}

func (v *VarBinaryValues) ByteCapacity() int {
	return v.byteCapacity
}

// BufferSize is zero for an empty store, otherwise the offset table for
// ValueCount slots plus the payload.
func (v *VarBinaryValues) BufferSize() int {
	if v.valueCount == 0 {
		return 0
	}
	return (v.valueCount+1)*offsetWidth + v.VarByteLength()
}

func (v *VarBinaryValues) Buffers() []*memory.Buffer {
	if v.valueCount == 0 || v.offsets == nil {
		return []*memory.Buffer{memory.NewBufferBytes(nil), memory.NewBufferBytes(nil)}
	}
	return []*memory.Buffer{
		memory.SliceBuffer(v.offsets, 0, (v.valueCount+1)*offsetWidth),
		memory.SliceBuffer(v.data, 0, v.VarByteLength()),
	}
}

func (v *VarBinaryValues) Load(dataBytes, valueCount int, buf *memory.Buffer) (int, error) {
	v.Clear()
	if valueCount == 0 {
		if dataBytes != 0 {
			return 0, corruptWireData("%d payload bytes declared for zero values", dataBytes)
		}
		return 0, nil
	}

	offN := (valueCount + 1) * offsetWidth
	if dataBytes < 0 || buf.Len() < offN+dataBytes {
		return 0, corruptWireData("%d values with %d payload bytes need %d bytes, buffer has %d",
			valueCount, dataBytes, offN+dataBytes, buf.Len())
	}

	if err := checkOffsets(buf.Bytes()[:offN], dataBytes); err != nil {
		return 0, err
	}

	v.offsets = memory.SliceBuffer(buf, 0, offN)
	v.data = memory.SliceBuffer(buf, offN, dataBytes)
	v.valueCount = valueCount
	v.valueCapacity = valueCount
	v.byteCapacity = dataBytes
	v.lastSet = valueCount - 1
	return offN + dataBytes, nil
}

// checkOffsets verifies that table starts at zero, never decreases and ends
// exactly at dataBytes.
func checkOffsets(table []byte, dataBytes int) error {
	prev := 0
	for i := 0; i < len(table); i += offsetWidth {
		off := int(binary.LittleEndian.Uint32(table[i:]))
		switch {
		case i == 0 && off != 0:
			return corruptWireData("offset table starts at %d", off)
		case off < prev:
			return corruptWireData("offset %d is %d, before previous offset %d", i/offsetWidth, off, prev)
		case off > dataBytes:
			return corruptWireData("offset %d is %d, past the %d byte payload", i/offsetWidth, off, dataBytes)
		}
		prev = off
	}
	if prev != dataBytes {
		return corruptWireData("offset table ends at %d, payload is %d bytes", prev, dataBytes)
	}
	return nil
}

func (v *VarBinaryValues) TransferTo(target ElementStore[[]byte]) error {
	t, ok := target.(*VarBinaryValues)
	if !ok {
		return mismatchedStore("transfer", v, target)
	}

	t.Clear()
	t.offsets, t.data = v.offsets, v.data
	t.valueCount, t.valueCapacity = v.valueCount, v.valueCapacity
	t.byteCapacity, t.lastSet = v.byteCapacity, v.lastSet
	v.offsets, v.data = nil, nil
	v.Clear()
	return nil
}

func (v *VarBinaryValues) CopyFrom(inIndex, outIndex int, from ElementStore[[]byte]) error {
	src, ok := from.(*VarBinaryValues)
	if !ok {
		return mismatchedStore("copy", v, from)
	}
	v.Set(outIndex, src.Get(inIndex))
	return nil
}

// SetValueCount fixes the logical length, giving unwritten slots below n an
// empty value.
func (v *VarBinaryValues) SetValueCount(n int) {
	if v.offsets != nil {
		v.fillEmpties(n)
	}
	if n-1 < v.lastSet {
		v.lastSet = n - 1
	}
	v.valueCount = n
}

func (v *VarBinaryValues) ValueCount() int    { return v.valueCount }
func (v *VarBinaryValues) ValueCapacity() int { return v.valueCapacity }

func (v *VarBinaryValues) generateTestData(valueCount int) {
	pattern := []byte("drill")
	for i := 0; i < valueCount; i++ {
		n := i % (len(pattern) + 1)
		if v.offset(i)+n > v.byteCapacity {
			n = 0
		}
		v.Set(i, pattern[:n])
	}
	v.SetValueCount(valueCount)
}
