package vector

import "github.com/factset/go-drill-vector/memory"

// StoreFactory creates an empty element store bound to an allocator. Vectors
// keep their factory so they can build siblings for transfer pairs.
type StoreFactory[T any] func(alloc memory.Allocator) ElementStore[T]

// NullableVector is a column of T in which every slot may be null. It pairs a
// ValidityBitmap with an ElementStore, both allocated from the same allocator
// and always sized together.
//
// A NullableVector is not safe for concurrent use. Reads through the Accessor
// are expected to start only after the Mutator has set the value count.
type NullableVector[T any] struct {
	field    FieldDescriptor
	alloc    memory.Allocator
	newStore StoreFactory[T]

	bits   *ValidityBitmap
	values ElementStore[T]

	valueCount int
	accessor   *Accessor[T]
	mutator    *Mutator[T]
}

// NewNullableVector creates an empty vector for field. The vector has no
// capacity until one of the allocate methods is called.
func NewNullableVector[T any](field FieldDescriptor, alloc memory.Allocator, newStore StoreFactory[T]) *NullableVector[T] {
	v := &NullableVector[T]{
		field:    field,
		alloc:    alloc,
		newStore: newStore,
		bits:     NewValidityBitmap(alloc),
		values:   newStore(alloc),
	}
	v.accessor = &Accessor[T]{v: v}
	v.mutator = &Mutator[T]{v: v}
	return v
}

func (v *NullableVector[T]) Field() FieldDescriptor { return v.field }

func (v *NullableVector[T]) Accessor() *Accessor[T] { return v.accessor }

func (v *NullableVector[T]) Mutator() *Mutator[T] { return v.mutator }

// AllocateNew reserves room for valueCount values. Variable-width vectors get
// a default payload size per value.
func (v *NullableVector[T]) AllocateNew(valueCount int) error {
	return v.AllocateNewBytes(0, valueCount)
}

// AllocateNewBytes reserves room for valueCount values and, for variable-width
// vectors, totalBytes of payload. On failure the vector is left empty.
func (v *NullableVector[T]) AllocateNewBytes(totalBytes, valueCount int) error {
	v.Clear()
	if err := v.values.Allocate(totalBytes, valueCount); err != nil {
		v.Clear()
		return err
	}
	if err := v.bits.Allocate(valueCount); err != nil {
		v.Clear()
		return err
	}
	return nil
}

// ValueCapacity is the number of slots that can be written without
// reallocating.
func (v *NullableVector[T]) ValueCapacity() int {
	return v.bits.ValueCapacity()
}

func (v *NullableVector[T]) ValueCount() int {
	return v.valueCount
}

// VarByteLength is the payload length of a variable-width vector and zero
// otherwise.
func (v *NullableVector[T]) VarByteLength() int {
	if vw, ok := v.values.(VariableWidthStore); ok {
		return vw.VarByteLength()
	}
	return 0
}

// ByteCapacity is the payload capacity of a variable-width vector and zero
// otherwise.
func (v *NullableVector[T]) ByteCapacity() int {
	if vw, ok := v.values.(VariableWidthStore); ok {
		return vw.ByteCapacity()
	}
	return 0
}

// Clear releases both buffers and resets the mutator. It can be called any
// number of times.
func (v *NullableVector[T]) Clear() {
	v.valueCount = 0
	v.bits.Clear()
	v.values.Clear()
	v.mutator.Reset()
}

// Buffers hands the vector's buffers to the caller, validity bitmap first, and
// clears the vector. The caller owns one reference to each returned buffer.
func (v *NullableVector[T]) Buffers() []*memory.Buffer {
	out := v.peekBuffers()
	v.Clear()
	return out
}

func (v *NullableVector[T]) peekBuffers() []*memory.Buffer {
	return append([]*memory.Buffer{v.bits.Buffer()}, v.values.Buffers()...)
}

// BufferSize is the number of bytes Buffers would return.
func (v *NullableVector[T]) BufferSize() int {
	return v.bits.BufferSize() + v.values.BufferSize()
}

func (v *NullableVector[T]) Metadata() BufferMetadata {
	meta := BufferMetadata{
		Def:          v.field,
		ValueCount:   int32(v.valueCount),
		BufferLength: int32(v.BufferSize()),
	}
	if vw, ok := v.values.(VariableWidthStore); ok {
		l := int32(vw.VarByteLength())
		meta.VarByteLength = &l
	}
	return meta
}

// LoadValues replaces the contents of the vector with valueCount values read
// from the front of buf: the validity bitmap followed by the element store.
// buf is not copied, the vector takes its own references. It returns the
// number of bytes consumed. On error the vector is left empty.
func (v *NullableVector[T]) LoadValues(dataBytes, valueCount int, buf *memory.Buffer) (int, error) {
	v.Clear()
	if valueCount < 0 {
		return 0, corruptWireData("negative value count %d", valueCount)
	}

	loaded, err := v.bits.Load(valueCount, buf)
	if err != nil {
		v.Clear()
		return 0, err
	}

	rest := memory.SliceBuffer(buf, loaded, buf.Len()-loaded)
	defer rest.Release()

	n, err := v.values.Load(dataBytes, valueCount, rest)
	if err != nil {
		v.Clear()
		return 0, err
	}
	v.valueCount = valueCount
	return loaded + n, nil
}

// Load replaces the contents of the vector with the column described by meta.
// The metadata must describe this vector's field and its buffer length must
// match the bytes actually consumed.
func (v *NullableVector[T]) Load(meta BufferMetadata, buf *memory.Buffer) error {
	return loadWithMetadata(v.field, meta, buf, v.LoadValues, v.Clear)
}

func (v *NullableVector[T]) isEmpty() bool {
	return v.valueCount == 0 && v.bits.ValueCapacity() == 0 && v.values.ValueCapacity() == 0
}

// TransferTo moves the buffers and value count into target and clears v.
// target must be empty and describe the same field.
func (v *NullableVector[T]) TransferTo(target *NullableVector[T]) error {
	if !v.field.Equal(target.field) {
		return contractViolation("transfer", "target field %s does not match %s", target.field, v.field)
	}
	if !target.isEmpty() {
		return contractViolation("transfer", "target %s is not empty", target.field)
	}

	if err := v.values.TransferTo(target.values); err != nil {
		return err
	}
	v.bits.TransferTo(target.bits)
	target.valueCount = v.valueCount
	v.Clear()
	return nil
}

// MakeTransferPair creates an empty sibling vector to transfer into.
func (v *NullableVector[T]) MakeTransferPair() TransferPair {
	return &nullableTransferPair[T]{
		from: v,
		to:   NewNullableVector(v.field, v.alloc, v.newStore),
	}
}

// CopyFrom copies slot inIndex of from, validity bit and value, into slot
// outIndex of v. The value count is not changed.
func (v *NullableVector[T]) CopyFrom(inIndex, outIndex int, from *NullableVector[T]) error {
	if err := v.values.CopyFrom(inIndex, outIndex, from.values); err != nil {
		return err
	}
	v.bits.CopyFrom(inIndex, outIndex, from.bits)
	return nil
}

// ConvertToRequired moves the element store into a new RequiredVector for the
// REQUIRED version of the field and clears v. The validity bitmap is dropped
// without being read, so the caller must know the vector holds no nulls.
func (v *NullableVector[T]) ConvertToRequired() (*RequiredVector[T], error) {
	r := NewRequiredVector(v.field.OtherNullableVersion(), v.alloc, v.newStore)
	if err := v.values.TransferTo(r.values); err != nil {
		return nil, err
	}
	r.valueCount = v.valueCount
	v.Clear()
	return r, nil
}

func (v *NullableVector[T]) IsNull(index int) bool {
	return v.accessor.IsNull(index)
}

func (v *NullableVector[T]) GetObject(index int) interface{} {
	return v.accessor.GetObject(index)
}

func (v *NullableVector[T]) NullCount() int {
	return v.bits.NullCount()
}

func (v *NullableVector[T]) SetValueCount(n int) error {
	return v.mutator.SetValueCount(n)
}

func (v *NullableVector[T]) GenerateTestData(valueCount int) error {
	return v.mutator.GenerateTestData(valueCount)
}

// Accessor is the read side of a NullableVector.
type Accessor[T any] struct {
	v *NullableVector[T]
}

func (a *Accessor[T]) IsNull(index int) bool {
	return a.IsSet(index) == 0
}

// IsSet returns the raw validity bit of index.
func (a *Accessor[T]) IsSet(index int) int {
	return a.v.bits.Get(index)
}

// Get returns the value at index. Calling it for a null slot is a caller bug
// and panics with a *ContractViolation; check IsNull first or use GetObject.
func (a *Accessor[T]) Get(index int) T {
	if a.IsNull(index) {
		panic(contractViolation("get", "slot %d of %s is null", index, a.v.field.Path()))
	}
	return a.v.values.Get(index)
}

// GetHolder returns the validity bit and the stored value of index whether or
// not the slot is null.
func (a *Accessor[T]) GetHolder(index int) Holder[T] {
	return Holder[T]{IsSet: a.IsSet(index), Value: a.v.values.Get(index)}
}

// GetObject returns nil for a null slot and the converted value otherwise.
func (a *Accessor[T]) GetObject(index int) interface{} {
	if a.IsNull(index) {
		return nil
	}
	return a.v.values.Object(index)
}

func (a *Accessor[T]) ValueCount() int {
	return a.v.valueCount
}

// Mutator is the write side of a NullableVector. It counts the values written
// through Set so NoNulls can answer without scanning the bitmap.
type Mutator[T any] struct {
	v        *NullableVector[T]
	setCount int
	// a holder write marked a slot null
	nullSet bool
}

// Set marks index present and stores value.
func (m *Mutator[T]) Set(index int, value T) {
	m.setCount++
	m.v.bits.Set(index, 1)
	m.v.values.Set(index, value)
}

// SetHolder copies the holder's validity bit and value into index. The value
// is written even when IsSet is 0. Holder writes are not counted by NoNulls,
// and a null holder makes NoNulls false until the next Reset.
func (m *Mutator[T]) SetHolder(index int, h Holder[T]) {
	if h.IsSet == 0 {
		m.nullSet = true
	}
	m.v.bits.Set(index, h.IsSet)
	m.v.values.Set(index, h.Value)
}

// SetSkipNull stores value without touching the validity bitmap, for callers
// that have already filled in the bits.
func (m *Mutator[T]) SetSkipNull(index int, value T) {
	m.v.values.Set(index, value)
}

// SetValueCount fixes the logical length of the vector.
func (m *Mutator[T]) SetValueCount(n int) error {
	if n < 0 {
		return contractViolation("set value count", "negative value count %d", n)
	}
	if n > m.v.ValueCapacity() {
		return contractViolation("set value count", "value count %d exceeds capacity %d", n, m.v.ValueCapacity())
	}

	m.v.valueCount = n
	m.v.values.SetValueCount(n)
	m.v.bits.SetValueCount(n)
	return nil
}

// NoNulls reports whether every slot below the value count was written with
// Set. It is a hint: holder writes never count, even when the holder is set.
func (m *Mutator[T]) NoNulls() bool {
	return !m.nullSet && m.v.valueCount == m.setCount
}

// Reset zeroes the set counter.
func (m *Mutator[T]) Reset() {
	m.setCount = 0
	m.nullSet = false
}

// GenerateTestData fills the first valueCount slots with a deterministic
// pattern, every other slot null, and sets the value count.
func (m *Mutator[T]) GenerateTestData(valueCount int) error {
	if valueCount > m.v.ValueCapacity() {
		return contractViolation("generate test data", "value count %d exceeds capacity %d", valueCount, m.v.ValueCapacity())
	}

	m.v.bits.generateTestData(valueCount)
	if g, ok := m.v.values.(testDataGenerator); ok {
		g.generateTestData(valueCount)
	}
	return m.SetValueCount(valueCount)
}
