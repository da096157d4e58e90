package vector

import (
	"github.com/factset/go-drill-vector/internal/log"
	"github.com/factset/go-drill-vector/memory"
)

// RequiredVector is a column of T without nulls: an ElementStore with a field
// and a value count. It is the result of NullableVector.ConvertToRequired and
// the vector used for REQUIRED fields.
type RequiredVector[T any] struct {
	field    FieldDescriptor
	alloc    memory.Allocator
	newStore StoreFactory[T]

	values     ElementStore[T]
	valueCount int
}

// NewRequiredVector returns an empty vector for field whose store is built by
// newStore from alloc.
func NewRequiredVector[T any](field FieldDescriptor, alloc memory.Allocator, newStore StoreFactory[T]) *RequiredVector[T] {
	return &RequiredVector[T]{
		field:    field,
		alloc:    alloc,
		newStore: newStore,
		values:   newStore(alloc),
	}
}

// Field returns the vector's field descriptor.
func (v *RequiredVector[T]) Field() FieldDescriptor { return v.field }

// AllocateNew allocates room for valueCount values.
func (v *RequiredVector[T]) AllocateNew(valueCount int) error {
	return v.AllocateNewBytes(0, valueCount)
}

// AllocateNewBytes clears the vector and allocates room for valueCount values
// and, for variable-width stores, totalBytes of payload.
func (v *RequiredVector[T]) AllocateNewBytes(totalBytes, valueCount int) error {
	v.Clear()
	if err := v.values.Allocate(totalBytes, valueCount); err != nil {
		v.Clear()
		return err
	}
	return nil
}

// ValueCapacity is the number of values the store can hold without growing.
func (v *RequiredVector[T]) ValueCapacity() int { return v.values.ValueCapacity() }

// ValueCount is the number of values set by SetValueCount or Load.
func (v *RequiredVector[T]) ValueCount() int { return v.valueCount }

// BufferSize is the serialized size of the vector in bytes.
func (v *RequiredVector[T]) BufferSize() int { return v.values.BufferSize() }

// Get returns the value at index.
func (v *RequiredVector[T]) Get(index int) T { return v.values.Get(index) }

// Set writes value at index, which must be within capacity.
func (v *RequiredVector[T]) Set(index int, value T) { v.values.Set(index, value) }

// GetObject returns the value at index in its display form.
func (v *RequiredVector[T]) GetObject(index int) interface{} { return v.values.Object(index) }

// IsNull is always false.
func (v *RequiredVector[T]) IsNull(int) bool { return false }

// NullCount is always zero.
func (v *RequiredVector[T]) NullCount() int { return 0 }

// SetValueCount fixes the number of values, which may not exceed the
// capacity.
func (v *RequiredVector[T]) SetValueCount(n int) error {
	if n < 0 || n > v.ValueCapacity() {
		return contractViolation("set value count", "value count %d outside capacity %d", n, v.ValueCapacity())
	}
	v.valueCount = n
	v.values.SetValueCount(n)
	return nil
}

// Clear releases the store's buffers.
func (v *RequiredVector[T]) Clear() {
	v.valueCount = 0
	v.values.Clear()
}

// Buffers hands the store's buffers to the caller and clears the vector.
func (v *RequiredVector[T]) Buffers() []*memory.Buffer {
	out := v.values.Buffers()
	v.Clear()
	return out
}

func (v *RequiredVector[T]) peekBuffers() []*memory.Buffer {
	return v.values.Buffers()
}

// Metadata describes the vector for a record batch def.
func (v *RequiredVector[T]) Metadata() BufferMetadata {
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

// LoadValues replaces the contents with valueCount values read from the start
// of buf and returns the number of bytes consumed.
func (v *RequiredVector[T]) LoadValues(dataBytes, valueCount int, buf *memory.Buffer) (int, error) {
	v.Clear()
	if valueCount < 0 {
		return 0, corruptWireData("negative value count %d", valueCount)
	}

	n, err := v.values.Load(dataBytes, valueCount, buf)
	if err != nil {
		v.Clear()
		return 0, err
	}
	v.valueCount = valueCount
	return n, nil
}

// Load replaces the contents with the column meta describes.
func (v *RequiredVector[T]) Load(meta BufferMetadata, buf *memory.Buffer) error {
	return loadWithMetadata(v.field, meta, buf, v.LoadValues, v.Clear)
}

// TransferTo moves the buffers to an empty target with the same field and
// clears v.
func (v *RequiredVector[T]) TransferTo(target *RequiredVector[T]) error {
	if !v.field.Equal(target.field) {
		return contractViolation("transfer", "target field %s does not match %s", target.field, v.field)
	}
	if target.valueCount != 0 || target.values.ValueCapacity() != 0 {
		return contractViolation("transfer", "target %s is not empty", target.field)
	}

	if err := v.values.TransferTo(target.values); err != nil {
		return err
	}
	target.valueCount = v.valueCount
	v.Clear()
	return nil
}

// MakeTransferPair pairs v with a new empty vector of the same field.
func (v *RequiredVector[T]) MakeTransferPair() TransferPair {
	return &requiredTransferPair[T]{
		from: v,
		to:   NewRequiredVector(v.field, v.alloc, v.newStore),
	}
}

// CopyFrom copies from's value at inIndex to outIndex.
func (v *RequiredVector[T]) CopyFrom(inIndex, outIndex int, from *RequiredVector[T]) error {
	return v.values.CopyFrom(inIndex, outIndex, from.values)
}

// GenerateTestData fills the first valueCount slots with sample values.
func (v *RequiredVector[T]) GenerateTestData(valueCount int) error {
	if valueCount > v.ValueCapacity() {
		return contractViolation("generate test data", "value count %d exceeds capacity %d", valueCount, v.ValueCapacity())
	}
	if g, ok := v.values.(testDataGenerator); ok {
		g.generateTestData(valueCount)
	}
	return v.SetValueCount(valueCount)
}

// loadWithMetadata checks meta against field, loads the column and verifies
// that exactly meta.BufferLength bytes were consumed. clear is called on any
// failure.
func loadWithMetadata(field FieldDescriptor, meta BufferMetadata, buf *memory.Buffer,
	load func(dataBytes, valueCount int, buf *memory.Buffer) (int, error), clear func()) error {
	if !field.Equal(meta.Def) {
		clear()
		return contractViolation("load", "metadata for %s loaded into %s", meta.Def, field)
	}

	loaded, err := load(int(meta.GetVarByteLength()), int(meta.ValueCount), buf)
	if err == nil && loaded != int(meta.BufferLength) {
		clear()
		err = corruptWireData("%s: metadata declares %d bytes, loaded %d", field.Path(), meta.BufferLength, loaded)
	}
	if err != nil {
		log.Warn().Err(err).Str("field", field.Path()).Msg("failed to load vector")
	}
	return err
}
