package vector

import (
	"fmt"
	"math"
	"math/big"

	"github.com/factset/go-drill-vector/memory"
)

// ValueVector is the type independent view of a nullable or required vector,
// used by code that handles whole record batches.
type ValueVector interface {
	Field() FieldDescriptor

	AllocateNew(valueCount int) error
	AllocateNewBytes(totalBytes, valueCount int) error
	ValueCapacity() int
	ValueCount() int
	SetValueCount(n int) error
	Clear()

	BufferSize() int
	Buffers() []*memory.Buffer
	Metadata() BufferMetadata
	Load(meta BufferMetadata, buf *memory.Buffer) error
	MakeTransferPair() TransferPair

	IsNull(index int) bool
	NullCount() int
	GetObject(index int) interface{}
	GenerateTestData(valueCount int) error

	// peekBuffers returns new references to the buffers without clearing.
	peekBuffers() []*memory.Buffer
}

// FixedStore returns a factory for numeric stores of T.
func FixedStore[T Numeric](object func(T) interface{}) StoreFactory[T] {
	return func(alloc memory.Allocator) ElementStore[T] {
		return NewFixedValues(alloc, object)
	}
}

// FixedBytesStore returns a factory for width byte slot stores.
func FixedBytesStore(width int, object func([]byte) interface{}) StoreFactory[[]byte] {
	return func(alloc memory.Allocator) ElementStore[[]byte] {
		return NewFixedBytesValues(alloc, width, object)
	}
}

// BitStore is the factory for BIT columns.
func BitStore(alloc memory.Allocator) ElementStore[bool] {
	return NewBitValues(alloc)
}

// VarBinaryStore returns a factory for variable-width stores of typ.
func VarBinaryStore(typ MinorType) StoreFactory[[]byte] {
	return func(alloc memory.Allocator) ElementStore[[]byte] {
		return NewVarBinaryValues(alloc, typ)
	}
}

func newVector[T any](field FieldDescriptor, alloc memory.Allocator, store StoreFactory[T]) ValueVector {
	if field.Type.Mode == DataModeRequired {
		return NewRequiredVector(field, alloc, store)
	}
	return NewNullableVector(field, alloc, store)
}

func scaledObject[T int32 | int64](scale int32) func(T) interface{} {
	return func(v T) interface{} {
		f := big.NewFloat(float64(v))
		return f.Quo(f, big.NewFloat(math.Pow10(int(scale))))
	}
}

// NewVector creates an empty vector for field: a *NullableVector for OPTIONAL
// fields and a *RequiredVector for REQUIRED ones, with the element type given
// by the field's minor type.
func NewVector(field FieldDescriptor, alloc memory.Allocator) (ValueVector, error) {
	if field.Type.Mode == DataModeRepeated {
		return nil, fmt.Errorf("%w: repeated field %s", ErrUnsupportedType, field)
	}

	switch typ := field.Type.MinorType; typ {
	case MinorTypeTinyInt:
		return newVector(field, alloc, FixedStore[int8](nil)), nil
	case MinorTypeSmallInt:
		return newVector(field, alloc, FixedStore[int16](nil)), nil
	case MinorTypeInt:
		return newVector(field, alloc, FixedStore[int32](nil)), nil
	case MinorTypeBigInt:
		return newVector(field, alloc, FixedStore[int64](nil)), nil
	case MinorTypeUInt1:
		return newVector(field, alloc, FixedStore[uint8](nil)), nil
	case MinorTypeUInt2:
		return newVector(field, alloc, FixedStore[uint16](nil)), nil
	case MinorTypeUInt4:
		return newVector(field, alloc, FixedStore[uint32](nil)), nil
	case MinorTypeUInt8:
		return newVector(field, alloc, FixedStore[uint64](nil)), nil
	case MinorTypeFloat4:
		return newVector(field, alloc, FixedStore[float32](nil)), nil
	case MinorTypeFloat8:
		return newVector(field, alloc, FixedStore[float64](nil)), nil
	case MinorTypeDecimal9:
		return newVector(field, alloc, FixedStore(scaledObject[int32](field.Type.Scale))), nil
	case MinorTypeDecimal18:
		return newVector(field, alloc, FixedStore(scaledObject[int64](field.Type.Scale))), nil
	case MinorTypeDate, MinorTypeTimestamp:
		return newVector(field, alloc, FixedStore(timestampObject)), nil
	case MinorTypeTime:
		return newVector(field, alloc, FixedStore(timeObject)), nil
	case MinorTypeIntervalYear:
		return newVector(field, alloc, FixedStore(intervalYearObject)), nil
	case MinorTypeIntervalDay:
		return newVector(field, alloc, FixedBytesStore(8, intervalDayObject)), nil
	case MinorTypeInterval:
		return newVector(field, alloc, FixedBytesStore(12, intervalObject)), nil
	case MinorTypeBit:
		return newVector[bool](field, alloc, BitStore), nil
	case MinorTypeVarChar, MinorTypeVarBinary:
		return newVector(field, alloc, VarBinaryStore(typ)), nil
	}

	if layout, ok := decimalLayouts[field.Type.MinorType]; ok {
		if int(field.Type.Precision) > layout.maxPrecision {
			return nil, fmt.Errorf("%w: precision %d exceeds %d for %s", ErrUnsupportedType, field.Type.Precision, layout.maxPrecision, field)
		}
		return newVector(field, alloc, FixedBytesStore(layout.width(), layout.object(int(field.Type.Scale)))), nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, field)
}
