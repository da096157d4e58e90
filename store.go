package vector

import "github.com/factset/go-drill-vector/memory"

// An ElementStore is the non-nullable storage of typed values underneath a
// vector. It is indexed the same way as the validity bitmap that sits next to
// it in a NullableVector.
//
// There are two shapes of store: fixed-width stores whose byte size is a
// multiple of their value count, and variable-width stores which also
// implement VariableWidthStore and keep an offset table in front of their
// payload.
type ElementStore[T any] interface {
	Get(index int) T
	Set(index int, value T)
	// Object returns the value at index in the form handed out to generic
	// consumers, for example a time.Time for a DATE column.
	Object(index int) interface{}

	// Allocate releases the current buffers and reserves room for valueCount
	// values. totalBytes is only used by variable-width stores, a value <= 0
	// selects a default.
	Allocate(totalBytes, valueCount int) error
	Clear()

	// Buffers returns new references to the occupied bytes, in wire order.
	Buffers() []*memory.Buffer
	BufferSize() int
	// Load reads valueCount values from the front of buf without copying and
	// returns the number of bytes consumed. dataBytes is the payload length of
	// a variable-width store and is ignored otherwise.
	Load(dataBytes, valueCount int, buf *memory.Buffer) (int, error)

	// TransferTo moves the buffers into target, which must be the same kind of
	// store, and leaves the receiver empty.
	TransferTo(target ElementStore[T]) error
	CopyFrom(inIndex, outIndex int, from ElementStore[T]) error

	SetValueCount(n int)
	ValueCount() int
	ValueCapacity() int
}

// A VariableWidthStore tracks the bytes occupied by its payload separately
// from its value count.
type VariableWidthStore interface {
	VarByteLength() int
	ByteCapacity() int
}

// A Holder carries one value together with its validity bit so callers can
// move slots around without branching on null.
type Holder[T any] struct {
	IsSet int
	Value T
}

// testDataGenerator is implemented by stores that can fill themselves with a
// deterministic pattern.
type testDataGenerator interface {
	generateTestData(valueCount int)
}

func mismatchedStore(op string, want, got interface{}) *ContractViolation {
	return contractViolation(op, "store type %T does not match %T", got, want)
}
