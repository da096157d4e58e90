package vector_test

import (
	"testing"

	arrowmemory "github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/mock"

	vector "github.com/factset/go-drill-vector"
	"github.com/factset/go-drill-vector/memory"
)

// newCheckedAllocator returns an allocator whose outstanding bytes must be
// zero by the end of the test.
func newCheckedAllocator(t *testing.T) *memory.BufferAllocator {
	checked := arrowmemory.NewCheckedAllocator(arrowmemory.NewGoAllocator())
	t.Cleanup(func() { checked.AssertSize(t, 0) })
	return memory.NewAllocator(memory.Options{Allocator: checked})
}

// serialize takes the metadata and the concatenated buffers of v, clearing it.
func serialize(v vector.ValueVector) (vector.BufferMetadata, *memory.Buffer) {
	meta := v.Metadata()
	bufs := v.Buffers()
	body := memory.Concat(bufs)
	memory.ReleaseAll(bufs)
	return meta, body
}

type mockAllocator struct {
	mock.Mock
}

func (m *mockAllocator) Allocate(size int) (*memory.Buffer, error) {
	args := m.Called(size)
	buf, _ := args.Get(0).(*memory.Buffer)
	return buf, args.Error(1)
}

func intField(name string) vector.FieldDescriptor {
	return vector.NewField(name, vector.MinorTypeInt, vector.DataModeOptional)
}

func newIntVector(alloc memory.Allocator, name string) *vector.NullableVector[int32] {
	return vector.NewNullableVector(intField(name), alloc, vector.FixedStore[int32](nil))
}

// recoverError runs fn and returns the error it panicked with, nil if it did
// not panic.
func recoverError(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err, _ = r.(error)
		}
	}()
	fn()
	return nil
}
