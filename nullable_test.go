package vector_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vector "github.com/factset/go-drill-vector"
	"github.com/factset/go-drill-vector/memory"
)

func TestNullableSetAndNoNulls(t *testing.T) {
	v := newIntVector(newCheckedAllocator(t), "k")
	defer v.Clear()

	require.NoError(t, v.AllocateNew(100))
	assert.GreaterOrEqual(t, v.ValueCapacity(), 100)

	m, a := v.Mutator(), v.Accessor()
	for k := 0; k < 100; k++ {
		m.Set(k, int32(k))
	}
	require.NoError(t, m.SetValueCount(100))

	assert.True(t, m.NoNulls())
	assert.Equal(t, int32(50), a.Get(50))
	assert.Equal(t, 100, a.ValueCount())

	m.SetHolder(50, vector.Holder[int32]{IsSet: 0})
	assert.True(t, a.IsNull(50))
	assert.False(t, m.NoNulls())
	assert.Nil(t, a.GetObject(50))
	assert.Equal(t, int32(49), a.GetObject(49))

	for i := 0; i < a.ValueCount(); i++ {
		assert.Equal(t, a.IsNull(i), a.IsSet(i) == 0)
	}
}

func TestNullableHolderWritesNotCounted(t *testing.T) {
	v := newIntVector(newCheckedAllocator(t), "k")
	defer v.Clear()

	require.NoError(t, v.AllocateNew(2))
	m := v.Mutator()
	m.Set(0, 1)
	m.SetHolder(1, vector.Holder[int32]{IsSet: 1, Value: 2})
	require.NoError(t, m.SetValueCount(2))

	assert.False(t, v.IsNull(1))
	assert.Equal(t, int32(2), v.Accessor().Get(1))
	assert.False(t, m.NoNulls())

	m.Reset()
	m.Set(0, 1)
	m.Set(1, 2)
	assert.True(t, m.NoNulls())
}

func TestNullableSetSkipNull(t *testing.T) {
	v := newIntVector(newCheckedAllocator(t), "k")
	defer v.Clear()

	require.NoError(t, v.AllocateNew(3))
	m, a := v.Mutator(), v.Accessor()
	m.SetSkipNull(0, 11)
	m.SetSkipNull(1, 12)
	require.NoError(t, m.SetValueCount(3))

	assert.True(t, a.IsNull(0))
	h := a.GetHolder(0)
	assert.Equal(t, 0, h.IsSet)
	assert.Equal(t, int32(11), h.Value)

	m.SetHolder(2, vector.Holder[int32]{IsSet: 1, Value: 13})
	m.SetSkipNull(2, 14)
	assert.Equal(t, int32(14), a.Get(2))
}

func TestNullableGetNullPanics(t *testing.T) {
	v := newIntVector(newCheckedAllocator(t), "k")
	defer v.Clear()

	require.NoError(t, v.AllocateNew(1))
	require.NoError(t, v.Mutator().SetValueCount(1))

	err := recoverError(func() { v.Accessor().Get(0) })
	require.Error(t, err)
	assert.ErrorIs(t, err, vector.ErrContractViolation)

	var cv *vector.ContractViolation
	require.True(t, errors.As(err, &cv))
	assert.Equal(t, "get", cv.Op)
}

func TestNullableRoundTrip(t *testing.T) {
	alloc := newCheckedAllocator(t)
	v := newIntVector(alloc, "k")
	defer v.Clear()

	require.NoError(t, v.AllocateNew(4))
	v.Mutator().Set(1, 7)
	v.Mutator().Set(3, 9)
	require.NoError(t, v.Mutator().SetValueCount(4))

	size := v.BufferSize()
	assert.Equal(t, 1+4*4, size)

	meta, body := serialize(v)
	assert.Zero(t, v.ValueCapacity())
	assert.Zero(t, v.ValueCount())
	assert.EqualValues(t, size, meta.BufferLength)
	assert.EqualValues(t, 4, meta.ValueCount)
	assert.Nil(t, meta.VarByteLength)
	assert.Equal(t, size, body.Len())

	out := newIntVector(alloc, "k")
	defer out.Clear()
	require.NoError(t, out.Load(meta, body))

	a := out.Accessor()
	assert.Equal(t, 4, a.ValueCount())
	assert.True(t, a.IsNull(0))
	assert.Equal(t, int32(7), a.Get(1))
	assert.True(t, a.IsNull(2))
	assert.Equal(t, int32(9), a.Get(3))
	assert.Equal(t, size, out.BufferSize())
	assert.Equal(t, 2, out.NullCount())
}

func TestNullableReuseResetsNoNulls(t *testing.T) {
	alloc := newCheckedAllocator(t)
	src := newIntVector(alloc, "k")
	require.NoError(t, src.AllocateNew(4))
	src.Mutator().Set(1, 7)
	src.Mutator().Set(3, 9)
	require.NoError(t, src.Mutator().SetValueCount(4))
	meta, body := serialize(src)

	v := newIntVector(alloc, "k")
	defer v.Clear()
	require.NoError(t, v.AllocateNew(4))
	for i := 0; i < 4; i++ {
		v.Mutator().Set(i, int32(i))
	}
	require.NoError(t, v.Mutator().SetValueCount(4))
	require.True(t, v.Mutator().NoNulls())

	bufs := v.Buffers()
	memory.ReleaseAll(bufs)
	assert.Zero(t, v.ValueCount())
	assert.Equal(t, newIntVector(alloc, "k").Mutator().NoNulls(), v.Mutator().NoNulls())

	require.NoError(t, v.Load(meta, body))
	assert.Equal(t, 2, v.NullCount())
	assert.False(t, v.Mutator().NoNulls())

	// a null holder write does not survive Clear either
	require.NoError(t, v.AllocateNew(1))
	v.Mutator().SetHolder(0, vector.Holder[int32]{IsSet: 0})
	v.Clear()
	require.NoError(t, v.AllocateNew(1))
	v.Mutator().Set(0, 1)
	require.NoError(t, v.Mutator().SetValueCount(1))
	assert.True(t, v.Mutator().NoNulls())
}

func TestNullableLoadErrors(t *testing.T) {
	alloc := newCheckedAllocator(t)
	v := newIntVector(alloc, "k")
	require.NoError(t, v.AllocateNew(4))
	v.Mutator().Set(0, 1)
	require.NoError(t, v.Mutator().SetValueCount(4))
	meta, body := serialize(v)

	t.Run("field mismatch", func(t *testing.T) {
		out := newIntVector(alloc, "other")
		err := out.Load(meta, body)
		assert.ErrorIs(t, err, vector.ErrContractViolation)
		assert.Zero(t, out.ValueCapacity())
	})

	t.Run("length mismatch", func(t *testing.T) {
		out := newIntVector(alloc, "k")
		bad := meta
		bad.BufferLength++
		err := out.Load(bad, body)
		assert.ErrorIs(t, err, vector.ErrCorruptWireData)
		assert.Zero(t, out.ValueCapacity())
		assert.Zero(t, out.ValueCount())
	})

	t.Run("short buffer", func(t *testing.T) {
		out := newIntVector(alloc, "k")
		short := memory.SliceBuffer(body, 0, body.Len()-1)
		defer short.Release()
		err := out.Load(meta, short)
		assert.ErrorIs(t, err, vector.ErrCorruptWireData)
		assert.Zero(t, out.ValueCapacity())
	})

	t.Run("reload", func(t *testing.T) {
		out := newIntVector(alloc, "k")
		defer out.Clear()
		require.NoError(t, out.AllocateNew(10))
		out.Mutator().Set(9, 3)
		require.NoError(t, out.Load(meta, body))
		assert.Equal(t, 4, out.ValueCount())
		assert.Equal(t, int32(1), out.Accessor().Get(0))
	})
}

func TestNullableTransfer(t *testing.T) {
	alloc := newCheckedAllocator(t)
	v := newIntVector(alloc, "k")
	defer v.Clear()

	require.NoError(t, v.AllocateNew(3))
	v.Mutator().Set(0, 5)
	v.Mutator().Set(2, 6)
	require.NoError(t, v.Mutator().SetValueCount(3))

	tp := v.MakeTransferPair()
	require.NoError(t, tp.Transfer())
	assert.Zero(t, v.ValueCapacity())
	assert.Zero(t, v.ValueCount())

	to, ok := tp.To().(*vector.NullableVector[int32])
	require.True(t, ok)
	defer to.Clear()
	assert.Equal(t, 3, to.ValueCount())
	assert.Equal(t, int32(5), to.Accessor().Get(0))
	assert.True(t, to.IsNull(1))
	assert.Equal(t, int32(6), to.Accessor().Get(2))
	assert.True(t, intField("k").Equal(to.Field()))

	// v can be used again after a new allocation
	require.NoError(t, v.AllocateNew(1))
	v.Mutator().Set(0, 1)
	require.NoError(t, v.Mutator().SetValueCount(1))
	assert.Equal(t, int32(1), v.Accessor().Get(0))
}

func TestNullableTransferContract(t *testing.T) {
	alloc := newCheckedAllocator(t)
	v := newIntVector(alloc, "k")
	defer v.Clear()
	require.NoError(t, v.AllocateNew(3))

	busy := newIntVector(alloc, "k")
	defer busy.Clear()
	require.NoError(t, busy.AllocateNew(1))
	assert.ErrorIs(t, v.TransferTo(busy), vector.ErrContractViolation)

	other := newIntVector(alloc, "j")
	assert.ErrorIs(t, v.TransferTo(other), vector.ErrContractViolation)

	assert.Equal(t, 3, v.ValueCapacity())
}

func TestNullableCopyFrom(t *testing.T) {
	alloc := newCheckedAllocator(t)
	src := newIntVector(alloc, "k")
	defer src.Clear()
	require.NoError(t, src.AllocateNew(3))
	src.Mutator().Set(1, 7)
	src.Mutator().Set(2, 8)
	require.NoError(t, src.Mutator().SetValueCount(3))

	dst := newIntVector(alloc, "k")
	defer dst.Clear()
	require.NoError(t, dst.AllocateNew(3))

	for i, j := range []int{2, 0, 1} {
		require.NoError(t, dst.CopyFrom(j, i, src))
	}
	assert.Zero(t, dst.ValueCount())
	require.NoError(t, dst.Mutator().SetValueCount(3))

	for i, j := range []int{2, 0, 1} {
		assert.Equal(t, src.IsNull(j), dst.IsNull(i))
		if !src.IsNull(j) {
			assert.Equal(t, src.Accessor().Get(j), dst.Accessor().Get(i))
		}
	}
}

func TestNullableAllocateZero(t *testing.T) {
	v := newIntVector(newCheckedAllocator(t), "k")
	defer v.Clear()

	require.NoError(t, v.AllocateNew(0))
	require.NoError(t, v.Mutator().SetValueCount(0))
	assert.GreaterOrEqual(t, v.ValueCapacity(), 0)
	assert.Zero(t, v.BufferSize())
	assert.True(t, v.Mutator().NoNulls())

	meta, body := serialize(v)
	assert.Zero(t, meta.BufferLength)

	out := newIntVector(newCheckedAllocator(t), "k")
	require.NoError(t, out.Load(meta, body))
	assert.Zero(t, out.ValueCount())
}

func TestNullableSetValueCountContract(t *testing.T) {
	v := newIntVector(newCheckedAllocator(t), "k")
	defer v.Clear()

	require.NoError(t, v.AllocateNew(4))
	assert.ErrorIs(t, v.Mutator().SetValueCount(-1), vector.ErrContractViolation)
	assert.ErrorIs(t, v.Mutator().SetValueCount(5), vector.ErrContractViolation)
	assert.NoError(t, v.Mutator().SetValueCount(4))
}

func TestNullableClearIdempotent(t *testing.T) {
	v := newIntVector(newCheckedAllocator(t), "k")
	v.Clear()
	require.NoError(t, v.AllocateNew(8))
	v.Clear()
	v.Clear()
	assert.Zero(t, v.ValueCapacity())
	assert.Zero(t, v.BufferSize())
}

func TestNullableAllocationFailure(t *testing.T) {
	m := new(mockAllocator)
	m.Test(t)

	refused := &memory.AllocationError{Requested: 2, InUse: 40, Limit: 40}
	m.On("Allocate", 40).Return(memory.NewBufferBytes(make([]byte, 40)), nil).Once()
	m.On("Allocate", 2).Return(nil, refused).Once()

	v := newIntVector(m, "k")
	err := v.AllocateNew(10)
	assert.ErrorIs(t, err, memory.ErrAllocation)

	var ae *memory.AllocationError
	require.True(t, errors.As(err, &ae))
	assert.Same(t, refused, ae)
	assert.Zero(t, v.ValueCapacity())
	m.AssertExpectations(t)
}

func TestNullableAllocatorLimit(t *testing.T) {
	alloc := memory.NewAllocator(memory.Options{Limit: 128})
	v := newIntVector(alloc, "k")

	assert.ErrorIs(t, v.AllocateNew(1000), memory.ErrAllocation)
	assert.Zero(t, v.ValueCapacity())
	assert.Zero(t, alloc.InUse())

	require.NoError(t, v.AllocateNew(10))
	assert.EqualValues(t, 128, alloc.InUse())
	v.Clear()
	assert.Zero(t, alloc.InUse())
}

func TestNullableConvertToRequired(t *testing.T) {
	alloc := newCheckedAllocator(t)
	v := newIntVector(alloc, "k")
	require.NoError(t, v.AllocateNew(3))
	for i := 0; i < 3; i++ {
		v.Mutator().Set(i, int32(i*10))
	}
	require.NoError(t, v.Mutator().SetValueCount(3))
	require.True(t, v.Mutator().NoNulls())

	r, err := v.ConvertToRequired()
	require.NoError(t, err)
	defer r.Clear()

	assert.Zero(t, v.ValueCapacity())
	assert.Equal(t, vector.DataModeRequired, r.Field().Type.Mode)
	assert.Equal(t, 3, r.ValueCount())
	assert.Equal(t, int32(20), r.Get(2))
	assert.False(t, r.IsNull(0))

	meta := r.Metadata()
	assert.EqualValues(t, 12, meta.BufferLength)
}

func TestNullableGenerateTestData(t *testing.T) {
	v := newIntVector(newCheckedAllocator(t), "k")
	defer v.Clear()

	require.NoError(t, v.AllocateNew(10))
	require.NoError(t, v.GenerateTestData(10))
	assert.Equal(t, 10, v.ValueCount())
	assert.Equal(t, 5, v.NullCount())
	assert.False(t, v.IsNull(0))
	assert.True(t, v.IsNull(1))
	assert.Equal(t, int32(4), v.Accessor().Get(4))

	assert.ErrorIs(t, v.GenerateTestData(11), vector.ErrContractViolation)
}
