package vector_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vector "github.com/factset/go-drill-vector"
	"github.com/factset/go-drill-vector/memory"
)

func newVarCharVector(alloc memory.Allocator, name string) *vector.NullableVector[[]byte] {
	field := vector.NewField(name, vector.MinorTypeVarChar, vector.DataModeOptional)
	return vector.NewNullableVector(field, alloc, vector.VarBinaryStore(vector.MinorTypeVarChar))
}

func TestVarCharRoundTrip(t *testing.T) {
	alloc := newCheckedAllocator(t)
	v := newVarCharVector(alloc, "s")
	defer v.Clear()

	require.NoError(t, v.AllocateNewBytes(32, 4))
	assert.Equal(t, 32, v.ByteCapacity())

	v.Mutator().Set(0, []byte("abcd"))
	v.Mutator().Set(2, []byte("efgh"))
	require.NoError(t, v.Mutator().SetValueCount(4))

	assert.Equal(t, 8, v.VarByteLength())
	assert.Equal(t, 1+5*4+8, v.BufferSize())
	assert.Equal(t, "efgh", v.GetObject(2))
	assert.Nil(t, v.GetObject(3))

	meta, body := serialize(v)
	require.NotNil(t, meta.VarByteLength)
	assert.EqualValues(t, 8, *meta.VarByteLength)
	assert.EqualValues(t, 29, meta.BufferLength)

	out := newVarCharVector(alloc, "s")
	defer out.Clear()
	require.NoError(t, out.Load(meta, body))

	a := out.Accessor()
	assert.Equal(t, []byte("abcd"), a.Get(0))
	assert.True(t, a.IsNull(1))
	assert.Empty(t, a.GetHolder(1).Value)
	assert.Equal(t, []byte("efgh"), a.Get(2))
	assert.True(t, a.IsNull(3))
	assert.Equal(t, 8, out.VarByteLength())
}

func TestVarBinaryObjectCopies(t *testing.T) {
	field := vector.NewField("b", vector.MinorTypeVarBinary, vector.DataModeOptional)
	v := vector.NewNullableVector(field, newCheckedAllocator(t), vector.VarBinaryStore(vector.MinorTypeVarBinary))
	defer v.Clear()

	require.NoError(t, v.AllocateNew(2))
	v.Mutator().Set(0, []byte{1, 2, 3})
	require.NoError(t, v.Mutator().SetValueCount(1))

	obj, ok := v.GetObject(0).([]byte)
	require.True(t, ok)
	obj[0] = 9
	assert.Equal(t, []byte{1, 2, 3}, v.Accessor().Get(0))
}

func TestVarWidthDefaultBytes(t *testing.T) {
	v := newVarCharVector(newCheckedAllocator(t), "s")
	defer v.Clear()

	require.NoError(t, v.AllocateNew(10))
	assert.Equal(t, 80, v.ByteCapacity())
	assert.Equal(t, 10, v.ValueCapacity())
}

func TestVarWidthContract(t *testing.T) {
	t.Run("overflow", func(t *testing.T) {
		v := newVarCharVector(newCheckedAllocator(t), "s")
		defer v.Clear()
		require.NoError(t, v.AllocateNewBytes(4, 2))

		v.Mutator().Set(0, []byte("abc"))
		err := recoverError(func() { v.Mutator().Set(1, []byte("de")) })
		assert.ErrorIs(t, err, vector.ErrContractViolation)
	})

	t.Run("out of order", func(t *testing.T) {
		v := newVarCharVector(newCheckedAllocator(t), "s")
		defer v.Clear()
		require.NoError(t, v.AllocateNew(3))

		v.Mutator().Set(2, []byte("x"))
		err := recoverError(func() { v.Mutator().Set(0, []byte("y")) })
		assert.ErrorIs(t, err, vector.ErrContractViolation)
	})
}

func TestVarWidthEmpty(t *testing.T) {
	alloc := newCheckedAllocator(t)
	v := newVarCharVector(alloc, "s")
	defer v.Clear()

	require.NoError(t, v.AllocateNew(4))
	require.NoError(t, v.Mutator().SetValueCount(0))
	assert.Zero(t, v.BufferSize())
	assert.Zero(t, v.VarByteLength())

	meta, body := serialize(v)
	assert.Zero(t, meta.BufferLength)
	assert.Zero(t, body.Len())

	out := newVarCharVector(alloc, "s")
	require.NoError(t, out.Load(meta, body))
	assert.Zero(t, out.ValueCount())
}

func TestVarWidthLoadCorrupt(t *testing.T) {
	alloc := newCheckedAllocator(t)
	v := newVarCharVector(alloc, "s")
	require.NoError(t, v.AllocateNew(2))
	v.Mutator().Set(0, []byte("ab"))
	v.Mutator().Set(1, []byte("c"))
	require.NoError(t, v.Mutator().SetValueCount(2))
	meta, body := serialize(v)

	t.Run("last offset", func(t *testing.T) {
		raw := append([]byte(nil), body.Bytes()...)
		// the bitmap byte comes first, then three offsets
		binary.LittleEndian.PutUint32(raw[1+2*4:], 2)

		out := newVarCharVector(alloc, "s")
		err := out.Load(meta, memory.NewBufferBytes(raw))
		assert.ErrorIs(t, err, vector.ErrCorruptWireData)
		assert.Zero(t, out.ValueCapacity())
	})

	for _, tt := range []struct {
		name    string
		offsets []uint32
	}{
		{"first offset", []uint32{1, 2, 4, 6}},
		{"middle offset past payload", []uint32{0, 1000, 4, 6}},
		{"decreasing offset", []uint32{0, 4, 2, 6}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			// three present values over a six byte payload
			raw := []byte{0x07}
			for _, off := range tt.offsets {
				raw = binary.LittleEndian.AppendUint32(raw, off)
			}
			raw = append(raw, "abcdef"...)

			field := vector.NewField("s", vector.MinorTypeVarChar, vector.DataModeOptional)
			varLen := int32(6)
			out := newVarCharVector(alloc, "s")
			err := out.Load(vector.BufferMetadata{
				Def:           field,
				ValueCount:    3,
				VarByteLength: &varLen,
				BufferLength:  int32(len(raw)),
			}, memory.NewBufferBytes(raw))
			assert.ErrorIs(t, err, vector.ErrCorruptWireData)
			assert.Zero(t, out.ValueCount())
			assert.Zero(t, out.ValueCapacity())
		})
	}

	t.Run("bytes without values", func(t *testing.T) {
		out := newVarCharVector(alloc, "s")
		bad := meta
		bad.ValueCount = 0
		err := out.Load(bad, body)
		assert.ErrorIs(t, err, vector.ErrCorruptWireData)
	})

	t.Run("truncated payload", func(t *testing.T) {
		out := newVarCharVector(alloc, "s")
		short := memory.SliceBuffer(body, 0, body.Len()-1)
		defer short.Release()
		err := out.Load(meta, short)
		assert.ErrorIs(t, err, vector.ErrCorruptWireData)
	})
}

func TestVarWidthTransferAndCopy(t *testing.T) {
	alloc := newCheckedAllocator(t)
	v := newVarCharVector(alloc, "s")
	defer v.Clear()
	require.NoError(t, v.GenerateTestData(0))

	require.NoError(t, v.AllocateNew(6))
	require.NoError(t, v.GenerateTestData(6))
	assert.Equal(t, "", v.GetObject(0))
	assert.Nil(t, v.GetObject(1))
	assert.Equal(t, "dr", v.GetObject(2))

	tp := v.MakeTransferPair()
	require.NoError(t, tp.Transfer())
	to := tp.To().(*vector.NullableVector[[]byte])
	defer to.Clear()
	assert.Zero(t, v.ValueCount())
	assert.Equal(t, "dril", to.GetObject(4))

	dst := newVarCharVector(alloc, "s")
	defer dst.Clear()
	require.NoError(t, dst.AllocateNew(2))
	require.NoError(t, dst.CopyFrom(4, 0, to))
	require.NoError(t, dst.CopyFrom(2, 1, to))
	require.NoError(t, dst.Mutator().SetValueCount(2))
	assert.Equal(t, "dril", dst.GetObject(0))
	assert.Equal(t, "dr", dst.GetObject(1))
}
