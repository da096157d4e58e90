package vector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	vector "github.com/factset/go-drill-vector"
)

func sampleDef() vector.RecordBatchDef {
	varLen := int32(11)
	dec := vector.NewField("price", vector.MinorTypeDecimal38Sparse, vector.DataModeRequired)
	dec.Type.Precision, dec.Type.Scale = 38, 4

	nested := vector.FieldDescriptor{
		Name: []vector.NamePart{{Name: "a"}, {Type: vector.NamePartArray, Name: "b"}},
		Type: vector.MajorType{MinorType: vector.MinorTypeVarChar, Mode: vector.DataModeOptional, Width: 65536},
	}

	return vector.RecordBatchDef{
		RecordCount: 3,
		Fields: []vector.BufferMetadata{
			{Def: intField("id"), ValueCount: 3, BufferLength: 13},
			{Def: nested, ValueCount: 3, VarByteLength: &varLen, BufferLength: 28},
			{Def: dec, ValueCount: 3, BufferLength: 72},
		},
	}
}

func TestRecordBatchDefRoundTrip(t *testing.T) {
	def := sampleDef()
	assert.Equal(t, 13+28+72, def.BodyLength())

	b, err := def.MarshalBinary()
	require.NoError(t, err)

	var out vector.RecordBatchDef
	require.NoError(t, out.UnmarshalBinary(b))
	assert.Equal(t, def, out)
	for i := range def.Fields {
		assert.True(t, def.Fields[i].Def.Equal(out.Fields[i].Def))
	}
	assert.Nil(t, out.Fields[0].VarByteLength)
	assert.EqualValues(t, 11, out.Fields[1].GetVarByteLength())
}

func TestBufferMetadataNegativeCount(t *testing.T) {
	meta := vector.BufferMetadata{Def: intField("x"), ValueCount: -1, BufferLength: -5}
	b, err := meta.MarshalBinary()
	require.NoError(t, err)

	var out vector.BufferMetadata
	require.NoError(t, out.UnmarshalBinary(b))
	assert.EqualValues(t, -1, out.ValueCount)
	assert.EqualValues(t, -5, out.BufferLength)
}

func TestBufferMetadataSkipsUnknownFields(t *testing.T) {
	meta := vector.BufferMetadata{Def: intField("x"), ValueCount: 2, BufferLength: 9}
	b, err := meta.AppendBinary(nil)
	require.NoError(t, err)

	b = protowire.AppendTag(b, 15, protowire.Fixed32Type)
	b = protowire.AppendFixed32(b, 7)
	b = protowire.AppendTag(b, 16, protowire.BytesType)
	b = protowire.AppendString(b, "extra")

	var out vector.BufferMetadata
	require.NoError(t, out.UnmarshalBinary(b))
	assert.Equal(t, meta, out)
}

func TestRecordBatchDefTruncated(t *testing.T) {
	def := sampleDef()
	b, err := def.MarshalBinary()
	require.NoError(t, err)

	var out vector.RecordBatchDef
	for _, n := range []int{1, len(b) / 2, len(b) - 1} {
		err := out.UnmarshalBinary(b[:n])
		assert.ErrorIs(t, err, vector.ErrCorruptWireData, "truncated to %d bytes", n)
	}
}
