package vector

import (
	"google.golang.org/protobuf/encoding/protowire"
)

// BufferMetadata describes one serialized column: which field it is, how many
// values it holds and how many bytes of the batch body belong to it. It is
// encoded with the field numbers of Drill's FieldMetadata message.
type BufferMetadata struct {
	Def        FieldDescriptor
	ValueCount int32
	// VarByteLength is only set for variable-width columns.
	VarByteLength *int32
	BufferLength  int32
}

func (m *BufferMetadata) GetVarByteLength() int32 {
	if m.VarByteLength == nil {
		return 0
	}
	return *m.VarByteLength
}

// RecordBatchDef lists the columns of a batch in the order their buffers are
// laid out in the body.
type RecordBatchDef struct {
	Fields      []BufferMetadata
	RecordCount int32
}

// BodyLength is the total number of body bytes described by the def.
func (d *RecordBatchDef) BodyLength() int {
	total := 0
	for _, f := range d.Fields {
		total += int(f.BufferLength)
	}
	return total
}

const (
	fieldMetadataDef           protowire.Number = 1
	fieldMetadataValueCount    protowire.Number = 2
	fieldMetadataVarByteLength protowire.Number = 3
	fieldMetadataBufferLength  protowire.Number = 5

	fieldDefName      protowire.Number = 1
	fieldDefMajorType protowire.Number = 2

	namePartType protowire.Number = 1
	namePartName protowire.Number = 2

	majorTypeMinorType protowire.Number = 1
	majorTypeMode      protowire.Number = 2
	majorTypeWidth     protowire.Number = 3
	majorTypePrecision protowire.Number = 4
	majorTypeScale     protowire.Number = 5
	majorTypeTimeZone  protowire.Number = 6

	recordBatchDefField       protowire.Number = 1
	recordBatchDefRecordCount protowire.Number = 2
)

func appendInt32(b []byte, num protowire.Number, v int32) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(int64(v)))
}

func appendMessage(b []byte, num protowire.Number, msg []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, msg)
}

func appendMajorType(b []byte, t MajorType) []byte {
	b = appendInt32(b, majorTypeMinorType, int32(t.MinorType))
	b = appendInt32(b, majorTypeMode, int32(t.Mode))
	if t.Width != 0 {
		b = appendInt32(b, majorTypeWidth, t.Width)
	}
	if t.Precision != 0 {
		b = appendInt32(b, majorTypePrecision, t.Precision)
	}
	if t.Scale != 0 {
		b = appendInt32(b, majorTypeScale, t.Scale)
	}
	if t.TimeZone != 0 {
		b = appendInt32(b, majorTypeTimeZone, t.TimeZone)
	}
	return b
}

func appendFieldDef(b []byte, f FieldDescriptor) []byte {
	for _, p := range f.Name {
		var part []byte
		part = appendInt32(part, namePartType, int32(p.Type))
		part = protowire.AppendTag(part, namePartName, protowire.BytesType)
		part = protowire.AppendString(part, p.Name)
		b = appendMessage(b, fieldDefName, part)
	}
	return appendMessage(b, fieldDefMajorType, appendMajorType(nil, f.Type))
}

// AppendBinary appends the wire encoding of m to b.
func (m *BufferMetadata) AppendBinary(b []byte) ([]byte, error) {
	b = appendMessage(b, fieldMetadataDef, appendFieldDef(nil, m.Def))
	b = appendInt32(b, fieldMetadataValueCount, m.ValueCount)
	if m.VarByteLength != nil {
		b = appendInt32(b, fieldMetadataVarByteLength, *m.VarByteLength)
	}
	return appendInt32(b, fieldMetadataBufferLength, m.BufferLength), nil
}

func (m *BufferMetadata) MarshalBinary() ([]byte, error) {
	return m.AppendBinary(nil)
}

func (d *RecordBatchDef) AppendBinary(b []byte) ([]byte, error) {
	for i := range d.Fields {
		field, err := d.Fields[i].AppendBinary(nil)
		if err != nil {
			return nil, err
		}
		b = appendMessage(b, recordBatchDefField, field)
	}
	return appendInt32(b, recordBatchDefRecordCount, d.RecordCount), nil
}

func (d *RecordBatchDef) MarshalBinary() ([]byte, error) {
	return d.AppendBinary(nil)
}

// walkFields calls fn for every field in a protobuf message. Varint fields are
// passed as v, length delimited ones as data. Other wire types are skipped.
func walkFields(msg []byte, fn func(num protowire.Number, v uint64, data []byte) error) error {
	for len(msg) > 0 {
		num, typ, n := protowire.ConsumeTag(msg)
		if n < 0 {
			return corruptWireData("bad tag: %v", protowire.ParseError(n))
		}
		msg = msg[n:]

		switch typ {
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(msg)
			if n < 0 {
				return corruptWireData("bad varint in field %d: %v", num, protowire.ParseError(n))
			}
			msg = msg[n:]
			if err := fn(num, v, nil); err != nil {
				return err
			}
		case protowire.BytesType:
			data, n := protowire.ConsumeBytes(msg)
			if n < 0 {
				return corruptWireData("bad length in field %d: %v", num, protowire.ParseError(n))
			}
			msg = msg[n:]
			if err := fn(num, 0, data); err != nil {
				return err
			}
		default:
			n := protowire.ConsumeFieldValue(num, typ, msg)
			if n < 0 {
				return corruptWireData("bad value in field %d: %v", num, protowire.ParseError(n))
			}
			msg = msg[n:]
		}
	}
	return nil
}

func parseMajorType(msg []byte) (MajorType, error) {
	var t MajorType
	err := walkFields(msg, func(num protowire.Number, v uint64, _ []byte) error {
		switch num {
		case majorTypeMinorType:
			t.MinorType = MinorType(int32(v))
		case majorTypeMode:
			t.Mode = DataMode(int32(v))
		case majorTypeWidth:
			t.Width = int32(v)
		case majorTypePrecision:
			t.Precision = int32(v)
		case majorTypeScale:
			t.Scale = int32(v)
		case majorTypeTimeZone:
			t.TimeZone = int32(v)
		}
		return nil
	})
	return t, err
}

func parseNamePart(msg []byte) (NamePart, error) {
	var p NamePart
	err := walkFields(msg, func(num protowire.Number, v uint64, data []byte) error {
		switch num {
		case namePartType:
			p.Type = NamePartType(int32(v))
		case namePartName:
			p.Name = string(data)
		}
		return nil
	})
	return p, err
}

func parseFieldDef(msg []byte) (FieldDescriptor, error) {
	var f FieldDescriptor
	err := walkFields(msg, func(num protowire.Number, _ uint64, data []byte) error {
		switch num {
		case fieldDefName:
			p, err := parseNamePart(data)
			if err != nil {
				return err
			}
			f.Name = append(f.Name, p)
		case fieldDefMajorType:
			t, err := parseMajorType(data)
			if err != nil {
				return err
			}
			f.Type = t
		}
		return nil
	})
	return f, err
}

// UnmarshalBinary decodes a FieldMetadata message into m.
func (m *BufferMetadata) UnmarshalBinary(b []byte) error {
	*m = BufferMetadata{}
	return walkFields(b, func(num protowire.Number, v uint64, data []byte) error {
		switch num {
		case fieldMetadataDef:
			def, err := parseFieldDef(data)
			if err != nil {
				return err
			}
			m.Def = def
		case fieldMetadataValueCount:
			m.ValueCount = int32(v)
		case fieldMetadataVarByteLength:
			l := int32(v)
			m.VarByteLength = &l
		case fieldMetadataBufferLength:
			m.BufferLength = int32(v)
		}
		return nil
	})
}

// UnmarshalBinary decodes a RecordBatchDef message into d.
func (d *RecordBatchDef) UnmarshalBinary(b []byte) error {
	*d = RecordBatchDef{}
	return walkFields(b, func(num protowire.Number, v uint64, data []byte) error {
		switch num {
		case recordBatchDefField:
			var f BufferMetadata
			if err := f.UnmarshalBinary(data); err != nil {
				return err
			}
			d.Fields = append(d.Fields, f)
		case recordBatchDefRecordCount:
			d.RecordCount = int32(v)
		}
		return nil
	})
}
