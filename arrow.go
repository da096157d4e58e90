package vector

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/factset/go-drill-vector/memory"
)

// ToArrowType returns the arrow type with the same physical layout as typ, or
// arrow.Null if there is none.
func ToArrowType(typ MinorType) arrow.DataType {
	switch typ {
	case MinorTypeBigInt:
		return arrow.PrimitiveTypes.Int64
	case MinorTypeInt:
		return arrow.PrimitiveTypes.Int32
	case MinorTypeSmallInt:
		return arrow.PrimitiveTypes.Int16
	case MinorTypeTinyInt:
		return arrow.PrimitiveTypes.Int8
	case MinorTypeDate:
		return arrow.FixedWidthTypes.Date64
	case MinorTypeTime:
		return arrow.FixedWidthTypes.Time32ms
	case MinorTypeBit:
		return arrow.FixedWidthTypes.Boolean
	case MinorTypeFloat4:
		return arrow.PrimitiveTypes.Float32
	case MinorTypeFloat8:
		return arrow.PrimitiveTypes.Float64
	case MinorTypeUInt1:
		return arrow.PrimitiveTypes.Uint8
	case MinorTypeUInt2:
		return arrow.PrimitiveTypes.Uint16
	case MinorTypeUInt4:
		return arrow.PrimitiveTypes.Uint32
	case MinorTypeUInt8:
		return arrow.PrimitiveTypes.Uint64
	case MinorTypeIntervalDay:
		return arrow.FixedWidthTypes.DayTimeInterval
	case MinorTypeIntervalYear:
		return arrow.FixedWidthTypes.MonthInterval
	case MinorTypeVarChar:
		return arrow.BinaryTypes.String
	case MinorTypeVarBinary:
		return arrow.BinaryTypes.Binary
	case MinorTypeTimestamp:
		return arrow.FixedWidthTypes.Timestamp_ms
	}
	return arrow.Null
}

// NewArrowArray returns an arrow array over the current contents of v. The
// buffers are shared, not copied: the array holds its own references, so v can
// be cleared or reused while the array is alive. Release the array when done.
func NewArrowArray(v ValueVector) (arrow.Array, error) {
	field := v.Field()
	arrowType := ToArrowType(field.Type.MinorType)
	if arrowType == arrow.Null {
		return nil, fmt.Errorf("%w: no arrow type for %s", ErrUnsupportedType, field.Type.MinorType)
	}

	bufs := v.peekBuffers()
	defer memory.ReleaseAll(bufs)

	buffers := make([]*memory.Buffer, 1, len(bufs)+1)
	nullCount := 0
	if field.IsNullable() {
		buffers[0] = bufs[0]
		buffers = append(buffers, bufs[1:]...)
		nullCount = v.NullCount()
	} else {
		buffers = append(buffers, bufs...)
	}

	data := array.NewData(arrowType, v.ValueCount(), buffers, nil, nullCount, 0)
	defer data.Release()
	return array.MakeFromData(data), nil
}
