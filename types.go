package vector

import "strconv"

// MinorType identifies the physical type of a column. Values follow the
// numbering of Drill's common.MinorType enum so they can be written to and read
// from the wire unchanged.
type MinorType int32

const (
	MinorTypeLate            MinorType = 0
	MinorTypeMap             MinorType = 1
	MinorTypeTinyInt         MinorType = 3
	MinorTypeSmallInt        MinorType = 4
	MinorTypeInt             MinorType = 5
	MinorTypeBigInt          MinorType = 6
	MinorTypeDecimal9        MinorType = 7
	MinorTypeDecimal18       MinorType = 8
	MinorTypeDecimal28Sparse MinorType = 9
	MinorTypeDecimal38Sparse MinorType = 10
	MinorTypeMoney           MinorType = 11
	MinorTypeDate            MinorType = 12
	MinorTypeTime            MinorType = 13
	MinorTypeTimeTZ          MinorType = 14
	MinorTypeTimestampTZ     MinorType = 15
	MinorTypeTimestamp       MinorType = 16
	MinorTypeInterval        MinorType = 17
	MinorTypeFloat4          MinorType = 18
	MinorTypeFloat8          MinorType = 19
	MinorTypeBit             MinorType = 20
	MinorTypeFixedChar       MinorType = 21
	MinorTypeFixed16Char     MinorType = 22
	MinorTypeFixedBinary     MinorType = 23
	MinorTypeVarChar         MinorType = 24
	MinorTypeVar16Char       MinorType = 25
	MinorTypeVarBinary       MinorType = 26
	MinorTypeUInt1           MinorType = 29
	MinorTypeUInt2           MinorType = 30
	MinorTypeUInt4           MinorType = 31
	MinorTypeUInt8           MinorType = 32
	MinorTypeDecimal28Dense  MinorType = 33
	MinorTypeDecimal38Dense  MinorType = 34
	MinorTypeNull            MinorType = 37
	MinorTypeIntervalYear    MinorType = 38
	MinorTypeIntervalDay     MinorType = 39
)

var minorTypeNames = map[MinorType]string{
	MinorTypeLate:            "LATE",
	MinorTypeMap:             "MAP",
	MinorTypeTinyInt:         "TINYINT",
	MinorTypeSmallInt:        "SMALLINT",
	MinorTypeInt:             "INT",
	MinorTypeBigInt:          "BIGINT",
	MinorTypeDecimal9:        "DECIMAL9",
	MinorTypeDecimal18:       "DECIMAL18",
	MinorTypeDecimal28Sparse: "DECIMAL28SPARSE",
	MinorTypeDecimal38Sparse: "DECIMAL38SPARSE",
	MinorTypeMoney:           "MONEY",
	MinorTypeDate:            "DATE",
	MinorTypeTime:            "TIME",
	MinorTypeTimeTZ:          "TIMETZ",
	MinorTypeTimestampTZ:     "TIMESTAMPTZ",
	MinorTypeTimestamp:       "TIMESTAMP",
	MinorTypeInterval:        "INTERVAL",
	MinorTypeFloat4:          "FLOAT4",
	MinorTypeFloat8:          "FLOAT8",
	MinorTypeBit:             "BIT",
	MinorTypeFixedChar:       "FIXEDCHAR",
	MinorTypeFixed16Char:     "FIXED16CHAR",
	MinorTypeFixedBinary:     "FIXEDBINARY",
	MinorTypeVarChar:         "VARCHAR",
	MinorTypeVar16Char:       "VAR16CHAR",
	MinorTypeVarBinary:       "VARBINARY",
	MinorTypeUInt1:           "UINT1",
	MinorTypeUInt2:           "UINT2",
	MinorTypeUInt4:           "UINT4",
	MinorTypeUInt8:           "UINT8",
	MinorTypeDecimal28Dense:  "DECIMAL28DENSE",
	MinorTypeDecimal38Dense:  "DECIMAL38DENSE",
	MinorTypeNull:            "NULL",
	MinorTypeIntervalYear:    "INTERVALYEAR",
	MinorTypeIntervalDay:     "INTERVALDAY",
}

func (m MinorType) String() string {
	if name, ok := minorTypeNames[m]; ok {
		return name
	}
	return "MinorType(" + strconv.Itoa(int(m)) + ")"
}

// ParseMinorType returns the MinorType with the given upper case name.
func ParseMinorType(name string) (MinorType, bool) {
	for typ, n := range minorTypeNames {
		if n == name {
			return typ, true
		}
	}
	return MinorTypeLate, false
}

// DataMode says whether a column may contain nulls.
type DataMode int32

const (
	DataModeOptional DataMode = 0
	DataModeRequired DataMode = 1
	DataModeRepeated DataMode = 2
)

func (d DataMode) String() string {
	switch d {
	case DataModeOptional:
		return "OPTIONAL"
	case DataModeRequired:
		return "REQUIRED"
	case DataModeRepeated:
		return "REPEATED"
	}
	return "DataMode(" + strconv.Itoa(int(d)) + ")"
}

// Numeric is the set of Go types stored by fixed-width numeric vectors.
type Numeric interface {
	int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64 | float32 | float64
}
