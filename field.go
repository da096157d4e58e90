package vector

import "strings"

// NamePartType distinguishes named path segments from array segments.
type NamePartType int32

const (
	NamePartName  NamePartType = 0
	NamePartArray NamePartType = 1
)

// A NamePart is one segment of a field's path.
type NamePart struct {
	Type NamePartType
	Name string
}

// MajorType is the full logical type of a field.
type MajorType struct {
	MinorType MinorType
	Mode      DataMode
	Width     int32
	Precision int32
	Scale     int32
	TimeZone  int32
}

// A FieldDescriptor is the identity of a column: its path and its type. Two
// descriptors are the same field if Equal reports true; this is checked when
// loading serialized data into a vector.
type FieldDescriptor struct {
	Name []NamePart
	Type MajorType
}

// NewField returns a descriptor for a top level column.
func NewField(name string, typ MinorType, mode DataMode) FieldDescriptor {
	return FieldDescriptor{
		Name: []NamePart{{Type: NamePartName, Name: name}},
		Type: MajorType{MinorType: typ, Mode: mode},
	}
}

// Path joins the name parts with dots.
func (f FieldDescriptor) Path() string {
	parts := make([]string, len(f.Name))
	for i, p := range f.Name {
		parts[i] = p.Name
	}
	return strings.Join(parts, ".")
}

func (f FieldDescriptor) IsNullable() bool {
	return f.Type.Mode == DataModeOptional
}

// Equal reports whether f and o describe the same field.
func (f FieldDescriptor) Equal(o FieldDescriptor) bool {
	if f.Type != o.Type || len(f.Name) != len(o.Name) {
		return false
	}
	for i := range f.Name {
		if f.Name[i] != o.Name[i] {
			return false
		}
	}
	return true
}

// OtherNullableVersion returns the same field with OPTIONAL and REQUIRED modes
// swapped. Repeated fields are returned unchanged.
func (f FieldDescriptor) OtherNullableVersion() FieldDescriptor {
	out := FieldDescriptor{Name: append([]NamePart(nil), f.Name...), Type: f.Type}
	switch f.Type.Mode {
	case DataModeOptional:
		out.Type.Mode = DataModeRequired
	case DataModeRequired:
		out.Type.Mode = DataModeOptional
	}
	return out
}

func (f FieldDescriptor) String() string {
	return f.Path() + " " + f.Type.MinorType.String() + " " + f.Type.Mode.String()
}
