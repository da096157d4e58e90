// Package vector implements Drill's nullable columnar value vectors.
//
// A NullableVector is one column of a record batch: a ValidityBitmap holding
// one bit per slot next to an ElementStore holding the values. The same vector
// type serves every element type; the store picked at construction decides
// between fixed-width numbers, byte slots, bits and variable-width bytes.
//
// Reads go through the vector's Accessor and writes through its Mutator:
//
//	alloc := memory.NewAllocator(memory.Options{Limit: 64 << 20})
//	v := vector.NewNullableVector(vector.NewField("n", vector.MinorTypeInt, vector.DataModeOptional),
//		alloc, vector.FixedStore[int32](nil))
//	if err := v.AllocateNew(4); err != nil {
//		return err
//	}
//	v.Mutator().Set(1, 7)
//	v.Mutator().Set(3, 9)
//	v.Mutator().SetValueCount(4)
//
// Buffers are reference counted and change owner instead of being copied.
// Buffers and TransferTo both leave the source vector empty, and Load slices
// the incoming buffer rather than copying it. A column travels between
// processes as its Metadata plus the concatenation of its Buffers, which is
// exactly what LoadRecordBatch and the stream package consume.
package vector
