package vector

import "github.com/RoaringBitmap/roaring/v2"

// NullSet returns the positions of the null slots of v below its value count.
func NullSet(v ValueVector) *roaring.Bitmap {
	nsp := roaring.New()
	if v.NullCount() == 0 {
		return nsp
	}

	for i := 0; i < v.ValueCount(); i++ {
		if v.IsNull(i) {
			nsp.Add(uint32(i))
		}
	}
	return nsp
}

// Filter copies the slots of src whose positions are in sel into dst, packed
// from slot zero, and sets the value count of dst. dst must have been
// allocated with room for sel.GetCardinality() values.
func Filter[T any](dst, src *NullableVector[T], sel *roaring.Bitmap) error {
	out := 0
	it := sel.Iterator()
	for it.HasNext() {
		i := int(it.Next())
		if i >= src.ValueCount() {
			break
		}
		if err := dst.CopyFrom(i, out, src); err != nil {
			return err
		}
		out++
	}
	return dst.Mutator().SetValueCount(out)
}
