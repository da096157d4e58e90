package vector

import (
	"github.com/factset/go-drill-vector/internal/log"
	"github.com/factset/go-drill-vector/memory"
)

// A RecordBatch is one group of rows stored column by column.
//
// Def describes the batch as it was (or will be) serialized: one
// BufferMetadata per column, in the same order as Vecs, plus the record count.
// The vectors own their buffers, call Release when done with the batch.
type RecordBatch struct {
	Def  RecordBatchDef
	Vecs []ValueVector
}

// NumRows returns the record count of the batch.
func (r *RecordBatch) NumRows() int {
	return int(r.Def.RecordCount)
}

// Column returns the vector whose field path is name, or nil.
func (r *RecordBatch) Column(name string) ValueVector {
	for _, v := range r.Vecs {
		if v.Field().Path() == name {
			return v
		}
	}
	return nil
}

// Transfer moves every vector into a new batch. r is empty afterwards.
func (r *RecordBatch) Transfer() (*RecordBatch, error) {
	out := &RecordBatch{Def: r.Def, Vecs: make([]ValueVector, 0, len(r.Vecs))}
	for _, v := range r.Vecs {
		tp := v.MakeTransferPair()
		if err := tp.Transfer(); err != nil {
			out.Release()
			return nil, err
		}
		out.Vecs = append(out.Vecs, tp.To())
	}
	r.Vecs = nil
	r.Def = RecordBatchDef{}
	return out, nil
}

// Release clears every vector in the batch.
func (r *RecordBatch) Release() {
	for _, v := range r.Vecs {
		v.Clear()
	}
}

// NewWritableBatch takes the buffers of vecs for serialization. It returns the
// batch def and the buffers in body order; every vector is cleared and the
// caller owns the buffers. All vectors must have the same value count.
func NewWritableBatch(vecs ...ValueVector) (RecordBatchDef, []*memory.Buffer, error) {
	def := RecordBatchDef{Fields: make([]BufferMetadata, 0, len(vecs))}
	if len(vecs) > 0 {
		def.RecordCount = int32(vecs[0].ValueCount())
	}

	for _, v := range vecs {
		if v.ValueCount() != int(def.RecordCount) {
			return RecordBatchDef{}, nil, contractViolation("writable batch",
				"%s has %d values, batch has %d", v.Field(), v.ValueCount(), def.RecordCount)
		}
	}

	var buffers []*memory.Buffer
	for _, v := range vecs {
		def.Fields = append(def.Fields, v.Metadata())
		buffers = append(buffers, v.Buffers()...)
	}
	return def, buffers, nil
}

// LoadRecordBatch builds the vectors described by def from body, the
// concatenated column buffers. Each column gets the next BufferLength bytes of
// body. The vectors reference body without copying.
func LoadRecordBatch(def RecordBatchDef, body *memory.Buffer, alloc memory.Allocator) (*RecordBatch, error) {
	if want := def.BodyLength(); body.Len() < want {
		return nil, corruptWireData("batch def declares %d body bytes, got %d", want, body.Len())
	}

	batch := &RecordBatch{Def: def, Vecs: make([]ValueVector, 0, len(def.Fields))}
	offset := 0
	for _, f := range def.Fields {
		if f.ValueCount != def.RecordCount || f.BufferLength < 0 {
			batch.Release()
			return nil, corruptWireData("%s: %d values in %d bytes, batch has %d rows", f.Def, f.ValueCount, f.BufferLength, def.RecordCount)
		}

		vec, err := NewVector(f.Def, alloc)
		if err != nil {
			batch.Release()
			return nil, err
		}

		col := memory.SliceBuffer(body, offset, int(f.BufferLength))
		err = vec.Load(f, col)
		col.Release()
		if err != nil {
			batch.Release()
			return nil, err
		}

		batch.Vecs = append(batch.Vecs, vec)
		offset += int(f.BufferLength)
	}

	log.Debug().Int("columns", len(batch.Vecs)).Int32("rows", def.RecordCount).Msg("loaded record batch")
	return batch, nil
}
