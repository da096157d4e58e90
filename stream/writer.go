package stream

import (
	"encoding/binary"
	"io"

	vector "github.com/factset/go-drill-vector"
	"github.com/factset/go-drill-vector/internal/log"
	"github.com/factset/go-drill-vector/memory"
)

// A Writer writes record batches to an underlying io.Writer. It is not safe
// for concurrent use.
type Writer struct {
	w    io.Writer
	comp *compressor
}

// NewWriter validates opts and writes the stream header to w.
func NewWriter(w io.Writer, opts Options) (*Writer, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	comp, err := newCompressor(opts)
	if err != nil {
		return nil, err
	}

	header := append([]byte(magic), version, byte(opts.Compression))
	if _, err := w.Write(header); err != nil {
		comp.Close()
		return nil, err
	}

	return &Writer{w: w, comp: comp}, nil
}

// WriteBatch writes one batch. It takes ownership of buffers and releases
// them before returning, whether or not the write succeeded.
func (w *Writer) WriteBatch(def vector.RecordBatchDef, buffers []*memory.Buffer) error {
	body := memory.Concat(buffers)
	memory.ReleaseAll(buffers)
	defer body.Release()

	defBytes, err := def.MarshalBinary()
	if err != nil {
		return err
	}

	raw := body.Bytes()
	stored, err := w.comp.compress(raw)
	if err != nil {
		return err
	}

	frame := makePrefixedMessage(defBytes)
	frame = binary.AppendUvarint(frame, uint64(len(raw)))
	frame = binary.AppendUvarint(frame, uint64(len(stored)))
	if stored == nil {
		frame = append(frame, raw...)
	} else {
		frame = append(frame, stored...)
	}

	if _, err = w.w.Write(frame); err != nil {
		return err
	}

	log.Debug().Int32("rows", def.RecordCount).Int("raw", len(raw)).Int("stored", len(stored)).
		Str("compression", w.comp.codec.String()).Msg("wrote batch")
	return nil
}

// WriteVectors serializes vecs as one batch. The vectors are cleared.
func (w *Writer) WriteVectors(vecs ...vector.ValueVector) error {
	def, buffers, err := vector.NewWritableBatch(vecs...)
	if err != nil {
		return err
	}
	return w.WriteBatch(def, buffers)
}

// Close releases the compressor. It does not close the underlying writer.
func (w *Writer) Close() error {
	return w.comp.Close()
}
