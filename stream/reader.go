package stream

import (
	"bufio"
	"fmt"
	"io"

	vector "github.com/factset/go-drill-vector"
	"github.com/factset/go-drill-vector/internal/log"
	"github.com/factset/go-drill-vector/memory"
)

// A Reader reads record batches written by a Writer. Batch defs, stored and
// decompressed bodies all live in buffers from the Reader's allocator, so a
// limited allocator bounds the memory a stream can claim.
type Reader struct {
	r     *bufio.Reader
	alloc memory.Allocator
	codec Compression
	dec   *decompressor
}

// NewReader reads and checks the stream header.
func NewReader(r io.Reader, alloc memory.Allocator) (*Reader, error) {
	br := bufio.NewReader(r)
	header, err := readFull(br, headerLen)
	if err != nil {
		return nil, err
	}

	if string(header[:len(magic)]) != magic {
		return nil, fmt.Errorf("%w: bad magic %q", vector.ErrCorruptWireData, header[:len(magic)])
	}
	if v := header[len(magic)]; v != version {
		return nil, fmt.Errorf("%w: unsupported stream version %d", vector.ErrCorruptWireData, v)
	}

	codec := Compression(header[len(magic)+1])
	if err := (Options{Compression: codec}).validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", vector.ErrCorruptWireData, err)
	}

	dec, err := newDecompressor(codec)
	if err != nil {
		return nil, err
	}

	return &Reader{r: br, alloc: alloc, codec: codec, dec: dec}, nil
}

// Compression is the codec named in the stream header.
func (r *Reader) Compression() Compression {
	return r.codec
}

// Next reads the next batch. It returns io.EOF when the stream ends cleanly
// between batches and io.ErrUnexpectedEOF when it ends inside one.
func (r *Reader) Next() (*vector.RecordBatch, error) {
	batch, err := r.next()
	if err != nil && err != io.EOF {
		log.Warn().Err(err).Str("compression", r.codec.String()).Msg("failed to read batch")
	}
	return batch, err
}

func (r *Reader) next() (*vector.RecordBatch, error) {
	defLen, err := readLength(r.r, true, maxDefLen)
	if err != nil {
		return nil, err
	}

	defBuf, err := readBuffer(r.r, r.alloc, defLen)
	if err != nil {
		return nil, err
	}
	var def vector.RecordBatchDef
	err = def.UnmarshalBinary(defBuf.Bytes())
	defBuf.Release()
	if err != nil {
		return nil, err
	}

	rawLen, err := readLength(r.r, false, maxFrameLen)
	if err != nil {
		return nil, err
	}
	storedLen, err := readLength(r.r, false, maxFrameLen)
	if err != nil {
		return nil, err
	}

	if rawLen != def.BodyLength() {
		return nil, fmt.Errorf("%w: body is %d bytes, batch def declares %d", vector.ErrCorruptWireData, rawLen, def.BodyLength())
	}
	// compressed bodies are only written when they are smaller
	if storedLen >= rawLen && storedLen != 0 {
		return nil, fmt.Errorf("%w: %d stored bytes for a %d byte body", vector.ErrCorruptWireData, storedLen, rawLen)
	}

	body, err := r.alloc.Allocate(rawLen)
	if err != nil {
		return nil, err
	}
	defer body.Release()

	if storedLen == 0 {
		if err := fill(r.r, body.Bytes()); err != nil {
			return nil, err
		}
	} else {
		stored, err := readBuffer(r.r, r.alloc, storedLen)
		if err != nil {
			return nil, err
		}
		err = r.dec.decompress(stored.Bytes(), body.Bytes())
		stored.Release()
		if err != nil {
			return nil, err
		}
	}

	return vector.LoadRecordBatch(def, body, r.alloc)
}

func (r *Reader) Close() {
	r.dec.Close()
}
