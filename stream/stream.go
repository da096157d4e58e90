// Package stream reads and writes sequences of record batches.
//
// A stream starts with a four byte magic, a version byte and the compression
// codec used for every batch body. Each batch is then written as
//
//	uvarint(len(def)) def uvarint(rawLen) uvarint(storedLen) body
//
// where def is the encoded vector.RecordBatchDef and body holds the column
// buffers in the order the def lists them. A storedLen of zero means the body
// was stored uncompressed and is rawLen bytes long.
package stream

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	vector "github.com/factset/go-drill-vector"
	"github.com/factset/go-drill-vector/memory"
)

var (
	// ErrInvalidOptions is returned for option strings or values that cannot
	// be used.
	ErrInvalidOptions = errors.New("drill vector stream: invalid options")
)

const (
	magic   = "DVEC"
	version = 1

	headerLen = len(magic) + 2
	// bodies larger than this are treated as corrupt
	maxFrameLen = 1 << 31
	// batch defs larger than this are treated as corrupt
	maxDefLen = 1 << 20
)

func makePrefixedMessage(data []byte) []byte {
	buf := make([]byte, binary.MaxVarintLen64, binary.MaxVarintLen64+len(data))
	nbytes := binary.PutUvarint(buf, uint64(len(data)))
	return append(buf[:nbytes], data...)
}

// readLength reads one uvarint no larger than limit. An io.EOF before the first
// byte is returned as is when atStart is set, every other short read is
// io.ErrUnexpectedEOF.
func readLength(r *bufio.Reader, atStart bool, limit uint64) (int, error) {
	v, err := binary.ReadUvarint(r)
	switch {
	case err == io.EOF && atStart:
		return 0, io.EOF
	case err == io.EOF:
		return 0, io.ErrUnexpectedEOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		return 0, io.ErrUnexpectedEOF
	case err != nil:
		return 0, fmt.Errorf("%w: %s", vector.ErrCorruptWireData, err)
	}

	if v > limit {
		return 0, fmt.Errorf("%w: frame length %d exceeds %d", vector.ErrCorruptWireData, v, limit)
	}
	return int(v), nil
}

func readFull(r io.Reader, n int) ([]byte, error) {
	out := make([]byte, n)
	if err := fill(r, out); err != nil {
		return nil, err
	}
	return out, nil
}

// fill reads exactly len(dst) bytes, a short read is io.ErrUnexpectedEOF.
func fill(r io.Reader, dst []byte) error {
	if _, err := io.ReadFull(r, dst); err != nil {
		if err == io.EOF {
			return io.ErrUnexpectedEOF
		}
		return err
	}
	return nil
}

// readBuffer reads n bytes into a buffer taken from alloc. The caller releases
// it.
func readBuffer(r io.Reader, alloc memory.Allocator, n int) (*memory.Buffer, error) {
	buf, err := alloc.Allocate(n)
	if err != nil {
		return nil, err
	}
	if err := fill(r, buf.Bytes()); err != nil {
		buf.Release()
		return nil, err
	}
	return buf, nil
}
