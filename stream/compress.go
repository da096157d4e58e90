package stream

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	vector "github.com/factset/go-drill-vector"
)

var lz4Levels = [...]lz4.CompressionLevel{
	lz4.Level1, lz4.Level2, lz4.Level3, lz4.Level4, lz4.Level5,
	lz4.Level6, lz4.Level7, lz4.Level8, lz4.Level9,
}

type compressor struct {
	codec Compression
	level int
	enc   *zstd.Encoder
}

func newCompressor(opts Options) (*compressor, error) {
	c := &compressor{codec: opts.Compression, level: opts.Level}
	if c.codec == CompressionZstd {
		zopts := []zstd.EOption{}
		if opts.Level > 0 {
			zopts = append(zopts, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(opts.Level)))
		}
		enc, err := zstd.NewWriter(nil, zopts...)
		if err != nil {
			return nil, err
		}
		c.enc = enc
	}
	return c, nil
}

// compress returns the compressed form of data, or nil when data should be
// stored as is.
func (c *compressor) compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var out []byte
	switch c.codec {
	case CompressionLZ4:
		dst := make([]byte, lz4.CompressBlockBound(len(data)))
		var (
			n   int
			err error
		)
		if c.level > 0 {
			n, err = lz4.CompressBlockHC(data, dst, lz4Levels[c.level-1], nil, nil)
		} else {
			n, err = lz4.CompressBlock(data, dst, nil)
		}
		if err != nil {
			return nil, err
		}
		// zero means incompressible
		out = dst[:n]
	case CompressionZstd:
		out = c.enc.EncodeAll(data, nil)
	default:
		return nil, nil
	}

	if len(out) == 0 || len(out) >= len(data) {
		return nil, nil
	}
	return out, nil
}

func (c *compressor) Close() error {
	if c.enc != nil {
		return c.enc.Close()
	}
	return nil
}

type decompressor struct {
	codec Compression
	dec   *zstd.Decoder
}

func newDecompressor(codec Compression) (*decompressor, error) {
	d := &decompressor{codec: codec}
	if codec == CompressionZstd {
		// DecodeAll never grows dst past its capacity
		dec, err := zstd.NewReader(nil, zstd.WithDecodeAllCapLimit(true))
		if err != nil {
			return nil, err
		}
		d.dec = dec
	}
	return d, nil
}

// decompress expands stored into dst, which must be exactly the raw body
// length. Nothing is allocated outside dst.
func (d *decompressor) decompress(stored, dst []byte) error {
	switch d.codec {
	case CompressionLZ4:
		n, err := lz4.UncompressBlock(stored, dst)
		if err != nil {
			return fmt.Errorf("%w: lz4: %s", vector.ErrCorruptWireData, err)
		}
		if n != len(dst) {
			return fmt.Errorf("%w: lz4 block expanded to %d bytes, want %d", vector.ErrCorruptWireData, n, len(dst))
		}
		return nil
	case CompressionZstd:
		out, err := d.dec.DecodeAll(stored, dst[:0:len(dst)])
		if err != nil {
			return fmt.Errorf("%w: zstd: %s", vector.ErrCorruptWireData, err)
		}
		if len(out) != len(dst) {
			return fmt.Errorf("%w: zstd block expanded to %d bytes, want %d", vector.ErrCorruptWireData, len(out), len(dst))
		}
		return nil
	}
	return fmt.Errorf("%w: compressed body in a %s stream", vector.ErrCorruptWireData, d.codec)
}

func (d *decompressor) Close() {
	if d.dec != nil {
		d.dec.Close()
	}
}
