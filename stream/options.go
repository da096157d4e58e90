package stream

import (
	"fmt"
	"strconv"
	"strings"
)

// Compression selects how batch bodies are compressed.
type Compression uint8

const (
	CompressionNone Compression = 0
	CompressionLZ4  Compression = 1
	CompressionZstd Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	}
	return "Compression(" + strconv.Itoa(int(c)) + ")"
}

// ParseCompression accepts the names returned by Compression.String.
func ParseCompression(name string) (Compression, error) {
	switch strings.ToLower(name) {
	case "", "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZstd, nil
	}
	return CompressionNone, fmt.Errorf("%w: unknown compression %q", ErrInvalidOptions, name)
}

// Options configure a Writer.
type Options struct {
	Compression Compression
	// Level is the codec specific compression level, 1 to 9 for lz4 and
	// 1 to 22 for zstd. Zero picks the codec default.
	Level int
}

// ParseOptions parses a string of the form "compression=lz4;level=3". Keys
// are compression and level, both optional.
func ParseOptions(optStr string) (Options, error) {
	opts := Options{}
	if optStr == "" {
		return opts, nil
	}

	args := strings.Split(optStr, ";")
	for _, kv := range args {
		parsed := strings.Split(kv, "=")
		if len(parsed) != 2 {
			return opts, fmt.Errorf("%w: invalid format for option string", ErrInvalidOptions)
		}

		switch parsed[0] {
		case "compression":
			c, err := ParseCompression(parsed[1])
			if err != nil {
				return opts, err
			}
			opts.Compression = c
		case "level":
			lvl, err := strconv.Atoi(parsed[1])
			if err != nil {
				return opts, fmt.Errorf("%w: level: %s", ErrInvalidOptions, err)
			}
			opts.Level = lvl
		default:
			return opts, fmt.Errorf("%w: unknown option %q", ErrInvalidOptions, parsed[0])
		}
	}

	return opts, opts.validate()
}

func (o Options) validate() error {
	switch o.Compression {
	case CompressionNone:
	case CompressionLZ4:
		if o.Level < 0 || o.Level > 9 {
			return fmt.Errorf("%w: lz4 level %d out of range", ErrInvalidOptions, o.Level)
		}
	case CompressionZstd:
		if o.Level < 0 || o.Level > 22 {
			return fmt.Errorf("%w: zstd level %d out of range", ErrInvalidOptions, o.Level)
		}
	default:
		return fmt.Errorf("%w: unknown compression %d", ErrInvalidOptions, o.Compression)
	}
	return nil
}
