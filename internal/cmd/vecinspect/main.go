package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/docopt/docopt-go"
	"github.com/dustin/go-humanize"

	vector "github.com/factset/go-drill-vector"
	"github.com/factset/go-drill-vector/memory"
	"github.com/factset/go-drill-vector/stream"
)

const usage = `Vector Inspect.

Usage:
	vecinspect -h | --help
	vecinspect gen [-c CODEC] [-l LEVEL] [-n ROWS] FILE
	vecinspect dump [--limit SIZE] [--rows N] FILE

Arguments:
	FILE  batch stream file to write or read

Options:
	-h --help               Show this screen.
	-c CODEC --codec CODEC  body compression, one of none, lz4, zstd [default: none]
	-l LEVEL --level LEVEL  compression level, 0 for the codec default [default: 0]
	-n ROWS --num ROWS      number of rows to generate [default: 1000]
	--limit SIZE            memory limit while reading [default: 256MiB]
	--rows N                values to print per column [default: 5]`

var sampleFields = []vector.FieldDescriptor{
	vector.NewField("id", vector.MinorTypeInt, vector.DataModeRequired),
	vector.NewField("score", vector.MinorTypeFloat8, vector.DataModeOptional),
	vector.NewField("name", vector.MinorTypeVarChar, vector.DataModeOptional),
	vector.NewField("active", vector.MinorTypeBit, vector.DataModeOptional),
	vector.NewField("created", vector.MinorTypeTimestamp, vector.DataModeOptional),
}

func gen(path string, opts stream.Options, rows int) {
	fmt.Printf("Generate %d rows into %s (%s)\n", rows, path, opts.Compression)
	alloc := memory.NewAllocator(memory.Options{})

	vecs := make([]vector.ValueVector, 0, len(sampleFields))
	for _, f := range sampleFields {
		v, err := vector.NewVector(f, alloc)
		if err != nil {
			log.Fatal(err)
		}
		if err := v.AllocateNew(rows); err != nil {
			log.Fatal(err)
		}
		if err := v.GenerateTestData(rows); err != nil {
			log.Fatal(err)
		}
		vecs = append(vecs, v)
	}

	out, err := os.Create(path)
	if err != nil {
		log.Fatal(err)
	}
	defer out.Close()

	w, err := stream.NewWriter(out, opts)
	if err != nil {
		log.Fatal(err)
	}
	defer w.Close()

	if err := w.WriteVectors(vecs...); err != nil {
		log.Fatal(err)
	}
}

func dump(path string, limit uint64, rows int) {
	in, err := os.Open(path)
	if err != nil {
		log.Fatal(err)
	}
	defer in.Close()

	alloc := memory.NewAllocator(memory.Options{Limit: int64(limit)})
	r, err := stream.NewReader(in, alloc)
	if err != nil {
		log.Fatal(err)
	}
	defer r.Close()

	fmt.Printf("%s: compression %s, limit %s\n", path, r.Compression(), humanize.IBytes(limit))
	for n := 0; ; n++ {
		batch, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Fatal(err)
		}

		fmt.Printf("batch %d: %d rows, %d columns, %s in use\n", n, batch.NumRows(), len(batch.Vecs), humanize.IBytes(uint64(alloc.InUse())))
		for _, v := range batch.Vecs {
			f := v.Field()
			fmt.Printf("  %-10s %-10s %-8s nulls=%-6d size=%s\n", f.Path(), f.Type.MinorType, f.Type.Mode, v.NullCount(), humanize.IBytes(uint64(v.BufferSize())))
			for i := 0; i < rows && i < v.ValueCount(); i++ {
				fmt.Printf("    [%d] %v\n", i, v.GetObject(i))
			}
		}
		batch.Release()
	}
}

func main() {
	opts, err := docopt.ParseDoc(usage)
	if err != nil {
		panic(err)
	}
	var config struct {
		Gen   bool   `docopt:"gen"`
		Dump  bool   `docopt:"dump"`
		Codec string `docopt:"--codec"`
		Level string `docopt:"--level"`
		Num   string `docopt:"--num"`
		Limit string `docopt:"--limit"`
		Rows  string `docopt:"--rows"`
		File  string `docopt:"FILE"`
	}

	if err := opts.Bind(&config); err != nil {
		log.Fatal(err)
	}

	switch {
	case config.Gen:
		sopts, err := stream.ParseOptions("compression=" + config.Codec + ";level=" + config.Level)
		if err != nil {
			log.Fatal(err)
		}
		rows, err := strconv.Atoi(config.Num)
		if err != nil {
			log.Fatal(err)
		}
		gen(config.File, sopts, rows)
	case config.Dump:
		limit, err := humanize.ParseBytes(config.Limit)
		if err != nil {
			log.Fatal(err)
		}
		rows, err := strconv.Atoi(config.Rows)
		if err != nil {
			log.Fatal(err)
		}
		dump(config.File, limit, rows)
	}
}
