// Package memory hands out the raw buffers that value vectors are built on.
//
// Buffers are arrow's reference counted memory.Buffer: a vector owns one
// reference to each of its buffers and hands that reference over on transfer or
// serialization. The BufferAllocator accounts every byte it gives out against
// an optional limit.
package memory

import (
	"errors"
	"fmt"
	"sync/atomic"

	arrowmemory "github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/semaphore"

	"github.com/factset/go-drill-vector/internal/log"
)

// Buffer is a reference counted byte buffer. Retain and Release control its
// lifetime; memory is given back to the allocator it came from once the last
// reference is released.
type Buffer = arrowmemory.Buffer

// ErrAllocation is wrapped by every error returned when an allocation request
// cannot be satisfied.
var ErrAllocation = errors.New("drill vector: allocation failed")

// AllocationError describes a refused allocation request.
type AllocationError struct {
	Requested int64
	InUse     int64
	Limit     int64
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("%s: requested %d bytes with %d of %d in use", ErrAllocation, e.Requested, e.InUse, e.Limit)
}

func (e *AllocationError) Unwrap() error { return ErrAllocation }

// An Allocator hands out buffers of at least the requested size. Allocation
// failures are immediate; retry and backoff are left to the caller.
type Allocator interface {
	Allocate(size int) (*Buffer, error)
}

// Options configure a BufferAllocator.
type Options struct {
	// Limit is the maximum number of bytes that may be outstanding at once.
	// Zero means no limit, only accounting.
	Limit int64
	// Registerer receives the allocator metrics, nothing is registered if nil.
	Registerer prometheus.Registerer
	// Allocator is the underlying arrow allocator, defaults to a Go allocator.
	Allocator arrowmemory.Allocator
}

// BufferAllocator is an Allocator that accounts every outstanding byte and
// enforces an optional limit. It is safe for concurrent use by many vectors.
type BufferAllocator struct {
	limit   int64
	sem     *semaphore.Weighted
	inUse   atomic.Int64
	metrics *Metrics

	acct *accountingAllocator
}

// NewAllocator creates a BufferAllocator with the given options.
func NewAllocator(opts Options) *BufferAllocator {
	mem := opts.Allocator
	if mem == nil {
		mem = arrowmemory.NewGoAllocator()
	}

	a := &BufferAllocator{
		limit:   opts.Limit,
		metrics: NewMetrics(opts.Registerer),
	}
	if opts.Limit > 0 {
		a.sem = semaphore.NewWeighted(opts.Limit)
	}
	a.acct = &accountingAllocator{mem: mem, owner: a}
	return a
}

// Allocate returns a new zeroed buffer with a length of size bytes. The caller
// owns the single reference to it and must Release it when finished.
func (a *BufferAllocator) Allocate(size int) (*Buffer, error) {
	if size < 0 {
		return nil, fmt.Errorf("%w: negative size %d", ErrAllocation, size)
	}

	reserved := int64(roundUpToMultipleOf64(size))
	if a.sem != nil && reserved > 0 && !a.sem.TryAcquire(reserved) {
		a.metrics.failures.Inc()
		err := &AllocationError{Requested: int64(size), InUse: a.inUse.Load(), Limit: a.limit}
		log.Warn().Int64("requested", err.Requested).Int64("in_use", err.InUse).Int64("limit", err.Limit).Msg("allocation refused")
		return nil, err
	}

	buf := arrowmemory.NewResizableBuffer(a.acct)
	buf.Resize(size)
	clear(buf.Buf())
	a.metrics.allocations.Inc()
	return buf, nil
}

// InUse returns the number of bytes currently held by live buffers.
func (a *BufferAllocator) InUse() int64 {
	return a.inUse.Load()
}

// Limit returns the configured limit in bytes, zero if unlimited.
func (a *BufferAllocator) Limit() int64 {
	return a.limit
}

// accountingAllocator sits between arrow's buffers and the real allocator so
// that frees triggered by Buffer.Release are credited back to the owner.
type accountingAllocator struct {
	mem   arrowmemory.Allocator
	owner *BufferAllocator
}

func (c *accountingAllocator) Allocate(size int) []byte {
	b := c.mem.Allocate(size)
	c.owner.charge(int64(len(b)))
	return b
}

// Reallocate is only reached when a buffer grows in place, which vectors never
// do. Growth beyond the limit panics with an *AllocationError.
func (c *accountingAllocator) Reallocate(size int, b []byte) []byte {
	delta := int64(size - len(b))
	if delta > 0 && c.owner.sem != nil && !c.owner.sem.TryAcquire(delta) {
		panic(&AllocationError{Requested: int64(size), InUse: c.owner.inUse.Load(), Limit: c.owner.limit})
	}
	if delta < 0 && c.owner.sem != nil {
		c.owner.sem.Release(-delta)
	}

	out := c.mem.Reallocate(size, b)
	c.owner.charge(delta)
	return out
}

func (c *accountingAllocator) Free(b []byte) {
	n := int64(len(b))
	c.mem.Free(b)
	if c.owner.sem != nil && n > 0 {
		c.owner.sem.Release(n)
	}
	c.owner.charge(-n)
}

func (a *BufferAllocator) charge(n int64) {
	a.metrics.inUse.Set(float64(a.inUse.Add(n)))
}

func roundUpToMultipleOf64(v int) int {
	const round = 64
	return (v + round - 1) &^ (round - 1)
}

// NewBufferBytes wraps existing bytes, for example data read off the wire, in
// a Buffer that is not accounted to any allocator.
func NewBufferBytes(data []byte) *Buffer {
	return arrowmemory.NewBufferBytes(data)
}

// SliceBuffer returns a new reference to length bytes of buf starting at
// offset. The parent stays alive until the slice is released.
func SliceBuffer(buf *Buffer, offset, length int) *Buffer {
	return arrowmemory.SliceBuffer(buf, offset, length)
}

// Concat copies the contents of bufs, in order, into a single buffer that is
// not accounted to any allocator.
func Concat(bufs []*Buffer) *Buffer {
	n := 0
	for _, b := range bufs {
		n += b.Len()
	}

	out := make([]byte, 0, n)
	for _, b := range bufs {
		out = append(out, b.Bytes()...)
	}
	return NewBufferBytes(out)
}

// ReleaseAll releases one reference to each buffer.
func ReleaseAll(bufs []*Buffer) {
	for _, b := range bufs {
		b.Release()
	}
}
