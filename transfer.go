package vector

// A TransferPair moves the buffers of one vector into a sibling created for
// the same field and allocator. The source is empty after Transfer.
type TransferPair interface {
	Transfer() error
	To() ValueVector
}

type nullableTransferPair[T any] struct {
	from, to *NullableVector[T]
}

func (p *nullableTransferPair[T]) Transfer() error { return p.from.TransferTo(p.to) }
func (p *nullableTransferPair[T]) To() ValueVector { return p.to }

type requiredTransferPair[T any] struct {
	from, to *RequiredVector[T]
}

func (p *requiredTransferPair[T]) Transfer() error { return p.from.TransferTo(p.to) }
func (p *requiredTransferPair[T]) To() ValueVector { return p.to }
