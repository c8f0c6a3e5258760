package lob

// Order is a single working order. It lives in exactly one Limit's FIFO
// while resting, and is also reachable from the Book's order index. Neither
// holder owns it exclusively: the index and the FIFO co-own the Order, and
// it is only freed once both have released it.
type Order struct {
	ID     int64
	Shares int64 // remaining, unfilled quantity
	Price  int64
	Side   Side

	EntryTime int64 // set on first rest
	EventTime int64 // set on every mutation

	parent *Limit // non-owning back-reference, refreshed on rest
	next   *Order // owning: next sibling in the FIFO
	prev   *Order // non-owning: previous sibling in the FIFO
}

// Limit returns the price level the order currently rests at, or nil if
// the order has never rested (fully filled as a taker) or has been
// removed from the book.
func (o *Order) Limit() *Limit {
	return o.parent
}

func newOrder(id, shares, price int64, side Side, now int64) *Order {
	return &Order{
		ID:        id,
		Shares:    shares,
		Price:     price,
		Side:      side,
		EntryTime: now,
		EventTime: now,
	}
}
