package lob

// TradeSink receives trade records as the matching engine produces them.
// Implementations may log them, publish them, or simply collect them; the
// core is agnostic to what happens downstream (§6.3).
type TradeSink interface {
	OnTrade(Trade)
}

// TradeSinkFunc adapts a plain function to TradeSink.
type TradeSinkFunc func(Trade)

func (f TradeSinkFunc) OnTrade(t Trade) { f(t) }

// Book is the single-instrument limit order book: two price-indexed trees,
// their cached extrema, and a direct order-id index. Every exported method
// runs to completion before returning; the Book is not safe for concurrent
// use and makes no attempt to be (§5). A host that needs concurrent
// ingestion must serialize calls itself, e.g. with a single-writer queue.
type Book struct {
	buyTree  *PriceTree
	sellTree *PriceTree
	index    map[int64]*Order

	sink  TradeSink
	clock int64
}

// NewBook constructs an empty book. sink may be nil.
func NewBook(sink TradeSink) *Book {
	return &Book{
		buyTree:  newPriceTree(true),
		sellTree: newPriceTree(false),
		index:    make(map[int64]*Order),
		sink:     sink,
	}
}

// HighestBuy returns the best bid level, or nil if the buy side is empty.
func (b *Book) HighestBuy() *Limit { return b.buyTree.Extreme() }

// LowestSell returns the best ask level, or nil if the sell side is empty.
func (b *Book) LowestSell() *Limit { return b.sellTree.Extreme() }

// Lookup returns the resting order for id, or nil if it is not on the book.
func (b *Book) Lookup(id int64) *Order { return b.index[id] }

func (b *Book) tick() int64 {
	b.clock++
	return b.clock
}

func (b *Book) treeFor(side Side) *PriceTree {
	if side == Buy {
		return b.buyTree
	}
	return b.sellTree
}

// Add implements §4.3: construct the incoming order, run it through the
// matching engine, then rest whatever remains. Returns the trades produced
// during matching, in consumption order.
func (b *Book) Add(id, shares, price int64, side Side) ([]Trade, error) {
	if _, exists := b.index[id]; exists {
		return nil, ErrDuplicateID
	}
	if shares <= 0 {
		return nil, ErrInvalidShares
	}

	now := b.tick()
	o := newOrder(id, shares, price, side, now)
	b.index[id] = o

	trades := b.match(o)

	if o.Shares > 0 {
		b.rest(o)
	} else {
		delete(b.index, id)
	}

	return trades, nil
}

// rest places an order with remaining shares onto its side's book.
func (b *Book) rest(o *Order) {
	tree := b.treeFor(o.Side)
	limit := tree.Insert(o.Price)
	limit.enqueue(o)
}

// Cancel implements §4.4. Unknown ids are a silent no-op.
func (b *Book) Cancel(id int64) {
	o, exists := b.index[id]
	if !exists {
		return
	}
	b.evict(o)
	delete(b.index, id)
}

// evict removes a resting order from its Limit's FIFO and, if that empties
// the Limit, removes the Limit from its PriceTree. It does not touch the
// order index; callers decide that.
func (b *Book) evict(o *Order) {
	limit := o.parent
	limit.remove(o)

	if limit.empty() {
		b.treeFor(o.Side).Remove(limit)
	}
}

// Modify implements §4.5's three-way policy: cancel-then-add when the
// price changes or size grows, an in-place shrink when only the size
// shrinks at the same price, and a no-op otherwise.
func (b *Book) Modify(id, newShares, newPrice int64) ([]Trade, error) {
	o, exists := b.index[id]
	if !exists {
		return nil, nil
	}

	switch {
	case newPrice != o.Price || newShares > o.Shares:
		side := o.Side
		b.evict(o)
		delete(b.index, id)
		return b.Add(id, newShares, newPrice, side)

	case newShares < o.Shares:
		limit := o.parent
		limit.TotalVolume -= o.Shares - newShares
		o.Shares = newShares
		o.EventTime = b.tick()
		return nil, nil

	default: // newShares == o.Shares && newPrice == o.Price
		return nil, nil
	}
}
