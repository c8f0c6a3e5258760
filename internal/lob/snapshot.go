package lob

// LevelSnapshot is one price level as reported by PRINT (§6.4).
type LevelSnapshot struct {
	Price       int64
	TotalVolume int64
	Size        int
}

// BookSnapshot is a point-in-time, non-mutating dump of the book suitable
// for diagnostics. Sell levels are ascending by price; buy levels are
// ascending by price (matching §6.4's ordering, not best-first).
type BookSnapshot struct {
	Buy    []LevelSnapshot
	Sell   []LevelSnapshot
	HasBBO bool
	Bid    int64
	Ask    int64
	Spread int64
}

// Snapshot produces a BookSnapshot without mutating any book state.
func (b *Book) Snapshot() BookSnapshot {
	var snap BookSnapshot

	b.buyTree.Ascend(func(l *Limit) bool {
		snap.Buy = append(snap.Buy, LevelSnapshot{Price: l.LimitPrice, TotalVolume: l.TotalVolume, Size: l.Size})
		return true
	})
	b.sellTree.Ascend(func(l *Limit) bool {
		snap.Sell = append(snap.Sell, LevelSnapshot{Price: l.LimitPrice, TotalVolume: l.TotalVolume, Size: l.Size})
		return true
	})

	if bid := b.HighestBuy(); bid != nil {
		if ask := b.LowestSell(); ask != nil {
			snap.HasBBO = true
			snap.Bid = bid.LimitPrice
			snap.Ask = ask.LimitPrice
			snap.Spread = ask.LimitPrice - bid.LimitPrice
		}
	}

	return snap
}
