package lob

// Trade is a single fill: a quantity exchanged between a buy and a sell
// order at the resting order's price (§4.7).
type Trade struct {
	BuyID    int64
	SellID   int64
	Price    int64
	Quantity int64
}

// match is the MatchingEngine (§4.6): it repeatedly consumes resting
// liquidity from the opposite side of incoming while prices cross,
// emitting one trade per consumption step, and returns once incoming is
// fully filled or no further cross is possible. incoming is not yet
// registered in any PriceTree; it only rests, via Book.rest, on return if
// shares remain.
func (b *Book) match(incoming *Order) []Trade {
	var trades []Trade

	oppTree := b.treeFor(incoming.Side.Opposite())

	for incoming.Shares > 0 {
		opp := oppTree.Extreme()
		if opp == nil {
			break
		}
		resting := opp.Head()
		if resting == nil {
			break
		}

		if !crosses(incoming, opp.LimitPrice) {
			break
		}

		qty := min64(incoming.Shares, resting.Shares)
		trade := b.executeTrade(incoming, resting, qty)
		trades = append(trades, trade)

		if resting.Shares == 0 {
			b.evict(resting)
			delete(b.index, resting.ID)
		}
	}

	return trades
}

// crosses reports whether incoming's limit price crosses the opposite
// side's best price: a buy crosses at or above the ask, a sell crosses at
// or below the bid.
func crosses(incoming *Order, oppPrice int64) bool {
	if incoming.Side == Buy {
		return incoming.Price >= oppPrice
	}
	return incoming.Price <= oppPrice
}

// executeTrade performs one consumption step (§4.6 steps 4-6) and emits
// the resulting trade record. The trade always prints at the resting
// order's price, giving the aggressor price improvement.
func (b *Book) executeTrade(incoming, resting *Order, qty int64) Trade {
	incoming.Shares -= qty
	resting.Shares -= qty
	if resting.parent != nil {
		resting.parent.TotalVolume -= qty
	}
	if incoming.parent != nil {
		incoming.parent.TotalVolume -= qty
	}

	now := b.tick()
	incoming.EventTime = now
	resting.EventTime = now

	var buy, sell *Order
	if incoming.Side == Buy {
		buy, sell = incoming, resting
	} else {
		buy, sell = resting, incoming
	}

	trade := Trade{
		BuyID:    buy.ID,
		SellID:   sell.ID,
		Price:    resting.Price,
		Quantity: qty,
	}
	if b.sink != nil {
		b.sink.OnTrade(trade)
	}
	return trade
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
