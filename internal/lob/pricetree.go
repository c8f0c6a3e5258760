package lob

import "github.com/tidwall/btree"

// PriceTree is a per-side ordered map of Limit nodes keyed by LimitPrice.
// The source this book was modeled on ships an unbalanced, hand-rolled BST
// with explicit intent to upgrade to Red/Black; we ship the balanced form
// from the start by backing the tree with a B-tree rather than hand-rolled
// node pointers. Because the B-tree stores *Limit pointers rather than
// copying Limit values, a Limit's identity survives rebalancing untouched:
// Order.parent back-references never dangle and never need to be rewritten
// after a removal, sidestepping the successor-copy hazard entirely (see
// SPEC_FULL.md, open question 2).
//
// Both sides share one ascending-by-price comparator. highest_buy is the
// buy side's Max(); lowest_sell is the sell side's Min(). Find and insert
// therefore can never disagree about ordering, unlike the source's
// inverted insert branch (open question 1).
type PriceTree struct {
	tree    *btree.BTreeG[*Limit]
	extreme *Limit // cached highest_buy / lowest_sell
	isBuy   bool
}

func priceLess(a, b *Limit) bool {
	return a.LimitPrice < b.LimitPrice
}

func newPriceTree(isBuy bool) *PriceTree {
	return &PriceTree{
		tree:  btree.NewBTreeG(priceLess),
		isBuy: isBuy,
	}
}

// Find returns the Limit at price, or nil if no order rests there.
func (t *PriceTree) Find(price int64) *Limit {
	l, ok := t.tree.Get(&Limit{LimitPrice: price})
	if !ok {
		return nil
	}
	return l
}

// Extreme returns the cached best level for this side: the highest price
// for the buy tree, the lowest for the sell tree. It is nil iff the side
// is empty.
func (t *PriceTree) Extreme() *Limit {
	return t.extreme
}

// Insert finds or lazily creates the Limit at price. The return is
// idempotent: a pre-existing Limit at that price is returned unmodified.
func (t *PriceTree) Insert(price int64) *Limit {
	if l := t.Find(price); l != nil {
		return l
	}
	l := newLimit(price)
	t.tree.Set(l)

	if t.extreme == nil || t.beats(l.LimitPrice, t.extreme.LimitPrice) {
		t.extreme = l
	}
	return l
}

// Remove detaches limit from the tree entirely. The Limit must already be
// empty (§3 invariant 5); callers are responsible for that check.
func (t *PriceTree) Remove(limit *Limit) {
	t.tree.Delete(limit)

	if t.extreme == limit {
		t.rescanExtreme()
	}
}

// rescanExtreme recomputes the cached extremum from scratch: the "safe
// path" used whenever the removed Limit was the cached best level.
func (t *PriceTree) rescanExtreme() {
	if t.isBuy {
		if l, ok := t.tree.Max(); ok {
			t.extreme = l
			return
		}
	} else {
		if l, ok := t.tree.Min(); ok {
			t.extreme = l
			return
		}
	}
	t.extreme = nil
}

// beats reports whether candidate is a better extremum than current for
// this side: greater for the buy tree, lesser for the sell tree.
func (t *PriceTree) beats(candidate, current int64) bool {
	if t.isBuy {
		return candidate > current
	}
	return candidate < current
}

// Len returns the number of distinct price levels resting on this side.
func (t *PriceTree) Len() int {
	return t.tree.Len()
}

// Ascend visits every Limit on this side in ascending price order,
// stopping early if visit returns false. Used by PRINT (§6.4); it must
// never mutate the book.
func (t *PriceTree) Ascend(visit func(*Limit) bool) {
	t.tree.Scan(func(l *Limit) bool {
		return visit(l)
	})
}
