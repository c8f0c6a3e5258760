package lob

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Setup & Helpers --------------------------------------------------------

type recordingSink struct {
	trades []Trade
}

func (r *recordingSink) OnTrade(t Trade) {
	r.trades = append(r.trades, t)
}

func newTestBook() (*Book, *recordingSink) {
	sink := &recordingSink{}
	return NewBook(sink), sink
}

// --- Tests ------------------------------------------------------------------

func TestAdd_RestingOnly(t *testing.T) {
	book, sink := newTestBook()

	_, err := book.Add(1, 10, 100, Buy)
	require.NoError(t, err)
	_, err = book.Add(2, 5, 99, Buy)
	require.NoError(t, err)
	_, err = book.Add(3, 8, 101, Sell)
	require.NoError(t, err)
	_, err = book.Add(4, 4, 102, Sell)
	require.NoError(t, err)

	assert.Empty(t, sink.trades)

	snap := book.Snapshot()
	require.True(t, snap.HasBBO)
	assert.Equal(t, int64(100), snap.Bid)
	assert.Equal(t, int64(101), snap.Ask)
	assert.Equal(t, int64(1), snap.Spread)

	assert.Equal(t, []LevelSnapshot{
		{Price: 99, TotalVolume: 5, Size: 1},
		{Price: 100, TotalVolume: 10, Size: 1},
	}, snap.Buy)
	assert.Equal(t, []LevelSnapshot{
		{Price: 101, TotalVolume: 8, Size: 1},
		{Price: 102, TotalVolume: 4, Size: 1},
	}, snap.Sell)
}

func TestAdd_ExactCross(t *testing.T) {
	book, sink := newTestBook()

	_, err := book.Add(1, 10, 100, Buy)
	require.NoError(t, err)
	trades, err := book.Add(2, 10, 100, Sell)
	require.NoError(t, err)

	want := []Trade{{BuyID: 1, SellID: 2, Price: 100, Quantity: 10}}
	assert.Equal(t, want, trades)
	assert.Equal(t, want, sink.trades)

	snap := book.Snapshot()
	assert.Empty(t, snap.Buy)
	assert.Empty(t, snap.Sell)
	assert.False(t, snap.HasBBO)
}

func TestAdd_PartialFillRemainderRests(t *testing.T) {
	book, _ := newTestBook()

	_, err := book.Add(1, 5, 100, Buy)
	require.NoError(t, err)
	trades, err := book.Add(2, 8, 100, Sell)
	require.NoError(t, err)

	assert.Equal(t, []Trade{{BuyID: 1, SellID: 2, Price: 100, Quantity: 5}}, trades)

	snap := book.Snapshot()
	assert.Empty(t, snap.Buy)
	assert.Equal(t, []LevelSnapshot{{Price: 100, TotalVolume: 3, Size: 1}}, snap.Sell)

	remaining := book.Lookup(2)
	require.NotNil(t, remaining)
	assert.Equal(t, int64(3), remaining.Shares)
}

func TestAdd_PriceTimePriority(t *testing.T) {
	book, _ := newTestBook()

	_, err := book.Add(1, 5, 100, Sell)
	require.NoError(t, err)
	_, err = book.Add(2, 5, 100, Sell)
	require.NoError(t, err)
	trades, err := book.Add(3, 7, 101, Buy)
	require.NoError(t, err)

	assert.Equal(t, []Trade{
		{BuyID: 3, SellID: 1, Price: 100, Quantity: 5},
		{BuyID: 3, SellID: 2, Price: 100, Quantity: 2},
	}, trades)

	snap := book.Snapshot()
	assert.Empty(t, snap.Buy)
	assert.Equal(t, []LevelSnapshot{{Price: 100, TotalVolume: 3, Size: 1}}, snap.Sell)

	remaining := book.Lookup(2)
	require.NotNil(t, remaining)
	assert.Equal(t, int64(3), remaining.Shares)
}

func TestAdd_MultiLevelSweep(t *testing.T) {
	book, _ := newTestBook()

	_, err := book.Add(1, 3, 100, Sell)
	require.NoError(t, err)
	_, err = book.Add(2, 4, 101, Sell)
	require.NoError(t, err)
	_, err = book.Add(3, 2, 102, Sell)
	require.NoError(t, err)
	trades, err := book.Add(4, 10, 102, Buy)
	require.NoError(t, err)

	assert.Equal(t, []Trade{
		{BuyID: 4, SellID: 1, Price: 100, Quantity: 3},
		{BuyID: 4, SellID: 2, Price: 101, Quantity: 4},
		{BuyID: 4, SellID: 3, Price: 102, Quantity: 2},
	}, trades)

	snap := book.Snapshot()
	assert.Empty(t, snap.Sell)
	assert.Equal(t, []LevelSnapshot{{Price: 102, TotalVolume: 1, Size: 1}}, snap.Buy)
}

func TestCancelAndModify(t *testing.T) {
	book, sink := newTestBook()

	_, err := book.Add(1, 10, 100, Buy)
	require.NoError(t, err)
	_, err = book.Add(2, 5, 99, Buy)
	require.NoError(t, err)

	book.Cancel(1)
	trades, err := book.Modify(2, 3, 99)
	require.NoError(t, err)
	assert.Empty(t, trades)
	assert.Empty(t, sink.trades)

	snap := book.Snapshot()
	assert.Equal(t, []LevelSnapshot{{Price: 99, TotalVolume: 3, Size: 1}}, snap.Buy)
	assert.Nil(t, book.Lookup(1))
}

func TestCancel_UnknownIDIsNoop(t *testing.T) {
	book, _ := newTestBook()
	_, err := book.Add(1, 10, 100, Buy)
	require.NoError(t, err)

	book.Cancel(999)

	snap := book.Snapshot()
	assert.Equal(t, []LevelSnapshot{{Price: 100, TotalVolume: 10, Size: 1}}, snap.Buy)
}

func TestModify_UnknownIDIsNoop(t *testing.T) {
	book, _ := newTestBook()
	trades, err := book.Modify(999, 5, 100)
	require.NoError(t, err)
	assert.Nil(t, trades)
}

func TestModify_NoopWhenUnchanged(t *testing.T) {
	book, _ := newTestBook()
	_, err := book.Add(1, 10, 100, Buy)
	require.NoError(t, err)

	before := book.Snapshot()
	trades, err := book.Modify(1, 10, 100)
	require.NoError(t, err)
	assert.Nil(t, trades)
	assert.Equal(t, before, book.Snapshot())
}

func TestModify_GrowingSizeLosesPriority(t *testing.T) {
	book, _ := newTestBook()
	_, err := book.Add(1, 5, 100, Buy)
	require.NoError(t, err)
	_, err = book.Add(2, 5, 100, Buy)
	require.NoError(t, err)

	_, err = book.Modify(1, 10, 100)
	require.NoError(t, err)

	// order 1 re-enters at the tail, behind order 2
	limit := book.HighestBuy()
	require.NotNil(t, limit)
	assert.Equal(t, int64(2), limit.Head().ID)
}

func TestModify_PriceChangeRerunsMatching(t *testing.T) {
	book, _ := newTestBook()
	_, err := book.Add(1, 10, 99, Buy)
	require.NoError(t, err)
	_, err = book.Add(2, 10, 100, Sell)
	require.NoError(t, err)

	// Repricing order 1 up to 100 should now cross with order 2.
	trades, err := book.Modify(1, 10, 100)
	require.NoError(t, err)
	assert.Equal(t, []Trade{{BuyID: 1, SellID: 2, Price: 100, Quantity: 10}}, trades)

	snap := book.Snapshot()
	assert.Empty(t, snap.Buy)
	assert.Empty(t, snap.Sell)
}

func TestAdd_RejectsDuplicateID(t *testing.T) {
	book, _ := newTestBook()
	_, err := book.Add(1, 10, 100, Buy)
	require.NoError(t, err)

	_, err = book.Add(1, 5, 99, Buy)
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestAdd_RejectsNonPositiveShares(t *testing.T) {
	book, _ := newTestBook()
	_, err := book.Add(1, 0, 100, Buy)
	assert.ErrorIs(t, err, ErrInvalidShares)

	_, err = book.Add(1, -5, 100, Buy)
	assert.ErrorIs(t, err, ErrInvalidShares)
}

func TestRoundTrip_AddThenCancelRestoresEmptyBook(t *testing.T) {
	book, _ := newTestBook()
	before := book.Snapshot()

	_, err := book.Add(1, 10, 100, Buy)
	require.NoError(t, err)
	book.Cancel(1)

	assert.Equal(t, before, book.Snapshot())
	assert.Nil(t, book.HighestBuy())
	assert.Nil(t, book.LowestSell())
}
