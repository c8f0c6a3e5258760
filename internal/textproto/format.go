package textproto

import (
	"fmt"
	"io"

	"limitbook/internal/lob"
)

// FormatTrade renders a trade the way the reference driver does: one line
// per fill (§6.3). The core itself never formats trades; this exists only
// for the textual front-end.
func FormatTrade(w io.Writer, t lob.Trade) {
	fmt.Fprintf(w, "TRADE buy=%d sell=%d price=%d qty=%d\n", t.BuyID, t.SellID, t.Price, t.Quantity)
}

// FormatSnapshot renders a PRINT dump: sell levels ascending, then buy
// levels ascending, then the BBO/spread line, which shows dashes unless
// both sides are populated (§6.4).
func FormatSnapshot(w io.Writer, snap lob.BookSnapshot) {
	fmt.Fprintln(w, "--- SELL ---")
	for _, lvl := range snap.Sell {
		fmt.Fprintf(w, "%d: vol=%d n=%d\n", lvl.Price, lvl.TotalVolume, lvl.Size)
	}
	fmt.Fprintln(w, "--- BUY ---")
	for _, lvl := range snap.Buy {
		fmt.Fprintf(w, "%d: vol=%d n=%d\n", lvl.Price, lvl.TotalVolume, lvl.Size)
	}
	if snap.HasBBO {
		fmt.Fprintf(w, "bid=%d ask=%d spread=%d\n", snap.Bid, snap.Ask, snap.Spread)
	} else {
		fmt.Fprintln(w, "bid=- ask=- spread=-")
	}
}
