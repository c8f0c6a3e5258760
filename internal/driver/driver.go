// Package driver is the textual front-end and diagnostic glue that sits
// outside the core (§1, §6): it decodes textproto.Events, applies them to
// a lob.Book, and renders trades and PRINT snapshots as human-readable
// text. None of this package's logic participates in matching; it only
// drives the Book and reports what happened.
package driver

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"limitbook/internal/lob"
	"limitbook/internal/textproto"
)

// Driver owns exactly one Book and is itself not safe for concurrent use,
// mirroring the Book's own contract (§5). Callers that need concurrent
// ingestion must serialize access to a Driver the same way they would a
// bare Book — see Server for one such serialization strategy.
type Driver struct {
	Book *lob.Book
	Log  zerolog.Logger
	Out  io.Writer
}

// New builds a Driver around a fresh, empty Book. Trades are logged
// through log and also written as text to out; out may be io.Discard.
func New(log zerolog.Logger, out io.Writer) *Driver {
	d := &Driver{Log: log, Out: out}
	d.Book = lob.NewBook(lob.TradeSinkFunc(d.onTrade))
	return d
}

func (d *Driver) onTrade(t lob.Trade) {
	d.Log.Info().
		Int64("buy_id", t.BuyID).
		Int64("sell_id", t.SellID).
		Int64("price", t.Price).
		Int64("qty", t.Quantity).
		Msg("trade")
	textproto.FormatTrade(d.Out, t)
}

// Apply dispatches a single event to the Book. Errors returned here are
// Add/Modify rejections per §7's taxonomy (duplicate id, invalid shares);
// Cancel/Modify of an unknown id is never an error, per the same section.
func (d *Driver) Apply(ev textproto.Event) error {
	switch ev.Kind {
	case textproto.Add:
		_, err := d.Book.Add(ev.ID, ev.Shares, ev.Price, ev.Side)
		if err != nil {
			d.Log.Warn().Err(err).Int64("id", ev.ID).Msg("add rejected")
		}
		return err

	case textproto.Cancel:
		d.Book.Cancel(ev.ID)
		return nil

	case textproto.Modify:
		_, err := d.Book.Modify(ev.ID, ev.NewShares, ev.NewPrice)
		return err

	case textproto.Print:
		textproto.FormatSnapshot(d.Out, d.Book.Snapshot())
		return nil

	default:
		return fmt.Errorf("driver: unknown event kind %d", ev.Kind)
	}
}

// Run drains every event from sc, applying each in turn, and stops at the
// first error (malformed input or an Add/Modify rejection) or clean EOF.
func (d *Driver) Run(sc *textproto.Scanner) error {
	for sc.Scan() {
		if err := d.Apply(sc.Event()); err != nil {
			return err
		}
	}
	return sc.Err()
}
