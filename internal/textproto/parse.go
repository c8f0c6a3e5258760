package textproto

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"limitbook/internal/lob"
)

// Scanner reads events one line at a time from a textual front-end stream,
// mirroring bufio.Scanner's pull-based shape. Comments ('#...') and blank
// lines are skipped transparently; they never surface as events.
type Scanner struct {
	sc   *bufio.Scanner
	line int
	cur  Event
	err  error
}

// NewScanner wraps r as a line-oriented event source.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{sc: bufio.NewScanner(r)}
}

// Scan advances to the next event, returning false at EOF or on the first
// parse error (retrievable via Err).
func (s *Scanner) Scan() bool {
	for s.sc.Scan() {
		s.line++
		raw := strings.TrimSpace(s.sc.Text())
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}

		ev, err := parseLine(raw)
		if err != nil {
			s.err = fmt.Errorf("line %d: %w", s.line, err)
			return false
		}
		s.cur = ev
		return true
	}
	if err := s.sc.Err(); err != nil {
		s.err = err
	}
	return false
}

// Event returns the event produced by the most recent successful Scan.
func (s *Scanner) Event() Event { return s.cur }

// Err returns the first error encountered, io errors and parse failures
// alike, or nil on clean EOF.
func (s *Scanner) Err() error { return s.err }

// ParseAll reads every event out of r eagerly. It is a convenience wrapper
// around Scanner for small, file-sized inputs.
func ParseAll(r io.Reader) ([]Event, error) {
	sc := NewScanner(r)
	var events []Event
	for sc.Scan() {
		events = append(events, sc.Event())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func parseLine(line string) (Event, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Event{}, fmt.Errorf("empty record")
	}

	switch strings.ToUpper(fields[0]) {
	case "A":
		return parseAdd(fields)
	case "R":
		return parseCancel(fields)
	case "M":
		return parseModify(fields)
	case "P":
		if len(fields) != 1 {
			return Event{}, fmt.Errorf("P takes no arguments")
		}
		return Event{Kind: Print}, nil
	default:
		return Event{}, fmt.Errorf("unrecognized record type %q", fields[0])
	}
}

func parseAdd(fields []string) (Event, error) {
	if len(fields) != 5 {
		return Event{}, fmt.Errorf("A requires 4 arguments, got %d", len(fields)-1)
	}
	id, err := parseInt(fields[1], "id")
	if err != nil {
		return Event{}, err
	}
	shares, err := parseInt(fields[2], "shares")
	if err != nil {
		return Event{}, err
	}
	if shares <= 0 {
		return Event{}, fmt.Errorf("shares must be positive, got %d", shares)
	}
	price, err := parseInt(fields[3], "price")
	if err != nil {
		return Event{}, err
	}
	return Event{Kind: Add, ID: id, Shares: shares, Price: price, Side: parseSide(fields[4])}, nil
}

func parseCancel(fields []string) (Event, error) {
	if len(fields) != 2 {
		return Event{}, fmt.Errorf("R requires 1 argument, got %d", len(fields)-1)
	}
	id, err := parseInt(fields[1], "id")
	if err != nil {
		return Event{}, err
	}
	return Event{Kind: Cancel, ID: id}, nil
}

func parseModify(fields []string) (Event, error) {
	if len(fields) != 4 {
		return Event{}, fmt.Errorf("M requires 3 arguments, got %d", len(fields)-1)
	}
	id, err := parseInt(fields[1], "id")
	if err != nil {
		return Event{}, err
	}
	newShares, err := parseInt(fields[2], "new_shares")
	if err != nil {
		return Event{}, err
	}
	if newShares <= 0 {
		return Event{}, fmt.Errorf("new_shares must be positive, got %d", newShares)
	}
	newPrice, err := parseInt(fields[3], "new_price")
	if err != nil {
		return Event{}, err
	}
	return Event{Kind: Modify, ID: id, NewShares: newShares, NewPrice: newPrice}, nil
}

// parseSide is case-insensitive: 'B'/'b' is BUY, anything else is SELL
// (§6.2).
func parseSide(tok string) lob.Side {
	if strings.EqualFold(tok, "B") {
		return lob.Buy
	}
	return lob.Sell
}

func parseInt(tok, field string) (int64, error) {
	v, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", field, tok)
	}
	return v, nil
}
