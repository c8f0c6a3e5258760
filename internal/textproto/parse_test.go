package textproto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"limitbook/internal/lob"
)

func TestParseAll_ScenarioOne(t *testing.T) {
	input := `
# resting-only scenario
A 1 10 100 B
A 2 5 99 B
A 3 8 101 S
A 4 4 102 s
P
`
	events, err := ParseAll(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, events, 5)
	assert.Equal(t, Event{Kind: Add, ID: 1, Shares: 10, Price: 100, Side: lob.Buy}, events[0])
	assert.Equal(t, Event{Kind: Add, ID: 4, Shares: 4, Price: 102, Side: lob.Sell}, events[3])
	assert.Equal(t, Event{Kind: Print}, events[4])
}

func TestParseAll_CancelAndModify(t *testing.T) {
	events, err := ParseAll(strings.NewReader("R 1\nM 2 3 99\n"))
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, Event{Kind: Cancel, ID: 1}, events[0])
	assert.Equal(t, Event{Kind: Modify, ID: 2, NewShares: 3, NewPrice: 99}, events[1])
}

func TestParseAll_RejectsNonPositiveShares(t *testing.T) {
	_, err := ParseAll(strings.NewReader("A 1 0 100 B\n"))
	assert.Error(t, err)
}

func TestParseAll_RejectsMalformedPrice(t *testing.T) {
	_, err := ParseAll(strings.NewReader("A 1 10 abc B\n"))
	assert.Error(t, err)
}

func TestParseAll_RejectsUnknownRecord(t *testing.T) {
	_, err := ParseAll(strings.NewReader("X 1 2 3\n"))
	assert.Error(t, err)
}

func TestParseAll_BlankLinesAndCommentsIgnored(t *testing.T) {
	events, err := ParseAll(strings.NewReader("\n  \n# comment\nP\n"))
	require.NoError(t, err)
	assert.Equal(t, []Event{{Kind: Print}}, events)
}
