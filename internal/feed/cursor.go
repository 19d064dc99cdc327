// Package feed implements the relevance-ranked feed: scoring the raw
// candidate set, cursor-based pagination over it, and assembly of the public
// response envelope.
package feed

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidCursor is returned when a cursor string fails the wire format.
// Handlers reject these before the pagination engine ever sees them.
var ErrInvalidCursor = errors.New("invalid cursor format")

// FirstPageAnchorID is the synthetic anchor id used by the previous-page
// cursor that points back to page 1. It never matches a real post, so
// decoding it always falls through to the successor search, which lands on
// the first row. Clients treat cursors as opaque; this stays an internal
// convention of the wire format.
const FirstPageAnchorID = "000000000000000000000000"

// Cursor wire format: "<score>_<id>" where score is a non-negative decimal
// and id is a 24-char lowercase hex object id.
var cursorPattern = regexp.MustCompile(`^\d+(\.\d+)?_[a-f0-9]{24}$`)

// Cursor is a decoded pagination anchor: the relevance score and id of the
// last row of the previous page.
type Cursor struct {
	Score float64
	ID    string
}

// EncodeCursor renders a (score, id) anchor in the wire format. The score
// keeps its full round-trip precision so DecodeCursor reparses an equal
// float.
func EncodeCursor(score float64, id string) string {
	return strconv.FormatFloat(score, 'f', -1, 64) + "_" + id
}

// DecodeCursor parses a cursor string. An empty string decodes to nil (no
// cursor); anything that fails the wire format returns ErrInvalidCursor.
func DecodeCursor(raw string) (*Cursor, error) {
	if raw == "" {
		return nil, nil
	}
	if !cursorPattern.MatchString(raw) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCursor, raw)
	}

	sep := strings.Index(raw, "_")
	score, err := strconv.ParseFloat(raw[:sep], 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCursor, raw)
	}

	return &Cursor{Score: score, ID: raw[sep+1:]}, nil
}
