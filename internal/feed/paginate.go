package feed

import (
	"math"
	"sort"

	"github.com/ripplehq/ripple/internal/models"
)

// scoreTolerance bounds the fuzzy cursor match. Scores are exponentials of
// floats recomputed per request, so an anchor's score may drift slightly
// between the request that minted the cursor and the one that consumes it.
// Drift of exactly the tolerance counts as a mismatch and falls through to
// the successor search.
const scoreTolerance = 0.001

// prevPageScoreBump is added to the top row's score when minting the
// first-page sentinel cursor, so it sorts ahead of every real row.
const prevPageScoreBump = 0.1

// Page is one slice of the scored, sorted candidate set plus the cursors to
// continue in either direction. Cursors are nil when there is nothing to
// continue to; an empty page carries no cursors at all.
type Page struct {
	Data       []models.ScoredPost
	NextCursor *string
	PrevCursor *string
}

// Paginate sorts rows by (score desc, id asc), locates the cursor's position
// and returns the next page of at most limit rows.
//
// The sort order doubles as the cursor total order. A cursor anchors on a
// concrete row when one matches within scoreTolerance and by id; otherwise
// the page starts at the first row strictly after the cursor position, which
// makes score drift between requests self-correcting rather than an error.
func Paginate(rows []models.ScoredPost, limit int, cursor *Cursor) Page {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].RelevanceScore != rows[j].RelevanceScore {
			return rows[i].RelevanceScore > rows[j].RelevanceScore
		}
		return rows[i].ID.Hex() < rows[j].ID.Hex()
	})

	start := 0
	if cursor != nil {
		if i, ok := findAnchor(rows, cursor); ok {
			start = i + 1
		} else if i := firstAfter(rows, cursor); i >= 0 {
			start = i
		} else {
			return Page{Data: []models.ScoredPost{}}
		}
	}

	end := start + limit
	if end > len(rows) {
		end = len(rows)
	}
	data := rows[start:end]
	if len(data) == 0 {
		return Page{Data: []models.ScoredPost{}}
	}

	page := Page{Data: data}

	if end < len(rows) {
		last := data[len(data)-1]
		c := EncodeCursor(last.RelevanceScore, last.ID.Hex())
		page.NextCursor = &c
	}

	if start > 0 {
		prevStart := start - limit
		if prevStart < 0 {
			prevStart = 0
		}
		var c string
		if prevStart > 0 {
			// Anchor on the row just before the previous page, so that
			// paginating from this cursor reproduces that page.
			anchor := rows[prevStart-1]
			c = EncodeCursor(anchor.RelevanceScore, anchor.ID.Hex())
		} else {
			// Sentinel that sorts ahead of every real row: decoding it
			// reproduces page 1 through the successor-search branch.
			c = EncodeCursor(rows[0].RelevanceScore+prevPageScoreBump, FirstPageAnchorID)
		}
		page.PrevCursor = &c
	}

	return page
}

// findAnchor locates the row the cursor was minted from: score within
// tolerance and id equal.
func findAnchor(rows []models.ScoredPost, cursor *Cursor) (int, bool) {
	for i, row := range rows {
		if math.Abs(row.RelevanceScore-cursor.Score) < scoreTolerance && row.ID.Hex() == cursor.ID {
			return i, true
		}
	}
	return -1, false
}

// firstAfter returns the index of the first row strictly after the cursor in
// the (score desc, id asc) total order, or -1 when the cursor is past the
// end.
func firstAfter(rows []models.ScoredPost, cursor *Cursor) int {
	for i, row := range rows {
		if row.RelevanceScore < cursor.Score {
			return i
		}
		if row.RelevanceScore == cursor.Score && row.ID.Hex() > cursor.ID {
			return i
		}
	}
	return -1
}
