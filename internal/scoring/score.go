// Package scoring computes time-decayed relevance scores for feed posts.
// Scores are derived per read; nothing here is persisted or stateful.
package scoring

import (
	"math"
	"time"
)

// DecayRate controls how fast a post's score shrinks per hour of age.
const DecayRate = 0.1

// QuantizeEvalTime floors t to the start of its hour. Scoring against the
// quantized time makes two requests within the same wall-clock hour produce
// byte-identical scores for the same post, which keeps cursors stable across
// a pagination session.
func QuantizeEvalTime(t time.Time) time.Time {
	return t.Truncate(time.Hour)
}

// Score maps (likeCount, createdAt, evalTime) to a relevance score:
//
//	score = likeCount * exp(-DecayRate * hoursOld)
//
// hoursOld is measured against the quantized eval time and may be negative
// for posts created later in the current hour; that yields a score slightly
// above likeCount and is accepted as-is. likeCount is not validated here:
// zero scores zero, negative passes through as a negative score.
func Score(likeCount int, createdAt, evalTime time.Time) float64 {
	hoursOld := QuantizeEvalTime(evalTime).Sub(createdAt).Hours()
	return float64(likeCount) * math.Exp(-DecayRate*hoursOld)
}
