package scoring

import (
	"math"
	"testing"
	"time"
)

func TestScoreDecaysWithAge(t *testing.T) {
	eval := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		likes int
		age   time.Duration
		want  float64
	}{
		{name: "fresh", likes: 100, age: 0, want: 100},
		{name: "one-hour", likes: 100, age: time.Hour, want: 100 * math.Exp(-0.1)},
		{name: "one-day", likes: 100, age: 24 * time.Hour, want: 100 * math.Exp(-2.4)},
		{name: "zero-likes", likes: 0, age: time.Hour, want: 0},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := Score(tc.likes, eval.Add(-tc.age), eval)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("Score = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestScoreOneHourOldHundredLikes(t *testing.T) {
	eval := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	got := Score(100, eval.Add(-time.Hour), eval)
	if math.Abs(got-90.48) > 0.01 {
		t.Fatalf("Score at 1h/100 likes = %v, want ~90.48", got)
	}
}

func TestScoreMonotonicInAge(t *testing.T) {
	eval := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	prev := math.Inf(1)
	for hours := 0; hours <= 72; hours++ {
		s := Score(500, eval.Add(-time.Duration(hours)*time.Hour), eval)
		if s > prev {
			t.Fatalf("score increased with age at %dh: %v > %v", hours, s, prev)
		}
		prev = s
	}
}

func TestScoreMonotonicInLikes(t *testing.T) {
	eval := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	created := eval.Add(-6 * time.Hour)
	prev := -1.0
	for likes := 0; likes <= 1000; likes += 50 {
		s := Score(likes, created, eval)
		if s <= prev && likes > 0 {
			t.Fatalf("score did not increase with likes at %d: %v <= %v", likes, s, prev)
		}
		prev = s
	}
}

func TestScoreStableWithinHourBucket(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	early := time.Date(2026, 3, 14, 15, 0, 1, 0, time.UTC)
	late := time.Date(2026, 3, 14, 15, 59, 59, 999999999, time.UTC)

	a := Score(321, created, early)
	b := Score(321, created, late)
	if a != b {
		t.Fatalf("scores differ within one hour bucket: %v != %v", a, b)
	}

	next := Score(321, created, late.Add(time.Second))
	if next == a {
		t.Fatalf("score did not change across hour boundary")
	}
}

func TestScoreFutureCreatedAt(t *testing.T) {
	eval := time.Date(2026, 3, 14, 15, 10, 0, 0, time.UTC)
	created := time.Date(2026, 3, 14, 15, 40, 0, 0, time.UTC) // later in same hour
	got := Score(100, created, eval)
	if got <= 100 {
		t.Fatalf("future createdAt should score above likeCount, got %v", got)
	}
	if math.IsInf(got, 0) || math.IsNaN(got) {
		t.Fatalf("score not finite: %v", got)
	}
}

func TestScoreLargeLikeCountFinite(t *testing.T) {
	eval := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	got := Score(10_000_000, eval.Add(-time.Minute), eval)
	if math.IsInf(got, 0) || math.IsNaN(got) {
		t.Fatalf("score not finite for large like count: %v", got)
	}
}

func TestScoreNegativeLikesPassThrough(t *testing.T) {
	eval := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	got := Score(-10, eval.Add(-time.Hour), eval)
	if got >= 0 {
		t.Fatalf("negative likes should yield negative score, got %v", got)
	}
}

func TestQuantizeEvalTime(t *testing.T) {
	in := time.Date(2026, 3, 14, 15, 42, 7, 123, time.UTC)
	want := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	if got := QuantizeEvalTime(in); !got.Equal(want) {
		t.Fatalf("QuantizeEvalTime = %v, want %v", got, want)
	}
}
