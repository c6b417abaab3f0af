package bot

import (
	"math/rand"
	"time"

	"invasion/internal/domain"
)

// pick returns the correct option with probability accuracy, otherwise a random
// wrong option. A question without wrong options is always answered correctly.
func pick(rng *rand.Rand, q domain.Question, accuracy float64) *domain.Value {
	if rng.Float64() < accuracy {
		v := q.CorrectAnswer
		return &v
	}
	var wrong []domain.Value
	for _, o := range q.Options {
		if !o.Equal(q.CorrectAnswer) {
			wrong = append(wrong, o)
		}
	}
	if len(wrong) == 0 {
		v := q.CorrectAnswer
		return &v
	}
	v := wrong[rng.Intn(len(wrong))]
	return &v
}

// thinkTime is uniform in [lo, hi] at millisecond resolution.
func thinkTime(rng *rand.Rand, lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	span := int64((hi - lo) / time.Millisecond)
	return lo + time.Duration(rng.Int63n(span+1))*time.Millisecond
}
