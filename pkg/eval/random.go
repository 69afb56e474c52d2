package eval

import (
	"context"
	"math/rand"

	"github.com/aviannet/corvid/pkg/board"
)

// Random wraps another Evaluator and adds a small amount of noise to its
// score, in the centipawn range [-limit/2, (limit-1)/2]. Useful for
// breaking ties between otherwise-identical lines during testing; a limit of
// 0 disables the noise and Random degenerates to its wrapped Evaluator.
type Random struct {
	eval  Evaluator
	rand  *rand.Rand
	limit int
}

func NewRandom(eval Evaluator, limit int, seed int64) Random {
	return Random{
		eval:  eval,
		limit: limit,
		rand:  rand.New(rand.NewSource(seed)),
	}
}

func (n Random) Evaluate(ctx context.Context, b *board.Board) Score {
	score := n.eval.Evaluate(ctx, b)
	if n.limit <= 0 {
		return score
	}
	return score + Score(n.rand.Intn(n.limit)-n.limit/2)
}
