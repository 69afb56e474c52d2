package searchctl

import (
	"time"

	"github.com/seekerror/stdlib/pkg/lang"
)

// infiniteBudget stands in for "no time limit": UCI's "go infinite" mode,
// bounded only by an explicit "stop" command or a depth limit.
const infiniteBudget = 365 * 24 * time.Hour

// Options mirrors one UCI "go" command's parameters. DepthLimit is optional
// because an unset depth falls back to the engine's configured default
// rather than to "unlimited".
type Options struct {
	DepthLimit lang.Optional[uint]
	GoParams
	Infinite bool
}

// Resolve computes the concrete depth limit and time budget for one "go"
// command: the depth falls back to defaultDepth when unset, and the budget
// is Budget(o.GoParams, white) unless Infinite is set, in which case the
// search runs until explicitly halted.
func Resolve(o Options, defaultDepth uint, white bool) (depthLimit int, budget time.Duration) {
	depth := defaultDepth
	if v, ok := o.DepthLimit.V(); ok {
		depth = v
	}
	if o.Infinite {
		return int(depth), infiniteBudget
	}
	return int(depth), Budget(o.GoParams, white)
}
