package opt

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"jobShop/internal/jobshop"
)

type Optimizer interface {
	Solve(ctx context.Context, inst *jobshop.Instance) (Result, error)
}

// ExitCause tells whether the search ran out of time or stopped on its own.
type ExitCause string

const (
	Timeout ExitCause = "Timeout"
	Blocked ExitCause = "Blocked"
)

// StopReason refines ExitCause.
type StopReason string

const (
	Constructed    StopReason = "constructed"
	Converged      StopReason = "converged"
	IterationLimit StopReason = "iteration_limit"
	NoCandidate    StopReason = "no_candidate"
	Cooled         StopReason = "cooled"
	Deadline       StopReason = "deadline"
)

func (r StopReason) ExitCause() ExitCause {
	if r == Deadline {
		return Timeout
	}
	return Blocked
}

type Result struct {
	Order     *jobshop.ResourceOrder
	Schedule  *jobshop.Schedule
	Makespan  int
	ExitCause ExitCause
	Reason    StopReason

	Evaluations int
	Iterations  int
	// History holds the incumbent makespan after construction and after
	// every iteration.
	History  []int
	Duration time.Duration
	Meta     map[string]any
}

// SolveUntil runs o with an absolute deadline.
func SolveUntil(o Optimizer, inst *jobshop.Instance, deadline time.Time) (Result, error) {
	ctx, cancel := context.WithDeadline(context.Background(), deadline)
	defer cancel()
	return o.Solve(ctx, inst)
}

// Finish decodes the best order into a result stopped for reason.
func Finish(dec *jobshop.Decoder, best *jobshop.ResourceOrder, reason StopReason, start time.Time) (Result, error) {
	sched, err := dec.Decode(best)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Order:     best,
		Schedule:  sched,
		Makespan:  sched.Makespan(),
		ExitCause: reason.ExitCause(),
		Reason:    reason,
		Duration:  time.Since(start),
	}, nil
}

// Logger returns l, or the standard logrus logger when l is nil.
func Logger(l logrus.FieldLogger) logrus.FieldLogger {
	if l == nil {
		return logrus.StandardLogger()
	}
	return l
}
