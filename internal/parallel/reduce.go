package parallel

import "context"

// Op is a reduction operator. Combine must be associative and commutative
// and Identity must be its neutral element; partial results are merged in
// whatever order workers finish.
type Op[A any] struct {
	Name     string
	Identity func() A
	Combine  func(a, b A) A
}

// Reduce folds every i in [0, n) into a worker-private accumulator seeded
// with op.Identity, then merges each worker's accumulator into the shared
// result inside the team's critical section. The result is read only after
// the join.
func Reduce[A any](ctx context.Context, team *Team, n int, sched Schedule, op Op[A], fold func(acc A, i int) A) (A, error) {
	var zero A
	if err := sched.Validate(); err != nil {
		return zero, err
	}
	d := newDispatcher(n, team.threads, sched)
	shared := op.Identity()

	err := team.region(ctx, "reduce:"+op.Name, func(ctx context.Context, w Worker) error {
		local := op.Identity()
		if err := team.each(ctx, d, w, func(r Range) {
			for i := r.Start; i < r.End; i++ {
				local = fold(local, i)
			}
		}); err != nil {
			return err
		}

		team.Critical(func() {
			shared = op.Combine(shared, local)
		})
		team.metrics.MergeDone()
		return nil
	})
	if err != nil {
		return zero, err
	}
	return shared, nil
}

// Unsigned is the set of unsigned integer types Sum accepts. Arithmetic wraps
// modulo 2^bits.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Sum is the "+" operator with identity 0.
func Sum[T Unsigned]() Op[T] {
	return Op[T]{
		Name:     "+",
		Identity: func() T { return 0 },
		Combine:  func(a, b T) T { return a + b },
	}
}

