package parallel

import "context"

// For runs body(w, i) for every i in [0, n), distributing iterations over
// the team according to sched. Each i is run exactly once.
func (t *Team) For(ctx context.Context, n int, sched Schedule, body func(w Worker, i int)) error {
	if err := sched.Validate(); err != nil {
		return err
	}
	d := newDispatcher(n, t.threads, sched)

	return t.region(ctx, "for", func(ctx context.Context, w Worker) error {
		return t.each(ctx, d, w, func(r Range) {
			for i := r.Start; i < r.End; i++ {
				body(w, i)
			}
		})
	})
}
