// Package syncshadow tracks the happens-before edges created by the
// synchronization a parallel region uses: critical-section locks and the
// join barrier at the end of the region.
//
// Lock edges follow FastTrack:
//
//	Acquire(m):  Ct := Ct ⊔ Lm
//	Release(m):  Lm := Ct
//
// The barrier accumulates every member's clock when it finishes and hands the
// union to the controlling thread when it waits:
//
//	Done(b):     Bb := Bb ⊔ Ct
//	Wait(b):     Cmaster := Cmaster ⊔ Bb
//
// Example (critical merge):
//
//	// worker 1
//	Acquire(critical); sum += local; Release(critical)
//
//	// worker 2, later
//	Acquire(critical)  // C2 now includes worker 1's update of sum
//	sum += local       // ordered, no race
package syncshadow
