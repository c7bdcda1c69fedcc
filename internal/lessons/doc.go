// Package lessons holds the short fork-join tutorials that lead up to the
// bug hunt: a hello-from-every-worker region, a parallel-for sum, a sum with
// hand-computed bounds, a scheduling demo and a critical-section merge.
//
// Each sum lesson adds 1..upper and checks the result against upper(upper+1)/2.
package lessons
