// Package bughunt is the triangular-number statistics exercise: a sequential
// builder for a[i] = a[i-1] + (i+1), a parallel reducer computing sum, min,
// max and even count with private accumulators, the fixed-layout report, and
// an auditor that replays the broken and fixed versions of the loops through
// the happens-before detector to show which of the five classic bugs each
// one has.
package bughunt
