package bughunt

// MinElements is the smallest n the exercise accepts: the report always
// prints the first six elements.
const MinElements = 6

// MaxElements is the largest n the exercise accepts. The sequence is held in
// memory, 8 bytes per element.
const MaxElements = 1 << 26

// Sequence holds the first n triangular numbers.
type Sequence []uint64

// Build computes a[0] = 1, a[i] = a[i-1] + (i+1) for i < n.
//
// Each element depends on the previous one, so the loop runs sequentially on
// the calling goroutine. n outside [MinElements, MaxElements] is rejected
// before anything is allocated.
func Build(n int) (Sequence, error) {
	if n < MinElements || n > MaxElements {
		return nil, &ValidationError{Field: "n", Value: n, Err: ErrRange}
	}

	seq := make(Sequence, n)
	seq[0] = 1
	for i := 1; i < n; i++ {
		seq[i] = seq[i-1] + uint64(i+1)
	}
	return seq, nil
}

