package lessons

import (
	"fmt"
	"io"
	"strings"
)

// WriteHello prints one greeting per worker.
func WriteHello(w io.Writer, ids []int) error {
	var b strings.Builder
	for _, id := range ids {
		fmt.Fprintf(&b, "Hello from thread %d\n", id)
	}
	return write(w, b.String())
}

// WriteBounds prints each worker's share followed by a blank line.
func WriteBounds(w io.Writer, bounds []Bounds) error {
	var b strings.Builder
	for _, bd := range bounds {
		fmt.Fprintf(&b, "Thread %d: local_start = %d, local_end = %d\n", bd.Worker, bd.Start, bd.End)
	}
	b.WriteString("\n")
	return write(w, b.String())
}

// WriteAssignments prints which worker ran each iteration.
func WriteAssignments(w io.Writer, assignments []Assignment) error {
	var b strings.Builder
	for _, a := range assignments {
		fmt.Fprintf(&b, "Iteration %d: thread %d\n", a.Iteration, a.Worker)
	}
	b.WriteString("\n")
	return write(w, b.String())
}

// WriteSum prints the expected and computed sums and the verdict.
func WriteSum(w io.Writer, r SumResult) error {
	verdict := "incorrect!"
	if r.Correct() {
		verdict = "correct!!!"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Expected sum from 1 to %d: %d\n", r.Upper, r.Expected)
	fmt.Fprintf(&b, "Sum we computed from 1 to %d: %d\n", r.Upper, r.Computed)
	fmt.Fprintf(&b, "Result is %s\n", verdict)
	return write(w, b.String())
}

func write(w io.Writer, s string) error {
	if _, err := io.WriteString(w, s); err != nil {
		return fmt.Errorf("write lesson output: %w", err)
	}
	return nil
}
