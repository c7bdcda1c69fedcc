package bughunt

import (
	"fmt"
	"io"
	"strings"
)

// WriteReport prints the first six elements, the last one, and the
// statistics:
//
//	Array[0]:   1
//	...
//	Array[99]:  5050
//	Sum:        171700
//	Min:        1
//	Max:        5050
//	Average:    1717.00
//	Even count: 50
func WriteReport(w io.Writer, r *Result) error {
	var b strings.Builder

	for i := range MinElements {
		fmt.Fprintf(&b, "Array[%d]:   %d\n", i, r.Sequence[i])
	}
	b.WriteString("...\n")
	last := len(r.Sequence) - 1
	fmt.Fprintf(&b, "Array[%d]:  %d\n", last, r.Sequence[last])

	fmt.Fprintf(&b, "Sum:        %d\n", r.Aggregate.Sum)
	fmt.Fprintf(&b, "Min:        %d\n", r.Aggregate.Min)
	fmt.Fprintf(&b, "Max:        %d\n", r.Aggregate.Max)
	fmt.Fprintf(&b, "Average:    %.2f\n", r.Average)
	fmt.Fprintf(&b, "Even count: %d\n", r.Aggregate.EvenCount)

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
