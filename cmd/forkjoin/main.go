// Command forkjoin runs the fork-join parallel programming lessons, the
// triangular-number bug hunt, and its data race audit.
package main

import (
	"fmt"
	"os"

	"github.com/kolkov/forkjoin/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
