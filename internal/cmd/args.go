package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kolkov/forkjoin/internal/bughunt"
	"github.com/kolkov/forkjoin/internal/parallel"
)

// exactArgs is cobra.ExactArgs reporting bughunt.ErrUsage.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return fmt.Errorf("%w: %s takes %d argument(s), got %d", bughunt.ErrUsage, cmd.Name(), n, len(args))
		}
		return nil
	}
}

// parseInt parses a decimal argument.
func parseInt(field, s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, &bughunt.ValidationError{Field: field, Value: s, Err: bughunt.ErrUsage}
	}
	return v, nil
}

// parseThreads parses a thread count and checks it against the configured
// maximum.
func (a *app) parseThreads(s string) (int, error) {
	threads, err := parseInt("thread_count", s)
	if err != nil {
		return 0, err
	}
	if threads < 1 || threads > a.cfg.MaxThreads {
		return 0, &bughunt.ValidationError{
			Field: "thread_count",
			Value: threads,
			Err:   fmt.Errorf("%w: must be 1..%d", parallel.ErrInvalidThreads, a.cfg.MaxThreads),
		}
	}
	return threads, nil
}

// schedule returns the --schedule flag value, or fallback when unset.
func schedule(cmd *cobra.Command, fallback string) (parallel.Schedule, error) {
	s, _ := cmd.Flags().GetString("schedule")
	if s == "" {
		s = fallback
	}
	return parallel.ParseSchedule(s)
}
