package cmd

import (
	"slices"

	"github.com/spf13/cobra"

	"github.com/kolkov/forkjoin/internal/lessons"
	"github.com/kolkov/forkjoin/internal/parallel"
)

type lessonRun struct {
	upper int
	team  *parallel.Team
}

func (a *app) newHelloCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hello <thread_count>",
		Short: "Greet from every worker of a parallel region",
		Long: `Every worker of one parallel region checks in with its ID. Workers run
concurrently, so the check-in order differs between runs; the greetings are
sorted by ID unless --unordered is given.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			threads, err := a.parseThreads(args[0])
			if err != nil {
				return err
			}
			team, err := a.newTeam(threads)
			if err != nil {
				return err
			}
			ids, err := lessons.Hello(cmd.Context(), team)
			if err != nil {
				return err
			}
			if unordered, _ := cmd.Flags().GetBool("unordered"); !unordered {
				slices.Sort(ids)
			}
			return lessons.WriteHello(cmd.OutOrStdout(), ids)
		},
	}
	cmd.Flags().Bool("unordered", false, "print greetings in check-in order")
	return cmd
}

// sumArgs parses "<thread_count> <upper>" and builds the team.
func (a *app) sumArgs(args []string) (*lessonRun, error) {
	threads, err := a.parseThreads(args[0])
	if err != nil {
		return nil, err
	}
	upper, err := parseInt("upper_bound", args[1])
	if err != nil {
		return nil, err
	}
	team, err := a.newTeam(threads)
	if err != nil {
		return nil, err
	}
	return &lessonRun{upper: upper, team: team}, nil
}

func (a *app) newSumCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sum <thread_count> <upper_bound>",
		Short: "Sum 1..upper_bound with a parallel loop and a + reduction",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			run, err := a.sumArgs(args)
			if err != nil {
				return err
			}
			sched, err := schedule(cmd, a.cfg.Schedule)
			if err != nil {
				return err
			}
			res, err := lessons.SumTo(cmd.Context(), run.team, run.upper, sched)
			if err != nil {
				return err
			}
			return lessons.WriteSum(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().String("schedule", "", "loop schedule: static|dynamic|guided[,chunk] (default from config)")
	return cmd
}

func (a *app) newReductionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reduction <thread_count> <upper_bound>",
		Short: "Sum 1..upper_bound with per-worker bounds and a + reduction",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			run, err := a.sumArgs(args)
			if err != nil {
				return err
			}
			res, bounds, err := lessons.ManualSum(cmd.Context(), run.team, run.upper)
			if err != nil {
				return err
			}
			if err := lessons.WriteBounds(cmd.OutOrStdout(), bounds); err != nil {
				return err
			}
			return lessons.WriteSum(cmd.OutOrStdout(), res)
		},
	}
}

func (a *app) newScheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule <thread_count> <upper_bound>",
		Short: "Show which worker runs each iteration under a loop schedule",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			run, err := a.sumArgs(args)
			if err != nil {
				return err
			}
			sched, err := schedule(cmd, lessons.DefaultLessonSchedule.String())
			if err != nil {
				return err
			}
			res, assignments, err := lessons.ScheduledSum(cmd.Context(), run.team, run.upper, sched)
			if err != nil {
				return err
			}
			if err := lessons.WriteAssignments(cmd.OutOrStdout(), assignments); err != nil {
				return err
			}
			return lessons.WriteSum(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().String("schedule", "", "loop schedule: static|dynamic|guided[,chunk] (default static,2)")
	return cmd
}

func (a *app) newScopeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scope <thread_count> <upper_bound>",
		Short: "Sum 1..upper_bound with private local sums merged in a critical section",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			run, err := a.sumArgs(args)
			if err != nil {
				return err
			}
			res, bounds, err := lessons.CriticalSum(cmd.Context(), run.team, run.upper)
			if err != nil {
				return err
			}
			if err := lessons.WriteBounds(cmd.OutOrStdout(), bounds); err != nil {
				return err
			}
			return lessons.WriteSum(cmd.OutOrStdout(), res)
		},
	}
}
