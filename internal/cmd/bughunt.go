package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/kolkov/forkjoin/internal/bughunt"
	"github.com/kolkov/forkjoin/internal/race/detector"
)

// ErrRacesFound is returned by the audit command when the replay found data
// races, so the process exits non-zero.
var ErrRacesFound = errors.New("data races found")

func (a *app) newBughuntCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bughunt <n> <thread_count>",
		Short: "Compute statistics of the first n triangular numbers in parallel",
		Long: `Build a[0] = 1, a[i] = a[i-1] + (i+1) sequentially, then compute sum, min,
max, average and even count with thread_count workers using private
accumulators merged in a critical section.`,
		Args: exactArgs(2),
		RunE: a.runBughunt,
	}
	cmd.Flags().String("schedule", "", "loop schedule: static|dynamic|guided[,chunk] (default from config)")
	return cmd
}

func (a *app) runBughunt(cmd *cobra.Command, args []string) error {
	n, err := parseInt("n", args[0])
	if err != nil {
		return err
	}
	if n < bughunt.MinElements || n > bughunt.MaxElements {
		return &bughunt.ValidationError{Field: "n", Value: n, Err: bughunt.ErrRange}
	}
	threads, err := a.parseThreads(args[1])
	if err != nil {
		return err
	}
	sched, err := schedule(cmd, a.cfg.Schedule)
	if err != nil {
		return err
	}

	log := a.log.WithComponent("bughunt").With("n", n, "threads", threads)
	if threads > n {
		log.Warn("more threads than elements, some workers stay idle")
	}

	team, err := a.newTeam(threads)
	if err != nil {
		return err
	}
	res, err := bughunt.Run(cmd.Context(), team, n, sched)
	if err != nil {
		return err
	}
	log.Info("run complete", "schedule", sched.String())
	return bughunt.WriteReport(cmd.OutOrStdout(), res)
}

func (a *app) newAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit <n> <thread_count>",
		Short: "Replay the bug hunt through a happens-before race detector",
		Long: `Replay the buggy or the fixed bug-hunt loops with thread_count workers and
report every data race, mapped to the five bugs of the exercise. Exits with
status 1 when races are found.`,
		Args: exactArgs(2),
		RunE: a.runAudit,
	}
	cmd.Flags().String("variant", "", "buggy or solution (default from config)")
	cmd.Flags().BoolP("quiet", "q", false, "print only the summary, not each race report")
	return cmd
}

func (a *app) runAudit(cmd *cobra.Command, args []string) error {
	n, err := parseInt("n", args[0])
	if err != nil {
		return err
	}
	threads, err := a.parseThreads(args[1])
	if err != nil {
		return err
	}

	name, _ := cmd.Flags().GetString("variant")
	if name == "" {
		name = a.cfg.Audit.Variant
	}
	variant, err := bughunt.ParseVariant(name)
	if err != nil {
		return err
	}

	opts := []detector.Option{
		detector.WithLogger(a.log),
		detector.WithMetrics(a.metrics),
	}
	if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet {
		opts = append(opts, detector.WithOutput(cmd.OutOrStdout()))
	}

	res, err := bughunt.Audit(n, threads, variant, opts...)
	if err != nil {
		return err
	}
	if err := bughunt.WriteAudit(cmd.OutOrStdout(), res); err != nil {
		return err
	}
	a.log.WithComponent("audit").With("n", n, "threads", threads).Info("replay complete",
		"variant", variant.String(),
		"races", res.Races,
		"promotions", res.Stats.Promotions,
	)
	if !res.Clean() {
		return ErrRacesFound
	}
	return nil
}
