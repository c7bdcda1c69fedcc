// Package cmd implements the forkjoin command line.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kolkov/forkjoin/internal/bughunt"
	"github.com/kolkov/forkjoin/internal/config"
	"github.com/kolkov/forkjoin/internal/logging"
	"github.com/kolkov/forkjoin/internal/metrics"
	"github.com/kolkov/forkjoin/internal/parallel"
)

// app is the state shared by every command of one invocation.
type app struct {
	cfgFile string

	cfg     *config.Config
	log     *logging.Logger
	metrics *metrics.Metrics
}

// Execute runs the command line with os.Args and the process's standard
// streams.
func Execute() error {
	return Run(os.Args[1:], os.Stdout, os.Stderr)
}

// Run executes one command line. Usage and range errors are explained on
// stdout before the error is returned.
func Run(args []string, stdout, stderr io.Writer) error {
	a := &app{}
	root := a.newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	cmd, err := root.ExecuteC()
	if dumpErr := a.metrics.Dump(stderr); dumpErr != nil && err == nil {
		err = dumpErr
	}
	if err != nil {
		explain(stdout, cmd, err)
	}
	return err
}

func (a *app) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "forkjoin",
		Short: "Fork-join parallel programming lessons and the triangular-number bug hunt",
		Long: `forkjoin runs small shared-memory parallel programs built on a fork-join
team of goroutines: parallel loops, reductions, loop schedules, private and
shared variables, critical sections, and a bug-hunt exercise whose broken
version can be audited for data races.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default is $HOME/.config/forkjoin/config.yaml)")
	flags.Bool("metrics", false, "dump Prometheus metrics to stderr after the run")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("log-format", "", "log format: text or json")
	_ = viper.BindPFlag("metrics", flags.Lookup("metrics"))
	_ = viper.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("log.format", flags.Lookup("log-format"))

	root.AddCommand(
		a.newBughuntCmd(),
		a.newAuditCmd(),
		a.newHelloCmd(),
		a.newSumCmd(),
		a.newReductionCmd(),
		a.newScheduleCmd(),
		a.newScopeCmd(),
		newVersionCmd(),
	)
	return root
}

// setup loads the configuration and builds the logger and metrics.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := config.Init(a.cfgFile); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logging.NewLogger(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if cfg.Metrics {
		a.metrics = metrics.New()
	}
	return nil
}

// newTeam creates a team wired to the app's logger and metrics.
func (a *app) newTeam(threads int) (*parallel.Team, error) {
	return parallel.NewTeam(threads,
		parallel.WithLogger(a.log),
		parallel.WithMetrics(a.metrics),
	)
}

// explain prints a hint for usage and range errors.
func explain(w io.Writer, cmd *cobra.Command, err error) {
	var verr *bughunt.ValidationError
	switch {
	case errors.Is(err, bughunt.ErrRange) && errors.As(err, &verr) && tooLarge(verr.Value):
		fmt.Fprintf(w, "Please provide n <= %d.\n", bughunt.MaxElements)
	case errors.Is(err, bughunt.ErrRange):
		fmt.Fprintf(w, "Please provide n >= %d.\n", bughunt.MinElements)
	case errors.Is(err, bughunt.ErrUsage) && cmd != nil:
		fmt.Fprintf(w, "Usage: %s\n", cmd.UseLine())
	}
}

func tooLarge(v any) bool {
	n, ok := v.(int)
	return ok && n > bughunt.MaxElements
}
