package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/colorprofile"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/raphi011/gitscan/internal/foreach"
	"github.com/raphi011/gitscan/internal/log"
	"github.com/raphi011/gitscan/internal/output"
	"github.com/raphi011/gitscan/internal/ui/styles"
)

func newForeachCmd() *cobra.Command {
	var (
		scanOpts scanFlags
		command  string
		shell    string
		jobs     int
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:     "foreach [path...]",
		Short:   "Run a shell command in every matching repository",
		GroupID: GroupCore,
		Long: `Run a shell command in every git working copy found below the given
paths (default: the current directory).

The command runs as "<shell> -c <command>" with the repository as its
working directory. Two variables are added to its environment:

  path      the repository path relative to its search path, e.g. "lib/"
  toplevel  the absolute search path the repository was found under

Command output is forwarded as it arrives. A failing command is reported
with the repository path and does not stop the run. The exit code is 0
when every command succeeded and 2 when any failed.`,
		Example: `  gitscan foreach -c 'git pull --ff-only'
  gitscan foreach -s novel -c 'git status -s' ~/src ~/work
  gitscan foreach -j 8 --timeout 1m -c 'git fetch' ~/src
  gitscan foreach -c 'echo "$toplevel/$path"'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if command == "" {
				return errors.New("--command must not be empty")
			}
			plan, err := scanOpts.plan(cmd, args)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)
			flags := cmd.Flags()

			if !flags.Changed("jobs") {
				jobs = plan.cfg.Jobs
			}
			if jobs < 0 {
				return fmt.Errorf("invalid jobs %d: must not be negative", jobs)
			}
			if !flags.Changed("timeout") {
				timeout = plan.cfg.Timeout.Duration
			}
			if timeout < 0 {
				return fmt.Errorf("invalid timeout %s: must not be negative", timeout)
			}
			if !flags.Changed("shell") {
				shell = plan.cfg.Shell
			}

			stdoutProfile := colorprofile.Detect(out.Writer(), os.Environ())
			stderrProfile := colorprofile.Detect(out.ErrWriter(), os.Environ())

			executor := &foreach.Executor{
				Command:       command,
				Shell:         shell,
				Timeout:       timeout,
				Verbose:       l.IsVerbose(),
				StdoutProfile: stdoutProfile,
				StderrProfile: stderrProfile,
			}
			if jobs <= 1 && isTerminal(os.Stdin) {
				executor.Stdin = os.Stdin
			}

			if l.IsVerbose() {
				out.Println(styles.Render(stdoutProfile, styles.BannerStyle, "[[ Finding repositories ]]"))
			}

			runner := &foreach.Runner{
				Executor: executor,
				Filter:   plan.filter,
				Roots:    plan.roots,
				Jobs:     jobs,
				Stdout:   out.Writer(),
				Stderr:   out.ErrWriter(),
			}
			res := runner.Run(ctx, plan.scanner.Scan(ctx, plan.roots))

			for _, o := range res.Outcomes {
				l.Debug("done", "root", o.Root, "path", o.RelPath, "exit", o.ExitCode, "duration", o.Duration.Round(time.Millisecond))
			}

			if l.IsVerbose() {
				l.Printf("[[ %d %s, %d failed ]]\n", res.Total, plural(res.Total, "repository", "repositories"), res.Failed)
			}
			// An interrupted run failed even if every started command passed.
			if ctx.Err() != nil {
				return &exitError{code: foreach.ExitFailure}
			}
			if res.ExitCode != 0 {
				return &exitError{code: res.ExitCode}
			}
			return nil
		},
	}

	scanOpts.register(cmd)
	cmd.Flags().StringVarP(&command, "command", "c", "", "Shell command line to run in each repository (required)")
	cmd.Flags().StringVar(&shell, "shell", "", "Shell that runs the command (default from config, \"sh\")")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "Run up to N commands at once, output stays in discovery order")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Kill a command after this long (exit code 124)")
	cmd.MarkFlagRequired("command")

	return cmd
}

// isTerminal reports whether f is an interactive terminal.
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
