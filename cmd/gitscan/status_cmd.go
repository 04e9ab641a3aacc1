package main

import (
	"io"
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/spf13/cobra"

	"github.com/raphi011/gitscan/internal/foreach"
	"github.com/raphi011/gitscan/internal/fsutil"
	"github.com/raphi011/gitscan/internal/log"
	"github.com/raphi011/gitscan/internal/output"
	"github.com/raphi011/gitscan/internal/ui/static"
)

func newStatusCmd() *cobra.Command {
	var scanOpts scanFlags

	cmd := &cobra.Command{
		Use:     "status [path...]",
		Short:   "List repositories with their status",
		Aliases: []string{"ls"},
		GroupID: GroupCore,
		Long: `List the git working copies found below the given paths (default: the
current directory) with their status.

A repository is novel when it has uncommitted changes, unpushed or
unpulled commits, stashes, or no upstream branch. Otherwise it is boring.

Flags column:
  S staged  M modified  N untracked  P ahead  B behind  U no upstream  H stash`,
		Example: `  gitscan status
  gitscan status -s novel ~/src`,
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := scanOpts.plan(cmd, args)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			l := log.FromContext(ctx)

			var rows [][]string
			for repo := range plan.scanner.Scan(ctx, plan.roots) {
				if !plan.filter.Matches(repo.Status) {
					continue
				}
				rel, err := fsutil.RelativeDir(repo.Path, fsutil.FirstParent(repo.Path, plan.roots))
				if err != nil {
					rel = repo.Path
				}
				rows = append(rows, static.StatusTableRow(repo, rel))
			}
			if ctx.Err() != nil {
				return &exitError{code: foreach.ExitInterrupted}
			}

			l.Debug("status", "matches", len(rows), "filter", plan.filter)
			if len(rows) == 0 {
				if l.IsVerbose() {
					l.Println("No repositories match.")
				}
				return nil
			}

			w := colorprofile.NewWriter(output.FromContext(ctx).Writer(), os.Environ())
			_, err = io.WriteString(w, static.RenderTable(static.StatusHeaders, rows))
			return err
		},
	}

	scanOpts.register(cmd)

	return cmd
}
