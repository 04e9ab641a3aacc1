package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/gitscan/internal/config"
	"github.com/raphi011/gitscan/internal/fsutil"
	"github.com/raphi011/gitscan/internal/git"
	"github.com/raphi011/gitscan/internal/scan"
	"github.com/raphi011/gitscan/internal/status"
)

// scanFlags are the discovery flags shared by foreach and status.
type scanFlags struct {
	status         string
	nested         bool
	followSymlinks bool
}

func (f *scanFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.status, "status", "s", string(status.FilterAll), "Select repositories by status: all, novel, or boring")
	cmd.Flags().BoolVar(&f.nested, "nested", false, "Also report working copies nested inside other working copies")
	cmd.Flags().BoolVar(&f.followSymlinks, "follow-symlinks", false, "Follow symlinked directories while scanning")

	cmd.RegisterFlagCompletionFunc("status", cobra.FixedCompletions(status.ValidFilters, cobra.ShellCompDirectiveNoFileComp))
}

// scanPlan is a validated scan, ready to run.
type scanPlan struct {
	cfg     *config.Config
	roots   []string
	filter  status.Filter
	scanner *scan.Scanner
}

// plan validates the flags and arguments of cmd against the loaded config.
// Every error it returns is a usage error, reported before anything is
// scanned.
func (f *scanFlags) plan(cmd *cobra.Command, args []string) (*scanPlan, error) {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	resolver := config.ResolverFromContext(ctx)
	flags := cmd.Flags()

	filterName := cfg.Status
	if flags.Changed("status") {
		filterName = f.status
	}
	filter, err := status.ParseFilter(filterName)
	if err != nil {
		return nil, err
	}

	roots, err := fsutil.ResolveRoots(workDir, args)
	if err != nil {
		return nil, err
	}
	for _, root := range roots {
		if _, err := resolver.ConfigForRoot(root); err != nil {
			return nil, err
		}
	}

	if cfg.GitBackend == git.BackendCLI {
		if err := git.CheckGit(); err != nil {
			return nil, err
		}
	}
	reader, err := git.NewStatusReader(cfg.GitBackend)
	if err != nil {
		return nil, err
	}

	s := &scan.Scanner{
		Status:         reader,
		Nested:         cfg.Nested,
		FollowSymlinks: cfg.FollowSymlinks,
		RootSkip:       resolver.SkipForRoot,
	}
	if flags.Changed("nested") {
		s.Nested = f.nested
	}
	if flags.Changed("follow-symlinks") {
		s.FollowSymlinks = f.followSymlinks
	}

	return &scanPlan{cfg: cfg, roots: roots, filter: filter, scanner: s}, nil
}
