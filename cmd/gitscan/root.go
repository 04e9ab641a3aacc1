package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/raphi011/gitscan/internal/config"
	"github.com/raphi011/gitscan/internal/log"
	"github.com/raphi011/gitscan/internal/output"
	"github.com/raphi011/gitscan/internal/ui/styles"
)

var (
	// Global flags
	verbosity int
	quiet     bool

	// Shared state injected into commands
	workDir string
)

// Command group IDs for organizing help output
const (
	GroupCore   = "core"
	GroupConfig = "config"
)

// skipConfig marks commands that must work with a broken config file.
const skipConfig = "skip-config"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gitscan",
	Short: "Find git working copies and run commands in them",
	Long: `gitscan discovers git working copies below one or more directories,
classifies each as novel (has local changes or is out of sync) or boring
(clean and in sync), and runs shell commands in the ones you select.`,
	SilenceUsage:               true,
	SilenceErrors:              true,
	SuggestionsMinimumDistance: 2,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		ctx = log.WithLogger(ctx, log.New(output.FromContext(ctx).ErrWriter(), verbosity, quiet))

		if needsConfig(cmd) {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := styles.Init(cfg.Theme); err != nil {
				return err
			}
			ctx = config.WithConfig(ctx, &cfg)
			ctx = config.WithResolver(ctx, config.NewResolver(&cfg))
		}

		cmd.SetContext(ctx)
		return nil
	},
	// Run is not set - shows help when no subcommand provided
}

// needsConfig reports whether cmd reads the config file. Help and
// completion must keep working when the file is broken.
func needsConfig(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
		return false
	}
	return cmd.Annotations[skipConfig] == ""
}

// exitError ends the process with code. A nil err means the failure was
// already reported and nothing more is printed.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

// Execute runs the root command and returns the process exit code.
func Execute() int {
	var err error
	workDir, err = os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "gitscan: failed to get working directory: %v\n", err)
		return 1
	}

	// Create context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Add output printer (stdout for primary data)
	ctx = output.WithPrinter(ctx, output.New(os.Stdout, os.Stderr))

	return run(ctx, rootCmd)
}

// run executes cmd and maps its error to an exit code.
func run(ctx context.Context, cmd *cobra.Command) int {
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) && exitErr.err == nil {
		return exitErr.code
	}
	code := 1
	if exitErr != nil {
		code = exitErr.code
	}

	errW := output.FromContext(ctx).ErrWriter()
	fmt.Fprintln(errW, err)
	fmt.Fprintln(errW)
	fmt.Fprintf(errW, "Run '%s -h' for help\n", cmd.Root().Name())
	return code
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Show banners and a summary (-vv: also debug lines and git commands)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all diagnostics")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	// Version flag
	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Add command groups for organized help output
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupCore, Title: "Core Commands:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"},
	)
	rootCmd.SetHelpCommandGroupID(GroupConfig)

	// Core commands
	rootCmd.AddCommand(newForeachCmd())
	rootCmd.AddCommand(newStatusCmd())

	// Config commands
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newCompletionCmd())
}
