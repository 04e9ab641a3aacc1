// Package cmd provides helpers for executing external commands with proper
// error handling and debug logging.
//
// These wrap [os/exec.Cmd] to capture stderr and include it in error
// messages, so that a failing git invocation reports git's own complaint
// rather than a bare "exit status 128".
//
// # Usage
//
//	if err := cmd.RunContext(ctx, repoPath, "git", "fetch"); err != nil {
//	    return fmt.Errorf("fetch: %w", err)
//	}
//
//	out, err := cmd.OutputContext(ctx, repoPath, "git", "status", "--porcelain=v2")
//
// Every call is logged through the context logger at debug level (-vv)
// together with its duration.
//
// The user's foreach command is not run through this package: it streams
// instead of capturing, see the foreach package.
package cmd
