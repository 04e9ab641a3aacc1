// Package foreach runs a shell command inside every discovered repository
// and folds the results into one exit code.
//
// An [Executor] runs one command in one repository. The child sees two
// extra environment variables:
//
//   - path: the repository relative to its search root, slash-terminated
//     ("repo1/", "group/repo2/", or "./" for the root itself)
//   - toplevel: the absolute search root
//
// Both are set on the child only. The parent environment is never touched,
// so concurrent invocations cannot see each other's values.
//
// A [Runner] feeds scanned repositories through the status filter into the
// executor, either one at a time with output streamed as it arrives, or
// with up to Jobs commands in flight. In parallel mode each command's
// output is buffered and flushed in discovery order.
//
// [Aggregate] maps outcomes to the process exit code: 0 when every command
// succeeded, [ExitFailure] otherwise.
package foreach
