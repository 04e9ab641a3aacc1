package foreach

// ExitFailure is the exit code of a run in which any command failed,
// whatever the individual exit codes were.
const ExitFailure = 2

// Result summarizes a run.
type Result struct {
	ExitCode int
	Total    int
	Failed   int
	Outcomes []Outcome
}

// Aggregate folds outcomes into a run result. ExitCode is 0 iff every
// outcome succeeded; an empty run succeeds.
func Aggregate(outcomes []Outcome) Result {
	res := Result{Total: len(outcomes), Outcomes: outcomes}
	for _, o := range outcomes {
		if o.Failed() {
			res.Failed++
		}
	}
	if res.Failed > 0 {
		res.ExitCode = ExitFailure
	}
	return res
}
