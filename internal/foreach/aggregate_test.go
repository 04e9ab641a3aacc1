package foreach

import "testing"

func TestAggregate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		codes      []int
		wantCode   int
		wantFailed int
	}{
		{"no outcomes", nil, 0, 0},
		{"all succeed", []int{0, 0, 0}, 0, 0},
		{"one fails", []int{0, 7}, ExitFailure, 1},
		{"code is fixed regardless of child code", []int{1}, ExitFailure, 1},
		{"many fail", []int{ExitTimeout, 255, ExitLaunch, 0}, ExitFailure, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			outcomes := make([]Outcome, len(tt.codes))
			for i, c := range tt.codes {
				outcomes[i] = Outcome{ExitCode: c}
			}
			res := Aggregate(outcomes)
			if res.ExitCode != tt.wantCode {
				t.Errorf("ExitCode = %d, want %d", res.ExitCode, tt.wantCode)
			}
			if res.Failed != tt.wantFailed || res.Total != len(tt.codes) {
				t.Errorf("Failed/Total = %d/%d, want %d/%d", res.Failed, res.Total, tt.wantFailed, len(tt.codes))
			}
		})
	}
}
