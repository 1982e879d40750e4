package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// GoldenDir holds one <scenario name>.golden transcript per scenario,
// relative to the test's package directory. Regenerate with
//
//	go test ./internal/harness -update
const GoldenDir = "testdata/golden"

// RunWithGolden plays scenario and fails t when its transcript differs from
// the stored one. The error reports scenarios that could not be played.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()
	result, err := Run(scenario)
	if err == nil {
		AssertGolden(t, scenario.Name, result)
	}
	return result, err
}

// AssertGolden checks the transcript of a finished run.
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()
	goldie.New(t,
		goldie.WithFixtureDir(GoldenDir),
		goldie.WithNameSuffix(".golden"),
	).Assert(t, name, []byte(result.Transcript(name)))
}
