package scenario

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSpecScenarios runs every spec.md §8 scenario recorded in
// testdata/scenarios/spec_scenarios.yaml and fails loudly, naming the
// scenario, if any one of them regresses.
func TestSpecScenarios(t *testing.T) {
	suite, err := Load(filepath.Join("..", "..", "testdata", "scenarios", "spec_scenarios.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, suite.Cases)

	for _, outcome := range RunAll(suite) {
		outcome := outcome
		t.Run(outcome.Case.Name, func(t *testing.T) {
			assert.True(t, outcome.Passed, outcome.Failure)
		})
	}
}
